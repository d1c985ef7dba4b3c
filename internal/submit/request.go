package submit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"

	"medocr/internal/intake"
)

// Wire field names of the processing endpoint.
const (
	fieldPatientID   = "patient_id"
	fieldPatientName = "patient_name"
	fieldFiles       = "files"
)

// payload is a request body built fresh for one submission.
type payload struct {
	body        []byte
	contentType string
}

// pathRequest is the JSON body used when the backend reads files by path.
type pathRequest struct {
	PatientID     string   `json:"patient_id"`
	OutputFolder  string   `json:"output_folder"`
	SelectedFiles []string `json:"selected_files"`
}

// buildPayload picks the body shape from the selection variant. The selection
// must already be validated.
func buildPayload(id intake.Identifier, sel intake.Selection, out intake.OutputLocation) (*payload, error) {
	switch sel.Kind() {
	case intake.KindInMemory:
		return buildMultipart(id, sel.InMemoryFiles())
	case intake.KindPath:
		return buildPathJSON(id, sel.Paths(), out)
	default:
		return nil, fmt.Errorf("cannot build request for %s selection", sel.Kind())
	}
}

// buildMultipart sends the identifier as both patient_id and patient_name;
// older backends read one field and newer ones the other.
func buildMultipart(id intake.Identifier, files []intake.InMemoryFile) (*payload, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField(fieldPatientID, id.String()); err != nil {
		return nil, err
	}
	if err := w.WriteField(fieldPatientName, id.String()); err != nil {
		return nil, err
	}
	for _, f := range files {
		part, err := w.CreateFormFile(fieldFiles, f.Name)
		if err != nil {
			return nil, fmt.Errorf("add %s: %w", f.Name, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, fmt.Errorf("write %s: %w", f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return &payload{body: buf.Bytes(), contentType: w.FormDataContentType()}, nil
}

func buildPathJSON(id intake.Identifier, paths []string, out intake.OutputLocation) (*payload, error) {
	body, err := json.Marshal(pathRequest{
		PatientID:     id.String(),
		OutputFolder:  out.String(),
		SelectedFiles: paths,
	})
	if err != nil {
		return nil, err
	}
	return &payload{body: body, contentType: "application/json"}, nil
}
