package submit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"medocr/internal/intake"
)

const resultSchemaJSON = `{
	"type": "object",
	"required": ["processed_files", "total_records"],
	"properties": {
		"processed_files": {"type": "integer", "minimum": 0},
		"total_records": {"type": "integer", "minimum": 0},
		"total_files": {"type": "integer", "minimum": 0},
		"csv_files_created": {
			"type": ["array", "null"],
			"items": {"type": "string"}
		},
		"files_failed": {
			"type": ["array", "null"],
			"items": {
				"type": "object",
				"required": ["filename", "error"],
				"properties": {
					"filename": {"type": "string"},
					"error": {"type": "string"}
				}
			}
		},
		"files_processed": {
			"type": ["array", "null"],
			"items": {
				"type": "object",
				"required": ["filename"],
				"properties": {
					"filename": {"type": "string"},
					"records_created": {"type": "integer"},
					"word_file": {"type": ["string", "null"]}
				}
			}
		}
	}
}`

var resultSchema = jsonschema.MustCompileString("processing-result.json", resultSchemaJSON)

// decodeResult parses a 2xx body. The upload endpoint wraps the result as
// {"message": ..., "result": {...}}; the wrapper is removed first.
func decodeResult(status int, body []byte) (*intake.Result, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, malformedError(status, fmt.Errorf("invalid JSON: %w", err))
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, malformedError(status, errors.New("invalid JSON: unexpected data after the result object"))
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, malformedError(status, errors.New("response is not a JSON object"))
	}
	if err := rejection(obj); err != nil {
		return nil, transportError("status", status, err)
	}

	if inner, wrapped := obj["result"].(map[string]any); wrapped {
		if _, direct := obj["processed_files"]; !direct {
			obj = inner
			if err := rejection(obj); err != nil {
				return nil, transportError("status", status, err)
			}
		}
	}

	if err := resultSchema.Validate(obj); err != nil {
		return nil, malformedError(status, err)
	}

	normalized, err := json.Marshal(integralNumbers(obj))
	if err != nil {
		return nil, malformedError(status, err)
	}
	var result intake.Result
	if err := json.Unmarshal(normalized, &result); err != nil {
		return nil, malformedError(status, err)
	}
	if result.CSVFilesCreated == nil {
		result.CSVFilesCreated = []string{}
	}
	if result.FilesFailed == nil {
		result.FilesFailed = []intake.FileFailure{}
	}
	return &result, nil
}

// integralNumbers rewrites whole numbers written in float or exponent form
// (3.0, 1e0) as plain integers so they decode into int fields. The schema has
// already accepted them as integers.
func integralNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = integralNumbers(item)
		}
	case []any:
		for i, item := range t {
			t[i] = integralNumbers(item)
		}
	case json.Number:
		if _, err := t.Int64(); err == nil {
			return t
		}
		if r, ok := new(big.Rat).SetString(t.String()); ok && r.IsInt() {
			return json.Number(r.Num().String())
		}
	}
	return v
}

// rejection returns ErrBackendRejected when the backend reports
// {"success": false}.
func rejection(obj map[string]any) error {
	success, ok := obj["success"].(bool)
	if !ok || success {
		return nil
	}
	if msg, ok := obj["error"].(string); ok && msg != "" {
		return fmt.Errorf("%w: %s", ErrBackendRejected, msg)
	}
	return ErrBackendRejected
}

// statusDetail extracts a readable message from an error response body.
func statusDetail(body []byte) string {
	var problem struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &problem); err == nil && problem.Detail != nil {
		if s, ok := problem.Detail.(string); ok {
			return s
		}
		if b, err := json.Marshal(problem.Detail); err == nil {
			return string(b)
		}
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200] + "..."
	}
	return text
}
