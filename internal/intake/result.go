package intake

// FileFailure is a per-file error reported inside an otherwise successful
// response.
type FileFailure struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// FileOutcome describes a file the backend processed successfully.
type FileOutcome struct {
	Filename       string `json:"filename"`
	RecordsCreated int    `json:"records_created"`
	WordFile       string `json:"word_file,omitempty"`
}

// Result is the parsed backend response. It is replaced wholesale by each
// successful submission and never mutated after it is received.
type Result struct {
	ProcessedFiles  int           `json:"processed_files"`
	TotalRecords    int           `json:"total_records"`
	CSVFilesCreated []string      `json:"csv_files_created"`
	FilesFailed     []FileFailure `json:"files_failed"`

	TotalFiles     int           `json:"total_files,omitempty"`
	FilesProcessed []FileOutcome `json:"files_processed,omitempty"`
}

// HasFailures reports whether any file failed inside the batch.
func (r *Result) HasFailures() bool {
	return r != nil && len(r.FilesFailed) > 0
}
