// Package view turns a processing result into something an operator can read:
// a styled text summary, indented JSON, or a spreadsheet report.
package view

import (
	"fmt"
	"strings"

	"medocr/internal/intake"
)

// NoneIndicator is shown instead of an empty export list.
const NoneIndicator = "None"

// Summary is the display projection of a Result.
type Summary struct {
	ProcessedFiles int
	TotalRecords   int
	TotalFiles     int
	Exports        []string
	Processed      []intake.FileOutcome
	Failures       []intake.FileFailure
}

// Summarize projects r for display. It returns nil for a nil result, meaning
// nothing is shown.
func Summarize(r *intake.Result) *Summary {
	if r == nil {
		return nil
	}
	return &Summary{
		ProcessedFiles: r.ProcessedFiles,
		TotalRecords:   r.TotalRecords,
		TotalFiles:     r.TotalFiles,
		Exports:        append([]string(nil), r.CSVFilesCreated...),
		Processed:      append([]intake.FileOutcome(nil), r.FilesProcessed...),
		Failures:       append([]intake.FileFailure(nil), r.FilesFailed...),
	}
}

// ExportsLine lists the created exports, or NoneIndicator.
func (s *Summary) ExportsLine() string {
	if len(s.Exports) == 0 {
		return NoneIndicator
	}
	return strings.Join(s.Exports, ", ")
}

// ShowFailures reports whether the failed-files section is shown.
func (s *Summary) ShowFailures() bool {
	return len(s.Failures) > 0
}

// FailureLines returns one "filename — error" line per failure, in the order
// the backend reported them.
func (s *Summary) FailureLines() []string {
	lines := make([]string, 0, len(s.Failures))
	for _, f := range s.Failures {
		lines = append(lines, fmt.Sprintf("%s — %s", f.Filename, f.Error))
	}
	return lines
}
