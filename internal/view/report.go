package view

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"medocr/internal/intake"
)

// Sheet names of the spreadsheet report.
const (
	SheetSummary = "Summary"
	SheetExports = "Exports"
	SheetFailed  = "Failed Files"
)

// WriteReport saves a spreadsheet summary of r for the given patient to path.
func WriteReport(path string, id intake.Identifier, r *intake.Result) (err error) {
	s := Summarize(r)
	if s == nil {
		return errors.New("no result to report")
	}

	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return err
	}
	summary := [][]any{
		{"Patient", id.String()},
		{"Files Processed", s.ProcessedFiles},
		{"Records Created", s.TotalRecords},
		{"CSV Files", s.ExportsLine()},
		{"Failed Files", len(s.Failures)},
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return err
	}

	exports := [][]any{{"CSV File"}}
	for _, name := range s.Exports {
		exports = append(exports, []any{name})
	}
	if err := addSheet(f, SheetExports, exports); err != nil {
		return err
	}

	failed := [][]any{{"Filename", "Error"}}
	for _, fail := range s.Failures {
		failed = append(failed, []any{fail.Filename, fail.Error})
	}
	if err := addSheet(f, SheetFailed, failed); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func addSheet(f *excelize.File, name string, rows [][]any) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	return writeRows(f, name, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
