package view

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"medocr/internal/intake"
)

type styles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		label:   r.NewStyle().Foreground(lipgloss.Color("244")),
		success: r.NewStyle().Foreground(lipgloss.Color("42")),
		failure: r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		muted:   r.NewStyle().Faint(true),
	}
}

// Render writes the text summary of r to w. Nothing is written for a nil
// result. Colors are used only when w is a terminal.
func Render(w io.Writer, r *intake.Result) error {
	s := Summarize(r)
	if s == nil {
		return nil
	}
	st := newStyles(lipgloss.NewRenderer(w))

	var b strings.Builder
	b.WriteString(st.title.Render("Processing Result") + "\n")
	line := func(label, value string) {
		b.WriteString(st.label.Render(label+":") + " " + value + "\n")
	}

	line("Files Processed", fmt.Sprint(s.ProcessedFiles))
	if s.TotalFiles > 0 {
		line("Files Submitted", fmt.Sprint(s.TotalFiles))
	}
	line("Records Created", st.success.Render(fmt.Sprint(s.TotalRecords)))
	if len(s.Exports) == 0 {
		line("CSV Files", st.muted.Render(NoneIndicator))
	} else {
		line("CSV Files", s.ExportsLine())
	}

	for _, p := range s.Processed {
		detail := fmt.Sprintf("%d records", p.RecordsCreated)
		if p.WordFile != "" {
			detail += ", " + p.WordFile
		}
		b.WriteString(st.muted.Render(fmt.Sprintf("  + %s (%s)", p.Filename, detail)) + "\n")
	}

	if s.ShowFailures() {
		b.WriteString(st.failure.Render("Failed Files:") + "\n")
		for _, l := range s.FailureLines() {
			b.WriteString("  - " + l + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteJSON writes r as indented JSON. Nothing is written for a nil result.
func WriteJSON(w io.Writer, r *intake.Result) error {
	if r == nil {
		return nil
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to create JSON output: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
