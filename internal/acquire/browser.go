package acquire

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"medocr/internal/intake"
	"medocr/internal/logger"
)

// BrowserPicker produces in-memory files. Only the base name of each file is
// kept; the path the host used to locate it is discarded.
type BrowserPicker struct {
	host      Host
	readFile  func(string) ([]byte, error)
	selection intake.Selection
	log       zerolog.Logger
}

// NewBrowserPicker creates a picker that reads files from the local filesystem.
func NewBrowserPicker(host Host) *BrowserPicker {
	return NewBrowserPickerWithReader(host, os.ReadFile)
}

// NewBrowserPickerWithReader creates a picker with a custom content reader.
func NewBrowserPickerWithReader(host Host, readFile func(string) ([]byte, error)) *BrowserPicker {
	return &BrowserPicker{
		host:     host,
		readFile: readFile,
		log:      logger.WithComponent("browser-picker"),
	}
}

func (p *BrowserPicker) Kind() intake.Kind { return intake.KindInMemory }

// SelectFiles loads every chosen file into memory. If any file cannot be read
// the pick fails as a whole and the previous selection is kept.
func (p *BrowserPicker) SelectFiles(ctx context.Context) (intake.Selection, error) {
	paths, err := p.host.OpenFiles(ctx)
	if err != nil {
		return p.selection, fmt.Errorf("open file picker: %w", err)
	}
	if len(paths) == 0 {
		p.log.Debug().Int("kept", len(p.selection)).Msg("File picker cancelled, keeping previous selection")
		return p.selection, nil
	}

	sel := make(intake.Selection, 0, len(paths))
	var total int
	for _, path := range paths {
		name := filepath.Base(path)
		content, err := p.readFile(path)
		if err != nil {
			p.log.Error().Err(err).Str("file", name).Msg("Failed to load selected file")
			return p.selection, fmt.Errorf("failed to load %s: %w", name, err)
		}
		warnUnsupported(p.log, name)
		total += len(content)
		sel = append(sel, intake.InMemoryFile{Name: name, Content: content})
	}

	p.selection = sel
	p.log.Info().
		Int("files", len(sel)).
		Int("bytes", total).
		Msg("Files loaded for upload")
	return p.selection, nil
}

// SelectOutputLocation always fails: the backend decides output disposition
// for uploaded files.
func (p *BrowserPicker) SelectOutputLocation(context.Context) (intake.OutputLocation, error) {
	return "", ErrOutputLocationUnsupported
}

func (p *BrowserPicker) Selection() intake.Selection { return p.selection }

func (p *BrowserPicker) OutputLocation() intake.OutputLocation { return "" }

func warnUnsupported(log zerolog.Logger, name string) {
	if !intake.Supported(name) {
		log.Warn().
			Str("file", name).
			Strs("supported", intake.SupportedExtensions).
			Msg("File type is not known to the backend")
	}
}
