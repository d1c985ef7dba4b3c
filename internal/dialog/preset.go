// Package dialog provides the hosts that answer file and folder dialogs for
// the acquire package: native OS dialogs run out of process, interactive
// terminal forms, and preset answers taken from the command line.
package dialog

import (
	"context"
	"fmt"
	"path/filepath"
)

// Preset answers every dialog with values fixed up front, typically from
// command-line arguments. Relative paths are made absolute against the
// working directory.
type Preset struct {
	Files  []string
	Folder string
}

func (p Preset) OpenFiles(context.Context) ([]string, error) {
	paths := make([]string, 0, len(p.Files))
	for _, f := range p.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", f, err)
		}
		paths = append(paths, abs)
	}
	return paths, nil
}

func (p Preset) OpenFolder(context.Context) (string, error) {
	if p.Folder == "" {
		return "", nil
	}
	abs, err := filepath.Abs(p.Folder)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", p.Folder, err)
	}
	return abs, nil
}
