package dialog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/huh"
	"medocr/internal/intake"
)

// Terminal answers dialogs with interactive forms in the terminal.
type Terminal struct {
	// StartDir is where browsing starts. Defaults to the working directory.
	StartDir string
	// Accessible switches huh to its screen-reader friendly prompt mode.
	Accessible bool
}

// OpenFiles asks for a folder and then for any number of files inside it.
func (t *Terminal) OpenFiles(ctx context.Context) ([]string, error) {
	dir, err := t.startDir()
	if err != nil {
		return nil, err
	}

	err = t.run(ctx, huh.NewGroup(
		huh.NewInput().
			Title("Folder containing the documents").
			Value(&dir).
			Validate(validateDir),
	))
	if err != nil || dir == "" {
		return nil, cancelled(err)
	}

	dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	names, err := listFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no files in %s", dir)
	}

	options := make([]huh.Option[string], 0, len(names))
	for _, name := range names {
		label := name
		if !intake.Supported(name) {
			label += " (unsupported type)"
		}
		options = append(options, huh.NewOption(label, name))
	}

	var chosen []string
	err = t.run(ctx, huh.NewGroup(
		huh.NewMultiSelect[string]().
			Title("Documents to process").
			Description("space to toggle, enter to confirm").
			Options(options...).
			Height(15).
			Value(&chosen),
	))
	if err != nil {
		return nil, cancelled(err)
	}

	paths := make([]string, 0, len(chosen))
	for _, name := range chosen {
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths, nil
}

// OpenFolder lets the operator browse to a folder.
func (t *Terminal) OpenFolder(ctx context.Context) (string, error) {
	dir, err := t.startDir()
	if err != nil {
		return "", err
	}

	var folder string
	err = t.run(ctx, huh.NewGroup(
		huh.NewFilePicker().
			Title("Output folder").
			Description("exported CSV and Word files are written here").
			CurrentDirectory(dir).
			DirAllowed(true).
			FileAllowed(false).
			Picking(true).
			Height(12).
			Value(&folder),
	))
	if err != nil {
		return "", cancelled(err)
	}
	if folder == "" {
		return "", nil
	}
	return filepath.Abs(folder)
}

// PromptIdentifier asks for the patient identifier and stores it in field.
func (t *Terminal) PromptIdentifier(ctx context.Context, field *intake.IdentifierField) error {
	value := field.Value().String()
	err := t.run(ctx, huh.NewGroup(
		huh.NewInput().
			Title("Patient ID or name").
			Placeholder("e.g. P123 or JohnDoe").
			Value(&value).
			Validate(func(s string) error {
				if intake.NewIdentifier(s).Empty() {
					return errors.New("patient ID or name is required")
				}
				return nil
			}),
	))
	if err != nil {
		return err
	}
	field.Set(value)
	return nil
}

// Confirm shows items and asks a yes/no question.
func (t *Terminal) Confirm(ctx context.Context, title string, items []string) (bool, error) {
	var ok bool
	err := t.run(ctx, huh.NewGroup(
		huh.NewNote().
			Title(title).
			Description(strings.Join(items, "\n")),
		huh.NewConfirm().
			Title("Submit these files?").
			Affirmative("Submit").
			Negative("Pick again").
			Value(&ok),
	))
	return ok, err
}

func (t *Terminal) run(ctx context.Context, group *huh.Group) error {
	return huh.NewForm(group).
		WithAccessible(t.Accessible).
		WithShowHelp(true).
		RunWithContext(ctx)
}

func (t *Terminal) startDir() (string, error) {
	if t.StartDir != "" {
		return t.StartDir, nil
	}
	return os.Getwd()
}

// cancelled maps an aborted form to the empty dialog result.
func cancelled(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return nil
	}
	return err
}

func validateDir(s string) error {
	info, err := os.Stat(s)
	if err != nil {
		return fmt.Errorf("folder not found: %s", s)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a folder: %s", s)
	}
	return nil
}

// listFiles returns the regular files in dir, supported document types first,
// each group in name order.
func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var supported, other []string
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if intake.Supported(e.Name()) {
			supported = append(supported, e.Name())
		} else {
			other = append(other, e.Name())
		}
	}
	sort.Strings(supported)
	sort.Strings(other)
	return append(supported, other...), nil
}
