// Package acquire obtains the operator's file selection and output folder.
//
// Two variants exist. BrowserPicker loads the content of the chosen files into
// memory and never exposes their filesystem paths. NativeDialog deals only in
// absolute path strings and never reads file content; the backend reads the
// files itself. Both variants take their dialogs from an injected Host.
//
// Both variants follow "last selection wins": a completed pick replaces the
// held selection entirely, and a cancelled pick leaves it untouched.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"medocr/internal/intake"
)

var (
	// ErrOutputLocationUnsupported is returned by BrowserPicker.SelectOutputLocation.
	// In upload mode the backend decides where exports go.
	ErrOutputLocationUnsupported = errors.New("output folder selection is not available in upload mode")

	// ErrUnknownMode is returned by ParseMode for unrecognized values.
	ErrUnknownMode = errors.New("unknown acquisition mode")
)

// Host opens the dialogs that let the operator pick files and folders.
// A cancelled dialog returns an empty result and a nil error.
type Host interface {
	// OpenFolder returns a single folder path, or "" when cancelled.
	OpenFolder(ctx context.Context) (string, error)
	// OpenFiles returns the chosen file paths, or none when cancelled.
	OpenFiles(ctx context.Context) ([]string, error)
}

// Acquirer is implemented by BrowserPicker and NativeDialog.
type Acquirer interface {
	// Kind is the FileReference variant produced by this acquirer.
	Kind() intake.Kind
	// SelectFiles runs the file dialog and returns the held selection
	// after applying the result.
	SelectFiles(ctx context.Context) (intake.Selection, error)
	// SelectOutputLocation runs the folder dialog and returns the held
	// output location after applying the result.
	SelectOutputLocation(ctx context.Context) (intake.OutputLocation, error)
	Selection() intake.Selection
	OutputLocation() intake.OutputLocation
}

// Mode selects the acquisition variant.
type Mode string

const (
	// ModeAuto picks ModePaths when a desktop dialog host is available and
	// ModeUpload otherwise.
	ModeAuto   Mode = "auto"
	ModeUpload Mode = "upload"
	ModePaths  Mode = "paths"
)

// ParseMode converts a flag or config value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeUpload, ModePaths:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q (must be auto, upload or paths)", ErrUnknownMode, s)
	}
}

// Resolve turns ModeAuto into a concrete mode based on host capability.
func Resolve(mode Mode, desktop bool) Mode {
	if mode != ModeAuto {
		return mode
	}
	if desktop {
		return ModePaths
	}
	return ModeUpload
}

// New returns the acquirer for a concrete mode.
func New(mode Mode, host Host) (Acquirer, error) {
	switch mode {
	case ModeUpload:
		return NewBrowserPicker(host), nil
	case ModePaths:
		return NewNativeDialog(host), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}
