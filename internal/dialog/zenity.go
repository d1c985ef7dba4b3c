package dialog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
	"medocr/internal/logger"
)

// zenity exits with status 1 when the operator closes the dialog.
const zenityCancelled = 1

// commandRunner runs an external program and returns its stdout and exit code.
// A non-zero exit is reported through the code, not the error.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, int, error)

// Zenity opens native desktop dialogs by running the zenity program. The
// dialog runs in its own process; only the chosen paths come back.
type Zenity struct {
	Binary string
	run    commandRunner
	log    zerolog.Logger
}

// NewZenity returns a host that runs the zenity binary found on PATH.
func NewZenity() *Zenity {
	return &Zenity{
		Binary: "zenity",
		run:    execRunner,
		log:    logger.WithComponent("zenity"),
	}
}

// DesktopAvailable reports whether native dialogs can be shown: a graphical
// session must be present and zenity must be installed.
func DesktopAvailable() bool {
	if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
		return false
	}
	_, err := exec.LookPath("zenity")
	return err == nil
}

func (z *Zenity) OpenFiles(ctx context.Context) ([]string, error) {
	out, err := z.dialog(ctx,
		"--file-selection",
		"--multiple",
		"--separator=\n",
		"--title=Select documents to process",
	)
	if err != nil || out == "" {
		return nil, err
	}
	return splitLines(out), nil
}

func (z *Zenity) OpenFolder(ctx context.Context) (string, error) {
	out, err := z.dialog(ctx,
		"--file-selection",
		"--directory",
		"--title=Select output folder",
	)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\r\n"), nil
}

// dialog returns "" without error when the operator cancels.
func (z *Zenity) dialog(ctx context.Context, args ...string) (string, error) {
	out, code, err := z.run(ctx, z.Binary, args...)
	if err != nil {
		z.log.Error().Err(err).Msg("Failed to run native dialog")
		return "", fmt.Errorf("run %s: %w", z.Binary, err)
	}
	switch code {
	case 0:
		return string(out), nil
	case zenityCancelled:
		z.log.Debug().Msg("Native dialog cancelled")
		return "", nil
	default:
		return "", fmt.Errorf("%s exited with status %d", z.Binary, code)
	}
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, int, error) {
	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	err := cmd.Run()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout.Bytes(), exitErr.ExitCode(), nil
	}
	if err != nil {
		return nil, -1, err
	}
	return stdout.Bytes(), 0, nil
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSuffix(line, "\r"); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
