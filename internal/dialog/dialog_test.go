package dialog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetResolvesAbsolutePaths(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	p := Preset{Files: []string{"scans/a.png", "/abs/b.pdf"}, Folder: "out"}

	files, err := p.OpenFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(wd, "scans/a.png"), "/abs/b.pdf"}, files)

	folder, err := p.OpenFolder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "out"), folder)

	folder, err = Preset{}.OpenFolder(context.Background())
	require.NoError(t, err)
	assert.Empty(t, folder)
}

func fakeZenity(out string, code int, err error) (*Zenity, *[]string) {
	var seen []string
	z := &Zenity{
		Binary: "zenity",
		log:    zerolog.Nop(),
		run: func(_ context.Context, name string, args ...string) ([]byte, int, error) {
			seen = append([]string{name}, args...)
			return []byte(out), code, err
		},
	}
	return z, &seen
}

func TestZenityOpenFiles(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		code    int
		runErr  error
		want    []string
		wantErr bool
	}{
		{name: "two files", out: "/scans/a.png\n/scans/b.pdf\n", want: []string{"/scans/a.png", "/scans/b.pdf"}},
		{name: "windows line endings", out: "/scans/a.png\r\n/scans/b.pdf\r\n", want: []string{"/scans/a.png", "/scans/b.pdf"}},
		{name: "spaces kept in names", out: "/scans/ leading.png\n/scans/trailing .pdf\n", want: []string{"/scans/ leading.png", "/scans/trailing .pdf"}},
		{name: "cancelled", code: 1},
		{name: "dialog crashed", code: 5, wantErr: true},
		{name: "binary missing", runErr: errors.New("executable file not found"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z, seen := fakeZenity(tt.out, tt.code, tt.runErr)

			files, err := z.OpenFiles(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, files)
			assert.Contains(t, *seen, "--multiple")
		})
	}
}

func TestZenityOpenFolder(t *testing.T) {
	z, seen := fakeZenity("/exports\n", 0, nil)

	folder, err := z.OpenFolder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/exports", folder)
	assert.Contains(t, *seen, "--directory")

	z, _ = fakeZenity("", 1, nil)
	folder, err = z.OpenFolder(context.Background())
	require.NoError(t, err)
	assert.Empty(t, folder)
}

func TestListFilesOrdersSupportedFirst(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"notes.txt", "b.png", "a.pdf", ".hidden.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	names, err := listFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf", "b.png", "notes.txt"}, names)
}

func TestValidateDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.png")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	assert.NoError(t, validateDir(dir))
	assert.Error(t, validateDir(file))
	assert.Error(t, validateDir(filepath.Join(dir, "missing")))
}
