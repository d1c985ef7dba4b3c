package acquire

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"medocr/internal/intake"
)

// scriptedHost answers each dialog call with the next scripted response.
type scriptedHost struct {
	files   [][]string
	folders []string
	err     error
	calls   int
}

func (h *scriptedHost) OpenFiles(context.Context) ([]string, error) {
	h.calls++
	if h.err != nil {
		return nil, h.err
	}
	next := h.files[0]
	h.files = h.files[1:]
	return next, nil
}

func (h *scriptedHost) OpenFolder(context.Context) (string, error) {
	h.calls++
	if h.err != nil {
		return "", h.err
	}
	next := h.folders[0]
	h.folders = h.folders[1:]
	return next, nil
}

func fakeReader(contents map[string]string) func(string) ([]byte, error) {
	return func(path string) ([]byte, error) {
		c, ok := contents[path]
		if !ok {
			return nil, errors.New("no such file")
		}
		return []byte(c), nil
	}
}

func TestNativeDialogLastSelectionWins(t *testing.T) {
	host := &scriptedHost{files: [][]string{
		{"/scans/a.png", "/scans/b.png"},
		{"/scans/c.pdf"},
	}}
	d := NewNativeDialog(host)
	ctx := context.Background()

	_, err := d.SelectFiles(ctx)
	require.NoError(t, err)
	sel, err := d.SelectFiles(ctx)
	require.NoError(t, err)

	assert.Equal(t, intake.Selection{intake.PathReference{Path: "/scans/c.pdf"}}, sel)
	assert.Equal(t, intake.KindPath, d.Selection().Kind())
}

func TestNativeDialogCancelKeepsPriorSelection(t *testing.T) {
	host := &scriptedHost{
		files:   [][]string{{"/scans/a.png"}, nil},
		folders: []string{"/exports", ""},
	}
	d := NewNativeDialog(host)
	ctx := context.Background()

	_, err := d.SelectFiles(ctx)
	require.NoError(t, err)
	sel, err := d.SelectFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"/scans/a.png"}, sel.Paths())

	_, err = d.SelectOutputLocation(ctx)
	require.NoError(t, err)
	out, err := d.SelectOutputLocation(ctx)
	require.NoError(t, err)
	assert.Equal(t, intake.OutputLocation("/exports"), out)
	assert.Equal(t, intake.OutputLocation("/exports"), d.OutputLocation())
}

func TestNativeDialogHostError(t *testing.T) {
	d := NewNativeDialog(&scriptedHost{err: errors.New("bridge down")})

	_, err := d.SelectFiles(context.Background())
	assert.ErrorContains(t, err, "bridge down")
	assert.True(t, d.Selection().Empty())
}

func TestBrowserPickerLoadsContentWithoutPaths(t *testing.T) {
	host := &scriptedHost{files: [][]string{{"/home/op/a.pdf", "/home/op/b.png"}}}
	p := NewBrowserPickerWithReader(host, fakeReader(map[string]string{
		"/home/op/a.pdf": "pdf-bytes",
		"/home/op/b.png": "png-bytes",
	}))

	sel, err := p.SelectFiles(context.Background())
	require.NoError(t, err)

	assert.Equal(t, intake.Selection{
		intake.InMemoryFile{Name: "a.pdf", Content: []byte("pdf-bytes")},
		intake.InMemoryFile{Name: "b.png", Content: []byte("png-bytes")},
	}, sel)
	assert.Empty(t, sel.Paths())
	for _, name := range sel.Names() {
		assert.NotContains(t, name, "/")
	}
}

func TestBrowserPickerUnreadableFileKeepsPriorSelection(t *testing.T) {
	host := &scriptedHost{files: [][]string{{"/a.pdf"}, {"/a.pdf", "/missing.pdf"}, {}}}
	p := NewBrowserPickerWithReader(host, fakeReader(map[string]string{"/a.pdf": "x"}))
	ctx := context.Background()

	_, err := p.SelectFiles(ctx)
	require.NoError(t, err)

	_, err = p.SelectFiles(ctx)
	assert.ErrorContains(t, err, "missing.pdf")
	assert.Equal(t, []string{"a.pdf"}, p.Selection().Names())

	sel, err := p.SelectFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf"}, sel.Names())
}

func TestBrowserPickerHasNoOutputLocation(t *testing.T) {
	p := NewBrowserPicker(&scriptedHost{})

	_, err := p.SelectOutputLocation(context.Background())
	assert.ErrorIs(t, err, ErrOutputLocationUnsupported)
	assert.False(t, p.OutputLocation().Present())
}

func TestParseModeAndResolve(t *testing.T) {
	m, err := ParseMode(" Paths ")
	require.NoError(t, err)
	assert.Equal(t, ModePaths, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeAuto, m)

	_, err = ParseMode("electron")
	assert.ErrorIs(t, err, ErrUnknownMode)

	assert.Equal(t, ModePaths, Resolve(ModeAuto, true))
	assert.Equal(t, ModeUpload, Resolve(ModeAuto, false))
	assert.Equal(t, ModeUpload, Resolve(ModeUpload, true))
}

func TestNewPicksVariant(t *testing.T) {
	a, err := New(ModeUpload, &scriptedHost{})
	require.NoError(t, err)
	assert.Equal(t, intake.KindInMemory, a.Kind())

	a, err = New(ModePaths, &scriptedHost{})
	require.NoError(t, err)
	assert.Equal(t, intake.KindPath, a.Kind())

	_, err = New(ModeAuto, &scriptedHost{})
	assert.ErrorIs(t, err, ErrUnknownMode)
}
