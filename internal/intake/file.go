package intake

import (
	"path/filepath"
	"strings"
)

// Kind names the FileReference variant used by a selection.
type Kind int

const (
	// KindNone is the kind of an empty selection.
	KindNone Kind = iota
	// KindInMemory selections carry file content and no filesystem path.
	KindInMemory
	// KindPath selections carry absolute paths and no content.
	KindPath
	// KindMixed marks a selection that combines both variants. It is never submittable.
	KindMixed
)

func (k Kind) String() string {
	switch k {
	case KindInMemory:
		return "in-memory"
	case KindPath:
		return "path"
	case KindMixed:
		return "mixed"
	default:
		return "none"
	}
}

// SupportedExtensions lists the document types the backend knows how to read.
var SupportedExtensions = []string{".png", ".jpg", ".jpeg", ".tiff", ".tif", ".bmp", ".webp", ".pdf"}

// Supported reports whether name has one of the SupportedExtensions.
func Supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// FileReference is one selected document. It is either an InMemoryFile or a
// PathReference.
type FileReference interface {
	// DisplayName is what the operator sees in the selection list.
	DisplayName() string
	kind() Kind
}

// InMemoryFile is a document whose content was loaded by the client. It has
// no stable filesystem path.
type InMemoryFile struct {
	Name    string
	Content []byte
}

func (f InMemoryFile) DisplayName() string { return f.Name }

func (InMemoryFile) kind() Kind { return KindInMemory }

// PathReference is a document known only by its absolute path. The content is
// read by the backend, never by the client.
type PathReference struct {
	Path string
}

func (p PathReference) DisplayName() string { return p.Path }

func (PathReference) kind() Kind { return KindPath }

// Selection is the ordered list of documents picked by the operator.
// Order follows the order of selection.
type Selection []FileReference

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool {
	return len(s) == 0
}

// Kind returns the variant shared by every entry, KindNone for an empty
// selection and KindMixed when variants are combined.
func (s Selection) Kind() Kind {
	k := KindNone
	for _, ref := range s {
		if ref == nil {
			continue
		}
		switch {
		case k == KindNone:
			k = ref.kind()
		case k != ref.kind():
			return KindMixed
		}
	}
	return k
}

// Names returns the display names in selection order.
func (s Selection) Names() []string {
	names := make([]string, 0, len(s))
	for _, ref := range s {
		names = append(names, ref.DisplayName())
	}
	return names
}

// InMemoryFiles returns the in-memory entries in selection order.
func (s Selection) InMemoryFiles() []InMemoryFile {
	var files []InMemoryFile
	for _, ref := range s {
		if f, ok := ref.(InMemoryFile); ok {
			files = append(files, f)
		}
	}
	return files
}

// Paths returns the path strings of the path entries in selection order.
func (s Selection) Paths() []string {
	var paths []string
	for _, ref := range s {
		if p, ok := ref.(PathReference); ok {
			paths = append(paths, p.Path)
		}
	}
	return paths
}

// OutputLocation is the folder where the backend writes exported artifacts.
// The zero value means no folder was chosen.
type OutputLocation string

// Present reports whether a folder was chosen.
func (o OutputLocation) Present() bool {
	return strings.TrimSpace(string(o)) != ""
}

func (o OutputLocation) String() string {
	return string(o)
}
