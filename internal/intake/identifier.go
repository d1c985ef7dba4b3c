// Package intake holds the data an operator assembles before a submission:
// the patient identifier, the selected documents, the optional output folder,
// and the parsed result returned by the processing backend.
package intake

import (
	"regexp"
	"strings"
)

// MaxConventionalIdentifierLength is the longest identifier the backend
// accepts without complaint.
const MaxConventionalIdentifierLength = 50

var conventionalIdentifier = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Identifier is the patient id or name used to tag a submission.
// It is modeled once and fanned out to the wire fields at request-build time.
type Identifier string

// NewIdentifier trims surrounding whitespace from raw.
func NewIdentifier(raw string) Identifier {
	return Identifier(strings.TrimSpace(raw))
}

// Empty reports whether the identifier carries no characters.
func (id Identifier) Empty() bool {
	return strings.TrimSpace(string(id)) == ""
}

// Conventional reports whether id matches the id pattern the backend uses
// for its own bookkeeping (letters, digits, hyphens and underscores, at most
// 50 characters). Non-conventional identifiers such as display names are
// still valid for submission.
func (id Identifier) Conventional() bool {
	return len(id) <= MaxConventionalIdentifierLength && conventionalIdentifier.MatchString(string(id))
}

func (id Identifier) String() string {
	return string(id)
}

// IdentifierField holds the operator-entered identifier.
type IdentifierField struct {
	value Identifier
}

// Set replaces the held value with the normalized form of raw.
func (f *IdentifierField) Set(raw string) {
	f.value = NewIdentifier(raw)
}

// Value returns the held identifier.
func (f *IdentifierField) Value() Identifier {
	return f.value
}
