// internal/qname/types.go
package qname

import "errors"

// Separator joins the segments of a qualified name.
const Separator = "."

// ErrInvalidName is wrapped by every error reporting a malformed identifier
// or a reserved-word collision.
var ErrInvalidName = errors.New("invalid name")

// Name is the structured form of a qualified name.
type Name struct {
	Segments []string
}

// New builds a Name from already validated segments.
func New(segments ...string) Name {
	s := make([]string, len(segments))
	copy(s, segments)
	return Name{Segments: s}
}
