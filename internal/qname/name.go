// internal/qname/name.go
package qname

import (
	"slices"
	"strings"
)

// String serializes the Name into its canonical dotted form.
func (n Name) String() string {
	return strings.Join(n.Segments, Separator)
}

// Flat joins the segments with sep instead of the scope separator. Used to
// derive output identifiers from qualified names.
func (n Name) Flat(sep string) string {
	return strings.Join(n.Segments, sep)
}

// Len returns the number of segments.
func (n Name) Len() int {
	return len(n.Segments)
}

// IsQualified reports whether the name has more than one segment.
func (n Name) IsQualified() bool {
	return len(n.Segments) > 1
}

// Last returns the final segment, or "" for an empty Name.
func (n Name) Last() string {
	if len(n.Segments) == 0 {
		return ""
	}
	return n.Segments[len(n.Segments)-1]
}

// First returns the leading segment, or "" for an empty Name.
func (n Name) First() string {
	if len(n.Segments) == 0 {
		return ""
	}
	return n.Segments[0]
}

// Parent drops the final segment.
func (n Name) Parent() Name {
	if len(n.Segments) <= 1 {
		return Name{}
	}
	return New(n.Segments[:len(n.Segments)-1]...)
}

// Child appends a segment.
func (n Name) Child(segment string) Name {
	return New(append(slices.Clone(n.Segments), segment)...)
}

// Equal checks segment-wise equality.
func (n Name) Equal(other Name) bool {
	return slices.Equal(n.Segments, other.Segments)
}

// Join is a convenience for New(segments...).String().
func Join(segments ...string) string {
	return strings.Join(segments, Separator)
}
