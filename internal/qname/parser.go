// internal/qname/parser.go
package qname

import (
	"fmt"
	"regexp"
	"strings"
)

// identRegex matches a single identifier segment.
var identRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// CheckName validates a single, unqualified identifier. Names starting with
// two underscores are kept free for generated placeholders.
func CheckName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if !identRegex.MatchString(name) {
		return fmt.Errorf("%w: %q is not a valid identifier", ErrInvalidName, name)
	}
	if strings.HasPrefix(name, "__") {
		return fmt.Errorf("%w: %q uses the reserved prefix \"__\"", ErrInvalidName, name)
	}
	if IsKeyword(name) {
		return fmt.Errorf("%w: %q is a reserved keyword", ErrInvalidName, name)
	}
	return nil
}

// Parse splits a qualified name into validated segments.
func Parse(raw string) (Name, error) {
	if raw == "" {
		return Name{}, fmt.Errorf("%w: qualified name cannot be empty", ErrInvalidName)
	}

	parts := strings.Split(raw, Separator)
	for _, part := range parts {
		if part == "" {
			return Name{}, fmt.Errorf("%w: %q contains an empty segment", ErrInvalidName, raw)
		}
		if err := CheckName(part); err != nil {
			return Name{}, fmt.Errorf("in %q: %w", raw, err)
		}
	}
	return Name{Segments: parts}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level constants.
func MustParse(raw string) Name {
	n, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return n
}
