// internal/qname/keywords.go
package qname

import "sort"

// keywords cannot be used as component or variable names. They are either
// reserved by the expression syntax or carry meaning in model files.
var keywords = map[string]struct{}{
	"component": {},
	"dot":       {},
	"else":      {},
	"endfor":    {},
	"endif":     {},
	"false":     {},
	"for":       {},
	"if":        {},
	"in":        {},
	"null":      {},
	"true":      {},
	"variable":  {},
}

// IsKeyword reports whether name is reserved.
func IsKeyword(name string) bool {
	_, ok := keywords[name]
	return ok
}

// Keywords returns the reserved words in sorted order.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for k := range keywords {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
