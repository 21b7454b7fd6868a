package expr

import (
	"hash/fnv"
	"strings"

	"github.com/hashicorp/hcl/v2/hclwrite"
)

// Canonical returns the hclwrite-formatted form of an expression's text with
// surrounding whitespace removed. Two expressions with equal canonical text
// have the same structure.
func Canonical(text string) string {
	return strings.TrimSpace(string(hclwrite.Format([]byte(text))))
}

// Equal compares two expressions structurally.
func (e *Expression) Equal(other *Expression) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.String() == other.String()
}

// Hash returns a structural hash consistent with Equal.
func (e *Expression) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(e.String()))
	return h.Sum64()
}
