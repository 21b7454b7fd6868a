package expr

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
)

// Substitute returns a structural copy of the expression in which every
// reference whose name is a key of subst is renamed to the mapped value. A
// derivative dot(a) is renamed to dot(subst[a]). All renames happen in a single
// pass, so swapping two names is safe.
func (e *Expression) Substitute(subst map[string]string) (*Expression, error) {
	occs, diags := collectOccurrences(e.syntax)
	if diags.HasErrors() {
		return nil, fmt.Errorf("cannot rewrite %q: %s", e.text, diags.Error())
	}

	var sb strings.Builder
	base := e.start.Byte
	cursor := 0
	for _, o := range occs {
		replacement, ok := subst[o.ref.Name]
		if !ok {
			continue
		}
		from := o.nameRange.Start.Byte - base
		to := o.nameRange.End.Byte - base
		if from < cursor || to > len(e.text) {
			return nil, fmt.Errorf("cannot rewrite %q: reference %q has an inconsistent source range", e.text, o.ref.Name)
		}
		sb.WriteString(e.text[cursor:from])
		sb.WriteString(replacement)
		cursor = to
	}
	sb.WriteString(e.text[cursor:])

	out, diags := Parse(sb.String(), e.file, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("rewritten expression %q does not parse: %s", sb.String(), diags.Error())
	}
	return out, nil
}

// Clone returns a structural copy of the expression with no shared syntax nodes.
func (e *Expression) Clone() *Expression {
	out, diags := Parse(e.text, e.file, e.start)
	if diags.HasErrors() {
		// The text parsed once already; a failure here is a bug.
		panic(fmt.Sprintf("expr: clone of %q failed: %s", e.text, diags.Error()))
	}
	return out
}
