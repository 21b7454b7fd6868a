package expr

import (
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// DerivativeFunc is the name of the function that reads a state's derivative.
const DerivativeFunc = "dot"

// Ref is a single variable reference made by an expression.
type Ref struct {
	// Name is the dotted name as written, e.g. "V" or "membrane.V".
	Name string
	// Derivative is true for references written as dot(Name).
	Derivative bool
	// Range covers the reference in the source; for derivatives it covers
	// the whole dot(...) call.
	Range hcl.Range
}

// String formats the reference the way it is written in an expression.
func (r Ref) String() string {
	if r.Derivative {
		return DerivativeFunc + "(" + r.Name + ")"
	}
	return r.Name
}

// Same compares two references ignoring their source ranges.
func (r Ref) Same(other Ref) bool {
	return r.Name == other.Name && r.Derivative == other.Derivative
}

// occurrence is one textual appearance of a reference, kept for rewriting.
type occurrence struct {
	ref Ref
	// nameRange covers only the name, also for derivatives.
	nameRange hcl.Range
}

// traversalName converts a root-plus-attributes traversal into a dotted name.
func traversalName(t hcl.Traversal) (string, bool) {
	parts := make([]string, 0, len(t))
	for _, step := range t {
		switch s := step.(type) {
		case hcl.TraverseRoot:
			parts = append(parts, s.Name)
		case hcl.TraverseAttr:
			parts = append(parts, s.Name)
		default:
			return "", false
		}
	}
	return strings.Join(parts, "."), true
}

// collectOccurrences walks the syntax tree and records every reference in
// source order. Arguments of dot() are recorded as derivatives.
func collectOccurrences(syntax hclsyntax.Expression) ([]occurrence, hcl.Diagnostics) {
	var out []occurrence
	derivArgs := make(map[*hclsyntax.ScopeTraversalExpr]hcl.Range)

	diags := hclsyntax.VisitAll(syntax, func(node hclsyntax.Node) hcl.Diagnostics {
		call, ok := node.(*hclsyntax.FunctionCallExpr)
		if !ok || call.Name != DerivativeFunc {
			return nil
		}
		if len(call.Args) != 1 || call.ExpandFinal {
			return hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Invalid derivative",
				Detail:   "dot() takes exactly one variable reference.",
				Subject:  call.Range().Ptr(),
			}}
		}
		arg, ok := call.Args[0].(*hclsyntax.ScopeTraversalExpr)
		if !ok {
			return hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Invalid derivative",
				Detail:   "The argument of dot() must be a variable name.",
				Subject:  call.Args[0].Range().Ptr(),
			}}
		}
		derivArgs[arg] = call.Range()
		return nil
	})
	if diags.HasErrors() {
		return nil, diags
	}

	diags = append(diags, hclsyntax.VisitAll(syntax, func(node hclsyntax.Node) hcl.Diagnostics {
		trav, ok := node.(*hclsyntax.ScopeTraversalExpr)
		if !ok {
			return nil
		}
		name, ok := traversalName(trav.Traversal)
		if !ok {
			return hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Unsupported reference",
				Detail:   "Variable references may only use dotted names; index steps are not supported.",
				Subject:  trav.SrcRange.Ptr(),
			}}
		}
		ref := Ref{Name: name, Range: trav.SrcRange}
		if callRange, isDeriv := derivArgs[trav]; isDeriv {
			ref.Derivative = true
			ref.Range = callRange
		}
		out = append(out, occurrence{ref: ref, nameRange: trav.SrcRange})
		return nil
	})...)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].nameRange.Start.Byte < out[j].nameRange.Start.Byte
	})
	return out, diags
}

// extractReferences returns the unique references of an expression, sorted by
// name with plain references before derivatives of the same name.
func extractReferences(syntax hclsyntax.Expression) ([]Ref, hcl.Diagnostics) {
	occs, diags := collectOccurrences(syntax)
	if diags.HasErrors() {
		return nil, diags
	}

	seen := make(map[string]Ref)
	keys := make([]string, 0, len(occs))
	for _, o := range occs {
		key := o.ref.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = o.ref
		keys = append(keys, key)
	}

	refs := make([]Ref, 0, len(keys))
	for _, k := range keys {
		refs = append(refs, seen[k])
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Name != refs[j].Name {
			return refs[i].Name < refs[j].Name
		}
		return !refs[i].Derivative && refs[j].Derivative
	})
	return refs, diags
}
