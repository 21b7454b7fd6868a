package expr

import (
	"fmt"
	"strconv"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// Expression is an immutable, parsed right-hand side.
type Expression struct {
	text   string
	start  hcl.Pos
	file   string
	syntax hclsyntax.Expression
	refs   []Ref
}

// Parse parses src as an HCL native-syntax expression. The filename and
// start position only affect the ranges reported in diagnostics.
func Parse(src, filename string, start hcl.Pos) (*Expression, hcl.Diagnostics) {
	syntax, diags := hclsyntax.ParseExpression([]byte(src), filename, start)
	if diags.HasErrors() {
		return nil, diags
	}

	refs, refDiags := extractReferences(syntax)
	diags = append(diags, refDiags...)
	if diags.HasErrors() {
		return nil, diags
	}

	return &Expression{
		text:   src,
		start:  start,
		file:   filename,
		syntax: syntax,
		refs:   refs,
	}, diags
}

// MustParse parses src or panics. Intended for tests and for expressions
// generated by this module.
func MustParse(src string) *Expression {
	e, diags := Parse(src, "", hcl.InitialPos)
	if diags.HasErrors() {
		panic(fmt.Sprintf("expr: cannot parse %q: %s", src, diags.Error()))
	}
	return e
}

// FromSource extracts the expression occupying rng inside a larger source
// buffer, typically an attribute value inside a model file. The returned
// expression keeps rng's positions for diagnostics.
func FromSource(src []byte, rng hcl.Range) (*Expression, hcl.Diagnostics) {
	return Parse(string(rng.SliceBytes(src)), rng.Filename, rng.Start)
}

// Number returns the literal expression for v.
func Number(v float64) *Expression {
	return MustParse(strconv.FormatFloat(v, 'g', -1, 64))
}

// Reference returns an expression consisting of a single plain reference.
func Reference(name string) *Expression {
	return MustParse(name)
}

// Derivative returns an expression consisting of a single derivative reference.
func Derivative(name string) *Expression {
	return MustParse("dot(" + name + ")")
}

// Text returns the source text exactly as it was parsed.
func (e *Expression) Text() string {
	if e == nil {
		return ""
	}
	return e.text
}

// String returns the canonical text of the expression.
func (e *Expression) String() string {
	if e == nil {
		return ""
	}
	return Canonical(e.text)
}

// Range reports where the expression was parsed from.
func (e *Expression) Range() hcl.Range {
	return e.syntax.Range()
}

// Syntax exposes the underlying HCL syntax tree. Callers must not mutate it.
func (e *Expression) Syntax() hclsyntax.Expression {
	return e.syntax
}

// References returns the sorted, de-duplicated references of the expression.
func (e *Expression) References() []Ref {
	out := make([]Ref, len(e.refs))
	copy(out, e.refs)
	return out
}

// IsLiteral reports whether the expression references no variables at all.
func (e *Expression) IsLiteral() bool {
	return len(e.refs) == 0
}
