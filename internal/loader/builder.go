package loader

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"

	"github.com/specialistvlad/odegrid/internal/expr"
	"github.com/specialistvlad/odegrid/internal/model"
)

type pendingVariable struct {
	v     *model.Variable
	block *variableBlock
	src   []byte
}

type pendingAlias struct {
	c     *model.Component
	block *aliasBlock
}

// builder accumulates diagnostics instead of stopping at the first problem,
// so a single load reports as much as possible.
type builder struct {
	m       *model.Model
	diags   hcl.Diagnostics
	vars    []pendingVariable
	blocks  map[*model.Variable]*variableBlock
	aliases []pendingAlias
}

func (b *builder) errorf(subject *hcl.Range, summary, format string, args ...any) {
	b.diags = append(b.diags, &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   fmt.Sprintf(format, args...),
		Subject:  subject,
	})
}

func (b *builder) applyHeader(mb *modelBlock) {
	b.m.SetName(mb.Name)
	for k, v := range mb.Meta {
		b.m.SetMeta(k, v)
	}
	for _, w := range mb.Reserved {
		b.m.ReserveName(w)
	}
	for p, repl := range mb.ReservedPrefixes {
		b.m.ReservePrefix(p, repl)
	}
}

func (b *builder) addComponent(cb *componentBlock, src []byte) {
	c, err := b.m.AddComponent(cb.Name)
	if err != nil {
		b.errorf(cb.DeclRange.Ptr(), "Invalid component", "%s", err)
		return
	}
	for k, v := range cb.Meta {
		c.SetMeta(k, v)
	}
	for _, ab := range cb.Aliases {
		b.aliases = append(b.aliases, pendingAlias{c: c, block: ab})
	}
	for _, vb := range cb.Variables {
		b.addVariable(c, vb, src)
	}
}

func (b *builder) addVariable(owner model.Owner, vb *variableBlock, src []byte) {
	v, err := owner.AddVariable(vb.Name)
	if err != nil {
		b.errorf(vb.DeclRange.Ptr(), "Invalid variable", "%s", err)
		return
	}
	v.SetPos(vb.DeclRange)
	if vb.Unit != nil {
		v.SetUnit(*vb.Unit)
	}
	for k, val := range vb.Meta {
		v.SetMeta(k, val)
	}
	if vb.Bind != nil {
		if err := v.SetBinding(*vb.Bind); err != nil {
			b.errorf(vb.DeclRange.Ptr(), "Invalid binding", "%s", err)
		}
	}
	if vb.Label != nil {
		if err := v.SetLabel(*vb.Label); err != nil {
			b.errorf(vb.DeclRange.Ptr(), "Invalid label", "%s", err)
		}
	}

	if b.blocks == nil {
		b.blocks = make(map[*model.Variable]*variableBlock)
	}
	b.blocks[v] = vb
	b.vars = append(b.vars, pendingVariable{v: v, block: vb, src: src})
	for _, child := range vb.Variables {
		b.addVariable(v, child, src)
	}
}

func (b *builder) addAliases() {
	for _, a := range b.aliases {
		rng := a.block.Target.Expr.Range()
		trav, diags := hcl.AbsTraversalForExpr(a.block.Target.Expr)
		if diags.HasErrors() {
			b.diags = append(b.diags, diags...)
			continue
		}
		name, ok := traversalName(trav)
		if !ok {
			b.errorf(&rng, "Invalid alias target", "An alias target must be a dotted variable name.")
			continue
		}
		target, err := b.m.Get(name)
		if err != nil {
			b.errorf(&rng, "Invalid alias target", "%s", err)
			continue
		}
		if err := a.c.AddAlias(a.block.Name, target); err != nil {
			b.errorf(a.block.DeclRange.Ptr(), "Invalid alias", "%s", err)
		}
	}
}

// promoteStates turns every variable with a state value into a state. The
// variables named in order come first; the rest follow in file order.
func (b *builder) promoteStates(order []string, header *modelBlock) {
	done := make(map[*model.Variable]bool)
	promote := func(v *model.Variable, subject *hcl.Range) {
		vb := b.blocks[v]
		if err := v.Promote(*vb.State); err != nil {
			b.errorf(subject, "Invalid state", "%s", err)
		}
		done[v] = true
	}

	for _, name := range order {
		subject := header.DeclRange.Ptr()
		v, err := b.m.Get(name)
		if err != nil {
			b.errorf(subject, "Invalid state order", "%s", err)
			continue
		}
		if vb := b.blocks[v]; vb == nil || vb.State == nil {
			b.errorf(subject, "Invalid state order", "Variable %s is listed in %s but has no state value.", name, model.AttrStateOrder)
			continue
		}
		if done[v] {
			b.errorf(subject, "Invalid state order", "Variable %s is listed twice in %s.", name, model.AttrStateOrder)
			continue
		}
		promote(v, b.blocks[v].DeclRange.Ptr())
	}
	for _, p := range b.vars {
		if p.block.State != nil && !done[p.v] {
			promote(p.v, p.block.DeclRange.Ptr())
		}
	}
}

func (b *builder) setEquations() {
	for _, p := range b.vars {
		if p.block.RHS == nil {
			continue
		}
		rng := p.block.RHS.Expr.Range()
		e, diags := expr.FromSource(p.src, rng)
		if diags.HasErrors() {
			b.diags = append(b.diags, diags...)
			continue
		}
		if err := p.v.SetRHS(e); err != nil {
			b.errorf(&rng, "Invalid equation", "%s", err)
		}
	}
}

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
