// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// Block types and attribute names of the model file format.
const (
	BlockModel     = "model"
	BlockComponent = "component"
	BlockVariable  = "variable"
	BlockAlias     = "alias"

	AttrMeta       = "meta"
	AttrStateOrder = "state_order"
	AttrReserved   = "reserved"
	AttrPrefixes   = "reserved_prefixes"
	AttrTarget     = "target"
	AttrUnit       = "unit"
	AttrState      = "state"
	AttrBind       = "bind"
	AttrLabel      = "label"
	AttrRHS        = "rhs"
)

// Code serializes the model in the HCL model file format. The output is
// deterministic: components, aliases and variables appear in name order, and
// the state order is written out explicitly.
func (m *Model) Code() string {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	mb := root.AppendNewBlock(BlockModel, []string{m.name}).Body()
	writeMeta(mb, m.meta)
	if len(m.states) > 0 {
		order := make([]cty.Value, len(m.states))
		for i, v := range m.States() {
			order[i] = cty.StringVal(v.QName())
		}
		mb.SetAttributeValue(AttrStateOrder, cty.ListVal(order))
	}
	if len(m.reserved) > 0 {
		words := make([]cty.Value, 0, len(m.reserved))
		for _, w := range m.ReservedNames() {
			words = append(words, cty.StringVal(w))
		}
		mb.SetAttributeValue(AttrReserved, cty.ListVal(words))
	}
	if len(m.prefixes) > 0 {
		writeStringMap(mb, AttrPrefixes, m.prefixes)
	}

	for _, c := range m.Components() {
		root.AppendNewline()
		cb := root.AppendNewBlock(BlockComponent, []string{c.name}).Body()
		writeMeta(cb, c.meta)
		for _, alias := range c.Aliases() {
			t, _ := c.Alias(alias)
			ab := cb.AppendNewBlock(BlockAlias, []string{alias}).Body()
			ab.SetAttributeTraversal(AttrTarget, traversalFor(t.QName()))
		}
		for _, v := range m.ownedVariables(c) {
			writeVariable(cb, v)
		}
	}
	return string(hclwrite.Format(f.Bytes()))
}

func writeVariable(parent *hclwrite.Body, v *Variable) {
	b := parent.AppendNewBlock(BlockVariable, []string{v.name}).Body()
	if v.unit != "" {
		b.SetAttributeValue(AttrUnit, cty.StringVal(v.unit))
	}
	if v.IsState() {
		b.SetAttributeValue(AttrState, cty.NumberFloatVal(v.model.stateValues[v.state]))
	}
	if v.binding != "" {
		b.SetAttributeValue(AttrBind, cty.StringVal(v.binding))
	}
	if v.label != "" {
		b.SetAttributeValue(AttrLabel, cty.StringVal(v.label))
	}
	writeMeta(b, v.meta)
	if v.rhs != nil {
		b.SetAttributeRaw(AttrRHS, hclwrite.Tokens{{
			Type:  hclsyntax.TokenIdent,
			Bytes: []byte(v.rhs.String()),
		}})
	}
	for _, child := range v.model.ownedVariables(v) {
		writeVariable(b, child)
	}
}

func writeMeta(b *hclwrite.Body, meta map[string]string) {
	if len(meta) == 0 {
		return
	}
	writeStringMap(b, AttrMeta, meta)
}

func writeStringMap(b *hclwrite.Body, attr string, in map[string]string) {
	vals := make(map[string]cty.Value, len(in))
	for k, v := range in {
		vals[k] = cty.StringVal(v)
	}
	b.SetAttributeValue(attr, cty.ObjectVal(vals))
}

func traversalFor(name string) hcl.Traversal {
	parts := strings.Split(name, ".")
	t := hcl.Traversal{hcl.TraverseRoot{Name: parts[0]}}
	for _, p := range parts[1:] {
		t = append(t, hcl.TraverseAttr{Name: p})
	}
	return t
}
