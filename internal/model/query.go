// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"github.com/specialistvlad/odegrid/internal/dag"
	"github.com/specialistvlad/odegrid/internal/expr"
)

// Tri is a three-valued filter criterion.
type Tri int8

const (
	Any Tri = iota
	Yes
	No
)

func (t Tri) match(b bool) bool {
	switch t {
	case Yes:
		return b
	case No:
		return !b
	default:
		return true
	}
}

// Filter selects variables. Zero criteria match everything. Results are always
// in a stable order: by name within an owner, parents before their nested
// variables.
type Filter struct {
	Constant     Tri
	Intermediary Tri
	State        Tri
	Bound        Tri
	// Deep includes nested variables.
	Deep bool
}

func (f Filter) match(v *Variable) bool {
	return f.Constant.match(v.IsConstant()) &&
		f.Intermediary.match(v.IsIntermediary()) &&
		f.State.match(v.IsState()) &&
		f.Bound.match(v.IsBound())
}

func (m *Model) filterOwned(o Owner, f Filter) []*Variable {
	var out []*Variable
	visit := func(v *Variable) {
		if f.match(v) {
			out = append(out, v)
		}
	}
	if f.Deep {
		m.walkDeep(o, visit)
	} else {
		for _, v := range m.ownedVariables(o) {
			visit(v)
		}
	}
	return out
}

// Variables returns the variables of every component that match f.
func (m *Model) Variables(f Filter) []*Variable {
	var out []*Variable
	for _, c := range m.Components() {
		out = append(out, m.filterOwned(c, f)...)
	}
	return out
}

// Variables returns the variables of c that match f.
func (c *Component) Variables(f Filter) []*Variable { return c.model.filterOwned(c, f) }

// Variables returns the nested variables of v that match f.
func (v *Variable) Variables(f Filter) []*Variable { return v.model.filterOwned(v, f) }

// Count returns how many variables of the model match f.
func (m *Model) Count(f Filter) int { return len(m.Variables(f)) }

// Equations returns the equations of the matching variables that have one.
func (m *Model) Equations(f Filter) []expr.Equation {
	return equationsOf(m.Variables(f))
}

// Equations returns the equations of the matching variables of c.
func (c *Component) Equations(f Filter) []expr.Equation {
	return equationsOf(c.Variables(f))
}

func equationsOf(vs []*Variable) []expr.Equation {
	out := make([]expr.Equation, 0, len(vs))
	for _, v := range vs {
		if eq, ok := v.Equation(); ok {
			out = append(out, eq)
		}
	}
	return out
}

// DepOptions tunes the dependency maps.
type DepOptions struct {
	// OmitStates drops reads of state values, which impose no order.
	OmitStates bool
	// OmitConstants drops constants, both as keys and as dependencies.
	OmitConstants bool
}

// MapShallowDependencies maps every variable to the variables its equation
// references directly.
func (m *Model) MapShallowDependencies(opts DepOptions) map[*Variable][]*Variable {
	out := make(map[*Variable][]*Variable)
	for _, v := range m.Variables(Filter{Deep: true}) {
		if opts.OmitConstants && v.IsConstant() {
			continue
		}
		deps := v.Dependencies(!opts.OmitStates)
		kept := deps[:0:0]
		for _, d := range deps {
			if opts.OmitConstants && d.IsConstant() {
				continue
			}
			kept = append(kept, d)
		}
		out[v] = kept
	}
	return out
}

// MapDeepDependencies maps every variable to everything its equation
// depends on, directly or indirectly. Cycles are tolerated.
func (m *Model) MapDeepDependencies(opts DepOptions) map[*Variable][]*Variable {
	shallow := m.MapShallowDependencies(opts)
	out := make(map[*Variable][]*Variable, len(shallow))
	for v := range shallow {
		seen := make(map[*Variable]bool)
		stack := append([]*Variable(nil), shallow[v]...)
		var deep []*Variable
		for len(stack) > 0 {
			d := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if seen[d] {
				continue
			}
			seen[d] = true
			deep = append(deep, d)
			stack = append(stack, shallow[d]...)
		}
		sortVariables(deep)
		out[v] = deep
	}
	return out
}

// componentGraph builds the graph of plain cross-component references.
func (m *Model) componentGraph() *dag.Graph {
	g := dag.New()
	for _, c := range m.Components() {
		g.AddNode(c.name)
	}
	for _, c := range m.Components() {
		for _, v := range c.subtree() {
			for _, d := range m.dependencies(v, RefPlain) {
				if d.comp != c {
					// Both nodes exist and differ, so AddEdge cannot fail.
					_ = g.AddEdge(d.comp.name, c.name)
				}
			}
		}
	}
	return g
}

// ComponentDependencies maps each component name to the sorted names of the
// components whose variables it must evaluate first.
func (m *Model) ComponentDependencies() map[string][]string {
	g := m.componentGraph()
	out := make(map[string][]string, g.Len())
	for _, name := range g.Nodes() {
		deps, _ := g.Dependencies(name)
		out[name] = deps
	}
	return out
}

// ComponentCycles returns the groups of components that depend on each
// other.
func (m *Model) ComponentCycles() [][]string {
	return m.componentGraph().StronglyConnected()
}

// HasInterdependentComponents reports whether any two components depend on
// each other, directly or indirectly.
func (m *Model) HasInterdependentComponents() bool {
	return len(m.ComponentCycles()) > 0
}
