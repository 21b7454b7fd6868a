// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/odegrid/internal/expr"
)

// Variable is a named quantity defined by one equation.
type Variable struct {
	model    *Model
	id       VarID
	name     string
	comp     *Component
	parent   VarID
	children map[string]VarID

	rhs     *expr.Expression
	unit    string
	binding string
	label   string
	// state is the index in the model's state list, or -1.
	state int
	pos   any
	meta  map[string]string

	out   edgeSet
	in    edgeSet
	flags flags
}

func (v *Variable) ID() VarID { return v.id }
func (v *Variable) Name() string { return v.name }
func (v *Variable) Model() *Model { return v.model }

// Component returns the component that owns v, directly or through its parents.
func (v *Variable) Component() *Component { return v.comp }

// Parent returns the variable that owns v, if v is nested.
func (v *Variable) Parent() (*Variable, bool) {
	p := v.model.lookup(v.parent)
	return p, p != nil
}

// IsNested reports whether v is owned by another variable.
func (v *Variable) IsNested() bool { return !v.parent.IsZero() }

// QName returns the fully qualified name, e.g. "ina.m.alpha".
func (v *Variable) QName() string {
	parts := []string{v.name}
	for p := v.model.lookup(v.parent); p != nil; p = v.model.lookup(p.parent) {
		parts = append(parts, p.name)
	}
	parts = append(parts, v.comp.name)
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

func (v *Variable) String() string { return v.QName() }

func (v *Variable) owned() map[string]VarID { return v.children }
func (v *Variable) ownerComponent() *Component { return v.comp }
func (v *Variable) ownerVariable() *Variable { return v }

func (v *Variable) enclosing() Owner {
	if p := v.model.lookup(v.parent); p != nil {
		return p
	}
	return v.comp
}

// alive reports whether v is still part of its model.
func (v *Variable) alive() bool {
	return v.model.lookup(v.id) == v
}

// Alive reports whether v has not been removed.
func (v *Variable) Alive() bool { return v.alive() }

// Variable returns a nested variable of v.
func (v *Variable) Variable(name string) (*Variable, bool) {
	c := v.model.lookup(v.children[name])
	return c, c != nil
}

// AddVariable adds a nested variable.
func (v *Variable) AddVariable(name string) (*Variable, error) {
	return v.model.addVariable(v, name)
}

// AddVariableAllowRenaming adds a nested variable, renaming on collision.
func (v *Variable) AddVariableAllowRenaming(name string) (*Variable, error) {
	return v.model.addVariableAllowRenaming(v, name)
}

// RemoveVariable removes a nested variable of v.
func (v *Variable) RemoveVariable(child *Variable, recursive bool) error {
	if child.parent != v.id {
		return fmt.Errorf("%w: %s is not nested in %s", ErrIntegrity, child.QName(), v.QName())
	}
	return v.model.removeVariable(child, recursive)
}

// Resolve looks up a name the way v's equation does: v's own nested
// variables first, then each enclosing scope, then the component's aliases.
// Names with more than one segment start at a component.
func (v *Variable) Resolve(name string) (*Variable, error) {
	if r, _ := v.model.resolveIn(v, name); r != nil {
		return r, nil
	}
	return nil, v.model.unresolved(name, v.QName())
}

// RHS returns the defining expression, or nil.
func (v *Variable) RHS() *expr.Expression { return v.rhs }

// Equation returns the defining equation. For a state its left-hand side is
// dot(name).
func (v *Variable) Equation() (expr.Equation, bool) {
	if v.rhs == nil {
		return expr.Equation{}, false
	}
	return expr.NewEquation(v.name, v.IsState(), v.rhs), true
}

func (v *Variable) Unit() string { return v.unit }

// SetUnit stores the unit string. Units are not interpreted.
func (v *Variable) SetUnit(unit string) { v.unit = unit }

// Pos returns the opaque source position stored with SetPos.
func (v *Variable) Pos() any { return v.pos }

// SetPos stores a source position token for error reporting.
func (v *Variable) SetPos(pos any) { v.pos = pos }

func (v *Variable) Meta(key string) (string, bool) {
	s, ok := v.meta[key]
	return s, ok
}

// SetMeta stores a meta value; an empty value deletes the key.
func (v *Variable) SetMeta(key, value string) {
	if value == "" {
		delete(v.meta, key)
		return
	}
	v.meta[key] = value
}

func (v *Variable) MetaKeys() []string { return sortedKeys(v.meta) }

// Binding returns the external input label v is bound to, or "".
func (v *Variable) Binding() string { return v.binding }

// Label returns the output label of v, or "".
func (v *Variable) Label() string { return v.label }

func (v *Variable) IsState() bool { return v.state >= 0 }
func (v *Variable) IsBound() bool { return v.binding != "" }
func (v *Variable) IsConstant() bool { return v.flags.constant }
func (v *Variable) IsLiteral() bool { return v.flags.literal }
func (v *Variable) IsIntermediary() bool { return v.flags.intermediary }

// StateIndex returns v's position in the state list, or -1.
func (v *Variable) StateIndex() int { return v.state }

// depth is the number of enclosing variables.
func (v *Variable) depth() int {
	d := 0
	for p := v.model.lookup(v.parent); p != nil; p = v.model.lookup(p.parent) {
		d++
	}
	return d
}

// subtree returns v and every variable nested below it.
func (v *Variable) subtree() []*Variable {
	out := []*Variable{v}
	v.model.walkDeep(v, func(x *Variable) { out = append(out, x) })
	return out
}

// contains reports whether x is v or nested below v.
func (v *Variable) contains(x *Variable) bool {
	for ; x != nil; x = v.model.lookup(x.parent) {
		if x == v {
			return true
		}
	}
	return false
}

func sortVariables(vs []*Variable) {
	sort.SliceStable(vs, func(i, j int) bool { return vs[i].QName() < vs[j].QName() })
}
