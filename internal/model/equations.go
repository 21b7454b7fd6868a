// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"

	"github.com/specialistvlad/odegrid/internal/expr"
)

type target struct {
	v    *Variable
	kind RefKind
}

// resolveEquation maps every reference of e, read from the scope of owner, to
// a variable and an edge kind. It does not modify anything.
func (m *Model) resolveEquation(owner *Variable, e *expr.Expression) ([]target, error) {
	if e == nil {
		return nil, nil
	}
	var out []target
	for _, ref := range e.References() {
		t, _ := m.resolveIn(owner, ref.Name)
		if t == nil {
			return nil, m.unresolved(ref.Name, owner.QName())
		}
		kind := RefPlain
		switch {
		case ref.Derivative && !t.IsState():
			return nil, fmt.Errorf("%w: %s used in dot()", ErrNotState, t.QName())
		case !ref.Derivative && t.IsState():
			kind = RefStateValue
		}
		out = append(out, target{v: t, kind: kind})
	}
	return out, nil
}

// SetRHS replaces the defining expression of v. A nil expression clears it.
// If a reference cannot be resolved nothing is changed.
func (v *Variable) SetRHS(e *expr.Expression) error {
	if !v.alive() {
		return ErrRemoved
	}
	m := v.model
	targets, err := m.resolveEquation(v, e)
	if err != nil {
		return fmt.Errorf("equation of %s: %w", v.QName(), err)
	}
	m.unlinkAll(v)
	for _, t := range targets {
		m.link(v, t.v, t.kind)
	}
	v.rhs = e
	m.reclassify(v)
	m.invalidate()
	return nil
}

// SetEquation sets v's definition from a full equation. The left-hand side
// must name v, as dot(v) if v is a state.
func (v *Variable) SetEquation(eq expr.Equation) error {
	if !v.alive() {
		return ErrRemoved
	}
	lhs, _ := v.model.resolveIn(v, eq.LHS.Name)
	if lhs != v {
		return fmt.Errorf("%w: equation for %s cannot define %s", ErrIntegrity, eq.LHS, v.QName())
	}
	if eq.LHS.Derivative != v.IsState() {
		if v.IsState() {
			return fmt.Errorf("%w: state %s must be defined as dot(%s)", ErrIntegrity, v.QName(), v.name)
		}
		return fmt.Errorf("%w: %s", ErrNotState, v.QName())
	}
	return v.SetRHS(eq.RHS)
}
