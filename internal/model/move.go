// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"

	"github.com/specialistvlad/odegrid/internal/expr"
)

// Rename changes v's name within its current owner.
func (v *Variable) Rename(name string) error {
	return v.Move(v.enclosing(), name)
}

// Move re-parents v under o with the given name. Dependency edges follow the
// variable, and the text of every affected equation is rewritten so that it
// still names the same variables from its new position. States can only live
// directly in a component. On error nothing changes.
func (v *Variable) Move(o Owner, name string) error {
	if !v.alive() {
		return ErrRemoved
	}
	m := v.model
	if o.Model() != m {
		return fmt.Errorf("%w: cannot move %s to another model", ErrIntegrity, v.QName())
	}
	if ov := o.ownerVariable(); ov != nil {
		if !ov.alive() {
			return ErrRemoved
		}
		if v.contains(ov) {
			return fmt.Errorf("%w: cannot move %s into itself", ErrIntegrity, v.QName())
		}
		if v.IsState() {
			return fmt.Errorf("%w: %s", ErrNestedState, v.QName())
		}
		if v.IsBound() || v.label != "" {
			return fmt.Errorf("%w: %s has a binding or label and cannot be nested", ErrIntegrity, v.QName())
		}
		for _, c := range m.components {
			if len(c.AliasesFor(v)) > 0 {
				return fmt.Errorf("%w: %s is aliased by %s", ErrStillReferenced, v.QName(), c.name)
			}
		}
	} else if aliases := o.ownerComponent().AliasesFor(v); len(aliases) > 0 {
		// An alias may not point into its own component.
		return fmt.Errorf("%w: %s is aliased by %s.%s", ErrStillReferenced, v.QName(), o.ownerComponent().name, aliases[0])
	}
	if err := m.canAdd(o, name, v); err != nil {
		return err
	}

	affected := m.moveAffected(v, o)
	before := make(map[VarID]map[string]*Variable, len(affected))
	for _, a := range affected {
		before[a.id] = m.resolveAll(a)
	}

	oldOwner, oldName := v.enclosing(), v.name
	m.reparent(v, o, name)

	rewritten := make(map[*Variable]*expr.Expression)
	for _, a := range affected {
		subst := make(map[string]string)
		for text, want := range before[a.id] {
			if got, _ := m.resolveIn(a, text); got != want {
				subst[text] = m.refName(a, want)
			}
		}
		if len(subst) == 0 {
			continue
		}
		e, err := a.rhs.Substitute(subst)
		if err != nil {
			m.reparent(v, oldOwner, oldName)
			return fmt.Errorf("moving %s: %w", v.QName(), err)
		}
		rewritten[a] = e
	}
	for a, e := range rewritten {
		a.rhs = e
	}
	m.invalidate()
	return nil
}

// moveAffected lists the equations whose text may need rewriting when v
// moves into o: v's subtree, everything referencing the subtree, and every
// variable of the destination component.
func (m *Model) moveAffected(v *Variable, o Owner) []*Variable {
	seen := make(map[VarID]bool)
	var out []*Variable
	add := func(x *Variable) {
		if !seen[x.id] && x.rhs != nil {
			seen[x.id] = true
			out = append(out, x)
		}
	}
	for _, x := range v.subtree() {
		add(x)
		for _, r := range m.referrers(x) {
			add(r)
		}
	}
	for _, x := range o.ownerComponent().subtree() {
		add(x)
	}
	return out
}

// resolveAll maps each reference name in a's equation to its target.
func (m *Model) resolveAll(a *Variable) map[string]*Variable {
	out := make(map[string]*Variable)
	for _, ref := range a.rhs.References() {
		t, _ := m.resolveIn(a, ref.Name)
		out[ref.Name] = t
	}
	return out
}

// reparent moves v, with its subtree, under o.
func (m *Model) reparent(v *Variable, o Owner, name string) {
	delete(v.enclosing().owned(), v.name)
	v.name = name
	o.owned()[name] = v.id
	v.parent = NoVar
	if ov := o.ownerVariable(); ov != nil {
		v.parent = ov.id
	}
	for _, x := range v.subtree() {
		x.comp = o.ownerComponent()
	}
}
