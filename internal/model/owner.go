// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/odegrid/internal/qname"
)

// Owner is a scope that owns variables: a Component or a Variable.
type Owner interface {
	Name() string
	QName() string
	Model() *Model
	Variable(name string) (*Variable, bool)
	Variables(f Filter) []*Variable
	AddVariable(name string) (*Variable, error)
	AddVariableAllowRenaming(name string) (*Variable, error)
	RemoveVariable(v *Variable, recursive bool) error
	Resolve(name string) (*Variable, error)

	owned() map[string]VarID
	enclosing() Owner
	ownerComponent() *Component
	ownerVariable() *Variable
}

var (
	_ Owner = (*Component)(nil)
	_ Owner = (*Variable)(nil)
)

func isDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateName)
}

// canAdd checks that name may be given to a variable owned by o. Names
// visible from o (its own variables, those of enclosing scopes and the
// component's aliases) are taken. self is excluded, so a variable can be
// checked against the scope it already lives in.
func (m *Model) canAdd(o Owner, name string, self *Variable) error {
	if err := qname.CheckName(name); err != nil {
		return err
	}
	for s := o; s != nil; s = s.enclosing() {
		if id, ok := s.owned()[name]; ok && (self == nil || id != self.id) {
			return fmt.Errorf("%w: %q is already visible in %s", ErrDuplicateName, name, o.QName())
		}
	}
	if _, ok := o.ownerComponent().aliases[name]; ok {
		return fmt.Errorf("%w: %q is an alias in %s", ErrDuplicateName, name, o.ownerComponent().name)
	}
	return nil
}

func (m *Model) addVariable(o Owner, name string) (*Variable, error) {
	if ov := o.ownerVariable(); ov != nil && !ov.alive() {
		return nil, ErrRemoved
	}
	if err := m.canAdd(o, name, nil); err != nil {
		return nil, err
	}
	v := &Variable{
		model:    m,
		name:     name,
		comp:     o.ownerComponent(),
		children: make(map[string]VarID),
		state:    -1,
		meta:     make(map[string]string),
		out:      make(edgeSet),
		in:       make(edgeSet),
	}
	if ov := o.ownerVariable(); ov != nil {
		v.parent = ov.id
	}
	v.id = m.alloc(v)
	o.owned()[name] = v.id
	m.reclassify(v)
	m.invalidate()
	return v, nil
}

func (m *Model) addVariableAllowRenaming(o Owner, name string) (*Variable, error) {
	final, err := allowRenaming(name, func(candidate string) error {
		return m.canAdd(o, candidate, nil)
	})
	if err != nil {
		return nil, err
	}
	return m.addVariable(o, final)
}

// ownedVariables returns the variables directly owned by o, sorted by name.
func (m *Model) ownedVariables(o Owner) []*Variable {
	ids := o.owned()
	out := make([]*Variable, 0, len(ids))
	for _, name := range sortedKeys(ids) {
		if v := m.lookup(ids[name]); v != nil {
			out = append(out, v)
		}
	}
	return out
}

// walkDeep visits every variable below o, parents before children, in name
// order.
func (m *Model) walkDeep(o Owner, visit func(*Variable)) {
	for _, v := range m.ownedVariables(o) {
		visit(v)
		m.walkDeep(v, visit)
	}
}
