// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"
	"maps"
)

// Clone returns a deep copy of the model. Nothing is shared with the
// original except opaque source position tokens. Variable IDs are the same
// in both models.
func (m *Model) Clone() *Model {
	c := New(m.name)
	c.meta = maps.Clone(m.meta)
	for name, comp := range m.components {
		c.components[name] = &Component{
			model:   c,
			name:    name,
			vars:    maps.Clone(comp.vars),
			aliases: maps.Clone(comp.aliases),
			meta:    maps.Clone(comp.meta),
		}
	}

	c.slots = make([]slot, len(m.slots))
	c.free = append([]uint32(nil), m.free...)
	for i, s := range m.slots {
		c.slots[i].gen = s.gen
		if s.v == nil {
			continue
		}
		nv := *s.v
		nv.model = c
		nv.comp = c.components[s.v.comp.name]
		nv.children = maps.Clone(s.v.children)
		nv.meta = maps.Clone(s.v.meta)
		nv.out = s.v.out.clone()
		nv.in = s.v.in.clone()
		if s.v.rhs != nil {
			nv.rhs = s.v.rhs.Clone()
		}
		c.slots[i].v = &nv
	}

	c.states = append([]VarID(nil), m.states...)
	c.stateValues = append([]float64(nil), m.stateValues...)
	c.bindings = maps.Clone(m.bindings)
	c.labels = maps.Clone(m.labels)
	c.reserved = maps.Clone(m.reserved)
	c.prefixes = maps.Clone(m.prefixes)
	c.validity = m.validity
	for _, w := range m.warnings {
		w.Names = append([]string(nil), w.Names...)
		c.warnings = append(c.warnings, w)
	}
	return c
}

// ImportComponent copies src, which may belong to another model, into m under
// the given name. Equations of src may only reference variables of src itself
// or variables listed in varMap, which maps them to variables of m.
//
// The copy happens in two phases: first every variable is created, then
// equations are rewritten and set, so references inside src resolve no matter
// in which order its variables are visited. Bindings and labels are not
// copied since they are unique per model. On error m is left unchanged.
func (m *Model) ImportComponent(src *Component, name string, varMap map[*Variable]*Variable) (*Component, error) {
	for from, to := range varMap {
		if to == nil || to.model != m || !to.alive() {
			return nil, fmt.Errorf("%w: %s is mapped to a variable outside the target model", ErrIntegrity, from.QName())
		}
	}
	nc, err := m.AddComponent(name)
	if err != nil {
		return nil, err
	}
	if err := m.importInto(src, nc, varMap); err != nil {
		m.deleteVariables(nc.subtree())
		delete(m.components, nc.name)
		m.invalidate()
		return nil, err
	}
	return nc, nil
}

func (m *Model) importInto(src, dst *Component, varMap map[*Variable]*Variable) error {
	sm := src.model
	copies := make(map[*Variable]*Variable)

	var copyOwned func(from, to Owner) error
	copyOwned = func(from, to Owner) error {
		for _, v := range sm.ownedVariables(from) {
			nv, err := m.addVariable(to, v.name)
			if err != nil {
				return err
			}
			nv.unit = v.unit
			nv.pos = v.pos
			nv.meta = maps.Clone(v.meta)
			copies[v] = nv
			if err := copyOwned(v, nv); err != nil {
				return err
			}
		}
		return nil
	}
	if err := copyOwned(src, dst); err != nil {
		return err
	}
	dst.meta = maps.Clone(src.meta)

	for _, alias := range src.Aliases() {
		if t, ok := varMap[sm.lookup(src.aliases[alias])]; ok && t.comp != dst {
			if err := dst.AddAlias(alias, t); err != nil {
				return err
			}
		}
	}

	for _, v := range sm.States() {
		if nv, ok := copies[v]; ok {
			if err := nv.Promote(sm.stateValues[v.state]); err != nil {
				return err
			}
		}
	}

	for _, v := range src.subtree() {
		if v.rhs == nil {
			continue
		}
		nv := copies[v]
		subst := make(map[string]string)
		for _, ref := range v.rhs.References() {
			t, _ := sm.resolveIn(v, ref.Name)
			mapped, ok := copies[t]
			if !ok {
				mapped, ok = varMap[t]
			}
			if !ok {
				return fmt.Errorf("%w: %s references %s, which is outside %s and not mapped", ErrIntegrity, v.QName(), ref.Name, src.name)
			}
			subst[ref.Name] = m.refName(nv, mapped)
		}
		e, err := v.rhs.Substitute(subst)
		if err != nil {
			return fmt.Errorf("importing %s: %w", v.QName(), err)
		}
		if err := nv.SetRHS(e); err != nil {
			return err
		}
	}
	return nil
}
