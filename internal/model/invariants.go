// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import "fmt"

// checkInvariants verifies the structural rules every edit must preserve. A
// failure here is a bug in this package.
func (m *Model) checkInvariants() error {
	fail := func(format string, args ...any) error {
		return &InternalError{Detail: fmt.Sprintf(format, args...)}
	}

	reached := 0
	var walk func(o Owner, parent VarID, comp *Component) error
	walk = func(o Owner, parent VarID, comp *Component) error {
		for name, id := range o.owned() {
			v := m.lookup(id)
			if v == nil {
				return fail("%s owns dead %s", o.QName(), id)
			}
			if v.name != name || v.parent != parent || v.comp != comp || v.model != m {
				return fail("%s is filed as %q under %s", v.QName(), name, o.QName())
			}
			reached++
			if err := walk(v, v.id, comp); err != nil {
				return err
			}
		}
		return nil
	}
	for name, c := range m.components {
		if c.name != name || c.model != m {
			return fail("component %q is filed as %q", c.name, name)
		}
		if err := walk(c, NoVar, c); err != nil {
			return err
		}
		for alias, id := range c.aliases {
			t := m.lookup(id)
			if t == nil || t.IsNested() || t.comp == c {
				return fail("alias %s.%s has an invalid target", name, alias)
			}
		}
	}

	live := m.live()
	if reached != len(live) {
		return fail("%d live variables but %d reachable from components", len(live), reached)
	}

	if len(m.states) != len(m.stateValues) {
		return fail("%d states but %d state values", len(m.states), len(m.stateValues))
	}
	for i, id := range m.states {
		v := m.lookup(id)
		if v == nil || v.state != i {
			return fail("state list entry %d is inconsistent", i)
		}
	}
	for label, id := range m.bindings {
		if v := m.lookup(id); v == nil || v.binding != label {
			return fail("binding %q is inconsistent", label)
		}
	}
	for label, id := range m.labels {
		if v := m.lookup(id); v == nil || v.label != label {
			return fail("label %q is inconsistent", label)
		}
	}

	for _, v := range live {
		if v.state >= 0 && (v.state >= len(m.states) || m.states[v.state] != v.id) {
			return fail("%s has stale state index %d", v.QName(), v.state)
		}
		if v.binding != "" && m.bindings[v.binding] != v.id {
			return fail("%s has unregistered binding %q", v.QName(), v.binding)
		}
		if v.label != "" && m.labels[v.label] != v.id {
			return fail("%s has unregistered label %q", v.QName(), v.label)
		}
		for e := range v.out {
			t := m.lookup(e.Peer)
			if t == nil {
				return fail("%s depends on dead %s", v.QName(), e.Peer)
			}
			if _, ok := t.in[Edge{Peer: v.id, Kind: e.Kind}]; !ok {
				return fail("edge %s -> %s (%s) has no mirror", v.QName(), t.QName(), e.Kind)
			}
			if (e.Kind == RefStateValue) != t.IsState() && !m.isDerivativeEdge(v, t, e.Kind) {
				return fail("edge %s -> %s has kind %s", v.QName(), t.QName(), e.Kind)
			}
		}
		for e := range v.in {
			s := m.lookup(e.Peer)
			if s == nil {
				return fail("%s is used by dead %s", v.QName(), e.Peer)
			}
			if _, ok := s.out[Edge{Peer: v.id, Kind: e.Kind}]; !ok {
				return fail("edge %s <- %s (%s) has no mirror", v.QName(), s.QName(), e.Kind)
			}
		}
		if f := m.computeFlags(v); f != v.flags {
			return fail("%s has stale classification", v.QName())
		}
	}
	return nil
}

// isDerivativeEdge reports whether a plain edge to a state comes from dot().
func (m *Model) isDerivativeEdge(from, to *Variable, kind RefKind) bool {
	if kind != RefPlain || !to.IsState() || from.rhs == nil {
		return false
	}
	for _, ref := range from.rhs.References() {
		if !ref.Derivative {
			continue
		}
		if t, _ := m.resolveIn(from, ref.Name); t == to {
			return true
		}
	}
	return false
}
