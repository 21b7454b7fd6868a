// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"
	"sort"
	"strings"
)

// removeVariable deletes v and everything nested in it. Without recursive it
// refuses while anything outside that subtree references it, or while another
// component holds an alias to it. With recursive the referrers are removed as
// well, and so on until nothing outside the removal set points into it;
// aliases to removed variables are dropped.
func (m *Model) removeVariable(v *Variable, recursive bool) error {
	if !v.alive() {
		return ErrRemoved
	}
	targets := v.subtree()
	inside := make(map[VarID]bool, len(targets))
	for _, t := range targets {
		inside[t.id] = true
	}

	if !recursive {
		var users []string
		for _, t := range targets {
			for _, r := range m.referrers(t) {
				if !inside[r.id] {
					users = append(users, r.QName())
				}
			}
		}
		for _, c := range m.Components() {
			for _, alias := range c.AliasesFor(v) {
				users = append(users, c.name+"."+alias)
			}
		}
		if len(users) > 0 {
			sortStringsUnique(&users)
			return fmt.Errorf("%w: %s is used by %s", ErrStillReferenced, v.QName(), strings.Join(users, ", "))
		}
	} else {
		for i := 0; i < len(targets); i++ {
			for _, r := range m.referrers(targets[i]) {
				if inside[r.id] {
					continue
				}
				// A referrer takes its own nested variables with it.
				for _, x := range r.subtree() {
					if !inside[x.id] {
						inside[x.id] = true
						targets = append(targets, x)
					}
				}
			}
		}
	}

	m.deleteVariables(targets)
	m.invalidate()
	return nil
}

// deleteVariables removes vs from the model without any checks. Equations of
// the whole set are cleared first, so no edge is left pointing at a freed
// slot.
func (m *Model) deleteVariables(vs []*Variable) {
	for _, v := range vs {
		m.unlinkAll(v)
		v.rhs = nil
	}
	var outside []*Variable
	for _, v := range vs {
		for e := range v.in {
			if src := m.lookup(e.Peer); src != nil {
				m.unlink(src, v, e.Kind)
				outside = append(outside, src)
			}
		}
	}
	for _, v := range vs {
		if v.IsState() {
			m.dropState(v)
		}
		if v.binding != "" {
			delete(m.bindings, v.binding)
		}
		if v.label != "" {
			delete(m.labels, v.label)
		}
		if p := m.lookup(v.parent); p != nil {
			delete(p.children, v.name)
		} else if !v.IsNested() {
			delete(v.comp.vars, v.name)
		}
		for _, c := range m.components {
			for alias, id := range c.aliases {
				if id == v.id {
					delete(c.aliases, alias)
				}
			}
		}
	}
	for _, v := range vs {
		m.release(v.id)
	}
	m.reclassify(outside...)
}

func sortStringsUnique(s *[]string) {
	sort.Strings(*s)
	*s = uniqueStrings(*s)
}
