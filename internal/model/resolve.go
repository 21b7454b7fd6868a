// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"github.com/agext/levenshtein"

	"github.com/specialistvlad/odegrid/internal/qname"
)

// resolveIn finds what name means inside scope o. viaAlias reports that the
// name was found in the component's alias table.
func (m *Model) resolveIn(o Owner, name string) (v *Variable, viaAlias bool) {
	n, err := qname.Parse(name)
	if err != nil {
		return nil, false
	}
	if n.IsQualified() {
		return m.getQualified(n), false
	}
	for s := o; s != nil; s = s.enclosing() {
		if id, ok := s.owned()[name]; ok {
			return m.lookup(id), false
		}
	}
	if id, ok := o.ownerComponent().aliases[name]; ok {
		return m.lookup(id), true
	}
	return nil, false
}

// refName returns the shortest text that resolves to target from the
// equation of from: the local name, then an alias, then the full name.
func (m *Model) refName(from, target *Variable) string {
	if r, _ := m.resolveIn(from, target.name); r == target {
		return target.name
	}
	for _, alias := range from.comp.AliasesFor(target) {
		if r, _ := m.resolveIn(from, alias); r == target {
			return alias
		}
	}
	return target.QName()
}

// unresolved builds an error carrying the closest known name.
func (m *Model) unresolved(name, scope string) error {
	var candidates []string
	for _, c := range m.Components() {
		m.walkDeep(c, func(v *Variable) {
			candidates = append(candidates, v.name, v.QName())
		})
	}
	return &UnresolvedReferenceError{Name: name, Scope: scope, Suggestion: closest(name, candidates)}
}

// closest returns the candidate with the smallest edit distance to name. Ties
// go to the earliest candidate.
func closest(name string, candidates []string) string {
	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshtein.Distance(name, c, nil)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
