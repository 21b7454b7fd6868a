// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

// link records that "from" depends on "to". Both edge sets are updated
// together; nothing else in the package writes to them.
func (m *Model) link(from, to *Variable, kind RefKind) {
	from.out[Edge{Peer: to.id, Kind: kind}] = struct{}{}
	to.in[Edge{Peer: from.id, Kind: kind}] = struct{}{}
}

// unlink is the inverse of link.
func (m *Model) unlink(from, to *Variable, kind RefKind) {
	delete(from.out, Edge{Peer: to.id, Kind: kind})
	delete(to.in, Edge{Peer: from.id, Kind: kind})
}

// unlinkAll drops every forward edge of v.
func (m *Model) unlinkAll(v *Variable) {
	for e := range v.out {
		if to := m.lookup(e.Peer); to != nil {
			m.unlink(v, to, e.Kind)
		} else {
			delete(v.out, e)
		}
	}
}

// retagIncoming switches every incoming edge of v from one kind to another.
func (m *Model) retagIncoming(v *Variable, from, to RefKind) {
	for e := range v.in {
		if e.Kind != from {
			continue
		}
		src := m.lookup(e.Peer)
		if src == nil {
			continue
		}
		m.unlink(src, v, from)
		m.link(src, v, to)
	}
}

// dependencies returns the targets of v's forward edges of the given kind,
// sorted by qualified name.
func (m *Model) dependencies(v *Variable, kind RefKind) []*Variable {
	var out []*Variable
	for e := range v.out {
		if e.Kind != kind {
			continue
		}
		if t := m.lookup(e.Peer); t != nil {
			out = append(out, t)
		}
	}
	sortVariables(out)
	return out
}

// referrers returns the sources of v's incoming edges, sorted and unique.
func (m *Model) referrers(v *Variable) []*Variable {
	seen := make(map[VarID]bool, len(v.in))
	var out []*Variable
	for e := range v.in {
		if seen[e.Peer] {
			continue
		}
		seen[e.Peer] = true
		if src := m.lookup(e.Peer); src != nil {
			out = append(out, src)
		}
	}
	sortVariables(out)
	return out
}

// Dependencies returns the variables v's equation references, sorted by
// qualified name. State-value references are included only when states is true.
func (v *Variable) Dependencies(states bool) []*Variable {
	out := v.model.dependencies(v, RefPlain)
	if states {
		out = append(out, v.model.dependencies(v, RefStateValue)...)
		sortVariables(out)
		out = uniqueVariables(out)
	}
	return out
}

// Referrers returns the variables whose equations reference v.
func (v *Variable) Referrers() []*Variable {
	return v.model.referrers(v)
}

// IsReferenced reports whether any equation references v.
func (v *Variable) IsReferenced() bool {
	return len(v.in) > 0
}

// Edges returns copies of the forward and backward edge sets of v.
func (v *Variable) Edges() (out, in []Edge) {
	for e := range v.out {
		out = append(out, e)
	}
	for e := range v.in {
		in = append(in, e)
	}
	return out, in
}

func uniqueVariables(vs []*Variable) []*Variable {
	if len(vs) < 2 {
		return vs
	}
	out := vs[:1]
	for _, v := range vs[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
