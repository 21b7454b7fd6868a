// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import "fmt"

// VarID addresses a variable in its model's arena. The generation counter
// makes IDs of removed variables dangle safely instead of aliasing a newer
// variable that reuses the slot. The zero value is never a live ID.
type VarID struct {
	index uint32
	gen   uint32
}

// NoVar is the zero VarID.
var NoVar VarID

// IsZero reports whether id is NoVar.
func (id VarID) IsZero() bool { return id.gen == 0 }

func (id VarID) String() string {
	if id.IsZero() {
		return "var(none)"
	}
	return fmt.Sprintf("var(%d#%d)", id.index, id.gen)
}

// RefKind tags a dependency edge.
type RefKind uint8

const (
	// RefPlain edges require the target to be evaluated first.
	RefPlain RefKind = iota
	// RefStateValue edges read a state's current value and impose no order.
	RefStateValue
)

func (k RefKind) String() string {
	if k == RefStateValue {
		return "state-value"
	}
	return "plain"
}

// Edge is one endpoint's view of a dependency.
type Edge struct {
	Peer VarID
	Kind RefKind
}

type edgeSet map[Edge]struct{}

func (s edgeSet) clone() edgeSet {
	out := make(edgeSet, len(s))
	for e := range s {
		out[e] = struct{}{}
	}
	return out
}

// slot is one arena cell. A nil v marks a free slot.
type slot struct {
	gen uint32
	v   *Variable
}

// alloc stores v in a free slot, or a new one, and returns its ID.
func (m *Model) alloc(v *Variable) VarID {
	if n := len(m.free); n > 0 {
		idx := m.free[n-1]
		m.free = m.free[:n-1]
		s := &m.slots[idx]
		s.gen++
		s.v = v
		return VarID{index: idx, gen: s.gen}
	}
	m.slots = append(m.slots, slot{gen: 1, v: v})
	return VarID{index: uint32(len(m.slots) - 1), gen: 1}
}

// release frees the slot of id. The slot's generation moves on when it is
// reused, which invalidates every outstanding copy of id.
func (m *Model) release(id VarID) {
	s := &m.slots[id.index]
	s.v = nil
	m.free = append(m.free, id.index)
}

// lookup returns the live variable for id, or nil.
func (m *Model) lookup(id VarID) *Variable {
	if id.IsZero() || int(id.index) >= len(m.slots) {
		return nil
	}
	s := m.slots[id.index]
	if s.gen != id.gen || s.v == nil {
		return nil
	}
	return s.v
}

// Lookup returns the variable addressed by id, if it is still alive.
func (m *Model) Lookup(id VarID) (*Variable, bool) {
	v := m.lookup(id)
	return v, v != nil
}

// live returns every live variable in arena order.
func (m *Model) live() []*Variable {
	out := make([]*Variable, 0, len(m.slots)-len(m.free))
	for _, s := range m.slots {
		if s.v != nil {
			out = append(out, s.v)
		}
	}
	return out
}
