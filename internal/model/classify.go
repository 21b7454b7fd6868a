// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

// flags caches the derived classification of a variable. Bound and state are
// read from the variable directly.
type flags struct {
	constant     bool
	literal      bool
	intermediary bool
}

func (m *Model) computeFlags(v *Variable) flags {
	var f flags
	f.literal = v.rhs != nil && v.rhs.IsLiteral()
	if !v.IsBound() && !v.IsState() && v.rhs != nil {
		f.constant = true
		for e := range v.out {
			t := m.lookup(e.Peer)
			if e.Kind == RefStateValue || t == nil || !t.flags.constant {
				f.constant = false
				break
			}
		}
	}
	f.intermediary = !f.constant && !v.IsState() && !v.IsBound()
	return f
}

// reclassify recomputes the flags of the given variables and bubbles every
// change up to their referrers. A variable is re-queued only when a
// dependency's flags actually changed.
func (m *Model) reclassify(start ...*Variable) {
	queue := append([]*Variable(nil), start...)
	queued := make(map[VarID]bool, len(queue))
	for _, v := range queue {
		queued[v.id] = true
	}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		queued[v.id] = false
		if !v.alive() {
			continue
		}
		f := m.computeFlags(v)
		if f == v.flags {
			continue
		}
		v.flags = f
		for _, r := range m.referrers(v) {
			if !queued[r.id] {
				queued[r.id] = true
				queue = append(queue, r)
			}
		}
	}
}
