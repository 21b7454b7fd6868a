// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

// ReserveName marks an output name as unavailable to the name resolver,
// typically a keyword of a target language. Reservations are not structural
// and leave the validity flag alone.
func (m *Model) ReserveName(name string) {
	m.reserved[name] = true
}

// ReservePrefix makes the name resolver prepend replacement to every name
// starting with prefix. An empty replacement removes the rule.
func (m *Model) ReservePrefix(prefix, replacement string) {
	if replacement == "" {
		delete(m.prefixes, prefix)
		return
	}
	m.prefixes[prefix] = replacement
}

// ReservedNames returns the sorted reserved names.
func (m *Model) ReservedNames() []string {
	return sortedKeys(m.reserved)
}

// ReservedPrefixes returns a copy of the prefix rules.
func (m *Model) ReservedPrefixes() map[string]string {
	out := make(map[string]string, len(m.prefixes))
	for k, v := range m.prefixes {
		out[k] = v
	}
	return out
}
