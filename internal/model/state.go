// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"
	"sort"
	"strings"
)

// Promote turns v into a state with the given initial value. Its equation
// now defines dot(v), and every existing reference to v becomes a read of
// the state's current value.
func (v *Variable) Promote(initial float64) error {
	if !v.alive() {
		return ErrRemoved
	}
	switch {
	case v.IsState():
		return fmt.Errorf("%w: %s", ErrAlreadyState, v.QName())
	case v.IsNested():
		return fmt.Errorf("%w: %s", ErrNestedState, v.QName())
	case v.IsBound():
		return fmt.Errorf("%w: %s is bound to %q", ErrBoundState, v.QName(), v.binding)
	}
	m := v.model
	v.state = len(m.states)
	m.states = append(m.states, v.id)
	m.stateValues = append(m.stateValues, initial)
	m.retagIncoming(v, RefPlain, RefStateValue)
	m.reclassify(append([]*Variable{v}, m.referrers(v)...)...)
	m.invalidate()
	return nil
}

// Demote turns a state back into an ordinary variable. It fails while any
// equation still reads dot(v).
func (v *Variable) Demote() error {
	if !v.alive() {
		return ErrRemoved
	}
	if !v.IsState() {
		return fmt.Errorf("%w: %s", ErrNotState, v.QName())
	}
	m := v.model
	var users []string
	for e := range v.in {
		if e.Kind == RefPlain {
			if src := m.lookup(e.Peer); src != nil {
				users = append(users, src.QName())
			}
		}
	}
	if len(users) > 0 {
		sort.Strings(users)
		return fmt.Errorf("%w: dot(%s) is used by %s", ErrStillReferenced, v.QName(), strings.Join(users, ", "))
	}
	m.dropState(v)
	m.retagIncoming(v, RefStateValue, RefPlain)
	m.reclassify(append([]*Variable{v}, m.referrers(v)...)...)
	m.invalidate()
	return nil
}

// dropState removes v from the state lists and renumbers the rest.
func (m *Model) dropState(v *Variable) {
	idx := v.state
	m.states = append(m.states[:idx], m.states[idx+1:]...)
	m.stateValues = append(m.stateValues[:idx], m.stateValues[idx+1:]...)
	for i := idx; i < len(m.states); i++ {
		m.lookup(m.states[i]).state = i
	}
	v.state = -1
}

// StateValue returns the current value of a state.
func (v *Variable) StateValue() (float64, error) {
	if !v.IsState() {
		return 0, fmt.Errorf("%w: %s", ErrNotState, v.QName())
	}
	return v.model.stateValues[v.state], nil
}

// SetStateValue changes the current value of a state. This is not a
// structural edit and does not affect validity.
func (v *Variable) SetStateValue(value float64) error {
	if !v.IsState() {
		return fmt.Errorf("%w: %s", ErrNotState, v.QName())
	}
	v.model.stateValues[v.state] = value
	return nil
}

// States returns the state variables in state order.
func (m *Model) States() []*Variable {
	out := make([]*Variable, len(m.states))
	for i, id := range m.states {
		out[i] = m.lookup(id)
	}
	return out
}

// StateValues returns a copy of the current state values.
func (m *Model) StateValues() []float64 {
	out := make([]float64, len(m.stateValues))
	copy(out, m.stateValues)
	return out
}

// SetStateValues replaces all state values at once.
func (m *Model) SetStateValues(values []float64) error {
	if len(values) != len(m.stateValues) {
		return fmt.Errorf("%w: got %d state values, model has %d states", ErrIntegrity, len(values), len(m.stateValues))
	}
	copy(m.stateValues, values)
	return nil
}

// ReorderState moves a state to a new position in the state list, shifting
// the others.
func (m *Model) ReorderState(v *Variable, index int) error {
	if !v.IsState() {
		return fmt.Errorf("%w: %s", ErrNotState, v.QName())
	}
	if index < 0 || index >= len(m.states) {
		return fmt.Errorf("%w: state index %d out of range", ErrIntegrity, index)
	}
	value := m.stateValues[v.state]
	m.states = append(m.states[:v.state], m.states[v.state+1:]...)
	m.stateValues = append(m.stateValues[:v.state], m.stateValues[v.state+1:]...)

	m.states = append(m.states[:index], append([]VarID{v.id}, m.states[index:]...)...)
	m.stateValues = append(m.stateValues[:index], append([]float64{value}, m.stateValues[index:]...)...)
	for i, id := range m.states {
		m.lookup(id).state = i
	}
	m.invalidate()
	return nil
}
