// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"

	"github.com/specialistvlad/odegrid/internal/qname"
)

// TimeBinding is the binding label of the independent variable.
const TimeBinding = "time"

// SetBinding binds v to an external input. An empty label unbinds it. A bound
// variable's equation only supplies a default value.
func (v *Variable) SetBinding(label string) error {
	if !v.alive() {
		return ErrRemoved
	}
	if label == v.binding {
		return nil
	}
	m := v.model
	if label != "" {
		if err := v.checkTableEntry(label, m.bindings, "binding"); err != nil {
			return err
		}
		if v.IsState() {
			return fmt.Errorf("%w: %s", ErrBoundState, v.QName())
		}
	}
	if v.binding != "" {
		delete(m.bindings, v.binding)
	}
	v.binding = label
	if label != "" {
		m.bindings[label] = v.id
	}
	m.reclassify(v)
	m.invalidate()
	return nil
}

// SetLabel gives v an output label. An empty label removes it.
func (v *Variable) SetLabel(label string) error {
	if !v.alive() {
		return ErrRemoved
	}
	if label == v.label {
		return nil
	}
	m := v.model
	if label != "" {
		if err := v.checkTableEntry(label, m.labels, "label"); err != nil {
			return err
		}
	}
	if v.label != "" {
		delete(m.labels, v.label)
	}
	v.label = label
	if label != "" {
		m.labels[label] = v.id
	}
	m.invalidate()
	return nil
}

func (v *Variable) checkTableEntry(label string, table map[string]VarID, what string) error {
	if err := qname.CheckName(label); err != nil {
		return err
	}
	if v.IsNested() {
		return fmt.Errorf("%w: nested variable %s cannot have a %s", ErrIntegrity, v.QName(), what)
	}
	if other := v.model.lookup(table[label]); other != nil && other != v {
		return fmt.Errorf("%w: %s %q is already used by %s", ErrDuplicateName, what, label, other.QName())
	}
	return nil
}

// Binding returns the variable bound to label.
func (m *Model) Binding(label string) (*Variable, bool) {
	v := m.lookup(m.bindings[label])
	return v, v != nil
}

// Label returns the variable carrying an output label.
func (m *Model) Label(label string) (*Variable, bool) {
	v := m.lookup(m.labels[label])
	return v, v != nil
}

// Bindings returns the binding labels in use, sorted.
func (m *Model) Bindings() []string { return sortedKeys(m.bindings) }

// Labels returns the output labels in use, sorted.
func (m *Model) Labels() []string { return sortedKeys(m.labels) }

// Time returns the variable bound to "time".
func (m *Model) Time() (*Variable, bool) { return m.Binding(TimeBinding) }
