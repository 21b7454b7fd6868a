// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"
	"sort"

	"github.com/specialistvlad/odegrid/internal/qname"
)

// Component is a named group of variables.
type Component struct {
	model   *Model
	name    string
	vars    map[string]VarID
	aliases map[string]VarID
	meta    map[string]string
}

func (c *Component) Name() string { return c.name }
func (c *Component) QName() string { return c.name }
func (c *Component) Model() *Model { return c.model }

func (c *Component) owned() map[string]VarID { return c.vars }
func (c *Component) enclosing() Owner { return nil }
func (c *Component) ownerComponent() *Component { return c }
func (c *Component) ownerVariable() *Variable { return nil }

// Variable returns the top-level variable with the given name.
func (c *Component) Variable(name string) (*Variable, bool) {
	v := c.model.lookup(c.vars[name])
	return v, v != nil
}

// AddVariable adds a top-level variable without an equation.
func (c *Component) AddVariable(name string) (*Variable, error) {
	return c.model.addVariable(c, name)
}

// AddVariableAllowRenaming adds a top-level variable, renaming it to name_1,
// name_2, ... if name is taken.
func (c *Component) AddVariableAllowRenaming(name string) (*Variable, error) {
	return c.model.addVariableAllowRenaming(c, name)
}

// RemoveVariable removes a top-level variable. See Model.removeVariable.
func (c *Component) RemoveVariable(v *Variable, recursive bool) error {
	if v.comp != c || v.IsNested() {
		return fmt.Errorf("%w: %s is not a variable of %s", ErrIntegrity, v.QName(), c.name)
	}
	return c.model.removeVariable(v, recursive)
}

// Resolve looks up a name as an equation of a top-level variable of c would.
func (c *Component) Resolve(name string) (*Variable, error) {
	if v, _ := c.model.resolveIn(c, name); v != nil {
		return v, nil
	}
	return nil, c.model.unresolved(name, c.name)
}

// Meta returns a meta value.
func (c *Component) Meta(key string) (string, bool) {
	v, ok := c.meta[key]
	return v, ok
}

// SetMeta stores a meta value; an empty value deletes the key.
func (c *Component) SetMeta(key, value string) {
	if value == "" {
		delete(c.meta, key)
		return
	}
	c.meta[key] = value
}

// MetaKeys returns the sorted meta keys.
func (c *Component) MetaKeys() []string { return sortedKeys(c.meta) }

// AddAlias lets equations in c refer to v, a top-level variable of another
// component, by a local name.
func (c *Component) AddAlias(name string, v *Variable) error {
	if err := qname.CheckName(name); err != nil {
		return err
	}
	if v.model != c.model || !v.alive() {
		return ErrRemoved
	}
	if v.comp == c {
		return fmt.Errorf("%w: cannot alias %s inside its own component", ErrIntegrity, v.QName())
	}
	if v.IsNested() {
		return fmt.Errorf("%w: cannot alias nested variable %s", ErrIntegrity, v.QName())
	}
	if _, ok := c.aliases[name]; ok {
		return fmt.Errorf("%w: alias %q already exists in %s", ErrDuplicateName, name, c.name)
	}
	taken := false
	c.model.walkDeep(c, func(x *Variable) {
		if x.name == name {
			taken = true
		}
	})
	if taken {
		return fmt.Errorf("%w: %q is already used in %s", ErrDuplicateName, name, c.name)
	}
	c.aliases[name] = v.id
	c.model.invalidate()
	return nil
}

// RemoveAlias deletes an alias. It fails while an equation still uses it.
func (c *Component) RemoveAlias(name string) error {
	if _, ok := c.aliases[name]; !ok {
		return &UnresolvedReferenceError{Name: name, Scope: c.name}
	}
	var users []string
	c.model.walkDeep(c, func(x *Variable) {
		if x.rhs == nil {
			return
		}
		for _, ref := range x.rhs.References() {
			if _, viaAlias := c.model.resolveIn(x, ref.Name); viaAlias && ref.Name == name {
				users = append(users, x.QName())
				return
			}
		}
	})
	if len(users) > 0 {
		return fmt.Errorf("%w: alias %s.%s is used by %v", ErrStillReferenced, c.name, name, users)
	}
	delete(c.aliases, name)
	c.model.invalidate()
	return nil
}

// Alias returns the target of an alias.
func (c *Component) Alias(name string) (*Variable, bool) {
	v := c.model.lookup(c.aliases[name])
	return v, v != nil
}

// Aliases returns the alias names of c, sorted.
func (c *Component) Aliases() []string {
	return sortedKeys(c.aliases)
}

// AliasesFor returns the sorted alias names under which v is visible in c.
func (c *Component) AliasesFor(v *Variable) []string {
	var out []string
	for name, id := range c.aliases {
		if id == v.id {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// subtree returns every variable owned by c, at any depth.
func (c *Component) subtree() []*Variable {
	var out []*Variable
	c.model.walkDeep(c, func(v *Variable) { out = append(out, v) })
	return out
}
