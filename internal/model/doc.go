// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model is the semantic core of the modeling language: the hierarchy
// of components and variables, the equations that define each variable, and
// the dependency graph those equations induce.
//
// # Core Concepts
//
//   - Model: the root. It owns components, the ordered list of state
//     variables with their current values, the binding and label tables, and
//     a validity flag that every structural edit resets.
//
//   - Component: a named scope of top-level variables, plus aliases that give
//     local nicknames to variables of other components.
//
//   - Variable: a named quantity defined by exactly one equation. A variable
//     may own nested variables, may be promoted to a state (its equation then
//     defines a time derivative), may be bound to an external input and may
//     carry a label for external lookup.
//
// # Why an arena?
//
// Every variable lives in a single slice owned by the Model and is addressed
// by a generational VarID. Dependency edges are stored as sets of (peer, kind)
// pairs on both endpoints, and they are only ever touched by link and unlink.
// This keeps the forward and backward sets exact mirrors of each other no
// matter how equations, states and owners are edited, and it makes Clone a
// plain copy: IDs are stable, so no pointer fix-ups are needed.
//
// # Edge kinds
//
// A reference to a state's name reads the state's current value, which is
// supplied by the integrator; it imposes no evaluation order and is tagged
// RefStateValue. Every other reference, including dot(x), is RefPlain and must
// be evaluated first. Promotion and demotion retag edges rather than moving
// them between containers.
//
// # Validation
//
// Edits are checked eagerly for naming and integrity problems. Whole-model
// problems (cycles, missing equations, unused variables) are only reported by
// Validate, which is the single place that can mark a model valid.
package model
