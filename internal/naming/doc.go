// Package naming gives every component and variable of a validated model a
// flat identifier that is unique across the whole model.
//
// Generated code lives in one flat namespace, while models are hierarchical
// and routinely reuse local names such as "V" or "alpha" in several
// components. Assign maps each entity to an output name that is stable for a
// given set of names and reservations, so regenerating code for an unchanged
// model never renames anything.
package naming
