// Package plan turns a validated model into a deterministic evaluation order
// suitable for sequential code emission.
//
// # Why Plan Exists
//
// A code generator writes one statement per equation, and every statement must
// come after the statements it reads. Generated code is also read by people,
// so equations are grouped by the component that owns them wherever the
// dependency structure allows it.
//
// This provides several key benefits:
//   - **Readability:** Equations stay in their component's section of the output
//   - **Determinism:** The same model always yields the same order
//   - **Isolation:** Equations entangled across components are kept apart in a
//     single fallback bucket instead of breaking the per-component grouping
//
// # How It Works
//
// Compute follows four steps:
//  1. Build the component dependency graph (plain references only) and peel
//     off components with no remaining dependencies, in name order. Components
//     left over depend on each other and are appended in name order.
//  2. Walk the components in that order. Within each, repeatedly place every
//     equation whose dependencies are all placed, ties broken by the text of
//     the left-hand side.
//  3. Whatever is left is placed into the fallback bucket with the same rule,
//     across all components at once. The validator rejects cycles among used
//     variables, so anything still left belongs to a cycle among unused
//     variables (or depends on one). Those equations are reported in
//     Unordered; if a used variable is ever left, ErrUnorderable is returned.
//  4. Ordering works on single variables, so nesting never affects
//     solvability. Nesting only affects grouping: when a variable is placed,
//     the members of its top-level variable's subtree that became ready follow
//     it immediately, ties broken by qualified name.
//
// Reads of a state's current value never impose an order and are ignored
// throughout.
package plan
