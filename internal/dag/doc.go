// Package dag is a small directed graph keyed by string IDs. The planner uses
// it as scratch space: nodes are peeled off in dependency order with Ready and
// Remove, and whatever cannot be peeled off is reported by DetectCycles and
// StronglyConnected.
//
// Every method that returns IDs returns them sorted, so callers get the same
// answer on every run regardless of map iteration order.
package dag
