// Package expr implements the right-hand sides of model equations on top of
// HCL native syntax.
//
// An equation's defining expression is ordinary HCL arithmetic over variable
// references:
//
//	-(i_ion + i_stim) / C
//	membrane.V * 2 + dot(ina.m)
//
// A bare name (`C`) or a qualified name (`membrane.V`) reads the value of a
// variable. The call `dot(x)` reads the time derivative of the state `x`. The
// model layer decides what each name resolves to; this package only reports
// the references an expression makes, evaluates it against a numeric
// environment, and produces structural copies with references renamed.
//
// Every Expression keeps its own source text. The text is the identity of the
// expression: equality, hashing and serialization all go through its
// canonical (hclwrite-formatted) form, and structural cloning re-parses the
// rewritten text so that the copy shares no syntax nodes with the original.
package expr
