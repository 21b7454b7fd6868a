// internal/qname/doc.go

/*
Package qname provides the naming rules of the modeling language: which
identifiers are legal for components and variables, which words are reserved,
and how qualified names such as `membrane.V` or `ina.m.alpha` are parsed and
formatted.

A qualified name is a dot-separated sequence of identifier segments. The
first segment names a component, every following segment names a variable
nested one level deeper than the previous one.
*/
package qname
