// Package rop implements a small expression engine with runtime operator
// overloading.
//
// Expressions arrive as template fragments interleaved with embedded Go
// values, in the style of tagged template literals: the fragments carry the
// source text and the values flow through evaluation untouched. The engine
// tokenizes the fragments, parses them with precedence climbing, and walks
// the resulting tree, resolving identifiers against an engine's bindings and
// dispatching operators through its overload table.
//
// Overloads are keyed by the operand's class. A class may register overloads
// on an engine, or declare them on itself by implementing Operand, in which
// case every engine sees them. The default engine binds common constants and
// functions and installs overloads for sequences, strings, and sets, so that
// for example two lists add by concatenation and a list subscripts with
// Python-style slices.
package rop
