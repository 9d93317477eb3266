package rop

import (
	"reflect"
	"strconv"
)

// Overload implements an operation for operands of one class. The receiver is
// always passed as self: a unary overload gets no further arguments, a binary
// overload gets the other operand (possibly swapped, see Engine.Eval), an
// indexing overload gets the index, and a slicing overload gets one Dim per
// dimension.
type Overload func(self Value, args ...Value) (Value, error)

// Operand is the capability a class implements to declare overloads on
// itself, visible to every engine without registration. Operator returns the
// implementation for a tag, or nil. It must be callable on a zero value of
// the class.
type Operand interface {
	Operator(tag OpTag) Overload
}

var operandType = reflect.TypeOf((*Operand)(nil)).Elem()

// classOf is the dispatch key for a value or class representative.
func classOf(v Value) reflect.Type {
	return reflect.TypeOf(v)
}

// RegisterOverload registers fn as the implementation of the named operation
// for the class of which class is a representative (an instance or a zero
// value). Unknown operation names panic; they are program bugs, not input.
// Returns e for chaining.
func (e *Engine) RegisterOverload(class Value, name string, fn Overload) *Engine {
	tag := TagOf(name)
	if tag == TagNone {
		panic("rop: unknown operation " + strconv.Quote(name))
	}
	t := classOf(class)
	if t == nil {
		panic("rop: cannot overload the nil class")
	}
	m := e.overloads[t]
	if m == nil {
		m = make(map[OpTag]Overload)
		e.overloads[t] = m
	}
	m[tag] = fn
	return e
}

// RegisterOverloads registers a set of operation implementations for one
// class in a single call.
func (e *Engine) RegisterOverloads(class Value, fns map[string]Overload) *Engine {
	for name, fn := range fns {
		e.RegisterOverload(class, name, fn)
	}
	return e
}

// RegisterParent records parent as the class child inherits overloads from.
// Resolution walks child, then parent, then parent's parent, until a class
// with no registered parent ends the chain.
func (e *Engine) RegisterParent(child, parent Value) *Engine {
	c, p := classOf(child), classOf(parent)
	if c == nil || p == nil {
		panic("rop: cannot chain the nil class")
	}
	e.parents[c] = p
	return e
}

// OverloadFor resolves the overload for an operation tag on a value, walking
// the value's class chain. At each class, an engine registration wins over
// the class's own Operand declaration. The result is nil when the chain ends
// without a hit, in which case the native semantics apply.
func (e *Engine) OverloadFor(v Value, tag OpTag) Overload {
	t := classOf(v)
	first := true
	for t != nil {
		if fn := e.overloads[t][tag]; fn != nil {
			return fn
		}
		if t.Implements(operandType) {
			var od Operand
			if first {
				od = v.(Operand)
			} else {
				od, _ = reflect.Zero(t).Interface().(Operand)
			}
			if od != nil {
				if fn := od.Operator(tag); fn != nil {
					return fn
				}
			}
		}
		t = e.parents[t]
		first = false
	}
	return nil
}

// OverloadsOf returns the overloads registered on the engine for a class
// representative's own class, not consulting parents or Operand. The result
// is a copy.
func (e *Engine) OverloadsOf(class Value) map[OpTag]Overload {
	m := e.overloads[classOf(class)]
	if m == nil {
		return nil
	}
	out := make(map[OpTag]Overload, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
