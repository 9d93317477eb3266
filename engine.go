package rop

import "reflect"

// Func is the engine's preferred callable shape. Bound functions of other
// shapes are invoked through reflection.
type Func func(args ...Value) (Value, error)

// Binding associates an identifier name with a host value.
type Binding struct {
	Name  string
	Value Value
}

// Engine owns a binding table and an overload table and evaluates
// expressions against them. An Engine is not safe for concurrent use.
type Engine struct {
	binds     map[string]Value
	overloads map[reflect.Type]map[OpTag]Overload
	parents   map[reflect.Type]reflect.Type
}

// New creates an engine with no bindings and no overloads.
func New() *Engine {
	return &Engine{
		binds:     make(map[string]Value),
		overloads: make(map[reflect.Type]map[OpTag]Overload),
		parents:   make(map[reflect.Type]reflect.Type),
	}
}

// NewWithDefaults creates an engine with the default bindings and the
// built-in container overloads installed.
func NewWithDefaults() *Engine {
	e := New()
	installDefaults(e)
	return e
}

// Bind sets the value of an identifier, replacing any previous value.
// Returns e for chaining.
func (e *Engine) Bind(name string, v Value) *Engine {
	e.binds[name] = v
	return e
}

// BindMap sets the values of any number of identifiers.
func (e *Engine) BindMap(m map[string]Value) *Engine {
	for k, v := range m {
		e.binds[k] = v
	}
	return e
}

// BindPairs sets the values of identifiers from an ordered pair list. Later
// pairs win.
func (e *Engine) BindPairs(pairs []Binding) *Engine {
	for _, p := range pairs {
		e.binds[p.Name] = p.Value
	}
	return e
}

// Unbind removes identifiers from the binding table. Unknown names are
// ignored.
func (e *Engine) Unbind(names ...string) *Engine {
	for _, n := range names {
		delete(e.binds, n)
	}
	return e
}

// Lookup returns the value bound to a name.
func (e *Engine) Lookup(name string) (Value, bool) {
	v, ok := e.binds[name]
	return v, ok
}

// defaultEngine is the process-wide engine. Access to it is not serialized;
// hosts sharing it across goroutines must serialize externally.
var defaultEngine *Engine

// Default returns the process-wide engine, constructing it with the default
// bindings and overloads on first use.
func Default() *Engine {
	if defaultEngine == nil {
		defaultEngine = NewWithDefaults()
	}
	return defaultEngine
}

// ResetDefault discards the process-wide engine along with every binding and
// overload added to it. Engines created with New are unaffected.
func ResetDefault() {
	defaultEngine = nil
}

// Eval is a shortcut to evaluate template fragments with embedded values on
// the default engine.
func Eval(fragments []string, values ...Value) (Value, error) {
	return Default().Evaluate(fragments, values...)
}

// EvalString is a shortcut to evaluate a plain source string on the default
// engine.
func EvalString(src string) (Value, error) {
	return Default().EvalString(src)
}
