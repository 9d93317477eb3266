package rop

import (
	"fmt"
	"reflect"
	"strconv"
)

// Dim is one evaluated slice dimension as passed to a [:] overload. Absent
// parts are nil.
type Dim struct {
	Start, End, Step Value
}

// Eval evaluates a parsed expression against the engine's bindings and
// overloads.
func (e *Engine) Eval(x *Expr) (Value, error) {
	return e.eval(x.n)
}

// Evaluate tokenizes, parses, and evaluates template fragments with embedded
// values in one call.
func (e *Engine) Evaluate(fragments []string, values ...Value) (Value, error) {
	x, err := ParseTemplate(fragments, values...)
	if err != nil {
		return nil, err
	}
	return e.eval(x.n)
}

// EvalString tokenizes, parses, and evaluates a plain source string.
func (e *Engine) EvalString(src string) (Value, error) {
	return e.Evaluate([]string{src})
}

func (e *Engine) eval(n *node) (Value, error) {
	switch n.kind {
	case nodeValue:
		return n.tok.Val, nil
	case nodeIdent:
		v, ok := e.binds[n.name]
		if !ok {
			return nil, &NameError{Name: n.name}
		}
		return v, nil
	case nodeUnary:
		v, err := e.eval(n.left)
		if err != nil {
			return nil, err
		}
		if fn := e.OverloadFor(v, n.op.tag); fn != nil {
			return fn(v)
		}
		return n.op.unary(v)
	case nodeBinary:
		// && and || decide whether to evaluate the right operand at all, so
		// they cannot dispatch overloads.
		switch n.op.tag {
		case TagAnd:
			l, err := e.eval(n.left)
			if err != nil || !truthy(l) {
				return l, err
			}
			return e.eval(n.right)
		case TagOr:
			l, err := e.eval(n.left)
			if err != nil || truthy(l) {
				return l, err
			}
			return e.eval(n.right)
		}
		l, err := e.eval(n.left)
		if err != nil {
			return nil, err
		}
		r, err := e.eval(n.right)
		if err != nil {
			return nil, err
		}
		if fn := e.OverloadFor(l, n.op.tag); fn != nil {
			return fn(l, r)
		}
		if fn := e.OverloadFor(r, n.op.tag); fn != nil {
			// Swapped dispatch: the right operand's class implements the
			// operation with itself as receiver.
			return fn(r, l)
		}
		return n.op.binary(l, r)
	case nodeProp:
		obj, err := e.eval(n.left)
		if err != nil {
			return nil, err
		}
		return property(obj, n.name)
	case nodeIndex:
		t, err := e.eval(n.left)
		if err != nil {
			return nil, err
		}
		idx, err := e.eval(n.right)
		if err != nil {
			return nil, err
		}
		if fn := e.OverloadFor(t, TagIndex); fn != nil {
			return fn(t, idx)
		}
		return nativeIndex(t, idx)
	case nodeSlice:
		t, err := e.eval(n.left)
		if err != nil {
			return nil, err
		}
		dims := make([]Value, len(n.dims))
		for i, d := range n.dims {
			var dv Dim
			if d.start != nil {
				if dv.Start, err = e.eval(d.start); err != nil {
					return nil, err
				}
			}
			if d.end != nil {
				if dv.End, err = e.eval(d.end); err != nil {
					return nil, err
				}
			}
			if d.step != nil {
				if dv.Step, err = e.eval(d.step); err != nil {
					return nil, err
				}
			}
			dims[i] = dv
		}
		if fn := e.OverloadFor(t, TagSlice); fn != nil {
			return fn(t, dims...)
		}
		if len(dims) == 1 {
			// Without an overload, a lone start degenerates to an index
			// access.
			if d := dims[0].(Dim); d.Start != nil && d.End == nil && d.Step == nil {
				return nativeIndex(t, d.Start)
			}
		}
		return nil, &NoSliceError{X: t}
	case nodeInvoke:
		callee, err := e.eval(n.left)
		if err != nil {
			return nil, err
		}
		args := make([]Value, len(n.args))
		for i, a := range n.args {
			if args[i], err = e.eval(a); err != nil {
				return nil, err
			}
		}
		return invoke(callee, args)
	default:
		panic("rop: invalid AST node " + n.kind.String())
	}
}

// property reads a property of a host value: a Dict key, a map entry, a
// struct field, or a method value, in that order.
func property(obj Value, name string) (Value, error) {
	switch o := obj.(type) {
	case Dict:
		if v, ok := o[name]; ok {
			return v, nil
		}
		return nil, &PropertyError{X: obj, Name: name}
	case nil:
		return nil, &PropertyError{Name: name}
	}
	rv := reflect.ValueOf(obj)
	ev := rv
	for ev.Kind() == reflect.Pointer && !ev.IsNil() {
		ev = ev.Elem()
	}
	switch ev.Kind() {
	case reflect.Map:
		if ev.Type().Key().Kind() == reflect.String {
			if v := ev.MapIndex(reflect.ValueOf(name).Convert(ev.Type().Key())); v.IsValid() {
				return normalize(v.Interface()), nil
			}
		}
	case reflect.Struct:
		if f := ev.FieldByName(name); f.IsValid() && f.CanInterface() {
			return normalize(f.Interface()), nil
		}
	}
	if m := rv.MethodByName(name); m.IsValid() {
		return m.Interface(), nil
	}
	return nil, &PropertyError{X: obj, Name: name}
}

// invoke calls a callee with already evaluated arguments. A Func is called
// directly; any other Go function goes through reflection with numeric
// argument adaptation.
func invoke(callee Value, args []Value) (Value, error) {
	switch f := callee.(type) {
	case Func:
		return f(args...)
	case nil:
		return nil, &NotCallableError{X: callee}
	}
	fv := reflect.ValueOf(callee)
	if fv.Kind() != reflect.Func {
		return nil, &NotCallableError{X: callee}
	}
	ft := fv.Type()
	n := ft.NumIn()
	if ft.IsVariadic() {
		if len(args) < n-1 {
			return nil, &CallError{Fn: callee, N: len(args)}
		}
	} else if len(args) != n {
		return nil, &CallError{Fn: callee, N: len(args)}
	}
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		var t reflect.Type
		if ft.IsVariadic() && i >= n-1 {
			t = ft.In(n - 1).Elem()
		} else {
			t = ft.In(i)
		}
		v, ok := adaptArg(a, t)
		if !ok {
			return nil, &CallError{Fn: callee, N: len(args), Arg: i + 1}
		}
		in[i] = v
	}
	out := fv.Call(in)
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if r, ok := out[0].Interface().(error); ok && ft.Out(0) == errType {
			return nil, r
		}
		return normalize(out[0].Interface()), nil
	case 2:
		var err error
		if !out[1].IsNil() {
			err = out[1].Interface().(error)
		}
		return normalize(out[0].Interface()), err
	default:
		return nil, &NotCallableError{X: callee}
	}
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

// adaptArg converts an evaluated argument to a parameter type, converting
// between numeric kinds where the conversion is exact enough to be useful.
func adaptArg(a Value, t reflect.Type) (reflect.Value, bool) {
	if reflect.TypeOf(a) != t {
		a = normalize(a)
	}
	if a == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
			return reflect.Zero(t), true
		}
		return reflect.Value{}, false
	}
	av := reflect.ValueOf(a)
	if av.Type().AssignableTo(t) {
		return av, true
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		switch av.Kind() {
		case reflect.Int64, reflect.Float64:
			return av.Convert(t), true
		}
	}
	if av.Type().ConvertibleTo(t) && av.Kind() == t.Kind() {
		return av.Convert(t), true
	}
	return reflect.Value{}, false
}

// nativeIndex is host indexing for targets with no [i] overload. There is no
// negative wrapping here; that is the sequence overload's behavior.
func nativeIndex(t, idx Value) (Value, error) {
	switch o := t.(type) {
	case List:
		i, ok := asInt(idx)
		if !ok || i < 0 || i >= int64(len(o)) {
			return nil, &IndexError{X: t, Index: idx}
		}
		return o[i], nil
	case string:
		i, ok := asInt(idx)
		r := []rune(o)
		if !ok || i < 0 || i >= int64(len(r)) {
			return nil, &IndexError{X: t, Index: idx}
		}
		return string(r[i]), nil
	case Dict:
		s, ok := idx.(string)
		if !ok {
			return nil, &IndexError{X: t, Index: idx}
		}
		if v, ok := o[s]; ok {
			return v, nil
		}
		return nil, &IndexError{X: t, Index: idx}
	case nil:
		return nil, &IndexError{X: t, Index: idx}
	}
	rv := reflect.ValueOf(t)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		i, ok := asInt(idx)
		if !ok || i < 0 || i >= int64(rv.Len()) {
			return nil, &IndexError{X: t, Index: idx}
		}
		return normalize(rv.Index(int(i)).Interface()), nil
	case reflect.Map:
		kv, ok := adaptArg(idx, rv.Type().Key())
		if !ok {
			return nil, &IndexError{X: t, Index: idx}
		}
		if v := rv.MapIndex(kv); v.IsValid() {
			return normalize(v.Interface()), nil
		}
	}
	return nil, &IndexError{X: t, Index: idx}
}

// NameError is an error from a lookup for an identifier that is missing from
// the engine's bindings.
type NameError struct {
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "undefined identifier: " + strconv.Quote(err.Name)
}

// NotCallableError is an error from invoking a value that is not a function.
type NotCallableError struct {
	// X is the value that was invoked.
	X Value
}

func (err *NotCallableError) Error() string {
	return fmt.Sprintf("%T is not callable", err.X)
}

// CallError is an error from calling a function with arguments it cannot
// accept.
type CallError struct {
	// Fn is the function that was called.
	Fn Value
	// Name identifies the function when it has one, e.g. a default binding.
	Name string
	// N is the number of arguments in the call.
	N int
	// Arg is the 1-based index of the offending argument, or 0 when the
	// count itself is wrong.
	Arg int
}

func (err *CallError) Error() string {
	who := err.Name
	if who == "" {
		who = fmt.Sprintf("%T", err.Fn)
	}
	if err.Arg > 0 {
		return fmt.Sprintf("cannot call %s: argument %d has the wrong type", who, err.Arg)
	}
	return fmt.Sprintf("cannot call %s with %d arguments", who, err.N)
}

// PropertyError is an error from accessing a property a value does not have.
type PropertyError struct {
	// X is the object.
	X Value
	// Name is the property name.
	Name string
}

func (err *PropertyError) Error() string {
	return fmt.Sprintf("%T has no property %q", err.X, err.Name)
}

// IndexError is an error from indexing a value that does not support the
// given index.
type IndexError struct {
	// X is the target.
	X Value
	// Index is the evaluated index.
	Index Value
}

func (err *IndexError) Error() string {
	return fmt.Sprintf("cannot index %T with %v", err.X, err.Index)
}

// NoSliceError is an error from slicing a value whose class has no slicing
// overload.
type NoSliceError struct {
	// X is the target.
	X Value
}

func (err *NoSliceError) Error() string {
	return fmt.Sprintf("%T does not support slicing", err.X)
}

// SliceStepError is an error from a slice dimension with step zero.
type SliceStepError struct{}

func (err *SliceStepError) Error() string {
	return "slice step must not be zero"
}
