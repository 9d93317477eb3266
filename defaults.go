package rop

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/zephyrtronium/bigfloat"
)

// Dict is the engine's string-keyed object type. Property access reads its
// keys directly.
type Dict = map[string]Value

// List is the engine's sequence type. The default engine overloads + for
// concatenation and subscripting for negative-wrap indexing and Python-style
// slicing.
type List = []Value

// Set is the engine's set type. The default engine overloads + for union and
// - for difference. Elements must be comparable values.
type Set map[Value]struct{}

// NewSet builds a set from elements, normalizing numeric kinds so that an
// embedded int and the constant it equals are one element.
func NewSet(elems ...Value) Set {
	s := make(Set, len(elems))
	for _, v := range elems {
		s[normalize(v)] = struct{}{}
	}
	return s
}

// Has reports whether the set contains v.
func (s Set) Has(v Value) bool {
	_, ok := s[normalize(v)]
	return ok
}

// SliceDimsError is an error from giving the default sequence slice overload
// more than one dimension.
type SliceDimsError struct {
	// N is the number of dimensions in the subscript.
	N int
}

func (err *SliceDimsError) Error() string {
	return "sequence slice takes one dimension, got " + strconv.Itoa(err.N)
}

// installDefaults populates an engine with the default bindings and the
// built-in container overloads.
func installDefaults(e *Engine) {
	e.BindMap(map[string]Value{
		"true":     true,
		"false":    false,
		"null":     nil,
		"Infinity": math.Inf(1),
		"NaN":      math.NaN(),
		"PI":       math.Pi,
		"E":        math.E,
		"Math":     mathDict(),
		"List":     Func(newList),
		"Set":      Func(newSetFunc),
	})
	e.RegisterOverloads(List(nil), map[string]Overload{
		"+":   seqConcat,
		"[i]": seqIndex,
		"[:]": seqSlice,
	})
	e.RegisterOverload("", "*", textRepeat)
	e.RegisterOverloads(Set(nil), map[string]Overload{
		"+": setUnion,
		"-": setDifference,
	})
}

func newList(args ...Value) (Value, error) {
	return List(append(List(nil), args...)), nil
}

func newSetFunc(args ...Value) (Value, error) {
	return NewSet(args...), nil
}

func mathDict() Dict {
	return Dict{
		"PI":    math.Pi,
		"E":     math.E,
		"abs":   Func(mathAbs),
		"floor": Func(mathFloor),
		"ceil":  Func(mathCeil),
		"round": Func(mathRound),
		"sqrt":  Func(mathSqrt),
		"exp":   Func(mathExp),
		"ln":    Func(mathLn),
		"pow":   Func(mathPow),
		"min":   Func(mathMin),
		"max":   Func(mathMax),
	}
}

func arg1(name string, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, &CallError{Name: name, N: len(args)}
	}
	return normalize(args[0]), nil
}

func mathAbs(args ...Value) (Value, error) {
	v, err := arg1("Math.abs", args)
	if err != nil {
		return nil, err
	}
	switch n := v.(type) {
	case int64:
		if n < 0 {
			return -n, nil
		}
		return n, nil
	case *big.Int:
		return new(big.Int).Abs(n), nil
	case float64:
		return math.Abs(n), nil
	case *big.Float:
		return new(big.Float).Abs(n), nil
	}
	return nil, &CallError{Name: "Math.abs", N: 1, Arg: 1}
}

func mathFloor(args ...Value) (Value, error) {
	v, err := arg1("Math.floor", args)
	if err != nil {
		return nil, err
	}
	return roundBy("Math.floor", v, math.Floor)
}

func mathCeil(args ...Value) (Value, error) {
	v, err := arg1("Math.ceil", args)
	if err != nil {
		return nil, err
	}
	return roundBy("Math.ceil", v, math.Ceil)
}

func mathRound(args ...Value) (Value, error) {
	v, err := arg1("Math.round", args)
	if err != nil {
		return nil, err
	}
	return roundBy("Math.round", v, math.Round)
}

func roundBy(name string, v Value, f func(float64) float64) (Value, error) {
	switch n := v.(type) {
	case int64, *big.Int:
		return n, nil
	case float64:
		r := f(n)
		if math.IsNaN(r) || math.IsInf(r, 0) || r < math.MinInt64 || r > math.MaxInt64 {
			return r, nil
		}
		return int64(r), nil
	case *big.Float:
		f64, acc := n.Float64()
		if acc == big.Exact || !n.IsInt() {
			return roundBy(name, f64, f)
		}
		z, _ := n.Int(nil)
		return z, nil
	}
	return nil, &CallError{Name: name, N: 1, Arg: 1}
}

func mathSqrt(args ...Value) (Value, error) {
	v, err := arg1("Math.sqrt", args)
	if err != nil {
		return nil, err
	}
	switch n := v.(type) {
	case int64:
		return math.Sqrt(float64(n)), nil
	case *big.Int:
		return math.Sqrt(toFloat(n)), nil
	case float64:
		return math.Sqrt(n), nil
	case *big.Float:
		if n.Signbit() {
			return nil, &CallError{Name: "Math.sqrt", N: 1, Arg: 1}
		}
		return new(big.Float).SetPrec(n.Prec()).Sqrt(n), nil
	}
	return nil, &CallError{Name: "Math.sqrt", N: 1, Arg: 1}
}

func mathExp(args ...Value) (Value, error) {
	v, err := arg1("Math.exp", args)
	if err != nil {
		return nil, err
	}
	switch n := v.(type) {
	case int64:
		return math.Exp(float64(n)), nil
	case *big.Int:
		return math.Exp(toFloat(n)), nil
	case float64:
		return math.Exp(n), nil
	case *big.Float:
		return bigfloat.Exp(new(big.Float).SetPrec(n.Prec()), n), nil
	}
	return nil, &CallError{Name: "Math.exp", N: 1, Arg: 1}
}

func mathLn(args ...Value) (Value, error) {
	v, err := arg1("Math.ln", args)
	if err != nil {
		return nil, err
	}
	switch n := v.(type) {
	case int64:
		return math.Log(float64(n)), nil
	case *big.Int:
		return math.Log(toFloat(n)), nil
	case float64:
		return math.Log(n), nil
	case *big.Float:
		if n.Signbit() || n.Sign() == 0 {
			return nil, &CallError{Name: "Math.ln", N: 1, Arg: 1}
		}
		return bigfloat.Log(new(big.Float).SetPrec(n.Prec()), n), nil
	}
	return nil, &CallError{Name: "Math.ln", N: 1, Arg: 1}
}

func mathPow(args ...Value) (Value, error) {
	if len(args) != 2 {
		return nil, &CallError{Name: "Math.pow", N: len(args)}
	}
	return nativePow(args[0], args[1])
}

func mathMin(args ...Value) (Value, error) {
	return extremum("Math.min", args, -1)
}

func mathMax(args ...Value) (Value, error) {
	return extremum("Math.max", args, 1)
}

func extremum(name string, args []Value, dir int) (Value, error) {
	if len(args) == 0 {
		return nil, &CallError{Name: name, N: 0}
	}
	best := normalize(args[0])
	if kindOf(best) == numNone {
		return nil, &CallError{Name: name, N: len(args), Arg: 1}
	}
	for i, a := range args[1:] {
		v := normalize(a)
		c, ok := compare(v, best)
		if !ok {
			return nil, &CallError{Name: name, N: len(args), Arg: i + 2}
		}
		if c*dir > 0 {
			best = v
		}
	}
	return best, nil
}

// seqConcat is the sequence + overload: concatenation.
func seqConcat(self Value, args ...Value) (Value, error) {
	l := self.(List)
	r, ok := args[0].(List)
	if !ok {
		return nil, &OperandError{Op: "+", X: args[0]}
	}
	out := make(List, 0, len(l)+len(r))
	out = append(out, l...)
	return append(out, r...), nil
}

// seqIndex is the sequence [i] overload: indexing with negative wrap.
func seqIndex(self Value, args ...Value) (Value, error) {
	l := self.(List)
	i, ok := asInt(args[0])
	if !ok {
		return nil, &IndexError{X: self, Index: args[0]}
	}
	if i < 0 {
		i += int64(len(l))
	}
	if i < 0 || i >= int64(len(l)) {
		return nil, &IndexError{X: self, Index: args[0]}
	}
	return l[i], nil
}

// seqSlice is the sequence [:] overload: a Python-style single-dimension
// slice.
func seqSlice(self Value, args ...Value) (Value, error) {
	l := self.(List)
	if len(args) != 1 {
		return nil, &SliceDimsError{N: len(args)}
	}
	d := args[0].(Dim)
	idx, err := sliceIndices(d, int64(len(l)))
	if err != nil {
		return nil, err
	}
	out := make(List, len(idx))
	for k, i := range idx {
		out[k] = l[i]
	}
	return out, nil
}

// sliceIndices enumerates the element indices a dimension selects from a
// sequence of length n. Negative start and end wrap by adding n; the
// defaulted end of a negative-step slice is the exclusive sentinel -1, which
// does not wrap, so a reverse slice reaches index 0.
func sliceIndices(d Dim, n int64) ([]int64, error) {
	step := int64(1)
	if d.Step != nil {
		s, ok := asInt(d.Step)
		if !ok {
			return nil, &IndexError{X: d.Step, Index: d.Step}
		}
		step = s
	}
	if step == 0 {
		return nil, &SliceStepError{}
	}
	bound := func(v Value, dflt int64) (int64, error) {
		if v == nil {
			return dflt, nil
		}
		i, ok := asInt(v)
		if !ok {
			return 0, &IndexError{X: v, Index: v}
		}
		if i < 0 {
			i += n
		}
		return i, nil
	}
	var idx []int64
	if step > 0 {
		start, err := bound(d.Start, 0)
		if err != nil {
			return nil, err
		}
		end, err := bound(d.End, n)
		if err != nil {
			return nil, err
		}
		start = clamp(start, 0, n)
		end = clamp(end, 0, n)
		for i := start; i < end; i += step {
			idx = append(idx, i)
		}
		return idx, nil
	}
	start, err := bound(d.Start, n-1)
	if err != nil {
		return nil, err
	}
	end := int64(-1)
	if d.End != nil {
		if end, err = bound(d.End, -1); err != nil {
			return nil, err
		}
	}
	start = clamp(start, -1, n-1)
	end = clamp(end, -1, n-1)
	for i := start; i > end; i += step {
		idx = append(idx, i)
	}
	return idx, nil
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// textRepeat is the string * overload: repeat. It also serves 3 * 'hey'
// through swapped dispatch.
func textRepeat(self Value, args ...Value) (Value, error) {
	s := self.(string)
	n, ok := asInt(args[0])
	if !ok || n < 0 {
		return nil, &OperandError{Op: "*", X: args[0]}
	}
	return strings.Repeat(s, int(n)), nil
}

// setUnion is the set + overload.
func setUnion(self Value, args ...Value) (Value, error) {
	l := self.(Set)
	r, ok := args[0].(Set)
	if !ok {
		return nil, &OperandError{Op: "+", X: args[0]}
	}
	out := make(Set, len(l)+len(r))
	for v := range l {
		out[v] = struct{}{}
	}
	for v := range r {
		out[v] = struct{}{}
	}
	return out, nil
}

// setDifference is the set - overload: elements of the left set not in the
// right.
func setDifference(self Value, args ...Value) (Value, error) {
	l := self.(Set)
	r, ok := args[0].(Set)
	if !ok {
		return nil, &OperandError{Op: "-", X: args[0]}
	}
	out := make(Set)
	for v := range l {
		if _, drop := r[v]; !drop {
			out[v] = struct{}{}
		}
	}
	return out, nil
}
