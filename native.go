package rop

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strings"

	"github.com/zephyrtronium/bigfloat"
)

// OperandError is an error from a native operator applied to operands it is
// not defined on.
type OperandError struct {
	// Op is the operator literal.
	Op string
	// X is the offending operand.
	X Value
}

func (err *OperandError) Error() string {
	return fmt.Sprintf("operator %s not defined on %T", err.Op, err.X)
}

// numKind orders the numeric kinds by promotion rank.
type numKind int8

const (
	numNone numKind = iota
	numInt
	numBig
	numFloat
	numBigFloat
)

// normalize maps host numeric types onto the engine's numeric kinds so that
// embedded Go ints and floats behave like constants.
func normalize(v Value) Value {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case uint:
		if n <= math.MaxInt64 {
			return int64(n)
		}
		return new(big.Int).SetUint64(uint64(n))
	case uint64:
		if n <= math.MaxInt64 {
			return int64(n)
		}
		return new(big.Int).SetUint64(n)
	case float32:
		return float64(n)
	}
	return v
}

func kindOf(v Value) numKind {
	switch v.(type) {
	case int64:
		return numInt
	case *big.Int:
		return numBig
	case float64:
		return numFloat
	case *big.Float:
		return numBigFloat
	}
	return numNone
}

// numPair normalizes two operands and reports their common promoted kind, or
// numNone if either is not numeric.
func numPair(l, r Value) (Value, Value, numKind) {
	l, r = normalize(l), normalize(r)
	lk, rk := kindOf(l), kindOf(r)
	if lk == numNone || rk == numNone {
		return l, r, numNone
	}
	k := lk
	if rk > k {
		k = rk
	}
	return l, r, k
}

func toBig(v Value) *big.Int {
	switch n := v.(type) {
	case int64:
		return big.NewInt(n)
	case *big.Int:
		return n
	}
	panic(fmt.Sprintf("rop: toBig on %T", v))
}

func toFloat(v Value) float64 {
	switch n := v.(type) {
	case int64:
		return float64(n)
	case *big.Int:
		f, _ := new(big.Float).SetInt(n).Float64()
		return f
	case float64:
		return n
	}
	panic(fmt.Sprintf("rop: toFloat on %T", v))
}

func toBigFloat(v Value) *big.Float {
	switch n := v.(type) {
	case int64:
		return new(big.Float).SetInt64(n)
	case *big.Int:
		return new(big.Float).SetInt(n)
	case float64:
		return new(big.Float).SetFloat64(n)
	case *big.Float:
		return n
	}
	panic(fmt.Sprintf("rop: toBigFloat on %T", v))
}

// asInt extracts an integral index value.
func asInt(v Value) (int64, bool) {
	switch n := normalize(v).(type) {
	case int64:
		return n, true
	case *big.Int:
		if n.IsInt64() {
			return n.Int64(), true
		}
	case float64:
		if n == math.Trunc(n) && !math.IsInf(n, 0) {
			return int64(n), true
		}
	}
	return 0, false
}

// truthy is the logical interpretation of a value: false, zero of any
// numeric kind, NaN, the empty string, and nil are false; everything else is
// true.
func truthy(v Value) bool {
	switch n := normalize(v).(type) {
	case nil:
		return false
	case bool:
		return n
	case int64:
		return n != 0
	case *big.Int:
		return n.Sign() != 0
	case float64:
		return n != 0 && !math.IsNaN(n)
	case *big.Float:
		return n.Sign() != 0
	case string:
		return n != ""
	}
	return true
}

func nativeNot(x Value) (Value, error) {
	return !truthy(x), nil
}

func nativeBitNot(x Value) (Value, error) {
	switch n := normalize(x).(type) {
	case int64:
		return ^n, nil
	case *big.Int:
		return new(big.Int).Not(n), nil
	}
	return nil, &OperandError{Op: "~", X: x}
}

func nativeNeg(x Value) (Value, error) {
	switch n := normalize(x).(type) {
	case int64:
		return -n, nil
	case *big.Int:
		return new(big.Int).Neg(n), nil
	case float64:
		return -n, nil
	case *big.Float:
		return new(big.Float).Neg(n), nil
	}
	return nil, &OperandError{Op: "-", X: x}
}

func nativePos(x Value) (Value, error) {
	n := normalize(x)
	if kindOf(n) == numNone {
		return nil, &OperandError{Op: "+", X: x}
	}
	return n, nil
}

func nativeAdd(l, r Value) (Value, error) {
	if ls, ok := l.(string); ok {
		if rs, ok := r.(string); ok {
			return ls + rs, nil
		}
	}
	l, r, k := numPair(l, r)
	switch k {
	case numInt:
		return l.(int64) + r.(int64), nil
	case numBig:
		return new(big.Int).Add(toBig(l), toBig(r)), nil
	case numFloat:
		return toFloat(l) + toFloat(r), nil
	case numBigFloat:
		return new(big.Float).Add(toBigFloat(l), toBigFloat(r)), nil
	}
	return nil, operandErr("+", l, r)
}

func nativeSub(l, r Value) (Value, error) {
	l, r, k := numPair(l, r)
	switch k {
	case numInt:
		return l.(int64) - r.(int64), nil
	case numBig:
		return new(big.Int).Sub(toBig(l), toBig(r)), nil
	case numFloat:
		return toFloat(l) - toFloat(r), nil
	case numBigFloat:
		return new(big.Float).Sub(toBigFloat(l), toBigFloat(r)), nil
	}
	return nil, operandErr("-", l, r)
}

func nativeMul(l, r Value) (Value, error) {
	l, r, k := numPair(l, r)
	switch k {
	case numInt:
		return l.(int64) * r.(int64), nil
	case numBig:
		return new(big.Int).Mul(toBig(l), toBig(r)), nil
	case numFloat:
		return toFloat(l) * toFloat(r), nil
	case numBigFloat:
		return new(big.Float).Mul(toBigFloat(l), toBigFloat(r)), nil
	}
	return nil, operandErr("*", l, r)
}

// nativeDiv is real division regardless of operand kinds; integral operands
// produce a float.
func nativeDiv(l, r Value) (Value, error) {
	l, r, k := numPair(l, r)
	switch k {
	case numInt, numBig, numFloat:
		return toFloat(l) / toFloat(r), nil
	case numBigFloat:
		lf, rf := toBigFloat(l), toBigFloat(r)
		if lf.Sign() == 0 && rf.Sign() == 0 || lf.IsInf() && rf.IsInf() {
			return nil, operandErr("/", l, r)
		}
		return new(big.Float).Quo(lf, rf), nil
	}
	return nil, operandErr("/", l, r)
}

func nativeMod(l, r Value) (Value, error) {
	l, r, k := numPair(l, r)
	switch k {
	case numInt:
		if r.(int64) == 0 {
			return math.NaN(), nil
		}
		return l.(int64) % r.(int64), nil
	case numBig:
		if toBig(r).Sign() == 0 {
			return math.NaN(), nil
		}
		return new(big.Int).Rem(toBig(l), toBig(r)), nil
	case numFloat:
		return math.Mod(toFloat(l), toFloat(r)), nil
	}
	return nil, operandErr("%", l, r)
}

func nativePow(l, r Value) (Value, error) {
	l, r, k := numPair(l, r)
	switch k {
	case numInt:
		b, x := l.(int64), r.(int64)
		if x >= 0 && x <= maxIntExp {
			// Compute in big and narrow, so large powers keep their value.
			z := new(big.Int).Exp(big.NewInt(b), big.NewInt(x), nil)
			if z.IsInt64() {
				return z.Int64(), nil
			}
			return z, nil
		}
		return math.Pow(float64(b), float64(x)), nil
	case numBig:
		x := toBig(r)
		if x.Sign() >= 0 && x.IsInt64() && x.Int64() <= maxIntExp {
			return new(big.Int).Exp(toBig(l), x, nil), nil
		}
		fallthrough
	case numBigFloat:
		lf := toBigFloat(l)
		if lf.Signbit() {
			return nil, operandErr("**", l, r)
		}
		return bigfloat.Pow(new(big.Float).SetPrec(lf.Prec()), lf, toBigFloat(r)), nil
	case numFloat:
		return math.Pow(toFloat(l), toFloat(r)), nil
	}
	return nil, operandErr("**", l, r)
}

// maxIntExp bounds exact integer exponentiation; larger exponents compute in
// floating point.
const maxIntExp = 1 << 20

func shiftCount(r Value) (uint, bool) {
	n, ok := asInt(r)
	if !ok || n < 0 || n > 1<<20 {
		return 0, false
	}
	return uint(n), true
}

func nativeShl(l, r Value) (Value, error) {
	l, r, k := numPair(l, r)
	c, ok := shiftCount(r)
	if !ok {
		return nil, operandErr("<<", l, r)
	}
	switch k {
	case numInt:
		return l.(int64) << c, nil
	case numBig:
		return new(big.Int).Lsh(toBig(l), c), nil
	}
	return nil, operandErr("<<", l, r)
}

func nativeShr(l, r Value) (Value, error) {
	l, r, k := numPair(l, r)
	c, ok := shiftCount(r)
	if !ok {
		return nil, operandErr(">>", l, r)
	}
	switch k {
	case numInt:
		return l.(int64) >> c, nil
	case numBig:
		return new(big.Int).Rsh(toBig(l), c), nil
	}
	return nil, operandErr(">>", l, r)
}

// nativeShrU shifts the 64-bit two's-complement pattern without sign
// extension. Big integers have no fixed width to shift zeros into.
func nativeShrU(l, r Value) (Value, error) {
	l, r, k := numPair(l, r)
	c, ok := shiftCount(r)
	if !ok || k != numInt {
		return nil, operandErr(">>>", l, r)
	}
	if c >= 64 {
		return int64(0), nil
	}
	return int64(uint64(l.(int64)) >> c), nil
}

func nativeBitAnd(l, r Value) (Value, error) {
	l, r, k := numPair(l, r)
	switch k {
	case numInt:
		return l.(int64) & r.(int64), nil
	case numBig:
		return new(big.Int).And(toBig(l), toBig(r)), nil
	}
	return nil, operandErr("&", l, r)
}

func nativeBitOr(l, r Value) (Value, error) {
	l, r, k := numPair(l, r)
	switch k {
	case numInt:
		return l.(int64) | r.(int64), nil
	case numBig:
		return new(big.Int).Or(toBig(l), toBig(r)), nil
	}
	return nil, operandErr("|", l, r)
}

func nativeBitXor(l, r Value) (Value, error) {
	l, r, k := numPair(l, r)
	switch k {
	case numInt:
		return l.(int64) ^ r.(int64), nil
	case numBig:
		return new(big.Int).Xor(toBig(l), toBig(r)), nil
	}
	return nil, operandErr("^", l, r)
}

// compare orders two values. The second result is false when the operands
// are unordered: not both numbers or both strings, or either is NaN.
func compare(l, r Value) (int, bool) {
	if ls, ok := l.(string); ok {
		if rs, ok := r.(string); ok {
			return strings.Compare(ls, rs), true
		}
		return 0, false
	}
	l, r, k := numPair(l, r)
	switch k {
	case numInt:
		a, b := l.(int64), r.(int64)
		switch {
		case a < b:
			return -1, true
		case a > b:
			return 1, true
		}
		return 0, true
	case numBig:
		return toBig(l).Cmp(toBig(r)), true
	case numFloat:
		a, b := toFloat(l), toFloat(r)
		if math.IsNaN(a) || math.IsNaN(b) {
			return 0, false
		}
		switch {
		case a < b:
			return -1, true
		case a > b:
			return 1, true
		}
		return 0, true
	case numBigFloat:
		return toBigFloat(l).Cmp(toBigFloat(r)), true
	}
	return 0, false
}

func nativeLt(l, r Value) (Value, error) {
	c, ok := compare(l, r)
	return ok && c < 0, nil
}

func nativeGt(l, r Value) (Value, error) {
	c, ok := compare(l, r)
	return ok && c > 0, nil
}

func nativeLe(l, r Value) (Value, error) {
	c, ok := compare(l, r)
	return ok && c <= 0, nil
}

func nativeGe(l, r Value) (Value, error) {
	c, ok := compare(l, r)
	return ok && c >= 0, nil
}

// looseEqual compares across numeric kinds after promotion; other kinds
// compare by value when comparable and by reference otherwise.
func looseEqual(l, r Value) bool {
	ln, rn := normalize(l), normalize(r)
	if kindOf(ln) != numNone && kindOf(rn) != numNone {
		c, ok := compare(ln, rn)
		return ok && c == 0
	}
	if ln == nil || rn == nil {
		return ln == nil && rn == nil
	}
	lv, rv := reflect.ValueOf(ln), reflect.ValueOf(rn)
	if lv.Type() != rv.Type() {
		return false
	}
	switch lv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Func, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		return lv.Pointer() == rv.Pointer()
	}
	if lv.Comparable() {
		return lv.Equal(rv)
	}
	return false
}

// strictEqual additionally requires the same kind: 1 == 1.0 but not
// 1 === 1.0.
func strictEqual(l, r Value) bool {
	ln, rn := normalize(l), normalize(r)
	if kindOf(ln) != kindOf(rn) {
		return false
	}
	return looseEqual(ln, rn)
}

func nativeEq(l, r Value) (Value, error) {
	return looseEqual(l, r), nil
}

func nativeNe(l, r Value) (Value, error) {
	return !looseEqual(l, r), nil
}

func nativeSeq(l, r Value) (Value, error) {
	return strictEqual(l, r), nil
}

func nativeSne(l, r Value) (Value, error) {
	return !strictEqual(l, r), nil
}

// operandErr blames the left operand when it is not numeric, and the right one
// otherwise.
func operandErr(op string, l, r Value) *OperandError {
	if kindOf(normalize(l)) == numNone {
		return &OperandError{Op: op, X: l}
	}
	return &OperandError{Op: op, X: r}
}
