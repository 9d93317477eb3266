package rop_test

import (
	"fmt"

	"github.com/Leawind/rop"
)

func Example() {
	e := rop.NewWithDefaults()
	e.Bind("arr", rop.List{1, 2, 3, 4, 5, 6, 7, 8})

	r, _ := e.EvalString("2 + 3 * 4")
	fmt.Println(r)
	r, _ = e.EvalString("arr[::-1]")
	fmt.Println(r)
	r, _ = e.EvalString("'ha' * 3")
	fmt.Println(r)

	// Output:
	// 14
	// [8 7 6 5 4 3 2 1]
	// hahaha
}

func ExampleEngine_Evaluate() {
	e := rop.NewWithDefaults()
	r, _ := e.Evaluate([]string{"", " + ", ""}, rop.List{1, 2}, rop.List{3, 4})
	fmt.Println(r)
	// Output: [1 2 3 4]
}

func ExampleEngine_RegisterOverload() {
	type ratio struct{ Num, Den int }
	e := rop.NewWithDefaults()
	e.RegisterOverload(ratio{}, "*", func(self rop.Value, args ...rop.Value) (rop.Value, error) {
		l := self.(ratio)
		r, ok := args[0].(ratio)
		if !ok {
			return nil, &rop.OperandError{Op: "*", X: args[0]}
		}
		return ratio{l.Num * r.Num, l.Den * r.Den}, nil
	})
	v, _ := e.Evaluate([]string{"", " * ", ""}, ratio{1, 2}, ratio{2, 3})
	fmt.Println(v)
	// Output: {2 6}
}
