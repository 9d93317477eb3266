//go:build go1.18
// +build go1.18

package rop_test

import (
	"testing"

	"github.com/Leawind/rop"
)

func FuzzEval(f *testing.F) {
	f.Add("x + 1")
	f.Add("arr[::-1]")
	f.Add("Math.max(3, 4)")
	f.Add("2 ** 3 ** 2 === 512")
	f.Fuzz(func(t *testing.T, s string) {
		e := rop.NewWithDefaults()
		e.Bind("x", 4)
		e.Bind("arr", rop.List{1, 2, 3})
		e.EvalString(s)
	})
}
