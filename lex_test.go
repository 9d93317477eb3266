package rop

import (
	"math/big"
	"reflect"
	"strings"
	"testing"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		src    string
		tokens []Token
	}{
		// spaces
		{"", nil},
		{" \t \r\n ", nil},
		// numbers
		{"0", []Token{{Kind: TokenConst, Text: "0", Val: int64(0), Pos: 1}}},
		{"9876543210", []Token{{Kind: TokenConst, Text: "9876543210", Val: int64(9876543210), Pos: 1}}},
		{"1 0", []Token{{Kind: TokenConst, Text: "1", Val: int64(1), Pos: 1}, {Kind: TokenConst, Text: "0", Val: int64(0), Pos: 3}}},
		{"1.0", []Token{{Kind: TokenConst, Text: "1.0", Val: float64(1), Pos: 1}}},
		{"1e1", []Token{{Kind: TokenConst, Text: "1e1", Val: float64(10), Pos: 1}}},
		{"1e+1", []Token{{Kind: TokenConst, Text: "1e+1", Val: float64(10), Pos: 1}}},
		{"1e-4", []Token{{Kind: TokenConst, Text: "1e-4", Val: 1e-4, Pos: 1}}},
		{"1E-4", []Token{{Kind: TokenConst, Text: "1E-4", Val: 1e-4, Pos: 1}}},
		{"1e", []Token{{Kind: TokenConst, Text: "1", Val: int64(1), Pos: 1}, {Kind: TokenIdent, Text: "e", Pos: 2}}},
		{"123n", []Token{{Kind: TokenConst, Text: "123n", Val: big.NewInt(123), Pos: 1}}},
		{"1.5e2", []Token{{Kind: TokenConst, Text: "1.5e2", Val: float64(150), Pos: 1}}},
		// a leading . is punctuation, not part of a number
		{".5", []Token{{Kind: TokenPunct, Text: ".", Pos: 1}, {Kind: TokenConst, Text: "5", Val: int64(5), Pos: 2}}},
		{"-1", []Token{{Kind: TokenOp, Text: "-", Pos: 1}, {Kind: TokenConst, Text: "1", Val: int64(1), Pos: 2}}},
		// strings
		{"'abc'", []Token{{Kind: TokenConst, Text: "'abc'", Val: "abc", Pos: 1}}},
		{`"abc"`, []Token{{Kind: TokenConst, Text: `"abc"`, Val: "abc", Pos: 1}}},
		{`'a\'b'`, []Token{{Kind: TokenConst, Text: `'a\'b'`, Val: "a'b", Pos: 1}}},
		{`'a\\b'`, []Token{{Kind: TokenConst, Text: `'a\\b'`, Val: `a\b`, Pos: 1}}},
		{`'it "is"'`, []Token{{Kind: TokenConst, Text: `'it "is"'`, Val: `it "is"`, Pos: 1}}},
		// identifiers
		{"x", []Token{{Kind: TokenIdent, Text: "x", Pos: 1}}},
		{"$_1", []Token{{Kind: TokenIdent, Text: "$_1", Pos: 1}}},
		{"你好", []Token{{Kind: TokenIdent, Text: "你好", Pos: 1}}},
		{"Привет", []Token{{Kind: TokenIdent, Text: "Привет", Pos: 1}}},
		{"a1 b2", []Token{{Kind: TokenIdent, Text: "a1", Pos: 1}, {Kind: TokenIdent, Text: "b2", Pos: 4}}},
		// operators, longest match first
		{"a===b", []Token{{Kind: TokenIdent, Text: "a", Pos: 1}, {Kind: TokenOp, Text: "===", Pos: 2}, {Kind: TokenIdent, Text: "b", Pos: 5}}},
		{"a==b", []Token{{Kind: TokenIdent, Text: "a", Pos: 1}, {Kind: TokenOp, Text: "==", Pos: 2}, {Kind: TokenIdent, Text: "b", Pos: 4}}},
		{">>> >> >", []Token{{Kind: TokenOp, Text: ">>>", Pos: 1}, {Kind: TokenOp, Text: ">>", Pos: 5}, {Kind: TokenOp, Text: ">", Pos: 8}}},
		{"**", []Token{{Kind: TokenOp, Text: "**", Pos: 1}}},
		{"!==!", []Token{{Kind: TokenOp, Text: "!==", Pos: 1}, {Kind: TokenOp, Text: "!", Pos: 4}}},
		{"&&&", []Token{{Kind: TokenOp, Text: "&&", Pos: 1}, {Kind: TokenOp, Text: "&", Pos: 3}}},
		// punctuation
		{"()[]{},:.", []Token{
			{Kind: TokenPunct, Text: "(", Pos: 1},
			{Kind: TokenPunct, Text: ")", Pos: 2},
			{Kind: TokenPunct, Text: "[", Pos: 3},
			{Kind: TokenPunct, Text: "]", Pos: 4},
			{Kind: TokenPunct, Text: "{", Pos: 5},
			{Kind: TokenPunct, Text: "}", Pos: 6},
			{Kind: TokenPunct, Text: ",", Pos: 7},
			{Kind: TokenPunct, Text: ":", Pos: 8},
			{Kind: TokenPunct, Text: ".", Pos: 9},
		}},
		// unicode escapes expand before scanning
		{`\u{41}`, []Token{{Kind: TokenIdent, Text: "A", Pos: 1}}},
		{`\u{4F60}`, []Token{{Kind: TokenIdent, Text: "你", Pos: 1}}},
	}
	for _, c := range cases {
		toks, err := TokenizeString(c.src)
		if err != nil {
			t.Errorf("scanning %q: unexpected error %v", c.src, err)
			continue
		}
		if !reflect.DeepEqual(toks, c.tokens) {
			t.Errorf("scanning %q: want %v, got %v", c.src, c.tokens, toks)
		}
	}
}

func TestTokenizeErrors(t *testing.T) {
	cases := []struct {
		src  string
		rune rune
	}{
		{"#", '#'},
		{"a @ b", '@'},
		{"1.5n", 'n'},
		{"'abc", '\''},
		{`"abc'`, '"'},
		{`\uZZZZ`, 'u'},
		{`\u{}`, 'u'},
	}
	for _, c := range cases {
		toks, err := TokenizeString(c.src)
		if err == nil {
			t.Errorf("scanning %q: no error, got %v", c.src, toks)
			continue
		}
		te, ok := err.(*TokenizingError)
		if !ok {
			t.Errorf("scanning %q: error is %T, not *TokenizingError", c.src, err)
			continue
		}
		if te.Rune != c.rune {
			t.Errorf("scanning %q: blamed %q, want %q", c.src, te.Rune, c.rune)
		}
		if !strings.Contains(err.Error(), runeLabel(c.rune)) {
			t.Errorf("scanning %q: %q does not name the code point", c.src, err.Error())
		}
	}
}

func TestExcerpt(t *testing.T) {
	cases := []struct {
		src  string
		pos  int
		want string
	}{
		{"a # b", 3, "1 | a # b\n  |   ^"},
		{"a\nb@c", 4, "2 | b@c\n  |  ^"},
		{"x", 1, "1 | x\n  | ^"},
	}
	for _, c := range cases {
		if got := excerpt(c.src, c.pos, 1); got != c.want {
			t.Errorf("excerpt(%q, %d):\nwant:\n%s\ngot:\n%s", c.src, c.pos, c.want, got)
		}
	}
	err, ok := func() (error, bool) {
		_, err := TokenizeString("a # b")
		te, ok := err.(*TokenizingError)
		return err, ok && te.Excerpt != ""
	}()
	if !ok {
		t.Errorf("tokenizing error carries no excerpt: %v", err)
	}
}

func TestTokenizeValues(t *testing.T) {
	v0, v1 := []Value{1, 2}, map[string]Value{}
	toks, err := Tokenize([]string{"", " + ", ""}, []Value{v0, v1})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	want := []Token{
		{Kind: TokenEmbed, Val: v0, Pos: 1},
		{Kind: TokenOp, Text: "+", Pos: 3},
		{Kind: TokenEmbed, Val: v1, Pos: 5},
	}
	if !reflect.DeepEqual(toks, want) {
		t.Errorf("want %v, got %v", want, toks)
	}
	if !sameSlice(toks[0].Val, v0) {
		t.Errorf("embedded value not passed through by identity")
	}
}

func sameSlice(a, b Value) bool {
	x, y := a.([]Value), b.([]Value)
	return len(x) == len(y) && (len(x) == 0 || &x[0] == &y[0])
}

func TestTokenizeSpaces(t *testing.T) {
	toks, err := TokenizeString("1 + 2", KeepSpaces())
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	want := []Token{
		{Kind: TokenConst, Text: "1", Val: int64(1), Pos: 1},
		{Kind: TokenSpace, Text: " ", Pos: 2},
		{Kind: TokenOp, Text: "+", Pos: 3},
		{Kind: TokenSpace, Text: " ", Pos: 4},
		{Kind: TokenConst, Text: "2", Val: int64(2), Pos: 5},
	}
	if !reflect.DeepEqual(toks, want) {
		t.Errorf("want %v, got %v", want, toks)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	srcs := []string{
		"2+3*4",
		"a[1:-2:2]",
		"f(x,y)&&!z",
		"'ha'*3",
		"a.b.c**2",
	}
	for _, src := range srcs {
		toks, err := TokenizeString(src)
		if err != nil {
			t.Fatalf("scanning %q: %v", src, err)
		}
		var b strings.Builder
		for _, tok := range toks {
			b.WriteString(tok.Text)
		}
		again, err := TokenizeString(b.String())
		if err != nil {
			t.Fatalf("rescanning %q: %v", b.String(), err)
		}
		if !reflect.DeepEqual(toks, again) {
			t.Errorf("%q does not round-trip: %v then %v", src, toks, again)
		}
	}
}
