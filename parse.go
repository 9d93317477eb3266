package rop

import "strings"

// Expr = Value | Ident | Unary | Binary | Prop | Index | Slice | Invoke | '(' Expr ')'
// Unary = ('!' | '~' | '-' | '+') Expr
// Binary = Expr binop Expr
// Prop = Expr '.' Ident
// Invoke = Expr '(' [ Expr { ',' Expr } [ ',' ] ] ')'
// Index = Expr '[' Expr ']'
// Slice = Expr '[' ( Dim | Expr ) { ',' ( Dim | Expr ) } ']'
// Dim = [Expr] ':' [Expr] [ ':' [Expr] ]

// Expr is a parsed expression that can be evaluated with an engine.
type Expr struct {
	// n is the root node of the expression.
	n *node
	// names is the list of identifier names used in the expression.
	names []string
}

// ParseTokens parses a token list into a single expression. Whitespace
// tokens, if retained during tokenizing, are ignored.
func ParseTokens(toks []Token) (*Expr, error) {
	p := parser{names: make(map[string]bool)}
	for _, t := range toks {
		if t.Kind != TokenSpace {
			p.toks = append(p.toks, t)
		}
	}
	n, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if tok, ok := p.peek(); ok {
		if tok.Kind == TokenPunct && (tok.Text == ")" || tok.Text == "]") {
			return nil, &BracketError{Col: tok.Pos, Right: tok.Text}
		}
		return nil, &TrailingTokenError{Col: tok.Pos, Token: literalOf(tok)}
	}
	ex := Expr{
		n:     n,
		names: make([]string, 0, len(p.names)),
	}
	for k := range p.names {
		ex.names = append(ex.names, k)
	}
	sortstrs(ex.names)
	return &ex, nil
}

// ParseTemplate tokenizes and parses template fragments with embedded
// values. The result can be evaluated many times, on different engines.
func ParseTemplate(fragments []string, values ...Value) (*Expr, error) {
	toks, err := Tokenize(fragments, values)
	if err != nil {
		return nil, err
	}
	return ParseTokens(toks)
}

// ParseString tokenizes and parses a plain source string.
func ParseString(src string) (*Expr, error) {
	return ParseTemplate([]string{src})
}

// Idents returns the sorted identifier names used in the expression.
func (e *Expr) Idents() []string {
	return append(([]string)(nil), e.names...)
}

// String creates a fully parenthesized representation of the parsed
// expression.
func (e *Expr) String() string {
	var b strings.Builder
	e.n.fmt(&b)
	return b.String()
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

type parser struct {
	toks  []Token
	i     int
	names map[string]bool
}

func (p *parser) peek() (Token, bool) {
	if p.i >= len(p.toks) {
		return Token{}, false
	}
	return p.toks[p.i], true
}

func (p *parser) next() (Token, bool) {
	tok, ok := p.peek()
	if ok {
		p.i++
	}
	return tok, ok
}

// endPos is the rune position just past the final token, used to report
// errors at end of input.
func (p *parser) endPos() int {
	if len(p.toks) == 0 {
		return 1
	}
	last := p.toks[len(p.toks)-1]
	if last.Kind == TokenEmbed {
		return last.Pos + 1
	}
	return last.Pos + len([]rune(last.Text))
}

func literalOf(tok Token) string {
	if tok.Kind == TokenEmbed {
		return "${}"
	}
	return tok.Text
}

// parseExpr parses an expression by precedence climbing: a leading atom, then
// binary operators binding at least as tightly as min, interleaved with
// property access, invocation, and subscripting.
func (p *parser) parseExpr(min int8) (*node, error) {
	n, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.peek()
		if !ok {
			return n, nil
		}
		switch {
		case tok.Kind == TokenOp:
			op := binop(tok.Text)
			if op == nil {
				return nil, &OperatorError{Col: tok.Pos, Operator: tok.Text}
			}
			if op.prec < min {
				return n, nil
			}
			p.i++
			next := op.prec + 1
			if op.right {
				next = op.prec
			}
			rhs, err := p.parseExpr(next)
			if err != nil {
				return nil, err
			}
			n = &node{kind: nodeBinary, op: op, left: n, right: rhs}
		case tok.isPunct("."):
			p.i++
			id, ok := p.next()
			if !ok {
				return nil, &PropertyNameError{Col: tok.Pos}
			}
			if id.Kind != TokenIdent {
				return nil, &PropertyNameError{Col: id.Pos, Token: literalOf(id)}
			}
			n = &node{kind: nodeProp, left: n, name: id.Text}
		case tok.isPunct("("):
			p.i++
			args, err := p.parseArgs(tok)
			if err != nil {
				return nil, err
			}
			n = &node{kind: nodeInvoke, left: n, args: args}
		case tok.isPunct("["):
			p.i++
			n, err = p.parseSubscript(n, tok)
			if err != nil {
				return nil, err
			}
		default:
			return n, nil
		}
	}
}

// parseAtom parses the first component of an expression: a value, an
// identifier, a prefix unary operator, or a parenthesized subexpression.
func (p *parser) parseAtom() (*node, error) {
	tok, ok := p.next()
	if !ok {
		return nil, &EmptyExpressionError{Col: p.endPos()}
	}
	switch tok.Kind {
	case TokenEmbed, TokenConst:
		return &node{kind: nodeValue, tok: tok}, nil
	case TokenIdent:
		p.names[tok.Text] = true
		return &node{kind: nodeIdent, name: tok.Text}, nil
	case TokenOp:
		op := unop(tok.Text)
		if op == nil {
			return nil, &OperatorError{Col: tok.Pos, Operator: tok.Text, Unary: true}
		}
		operand, err := p.parseExpr(op.prec + 1)
		if err != nil {
			return nil, err
		}
		return &node{kind: nodeUnary, op: op, left: operand}, nil
	case TokenPunct:
		if tok.Text == "(" {
			n, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			end, ok := p.next()
			if !ok {
				return nil, &BracketError{Col: p.endPos(), Left: "("}
			}
			if !end.isPunct(")") {
				return nil, &BracketError{Col: end.Pos, Left: "(", Right: literalOf(end)}
			}
			return n, nil
		}
		return nil, &EmptyExpressionError{Col: tok.Pos, End: tok.Text}
	default:
		panic("rop: unknown token: " + tok.String())
	}
}

// parseArgs parses a comma-separated argument list after an already consumed
// open parenthesis. The list may be empty and tolerates a trailing comma.
func (p *parser) parseArgs(open Token) ([]*node, error) {
	var args []*node
	if tok, ok := p.peek(); ok && tok.isPunct(")") {
		p.i++
		return args, nil
	}
	for {
		a, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		tok, ok := p.next()
		if !ok {
			return nil, &BracketError{Col: p.endPos(), Left: "("}
		}
		switch {
		case tok.isPunct(")"):
			return args, nil
		case tok.isPunct(","):
			if nxt, ok := p.peek(); ok && nxt.isPunct(")") {
				p.i++
				return args, nil
			}
		default:
			return nil, &TrailingTokenError{Col: tok.Pos, Token: literalOf(tok)}
		}
	}
}

// parseSubscript parses the inside of [ ] after the open bracket has been
// consumed. The result is an Index node for a single comma-free, colon-free
// expression and a Slice node otherwise.
func (p *parser) parseSubscript(target *node, open Token) (*node, error) {
	if tok, ok := p.peek(); ok && tok.isPunct("]") {
		return nil, &SubscriptError{Col: tok.Pos, Empty: true}
	}
	var dims []dim
	sawColon := false
	for {
		var d dim
		part := 0
	dimension:
		for {
			tok, ok := p.peek()
			if !ok {
				return nil, &BracketError{Col: p.endPos(), Left: "["}
			}
			switch {
			case tok.isPunct(":"):
				p.i++
				d.colons++
				if d.colons > 2 {
					return nil, &SubscriptError{Col: tok.Pos}
				}
				part = d.colons
			case tok.isPunct(","), tok.isPunct("]"):
				break dimension
			default:
				e, err := p.parseExpr(0)
				if err != nil {
					return nil, err
				}
				switch part {
				case 0:
					d.start = e
				case 1:
					d.end = e
				case 2:
					d.step = e
				}
				nxt, ok := p.peek()
				if !ok {
					return nil, &BracketError{Col: p.endPos(), Left: "["}
				}
				if !nxt.isPunct(":") && !nxt.isPunct(",") && !nxt.isPunct("]") {
					return nil, &TrailingTokenError{Col: nxt.Pos, Token: literalOf(nxt)}
				}
			}
		}
		if d.colons == 0 && d.start == nil {
			// A dimension with no parts at all, e.g. [1,] or [,1].
			tok, _ := p.peek()
			return nil, &SubscriptError{Col: tok.Pos, Empty: true}
		}
		if d.colons > 0 {
			sawColon = true
		}
		dims = append(dims, d)
		end, _ := p.next()
		if end.isPunct("]") {
			break
		}
	}
	if !sawColon && len(dims) == 1 {
		return &node{kind: nodeIndex, left: target, right: dims[0].start}, nil
	}
	return &node{kind: nodeSlice, left: target, dims: dims}, nil
}
