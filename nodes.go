package rop

import (
	"strconv"
	"strings"
)

// node is a node in the abstract syntax tree of an expression.
type node struct {
	kind nodeKind

	tok  Token      // nodeValue: the originating Const or Embed token
	name string     // nodeIdent: name; nodeProp: property name
	op   *operation // nodeUnary, nodeBinary

	left  *node   // operand, lhs, target, object, or callee
	right *node   // rhs or index
	args  []*node // nodeInvoke arguments
	dims  []dim   // nodeSlice dimensions
}

// dim is one subscript dimension. Absent parts are nil.
type dim struct {
	start, end, step *node
	// colons is the number of colons written in the dimension; an index
	// subscript has none.
	colons int
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeValue  // push tok.Val
	nodeIdent  // push lookup(name)
	nodeUnary  // op applied to left
	nodeBinary // op applied to left, right
	nodeProp   // left.name
	nodeIndex  // left[right]
	nodeSlice  // left[dims]
	nodeInvoke // left(args)
)

func (k nodeKind) String() string {
	switch k {
	case nodeNone:
		return "None"
	case nodeValue:
		return "Value"
	case nodeIdent:
		return "Ident"
	case nodeUnary:
		return "Unary"
	case nodeBinary:
		return "Binary"
	case nodeProp:
		return "Prop"
	case nodeIndex:
		return "Index"
	case nodeSlice:
		return "Slice"
	case nodeInvoke:
		return "Invoke"
	default:
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

// fmt writes a fully parenthesized rendering of the tree, used by tests and
// the Expr.String debug form.
func (n *node) fmt(b *strings.Builder) {
	switch n.kind {
	case nodeNone:
		b.WriteString("($)")
	case nodeValue:
		if n.tok.Kind == TokenEmbed {
			b.WriteString("${}")
			return
		}
		b.WriteString(n.tok.Text)
	case nodeIdent:
		b.WriteString(n.name)
	case nodeUnary:
		b.WriteByte('(')
		b.WriteString(n.op.literal)
		n.left.fmt(b)
		b.WriteByte(')')
	case nodeBinary:
		b.WriteByte('(')
		n.left.fmt(b)
		b.WriteString(" " + n.op.literal + " ")
		n.right.fmt(b)
		b.WriteByte(')')
	case nodeProp:
		b.WriteByte('(')
		n.left.fmt(b)
		b.WriteByte('.')
		b.WriteString(n.name)
		b.WriteByte(')')
	case nodeIndex:
		b.WriteByte('(')
		n.left.fmt(b)
		b.WriteByte('[')
		n.right.fmt(b)
		b.WriteString("])")
	case nodeSlice:
		b.WriteByte('(')
		n.left.fmt(b)
		b.WriteByte('[')
		for i, d := range n.dims {
			if i > 0 {
				b.WriteString(", ")
			}
			d.fmt(b)
		}
		b.WriteString("])")
	case nodeInvoke:
		b.WriteByte('(')
		n.left.fmt(b)
		b.WriteByte('(')
		for i, a := range n.args {
			if i > 0 {
				b.WriteString(", ")
			}
			a.fmt(b)
		}
		b.WriteString("))")
	default:
		panic("rop: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

func (d dim) fmt(b *strings.Builder) {
	if d.start != nil {
		d.start.fmt(b)
	}
	for i := 0; i < d.colons; i++ {
		b.WriteByte(':')
		switch {
		case i == 0 && d.end != nil:
			d.end.fmt(b)
		case i == 1 && d.step != nil:
			d.step.fmt(b)
		}
	}
}
