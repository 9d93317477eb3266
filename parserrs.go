package rop

import "strconv"

// OperatorError is an error indicating an operator token that is not valid at
// its position. It implements InputError.
type OperatorError struct {
	// Col is the position of the operator.
	Col int
	// Operator is the token that was not understood.
	Operator string
	// Unary is whether the parser expected a unary operator at the time.
	Unary bool
}

func (err *OperatorError) Error() string {
	s := "binary"
	if err.Unary {
		s = "unary"
	}
	return errpos(err.Col, "unknown "+s+" operator "+strconv.Quote(err.Operator))
}

func (err *OperatorError) Pos() int {
	return err.Col
}

// BracketError is an error indicating mismatched brackets in the input. It
// implements InputError.
type BracketError struct {
	// Col is the position at which the mismatch was found.
	Col int
	// Left is the opening bracket.
	Left string
	// Right is the mismatched closing bracket, or "" at end of input.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	if err.Right == "" {
		return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
	}
	return errpos(err.Col, "mismatched bracket: "+err.Left+"expr"+err.Right)
}

func (err *BracketError) Pos() int {
	return err.Col
}

// EmptyExpressionError is an error indicating an empty expression or
// subexpression. It implements InputError.
type EmptyExpressionError struct {
	// Col is the position of the token that ended the subexpression.
	Col int
	// End is the token that ended the subexpression, or "" at end of input.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		if err.Col <= 1 {
			return errpos(err.Col, "no expression")
		}
		return errpos(err.Col, "no expression at end")
	}
	return errpos(err.Col, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

// TrailingTokenError is an error indicating input remaining after a complete
// expression. It implements InputError.
type TrailingTokenError struct {
	// Col is the position of the first trailing token.
	Col int
	// Token is the first trailing token's literal.
	Token string
}

func (err *TrailingTokenError) Error() string {
	return errpos(err.Col, "trailing input after expression: "+strconv.Quote(err.Token))
}

func (err *TrailingTokenError) Pos() int {
	return err.Col
}

// PropertyNameError is an error indicating a . not followed by an identifier.
// It implements InputError.
type PropertyNameError struct {
	// Col is the position of the offending token, or of the . at end of
	// input.
	Col int
	// Token is the literal that appeared instead of a property name.
	Token string
}

func (err *PropertyNameError) Error() string {
	if err.Token == "" {
		return errpos(err.Col, "expected property name after '.'")
	}
	return errpos(err.Col, "expected property name after '.', got "+strconv.Quote(err.Token))
}

func (err *PropertyNameError) Pos() int {
	return err.Col
}

// SubscriptError is an error indicating an invalid [ ] subscript: empty
// brackets, an empty dimension, or a dimension with more than two colons. It
// implements InputError.
type SubscriptError struct {
	// Col is the position at which the subscript was found invalid.
	Col int
	// Empty indicates an empty subscript or dimension; otherwise the
	// dimension carried too many colons.
	Empty bool
}

func (err *SubscriptError) Error() string {
	if err.Empty {
		return errpos(err.Col, "empty subscript")
	}
	return errpos(err.Col, "too many ':' in subscript dimension")
}

func (err *SubscriptError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting
// from invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*TrailingTokenError)(nil)
	_ InputError = (*PropertyNameError)(nil)
	_ InputError = (*SubscriptError)(nil)
	_ InputError = (*TokenizingError)(nil)
)
