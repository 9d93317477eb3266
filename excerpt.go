package rop

import (
	"strconv"
	"strings"
)

// TokenizingError indicates a code point the tokenizer does not understand.
// It implements InputError.
type TokenizingError struct {
	// Rune is the offending code point.
	Rune rune
	// Col is the rune position of the code point in the logical stream.
	Col int
	// Excerpt is a rendered view of the source line with the offending
	// position highlighted.
	Excerpt string
}

func (err *TokenizingError) Error() string {
	msg := errpos(err.Col, "unknown code point "+runeLabel(err.Rune))
	if err.Excerpt == "" {
		return msg
	}
	return msg + "\n" + err.Excerpt
}

func (err *TokenizingError) Pos() int {
	return err.Col
}

// tokenizingError builds a TokenizingError for a rune at stream position col,
// which is rune position off (from 1) within the fragment src.
func tokenizingError(src string, col, off int, r rune) *TokenizingError {
	return &TokenizingError{
		Rune:    r,
		Col:     col,
		Excerpt: excerpt(src, off, 1),
	}
}

func runeLabel(r rune) string {
	s := strconv.FormatInt(int64(r), 16)
	for len(s) < 4 {
		s = "0" + s
	}
	return "U+" + strings.ToUpper(s) + " " + strconv.QuoteRune(r)
}

// excerpt renders the source line containing rune position pos with a caret
// under a highlight range of width runes:
//
//	 2 | a # b
//	   |   ^
//
// Positions count runes from 1 across the whole source. Width is clamped to
// the end of the line.
func excerpt(src string, pos, width int) string {
	lines := strings.Split(src, "\n")
	row, col := 1, pos
	for _, line := range lines {
		n := len([]rune(line)) + 1 // the newline counts one rune
		if col <= n || row == len(lines) {
			break
		}
		col -= n
		row++
	}
	if row > len(lines) {
		return ""
	}
	line := []rune(lines[row-1])
	if col < 1 {
		col = 1
	}
	if col > len(line)+1 {
		col = len(line) + 1
	}
	if width < 1 {
		width = 1
	}
	if col+width-1 > len(line)+1 {
		width = len(line) + 2 - col
	}
	label := strconv.Itoa(row)
	pad := strings.Repeat(" ", len(label))
	var b strings.Builder
	b.WriteString(label)
	b.WriteString(" | ")
	b.WriteString(string(line))
	b.WriteString("\n")
	b.WriteString(pad)
	b.WriteString(" | ")
	b.WriteString(strings.Repeat(" ", col-1))
	b.WriteString(strings.Repeat("^", width))
	return b.String()
}
