package align

import (
	"strings"
	"unicode/utf8"

	"github.com/kbukum/asreval/textnorm"
)

// Pair holds two token sequences of equal length. A token present on one
// side only is shown on the other as a run of underscores of the same
// rune length.
type Pair struct {
	Left  []string
	Right []string
}

// LeftText joins the left tokens with single spaces.
func (p Pair) LeftText() string { return textnorm.Untokenize(p.Left) }

// RightText joins the right tokens with single spaces.
func (p Pair) RightText() string { return textnorm.Untokenize(p.Right) }

// Len returns the number of aligned positions.
func (p Pair) Len() int { return len(p.Left) }

// Equalize tokenises s1 and s2 on whitespace and aligns them.
func Equalize(s1, s2 string, opts ...MatchOption) Pair {
	return EqualizeTokens(textnorm.Tokenize(s1), textnorm.Tokenize(s2), opts...)
}

// EqualizeTokens aligns two token sequences. Inside each gap the tokens of
// a come first, then the tokens of b.
func EqualizeTokens(a, b []string, opts ...MatchOption) Pair {
	p := Pair{
		Left:  make([]string, 0, len(a)+len(b)),
		Right: make([]string, 0, len(a)+len(b)),
	}
	var prev Match
	for _, m := range MatchingBlocks(a, b, opts...) {
		for _, tok := range a[prev.A+prev.Size : m.A] {
			p.Left = append(p.Left, tok)
			p.Right = append(p.Right, placeholder(tok))
		}
		for _, tok := range b[prev.B+prev.Size : m.B] {
			p.Left = append(p.Left, placeholder(tok))
			p.Right = append(p.Right, tok)
		}
		p.Left = append(p.Left, a[m.A:m.A+m.Size]...)
		p.Right = append(p.Right, b[m.B:m.B+m.Size]...)
		prev = m
	}
	return p
}

func placeholder(tok string) string {
	return strings.Repeat("_", utf8.RuneCountInString(tok))
}
