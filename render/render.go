// Package render lays out an aligned pair for a terminal, either stacked
// or side by side in fixed-width columns.
package render

import (
	"fmt"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/kbukum/asreval/align"
)

// Separator closes every column of a side-by-side line.
const Separator = " | "

// Options controls the layout.
type Options struct {
	// Width is the column width in runes.
	Width int
	// Margin is how far back from Width a line break may move to land
	// after a space.
	Margin int
	// SideBySide puts the two texts in columns; otherwise they are
	// printed one above the other.
	SideBySide bool
	// Compact drops placeholder underscores and repeated spaces from each
	// side-by-side line.
	Compact bool
}

// DefaultOptions returns a 40-rune side-by-side layout with a 10-rune margin.
func DefaultOptions() Options {
	return Options{Width: 40, Margin: 10, SideBySide: true}
}

func (o Options) normalized() Options {
	if o.Width < 1 {
		o.Width = 1
	}
	if o.Margin < 0 {
		o.Margin = 0
	}
	return o
}

// Render returns the lines that display p. Each call to the returned
// sequence regenerates the lines from p.
//
// Side by side, both texts are wrapped with Wrap and every line reads
// left + " | " + right + " | " with both columns padded to Width. Aligned
// texts have equal rune lengths with spaces in the same places, so both
// sides always wrap to the same number of lines; a mismatch panics.
func Render(p align.Pair, opts Options) iter.Seq[string] {
	opts = opts.normalized()
	return func(yield func(string) bool) {
		if !opts.SideBySide {
			if yield(p.LeftText()) {
				yield(p.RightText())
			}
			return
		}

		left := Wrap(p.LeftText(), opts.Width, opts.Margin)
		right := Wrap(p.RightText(), opts.Width, opts.Margin)
		if len(left) != len(right) {
			panic(fmt.Sprintf("render: left wraps to %d lines, right to %d", len(left), len(right)))
		}
		for i := range left {
			l, r := left[i], right[i]
			if opts.Compact {
				l, r = compact(l), compact(r)
			}
			if !yield(pad(l, opts.Width) + Separator + pad(r, opts.Width) + Separator) {
				return
			}
		}
	}
}

// Wrap splits s into chunks of at most width runes. A chunk longer than
// width is cut at width, unless one of the runes at positions
// width-margin..width (1-based) is a space, in which case it is cut just
// after the last such space. Chunks keep their spaces, so joining them
// gives back s.
func Wrap(s string, width, margin int) []string {
	if width < 1 {
		width = 1
	}
	lowest := max(width-margin, 1)

	var lines []string
	rs := []rune(s)
	for len(rs) > 0 {
		cut := len(rs)
		if len(rs) > width {
			cut = width
			for c := width; c >= lowest; c-- {
				if rs[c-1] == ' ' {
					cut = c
					break
				}
			}
		}
		lines = append(lines, string(rs[:cut]))
		rs = rs[cut:]
	}
	return lines
}

func compact(s string) string {
	s = strings.ReplaceAll(s, "_", "")
	var b strings.Builder
	b.Grow(len(s))
	prevSpace := false
	for _, r := range s {
		if r == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// Center places name in the middle of a width-rune field, the odd space
// going to the right.
func Center(name string, width int) string {
	gap := width - utf8.RuneCountInString(name)
	if gap <= 0 {
		return name
	}
	return strings.Repeat(" ", gap/2) + name + strings.Repeat(" ", gap-gap/2)
}

// Header returns a ruled header whose columns line up with side-by-side
// output of the same width.
func Header(names []string, width int) []string {
	if width < 1 {
		width = 1
	}
	var cols strings.Builder
	for _, n := range names {
		cols.WriteString(Center(n, width))
		cols.WriteString(Separator)
	}
	rule := strings.Repeat("-", len(names)*(width+utf8.RuneCountInString(Separator)))
	return []string{rule, cols.String(), rule}
}
