package align

import (
	"cmp"
	"slices"
)

// Match is a common run: A[A:A+Size] equals B[B:B+Size].
type Match struct {
	A, B, Size int
}

// MatchOption configures MatchingBlocks.
type MatchOption func(*matcher)

// WithoutAutoJunk disables the popularity heuristic. By default, once b has
// at least 200 tokens, tokens occurring in b more than n/100+1 times never
// seed a match, though they can still extend one.
func WithoutAutoJunk() MatchOption {
	return func(m *matcher) { m.autojunk = false }
}

type matcher struct {
	a, b     []string
	b2j      map[string][]int
	autojunk bool
}

func newMatcher(a, b []string, opts ...MatchOption) *matcher {
	m := &matcher{a: a, b: b, autojunk: true}
	for _, opt := range opts {
		opt(m)
	}
	m.b2j = make(map[string][]int)
	for j, tok := range b {
		m.b2j[tok] = append(m.b2j[tok], j)
	}
	if n := len(b); m.autojunk && n >= 200 {
		ntest := n/100 + 1
		for tok, idx := range m.b2j {
			if len(idx) > ntest {
				delete(m.b2j, tok)
			}
		}
	}
	return m
}

// longest returns the longest common run inside a[alo:ahi] and b[blo:bhi].
// Among runs of maximal length it picks the one starting earliest in a,
// then earliest in b. Size is 0 when nothing matches.
func (m *matcher) longest(alo, ahi, blo, bhi int) Match {
	best := Match{A: alo, B: blo}
	j2len := map[int]int{}
	for i := alo; i < ahi; i++ {
		next := map[int]int{}
		for _, j := range m.b2j[m.a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > best.Size {
				best = Match{A: i - k + 1, B: j - k + 1, Size: k}
			}
		}
		j2len = next
	}

	// Popular tokens excluded from b2j can still extend a seeded run.
	for best.A > alo && best.B > blo && m.a[best.A-1] == m.b[best.B-1] {
		best.A--
		best.B--
		best.Size++
	}
	for best.A+best.Size < ahi && best.B+best.Size < bhi &&
		m.a[best.A+best.Size] == m.b[best.B+best.Size] {
		best.Size++
	}
	return best
}

func (m *matcher) blocks() []Match {
	la, lb := len(m.a), len(m.b)
	type window struct{ alo, ahi, blo, bhi int }

	var found []Match
	queue := []window{{0, la, 0, lb}}
	for len(queue) > 0 {
		w := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		x := m.longest(w.alo, w.ahi, w.blo, w.bhi)
		if x.Size == 0 {
			continue
		}
		found = append(found, x)
		if w.alo < x.A && w.blo < x.B {
			queue = append(queue, window{w.alo, x.A, w.blo, x.B})
		}
		if x.A+x.Size < w.ahi && x.B+x.Size < w.bhi {
			queue = append(queue, window{x.A + x.Size, w.ahi, x.B + x.Size, w.bhi})
		}
	}
	slices.SortFunc(found, func(p, q Match) int {
		return cmp.Or(cmp.Compare(p.A, q.A), cmp.Compare(p.B, q.B), cmp.Compare(p.Size, q.Size))
	})

	merged := make([]Match, 0, len(found)+1)
	var cur Match
	for _, x := range found {
		if cur.A+cur.Size == x.A && cur.B+cur.Size == x.B {
			cur.Size += x.Size
			continue
		}
		if cur.Size > 0 {
			merged = append(merged, cur)
		}
		cur = x
	}
	if cur.Size > 0 {
		merged = append(merged, cur)
	}
	return append(merged, Match{A: la, B: lb})
}

// MatchingBlocks returns the non-adjacent common runs of a and b in
// increasing order, terminated by the sentinel {len(a), len(b), 0}.
func MatchingBlocks(a, b []string, opts ...MatchOption) []Match {
	return newMatcher(a, b, opts...).blocks()
}
