package render

import (
	"slices"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/kbukum/asreval/align"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name          string
		s             string
		width, margin int
		want          []string
	}{
		{"empty", "", 8, 3, nil},
		{"fits", "short", 8, 3, []string{"short"}},
		{"break after space", "hello world foo", 8, 3, []string{"hello ", "world ", "foo"}},
		{"no space in margin", "abcdefghij", 4, 2, []string{"abcd", "efgh", "ij"}},
		{"zero margin", "abc def", 4, 0, []string{"abc ", "def"}},
		{"margin wider than width", "a bcdef", 3, 10, []string{"a ", "bcd", "ef"}},
		{"runes", "ééé ééé", 4, 1, []string{"ééé ", "ééé"}},
		{"non-positive width", "abc", 0, 0, []string{"a", "b", "c"}},
		{"word longer than margin split", "a abcdefghij", 10, 3, []string{"a abcdefgh", "ij"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.s, tt.width, tt.margin)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Wrap(%q, %d, %d) = %q, want %q", tt.s, tt.width, tt.margin, got, tt.want)
			}
		})
	}
}

func TestWrapInvariants(t *testing.T) {
	s := "the quick brown fox jumps over the lazy dog and keeps running far away"
	for width := 1; width <= 20; width++ {
		for margin := 0; margin <= 25; margin += 5 {
			lines := Wrap(s, width, margin)
			if strings.Join(lines, "") != s {
				t.Fatalf("width=%d margin=%d: chunks do not rebuild the input", width, margin)
			}
			for _, l := range lines {
				if n := utf8.RuneCountInString(l); n == 0 || n > width {
					t.Fatalf("width=%d margin=%d: chunk %q has %d runes", width, margin, l, n)
				}
			}
		}
	}
}

func TestWrapKeepsShortWords(t *testing.T) {
	s := "i think its going to rain to day in city centre so bring an umbrella or x yz"
	words := strings.Fields(s)
	for width := 1; width <= 20; width++ {
		for margin := 0; margin <= 25; margin++ {
			limit := min(width, margin)
			cuts := map[int]bool{}
			pos := 0
			for _, l := range Wrap(s, width, margin) {
				pos += utf8.RuneCountInString(l)
				cuts[pos] = true
			}
			start := 0
			rs := []rune(s)
			for _, w := range words {
				for rs[start] == ' ' {
					start++
				}
				n := utf8.RuneCountInString(w)
				if n <= limit {
					for k := start + 1; k < start+n; k++ {
						if cuts[k] {
							t.Fatalf("width=%d margin=%d: %q split at rune %d", width, margin, w, k)
						}
					}
				}
				start += n
			}
		}
	}
}

func TestRenderStacked(t *testing.T) {
	p := align.Equalize("the cat sat", "the bat sat")
	got := slices.Collect(Render(p, Options{Width: 8, Margin: 3}))
	want := []string{"the cat ___ sat", "the ___ bat sat"}
	if !slices.Equal(got, want) {
		t.Errorf("Render stacked = %q, want %q", got, want)
	}
}

func TestRenderSideBySide(t *testing.T) {
	p := align.Equalize("the cat sat", "the bat sat")
	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			"plain",
			Options{Width: 8, Margin: 3, SideBySide: true},
			[]string{"the cat  | the ___  | ", "___ sat  | bat sat  | "},
		},
		{
			"compact",
			Options{Width: 8, Margin: 3, SideBySide: true, Compact: true},
			[]string{"the cat  | the      | ", " sat     | bat sat  | "},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(Render(p, tt.opts))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Render = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderRegenerates(t *testing.T) {
	p := align.Equalize("one two three four five six", "one too three for five")
	seq := Render(p, Options{Width: 10, Margin: 4, SideBySide: true})
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if len(first) == 0 || !slices.Equal(first, second) {
		t.Errorf("second pass differs: %q vs %q", first, second)
	}

	var taken []string
	for line := range seq {
		taken = append(taken, line)
		break
	}
	if len(taken) != 1 || taken[0] != first[0] {
		t.Errorf("early stop yielded %q", taken)
	}
}

func TestRenderEmpty(t *testing.T) {
	p := align.Equalize("", "")
	if got := slices.Collect(Render(p, DefaultOptions())); len(got) != 0 {
		t.Errorf("side-by-side of empty pair = %q, want no lines", got)
	}
	if got := slices.Collect(Render(p, Options{})); !slices.Equal(got, []string{"", ""}) {
		t.Errorf("stacked empty pair = %q", got)
	}
}

func TestRenderEqualLineCounts(t *testing.T) {
	pairs := [][2]string{
		{"i think it is going to rain today in the city", "i think its going to rain to day in city centre"},
		{"a", "completely different and much longer hypothesis text"},
		{"ünïcödé wörds everywhere", "unicode words everywhere"},
	}
	for _, in := range pairs {
		p := align.Equalize(in[0], in[1])
		for _, width := range []int{1, 3, 7, 12, 40} {
			for _, margin := range []int{0, 2, 10, 50} {
				lines := slices.Collect(Render(p, Options{Width: width, Margin: margin, SideBySide: true}))
				for _, l := range lines {
					if !strings.HasSuffix(l, Separator) {
						t.Fatalf("line %q lacks trailing separator", l)
					}
				}
			}
		}
	}
}

func TestRenderMismatchPanics(t *testing.T) {
	p := align.Pair{Left: []string{"aaaa", "aaaa"}, Right: []string{"b"}}
	defer func() {
		if recover() == nil {
			t.Error("expected panic on diverging line counts")
		}
	}()
	for range Render(p, Options{Width: 4, SideBySide: true}) {
	}
}

func TestHeader(t *testing.T) {
	got := Header([]string{"Reference", "Hypothesis"}, 12)
	want := []string{
		strings.Repeat("-", 30),
		" Reference   |  Hypothesis  | ",
		strings.Repeat("-", 30),
	}
	if !slices.Equal(got, want) {
		t.Errorf("Header = %q, want %q", got, want)
	}
	if Center("toolongname", 4) != "toolongname" {
		t.Error("Center must not truncate")
	}
}
