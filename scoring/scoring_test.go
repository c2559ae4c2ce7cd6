package scoring

import (
	stderrors "errors"
	"strconv"
	"strings"
	"testing"

	"github.com/kbukum/asreval/textnorm"
)

func TestWordErrorRate(t *testing.T) {
	empty := textnorm.NewCleaningConfig()
	tests := []struct {
		name     string
		ref, hyp string
		cfg      textnorm.CleaningConfig
		want     float64
	}{
		{"identical", "a b c", "a b c", empty, 0},
		{"one deletion", "a b c", "a b", empty, 33.33},
		{"two insertions", "a b", "a b c d", empty, 100},
		{"above one hundred", "a", "b c d e", empty, 400},
		{"empty hypothesis", "a b c", "", empty, 100},
		{"cleaning applied to both", "Hello, world!", "hello world", empty, 0},
		{"cased comparison", "Hello world", "hello world", textnorm.NewCleaningConfig(textnorm.WithCased(true)), 50},
		{
			"replacements applied",
			"I'm fine",
			"i am fine",
			textnorm.NewCleaningConfig(textnorm.WithReplacements(textnorm.EnglishShortForms())),
			0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WordErrorRate(tt.ref, tt.hyp, tt.cfg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("WordErrorRate(%q, %q) = %v, want %v", tt.ref, tt.hyp, got, tt.want)
			}
		})
	}
}

func TestCharErrorRate(t *testing.T) {
	empty := textnorm.NewCleaningConfig()
	tests := []struct {
		name     string
		ref, hyp string
		want     float64
	}{
		{"identical", "abc", "abc", 0},
		{"substitution", "abc", "abd", 33.33},
		{"space counts", "a b", "ab", 33.33},
		{"insertions", "ab", "abcd", 100},
		{"runes not bytes", "héllo", "hello", 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CharErrorRate(tt.ref, tt.hyp, empty)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("CharErrorRate(%q, %q) = %v, want %v", tt.ref, tt.hyp, got, tt.want)
			}
		})
	}
}

func TestEmptyReference(t *testing.T) {
	stop := textnorm.NewCleaningConfig(textnorm.WithWordsToRemove("um"))
	tests := []struct {
		name string
		ref  string
		cfg  textnorm.CleaningConfig
	}{
		{"empty", "", textnorm.NewCleaningConfig()},
		{"whitespace", "   ", textnorm.NewCleaningConfig()},
		{"punctuation only", "?!", textnorm.NewCleaningConfig()},
		{"stop-words only", "Um, um.", stop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := WordErrorRate(tt.ref, "hyp", tt.cfg); !stderrors.Is(err, ErrEmptyReference) {
				t.Errorf("WordErrorRate error = %v, want ErrEmptyReference", err)
			}
			if _, err := CharErrorRate(tt.ref, "hyp", tt.cfg); !stderrors.Is(err, ErrEmptyReference) {
				t.Errorf("CharErrorRate error = %v, want ErrEmptyReference", err)
			}
			if _, err := WordMeasures(tt.ref, "hyp", tt.cfg); !stderrors.Is(err, ErrEmptyReference) {
				t.Errorf("WordMeasures error = %v, want ErrEmptyReference", err)
			}
		})
	}
}

func TestWordMeasures(t *testing.T) {
	m, err := WordMeasures("the cat sat on the mat", "the cat sit on mat", textnorm.NewCleaningConfig())
	if err != nil {
		t.Fatal(err)
	}
	want := Measures{Hits: 4, Substitutions: 1, Deletions: 1, RefLen: 6, Distance: 2, Detailed: true}
	if m != want {
		t.Errorf("WordMeasures = %+v, want %+v", m, want)
	}
	if m.Edits() != 2 || m.Rate() != 33.33 {
		t.Errorf("Edits = %d, Rate = %v", m.Edits(), m.Rate())
	}
}

func TestCharMeasuresMatchRate(t *testing.T) {
	cfg := textnorm.NewCleaningConfig()
	ref, hyp := "kitten sitting", "sitting kitten"
	m, err := CharMeasures(ref, hyp, cfg)
	if err != nil {
		t.Fatal(err)
	}
	rate, err := CharErrorRate(ref, hyp, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if m.Rate() != rate {
		t.Errorf("measures rate %v differs from CharErrorRate %v", m.Rate(), rate)
	}
	if m.Hits+m.Substitutions+m.Deletions != m.RefLen {
		t.Errorf("reference units not accounted for: %+v", m)
	}
}

func TestWordErrorRateHalfRoundsToEven(t *testing.T) {
	words := make([]string, 32)
	for i := range words {
		words[i] = "w" + strconv.Itoa(i)
	}
	ref := strings.Join(words, " ")
	hyp := strings.Join(words[1:], " ")

	got, err := WordErrorRate(ref, hyp, textnorm.NewCleaningConfig())
	if err != nil {
		t.Fatal(err)
	}
	if got != 3.12 {
		t.Errorf("one deletion out of 32 words = %v, want 3.12", got)
	}
}

func TestMeasuresLongPairDistanceOnly(t *testing.T) {
	prev := maxScriptCells
	maxScriptCells = 16
	t.Cleanup(func() { maxScriptCells = prev })

	cfg := textnorm.NewCleaningConfig()
	ref, hyp := "kitten sitting", "sitting kitten"
	m, err := CharMeasures(ref, hyp, cfg)
	if err != nil {
		t.Fatal(err)
	}
	rate, err := CharErrorRate(ref, hyp, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if m.Detailed {
		t.Errorf("Detailed = true for a %d-rune pair", m.RefLen)
	}
	if m.Substitutions+m.Deletions+m.Insertions+m.Hits != 0 {
		t.Errorf("operation counts filled in: %+v", m)
	}
	if m.Rate() != rate {
		t.Errorf("distance-only rate %v differs from CharErrorRate %v", m.Rate(), rate)
	}

	short, err := WordMeasures("a b", "a c", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !short.Detailed || short.Substitutions != 1 {
		t.Errorf("short pair = %+v, want a detailed breakdown", short)
	}
}

func TestRefWordCount(t *testing.T) {
	cfg := textnorm.NewCleaningConfig(textnorm.WithWordsToRemove("um"))
	if got := RefWordCount("Um hello, hello world", cfg); got != 2 {
		t.Errorf("RefWordCount = %d, want 2", got)
	}
	if got := RefWordCount("", cfg); got != 0 {
		t.Errorf("RefWordCount(\"\") = %d, want 0", got)
	}
}

func TestWeightedAverage(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
		rates   []float64
		want    float64
		wantErr error
	}{
		{"weighted", []float64{3, 1}, []float64{10, 50}, 20, nil},
		{"rounded", []float64{2, 1}, []float64{33.33, 0}, 22.22, nil},
		{"single", []float64{7}, []float64{12.5}, 12.5, nil},
		{"half rounds to even", []float64{31, 1}, []float64{0, 100}, 3.12, nil},
		{"length mismatch", []float64{1, 2}, []float64{1}, 0, ErrMismatchedWeights},
		{"zero sum", []float64{0, 0}, []float64{1, 2}, 0, ErrZeroWeightSum},
		{"empty", nil, nil, 0, ErrZeroWeightSum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WeightedAverage(tt.weights, tt.rates)
			if tt.wantErr != nil {
				if !stderrors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("WeightedAverage = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{33.3333, 33.33},
		{66.6666, 66.67},
		{12.345678, 12.35},
		{-1.234, -1.23},
		{100, 100},
		{3.125, 3.12},
		{15.625, 15.62},
		{0.375, 0.38},
		{-3.125, -3.12},
		{2.675, 2.67},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
