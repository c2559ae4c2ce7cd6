package scoring

import (
	"strconv"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/kbukum/asreval/errors"
	"github.com/kbukum/asreval/textnorm"
)

var unitCost = levenshtein.DefaultOptionsWithSub

// maxScriptCells bounds the (len(ref)+1)*(len(hyp)+1) matrix an operation
// breakdown needs. Larger pairs get the distance only.
var maxScriptCells = 1 << 22

// Measures breaks an error rate into its edit operations.
type Measures struct {
	Hits          int
	Substitutions int
	Deletions     int
	Insertions    int
	// RefLen is the number of reference units (words or runes).
	RefLen int
	// Distance is the Levenshtein distance.
	Distance int
	// Detailed reports whether the operation counts are filled in. They
	// are left at zero for pairs too long to backtrace.
	Detailed bool
}

// Edits is the Levenshtein distance. When Detailed it equals
// substitutions + deletions + insertions.
func (m Measures) Edits() int { return m.Distance }

// Rate returns 100 * Edits / RefLen rounded to two decimals.
func (m Measures) Rate() float64 {
	return Round2(100 * float64(m.Edits()) / float64(m.RefLen))
}

// WordErrorRate cleans ref and hyp with cfg and returns the percentage of
// word edits needed to turn the reference into the hypothesis.
func WordErrorRate(ref, hyp string, cfg textnorm.CleaningConfig) (float64, error) {
	r, h, err := wordUnits(ref, hyp, cfg)
	if err != nil {
		return 0, err
	}
	d := levenshtein.DistanceForStrings(r, h, unitCost)
	return Round2(100 * float64(d) / float64(len(r))), nil
}

// CharErrorRate is WordErrorRate over runes. Spaces between words count as
// characters.
func CharErrorRate(ref, hyp string, cfg textnorm.CleaningConfig) (float64, error) {
	r, h, err := charUnits(ref, hyp, cfg)
	if err != nil {
		return 0, err
	}
	d := levenshtein.DistanceForStrings(r, h, unitCost)
	return Round2(100 * float64(d) / float64(len(r))), nil
}

// WordMeasures returns the hits and edit operations of the word alignment.
func WordMeasures(ref, hyp string, cfg textnorm.CleaningConfig) (Measures, error) {
	r, h, err := wordUnits(ref, hyp, cfg)
	if err != nil {
		return Measures{}, err
	}
	return measure(r, h), nil
}

// CharMeasures returns the hits and edit operations of the rune alignment.
func CharMeasures(ref, hyp string, cfg textnorm.CleaningConfig) (Measures, error) {
	r, h, err := charUnits(ref, hyp, cfg)
	if err != nil {
		return Measures{}, err
	}
	return measure(r, h), nil
}

// RefWordCount returns the number of words in ref after cleaning. It is
// the weight of a sample in WeightedAverage.
func RefWordCount(ref string, cfg textnorm.CleaningConfig) int {
	return len(textnorm.Tokenize(textnorm.Clean(ref, cfg)))
}

func measure(r, h []rune) Measures {
	m := Measures{RefLen: len(r)}
	if (len(r)+1)*(len(h)+1) > maxScriptCells {
		m.Distance = levenshtein.DistanceForStrings(r, h, unitCost)
		return m
	}
	m.Detailed = true
	for _, op := range levenshtein.EditScriptForStrings(r, h, unitCost) {
		switch op {
		case levenshtein.Match:
			m.Hits++
		case levenshtein.Sub:
			m.Substitutions++
		case levenshtein.Del:
			m.Deletions++
		case levenshtein.Ins:
			m.Insertions++
		}
	}
	m.Distance = m.Substitutions + m.Deletions + m.Insertions
	return m
}

// wordUnits cleans both texts and encodes each distinct word as one rune so
// the rune-based edit distance counts whole words.
func wordUnits(ref, hyp string, cfg textnorm.CleaningConfig) ([]rune, []rune, error) {
	rw := textnorm.Tokenize(textnorm.Clean(ref, cfg))
	if len(rw) == 0 {
		return nil, nil, errors.EmptyReference()
	}
	hw := textnorm.Tokenize(textnorm.Clean(hyp, cfg))

	ids := make(map[string]rune, len(rw)+len(hw))
	encode := func(words []string) []rune {
		out := make([]rune, len(words))
		for i, w := range words {
			id, ok := ids[w]
			if !ok {
				id = rune(len(ids))
				ids[w] = id
			}
			out[i] = id
		}
		return out
	}
	return encode(rw), encode(hw), nil
}

func charUnits(ref, hyp string, cfg textnorm.CleaningConfig) ([]rune, []rune, error) {
	r := []rune(strings.TrimSpace(textnorm.Clean(ref, cfg)))
	if len(r) == 0 {
		return nil, nil, errors.EmptyReference()
	}
	return r, []rune(strings.TrimSpace(textnorm.Clean(hyp, cfg))), nil
}

// Round2 rounds x to two decimal places. The exact binary value of x is
// rounded, with ties going to the even digit: 3.125 becomes 3.12 and
// 2.675 (stored just below) becomes 2.67.
func Round2(x float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 2, 64), 64)
	return r
}
