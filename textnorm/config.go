package textnorm

import (
	"maps"
	"strings"
)

// CleaningConfig is an immutable description of how to normalise text.
// The zero value performs no replacements, removes no words and lowercases
// its output. It is safe for concurrent use.
type CleaningConfig struct {
	replacements  map[string]string
	wordsToRemove map[string]struct{}
	cased         bool
	punctuation   PunctuationSet
}

// PunctuationSet selects which runes the punctuation step strips.
type PunctuationSet int

const (
	// ASCIIPunctuation strips the 32 printable ASCII punctuation characters.
	ASCIIPunctuation PunctuationSet = iota
	// UnicodePunctuation also strips Unicode punctuation such as curly
	// quotes and ellipses.
	UnicodePunctuation
)

// Option configures a CleaningConfig.
type Option func(*CleaningConfig)

// WithReplacements adds word replacements. Keys match case-insensitively;
// values are inserted verbatim and may contain spaces.
func WithReplacements(m map[string]string) Option {
	return func(c *CleaningConfig) {
		for k, v := range m {
			c.replacements[strings.ToLower(k)] = v
		}
	}
}

// WithWordsToRemove adds stop-words. Matching is case-insensitive.
func WithWordsToRemove(words ...string) Option {
	return func(c *CleaningConfig) {
		for _, w := range words {
			c.wordsToRemove[strings.ToLower(w)] = struct{}{}
		}
	}
}

// WithCased keeps the original letter case when cased is true.
func WithCased(cased bool) Option {
	return func(c *CleaningConfig) { c.cased = cased }
}

// WithPunctuation selects the punctuation set to strip.
func WithPunctuation(p PunctuationSet) Option {
	return func(c *CleaningConfig) { c.punctuation = p }
}

// NewCleaningConfig builds a CleaningConfig. Later options override earlier
// ones for the same key.
func NewCleaningConfig(opts ...Option) CleaningConfig {
	c := CleaningConfig{
		replacements:  make(map[string]string),
		wordsToRemove: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Replacements returns a copy of the replacement map.
func (c CleaningConfig) Replacements() map[string]string {
	return maps.Clone(c.replacements)
}

// WordsToRemove returns a copy of the stop-word set.
func (c CleaningConfig) WordsToRemove() map[string]struct{} {
	return maps.Clone(c.wordsToRemove)
}

// Cased reports whether cleaning keeps letter case.
func (c CleaningConfig) Cased() bool { return c.cased }

// Punctuation returns the configured punctuation set.
func (c CleaningConfig) Punctuation() PunctuationSet { return c.punctuation }

var (
	shortFormPronouns = []string{"i", "you", "he", "she", "it", "we", "they", "who"}
	shortForms        = []struct{ short, full string }{
		{"'m", "am"},
		{"'s", "is"},
		{"'ll", "will"},
		{"'ve", "have"},
		{"'d", "would"},
	}
)

// EnglishShortForms returns the pronoun contractions of English mapped to
// their expanded forms, e.g. "i'm" -> "i am" and "they'll" -> "they will".
func EnglishShortForms() map[string]string {
	m := make(map[string]string, len(shortFormPronouns)*len(shortForms))
	for _, p := range shortFormPronouns {
		for _, sf := range shortForms {
			m[p+sf.short] = p + " " + sf.full
		}
	}
	return m
}
