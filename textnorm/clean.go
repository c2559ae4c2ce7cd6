package textnorm

import (
	"strings"
	"unicode"
)

// Clean normalises text according to cfg. It never fails; empty input
// yields empty output.
func Clean(text string, cfg CleaningConfig) string {
	text = strings.ReplaceAll(text, "-", " ")
	text = replaceWords(text, cfg.replacements)
	text = stripPunctuation(text, cfg.punctuation)
	text = replaceWords(text, cfg.replacements)
	text = removeWords(text, cfg.wordsToRemove)
	text = collapseDuplicates(text)
	if !cfg.cased {
		text = strings.ToLower(text)
	}
	return text
}

func replaceWords(text string, replacements map[string]string) string {
	words := strings.Fields(text)
	if len(replacements) > 0 {
		for i, w := range words {
			if r, ok := replacements[strings.ToLower(w)]; ok {
				words[i] = r
			}
		}
	}
	return strings.Join(words, " ")
}

const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

func stripPunctuation(text string, set PunctuationSet) string {
	return strings.Map(func(r rune) rune {
		if r < 0x80 && strings.ContainsRune(asciiPunctuation, r) {
			return -1
		}
		if set == UnicodePunctuation && unicode.IsPunct(r) {
			return -1
		}
		return r
	}, text)
}

func removeWords(text string, remove map[string]struct{}) string {
	words := strings.Fields(text)
	kept := words[:0]
	for _, w := range words {
		if _, drop := remove[strings.ToLower(w)]; !drop {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// isWordRune matches the Unicode \w class: letters, numbers, combining
// marks and underscore.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r)
}

// span is a maximal run of word or non-word runes in a string.
type span struct {
	text string
	word bool
}

func splitSpans(text string) []span {
	var spans []span
	start := 0
	for i, r := range text {
		w := isWordRune(r)
		if i == 0 {
			spans = append(spans, span{word: w})
			continue
		}
		if last := &spans[len(spans)-1]; last.word != w {
			last.text = text[start:i]
			start = i
			spans = append(spans, span{word: w})
		}
	}
	if len(spans) > 0 {
		spans[len(spans)-1].text = text[start:]
	}
	return spans
}

// collapseDuplicates keeps the first of each run of consecutive words that
// are equal ignoring case, dropping the later copies with the separators
// before them. "the The cat" becomes "the cat".
func collapseDuplicates(text string) string {
	spans := splitSpans(text)
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(spans); i++ {
		b.WriteString(spans[i].text)
		if !spans[i].word {
			continue
		}
		for i+2 < len(spans) && strings.EqualFold(spans[i].text, spans[i+2].text) {
			i += 2
		}
	}
	return b.String()
}

// Tokenize splits text on runs of whitespace.
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// Untokenize joins tokens with single spaces.
func Untokenize(tokens []string) string {
	return strings.Join(tokens, " ")
}
