// Package textnorm normalises transcripts before they are aligned or scored.
//
// Cleaning is a fixed sequence of steps: hyphens become spaces, words are
// replaced through a case-insensitive map, ASCII punctuation is stripped,
// replacements run a second time, stop-words are removed, consecutive
// duplicate words collapse to one and, unless the config is cased,
// everything is lower-cased.
//
//	cfg := textnorm.NewCleaningConfig(
//	    textnorm.WithReplacements(textnorm.EnglishShortForms()),
//	    textnorm.WithWordsToRemove("um", "uh"),
//	)
//	textnorm.Clean("Um, I'm I'm  fine", cfg) // "i am fine"
package textnorm
