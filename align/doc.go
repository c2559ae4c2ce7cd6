// Package align lines up a reference and a hypothesis word by word for
// display.
//
// MatchingBlocks finds the common runs of two token sequences with the
// greedy longest-block method of Ratcliff and Obershelp. Equalize walks
// those runs and pads every unmatched token on the opposite side with an
// underscore placeholder of the same rune length, so both sides end up
// with the same number of tokens.
package align
