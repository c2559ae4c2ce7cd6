// Package scoring computes word and character error rates between a
// reference transcript and a hypothesis, and their weighted aggregate.
//
// Rates are percentages rounded to two decimals and may exceed 100 when
// the hypothesis carries many insertions. Both texts are cleaned with the
// same textnorm.CleaningConfig before comparison; a reference that cleans
// down to nothing yields ErrEmptyReference.
package scoring
