package scoring

import "github.com/kbukum/asreval/errors"

// Sentinels for errors.Is. Returned errors carry details; they match these
// by code.
var (
	ErrEmptyReference    = errors.EmptyReference()
	ErrMismatchedWeights = errors.New(errors.ErrCodeMismatchedWeights, "weights and rates differ in length")
	ErrZeroWeightSum     = errors.ZeroWeightSum()
)
