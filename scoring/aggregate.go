package scoring

import "github.com/kbukum/asreval/errors"

// WeightedAverage returns Σ(w·r) / Σw rounded to two decimals. Weights are
// usually reference word counts.
func WeightedAverage(weights, rates []float64) (float64, error) {
	if len(weights) != len(rates) {
		return 0, errors.MismatchedWeights(len(weights), len(rates))
	}
	var num, den float64
	for i, w := range weights {
		num += w * rates[i]
		den += w
	}
	if den == 0 {
		return 0, errors.ZeroWeightSum()
	}
	return Round2(num / den), nil
}
