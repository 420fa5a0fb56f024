package gen

import "math/rand"

// weightedChoice samples a categorical value against a cumulative-weight
// table. The rand source is always passed in by the caller so that a single
// seeded generator drives every draw of a run.
type weightedChoice struct {
	values []string
	cum    []float64
}

func newWeightedChoice(values []string, weights []float64) weightedChoice {
	if len(values) != len(weights) {
		panic("weighted choice: values and weights length mismatch")
	}
	cum := make([]float64, len(weights))
	total := 0.0
	for i, w := range weights {
		total += w
		cum[i] = total
	}
	// Normalize so the table works for any positive weight sum.
	for i := range cum {
		cum[i] /= total
	}
	return weightedChoice{values: values, cum: cum}
}

func (w weightedChoice) pick(rng *rand.Rand) string {
	r := rng.Float64()
	for i, c := range w.cum {
		if r < c {
			return w.values[i]
		}
	}
	return w.values[len(w.values)-1]
}
