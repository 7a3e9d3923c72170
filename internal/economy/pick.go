package economy

import "math"

// PickWeighted draws one item with probability proportional to its weight.
// Negative and NaN weights count as zero, and zero-weight items are never
// returned. A threshold landing exactly on a cumulative boundary selects the
// earlier item. A nil rng falls back to DefaultRNG.
func PickWeighted[T any](items []T, weight func(T) float64, rng RandomSource) (T, error) {
	var zero T

	weights := make([]float64, len(items))
	total := 0.0
	for i, item := range items {
		w := weight(item)
		if math.IsNaN(w) || w < 0 {
			w = 0
		}
		weights[i] = w
		total += w
	}
	if total <= 0 || math.IsInf(total, 0) {
		return zero, ErrInvalidWeightDistribution
	}

	if rng == nil {
		rng = DefaultRNG()
	}
	threshold := clampUnit(rng.Float64()) * total

	last := -1
	cumulative := 0.0
	for i, w := range weights {
		if w == 0 {
			continue
		}
		cumulative += w
		last = i
		if threshold <= cumulative {
			return items[i], nil
		}
	}
	// Floating point accumulation can leave the threshold marginally above the sum.
	return items[last], nil
}
