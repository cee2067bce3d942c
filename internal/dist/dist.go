// Package dist provides the weighted-sampling primitives every generator
// builds on. All functions are pure with respect to the supplied random
// stream: a fixed *rand.Rand state plus a fixed call sequence yields a
// fixed selection sequence.
package dist

import (
	"errors"
	"math/rand/v2"
)

var ErrInvalidDistribution = errors.New("invalid distribution: empty or all weights zero")

// Weighted pairs a candidate value with its relative likelihood.
// Weights need not be normalized; zero-weight entries are never selected.
type Weighted[T any] struct {
	Value  T
	Weight float64
}

// Choice draws one value with probability proportional to its weight.
func Choice[T any](rng *rand.Rand, choices []Weighted[T]) (T, error) {
	var zero T
	if len(choices) == 0 {
		return zero, ErrInvalidDistribution
	}
	var total float64
	for _, c := range choices {
		if c.Weight > 0 {
			total += c.Weight
		}
	}
	if total <= 0 {
		return zero, ErrInvalidDistribution
	}
	target := rng.Float64() * total
	var acc float64
	for _, c := range choices {
		if c.Weight <= 0 {
			continue
		}
		acc += c.Weight
		if target < acc {
			return c.Value, nil
		}
	}
	// Float accumulation can leave target at the boundary; the last
	// positive-weight entry takes it.
	for i := len(choices) - 1; i >= 0; i-- {
		if choices[i].Weight > 0 {
			return choices[i].Value, nil
		}
	}
	return zero, ErrInvalidDistribution
}

// Bernoulli reports true with probability p.
func Bernoulli(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}

// Sample returns n items drawn without replacement, in random order.
// When n exceeds len(items) the whole set is returned (shuffled).
func Sample[T any](rng *rand.Rand, items []T, n int) []T {
	if n > len(items) {
		n = len(items)
	}
	if n <= 0 {
		return nil
	}
	out := make([]T, 0, n)
	for _, idx := range rng.Perm(len(items))[:n] {
		out = append(out, items[idx])
	}
	return out
}

// BoundedNormal draws from a normal distribution centered between min and
// max with sigma = span/6, clamped to [min, max].
func BoundedNormal(rng *rand.Rand, min, max float64) float64 {
	if max <= min {
		return min
	}
	mean := (min + max) / 2
	sigma := (max - min) / 6
	v := mean + rng.NormFloat64()*sigma
	return Clamp(v, min, max)
}

// IntBetween draws a uniform integer in [lo, hi] inclusive.
func IntBetween(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
