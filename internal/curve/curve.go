// Package curve maps normalized sequence positions onto dates inside an
// interval: hiring ramps, recency buckets, bimodal team creation, and
// lifetime-fraction event spacing.
package curve

import (
	"math"
	"math/rand/v2"
	"time"

	"orgforge/internal/dist"
)

const day = 24 * time.Hour

// daysPerMonth keeps the month arithmetic identical across the ramp's
// exponential and linear phases.
const daysPerMonth = 30.0

// HiringDate places record index (of total) on the company growth curve
// between start and end.
//
// The first cohortSize records are the founding cohort, pinned to
// start + [0, 7] days regardless of the curve. Later positions follow an
// exponential phase then a linear tail: when the whole span fits in 12
// months the exponential covers everything, otherwise the first 60% of
// positions map exponentially onto the first 12 months and the rest map
// linearly onto the remaining months. A +/-15 day jitter is applied and
// the result is clamped to the interval.
func HiringDate(rng *rand.Rand, index, total, cohortSize int, start, end time.Time) time.Time {
	if index < cohortSize {
		return start.Add(time.Duration(dist.IntBetween(rng, 0, 7)) * day)
	}
	totalMonths := end.Sub(start).Hours() / 24 / daysPerMonth
	if totalMonths <= 0 {
		return start
	}
	pos := float64(index) / float64(total)

	var month float64
	switch {
	case totalMonths <= 12:
		month = expPhase(pos) * totalMonths
	case pos < 0.6:
		month = expPhase(pos/0.6) * 12
	default:
		month = 12 + (pos-0.6)/0.4*(totalMonths-12)
	}

	days := month*daysPerMonth + uniform(rng, -15, 15)
	days = dist.Clamp(days, 0, totalMonths*daysPerMonth)
	return start.Add(time.Duration(days * float64(day)))
}

// expPhase maps p in [0,1] onto [0,1] with early growth:
// ln(1 + p*(e-1)).
func expPhase(p float64) float64 {
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		return 1
	}
	return math.Log(1 + p*(math.E-1))
}

// LastActive draws a recent-activity date: 90% within 7 days of now, 5%
// 8-30 days back, 5% 31-180 days back. A result before createdAt is
// replaced with createdAt plus a small positive offset, capped at now.
func LastActive(rng *rand.Rand, createdAt, now time.Time) time.Time {
	var daysAgo float64
	switch r := rng.Float64(); {
	case r < 0.90:
		daysAgo = uniform(rng, 0, 7)
	case r < 0.95:
		daysAgo = uniform(rng, 8, 30)
	default:
		daysAgo = uniform(rng, 31, 180)
	}
	last := now.Add(-time.Duration(daysAgo * float64(day)))
	if last.Before(createdAt) {
		last = createdAt.Add(time.Duration(dist.IntBetween(rng, 1, 30)) * day)
		if last.After(now) {
			last = now
		}
	}
	return last
}

// Bimodal draws a date that lands in the first half of [start, end] with
// probability pFirstHalf, otherwise the second half. Each half is a
// uniform draw of its own.
func Bimodal(rng *rand.Rand, start, end time.Time, pFirstHalf float64) time.Time {
	span := end.Sub(start)
	if span <= 0 {
		return start
	}
	half := span / 2
	if dist.Bernoulli(rng, pFirstHalf) {
		return start.Add(time.Duration(rng.Float64() * float64(half)))
	}
	return start.Add(half + time.Duration(rng.Float64()*float64(half)))
}

// Lifetime places an event at position^exponent of the interval. With an
// exponent below 1 the curve is concave, pushing events toward mid-life
// instead of piling up at the end.
func Lifetime(start, end time.Time, position, exponent float64) time.Time {
	span := end.Sub(start)
	if span <= 0 {
		return start
	}
	frac := math.Pow(dist.Clamp(position, 0, 1), exponent)
	return start.Add(time.Duration(frac * float64(span)))
}

// Between draws uniformly within [start, end].
func Between(rng *rand.Rand, start, end time.Time) time.Time {
	span := end.Sub(start)
	if span <= 0 {
		return start
	}
	return start.Add(time.Duration(rng.Float64() * float64(span)))
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
