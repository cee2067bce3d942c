package curve_test

import (
	"math/rand/v2"
	"testing"
	"time"

	"orgforge/internal/curve"
)

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

var (
	orgCreated = time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	now        = time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
)

func TestHiringDateFoundingCohort(t *testing.T) {
	rng := newRNG(42)
	limit := orgCreated.Add(7 * 24 * time.Hour)
	for i := 0; i < 50; i++ {
		d := curve.HiringDate(rng, i, 5000, 50, orgCreated, now)
		if d.Before(orgCreated) || d.After(limit) {
			t.Fatalf("cohort member %d hired at %v, outside [%v, %v]", i, d, orgCreated, limit)
		}
	}
}

func TestHiringDateWithinInterval(t *testing.T) {
	rng := newRNG(42)
	for i := 0; i < 5000; i++ {
		d := curve.HiringDate(rng, i, 5000, 50, orgCreated, now)
		if d.Before(orgCreated) || d.After(now) {
			t.Fatalf("index %d hired at %v, outside interval", i, d)
		}
	}
}

// Bucket means of hiring dates must be non-decreasing as position grows:
// jitter may reorder neighbors but not whole cohorts.
func TestHiringDateMonotoneInExpectation(t *testing.T) {
	rng := newRNG(7)
	const total = 5000
	const buckets = 10
	sums := make([]float64, buckets)
	counts := make([]int, buckets)
	for i := 50; i < total; i++ {
		d := curve.HiringDate(rng, i, total, 50, orgCreated, now)
		b := (i - 50) * buckets / (total - 50)
		sums[b] += d.Sub(orgCreated).Hours()
		counts[b]++
	}
	prev := -1.0
	for b := 0; b < buckets; b++ {
		mean := sums[b] / float64(counts[b])
		if mean < prev {
			t.Fatalf("bucket %d mean %.1fh below previous %.1fh", b, mean, prev)
		}
		prev = mean
	}
}

func TestLastActiveBuckets(t *testing.T) {
	rng := newRNG(3)
	created := orgCreated
	within7, within30, older := 0, 0, 0
	const draws = 20000
	for i := 0; i < draws; i++ {
		la := curve.LastActive(rng, created, now)
		if la.Before(created) {
			t.Fatalf("last active %v before creation", la)
		}
		switch ago := now.Sub(la); {
		case ago <= 7*24*time.Hour:
			within7++
		case ago <= 30*24*time.Hour:
			within30++
		default:
			older++
		}
	}
	if frac := float64(within7) / draws; frac < 0.87 || frac > 0.93 {
		t.Errorf("within-7d fraction %.3f, want ~0.90", frac)
	}
	if frac := float64(older) / draws; frac < 0.03 || frac > 0.08 {
		t.Errorf("older-than-30d fraction %.3f, want ~0.05", frac)
	}
}

func TestLastActiveNeverBeforeCreation(t *testing.T) {
	rng := newRNG(5)
	recentHire := now.Add(-24 * time.Hour)
	for i := 0; i < 1000; i++ {
		la := curve.LastActive(rng, recentHire, now)
		if la.Before(recentHire) {
			t.Fatalf("last active %v before hire date %v", la, recentHire)
		}
		if la.After(now) {
			t.Fatalf("last active %v in the future", la)
		}
	}
}

func TestBimodalSplit(t *testing.T) {
	rng := newRNG(17)
	mid := orgCreated.Add(now.Sub(orgCreated) / 2)
	firstHalf := 0
	const draws = 20000
	for i := 0; i < draws; i++ {
		d := curve.Bimodal(rng, orgCreated, now, 0.7)
		if d.Before(orgCreated) || d.After(now) {
			t.Fatalf("bimodal date %v outside interval", d)
		}
		if d.Before(mid) {
			firstHalf++
		}
	}
	if frac := float64(firstHalf) / draws; frac < 0.67 || frac > 0.73 {
		t.Errorf("first-half fraction %.3f, want ~0.70", frac)
	}
}

func TestLifetimeConcave(t *testing.T) {
	start := orgCreated
	end := start.Add(100 * 24 * time.Hour)
	half := curve.Lifetime(start, end, 0.5, 0.6)
	linearHalf := start.Add(50 * 24 * time.Hour)
	if !half.After(linearHalf) {
		t.Fatalf("exponent < 1 should land past the linear midpoint: got %v", half)
	}
	if d := curve.Lifetime(start, end, 1.0, 0.6); !d.Equal(end) {
		t.Fatalf("position 1.0 should hit interval end, got %v", d)
	}
	if d := curve.Lifetime(start, end, 0, 0.6); !d.Equal(start) {
		t.Fatalf("position 0 should hit interval start, got %v", d)
	}
}
