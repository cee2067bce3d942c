package dist_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"orgforge/internal/dist"
)

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

func TestChoiceConvergence(t *testing.T) {
	rng := newRNG(7)
	weights := map[string]float64{"a": 0.20, "b": 0.45, "c": 0.25, "d": 0.10}
	choices := []dist.Weighted[string]{
		{Value: "a", Weight: 0.20},
		{Value: "b", Weight: 0.45},
		{Value: "c", Weight: 0.25},
		{Value: "d", Weight: 0.10},
	}
	const draws = 100000
	counts := map[string]int{}
	for i := 0; i < draws; i++ {
		v, err := dist.Choice(rng, choices)
		if err != nil {
			t.Fatalf("choice: %v", err)
		}
		counts[v]++
	}
	for value, want := range weights {
		got := float64(counts[value]) / draws
		if math.Abs(got-want) > 0.015 {
			t.Errorf("value %s: observed %.4f, want %.2f +/- 0.015", value, got, want)
		}
	}
}

func TestChoiceZeroWeightNeverSelected(t *testing.T) {
	rng := newRNG(1)
	choices := []dist.Weighted[string]{
		{Value: "never", Weight: 0},
		{Value: "always", Weight: 1},
	}
	for i := 0; i < 1000; i++ {
		v, err := dist.Choice(rng, choices)
		if err != nil {
			t.Fatalf("choice: %v", err)
		}
		if v == "never" {
			t.Fatalf("zero-weight value selected on draw %d", i)
		}
	}
}

func TestChoiceDegenerateInputs(t *testing.T) {
	rng := newRNG(1)
	if _, err := dist.Choice[string](rng, nil); err != dist.ErrInvalidDistribution {
		t.Fatalf("empty set: got %v, want ErrInvalidDistribution", err)
	}
	allZero := []dist.Weighted[int]{{Value: 1, Weight: 0}, {Value: 2, Weight: 0}}
	if _, err := dist.Choice(rng, allZero); err != dist.ErrInvalidDistribution {
		t.Fatalf("all-zero weights: got %v, want ErrInvalidDistribution", err)
	}
}

func TestChoiceReproducible(t *testing.T) {
	choices := []dist.Weighted[int]{
		{Value: 1, Weight: 1},
		{Value: 2, Weight: 2},
		{Value: 3, Weight: 3},
	}
	draw := func() []int {
		rng := newRNG(42)
		var seq []int
		for i := 0; i < 50; i++ {
			v, _ := dist.Choice(rng, choices)
			seq = append(seq, v)
		}
		return seq
	}
	first, second := draw(), draw()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("draw %d differs: %d vs %d", i, first[i], second[i])
		}
	}
}

func TestSampleWithoutReplacement(t *testing.T) {
	rng := newRNG(3)
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	got := dist.Sample(rng, items, 5)
	if len(got) != 5 {
		t.Fatalf("sample size: got %d, want 5", len(got))
	}
	seen := map[int]bool{}
	for _, v := range got {
		if seen[v] {
			t.Fatalf("duplicate value %d in sample", v)
		}
		seen[v] = true
	}
	// Oversized request returns everything.
	all := dist.Sample(rng, items, 100)
	if len(all) != len(items) {
		t.Fatalf("oversized sample: got %d, want %d", len(all), len(items))
	}
}

func TestBoundedNormalStaysInRange(t *testing.T) {
	rng := newRNG(9)
	for i := 0; i < 10000; i++ {
		v := dist.BoundedNormal(rng, 5000, 10000)
		if v < 5000 || v > 10000 {
			t.Fatalf("out of range: %f", v)
		}
	}
}

func TestBernoulliRate(t *testing.T) {
	rng := newRNG(11)
	hits := 0
	const draws = 100000
	for i := 0; i < draws; i++ {
		if dist.Bernoulli(rng, 0.95) {
			hits++
		}
	}
	rate := float64(hits) / draws
	if math.Abs(rate-0.95) > 0.01 {
		t.Fatalf("bernoulli rate %.4f, want 0.95 +/- 0.01", rate)
	}
}
