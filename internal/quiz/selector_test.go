package quiz

import (
	"errors"
	"math"
	"math/rand/v2"
	"sort"
	"testing"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(42, 7))
}

func TestSelect_NeverPicksZeroWeight(t *testing.T) {
	vectors := [][]float64{
		{0, 1, 0},
		{0, 0, 0, 0.001},
		{1e-12, 0, 5, 0},
		{0, 3, 0, 3, 0},
	}
	s := NewSelector(testRand())
	for _, w := range vectors {
		for i := 0; i < 5000; i++ {
			idx, err := s.Select(w)
			if err != nil {
				t.Fatalf("Select(%v): %v", w, err)
			}
			if w[idx] == 0 {
				t.Fatalf("Select(%v) returned zero-weight index %d", w, idx)
			}
		}
	}
}

func TestSelect_ProportionalToWeight(t *testing.T) {
	s := NewSelector(testRand())
	w := []float64{1, 2, 1}
	counts := make([]int, len(w))
	const draws = 40000
	for i := 0; i < draws; i++ {
		idx, err := s.Select(w)
		if err != nil {
			t.Fatal(err)
		}
		counts[idx]++
	}
	want := []float64{0.25, 0.5, 0.25}
	for i, c := range counts {
		got := float64(c) / draws
		if math.Abs(got-want[i]) > 0.02 {
			t.Errorf("index %d frequency = %.3f, want ~%.2f", i, got, want[i])
		}
	}
}

func TestSelect_Errors(t *testing.T) {
	s := NewSelector(testRand())
	tests := []struct {
		name    string
		weights []float64
		allZero bool
	}{
		{"empty", nil, false},
		{"negative", []float64{1, -1}, false},
		{"nan", []float64{math.NaN(), 1}, false},
		{"inf", []float64{math.Inf(1)}, false},
		{"overflow", []float64{math.MaxFloat64, math.MaxFloat64}, false},
		{"all zero", []float64{0, 0, 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Select(tt.weights)
			var ce *ConfigurationError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *ConfigurationError, got %v", err)
			}
			if got := errors.Is(err, ErrAllWeightsZero); got != tt.allZero {
				t.Errorf("errors.Is(ErrAllWeightsZero) = %v, want %v", got, tt.allZero)
			}
		})
	}
}

func TestShuffle_IsPermutation(t *testing.T) {
	s := NewSelector(testRand())
	for n := 0; n < 6; n++ {
		p := s.Shuffle(n)
		if len(p) != n {
			t.Fatalf("Shuffle(%d) len = %d", n, len(p))
		}
		sorted := append([]int(nil), p...)
		sort.Ints(sorted)
		for i, v := range sorted {
			if v != i {
				t.Fatalf("Shuffle(%d) = %v is not a permutation", n, p)
			}
		}
	}
}
