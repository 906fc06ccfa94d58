package analytics

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestStdDevEdgeCases(t *testing.T) {
	t.Parallel()

	if got := StdDev(nil); got != 0 {
		t.Errorf("StdDev(nil) = %v, want 0", got)
	}
	if got := StdDev([]float64{42}); got != 0 {
		t.Errorf("StdDev(single) = %v, want 0", got)
	}
	if got := StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}); !almostEqual(got, math.Sqrt(32.0/7)) {
		t.Errorf("StdDev = %v, want %v", got, math.Sqrt(32.0/7))
	}
}

func TestMedian(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []float64{5}, 5},
		{"odd", []float64{3, 1, 2}, 2},
		{"even", []float64{4, 1, 3, 2}, 2.5},
	}
	for _, tt := range tests {
		if got := Median(tt.values); !almostEqual(got, tt.want) {
			t.Errorf("Median(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestMedianAbsoluteDeviation(t *testing.T) {
	t.Parallel()

	// median = 2, deviations = [1,0,0,0,7], MAD = 0
	if got := MedianAbsoluteDeviation([]float64{1, 2, 2, 2, 9}); got != 0 {
		t.Errorf("MAD = %v, want 0", got)
	}
	// median = 3, deviations = [2,1,0,1,2], MAD = 1
	if got := MedianAbsoluteDeviation([]float64{1, 2, 3, 4, 5}); !almostEqual(got, 1) {
		t.Errorf("MAD = %v, want 1", got)
	}
}

func TestSlope(t *testing.T) {
	t.Parallel()

	if got := Slope([]float64{5}); got != 0 {
		t.Errorf("Slope(single) = %v, want 0", got)
	}
	if got := Slope([]float64{1, 3, 5, 7}); !almostEqual(got, 2) {
		t.Errorf("Slope = %v, want 2", got)
	}
	if got := Slope([]float64{4, 4, 4}); got != 0 {
		t.Errorf("Slope(flat) = %v, want 0", got)
	}
}

func TestRSquaredPerfectFit(t *testing.T) {
	t.Parallel()

	xs := []float64{0, 7, 14, 21}
	ys := []float64{10, 24, 38, 52}
	if got := RSquared(xs, ys); !almostEqual(got, 1) {
		t.Errorf("RSquared(linear) = %v, want 1", got)
	}
	if got := RSquared(xs, []float64{5, 5, 5, 5}); got != 0 {
		t.Errorf("RSquared(flat target) = %v, want 0", got)
	}
}

func TestMovingAverageWindowOneIsIdentity(t *testing.T) {
	t.Parallel()

	in := []float64{3, 1, 4, 1, 5}
	out := MovingAverage(in, 1)
	if len(out) != len(in) {
		t.Fatalf("len = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("out[%d] = %v, want %v", i, out[i], in[i])
		}
	}
}

func TestMovingAverageWindowThree(t *testing.T) {
	t.Parallel()

	out := MovingAverage([]float64{3, 6, 9, 12}, 3)
	want := []float64{3, 4.5, 6, 9}
	for i := range want {
		if !almostEqual(out[i], want[i]) {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestExponentialMovingAverage(t *testing.T) {
	t.Parallel()

	out := ExponentialMovingAverage([]float64{10, 20, 30}, 0.5)
	want := []float64{10, 15, 22.5}
	for i := range want {
		if !almostEqual(out[i], want[i]) {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestSpearmanMonotoneInvariance(t *testing.T) {
	t.Parallel()

	xs := []float64{1, 4, 2, 8, 5}
	ys := []float64{10, 30, 15, 70, 40}

	base := SpearmanCorrelation(xs, ys)
	if !almostEqual(base, 1) {
		t.Fatalf("SpearmanCorrelation = %v, want 1 for co-monotone series", base)
	}

	// Strictly increasing transforms must not change the coefficient.
	cubed := make([]float64, len(xs))
	logged := make([]float64, len(ys))
	for i := range xs {
		cubed[i] = xs[i] * xs[i] * xs[i]
		logged[i] = math.Log(ys[i])
	}
	if got := SpearmanCorrelation(cubed, logged); !almostEqual(got, base) {
		t.Errorf("SpearmanCorrelation after transform = %v, want %v", got, base)
	}
}

func TestSpearmanTiedRanks(t *testing.T) {
	t.Parallel()

	r := ranks([]float64{5, 2, 2, 8})
	want := []float64{3, 1.5, 1.5, 4}
	for i := range want {
		if !almostEqual(r[i], want[i]) {
			t.Errorf("ranks[%d] = %v, want %v", i, r[i], want[i])
		}
	}
}

func TestVolatilityCappedAtOne(t *testing.T) {
	t.Parallel()

	if got := Volatility([]float64{1, 100, 1, 100, 1}); got != 1 {
		t.Errorf("Volatility = %v, want capped 1", got)
	}
	if got := Volatility([]float64{-5, 5}); got != 0 {
		t.Errorf("Volatility(zero mean) = %v, want 0", got)
	}
}

func TestMaxDrawdown(t *testing.T) {
	t.Parallel()

	if got := MaxDrawdown([]float64{50, 80, 60, 90, 40}); !almostEqual(got, 50) {
		t.Errorf("MaxDrawdown = %v, want 50", got)
	}
	if got := MaxDrawdown([]float64{10, 20, 30}); got != 0 {
		t.Errorf("MaxDrawdown(rising) = %v, want 0", got)
	}
}

func TestIntervalConsistency(t *testing.T) {
	t.Parallel()

	if got := IntervalConsistency(nil, 1, 3); got != 0 {
		t.Errorf("IntervalConsistency(empty) = %v, want 0", got)
	}
	if got := IntervalConsistency([]float64{1, 2, 3, 7}, 1, 3); !almostEqual(got, 0.75) {
		t.Errorf("IntervalConsistency = %v, want 0.75", got)
	}
}
