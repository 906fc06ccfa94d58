// Package analytics holds the statistical core: pure, stateless functions
// over immutable check-in data. Nothing here touches the network, the
// database, or a clock besides the timestamps it is handed, so every
// component is safe to run concurrently per metric.
package analytics

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean, 0 for an empty series.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Median returns the middle value of the series, 0 for an empty series.
// Even-length series average the two middle values.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// StdDev returns the sample standard deviation (n-1 denominator).
// Series with fewer than 2 points return 0.
func StdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	m := Mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(n-1))
}

// MedianAbsoluteDeviation returns median(|x - median(x)|).
func MedianAbsoluteDeviation(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	med := Median(values)
	devs := make([]float64, len(values))
	for i, v := range values {
		devs[i] = math.Abs(v - med)
	}
	return Median(devs)
}

// Slope returns the ordinary-least-squares slope of the series against its
// integer index. Calendar spacing is deliberately ignored here; callers that
// need day-based regression use linearRegression directly.
func Slope(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	slope, _ := linearRegression(xs, values)
	return slope
}

// linearRegression fits y = slope*x + intercept by ordinary least squares.
// Returns (0, mean(y)) when x has no spread.
func linearRegression(xs, ys []float64) (slope, intercept float64) {
	n := float64(len(xs))
	if n < 2 || len(xs) != len(ys) {
		return 0, Mean(ys)
	}
	mx, my := Mean(xs), Mean(ys)
	var sxx, sxy float64
	for i := range xs {
		dx := xs[i] - mx
		sxx += dx * dx
		sxy += dx * (ys[i] - my)
	}
	if sxx == 0 {
		return 0, my
	}
	slope = sxy / sxx
	intercept = my - slope*mx
	return slope, intercept
}

// RSquared returns the coefficient of determination for the OLS fit of ys
// against xs. A flat target series yields 0.
func RSquared(xs, ys []float64) float64 {
	if len(xs) < 2 || len(xs) != len(ys) {
		return 0
	}
	slope, intercept := linearRegression(xs, ys)
	my := Mean(ys)
	var ssTot, ssRes float64
	for i := range ys {
		pred := slope*xs[i] + intercept
		ssRes += (ys[i] - pred) * (ys[i] - pred)
		ssTot += (ys[i] - my) * (ys[i] - my)
	}
	if ssTot == 0 {
		return 0
	}
	r2 := 1 - ssRes/ssTot
	if r2 < 0 {
		return 0
	}
	return r2
}

// PearsonCorrelation returns the linear correlation of two equal-length
// series, 0 when either has no spread or fewer than 2 points.
func PearsonCorrelation(xs, ys []float64) float64 {
	n := len(xs)
	if n < 2 || n != len(ys) {
		return 0
	}
	mx, my := Mean(xs), Mean(ys)
	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		dx := xs[i] - mx
		dy := ys[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0
	}
	return sxy / math.Sqrt(sxx*syy)
}

// SpearmanCorrelation ranks both series (ties get averaged ranks) and applies
// Pearson on the ranks, making it invariant under monotonic transforms.
func SpearmanCorrelation(xs, ys []float64) float64 {
	if len(xs) < 2 || len(xs) != len(ys) {
		return 0
	}
	return PearsonCorrelation(ranks(xs), ranks(ys))
}

// ranks assigns 1-based ranks with ties averaged.
func ranks(values []float64) []float64 {
	n := len(values)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	out := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && values[idx[j+1]] == values[idx[i]] {
			j++
		}
		avg := (float64(i+1) + float64(j+1)) / 2
		for k := i; k <= j; k++ {
			out[idx[k]] = avg
		}
		i = j + 1
	}
	return out
}

// MovingAverage smooths the series with a trailing window. Window 1 (or an
// invalid window) returns a copy of the input.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	for i := range values {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		out[i] = Mean(values[start : i+1])
	}
	return out
}

// ExponentialMovingAverage smooths with factor alpha in (0,1]. Out-of-range
// alpha returns a copy of the input.
func ExponentialMovingAverage(values []float64, alpha float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	if alpha <= 0 || alpha > 1 {
		copy(out, values)
		return out
	}
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// Volatility returns the coefficient of variation capped at 1. Series with a
// zero mean return 0 to keep downstream confidence terms finite.
func Volatility(values []float64) float64 {
	m := Mean(values)
	if m == 0 {
		return 0
	}
	cv := StdDev(values) / math.Abs(m)
	if cv > 1 {
		return 1
	}
	return cv
}

// MaxDrawdown returns the largest peak-to-trough decline in the series.
func MaxDrawdown(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	peak := values[0]
	maxDD := 0.0
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		} else if dd := peak - v; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// IntervalConsistency returns the fraction of gaps falling inside
// [idealMin, idealMax], 0 for an empty gap list.
func IntervalConsistency(gaps []float64, idealMin, idealMax float64) float64 {
	if len(gaps) == 0 {
		return 0
	}
	in := 0
	for _, g := range gaps {
		if g >= idealMin && g <= idealMax {
			in++
		}
	}
	return float64(in) / float64(len(gaps))
}

// clamp limits v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
