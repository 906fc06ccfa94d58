package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/dermtrack/dermtrack/internal/models"
)

// MetricPoint is one (day, date, value) observation of a metric series.
type MetricPoint struct {
	Day   int
	Date  time.Time
	Value float64
}

// madScale converts a median absolute deviation into a consistent
// standard-deviation estimate for normal data.
const madScale = 1.4826

// DefaultAnomalyThreshold is the |z| cutoff used when callers pass 0.
const DefaultAnomalyThreshold = 2.5

// DetectAnomalies flags outlier points in a metric series. All methods
// require at least 3 points; zero-spread series (std, MAD or IQR of 0)
// short-circuit to no anomalies so no NaN can reach downstream confidence
// math.
func DetectAnomalies(metric string, points []MetricPoint, method models.AnomalyMethod, threshold float64) []models.AnomalyDetectionResult {
	if len(points) < 3 {
		return nil
	}
	if threshold <= 0 {
		threshold = DefaultAnomalyThreshold
	}
	switch method {
	case models.AnomalyMethodZScore:
		return detectZScore(metric, points, threshold)
	case models.AnomalyMethodIQR:
		return detectIQR(metric, points)
	default:
		return detectMAD(metric, points, threshold)
	}
}

func detectZScore(metric string, points []MetricPoint, threshold float64) []models.AnomalyDetectionResult {
	values := pointValues(points)
	mean := Mean(values)
	std := StdDev(values)
	if std == 0 {
		return nil
	}

	var out []models.AnomalyDetectionResult
	for _, p := range points {
		z := (p.Value - mean) / std
		if math.Abs(z) <= threshold {
			continue
		}
		sev := models.AnomalySeverityMild
		switch {
		case math.Abs(z) > 3.5:
			sev = models.AnomalySeveritySevere
		case math.Abs(z) > 3.0:
			sev = models.AnomalySeverityModerate
		}
		out = append(out, models.AnomalyDetectionResult{
			Metric:   metric,
			Day:      p.Day,
			Date:     p.Date,
			Value:    p.Value,
			ZScore:   z,
			Severity: sev,
			Reason:   fmt.Sprintf("value %.1f is %.1f standard deviations from the mean", p.Value, math.Abs(z)),
		})
	}
	return out
}

func detectMAD(metric string, points []MetricPoint, threshold float64) []models.AnomalyDetectionResult {
	values := pointValues(points)
	median := Median(values)
	mad := MedianAbsoluteDeviation(values)
	if mad == 0 {
		return nil
	}

	var out []models.AnomalyDetectionResult
	for _, p := range points {
		z := madScale * (p.Value - median) / mad
		if math.Abs(z) <= threshold {
			continue
		}
		sev := models.AnomalySeverityMild
		switch {
		case math.Abs(z) > 4.0:
			sev = models.AnomalySeveritySevere
		case math.Abs(z) > 3.0:
			sev = models.AnomalySeverityModerate
		}
		out = append(out, models.AnomalyDetectionResult{
			Metric:   metric,
			Day:      p.Day,
			Date:     p.Date,
			Value:    p.Value,
			ZScore:   z,
			Severity: sev,
			Reason:   fmt.Sprintf("value %.1f is %.1f robust z-scores from the median", p.Value, math.Abs(z)),
		})
	}
	return out
}

func detectIQR(metric string, points []MetricPoint) []models.AnomalyDetectionResult {
	values := pointValues(points)
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	// Direct index partition, no interpolation. The severity tiers were
	// tuned against this exact quartile choice.
	n := len(sorted)
	q1 := sorted[n/4]
	q3 := sorted[3*n/4]
	iqr := q3 - q1
	if iqr == 0 {
		return nil
	}

	lower, upper := q1-1.5*iqr, q3+1.5*iqr
	extLower, extUpper := q1-3.0*iqr, q3+3.0*iqr

	mean := Mean(values)
	std := StdDev(values)

	var out []models.AnomalyDetectionResult
	for _, p := range points {
		if p.Value >= lower && p.Value <= upper {
			continue
		}
		sev := models.AnomalySeverityModerate
		if p.Value < extLower || p.Value > extUpper {
			sev = models.AnomalySeveritySevere
		}
		z := 0.0
		if std != 0 {
			z = (p.Value - mean) / std
		}
		out = append(out, models.AnomalyDetectionResult{
			Metric:   metric,
			Day:      p.Day,
			Date:     p.Date,
			Value:    p.Value,
			ZScore:   z,
			Severity: sev,
			Reason:   fmt.Sprintf("value %.1f falls outside the interquartile fence [%.1f, %.1f]", p.Value, lower, upper),
		})
	}
	return out
}

// DetectJumps flags abnormal point-to-point changes by z-scoring the delta
// series at threshold 3.0 (severe beyond 5.0).
func DetectJumps(metric string, points []MetricPoint) []models.AnomalyDetectionResult {
	if len(points) < 3 {
		return nil
	}
	deltas := make([]float64, len(points)-1)
	for i := 1; i < len(points); i++ {
		deltas[i-1] = points[i].Value - points[i-1].Value
	}
	mean := Mean(deltas)
	std := StdDev(deltas)
	if std == 0 {
		return nil
	}

	var out []models.AnomalyDetectionResult
	for i, d := range deltas {
		z := (d - mean) / std
		if math.Abs(z) <= 3.0 {
			continue
		}
		sev := models.AnomalySeverityModerate
		if math.Abs(z) > 5.0 {
			sev = models.AnomalySeveritySevere
		}
		p := points[i+1]
		out = append(out, models.AnomalyDetectionResult{
			Metric:   metric,
			Day:      p.Day,
			Date:     p.Date,
			Value:    p.Value,
			ZScore:   z,
			Severity: sev,
			Reason:   fmt.Sprintf("change of %+.1f from the previous check-in is abnormally large", d),
		})
	}
	return out
}

// AssessDataQuality scores a series 0-1 from sample size and stability.
// The size term grows linearly to 0.5 at 20 samples; the stability term is
// banded on the coefficient of variation.
func AssessDataQuality(values []float64) models.DataQualityAssessment {
	n := len(values)
	size := math.Min(0.5, float64(n)/20*0.5)

	cv := 1.0
	if m := Mean(values); m != 0 {
		cv = StdDev(values) / math.Abs(m)
	}
	var stability float64
	switch {
	case cv < 0.1:
		stability = 0.5
	case cv < 0.2:
		stability = 0.4
	case cv < 0.3:
		stability = 0.3
	default:
		stability = 0.2
	}

	score := clamp(size+stability, 0, 1)
	return models.DataQualityAssessment{
		Score:       score,
		Label:       models.DataQualityLabel(score),
		SampleCount: n,
	}
}

func pointValues(points []MetricPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value
	}
	return out
}
