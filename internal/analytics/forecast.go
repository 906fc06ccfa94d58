package analytics

import (
	"math"

	"github.com/dermtrack/dermtrack/internal/models"
)

// Metric names used across forecasts, anomalies and risk alerts.
const (
	MetricOverallScore = "overall_score"
	MetricAcne         = "acne"
	MetricRedness      = "redness"
	MetricSkinAge      = "skin_age"
	MetricSensitivity  = "sensitivity"
)

// tValueFor approximates the t statistic from three confidence-level
// buckets instead of a real t-table.
func tValueFor(confidenceLevel float64) float64 {
	switch {
	case confidenceLevel >= 0.95:
		return 2.0
	case confidenceLevel >= 0.90:
		return 1.7
	default:
		return 1.5
	}
}

// Forecast fits ordinary least squares on (day, value) and extrapolates
// horizonDays daily points with prediction intervals. Requires at least 3
// points, else nil.
//
// All predicted and bound values clamp to [0,100], including 0-10 scale
// metrics. Downstream consumers and the risk tables were tuned against this
// behavior; do not narrow the clamp per metric.
func Forecast(metric string, points []MetricPoint, horizonDays int, confidenceLevel float64) *models.TrendForecast {
	n := len(points)
	if n < 3 || horizonDays <= 0 {
		return nil
	}

	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, p := range points {
		xs[i] = float64(p.Day)
		ys[i] = p.Value
	}

	slope, intercept := linearRegression(xs, ys)
	r2 := RSquared(xs, ys)

	// Residual standard error with n-2 degrees of freedom.
	var ssRes, sxx float64
	mx := Mean(xs)
	for i := range xs {
		pred := slope*xs[i] + intercept
		ssRes += (ys[i] - pred) * (ys[i] - pred)
		dx := xs[i] - mx
		sxx += dx * dx
	}
	se := 0.0
	if n > 2 {
		se = math.Sqrt(ssRes / float64(n-2))
	}

	tVal := tValueFor(confidenceLevel)
	last := points[n-1]

	fpoints := make([]models.ForecastPoint, 0, horizonDays)
	for i := 1; i <= horizonDays; i++ {
		x := float64(last.Day + i)
		pred := slope*x + intercept

		half := 0.0
		if sxx > 0 {
			d := x - mx
			half = tVal * se * math.Sqrt(1+1/float64(n)+d*d/sxx)
		}

		fpoints = append(fpoints, models.ForecastPoint{
			Day:       last.Day + i,
			Date:      last.Date.AddDate(0, 0, i),
			Predicted: clamp(pred, 0, 100),
			Lower:     clamp(pred-half, 0, 100),
			Upper:     clamp(pred+half, 0, 100),
		})
	}

	conf := 0.4*r2 +
		0.3*math.Min(1, float64(n)/10) +
		0.3*math.Max(0, 1-se/10)

	fc := &models.TrendForecast{
		Metric:      metric,
		HorizonDays: horizonDays,
		Points:      fpoints,
		Slope:       slope,
		Confidence: models.ConfidenceScore{
			Value:       clamp(conf, 0, 1),
			SampleCount: n,
			Method:      "ols_forecast",
		},
	}
	fc.RiskAlert = riskAlertFor(metric, last.Value, fc)
	return fc
}

// riskAlertFor applies the fixed per-metric decision table to the final
// forecast point. Delta is predicted minus the last observed value.
func riskAlertFor(metric string, lastActual float64, fc *models.TrendForecast) *models.RiskAlert {
	if len(fc.Points) == 0 {
		return nil
	}
	final := fc.Points[len(fc.Points)-1]
	predicted := final.Predicted
	delta := predicted - lastActual

	var severity models.RiskLevel
	switch metric {
	case MetricAcne, MetricRedness, MetricSensitivity:
		switch {
		case predicted >= 7 && delta >= 2:
			severity = models.RiskLevelHigh
		case predicted >= 5 && delta >= 1:
			severity = models.RiskLevelMedium
		case predicted >= 4 && delta > 0:
			severity = models.RiskLevelLow
		default:
			return nil
		}
	case MetricOverallScore:
		switch {
		case predicted < 40 && delta <= -15:
			severity = models.RiskLevelHigh
		case predicted < 50 && delta <= -10:
			severity = models.RiskLevelMedium
		case predicted < 60 && delta <= -5:
			severity = models.RiskLevelLow
		default:
			return nil
		}
	default:
		return nil
	}

	return &models.RiskAlert{
		Metric:        metric,
		Severity:      severity,
		Message:       models.RiskAlertMessage(metric, severity),
		Action:        models.RiskAlertAction(metric, severity),
		PredictedDate: final.Date,
	}
}

// PredictAcneTrend forecasts the acne series and classifies the risk from
// the predicted absolute level combined with the recent per-check-in slope
// (integer index, not calendar days).
func PredictAcneTrend(points []MetricPoint, horizonDays int) (*models.TrendForecast, models.RiskLevel) {
	fc := Forecast(MetricAcne, points, horizonDays, 0.95)
	if fc == nil {
		risk := models.RiskLevelLow
		if len(points) > 0 && points[len(points)-1].Value >= 6 {
			risk = models.RiskLevelMedium
		}
		return nil, risk
	}

	predicted := fc.Points[len(fc.Points)-1].Predicted
	lastActual := points[len(points)-1].Value
	recentSlope := Slope(pointValues(points))

	var risk models.RiskLevel
	switch {
	case predicted >= 7 && recentSlope > 0.3:
		risk = models.RiskLevelHigh
	case predicted >= 5 || (predicted >= 4 && recentSlope > 0.2):
		risk = models.RiskLevelMedium
	case lastActual >= 6:
		risk = models.RiskLevelMedium
	default:
		risk = models.RiskLevelLow
	}
	return fc, risk
}

// seasonalSensitivityAdjustment is the fixed per-season shift applied to
// sensitivity forecasts.
func seasonalSensitivityAdjustment(season models.Season) float64 {
	switch season {
	case models.SeasonSpring:
		return 0.5
	case models.SeasonSummer:
		return -0.3
	case models.SeasonAutumn:
		return 0.2
	default:
		return 0.8
	}
}

// PredictSensitivityTrend forecasts the sensitivity series and shifts every
// predicted point by the seasonal adjustment, clamped to the 0-10 scale.
func PredictSensitivityTrend(points []MetricPoint, horizonDays int, season models.Season) *models.TrendForecast {
	fc := Forecast(MetricSensitivity, points, horizonDays, 0.95)
	if fc == nil {
		return nil
	}
	adj := seasonalSensitivityAdjustment(season)
	for i := range fc.Points {
		fc.Points[i].Predicted = clamp(fc.Points[i].Predicted+adj, 0, 10)
		fc.Points[i].Lower = clamp(fc.Points[i].Lower+adj, 0, 10)
		fc.Points[i].Upper = clamp(fc.Points[i].Upper+adj, 0, 10)
	}
	last := points[len(points)-1].Value
	fc.RiskAlert = riskAlertFor(MetricSensitivity, last, fc)
	return fc
}
