package analytics

import (
	"testing"

	"github.com/dermtrack/dermtrack/internal/models"
)

func TestForecastRequiresThreePoints(t *testing.T) {
	t.Parallel()

	pts := seriesPoints([]int{0, 7}, []float64{60, 70})
	if got := Forecast(MetricOverallScore, pts, 7, 0.95); got != nil {
		t.Errorf("Forecast(2 points) = %v, want nil", got)
	}
}

func TestForecastLinearSeries(t *testing.T) {
	t.Parallel()

	// Perfectly linear: overall = 60 + day.
	pts := seriesPoints([]int{0, 7, 14, 21}, []float64{60, 67, 74, 81})
	fc := Forecast(MetricOverallScore, pts, 7, 0.95)
	if fc == nil {
		t.Fatal("Forecast = nil")
	}
	if len(fc.Points) != 7 {
		t.Fatalf("points = %d, want 7", len(fc.Points))
	}
	if !almostEqual(fc.Slope, 1) {
		t.Errorf("Slope = %v, want 1", fc.Slope)
	}

	last := fc.Points[6]
	if last.Day != 28 {
		t.Errorf("last day = %d, want 28", last.Day)
	}
	if !almostEqual(last.Predicted, 88) {
		t.Errorf("last predicted = %v, want 88", last.Predicted)
	}
	// Zero residuals collapse the interval onto the prediction.
	if !almostEqual(last.Lower, 88) || !almostEqual(last.Upper, 88) {
		t.Errorf("interval = [%v, %v], want [88, 88]", last.Lower, last.Upper)
	}
	// R² = 1, size term 0.3·(4/10), error term 0.3.
	if !almostEqual(fc.Confidence.Value, 0.4+0.12+0.3) {
		t.Errorf("confidence = %v, want 0.82", fc.Confidence.Value)
	}
}

func TestForecastClampIgnoresMetricScale(t *testing.T) {
	t.Parallel()

	// Acne is a 0-10 metric, but predictions only clamp at the percentage
	// bounds: a rising series extrapolates past 10 without being capped.
	pts := seriesPoints([]int{0, 7, 14, 21, 28}, []float64{2, 4, 6, 8, 10})
	fc := Forecast(MetricAcne, pts, 7, 0.95)
	if fc == nil {
		t.Fatal("Forecast = nil")
	}
	last := fc.Points[len(fc.Points)-1]
	if last.Predicted <= 10 {
		t.Errorf("predicted = %v, expected the 0-100 clamp to let a 0-10 metric exceed 10", last.Predicted)
	}
	if last.Predicted > 100 {
		t.Errorf("predicted = %v, must not exceed the 0-100 clamp", last.Predicted)
	}
}

func TestForecastClampFloor(t *testing.T) {
	t.Parallel()

	pts := seriesPoints([]int{0, 7, 14, 21}, []float64{30, 20, 10, 0})
	fc := Forecast(MetricOverallScore, pts, 7, 0.95)
	if fc == nil {
		t.Fatal("Forecast = nil")
	}
	for _, p := range fc.Points {
		if p.Predicted < 0 || p.Lower < 0 {
			t.Errorf("day %d predicted %v lower %v, want floor 0", p.Day, p.Predicted, p.Lower)
		}
	}
}

func TestPredictAcneTrendRisingHighRisk(t *testing.T) {
	t.Parallel()

	pts := seriesPoints([]int{0, 7, 14, 21, 28}, []float64{2, 3, 3, 8, 9})
	fc, risk := PredictAcneTrend(pts, 7)
	if fc == nil {
		t.Fatal("forecast = nil")
	}

	last := fc.Points[len(fc.Points)-1].Predicted
	if last <= 9 {
		t.Errorf("last predicted = %v, want continuation above the last actual 9", last)
	}
	if risk != models.RiskLevelHigh {
		t.Errorf("risk = %v, want high", risk)
	}
}

func TestPredictAcneTrendStableLowRisk(t *testing.T) {
	t.Parallel()

	pts := seriesPoints([]int{0, 7, 14, 21, 28}, []float64{2, 2, 3, 2, 2})
	_, risk := PredictAcneTrend(pts, 7)
	if risk != models.RiskLevelLow {
		t.Errorf("risk = %v, want low", risk)
	}
}

func TestRiskAlertOverallScoreDecline(t *testing.T) {
	t.Parallel()

	// Slope -3/day: day-28 prediction 16, delta -21 from the last actual.
	pts := seriesPoints([]int{0, 7, 14, 21}, []float64{100, 79, 58, 37})
	fc := Forecast(MetricOverallScore, pts, 7, 0.95)
	if fc == nil {
		t.Fatal("Forecast = nil")
	}
	if fc.RiskAlert == nil {
		t.Fatal("RiskAlert = nil, want alert for a steep decline")
	}
	if fc.RiskAlert.Severity != models.RiskLevelHigh {
		t.Errorf("severity = %v, want high", fc.RiskAlert.Severity)
	}
	if fc.RiskAlert.Message == "" || fc.RiskAlert.Action == "" {
		t.Error("alert must carry message and action text")
	}
}

func TestRiskAlertAbsentForStableSeries(t *testing.T) {
	t.Parallel()

	pts := seriesPoints([]int{0, 7, 14, 21}, []float64{80, 81, 80, 82})
	fc := Forecast(MetricOverallScore, pts, 7, 0.95)
	if fc == nil {
		t.Fatal("Forecast = nil")
	}
	if fc.RiskAlert != nil {
		t.Errorf("RiskAlert = %v, want nil for a stable high score", fc.RiskAlert)
	}
}

func TestPredictSensitivityTrendSeasonalAdjustment(t *testing.T) {
	t.Parallel()

	pts := seriesPoints([]int{0, 7, 14, 21}, []float64{4, 4, 4, 4})

	winter := PredictSensitivityTrend(pts, 7, models.SeasonWinter)
	summer := PredictSensitivityTrend(pts, 7, models.SeasonSummer)
	if winter == nil || summer == nil {
		t.Fatal("forecast = nil")
	}

	w := winter.Points[0].Predicted
	s := summer.Points[0].Predicted
	if !almostEqual(w, 4.8) {
		t.Errorf("winter predicted = %v, want 4.8", w)
	}
	if !almostEqual(s, 3.7) {
		t.Errorf("summer predicted = %v, want 3.7", s)
	}
}

func TestPredictSensitivityTrendClampsToTen(t *testing.T) {
	t.Parallel()

	pts := seriesPoints([]int{0, 7, 14, 21}, []float64{7, 8, 9, 10})
	fc := PredictSensitivityTrend(pts, 7, models.SeasonWinter)
	if fc == nil {
		t.Fatal("forecast = nil")
	}
	for _, p := range fc.Points {
		if p.Predicted > 10 || p.Upper > 10 {
			t.Errorf("day %d predicted %v upper %v, want cap 10", p.Day, p.Predicted, p.Upper)
		}
	}
}

func TestTValueBuckets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level float64
		want  float64
	}{
		{0.99, 2.0},
		{0.95, 2.0},
		{0.94, 1.7},
		{0.90, 1.7},
		{0.89, 1.5},
		{0.5, 1.5},
	}
	for _, tt := range tests {
		if got := tValueFor(tt.level); got != tt.want {
			t.Errorf("tValueFor(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}
