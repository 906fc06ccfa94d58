package analytics

import (
	"testing"
	"time"

	"github.com/dermtrack/dermtrack/internal/models"
)

func seriesPoints(days []int, values []float64) []MetricPoint {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	out := make([]MetricPoint, len(values))
	for i := range values {
		out[i] = MetricPoint{Day: days[i], Date: base.AddDate(0, 0, days[i]), Value: values[i]}
	}
	return out
}

func TestDetectAnomaliesMADSpike(t *testing.T) {
	t.Parallel()

	pts := seriesPoints([]int{0, 7, 14, 21, 28}, []float64{70, 72, 71, 95, 73})
	got := DetectAnomalies("overall_score", pts, models.AnomalyMethodMAD, 2.5)

	var spike *models.AnomalyDetectionResult
	for i := range got {
		if got[i].Day == 21 {
			spike = &got[i]
		}
	}
	if spike == nil {
		t.Fatalf("day 21 spike not flagged, got %v", got)
	}
	if spike.Value != 95 {
		t.Errorf("flagged value = %v, want 95", spike.Value)
	}
	if spike.Severity != models.AnomalySeverityModerate && spike.Severity != models.AnomalySeveritySevere {
		t.Errorf("severity = %v, want moderate or severe", spike.Severity)
	}
}

func TestDetectAnomaliesZeroSpreadShortCircuits(t *testing.T) {
	t.Parallel()

	flat := seriesPoints([]int{0, 7, 14, 21}, []float64{70, 70, 70, 70})
	for _, method := range []models.AnomalyMethod{models.AnomalyMethodZScore, models.AnomalyMethodMAD, models.AnomalyMethodIQR} {
		if got := DetectAnomalies("overall_score", flat, method, 2.5); got != nil {
			t.Errorf("method %v on flat series = %v, want nil", method, got)
		}
	}

	// MAD can be zero while the values still vary.
	mostlyFlat := seriesPoints([]int{0, 7, 14, 21, 28}, []float64{70, 70, 70, 70, 95})
	if got := DetectAnomalies("overall_score", mostlyFlat, models.AnomalyMethodMAD, 2.5); got != nil {
		t.Errorf("zero MAD series = %v, want nil", got)
	}
}

func TestDetectAnomaliesRequiresThreePoints(t *testing.T) {
	t.Parallel()

	pts := seriesPoints([]int{0, 7}, []float64{70, 95})
	if got := DetectAnomalies("overall_score", pts, models.AnomalyMethodMAD, 2.5); got != nil {
		t.Errorf("two points = %v, want nil", got)
	}
}

func TestDetectAnomaliesIQR(t *testing.T) {
	t.Parallel()

	pts := seriesPoints(
		[]int{0, 3, 6, 9, 12, 15, 18, 21},
		[]float64{70, 71, 72, 73, 74, 75, 76, 200},
	)
	got := DetectAnomalies("overall_score", pts, models.AnomalyMethodIQR, 0)
	if len(got) != 1 {
		t.Fatalf("anomalies = %d, want 1", len(got))
	}
	if got[0].Value != 200 {
		t.Errorf("flagged value = %v, want 200", got[0].Value)
	}
	if got[0].Severity != models.AnomalySeveritySevere {
		t.Errorf("severity = %v, want severe beyond the extreme fence", got[0].Severity)
	}
}

func TestDetectJumps(t *testing.T) {
	t.Parallel()

	// Eleven +1 deltas then one +50 jump.
	days := make([]int, 13)
	values := make([]float64, 13)
	for i := 0; i < 12; i++ {
		days[i] = i * 2
		values[i] = 60 + float64(i)
	}
	days[12] = 24
	values[12] = values[11] + 50

	got := DetectJumps("overall_score", seriesPoints(days, values))
	if len(got) != 1 {
		t.Fatalf("jumps = %d, want 1", len(got))
	}
	if got[0].Day != 24 {
		t.Errorf("jump at day %d, want 24", got[0].Day)
	}
	if got[0].Severity != models.AnomalySeverityModerate {
		t.Errorf("severity = %v, want moderate", got[0].Severity)
	}
}

func TestDetectJumpsFlatDeltas(t *testing.T) {
	t.Parallel()

	pts := seriesPoints([]int{0, 7, 14, 21}, []float64{60, 65, 70, 75})
	if got := DetectJumps("overall_score", pts); got != nil {
		t.Errorf("constant deltas = %v, want nil", got)
	}
}

func TestAssessDataQuality(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		values    []float64
		wantScore float64
		wantLabel string
	}{
		{
			// size 5/20*0.5 = 0.125; cv ~ 0.014 -> 0.5
			name:      "small stable series",
			values:    []float64{70, 71, 70, 72, 71},
			wantScore: 0.625,
			wantLabel: "good",
		},
		{
			// size capped at 0.5; cv < 0.1 -> 0.5
			name: "large stable series",
			values: []float64{70, 71, 70, 72, 71, 70, 71, 72, 70, 71,
				70, 71, 70, 72, 71, 70, 71, 72, 70, 71},
			wantScore: 1.0,
			wantLabel: "excellent",
		},
		{
			// size 0; cv defaults to worst band
			name:      "empty",
			values:    nil,
			wantScore: 0.2,
			wantLabel: "limited",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := AssessDataQuality(tt.values)
			if !almostEqual(got.Score, tt.wantScore) {
				t.Errorf("Score = %v, want %v", got.Score, tt.wantScore)
			}
			if got.Label != tt.wantLabel {
				t.Errorf("Label = %q, want %q", got.Label, tt.wantLabel)
			}
		})
	}
}
