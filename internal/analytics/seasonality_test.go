package analytics

import (
	"testing"
	"time"

	"github.com/dermtrack/dermtrack/internal/models"
)

func datedAnalysis(month time.Month, redness int, skinType models.SkinType) models.DatedAnalysis {
	return models.DatedAnalysis{
		Analysis: models.SkinAnalysis{
			SkinType: skinType,
			Issues:   models.IssueScores{Redness: redness},
		},
		Date: time.Date(2026, month, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestSensitivityProxy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		redness  int
		skinType models.SkinType
		want     float64
	}{
		{4, models.SkinTypeOily, 4},
		{4, models.SkinTypeSensitive, 6},
		{9, models.SkinTypeSensitive, 10}, // capped
		{10, models.SkinTypeDry, 10},
	}
	for _, tt := range tests {
		a := models.SkinAnalysis{SkinType: tt.skinType, Issues: models.IssueScores{Redness: tt.redness}}
		if got := sensitivityProxy(a); got != tt.want {
			t.Errorf("sensitivityProxy(redness=%d, %s) = %v, want %v", tt.redness, tt.skinType, got, tt.want)
		}
	}
}

func TestAnalyzeSeasonalPatternsRequiresTwoSamples(t *testing.T) {
	t.Parallel()

	history := []models.DatedAnalysis{
		datedAnalysis(time.July, 5, models.SkinTypeOily),
		datedAnalysis(time.August, 7, models.SkinTypeOily),
		datedAnalysis(time.January, 3, models.SkinTypeOily), // lone winter sample
	}

	got := AnalyzeSeasonalPatterns(history)
	if len(got) != 1 {
		t.Fatalf("patterns = %d, want 1", len(got))
	}
	p := got[0]
	if p.Season != models.SeasonSummer {
		t.Errorf("Season = %v, want summer", p.Season)
	}
	if !almostEqual(p.AverageRedness, 6) {
		t.Errorf("AverageRedness = %v, want 6", p.AverageRedness)
	}
	if p.SampleCount != 2 {
		t.Errorf("SampleCount = %d, want 2", p.SampleCount)
	}
	if p.Confidence.Value <= 0 || p.Confidence.Value > 1 {
		t.Errorf("Confidence = %v, out of (0,1]", p.Confidence.Value)
	}
}

func TestAnalyzeSeasonalPatternsSensitiveSkin(t *testing.T) {
	t.Parallel()

	history := []models.DatedAnalysis{
		datedAnalysis(time.March, 5, models.SkinTypeSensitive),
		datedAnalysis(time.April, 5, models.SkinTypeSensitive),
	}
	got := AnalyzeSeasonalPatterns(history)
	if len(got) != 1 {
		t.Fatalf("patterns = %d, want 1", len(got))
	}
	if !almostEqual(got[0].AverageSensitivity, 7) {
		t.Errorf("AverageSensitivity = %v, want redness+2 = 7", got[0].AverageSensitivity)
	}
}

func TestCompareSeasons(t *testing.T) {
	t.Parallel()

	patterns := []models.SeasonalPattern{
		{Season: models.SeasonSummer, AverageSensitivity: 3, AverageRedness: 6},
		{Season: models.SeasonWinter, AverageSensitivity: 8, AverageRedness: 5},
		{Season: models.SeasonSpring, AverageSensitivity: 5, AverageRedness: 4},
	}

	cmp := CompareSeasons(patterns)
	if cmp == nil {
		t.Fatal("CompareSeasons = nil")
	}
	if cmp.MostSensitiveSeason != models.SeasonWinter {
		t.Errorf("MostSensitiveSeason = %v, want winter", cmp.MostSensitiveSeason)
	}
	if cmp.LeastSensitiveSeason != models.SeasonSummer {
		t.Errorf("LeastSensitiveSeason = %v, want summer", cmp.LeastSensitiveSeason)
	}
	if cmp.MaxRednessSeason != models.SeasonSummer {
		t.Errorf("MaxRednessSeason = %v, want summer", cmp.MaxRednessSeason)
	}

	if got := CompareSeasons(patterns[:1]); got != nil {
		t.Errorf("CompareSeasons(single) = %v, want nil", got)
	}
}

func TestSeasonalRecommendationsThresholds(t *testing.T) {
	t.Parallel()

	patterns := []models.SeasonalPattern{
		{Season: models.SeasonWinter, AverageSensitivity: 7, AverageRedness: 3},
		{Season: models.SeasonSummer, AverageSensitivity: 2, AverageRedness: 2},
	}

	got := SeasonalRecommendations(patterns)
	if len(got) != 2 {
		t.Fatalf("recommendations = %v, want 2 entries", got)
	}
	// Sorted by sensitivity: winter's barrier advice first, then the
	// summer default.
	if want := "Winter"; len(got[0]) < len(want) || got[0][:len(want)] != want {
		t.Errorf("first recommendation = %q, want winter first", got[0])
	}
}
