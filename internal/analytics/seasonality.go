package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/dermtrack/dermtrack/internal/models"
)

// minSeasonSamples is the minimum analyses needed before a season emits a
// pattern.
const minSeasonSamples = 2

// sensitivityProxy derives a 0-10 sensitivity estimate from an analysis:
// the redness score, +2 for a sensitive skin type, capped at 10.
func sensitivityProxy(a models.SkinAnalysis) float64 {
	s := float64(a.Issues.Redness)
	if a.SkinType == models.SkinTypeSensitive {
		s += 2
	}
	if s > 10 {
		return 10
	}
	return s
}

// AnalyzeSeasonalPatterns buckets dated analyses into the four calendar
// seasons and emits a pattern per season with enough samples. Output is
// ordered spring, summer, autumn, winter.
func AnalyzeSeasonalPatterns(history []models.DatedAnalysis) []models.SeasonalPattern {
	buckets := map[models.Season][]models.SkinAnalysis{}
	for _, d := range history {
		season := models.SeasonForMonth(d.Date.Month())
		buckets[season] = append(buckets[season], d.Analysis)
	}

	order := []models.Season{models.SeasonSpring, models.SeasonSummer, models.SeasonAutumn, models.SeasonWinter}
	var out []models.SeasonalPattern
	for _, season := range order {
		analyses := buckets[season]
		if len(analyses) < minSeasonSamples {
			continue
		}

		redness := make([]float64, len(analyses))
		sensitivity := make([]float64, len(analyses))
		for i, a := range analyses {
			redness[i] = float64(a.Issues.Redness)
			sensitivity[i] = sensitivityProxy(a)
		}

		conf := math.Min(0.6, float64(len(analyses))/5*0.6) +
			(1-Volatility(sensitivity))*0.4

		out = append(out, models.SeasonalPattern{
			Season:             season,
			AverageRedness:     Mean(redness),
			AverageSensitivity: Mean(sensitivity),
			SampleCount:        len(analyses),
			Confidence: models.ConfidenceScore{
				Value:       clamp(conf, 0, 1),
				SampleCount: len(analyses),
				Method:      "seasonal_average",
			},
		})
	}
	return out
}

// CompareSeasons summarizes the most and least sensitive seasons. Needs at
// least two patterns to compare.
func CompareSeasons(patterns []models.SeasonalPattern) *models.SeasonComparison {
	if len(patterns) < 2 {
		return nil
	}

	cmp := models.SeasonComparison{
		MostSensitiveSeason:  patterns[0].Season,
		LeastSensitiveSeason: patterns[0].Season,
		MaxRednessSeason:     patterns[0].Season,
		MaxSensitivity:       patterns[0].AverageSensitivity,
		MinSensitivity:       patterns[0].AverageSensitivity,
		MaxRedness:           patterns[0].AverageRedness,
	}
	for _, p := range patterns[1:] {
		if p.AverageSensitivity > cmp.MaxSensitivity {
			cmp.MaxSensitivity = p.AverageSensitivity
			cmp.MostSensitiveSeason = p.Season
		}
		if p.AverageSensitivity < cmp.MinSensitivity {
			cmp.MinSensitivity = p.AverageSensitivity
			cmp.LeastSensitiveSeason = p.Season
		}
		if p.AverageRedness > cmp.MaxRedness {
			cmp.MaxRedness = p.AverageRedness
			cmp.MaxRednessSeason = p.Season
		}
	}
	return &cmp
}

// SeasonalRecommendations emits canned, threshold-driven advice per
// pattern, highest sensitivity first.
func SeasonalRecommendations(patterns []models.SeasonalPattern) []string {
	sorted := make([]models.SeasonalPattern, len(patterns))
	copy(sorted, patterns)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].AverageSensitivity > sorted[j].AverageSensitivity
	})

	var out []string
	for _, p := range sorted {
		name := p.Season.DisplayName()
		switch {
		case p.AverageSensitivity >= 6:
			out = append(out, fmt.Sprintf("%s: skin runs sensitive; prioritize barrier repair and pause strong actives.", name))
		case p.AverageRedness >= 5:
			out = append(out, fmt.Sprintf("%s: redness tends to rise; favor soothing, fragrance-free products.", name))
		case p.Season == models.SeasonSummer:
			out = append(out, fmt.Sprintf("%s: keep sun protection consistent and cleanse after sweating.", name))
		case p.Season == models.SeasonWinter:
			out = append(out, fmt.Sprintf("%s: increase hydration and use a richer moisturizer.", name))
		}
	}
	return out
}
