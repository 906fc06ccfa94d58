package analytics

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/dermtrack/dermtrack/internal/models"
)

const (
	// minCorrelation is the |r| floor below which an association is noise.
	minCorrelation = 0.3
	// minFactorPairs is the minimum usable pairs before a factor is scored.
	minFactorPairs = 3
	// minPairReliability excludes pairs whose earlier check-in is too
	// untrustworthy to attribute a delta to.
	minPairReliability = 0.5
)

// factorSample is one (factor value, next-interval score delta) observation
// plus the reliability of the check-in it came from.
type factorSample struct {
	value       float64
	delta       float64
	reliability float64
}

// AnalyzeLifestyleCorrelations computes lagged rank correlations between
// each lifestyle/weather factor and the next-interval overall score delta.
// Scores and reliability are keyed by check-in id; pairing never uses the
// nominal day label. Output is sorted by |correlation| descending.
func AnalyzeLifestyleCorrelations(
	checkIns []models.CheckIn,
	scores map[uuid.UUID]float64,
	reliability map[uuid.UUID]models.ReliabilityMetadata,
) []models.LifestyleCorrelationInsight {
	sorted := make([]models.CheckIn, len(checkIns))
	copy(sorted, checkIns)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Day < sorted[j].Day })

	samples := map[models.LifestyleFactorKey][]factorSample{}
	for i := 0; i+1 < len(sorted); i++ {
		earlier, later := sorted[i], sorted[i+1]

		rel, ok := reliability[earlier.ID]
		if !ok || rel.Score < minPairReliability {
			continue
		}
		from, okFrom := scores[earlier.ID]
		to, okTo := scores[later.ID]
		if !okFrom || !okTo {
			continue
		}
		delta := to - from

		for factor, value := range factorValues(earlier) {
			samples[factor] = append(samples[factor], factorSample{
				value:       value,
				delta:       delta,
				reliability: rel.Score,
			})
		}
	}

	var out []models.LifestyleCorrelationInsight
	for factor, obs := range samples {
		if len(obs) < minFactorPairs {
			continue
		}
		xs := make([]float64, len(obs))
		ys := make([]float64, len(obs))
		rels := make([]float64, len(obs))
		for i, o := range obs {
			xs[i], ys[i], rels[i] = o.value, o.delta, o.reliability
		}

		r := SpearmanCorrelation(xs, ys)
		if math.Abs(r) < minCorrelation {
			continue
		}

		direction := models.DirectionPositive
		if r < 0 {
			direction = models.DirectionNegative
		}
		// Higher UV and worse air quality are intrinsically harmful, so
		// their direction semantics invert.
		if factor == models.FactorUVIndex || factor == models.FactorAirQuality {
			if direction == models.DirectionPositive {
				direction = models.DirectionNegative
			} else {
				direction = models.DirectionPositive
			}
		}

		conf := 0.7*math.Min(1, float64(len(obs))/8) + 0.3*Mean(rels)
		out = append(out, models.LifestyleCorrelationInsight{
			Factor:       factor,
			TargetMetric: MetricOverallScore,
			Correlation:  r,
			Direction:    direction,
			SampleCount:  len(obs),
			Confidence: models.ConfidenceScore{
				Value:       clamp(conf, 0, 1),
				SampleCount: len(obs),
				Method:      "lagged_spearman",
			},
			Interpretation: models.CorrelationInterpretation(factor, direction),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return math.Abs(out[i].Correlation) > math.Abs(out[j].Correlation)
	})
	return out
}

// factorValues extracts the present factor values from a check-in. Missing
// factors are simply absent, never zero.
func factorValues(c models.CheckIn) map[models.LifestyleFactorKey]float64 {
	out := map[models.LifestyleFactorKey]float64{}
	if lf := c.Lifestyle; lf != nil {
		if lf.SleepHours != nil {
			out[models.FactorSleepHours] = *lf.SleepHours
		}
		if lf.StressLevel != nil {
			out[models.FactorStressLevel] = float64(*lf.StressLevel)
		}
		if lf.WaterIntake != nil {
			out[models.FactorWaterIntake] = float64(*lf.WaterIntake)
		}
		if lf.AlcoholConsumed != nil {
			v := 0.0
			if *lf.AlcoholConsumed {
				v = 1.0
			}
			out[models.FactorAlcohol] = v
		}
		if lf.ExerciseMinutes != nil {
			out[models.FactorExerciseMinutes] = float64(*lf.ExerciseMinutes)
		}
		if lf.SunExposure != nil {
			out[models.FactorSunExposure] = float64(*lf.SunExposure)
		}
	}
	if w := c.Weather; w != nil {
		out[models.FactorHumidity] = w.Humidity
		out[models.FactorUVIndex] = float64(w.UVIndex)
		out[models.FactorAirQuality] = float64(w.AirQuality)
	}
	return out
}
