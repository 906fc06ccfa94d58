package analytics

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dermtrack/dermtrack/internal/models"
)

// minProductUsages is the minimum check-ins marking a product used before
// an effect can be scored.
const minProductUsages = 2

// suggestedSoloUseDays is the solo-use window suggested when a product's
// effect cannot be separated from co-used products.
const suggestedSoloUseDays = 7

// ingredientLookupTimeout bounds the optional external history call.
const ingredientLookupTimeout = 3 * time.Second

// IngredientHistory is an optional read-only lookup of historical
// ingredient effectiveness for a product, on the -1..1 scale.
type IngredientHistory interface {
	EffectScore(ctx context.Context, productID string) (score float64, ok bool, err error)
}

// productUsageObs is one dated usage of a product with its overall score.
type productUsageObs struct {
	day     int
	score   float64
	feeling *models.Feeling
	coUsed  bool
}

// EvaluateProducts scores each product's effectiveness from score deltas
// across its usages, subjective feeling, and optional ingredient history.
// History may be nil; lookup failures degrade to a zero component. Output
// is sorted by effectiveness descending.
func EvaluateProducts(
	ctx context.Context,
	checkIns []models.CheckIn,
	scores map[uuid.UUID]float64,
	history IngredientHistory,
) []models.ProductEffectInsight {
	usages := map[string][]productUsageObs{}
	for _, c := range checkIns {
		score, ok := scores[c.ID]
		if !ok {
			continue
		}
		for _, pid := range c.Products {
			usages[pid] = append(usages[pid], productUsageObs{
				day:     c.Day,
				score:   score,
				feeling: c.Feeling,
				coUsed:  len(c.Products) > 1,
			})
		}
	}

	var out []models.ProductEffectInsight
	for pid, obs := range usages {
		if len(obs) < minProductUsages {
			continue
		}
		sort.Slice(obs, func(i, j int) bool { return obs[i].day < obs[j].day })

		insight := evaluateProduct(ctx, pid, obs, history)
		out = append(out, insight)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Effectiveness > out[j].Effectiveness })
	return out
}

func evaluateProduct(ctx context.Context, pid string, obs []productUsageObs, history IngredientHistory) models.ProductEffectInsight {
	n := len(obs)

	deltas := make([]float64, 0, n-1)
	gaps := make([]float64, 0, n-1)
	values := make([]float64, n)
	for i, o := range obs {
		values[i] = o.score
		if i > 0 {
			deltas = append(deltas, o.score-obs[i-1].score)
			gaps = append(gaps, float64(o.day-obs[i-1].day))
		}
	}

	scoreComponent := clamp(Mean(deltas)/100, -1, 1)

	var feelings []float64
	for _, o := range obs {
		if o.feeling != nil {
			feelings = append(feelings, o.feeling.Score())
		}
	}
	feelingComponent := Mean(feelings)

	var factors []string
	if scoreComponent > 0 {
		factors = append(factors, "overall score improved across usages")
	} else if scoreComponent < 0 {
		factors = append(factors, "overall score declined across usages")
	}
	if feelingComponent > 0 {
		factors = append(factors, "self-reported feeling trended better")
	} else if feelingComponent < 0 {
		factors = append(factors, "self-reported feeling trended worse")
	}

	ingredientComponent := 0.0
	if history != nil {
		lookupCtx, cancel := context.WithTimeout(ctx, ingredientLookupTimeout)
		if v, ok, err := history.EffectScore(lookupCtx, pid); err == nil && ok {
			ingredientComponent = clamp(v, -1, 1)
			factors = append(factors, "ingredient history considered")
		}
		cancel()
	}

	effectiveness := clamp(
		0.5*scoreComponent+0.3*feelingComponent+0.2*ingredientComponent, -1, 1)

	conf := math.Min(0.4, float64(n)/5*0.4) +
		math.Max(0, 1-StdDev(values)/20)*0.3 +
		IntervalConsistency(gaps, 1, 3)*0.3

	insight := models.ProductEffectInsight{
		ProductID:     pid,
		Effectiveness: effectiveness,
		Confidence: models.ConfidenceScore{
			Value:       clamp(conf, 0, 1),
			SampleCount: n,
			Method:      "product_effect",
		},
		ContributingFactors: factors,
		UsageCount:          n,
		AverageIntervalDays: Mean(gaps),
	}

	// Co-usage makes single-product attribution unsound; the reserved
	// attribution fields stay nil and a validation hint is surfaced.
	for _, o := range obs {
		if o.coUsed {
			insight.ValidationHint = models.SoloUseValidationHint(suggestedSoloUseDays)
			break
		}
	}
	return insight
}
