// Package ingredients scores products by the known effect of the active
// ingredients their names mention. Scores are on the -1..1 scale used by
// product effectiveness analysis.
package ingredients

import (
	"context"
	"strings"
)

// effectTable maps ingredient keywords to their established effect score.
// Positive values mark actives with documented benefit, negative values
// mark common irritants.
var effectTable = map[string]float64{
	"retinol":       0.6,
	"retinoid":      0.6,
	"tretinoin":     0.7,
	"niacinamide":   0.5,
	"salicylic":     0.5,
	"benzoyl":       0.5,
	"azelaic":       0.4,
	"vitamin c":     0.4,
	"ascorbic":      0.4,
	"hyaluronic":    0.3,
	"ceramide":      0.3,
	"glycolic":      0.3,
	"lactic":        0.3,
	"panthenol":     0.2,
	"squalane":      0.2,
	"fragrance":     -0.2,
	"parfum":        -0.2,
	"alcohol denat": -0.3,
	"menthol":       -0.3,
}

// KnowledgeBase looks up ingredient effect scores by product identifier.
// The zero value is ready to use.
type KnowledgeBase struct {
	overrides map[string]float64
}

// New creates a knowledge base. overrides, keyed by lowercase product id,
// take precedence over keyword matching; pass nil for defaults only.
func New(overrides map[string]float64) *KnowledgeBase {
	return &KnowledgeBase{overrides: overrides}
}

// EffectScore returns the ingredient-history score for a product. The
// second return reports whether anything in the product id matched.
func (k *KnowledgeBase) EffectScore(_ context.Context, productID string) (float64, bool, error) {
	name := strings.ToLower(strings.TrimSpace(productID))
	if name == "" {
		return 0, false, nil
	}

	if k.overrides != nil {
		if v, ok := k.overrides[name]; ok {
			return clamp(v), true, nil
		}
	}

	// Sum matched keyword effects so a product naming both an active and
	// an irritant lands in between.
	total := 0.0
	matched := false
	for keyword, effect := range effectTable {
		if strings.Contains(name, keyword) {
			total += effect
			matched = true
		}
	}
	if !matched {
		return 0, false, nil
	}

	return clamp(total), true, nil
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
