package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dermtrack/dermtrack/internal/models"
)

type fakeIngredientHistory struct {
	scores map[string]float64
	err    error
}

func (f *fakeIngredientHistory) EffectScore(_ context.Context, productID string) (float64, bool, error) {
	if f.err != nil {
		return 0, false, f.err
	}
	v, ok := f.scores[productID]
	return v, ok, nil
}

func productCheckIn(day int, score float64, feeling *models.Feeling, products ...string) (models.CheckIn, uuid.UUID) {
	id := uuid.New()
	c := models.CheckIn{
		ID:          id,
		Day:         day,
		CaptureDate: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day),
		Products:    products,
		Feeling:     feeling,
	}
	return c, id
}

func TestEvaluateProductsRequiresTwoUsages(t *testing.T) {
	t.Parallel()

	c, id := productCheckIn(0, 60, nil, "serum-a")
	scores := map[uuid.UUID]float64{id: 60}

	got := EvaluateProducts(context.Background(), []models.CheckIn{c}, scores, nil)
	if len(got) != 0 {
		t.Errorf("insights = %v, want none for a single usage", got)
	}
}

func TestEvaluateProductsComponents(t *testing.T) {
	t.Parallel()

	better := models.FeelingBetter
	c1, id1 := productCheckIn(0, 60, &better, "serum-a")
	c2, id2 := productCheckIn(2, 70, &better, "serum-a")
	c3, id3 := productCheckIn(4, 80, &better, "serum-a")
	scores := map[uuid.UUID]float64{id1: 60, id2: 70, id3: 80}

	got := EvaluateProducts(context.Background(), []models.CheckIn{c1, c2, c3}, scores, nil)
	if len(got) != 1 {
		t.Fatalf("insights = %d, want 1", len(got))
	}
	in := got[0]
	if in.ProductID != "serum-a" {
		t.Errorf("ProductID = %q, want serum-a", in.ProductID)
	}
	// Score component: mean delta 10 / 100 = 0.1; feeling component 1.
	// 0.5*0.1 + 0.3*1 = 0.35.
	if !almostEqual(in.Effectiveness, 0.35) {
		t.Errorf("Effectiveness = %v, want 0.35", in.Effectiveness)
	}
	if in.UsageCount != 3 {
		t.Errorf("UsageCount = %d, want 3", in.UsageCount)
	}
	if !almostEqual(in.AverageIntervalDays, 2) {
		t.Errorf("AverageIntervalDays = %v, want 2", in.AverageIntervalDays)
	}
	if in.ValidationHint != "" {
		t.Errorf("ValidationHint = %q, want empty for solo use", in.ValidationHint)
	}
	if in.AttributionWeight != nil || in.SoloUsageDays != nil || in.CoUsedProductIDs != nil {
		t.Error("reserved attribution fields must stay nil")
	}
}

func TestEvaluateProductsIngredientHistory(t *testing.T) {
	t.Parallel()

	c1, id1 := productCheckIn(0, 70, nil, "serum-a")
	c2, id2 := productCheckIn(2, 70, nil, "serum-a")
	scores := map[uuid.UUID]float64{id1: 70, id2: 70}
	checkIns := []models.CheckIn{c1, c2}

	history := &fakeIngredientHistory{scores: map[string]float64{"serum-a": 1}}
	got := EvaluateProducts(context.Background(), checkIns, scores, history)
	if len(got) != 1 {
		t.Fatalf("insights = %d, want 1", len(got))
	}
	// Flat scores, no feelings: only the ingredient component contributes.
	if !almostEqual(got[0].Effectiveness, 0.2) {
		t.Errorf("Effectiveness = %v, want 0.2 from ingredient history alone", got[0].Effectiveness)
	}

	// Lookup failures degrade to a zero component, never an error.
	failing := &fakeIngredientHistory{err: errors.New("store down")}
	got = EvaluateProducts(context.Background(), checkIns, scores, failing)
	if len(got) != 1 {
		t.Fatalf("insights = %d, want 1 despite lookup failure", len(got))
	}
	if !almostEqual(got[0].Effectiveness, 0) {
		t.Errorf("Effectiveness = %v, want 0 with failed lookup", got[0].Effectiveness)
	}
}

func TestEvaluateProductsCoUsageHint(t *testing.T) {
	t.Parallel()

	c1, id1 := productCheckIn(0, 60, nil, "serum-a", "cream-b")
	c2, id2 := productCheckIn(3, 70, nil, "serum-a", "cream-b")
	scores := map[uuid.UUID]float64{id1: 60, id2: 70}

	got := EvaluateProducts(context.Background(), []models.CheckIn{c1, c2}, scores, nil)
	if len(got) != 2 {
		t.Fatalf("insights = %d, want 2", len(got))
	}
	for _, in := range got {
		if in.ValidationHint == "" {
			t.Errorf("product %s: want a solo-use validation hint under co-usage", in.ProductID)
		}
		if in.AttributionWeight != nil {
			t.Errorf("product %s: attribution weight must stay nil", in.ProductID)
		}
	}
}

func TestEvaluateProductsConfidenceTerms(t *testing.T) {
	t.Parallel()

	// 5 usages at ideal 2-day gaps with stable scores maximize every term:
	// usage 0.4 + stability ~0.3 + interval 0.3.
	var checkIns []models.CheckIn
	scores := map[uuid.UUID]float64{}
	for i := 0; i < 5; i++ {
		c, id := productCheckIn(i*2, 70, nil, "serum-a")
		checkIns = append(checkIns, c)
		scores[id] = 70
	}

	got := EvaluateProducts(context.Background(), checkIns, scores, nil)
	if len(got) != 1 {
		t.Fatalf("insights = %d, want 1", len(got))
	}
	if !almostEqual(got[0].Confidence.Value, 1.0) {
		t.Errorf("Confidence = %v, want 1.0", got[0].Confidence.Value)
	}
}
