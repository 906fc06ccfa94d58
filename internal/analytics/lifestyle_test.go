package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dermtrack/dermtrack/internal/models"
)

func reliableMeta(score float64) *models.ReliabilityMetadata {
	return &models.ReliabilityMetadata{Score: score, Level: models.ReliabilityLevelFor(score)}
}

// lifestyleFixture builds a run of check-ins where more sleep precedes a
// larger next-interval score gain.
func lifestyleFixture() ([]models.CheckIn, map[uuid.UUID]float64, map[uuid.UUID]models.ReliabilityMetadata) {
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	sleeps := []float64{5, 8, 6, 9, 7, 4}
	// Next-interval deltas track sleep: more sleep, bigger gain.
	scoreVals := []float64{60, 61, 66, 68, 76, 79}

	checkIns := make([]models.CheckIn, len(sleeps))
	scores := map[uuid.UUID]float64{}
	reliability := map[uuid.UUID]models.ReliabilityMetadata{}
	for i := range sleeps {
		sleep := sleeps[i]
		c := models.CheckIn{
			ID:          uuid.New(),
			Day:         i * 4,
			CaptureDate: start.AddDate(0, 0, i*4),
			Lifestyle:   &models.LifestyleFactors{SleepHours: &sleep},
		}
		checkIns[i] = c
		scores[c.ID] = scoreVals[i]
		reliability[c.ID] = *reliableMeta(0.9)
	}
	return checkIns, scores, reliability
}

func TestAnalyzeLifestyleCorrelationsSleep(t *testing.T) {
	t.Parallel()

	checkIns, scores, reliability := lifestyleFixture()
	got := AnalyzeLifestyleCorrelations(checkIns, scores, reliability)

	if len(got) != 1 {
		t.Fatalf("insights = %d, want 1", len(got))
	}
	in := got[0]
	if in.Factor != models.FactorSleepHours {
		t.Errorf("Factor = %v, want sleep", in.Factor)
	}
	if in.Correlation < minCorrelation {
		t.Errorf("Correlation = %v, want >= %v", in.Correlation, minCorrelation)
	}
	if in.Direction != models.DirectionPositive {
		t.Errorf("Direction = %v, want positive", in.Direction)
	}
	if in.SampleCount != 5 {
		t.Errorf("SampleCount = %d, want 5 consecutive pairs", in.SampleCount)
	}
	if in.Interpretation == "" {
		t.Error("Interpretation must carry the non-causal text")
	}

	// Confidence = 0.7*(5/8) + 0.3*0.9
	want := 0.7*5.0/8 + 0.3*0.9
	if !almostEqual(in.Confidence.Value, want) {
		t.Errorf("Confidence = %v, want %v", in.Confidence.Value, want)
	}
}

func TestAnalyzeLifestyleCorrelationsExcludesUnreliablePairs(t *testing.T) {
	t.Parallel()

	checkIns, scores, reliability := lifestyleFixture()
	// Drop every earlier check-in below the reliability floor.
	for _, c := range checkIns {
		reliability[c.ID] = *reliableMeta(0.3)
	}

	if got := AnalyzeLifestyleCorrelations(checkIns, scores, reliability); len(got) != 0 {
		t.Errorf("insights = %v, want none with unreliable pairs", got)
	}
}

func TestAnalyzeLifestyleCorrelationsWeakCorrelationDiscarded(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	// Constant sleep has no spread, so the rank correlation is 0.
	sleeps := []float64{7, 7, 7, 7, 7, 7}
	scoreVals := []float64{60, 65, 61, 66, 62, 67}

	checkIns := make([]models.CheckIn, len(sleeps))
	scores := map[uuid.UUID]float64{}
	reliability := map[uuid.UUID]models.ReliabilityMetadata{}
	for i := range sleeps {
		sleep := sleeps[i]
		c := models.CheckIn{
			ID:          uuid.New(),
			Day:         i * 4,
			CaptureDate: start.AddDate(0, 0, i*4),
			Lifestyle:   &models.LifestyleFactors{SleepHours: &sleep},
		}
		checkIns[i] = c
		scores[c.ID] = scoreVals[i]
		reliability[c.ID] = *reliableMeta(0.9)
	}

	if got := AnalyzeLifestyleCorrelations(checkIns, scores, reliability); len(got) != 0 {
		t.Errorf("insights = %v, want none below the correlation floor", got)
	}
}

func TestAnalyzeLifestyleCorrelationsUVInvertsDirection(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	uvs := []int{2, 9, 3, 10, 4, 8}
	// Higher UV precedes a score drop: raw correlation is negative.
	scoreVals := []float64{70, 71, 61, 63, 52, 54}

	checkIns := make([]models.CheckIn, len(uvs))
	scores := map[uuid.UUID]float64{}
	reliability := map[uuid.UUID]models.ReliabilityMetadata{}
	for i := range uvs {
		c := models.CheckIn{
			ID:          uuid.New(),
			Day:         i * 4,
			CaptureDate: start.AddDate(0, 0, i*4),
			Weather: &models.WeatherSnapshot{
				UVIndex:    uvs[i],
				Humidity:   50,
				AirQuality: models.AQIGood,
			},
		}
		checkIns[i] = c
		scores[c.ID] = scoreVals[i]
		reliability[c.ID] = *reliableMeta(0.9)
	}

	got := AnalyzeLifestyleCorrelations(checkIns, scores, reliability)
	var uv *models.LifestyleCorrelationInsight
	for i := range got {
		if got[i].Factor == models.FactorUVIndex {
			uv = &got[i]
		}
	}
	if uv == nil {
		t.Fatalf("no UV insight in %v", got)
	}
	if uv.Correlation >= 0 {
		t.Errorf("Correlation = %v, want negative raw correlation", uv.Correlation)
	}
	if uv.Direction != models.DirectionPositive {
		t.Errorf("Direction = %v, want inverted to positive for UV", uv.Direction)
	}
}

func TestAnalyzeLifestyleCorrelationsMissingFactorsExcluded(t *testing.T) {
	t.Parallel()

	checkIns, scores, reliability := lifestyleFixture()
	// Strip lifestyle data from all but two check-ins: below the pair floor.
	for i := 2; i < len(checkIns); i++ {
		checkIns[i].Lifestyle = nil
	}

	if got := AnalyzeLifestyleCorrelations(checkIns, scores, reliability); len(got) != 0 {
		t.Errorf("insights = %v, want none with too few factor pairs", got)
	}
}

func TestInsightsSortedByAbsoluteCorrelation(t *testing.T) {
	t.Parallel()

	checkIns, scores, reliability := lifestyleFixture()
	// Add stress values inversely tracking the deltas so two factors emit.
	stresses := []int{5, 1, 4, 1, 3, 5}
	for i := range checkIns {
		s := stresses[i]
		checkIns[i].Lifestyle.StressLevel = &s
	}

	got := AnalyzeLifestyleCorrelations(checkIns, scores, reliability)
	for i := 1; i < len(got); i++ {
		if math.Abs(got[i-1].Correlation) < math.Abs(got[i].Correlation) {
			t.Errorf("insights not sorted by |correlation|: %v before %v",
				got[i-1].Correlation, got[i].Correlation)
		}
	}
}
