package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dermtrack/dermtrack/internal/models"
)

func goodPhoto() *models.PhotoConditions {
	return &models.PhotoConditions{
		CameraPosition: models.CameraPositionFront,
		CaptureSource:  models.CaptureSourceCamera,
		Lighting:       models.LightingOptimal,
		FaceDetected:   true,
		Distance:       models.DistanceOptimal,
		Centering:      models.CenteringOptimal,
		Sharpness:      models.SharpnessSharp,
	}
}

func confidentAnalysis() *models.SkinAnalysis {
	return &models.SkinAnalysis{ConfidenceScore: 90}
}

func TestExpectedDay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		day  int
		want int
	}{
		{0, 0},
		{3, 0},
		{4, 7},
		{7, 7},
		{10, 7},
		{11, 14},
		{17, 14},
		{18, 21},
		{25, 28},
		{40, 28},
		{-2, 0},
	}
	for _, tt := range tests {
		if got := ExpectedDay(tt.day); got != tt.want {
			t.Errorf("ExpectedDay(%d) = %d, want %d", tt.day, got, tt.want)
		}
	}
}

func TestScoreCheckInPerfectCapture(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	c := models.CheckIn{
		ID:              uuid.New(),
		Day:             7,
		CaptureDate:     start.AddDate(0, 0, 7),
		PhotoConditions: goodPhoto(),
	}

	got := ScoreCheckIn(c, confidentAnalysis(), start, models.CameraPositionFront)
	if got.Score != 1.0 {
		t.Errorf("Score = %v, want 1.0 with no penalties", got.Score)
	}
	if got.Level != models.ReliabilityHigh {
		t.Errorf("Level = %v, want high", got.Level)
	}
	if len(got.Reasons) != 0 {
		t.Errorf("Reasons = %v, want none", got.Reasons)
	}
}

func TestScoreCheckInMissingStandardization(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	c := models.CheckIn{
		ID:          uuid.New(),
		Day:         7,
		CaptureDate: start.AddDate(0, 0, 7),
	}

	got := ScoreCheckIn(c, confidentAnalysis(), start, models.CameraPositionFront)
	if got.Score > 0.70 {
		t.Errorf("Score = %v, want <= 0.70 without photo metadata", got.Score)
	}
	found := false
	for _, r := range got.Reasons {
		if r == models.ReasonMissingStandardization {
			found = true
		}
	}
	if !found {
		t.Errorf("Reasons = %v, want missing standardization tag", got.Reasons)
	}
}

func TestScoreCheckInPenaltyStack(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	pc := goodPhoto()
	pc.Lighting = models.LightingTooDark        // -0.25
	pc.Sharpness = models.SharpnessBlurry       // -0.20
	pc.CaptureSource = models.CaptureSourceLibrary // -0.15

	c := models.CheckIn{
		ID:              uuid.New(),
		Day:             7,
		CaptureDate:     start.AddDate(0, 0, 7),
		PhotoConditions: pc,
	}

	got := ScoreCheckIn(c, confidentAnalysis(), start, models.CameraPositionFront)
	if !almostEqual(got.Score, 0.40) {
		t.Errorf("Score = %v, want 0.40", got.Score)
	}
	if got.Level != models.ReliabilityMedium {
		t.Errorf("Level = %v, want medium at exactly 0.40", got.Level)
	}
}

func TestScoreCheckInClampedAtZero(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	pc := &models.PhotoConditions{
		CameraPosition: models.CameraPositionBack,
		CaptureSource:  models.CaptureSourceLibrary,
		Lighting:       models.LightingTooDark,
		FaceDetected:   false,
		YawDegrees:     35,
		Distance:       models.DistanceTooFar,
		Centering:      models.CenteringTooLeft,
		Sharpness:      models.SharpnessBlurry,
	}
	flagged := models.UserFlaggedIssue
	pc.UserOverride = &flagged

	c := models.CheckIn{
		ID:              uuid.New(),
		Day:             7,
		CaptureDate:     start.AddDate(0, 0, 12), // 2 days from the nearest checkpoint
		PhotoConditions: pc,
	}
	analysis := &models.SkinAnalysis{ConfidenceScore: 30}

	got := ScoreCheckIn(c, analysis, start, models.CameraPositionFront)
	if got.Score != 0 {
		t.Errorf("Score = %v, want clamped to 0", got.Score)
	}
	if got.Level != models.ReliabilityLow {
		t.Errorf("Level = %v, want low", got.Level)
	}
}

func TestScoreCheckInAnalysisConfidenceBands(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	c := models.CheckIn{
		ID:              uuid.New(),
		Day:             0,
		CaptureDate:     start,
		PhotoConditions: goodPhoto(),
	}

	tests := []struct {
		confidence int
		want       float64
	}{
		{90, 1.0},
		{69, 0.90},
		{49, 0.80},
	}
	for _, tt := range tests {
		a := &models.SkinAnalysis{ConfidenceScore: tt.confidence}
		got := ScoreCheckIn(c, a, start, models.CameraPositionFront)
		if !almostEqual(got.Score, tt.want) {
			t.Errorf("confidence %d: Score = %v, want %v", tt.confidence, got.Score, tt.want)
		}
	}
}

func TestScoreCheckInScheduleDrift(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		elapsedDays int
		want        float64
	}{
		{"on schedule", 7, 1.0},
		{"two days off", 9, 0.95},
		{"five days past the last checkpoint", 33, 0.90},
	}
	for _, tt := range tests {
		c := models.CheckIn{
			ID:              uuid.New(),
			Day:             7,
			CaptureDate:     start.AddDate(0, 0, tt.elapsedDays),
			PhotoConditions: goodPhoto(),
		}
		got := ScoreCheckIn(c, confidentAnalysis(), start, models.CameraPositionFront)
		if !almostEqual(got.Score, tt.want) {
			t.Errorf("%s: Score = %v, want %v", tt.name, got.Score, tt.want)
		}
	}
}

func TestScoreSessionFlagsInconsistentCamera(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	s := models.TrackingSession{ID: uuid.New(), StartDate: start}

	for i, pos := range []models.CameraPosition{
		models.CameraPositionFront,
		models.CameraPositionFront,
		models.CameraPositionBack,
	} {
		pc := goodPhoto()
		pc.CameraPosition = pos
		s.AddCheckIn(models.CheckIn{
			ID:              uuid.New(),
			Day:             i * 7,
			CaptureDate:     start.AddDate(0, 0, i*7),
			PhotoConditions: pc,
		})
	}

	got := ScoreSession(s, nil)
	if len(got) != 3 {
		t.Fatalf("scored %d check-ins, want 3", len(got))
	}

	deviant := got[s.CheckIns[2].ID]
	if !almostEqual(deviant.Score, 0.90) {
		t.Errorf("deviant Score = %v, want 0.90", deviant.Score)
	}
	hasReason := false
	for _, r := range deviant.Reasons {
		if r == models.ReasonInconsistentCamera {
			hasReason = true
		}
	}
	if !hasReason {
		t.Errorf("Reasons = %v, want inconsistent camera tag", deviant.Reasons)
	}

	for _, id := range []uuid.UUID{s.CheckIns[0].ID, s.CheckIns[1].ID} {
		if got[id].Score != 1.0 {
			t.Errorf("consistent check-in Score = %v, want 1.0", got[id].Score)
		}
	}
}

func TestScoreBoundsAndLevels(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	variants := []models.CheckIn{
		{ID: uuid.New(), Day: 0, CaptureDate: start},
		{ID: uuid.New(), Day: 7, CaptureDate: start.AddDate(0, 0, 9), PhotoConditions: goodPhoto()},
		{ID: uuid.New(), Day: 14, CaptureDate: start.AddDate(0, 0, 14), PhotoConditions: func() *models.PhotoConditions {
			pc := goodPhoto()
			pc.Sharpness = models.SharpnessBlurry
			pc.FaceDetected = false
			return pc
		}()},
	}

	for _, c := range variants {
		got := ScoreCheckIn(c, nil, start, models.CameraPositionFront)
		if got.Score < 0 || got.Score > 1 {
			t.Errorf("Score = %v, out of [0,1]", got.Score)
		}
		if got.Level != models.ReliabilityLevelFor(got.Score) {
			t.Errorf("Level = %v, inconsistent with score %v", got.Level, got.Score)
		}
	}
}
