package analytics

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/dermtrack/dermtrack/internal/models"
)

// Face-angle degrees beyond which the photo counts as off-angle.
const (
	angleSevereDegrees = 20.0
	angleMildDegrees   = 10.0
)

// ExpectedDay snaps an arbitrary day to the nearest scheduled checkpoint.
// Equidistant days resolve to the earlier checkpoint.
func ExpectedDay(day int) int {
	best := models.CheckInDays[0]
	bestDist := math.Abs(float64(day - best))
	for _, d := range models.CheckInDays[1:] {
		if dist := math.Abs(float64(day - d)); dist < bestDist {
			best, bestDist = d, dist
		}
	}
	return best
}

// ScoreCheckIn computes a check-in's reliability with the additive penalty
// model. Missing standardization metadata takes a single -0.30 penalty in
// place of all finer-grained photo penalties.
func ScoreCheckIn(c models.CheckIn, analysis *models.SkinAnalysis, sessionStart time.Time, sessionCamera models.CameraPosition) models.ReliabilityMetadata {
	score := 1.0
	var reasons []models.ReliabilityReason

	if c.PhotoConditions == nil {
		score -= 0.30
		reasons = append(reasons, models.ReasonMissingStandardization)
	} else {
		pc := c.PhotoConditions

		switch pc.Lighting {
		case models.LightingTooDark:
			score -= 0.25
			reasons = append(reasons, models.ReasonLowLight)
		case models.LightingTooBright:
			score -= 0.25
			reasons = append(reasons, models.ReasonHighLight)
		case models.LightingSlightlyDark:
			score -= 0.10
			reasons = append(reasons, models.ReasonLowLight)
		case models.LightingSlightlyBright:
			score -= 0.10
			reasons = append(reasons, models.ReasonHighLight)
		}

		maxAngle := math.Max(math.Abs(pc.YawDegrees), math.Max(math.Abs(pc.PitchDegrees), math.Abs(pc.RollDegrees)))
		if maxAngle > angleSevereDegrees {
			score -= 0.20
			reasons = append(reasons, models.ReasonAngleOff)
		} else if maxAngle > angleMildDegrees {
			score -= 0.05
			reasons = append(reasons, models.ReasonAngleOff)
		}

		switch pc.Distance {
		case models.DistanceTooFar, models.DistanceTooClose:
			score -= 0.15
			reasons = append(reasons, models.ReasonDistanceOff)
		case models.DistanceSlightlyFar, models.DistanceSlightlyClose:
			score -= 0.05
			reasons = append(reasons, models.ReasonDistanceOff)
		}

		if pc.Centering != models.CenteringOptimal {
			score -= 0.10
			reasons = append(reasons, models.ReasonCenteringOff)
		}

		switch pc.Sharpness {
		case models.SharpnessBlurry:
			score -= 0.20
			reasons = append(reasons, models.ReasonBlurry)
		case models.SharpnessSlightlyBlurry:
			score -= 0.05
			reasons = append(reasons, models.ReasonBlurry)
		}

		if !pc.FaceDetected {
			score -= 0.20
			reasons = append(reasons, models.ReasonNoFaceDetected)
		}

		if pc.UserOverride != nil && *pc.UserOverride == models.UserFlaggedIssue {
			score -= 0.10
			reasons = append(reasons, models.ReasonUserFlaggedIssue)
		}

		if pc.CaptureSource == models.CaptureSourceLibrary {
			score -= 0.15
			reasons = append(reasons, models.ReasonLibraryPhoto)
		}

		if sessionCamera != models.CameraPositionUnknown && pc.CameraPosition != sessionCamera {
			score -= 0.10
			reasons = append(reasons, models.ReasonInconsistentCamera)
		}
	}

	if analysis != nil {
		switch {
		case analysis.ConfidenceScore < 50:
			score -= 0.20
			reasons = append(reasons, models.ReasonLowAnalysisConfidence)
		case analysis.ConfidenceScore < 70:
			score -= 0.10
			reasons = append(reasons, models.ReasonLowAnalysisConfidence)
		}
	}

	elapsed := int(c.CaptureDate.Sub(sessionStart).Hours() / 24)
	drift := elapsed - ExpectedDay(elapsed)
	if drift < 0 {
		drift = -drift
	}
	switch {
	case drift > 3:
		score -= 0.10
		reasons = append(reasons, models.ReasonScheduleDrift)
	case drift > 1:
		score -= 0.05
		reasons = append(reasons, models.ReasonScheduleDrift)
	}

	score = clamp(score, 0, 1)
	return models.ReliabilityMetadata{
		Score:      score,
		Level:      models.ReliabilityLevelFor(score),
		Reasons:    reasons,
		ComputedAt: time.Now().UTC(),
	}
}

// ModalCameraPosition returns the most common camera position across the
// session's check-ins, unknown when no photo metadata exists. Ties resolve
// to the front camera, the expected self-capture mode.
func ModalCameraPosition(checkIns []models.CheckIn) models.CameraPosition {
	counts := map[models.CameraPosition]int{}
	for _, c := range checkIns {
		if c.PhotoConditions != nil {
			counts[c.PhotoConditions.CameraPosition]++
		}
	}
	if len(counts) == 0 {
		return models.CameraPositionUnknown
	}
	if counts[models.CameraPositionFront] >= counts[models.CameraPositionBack] {
		return models.CameraPositionFront
	}
	return models.CameraPositionBack
}

// ScoreSession scores every check-in against the session's modal camera
// position, keyed by check-in id.
func ScoreSession(s models.TrackingSession, analyses map[uuid.UUID]models.SkinAnalysis) map[uuid.UUID]models.ReliabilityMetadata {
	modal := ModalCameraPosition(s.CheckIns)
	out := make(map[uuid.UUID]models.ReliabilityMetadata, len(s.CheckIns))
	for _, c := range s.CheckIns {
		var analysis *models.SkinAnalysis
		if c.AnalysisID != nil {
			if a, ok := analyses[*c.AnalysisID]; ok {
				analysis = &a
			}
		}
		out[c.ID] = ScoreCheckIn(c, analysis, s.StartDate, modal)
	}
	return out
}
