package models

import "time"

// CameraPosition identifies which device camera captured the photo
type CameraPosition string

const (
	CameraPositionFront   CameraPosition = "front"
	CameraPositionBack    CameraPosition = "back"
	CameraPositionUnknown CameraPosition = "unknown"
)

// CaptureSource distinguishes live captures from library imports
type CaptureSource string

const (
	CaptureSourceCamera  CaptureSource = "camera"
	CaptureSourceLibrary CaptureSource = "library"
)

// LightingRating grades capture lighting
type LightingRating string

const (
	LightingTooDark        LightingRating = "too_dark"
	LightingSlightlyDark   LightingRating = "slightly_dark"
	LightingOptimal        LightingRating = "optimal"
	LightingSlightlyBright LightingRating = "slightly_bright"
	LightingTooBright      LightingRating = "too_bright"
)

// DistanceRating grades camera-to-face distance
type DistanceRating string

const (
	DistanceTooFar        DistanceRating = "too_far"
	DistanceSlightlyFar   DistanceRating = "slightly_far"
	DistanceOptimal       DistanceRating = "optimal"
	DistanceSlightlyClose DistanceRating = "slightly_close"
	DistanceTooClose      DistanceRating = "too_close"
)

// CenteringRating grades face placement in the frame
type CenteringRating string

const (
	CenteringOptimal  CenteringRating = "optimal"
	CenteringTooLeft  CenteringRating = "too_left"
	CenteringTooRight CenteringRating = "too_right"
	CenteringTooHigh  CenteringRating = "too_high"
	CenteringTooLow   CenteringRating = "too_low"
)

// SharpnessRating grades photo focus
type SharpnessRating string

const (
	SharpnessSharp          SharpnessRating = "sharp"
	SharpnessSlightlyBlurry SharpnessRating = "slightly_blurry"
	SharpnessBlurry         SharpnessRating = "blurry"
)

// UserOverride records the user's own judgement of photo quality
type UserOverride string

const (
	UserConfirmedGood UserOverride = "user_confirmed_good"
	UserFlaggedIssue  UserOverride = "user_flagged_issue"
)

// PhotoConditions is the photo-standardization metadata captured alongside a
// check-in photo. Produced by the external capture layer; the core only reads it.
type PhotoConditions struct {
	CapturedAt     time.Time       `json:"captured_at"`
	CameraPosition CameraPosition  `json:"camera_position"`
	CaptureSource  CaptureSource   `json:"capture_source"`
	Lighting       LightingRating  `json:"lighting"`
	FaceDetected   bool            `json:"face_detected"`
	YawDegrees     float64         `json:"yaw_degrees"`
	PitchDegrees   float64         `json:"pitch_degrees"`
	RollDegrees    float64         `json:"roll_degrees"`
	Distance       DistanceRating  `json:"distance"`
	Centering      CenteringRating `json:"centering"`
	Sharpness      SharpnessRating `json:"sharpness"`
	UserOverride   *UserOverride   `json:"user_override,omitempty"`
}

// LifestyleFactors is optional self-reported context for one check-in.
// All fields are optional; a missing factor is excluded from correlation,
// never treated as zero.
type LifestyleFactors struct {
	SleepHours      *float64 `json:"sleep_hours,omitempty"`
	StressLevel     *int     `json:"stress_level,omitempty"` // 1-5
	WaterIntake     *int     `json:"water_intake,omitempty"` // 1-5
	AlcoholConsumed *bool    `json:"alcohol_consumed,omitempty"`
	ExerciseMinutes *int     `json:"exercise_minutes,omitempty"`
	SunExposure     *int     `json:"sun_exposure,omitempty"` // 1-5
	DietNotes       string   `json:"diet_notes,omitempty"`
}

// AQILevel is an ordinal air-quality band, 1 (good) through 6 (hazardous).
type AQILevel int

const (
	AQIGood AQILevel = iota + 1
	AQIModerate
	AQIUnhealthySensitive
	AQIUnhealthy
	AQIVeryUnhealthy
	AQIHazardous
)

// WeatherSnapshot records ambient conditions at capture time.
type WeatherSnapshot struct {
	Temperature float64   `json:"temperature"` // Celsius
	Humidity    float64   `json:"humidity"`    // 0-100
	UVIndex     int       `json:"uv_index"`    // 0-11+
	AirQuality  AQILevel  `json:"air_quality"`
	RecordedAt  time.Time `json:"recorded_at"`
	Location    string    `json:"location,omitempty"`
}

// ReliabilityLevel bands a reliability score
type ReliabilityLevel string

const (
	ReliabilityHigh   ReliabilityLevel = "high"   // score >= 0.7
	ReliabilityMedium ReliabilityLevel = "medium" // score >= 0.4
	ReliabilityLow    ReliabilityLevel = "low"
)

// ReliabilityReason tags a factor that reduced a check-in's reliability
type ReliabilityReason string

const (
	ReasonLowLight               ReliabilityReason = "low_light"
	ReasonHighLight              ReliabilityReason = "high_light"
	ReasonAngleOff               ReliabilityReason = "angle_off"
	ReasonDistanceOff            ReliabilityReason = "distance_off"
	ReasonCenteringOff           ReliabilityReason = "centering_off"
	ReasonBlurry                 ReliabilityReason = "blurry"
	ReasonNoFaceDetected         ReliabilityReason = "no_face_detected"
	ReasonUserFlaggedIssue       ReliabilityReason = "user_flagged_issue"
	ReasonLibraryPhoto           ReliabilityReason = "library_photo"
	ReasonInconsistentCamera     ReliabilityReason = "inconsistent_camera_position"
	ReasonMissingStandardization ReliabilityReason = "missing_standardization"
	ReasonLowAnalysisConfidence  ReliabilityReason = "low_analysis_confidence"
	ReasonScheduleDrift          ReliabilityReason = "schedule_drift"
)

// ReliabilityMetadata scores how faithfully a check-in's captured data
// reflects true skin state.
type ReliabilityMetadata struct {
	Score      float64             `json:"score"` // 0-1
	Level      ReliabilityLevel    `json:"level"`
	Reasons    []ReliabilityReason `json:"reasons,omitempty"`
	ComputedAt time.Time           `json:"computed_at"`
}

// ReliabilityLevelFor bands a score at the fixed 0.7/0.4 thresholds.
func ReliabilityLevelFor(score float64) ReliabilityLevel {
	switch {
	case score >= 0.7:
		return ReliabilityHigh
	case score >= 0.4:
		return ReliabilityMedium
	default:
		return ReliabilityLow
	}
}

// TimelineMode selects which timeline a presentation layer should default to
type TimelineMode string

const (
	TimelineModeAll      TimelineMode = "all"
	TimelineModeReliable TimelineMode = "reliable"
)

// TimelineDisplayPolicy tells the presentation layer whether to default to
// the reliability-filtered timeline.
type TimelineDisplayPolicy struct {
	DefaultMode            TimelineMode `json:"default_mode"`
	ExcludedCount          int          `json:"excluded_count"`
	ExcludedRatio          float64      `json:"excluded_ratio"`
	HasReliableAlternative bool         `json:"has_reliable_alternative"`
}

// NewTimelineDisplayPolicy defaults to the reliable view when exclusions are
// meaningful: excluded count >= 2 or excluded ratio > 0.20.
func NewTimelineDisplayPolicy(allCount, reliableCount int) TimelineDisplayPolicy {
	excluded := allCount - reliableCount
	denom := allCount
	if denom < 1 {
		denom = 1
	}
	ratio := float64(excluded) / float64(denom)

	mode := TimelineModeAll
	if excluded >= 2 || ratio > 0.20 {
		mode = TimelineModeReliable
	}

	return TimelineDisplayPolicy{
		DefaultMode:            mode,
		ExcludedCount:          excluded,
		ExcludedRatio:          ratio,
		HasReliableAlternative: reliableCount > 0,
	}
}
