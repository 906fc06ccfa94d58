package models

import "time"

// ConfidenceLevel bands a statistical confidence value
type ConfidenceLevel string

const (
	ConfidenceVeryHigh ConfidenceLevel = "very_high" // >= 0.8
	ConfidenceHigh     ConfidenceLevel = "high"      // >= 0.6
	ConfidenceModerate ConfidenceLevel = "moderate"  // >= 0.4
	ConfidenceLow      ConfidenceLevel = "low"
)

// ConfidenceScore is the statistical confidence in a derived conclusion,
// distinct from a check-in's reliability score.
type ConfidenceScore struct {
	Value       float64 `json:"value"` // 0-1
	SampleCount int     `json:"sample_count"`
	Method      string  `json:"method"`
}

// Level bands the value at 0.8/0.6/0.4.
func (c ConfidenceScore) Level() ConfidenceLevel {
	switch {
	case c.Value >= 0.8:
		return ConfidenceVeryHigh
	case c.Value >= 0.6:
		return ConfidenceHigh
	case c.Value >= 0.4:
		return ConfidenceModerate
	default:
		return ConfidenceLow
	}
}

// AnomalyMethod selects the outlier detection strategy
type AnomalyMethod string

const (
	AnomalyMethodZScore AnomalyMethod = "zscore"
	AnomalyMethodMAD    AnomalyMethod = "mad"
	AnomalyMethodIQR    AnomalyMethod = "iqr"
)

// AnomalySeverity grades a flagged outlier
type AnomalySeverity string

const (
	AnomalySeverityMild     AnomalySeverity = "mild"
	AnomalySeverityModerate AnomalySeverity = "moderate"
	AnomalySeveritySevere   AnomalySeverity = "severe"
)

// AnomalyDetectionResult is one flagged outlier point in a metric series.
type AnomalyDetectionResult struct {
	Metric   string          `json:"metric"`
	Day      int             `json:"day"`
	Date     time.Time       `json:"date"`
	Value    float64         `json:"value"`
	ZScore   float64         `json:"z_score"`
	Severity AnomalySeverity `json:"severity"`
	Reason   string          `json:"reason"`
}

// DataQualityAssessment is the overall 0-1 data quality of a series.
type DataQualityAssessment struct {
	Score       float64 `json:"score"`
	Label       string  `json:"label"`
	SampleCount int     `json:"sample_count"`
}

// ForecastPoint is one predicted value with its prediction interval.
type ForecastPoint struct {
	Day       int       `json:"day"`
	Date      time.Time `json:"date"`
	Predicted float64   `json:"predicted"`
	Lower     float64   `json:"lower"`
	Upper     float64   `json:"upper"`
}

// RiskLevel grades a forward-looking risk alert
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// RiskAlert is a threshold-triggered advisory derived from a forecast.
type RiskAlert struct {
	Metric        string    `json:"metric"`
	Severity      RiskLevel `json:"severity"`
	Message       string    `json:"message"`
	Action        string    `json:"action"`
	PredictedDate time.Time `json:"predicted_date"`
}

// TrendForecast is a short-horizon linear forecast for one metric.
type TrendForecast struct {
	Metric      string          `json:"metric"`
	HorizonDays int             `json:"horizon_days"`
	Points      []ForecastPoint `json:"points"`
	Slope       float64         `json:"slope"`
	Confidence  ConfidenceScore `json:"confidence"`
	RiskAlert   *RiskAlert      `json:"risk_alert,omitempty"`
}

// Season is one of the four fixed calendar seasons
type Season string

const (
	SeasonSpring Season = "spring" // Mar-May
	SeasonSummer Season = "summer" // Jun-Aug
	SeasonAutumn Season = "autumn" // Sep-Nov
	SeasonWinter Season = "winter" // Dec-Feb
)

// SeasonForMonth maps a calendar month onto its season.
func SeasonForMonth(m time.Month) Season {
	switch m {
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	case time.September, time.October, time.November:
		return SeasonAutumn
	default:
		return SeasonWinter
	}
}

// SeasonalPattern is the aggregated skin condition for one season.
type SeasonalPattern struct {
	Season             Season          `json:"season"`
	AverageRedness     float64         `json:"average_redness"`
	AverageSensitivity float64         `json:"average_sensitivity"`
	SampleCount        int             `json:"sample_count"`
	Confidence         ConfidenceScore `json:"confidence"`
}

// SeasonComparison summarizes the best and worst seasons across patterns.
type SeasonComparison struct {
	MostSensitiveSeason  Season  `json:"most_sensitive_season"`
	LeastSensitiveSeason Season  `json:"least_sensitive_season"`
	MaxRednessSeason     Season  `json:"max_redness_season"`
	MaxSensitivity       float64 `json:"max_sensitivity"`
	MinSensitivity       float64 `json:"min_sensitivity"`
	MaxRedness           float64 `json:"max_redness"`
}

// LifestyleFactorKey identifies one of the candidate correlation factors
type LifestyleFactorKey string

const (
	FactorSleepHours      LifestyleFactorKey = "sleep_hours"
	FactorStressLevel     LifestyleFactorKey = "stress_level"
	FactorWaterIntake     LifestyleFactorKey = "water_intake"
	FactorAlcohol         LifestyleFactorKey = "alcohol"
	FactorExerciseMinutes LifestyleFactorKey = "exercise_minutes"
	FactorSunExposure     LifestyleFactorKey = "sun_exposure"
	FactorHumidity        LifestyleFactorKey = "humidity"
	FactorUVIndex         LifestyleFactorKey = "uv_index"
	FactorAirQuality      LifestyleFactorKey = "air_quality"
)

// CorrelationDirection is the apparent direction of association
type CorrelationDirection string

const (
	DirectionPositive CorrelationDirection = "positive"
	DirectionNegative CorrelationDirection = "negative"
)

// LifestyleCorrelationInsight is one lagged factor-to-delta association.
// Interpretation is strictly non-causal.
type LifestyleCorrelationInsight struct {
	Factor         LifestyleFactorKey   `json:"factor"`
	TargetMetric   string               `json:"target_metric"`
	Correlation    float64              `json:"correlation"` // -1..1
	Direction      CorrelationDirection `json:"direction"`
	SampleCount    int                  `json:"sample_count"`
	Confidence     ConfidenceScore      `json:"confidence"`
	Interpretation string               `json:"interpretation"`
}

// ProductEffectInsight is the per-product effectiveness conclusion.
// AttributionWeight, SoloUsageDays and CoUsedProductIDs are reserved for
// multi-product disambiguation and stay nil; ValidationHint is surfaced
// instead when co-usage is detected.
type ProductEffectInsight struct {
	ProductID           string          `json:"product_id"`
	Effectiveness       float64         `json:"effectiveness"` // -1..1
	Confidence          ConfidenceScore `json:"confidence"`
	ContributingFactors []string        `json:"contributing_factors,omitempty"`
	UsageCount          int             `json:"usage_count"`
	AverageIntervalDays float64         `json:"average_interval_days"`
	AttributionWeight   *float64        `json:"attribution_weight,omitempty"`
	SoloUsageDays       *int            `json:"solo_usage_days,omitempty"`
	CoUsedProductIDs    []string        `json:"co_used_product_ids,omitempty"`
	ValidationHint      string          `json:"validation_hint,omitempty"`
}

// HeatmapCell is one day x issue-dimension intensity, normalized to 0-1.
type HeatmapCell struct {
	Day       int     `json:"day"`
	Dimension string  `json:"dimension"`
	Value     float64 `json:"value"`
}

// HeatmapData is the full day x dimension grid for a session.
type HeatmapData struct {
	Cells      []HeatmapCell `json:"cells"`
	Days       []int         `json:"days"`
	Dimensions []string      `json:"dimensions"`
}
