package models

import (
	"time"

	"github.com/google/uuid"
)

// ScorePoint is one timeline entry. CheckInID is the canonical join key for
// every derived map; the nominal day is display-only.
type ScorePoint struct {
	CheckInID uuid.UUID    `json:"check_in_id"`
	Day       int          `json:"day"`
	Date      time.Time    `json:"date"`
	Overall   int          `json:"overall"`
	SkinAge   int          `json:"skin_age"`
	Issues    IssueScores  `json:"issues"`
	Regions   RegionScores `json:"regions"`
}

// TrendDirection classifies a metric's slope
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendStable    TrendDirection = "stable"
	TrendWorsening TrendDirection = "worsening"
)

// TrendData is the regression summary over the full timeline.
type TrendData struct {
	OverallSlope     float64        `json:"overall_slope"`
	OverallDirection TrendDirection `json:"overall_direction"`
	SkinAgeSlope     float64        `json:"skin_age_slope"`
	SkinAgeDirection TrendDirection `json:"skin_age_direction"`
	MovingAverage    []float64      `json:"moving_average"` // 3-point window over overall
}

// DimensionChange is the before-after delta for one issue dimension.
// Positive change means improvement since issue scores measure badness.
type DimensionChange struct {
	Dimension string `json:"dimension"`
	Before    int    `json:"before"`
	After     int    `json:"after"`
	Change    int    `json:"change"` // before - after
}

// ProductEffectClass buckets a gap-weighted product effect
type ProductEffectClass string

const (
	ProductEffective   ProductEffectClass = "effective"   // weighted effect > 1.5
	ProductNeutral     ProductEffectClass = "neutral"
	ProductIneffective ProductEffectClass = "ineffective" // weighted effect < -1.5
)

// ProductUsage is the gap-weighted usage summary for one product.
type ProductUsage struct {
	ProductID      string             `json:"product_id"`
	UsageCount     int                `json:"usage_count"`
	WeightedEffect float64            `json:"weighted_effect"`
	FeelingScore   float64            `json:"feeling_score"`
	Classification ProductEffectClass `json:"classification"`
}

// ImprovementLabel buckets the overall score improvement
type ImprovementLabel string

const (
	ImprovementSignificant ImprovementLabel = "significant" // > 15
	ImprovementModerate    ImprovementLabel = "moderate"    // > 5
	ImprovementMinimal     ImprovementLabel = "minimal"     // > -5
	ImprovementDeclined    ImprovementLabel = "declined"
)

// ImprovementLabelFor bands an overall score change.
func ImprovementLabelFor(change float64) ImprovementLabel {
	switch {
	case change > 15:
		return ImprovementSignificant
	case change > 5:
		return ImprovementModerate
	case change > -5:
		return ImprovementMinimal
	default:
		return ImprovementDeclined
	}
}

// EnhancedTrackingReport is the aggregate analytic output for one session.
// TimelineReliable is always a subset of Timeline whose members all have
// reliability >= 0.5.
type EnhancedTrackingReport struct {
	ID          uuid.UUID `json:"id"`
	SessionID   uuid.UUID `json:"session_id"`
	GeneratedAt time.Time `json:"generated_at"`

	Timeline         []ScorePoint                      `json:"timeline"`
	TimelineReliable []ScorePoint                      `json:"timeline_reliable"`
	DisplayPolicy    TimelineDisplayPolicy             `json:"display_policy"`
	Reliability      map[uuid.UUID]ReliabilityMetadata `json:"reliability"`

	Trend            TrendData         `json:"trend"`
	DimensionChanges []DimensionChange `json:"dimension_changes"`
	ProductUsage     []ProductUsage    `json:"product_usage,omitempty"`
	Heatmap          HeatmapData       `json:"heatmap"`

	Anomalies         []AnomalyDetectionResult      `json:"anomalies,omitempty"`
	Forecasts         []TrendForecast               `json:"forecasts,omitempty"`
	SeasonalPatterns  []SeasonalPattern             `json:"seasonal_patterns,omitempty"`
	SeasonComparison  *SeasonComparison             `json:"season_comparison,omitempty"`
	LifestyleInsights []LifestyleCorrelationInsight `json:"lifestyle_insights,omitempty"`
	ProductInsights   []ProductEffectInsight        `json:"product_insights,omitempty"`

	ScoreChange               int              `json:"score_change"`
	OverallImprovement        float64          `json:"overall_improvement"`
	HasSignificantImprovement bool             `json:"has_significant_improvement"` // > 10
	ImprovementLabel          ImprovementLabel `json:"improvement_label"`
	CompletionRate            float64          `json:"completion_rate"` // check-ins / scheduled
	TopImprovements           []string         `json:"top_improvements,omitempty"`
	NeedsAttention            []string         `json:"needs_attention,omitempty"`
	Recommendations           []string         `json:"recommendations,omitempty"`
	LifestyleCoverage         float64          `json:"lifestyle_coverage"` // 0-1
	SevereAnomalyCount        int              `json:"severe_anomaly_count"`

	DataQuality    DataQualityAssessment `json:"data_quality"`
	DataConfidence float64               `json:"data_confidence"` // 0-1
	AISummary      *string               `json:"ai_summary,omitempty"`
}
