package models

import "fmt"

// Display text for the tagged enums. Domain logic never branches on these
// strings; they exist so presentation layers and the summary prompt share one
// English wording. Content is localizable, thresholds are not.

// DisplayName returns the human-readable name for a lifestyle factor.
func (f LifestyleFactorKey) DisplayName() string {
	switch f {
	case FactorSleepHours:
		return "sleep duration"
	case FactorStressLevel:
		return "stress level"
	case FactorWaterIntake:
		return "water intake"
	case FactorAlcohol:
		return "alcohol consumption"
	case FactorExerciseMinutes:
		return "exercise"
	case FactorSunExposure:
		return "sun exposure"
	case FactorHumidity:
		return "humidity"
	case FactorUVIndex:
		return "UV index"
	case FactorAirQuality:
		return "air quality"
	default:
		return string(f)
	}
}

// DisplayName returns the human-readable season name.
func (s Season) DisplayName() string {
	switch s {
	case SeasonSpring:
		return "Spring"
	case SeasonSummer:
		return "Summer"
	case SeasonAutumn:
		return "Autumn"
	default:
		return "Winter"
	}
}

// DisplayName returns the label shown for an anomaly severity.
func (s AnomalySeverity) DisplayName() string {
	switch s {
	case AnomalySeveritySevere:
		return "Severe deviation"
	case AnomalySeverityModerate:
		return "Moderate deviation"
	default:
		return "Mild deviation"
	}
}

// DisplayName returns the label shown for a confidence level.
func (l ConfidenceLevel) DisplayName() string {
	switch l {
	case ConfidenceVeryHigh:
		return "Very high confidence"
	case ConfidenceHigh:
		return "High confidence"
	case ConfidenceModerate:
		return "Moderate confidence"
	default:
		return "Low confidence"
	}
}

// DataQualityLabel maps a 0-1 data quality score onto its display label,
// banded at 0.8/0.6/0.4.
func DataQualityLabel(score float64) string {
	switch {
	case score >= 0.8:
		return "excellent"
	case score >= 0.6:
		return "good"
	case score >= 0.4:
		return "fair"
	default:
		return "limited"
	}
}

// CorrelationInterpretation builds the strictly non-causal reading of a
// lifestyle correlation.
func CorrelationInterpretation(factor LifestyleFactorKey, direction CorrelationDirection) string {
	tendency := "improvements"
	if direction == DirectionNegative {
		tendency = "declines"
	}
	return fmt.Sprintf("Higher %s may be associated with subsequent %s in skin score. This is a correlation, not a cause; more data is needed to confirm.",
		factor.DisplayName(), tendency)
}

// SoloUseValidationHint is shown when a product's effect cannot be isolated
// from co-used products.
func SoloUseValidationHint(soloDays int) string {
	return fmt.Sprintf("Effect overlaps with other products; needs solo-use validation (suggest %d days solo use).", soloDays)
}

// RiskAlertMessage returns the fixed advisory text for a metric/severity pair.
// Thresholds that trigger each tier live in the forecast engine; the wording
// here must stay aligned with those tiers.
func RiskAlertMessage(metric string, severity RiskLevel) string {
	switch metric {
	case "overall_score":
		switch severity {
		case RiskLevelHigh:
			return "Overall skin score is forecast to drop sharply."
		case RiskLevelMedium:
			return "Overall skin score is forecast to decline."
		default:
			return "Overall skin score shows a mild downward trend."
		}
	case "redness":
		switch severity {
		case RiskLevelHigh:
			return "Redness is forecast to reach a severe level."
		case RiskLevelMedium:
			return "Redness is forecast to worsen noticeably."
		default:
			return "Redness shows a mild upward trend."
		}
	case "sensitivity":
		switch severity {
		case RiskLevelHigh:
			return "Skin sensitivity is forecast to reach a severe level."
		case RiskLevelMedium:
			return "Skin sensitivity is forecast to worsen noticeably."
		default:
			return "Skin sensitivity shows a mild upward trend."
		}
	default: // acne
		switch severity {
		case RiskLevelHigh:
			return "Acne is forecast to reach a severe level."
		case RiskLevelMedium:
			return "Acne is forecast to worsen noticeably."
		default:
			return "Acne shows a mild upward trend."
		}
	}
}

// RiskAlertAction returns the fixed action suggestion for a metric/severity pair.
func RiskAlertAction(metric string, severity RiskLevel) string {
	switch metric {
	case "overall_score":
		switch severity {
		case RiskLevelHigh:
			return "Review recent routine changes and consider consulting a dermatologist."
		case RiskLevelMedium:
			return "Review recent routine and lifestyle changes."
		default:
			return "Keep monitoring; no immediate change needed."
		}
	case "redness", "sensitivity":
		switch severity {
		case RiskLevelHigh:
			return "Pause active ingredients, switch to gentle care, and consider professional advice."
		case RiskLevelMedium:
			return "Reduce irritating products and strengthen barrier care."
		default:
			return "Keep monitoring and avoid new irritants."
		}
	default: // acne
		switch severity {
		case RiskLevelHigh:
			return "Simplify your routine and consider consulting a dermatologist."
		case RiskLevelMedium:
			return "Review comedogenic products and keep cleansing consistent."
		default:
			return "Keep monitoring; maintain your current routine."
		}
	}
}
