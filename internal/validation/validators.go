package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/dermtrack/dermtrack/internal/models"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for enums
	if err := Validate.RegisterValidation("feeling", validateFeeling); err != nil {
		panic(fmt.Sprintf("failed to register feeling validator: %v", err))
	}
	if err := Validate.RegisterValidation("check_in_day", validateCheckInDay); err != nil {
		panic(fmt.Sprintf("failed to register check_in_day validator: %v", err))
	}
	if err := Validate.RegisterValidation("camera_position", validateCameraPosition); err != nil {
		panic(fmt.Sprintf("failed to register camera_position validator: %v", err))
	}
}

// validateFeeling validates that a string is a valid Feeling enum value
func validateFeeling(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	switch models.Feeling(value) {
	case models.FeelingBetter, models.FeelingSame, models.FeelingWorse:
		return true
	default:
		return false
	}
}

// validateCheckInDay validates that an int is one of the scheduled days
func validateCheckInDay(fl validator.FieldLevel) bool {
	value := int(fl.Field().Int())
	for _, d := range models.CheckInDays {
		if value == d {
			return true
		}
	}
	return false
}

// validateCameraPosition validates that a string is a valid CameraPosition enum value
func validateCameraPosition(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	switch models.CameraPosition(value) {
	case models.CameraPositionFront, models.CameraPositionBack, models.CameraPositionUnknown:
		return true
	default:
		return false
	}
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	// Remove control characters except newline and tab
	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateFeeling validates a Feeling string value
func ValidateFeeling(value string) error {
	switch models.Feeling(value) {
	case models.FeelingBetter, models.FeelingSame, models.FeelingWorse:
		return nil
	default:
		return fmt.Errorf("invalid feeling: %s (must be 'better', 'same', or 'worse')", value)
	}
}

// ValidateCheckInDay validates a check-in day against the schedule
func ValidateCheckInDay(day int) error {
	for _, d := range models.CheckInDays {
		if day == d {
			return nil
		}
	}
	return fmt.Errorf("invalid check-in day: %d (must be one of %v)", day, models.CheckInDays)
}

// ValidateSessionStatus validates a SessionStatus string value
func ValidateSessionStatus(value string) error {
	switch models.SessionStatus(value) {
	case models.SessionStatusActive, models.SessionStatusCompleted, models.SessionStatusAbandoned:
		return nil
	default:
		return fmt.Errorf("invalid status: %s (must be 'active', 'completed', or 'abandoned')", value)
	}
}
