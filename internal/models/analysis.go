package models

import (
	"time"

	"github.com/google/uuid"
)

// SkinType is the externally supplied skin classification
type SkinType string

const (
	SkinTypeNormal      SkinType = "normal"
	SkinTypeDry         SkinType = "dry"
	SkinTypeOily        SkinType = "oily"
	SkinTypeCombination SkinType = "combination"
	SkinTypeSensitive   SkinType = "sensitive"
)

// IssueScores holds the 7 issue dimensions, each 0-10 where higher is worse.
type IssueScores struct {
	Spots    int `json:"spots"`
	Acne     int `json:"acne"`
	Pores    int `json:"pores"`
	Wrinkles int `json:"wrinkles"`
	Redness  int `json:"redness"`
	Evenness int `json:"evenness"`
	Texture  int `json:"texture"`
}

// RegionScores holds the 5 facial region scores, each 0-100 where higher is better.
type RegionScores struct {
	TZone      int `json:"t_zone"`
	LeftCheek  int `json:"left_cheek"`
	RightCheek int `json:"right_cheek"`
	EyeArea    int `json:"eye_area"`
	Chin       int `json:"chin"`
}

// ImageQuality is optional capture-quality metadata attached by the analysis provider
type ImageQuality struct {
	Sharpness  float64 `json:"sharpness"`
	Brightness float64 `json:"brightness"`
	FaceRatio  float64 `json:"face_ratio"`
}

// SkinAnalysis is the externally produced skin-condition analysis for one
// check-in. The core only reads it; it never computes one.
type SkinAnalysis struct {
	ID              uuid.UUID     `json:"id"`
	SkinType        SkinType      `json:"skin_type"`
	SkinAge         int           `json:"skin_age"`
	OverallScore    int           `json:"overall_score"` // 0-100, higher is better
	Issues          IssueScores   `json:"issues"`
	Regions         RegionScores  `json:"regions"`
	Recommendations []string      `json:"recommendations,omitempty"`
	ConfidenceScore int           `json:"confidence_score"` // 0-100
	ImageQuality    *ImageQuality `json:"image_quality,omitempty"`
	AnalyzedAt      time.Time     `json:"analyzed_at"`
}

// DatedAnalysis pairs an analysis with its capture date, used by the
// seasonality analyzer when merging session data with external history.
type DatedAnalysis struct {
	Analysis SkinAnalysis `json:"analysis"`
	Date     time.Time    `json:"date"`
}
