package models

import (
	"time"

	"github.com/google/uuid"
)

// CheckInDays is the standard check-in schedule: day 0 (baseline), then weekly.
var CheckInDays = []int{0, 7, 14, 21, 28}

// SessionDurationDays is the total duration of a tracking session.
const SessionDurationDays = 28

// TotalCheckInCount is the number of scheduled check-in points.
const TotalCheckInCount = 5

// SessionStatus represents the lifecycle state of a tracking session
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusAbandoned SessionStatus = "abandoned"
)

// Feeling is the subjective self-assessment attached to a check-in
type Feeling string

const (
	FeelingBetter Feeling = "better"
	FeelingSame   Feeling = "same"
	FeelingWorse  Feeling = "worse"
)

// Score maps a feeling onto the -1..1 scale used by the analyzers.
func (f Feeling) Score() float64 {
	switch f {
	case FeelingBetter:
		return 1
	case FeelingWorse:
		return -1
	default:
		return 0
	}
}

// CheckIn is one periodic self-assessment capture within a tracking session.
// Check-ins are immutable once captured; only the owning session appends new
// ones. The id is the canonical join key for every derived map (reliability,
// lifestyle pairing, score lookup) - never the nominal day, which is not
// guaranteed unique or calendar-accurate.
type CheckIn struct {
	ID          uuid.UUID  `json:"id"`
	SessionID   uuid.UUID  `json:"session_id"`
	Day         int        `json:"day"`
	CaptureDate time.Time  `json:"capture_date"`
	AnalysisID  *uuid.UUID `json:"analysis_id,omitempty"`
	Products    []string   `json:"products,omitempty"`
	Note        string     `json:"note,omitempty"`
	Feeling     *Feeling   `json:"feeling,omitempty"`

	PhotoConditions *PhotoConditions     `json:"photo_conditions,omitempty"`
	Lifestyle       *LifestyleFactors    `json:"lifestyle,omitempty"`
	Weather         *WeatherSnapshot     `json:"weather,omitempty"`
	Reliability     *ReliabilityMetadata `json:"reliability,omitempty"`
}

// TrackingSession is the aggregate root owning an ordered collection of
// check-ins. The session lifetime bounds their validity window.
type TrackingSession struct {
	ID        uuid.UUID     `json:"id"`
	StartDate time.Time     `json:"start_date"`
	EndDate   *time.Time    `json:"end_date,omitempty"`
	Status    SessionStatus `json:"status"`
	Products  []string      `json:"products,omitempty"`
	Note      string        `json:"note,omitempty"`
	CheckIns  []CheckIn     `json:"check_ins"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Duration returns the elapsed days of the session.
func (s *TrackingSession) Duration() int {
	end := time.Now()
	if s.EndDate != nil {
		end = *s.EndDate
	}
	d := int(end.Sub(s.StartDate).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// Progress returns session completion as a 0-1 ratio of elapsed time.
func (s *TrackingSession) Progress() float64 {
	p := float64(s.Duration()) / float64(SessionDurationDays)
	if p > 1 {
		return 1
	}
	return p
}

// NextCheckInDay returns the next scheduled day without a check-in, or nil
// when the schedule is exhausted.
func (s *TrackingSession) NextCheckInDay() *int {
	done := make(map[int]bool, len(s.CheckIns))
	for _, c := range s.CheckIns {
		done[c.Day] = true
	}
	elapsed := s.Duration()
	for _, d := range CheckInDays {
		if !done[d] && d >= elapsed {
			day := d
			return &day
		}
	}
	return nil
}

// AddCheckIn appends a check-in to the session's ordered collection.
func (s *TrackingSession) AddCheckIn(c CheckIn) {
	s.CheckIns = append(s.CheckIns, c)
}
