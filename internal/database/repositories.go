package database

import (
	"context"

	"github.com/google/uuid"

	"github.com/dermtrack/dermtrack/internal/models"
)

// SessionRepositoryInterface defines session repository operations.
// Interfaces here enable mock implementations in handler and worker tests.
type SessionRepositoryInterface interface {
	Create(ctx context.Context, session *models.TrackingSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.TrackingSession, error)
	Complete(ctx context.Context, id uuid.UUID) error
	AddCheckIn(ctx context.Context, checkIn *models.CheckIn) error
}

// AnalysisRepositoryInterface defines analysis repository operations
type AnalysisRepositoryInterface interface {
	Create(ctx context.Context, analysis *models.SkinAnalysis) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SkinAnalysis, error)
	GetForSession(ctx context.Context, sessionID uuid.UUID) (map[uuid.UUID]models.SkinAnalysis, error)
	GetHistory(ctx context.Context, excludeSessionID uuid.UUID) ([]models.DatedAnalysis, error)
}

// ReportRepositoryInterface defines report repository operations
type ReportRepositoryInterface interface {
	Save(ctx context.Context, report *models.EnhancedTrackingReport) error
	GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*models.EnhancedTrackingReport, error)
}

// Ensure concrete types implement the interfaces
var (
	_ SessionRepositoryInterface  = (*SessionRepository)(nil)
	_ AnalysisRepositoryInterface = (*AnalysisRepository)(nil)
	_ ReportRepositoryInterface   = (*ReportRepository)(nil)
)
