package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dermtrack/dermtrack/internal/models"
)

// ReportRepository persists generated reports, one current report per
// session.
type ReportRepository struct {
	db *DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Save upserts the session's current report.
func (r *ReportRepository) Save(ctx context.Context, report *models.EnhancedTrackingReport) error {
	query := `
		INSERT INTO tracking_reports (id, session_id, payload, generated_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id)
		DO UPDATE SET id = $1, payload = $3, generated_at = $4
	`

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query,
		report.ID,
		report.SessionID,
		payload,
		report.GeneratedAt,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	return nil
}

// GetBySessionID retrieves the session's current report, nil when none has
// been generated.
func (r *ReportRepository) GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*models.EnhancedTrackingReport, error) {
	query := `
		SELECT payload
		FROM tracking_reports
		WHERE session_id = $1
	`

	var payload []byte
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	report := &models.EnhancedTrackingReport{}
	if err := json.Unmarshal(payload, report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}

	return report, nil
}
