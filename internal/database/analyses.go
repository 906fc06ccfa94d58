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

// AnalysisRepository handles externally produced skin analyses. The service
// only stores and reads them; it never computes one.
type AnalysisRepository struct {
	db *DB
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(db *DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Create inserts a skin analysis.
func (r *AnalysisRepository) Create(ctx context.Context, analysis *models.SkinAnalysis) error {
	query := `
		INSERT INTO skin_analyses (id, skin_type, skin_age, overall_score, issues, regions,
			recommendations, confidence_score, image_quality, analyzed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	issuesJSON, err := json.Marshal(analysis.Issues)
	if err != nil {
		return fmt.Errorf("failed to marshal issues: %w", err)
	}
	regionsJSON, err := json.Marshal(analysis.Regions)
	if err != nil {
		return fmt.Errorf("failed to marshal regions: %w", err)
	}
	recsJSON, err := json.Marshal(analysis.Recommendations)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}
	qualityJSON, err := marshalNullable(analysis.ImageQuality)
	if err != nil {
		return fmt.Errorf("failed to marshal image quality: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query,
		analysis.ID,
		analysis.SkinType,
		analysis.SkinAge,
		analysis.OverallScore,
		issuesJSON,
		regionsJSON,
		recsJSON,
		analysis.ConfidenceScore,
		qualityJSON,
		analysis.AnalyzedAt,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to create analysis: %w", err)
	}

	return nil
}

// GetByID retrieves one analysis.
func (r *AnalysisRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SkinAnalysis, error) {
	query := `
		SELECT id, skin_type, skin_age, overall_score, issues, regions,
			recommendations, confidence_score, image_quality, analyzed_at
		FROM skin_analyses
		WHERE id = $1
	`

	analysis, err := scanAnalysis(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("analysis not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return analysis, nil
}

// GetForSession retrieves every analysis referenced by a session's
// check-ins, keyed by analysis id.
func (r *AnalysisRepository) GetForSession(ctx context.Context, sessionID uuid.UUID) (map[uuid.UUID]models.SkinAnalysis, error) {
	query := `
		SELECT a.id, a.skin_type, a.skin_age, a.overall_score, a.issues, a.regions,
			a.recommendations, a.confidence_score, a.image_quality, a.analyzed_at
		FROM skin_analyses a
		JOIN check_ins c ON c.analysis_id = a.id
		WHERE c.session_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query session analyses: %w", err)
	}
	defer rows.Close()

	out := map[uuid.UUID]models.SkinAnalysis{}
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		out[analysis.ID] = *analysis
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analyses: %w", err)
	}

	return out, nil
}

// GetHistory retrieves dated analyses from every other session, used to
// extend seasonality analysis beyond the session under report.
func (r *AnalysisRepository) GetHistory(ctx context.Context, excludeSessionID uuid.UUID) ([]models.DatedAnalysis, error) {
	query := `
		SELECT a.id, a.skin_type, a.skin_age, a.overall_score, a.issues, a.regions,
			a.recommendations, a.confidence_score, a.image_quality, a.analyzed_at,
			c.capture_date
		FROM skin_analyses a
		JOIN check_ins c ON c.analysis_id = a.id
		WHERE c.session_id <> $1
		ORDER BY c.capture_date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, excludeSessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis history: %w", err)
	}
	defer rows.Close()

	var history []models.DatedAnalysis
	for rows.Next() {
		var (
			analysis                                     models.SkinAnalysis
			issuesJSON, regionsJSON, recsJSON, qualityJSON []byte
			captureDate                                  time.Time
		)

		err := rows.Scan(
			&analysis.ID,
			&analysis.SkinType,
			&analysis.SkinAge,
			&analysis.OverallScore,
			&issuesJSON,
			&regionsJSON,
			&recsJSON,
			&analysis.ConfidenceScore,
			&qualityJSON,
			&analysis.AnalyzedAt,
			&captureDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis history: %w", err)
		}

		if err := json.Unmarshal(issuesJSON, &analysis.Issues); err != nil {
			return nil, fmt.Errorf("failed to unmarshal issues: %w", err)
		}
		if err := json.Unmarshal(regionsJSON, &analysis.Regions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal regions: %w", err)
		}
		if err := json.Unmarshal(recsJSON, &analysis.Recommendations); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recommendations: %w", err)
		}
		if err := unmarshalNullable(qualityJSON, &analysis.ImageQuality); err != nil {
			return nil, fmt.Errorf("failed to unmarshal image quality: %w", err)
		}

		history = append(history, models.DatedAnalysis{Analysis: analysis, Date: captureDate})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analysis history: %w", err)
	}

	return history, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (*models.SkinAnalysis, error) {
	analysis := &models.SkinAnalysis{}
	var issuesJSON, regionsJSON, recsJSON, qualityJSON []byte

	err := row.Scan(
		&analysis.ID,
		&analysis.SkinType,
		&analysis.SkinAge,
		&analysis.OverallScore,
		&issuesJSON,
		&regionsJSON,
		&recsJSON,
		&analysis.ConfidenceScore,
		&qualityJSON,
		&analysis.AnalyzedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(issuesJSON, &analysis.Issues); err != nil {
		return nil, fmt.Errorf("failed to unmarshal issues: %w", err)
	}
	if err := json.Unmarshal(regionsJSON, &analysis.Regions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal regions: %w", err)
	}
	if err := json.Unmarshal(recsJSON, &analysis.Recommendations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recommendations: %w", err)
	}
	if err := unmarshalNullable(qualityJSON, &analysis.ImageQuality); err != nil {
		return nil, fmt.Errorf("failed to unmarshal image quality: %w", err)
	}

	return analysis, nil
}
