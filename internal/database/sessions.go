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

// SessionRepository handles tracking session and check-in persistence.
// Check-ins are first-class rows owned by their session, never a serialized
// blob inside it.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new tracking session.
func (r *SessionRepository) Create(ctx context.Context, session *models.TrackingSession) error {
	query := `
		INSERT INTO tracking_sessions (id, start_date, end_date, status, products, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	productsJSON, err := json.Marshal(session.Products)
	if err != nil {
		return fmt.Errorf("failed to marshal products: %w", err)
	}

	now := time.Now()
	err = r.db.QueryRowContext(ctx, query,
		session.ID,
		session.StartDate,
		nullTime(session.EndDate),
		session.Status,
		productsJSON,
		session.Note,
		now,
		now,
	).Scan(&session.CreatedAt, &session.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// GetByID retrieves a session with its check-ins ordered by day.
func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TrackingSession, error) {
	session := &models.TrackingSession{}
	var productsJSON []byte
	var endDate sql.NullTime

	query := `
		SELECT id, start_date, end_date, status, products, note, created_at, updated_at
		FROM tracking_sessions
		WHERE id = $1
	`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID,
		&session.StartDate,
		&endDate,
		&session.Status,
		&productsJSON,
		&session.Note,
		&session.CreatedAt,
		&session.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if err := json.Unmarshal(productsJSON, &session.Products); err != nil {
		return nil, fmt.Errorf("failed to unmarshal products: %w", err)
	}
	if endDate.Valid {
		session.EndDate = &endDate.Time
	}

	checkIns, err := r.getCheckIns(ctx, id)
	if err != nil {
		return nil, err
	}
	session.CheckIns = checkIns

	return session, nil
}

// Complete marks a session completed and stamps its end date.
func (r *SessionRepository) Complete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE tracking_sessions
		SET status = $2, end_date = $3, updated_at = $3
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, models.SessionStatusCompleted, time.Now())
	if err != nil {
		return fmt.Errorf("failed to complete session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("session not found")
	}

	return nil
}

// AddCheckIn appends an immutable check-in row to its session.
func (r *SessionRepository) AddCheckIn(ctx context.Context, checkIn *models.CheckIn) error {
	query := `
		INSERT INTO check_ins (id, session_id, day, capture_date, analysis_id, products, note,
			feeling, photo_conditions, lifestyle, weather, reliability, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	productsJSON, err := json.Marshal(checkIn.Products)
	if err != nil {
		return fmt.Errorf("failed to marshal products: %w", err)
	}
	photoJSON, err := marshalNullable(checkIn.PhotoConditions)
	if err != nil {
		return fmt.Errorf("failed to marshal photo conditions: %w", err)
	}
	lifestyleJSON, err := marshalNullable(checkIn.Lifestyle)
	if err != nil {
		return fmt.Errorf("failed to marshal lifestyle: %w", err)
	}
	weatherJSON, err := marshalNullable(checkIn.Weather)
	if err != nil {
		return fmt.Errorf("failed to marshal weather: %w", err)
	}
	reliabilityJSON, err := marshalNullable(checkIn.Reliability)
	if err != nil {
		return fmt.Errorf("failed to marshal reliability: %w", err)
	}

	var feeling sql.NullString
	if checkIn.Feeling != nil {
		feeling = sql.NullString{String: string(*checkIn.Feeling), Valid: true}
	}

	_, err = r.db.ExecContext(ctx, query,
		checkIn.ID,
		checkIn.SessionID,
		checkIn.Day,
		checkIn.CaptureDate,
		checkIn.AnalysisID,
		productsJSON,
		checkIn.Note,
		feeling,
		photoJSON,
		lifestyleJSON,
		weatherJSON,
		reliabilityJSON,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to add check-in: %w", err)
	}

	return nil
}

func (r *SessionRepository) getCheckIns(ctx context.Context, sessionID uuid.UUID) ([]models.CheckIn, error) {
	query := `
		SELECT id, session_id, day, capture_date, analysis_id, products, note,
			feeling, photo_conditions, lifestyle, weather, reliability
		FROM check_ins
		WHERE session_id = $1
		ORDER BY day ASC, capture_date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query check-ins: %w", err)
	}
	defer rows.Close()

	var checkIns []models.CheckIn
	for rows.Next() {
		var c models.CheckIn
		var productsJSON []byte
		var feeling sql.NullString
		var photoJSON, lifestyleJSON, weatherJSON, reliabilityJSON []byte

		err := rows.Scan(
			&c.ID,
			&c.SessionID,
			&c.Day,
			&c.CaptureDate,
			&c.AnalysisID,
			&productsJSON,
			&c.Note,
			&feeling,
			&photoJSON,
			&lifestyleJSON,
			&weatherJSON,
			&reliabilityJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan check-in: %w", err)
		}

		if err := json.Unmarshal(productsJSON, &c.Products); err != nil {
			return nil, fmt.Errorf("failed to unmarshal products: %w", err)
		}
		if feeling.Valid {
			f := models.Feeling(feeling.String)
			c.Feeling = &f
		}
		if err := unmarshalNullable(photoJSON, &c.PhotoConditions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal photo conditions: %w", err)
		}
		if err := unmarshalNullable(lifestyleJSON, &c.Lifestyle); err != nil {
			return nil, fmt.Errorf("failed to unmarshal lifestyle: %w", err)
		}
		if err := unmarshalNullable(weatherJSON, &c.Weather); err != nil {
			return nil, fmt.Errorf("failed to unmarshal weather: %w", err)
		}
		if err := unmarshalNullable(reliabilityJSON, &c.Reliability); err != nil {
			return nil, fmt.Errorf("failed to unmarshal reliability: %w", err)
		}

		checkIns = append(checkIns, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating check-ins: %w", err)
	}

	return checkIns, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// marshalNullable marshals a pointer to JSON, keeping SQL NULL for nil.
func marshalNullable[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// unmarshalNullable fills *out only when data is non-NULL.
func unmarshalNullable[T any](data []byte, out **T) error {
	if len(data) == 0 {
		return nil
	}
	v := new(T)
	if err := json.Unmarshal(data, v); err != nil {
		return err
	}
	*out = v
	return nil
}
