package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/dermtrack/dermtrack/internal/analytics"
	"github.com/dermtrack/dermtrack/internal/database"
	"github.com/dermtrack/dermtrack/internal/models"
	"github.com/dermtrack/dermtrack/internal/validation"
)

const (
	// MaxNoteLength is the maximum length for session and check-in notes
	MaxNoteLength = 2000
	// MaxProducts is the maximum number of products per session or check-in
	MaxProducts = 50
)

// ReportInvalidator drops cached reports whose inputs changed
type ReportInvalidator interface {
	Invalidate(ctx context.Context, sessionID uuid.UUID) error
}

// SessionHandler handles tracking session requests
type SessionHandler struct {
	sessionRepo  database.SessionRepositoryInterface
	analysisRepo database.AnalysisRepositoryInterface
	cache        ReportInvalidator // optional
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionRepo database.SessionRepositoryInterface, analysisRepo database.AnalysisRepositoryInterface, cache ReportInvalidator) *SessionHandler {
	return &SessionHandler{
		sessionRepo:  sessionRepo,
		analysisRepo: analysisRepo,
		cache:        cache,
	}
}

// RegisterRoutes registers session routes on the given router.
// The router should already have the /sessions prefix.
func (h *SessionHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.CreateSession).Methods("POST")
	r.HandleFunc("/{id}", h.GetSession).Methods("GET")
	r.HandleFunc("/{id}/complete", h.CompleteSession).Methods("POST")
	r.HandleFunc("/{id}/checkins", h.AddCheckIn).Methods("POST")
}

// CreateSessionRequest represents a create session request
type CreateSessionRequest struct {
	StartDate *time.Time `json:"start_date,omitempty"`
	Products  []string   `json:"products,omitempty" validate:"max=50"`
	Note      string     `json:"note,omitempty" validate:"max=2000"`
}

// AddCheckInRequest represents an add check-in request. An analysis may be
// attached inline or referenced by id; both are optional at capture time.
type AddCheckInRequest struct {
	Day         int                  `json:"day" validate:"check_in_day"`
	CaptureDate *time.Time           `json:"capture_date,omitempty"`
	Analysis    *models.SkinAnalysis `json:"analysis,omitempty"`
	AnalysisID  *uuid.UUID           `json:"analysis_id,omitempty"`
	Products    []string             `json:"products,omitempty" validate:"max=50"`
	Note        string               `json:"note,omitempty" validate:"max=2000"`
	Feeling     *models.Feeling      `json:"feeling,omitempty" validate:"omitempty,feeling"`

	PhotoConditions *models.PhotoConditions  `json:"photo_conditions,omitempty"`
	Lifestyle       *models.LifestyleFactors `json:"lifestyle,omitempty"`
	Weather         *models.WeatherSnapshot  `json:"weather,omitempty"`
}

// CreateSession starts a new tracking session
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	start := time.Now()
	if req.StartDate != nil {
		start = *req.StartDate
	}

	session := &models.TrackingSession{
		ID:        uuid.New(),
		StartDate: start,
		Status:    models.SessionStatusActive,
		Products:  sanitizeProducts(req.Products),
		Note:      validation.SanitizeText(req.Note),
	}

	if err := h.sessionRepo.Create(r.Context(), session); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create session")
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

// GetSession retrieves a session with its check-ins
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := parseSessionID(w, r)
	if !ok {
		return
	}

	session, err := h.sessionRepo.GetByID(r.Context(), id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Session not found")
		return
	}

	respondJSON(w, http.StatusOK, session)
}

// CompleteSession marks a session completed
func (h *SessionHandler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := parseSessionID(w, r)
	if !ok {
		return
	}

	session, err := h.sessionRepo.GetByID(r.Context(), id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Session not found")
		return
	}
	if session.Status != models.SessionStatusActive {
		respondJSONError(w, http.StatusConflict, "Conflict", "Session is not active")
		return
	}

	if err := h.sessionRepo.Complete(r.Context(), id); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to complete session")
		return
	}

	session, err = h.sessionRepo.GetByID(r.Context(), id)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to reload session")
		return
	}

	respondJSON(w, http.StatusOK, session)
}

// AddCheckIn appends a check-in to an active session. Reliability metadata
// is scored server-side at capture time and stored with the row.
func (h *SessionHandler) AddCheckIn(w http.ResponseWriter, r *http.Request) {
	id, ok := parseSessionID(w, r)
	if !ok {
		return
	}

	var req AddCheckInRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	ctx := r.Context()
	session, err := h.sessionRepo.GetByID(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Session not found")
		return
	}
	if session.Status != models.SessionStatusActive {
		respondJSONError(w, http.StatusConflict, "Conflict", "Check-ins can only be added to an active session")
		return
	}

	captureDate := time.Now()
	if req.CaptureDate != nil {
		captureDate = *req.CaptureDate
	}

	analysis, analysisID, err := h.resolveAnalysis(ctx, &req)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to store analysis")
		return
	}

	checkIn := models.CheckIn{
		ID:              uuid.New(),
		SessionID:       session.ID,
		Day:             req.Day,
		CaptureDate:     captureDate,
		AnalysisID:      analysisID,
		Products:        sanitizeProducts(req.Products),
		Note:            validation.SanitizeText(req.Note),
		Feeling:         req.Feeling,
		PhotoConditions: req.PhotoConditions,
		Lifestyle:       req.Lifestyle,
		Weather:         req.Weather,
	}

	reliability := analytics.ScoreCheckIn(checkIn, analysis, session.StartDate,
		analytics.ModalCameraPosition(session.CheckIns))
	checkIn.Reliability = &reliability

	if err := h.sessionRepo.AddCheckIn(ctx, &checkIn); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to add check-in")
		return
	}

	// A new check-in makes any cached report stale
	if h.cache != nil {
		_ = h.cache.Invalidate(ctx, session.ID)
	}

	respondJSON(w, http.StatusCreated, checkIn)
}

// resolveAnalysis stores an inline analysis or loads a referenced one.
// A missing reference degrades to nil rather than failing the check-in.
func (h *SessionHandler) resolveAnalysis(ctx context.Context, req *AddCheckInRequest) (*models.SkinAnalysis, *uuid.UUID, error) {
	if req.Analysis != nil {
		analysis := req.Analysis
		if analysis.ID == uuid.Nil {
			analysis.ID = uuid.New()
		}
		if analysis.AnalyzedAt.IsZero() {
			analysis.AnalyzedAt = time.Now()
		}
		if err := h.analysisRepo.Create(ctx, analysis); err != nil {
			return nil, nil, err
		}
		id := analysis.ID
		return analysis, &id, nil
	}

	if req.AnalysisID != nil {
		analysis, err := h.analysisRepo.GetByID(ctx, *req.AnalysisID)
		if err != nil {
			return nil, req.AnalysisID, nil
		}
		return analysis, req.AnalysisID, nil
	}

	return nil, nil, nil
}

func parseSessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid session ID")
		return uuid.Nil, false
	}
	return id, true
}

func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large",
				fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return false
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return false
	}
	return true
}

func respondValidationError(w http.ResponseWriter, err error) {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			respondJSONError(w, http.StatusBadRequest, "Bad Request",
				fmt.Sprintf("Validation failed: %s", fieldError.Error()))
			return
		}
	}
	respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed")
}

func sanitizeProducts(products []string) []string {
	if len(products) > MaxProducts {
		products = products[:MaxProducts]
	}
	out := make([]string, 0, len(products))
	for _, p := range products {
		if s := validation.SanitizeText(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
