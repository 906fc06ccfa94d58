package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/dermtrack/dermtrack/internal/database"
	"github.com/dermtrack/dermtrack/internal/models"
	"github.com/dermtrack/dermtrack/internal/queue"
)

// ReportReader is the slice of the cache the handler needs
type ReportReader interface {
	Get(ctx context.Context, sessionID uuid.UUID) (*models.EnhancedTrackingReport, error)
	Set(ctx context.Context, report *models.EnhancedTrackingReport) error
}

// ReportHandler serves generated reports and queues generation jobs.
// Generation itself runs in the worker; the API only reads and enqueues.
type ReportHandler struct {
	sessionRepo database.SessionRepositoryInterface
	reportRepo  database.ReportRepositoryInterface
	cache       ReportReader // optional
	jobQueue    queue.JobQueue
}

// NewReportHandler creates a new report handler
func NewReportHandler(sessionRepo database.SessionRepositoryInterface, reportRepo database.ReportRepositoryInterface, cache ReportReader, jobQueue queue.JobQueue) *ReportHandler {
	return &ReportHandler{
		sessionRepo: sessionRepo,
		reportRepo:  reportRepo,
		cache:       cache,
		jobQueue:    jobQueue,
	}
}

// RegisterRoutes registers report routes on the given router.
// The router should already have the /sessions prefix.
func (h *ReportHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/{id}/report", h.GetReport).Methods("GET")
	r.HandleFunc("/{id}/report", h.RequestReport).Methods("POST")
}

// ReportQueuedResponse acknowledges an accepted generation request
type ReportQueuedResponse struct {
	JobID     uuid.UUID `json:"job_id"`
	SessionID uuid.UUID `json:"session_id"`
	Status    string    `json:"status"`
}

// GetReport returns the current report for a session, cache first
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	id, ok := parseSessionID(w, r)
	if !ok {
		return
	}

	ctx := r.Context()

	if h.cache != nil {
		if report, err := h.cache.Get(ctx, id); err == nil && report != nil {
			respondJSON(w, http.StatusOK, report)
			return
		}
	}

	report, err := h.reportRepo.GetBySessionID(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load report")
		return
	}
	if report == nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Report has not been generated for this session")
		return
	}

	// Re-warm the cache on a database hit
	if h.cache != nil {
		_ = h.cache.Set(ctx, report)
	}

	respondJSON(w, http.StatusOK, report)
}

// RequestReport enqueues report generation for a session
func (h *ReportHandler) RequestReport(w http.ResponseWriter, r *http.Request) {
	id, ok := parseSessionID(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	if _, err := h.sessionRepo.GetByID(ctx, id); err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Session not found")
		return
	}

	job := queue.NewJob(queue.JobTypeReportGeneration, id)
	if err := h.jobQueue.Enqueue(ctx, job); err != nil {
		respondJSONError(w, http.StatusServiceUnavailable, "Service Unavailable", "Failed to queue report generation")
		return
	}

	respondJSON(w, http.StatusAccepted, ReportQueuedResponse{
		JobID:     job.ID,
		SessionID: id,
		Status:    "queued",
	})
}
