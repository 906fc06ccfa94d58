// Package workers contains the async job processors consumed from the
// RabbitMQ queue.
package workers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dermtrack/dermtrack/internal/analytics"
	"github.com/dermtrack/dermtrack/internal/database"
	"github.com/dermtrack/dermtrack/internal/models"
	"github.com/dermtrack/dermtrack/internal/queue"
	"github.com/dermtrack/dermtrack/internal/services/ai"
)

// ReportCache is the slice of the cache the worker needs: storing the
// freshly generated report.
type ReportCache interface {
	Set(ctx context.Context, report *models.EnhancedTrackingReport) error
}

// ReportGenerator processes report generation jobs
type ReportGenerator struct {
	generator    *analytics.Generator
	sessionRepo  database.SessionRepositoryInterface
	analysisRepo database.AnalysisRepositoryInterface
	reportRepo   database.ReportRepositoryInterface
	cache        ReportCache    // optional
	jobQueue     queue.JobQueue // for re-enqueueing jobs with delays
	logger       *zap.Logger
}

// NewReportGenerator creates a new report generation worker
func NewReportGenerator(
	generator *analytics.Generator,
	sessionRepo database.SessionRepositoryInterface,
	analysisRepo database.AnalysisRepositoryInterface,
	reportRepo database.ReportRepositoryInterface,
	cache ReportCache,
	jobQueue queue.JobQueue,
	logger *zap.Logger,
) *ReportGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportGenerator{
		generator:    generator,
		sessionRepo:  sessionRepo,
		analysisRepo: analysisRepo,
		reportRepo:   reportRepo,
		cache:        cache,
		jobQueue:     jobQueue,
		logger:       logger,
	}
}

// ProcessReportJob generates and persists the report for one session
func (w *ReportGenerator) ProcessReportJob(ctx context.Context, job *queue.Job) error {
	session, err := w.sessionRepo.GetByID(ctx, job.SessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	analyses, err := w.analysisRepo.GetForSession(ctx, job.SessionID)
	if err != nil {
		return fmt.Errorf("failed to get session analyses: %w", err)
	}

	// Cross-session history feeds seasonality; losing it degrades the
	// report but never fails the job
	history, err := w.analysisRepo.GetHistory(ctx, job.SessionID)
	if err != nil {
		w.logger.Warn("failed to load analysis history",
			zap.String("session_id", job.SessionID.String()),
			zap.Error(err))
		history = nil
	}

	ctx = context.WithValue(ctx, ai.SessionIDContextKey(), job.SessionID)

	report := w.generator.Generate(ctx, analytics.ReportInput{
		Session:  *session,
		Analyses: analyses,
		History:  history,
	})
	if report == nil {
		w.logger.Info("skipping report: fewer than two resolved check-ins",
			zap.String("session_id", job.SessionID.String()))
		return nil
	}

	if err := w.reportRepo.Save(ctx, report); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	if w.cache != nil {
		if err := w.cache.Set(ctx, report); err != nil {
			w.logger.Warn("failed to cache report",
				zap.String("session_id", job.SessionID.String()),
				zap.Error(err))
		}
	}

	w.logger.Info("generated report",
		zap.String("session_id", job.SessionID.String()),
		zap.String("report_id", report.ID.String()),
		zap.Int("check_ins", len(report.Timeline)),
		zap.Float64("data_confidence", report.DataConfidence))
	return nil
}

// ProcessJob processes a job based on its type
func (w *ReportGenerator) ProcessJob(ctx context.Context, msg queue.MessageInterface) error {
	job := msg.GetJob()

	if !job.ShouldProcess() {
		w.logger.Info("job not ready yet, requeueing",
			zap.String("job_id", job.ID.String()),
			zap.Timep("not_before", job.NotBefore))
		if nackErr := msg.Nack(true); nackErr != nil {
			w.logger.Error("failed to requeue early job", zap.Error(nackErr))
		}
		return nil
	}

	switch job.Type {
	case queue.JobTypeReportGeneration:
		if err := w.ProcessReportJob(ctx, job); err != nil {
			return w.handleJobError(ctx, msg, job, err)
		}
		if ackErr := msg.Ack(); ackErr != nil {
			return fmt.Errorf("failed to ack job: %w", ackErr)
		}
		return nil

	default:
		// Unknown job type, send to DLQ
		if nackErr := msg.Nack(false); nackErr != nil {
			w.logger.Error("failed to nack unknown job type", zap.Error(nackErr))
		}
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

// handleJobError handles job failures. Quota and rate-limit errors from the
// summary provider get delayed retries through the queue; everything else
// uses the standard retry budget and then dead-letters.
func (w *ReportGenerator) handleJobError(ctx context.Context, msg queue.MessageInterface, job *queue.Job, err error) error {
	if ai.IsQuotaError(err) || ai.IsRateLimitError(err) {
		retryDelay := ai.GetRetryDelay(err, job.RetryCount)

		if job.CanRetry() && w.jobQueue != nil {
			notBefore := time.Now().Add(retryDelay)
			delayedJob := &queue.Job{
				ID:         job.ID,
				Type:       job.Type,
				SessionID:  job.SessionID,
				NotBefore:  &notBefore,
				NotAfter:   job.NotAfter,
				Metadata:   job.Metadata,
				CreatedAt:  job.CreatedAt,
				RetryCount: job.RetryCount + 1,
				MaxRetries: job.MaxRetries,
			}

			if ackErr := msg.Ack(); ackErr != nil {
				w.logger.Error("failed to ack job before re-enqueue", zap.Error(ackErr))
			}

			if enqueueErr := w.jobQueue.Enqueue(ctx, delayedJob); enqueueErr != nil {
				w.logger.Error("failed to re-enqueue job with delay",
					zap.String("job_id", job.ID.String()),
					zap.Error(enqueueErr))
				return fmt.Errorf("failed to re-enqueue: %w", enqueueErr)
			}

			w.logger.Warn("summary provider throttled, re-enqueued job",
				zap.String("job_id", job.ID.String()),
				zap.Time("not_before", notBefore),
				zap.Duration("delay", retryDelay))
			return nil
		}

		// No queue access or retries exhausted: dead-letter rather than
		// hammering the provider
		if nackErr := msg.Nack(false); nackErr != nil {
			w.logger.Error("failed to nack throttled job", zap.Error(nackErr))
		}
		return fmt.Errorf("provider throttled (job %s): %w", job.ID, err)
	}

	if job.CanRetry() {
		job.IncrementRetry()
		w.logger.Warn("report job failed, will retry",
			zap.String("job_id", job.ID.String()),
			zap.Int("attempt", job.RetryCount),
			zap.Int("max_retries", job.MaxRetries),
			zap.Error(err))
		if nackErr := msg.Nack(true); nackErr != nil {
			w.logger.Error("failed to nack job", zap.Error(nackErr))
		}
		return fmt.Errorf("job failed (will retry): %w", err)
	}

	w.logger.Error("report job failed after max retries, dead-lettering",
		zap.String("job_id", job.ID.String()),
		zap.Int("max_retries", job.MaxRetries),
		zap.Error(err))
	if nackErr := msg.Nack(false); nackErr != nil {
		w.logger.Error("failed to nack job to DLQ", zap.Error(nackErr))
	}
	return fmt.Errorf("job failed (max retries): %w", err)
}

// Run consumes jobs until the context is cancelled
func (w *ReportGenerator) Run(ctx context.Context, jobQueue queue.JobQueue, prefetch int) error {
	msgs, errs, err := jobQueue.Consume(ctx, prefetch)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case consumeErr, ok := <-errs:
			if !ok {
				return nil
			}
			w.logger.Error("queue consume error", zap.Error(consumeErr))
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			if procErr := w.ProcessJob(ctx, msg); procErr != nil {
				w.logger.Error("job processing failed", zap.Error(procErr))
			}
		}
	}
}
