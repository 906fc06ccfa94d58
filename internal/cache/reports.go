// Package cache provides Redis-backed caching for generated reports.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dermtrack/dermtrack/internal/models"
)

// ReportCache stores serialized reports in Redis keyed by session id.
// A miss is not an error; callers fall back to the database.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache creates a report cache from a Redis URL.
func NewReportCache(redisURL string, ttl time.Duration) (*ReportCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &ReportCache{client: client, ttl: ttl}, nil
}

func reportKey(sessionID uuid.UUID) string {
	return "report:" + sessionID.String()
}

// Get returns the cached report for a session, nil on a miss.
func (c *ReportCache) Get(ctx context.Context, sessionID uuid.UUID) (*models.EnhancedTrackingReport, error) {
	data, err := c.client.Get(ctx, reportKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached report: %w", err)
	}

	report := &models.EnhancedTrackingReport{}
	if err := json.Unmarshal(data, report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached report: %w", err)
	}
	return report, nil
}

// Set stores a report with the configured TTL.
func (c *ReportCache) Set(ctx context.Context, report *models.EnhancedTrackingReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := c.client.Set(ctx, reportKey(report.SessionID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache report: %w", err)
	}
	return nil
}

// Invalidate drops the cached report for a session. Called when a new
// check-in lands so stale reports never outlive their inputs.
func (c *ReportCache) Invalidate(ctx context.Context, sessionID uuid.UUID) error {
	if err := c.client.Del(ctx, reportKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached report: %w", err)
	}
	return nil
}

// Ping verifies connectivity for health checks.
func (c *ReportCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying Redis client.
func (c *ReportCache) Close() error {
	return c.client.Close()
}
