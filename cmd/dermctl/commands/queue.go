package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dermtrack/dermtrack/internal/config"
	"github.com/dermtrack/dermtrack/internal/queue"
)

// NewQueueCmd creates the queue management command.
func NewQueueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Manage the report generation queue",
	}
	cmd.AddCommand(newQueueHealthCmd())
	cmd.AddCommand(newQueuePurgeDLQCmd())
	cmd.AddCommand(newQueueEnqueueCmd())
	return cmd
}

func connectQueue() (*queue.RabbitMQQueue, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	q, err := queue.NewRabbitMQQueue(cfg.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	return q, nil
}

func newQueueHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check broker connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := connectQueue()
			if err != nil {
				return err
			}
			defer func() {
				_ = q.Close()
			}()
			if err := q.HealthCheck(context.Background()); err != nil {
				return fmt.Errorf("queue unhealthy: %w", err)
			}
			fmt.Println("Queue is healthy.")
			return nil
		},
	}
}

func newQueuePurgeDLQCmd() *cobra.Command {
	var retention time.Duration

	cmd := &cobra.Command{
		Use:   "purge-dlq",
		Short: "Purge old messages from the dead letter queue",
		Long:  "Remove dead-lettered report jobs older than the retention window. Newer messages stay queued for inspection.",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := connectQueue()
			if err != nil {
				return err
			}
			defer func() {
				_ = q.Close()
			}()

			purged, err := q.PurgeOlderThan(context.Background(), retention)
			if err != nil {
				return fmt.Errorf("purge dlq: %w", err)
			}
			fmt.Printf("Purged %d message(s) older than %s.\n", purged, retention)
			return nil
		},
	}

	cmd.Flags().DurationVar(&retention, "retention", 24*time.Hour, "Keep messages newer than this")
	return cmd
}

func newQueueEnqueueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enqueue <session-id>",
		Short: "Enqueue report generation for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid session id: %w", err)
			}

			q, err := connectQueue()
			if err != nil {
				return err
			}
			defer func() {
				_ = q.Close()
			}()

			job := queue.NewJob(queue.JobTypeReportGeneration, sessionID)
			if err := q.Enqueue(context.Background(), job); err != nil {
				return fmt.Errorf("enqueue job: %w", err)
			}
			fmt.Fprintf(os.Stdout, "Queued job %s for session %s.\n", job.ID, sessionID)
			return nil
		},
	}
}
