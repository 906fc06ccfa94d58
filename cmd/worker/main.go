package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/dermtrack/dermtrack/internal/analytics"
	"github.com/dermtrack/dermtrack/internal/cache"
	"github.com/dermtrack/dermtrack/internal/config"
	"github.com/dermtrack/dermtrack/internal/database"
	"github.com/dermtrack/dermtrack/internal/logger"
	"github.com/dermtrack/dermtrack/internal/queue"
	"github.com/dermtrack/dermtrack/internal/services/ai"
	"github.com/dermtrack/dermtrack/internal/services/ingredients"
	"github.com/dermtrack/dermtrack/internal/workers"
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug mode for LLM API logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.WorkerDebugMode || *debugFlag

	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Sync(zapLogger)
	}()

	zapLogger.Info("starting_worker",
		zap.Bool("debug_mode", debugMode),
		zap.String("ai_model", cfg.AIModel),
	)

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_database")

	sessionRepo := database.NewSessionRepository(db)
	analysisRepo := database.NewAnalysisRepository(db)
	reportRepo := database.NewReportRepository(db)

	jobQueue, err := queue.NewRabbitMQQueue(cfg.RabbitMQURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_rabbitmq", zap.Error(err))
	}
	defer func() {
		if err := jobQueue.Close(); err != nil {
			zapLogger.Warn("failed_to_close_rabbitmq_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_rabbitmq", zap.Int("prefetch", cfg.RabbitMQPrefetch))

	// The report cache is optional; a fresh report is still written to
	// Postgres when Redis is unavailable.
	var reportCache workers.ReportCache
	if rc, err := cache.NewReportCache(cfg.RedisURL, cfg.ReportCacheTTL); err != nil {
		zapLogger.Warn("report_cache_unavailable", zap.Error(err))
	} else {
		defer func() {
			if err := rc.Close(); err != nil {
				zapLogger.Warn("failed_to_close_report_cache", zap.Error(err))
			}
		}()
		reportCache = rc
	}

	// The summary section degrades to nil without an API key; everything
	// statistical still runs.
	var summaries analytics.SummaryProvider
	if cfg.OpenAIKey != "" {
		summaries = ai.NewOpenAIProviderWithLogger(
			cfg.OpenAIKey,
			cfg.AIBaseURL,
			cfg.AIModel,
			zapLogger,
			debugMode,
		)
		zapLogger.Info("initialized_summary_provider", zap.String("model", cfg.AIModel))
	} else {
		zapLogger.Warn("openai_api_key_not_configured_summaries_disabled")
	}

	generator := &analytics.Generator{
		Summaries:   summaries,
		Ingredients: ingredients.New(nil),
	}

	worker := workers.NewReportGenerator(
		generator,
		sessionRepo,
		analysisRepo,
		reportRepo,
		reportCache,
		jobQueue,
		zapLogger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	runErr := make(chan error, 1)
	go func() {
		runErr <- worker.Run(ctx, jobQueue, cfg.RabbitMQPrefetch)
	}()

	zapLogger.Info("worker_started")

	select {
	case <-sigChan:
		zapLogger.Info("shutdown_signal_received")
		cancel()
		<-runErr
	case err := <-runErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			zapLogger.Fatal("worker_stopped_with_error", zap.Error(err))
		}
	}

	zapLogger.Info("worker_stopped")
}
