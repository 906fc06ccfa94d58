package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"

	"github.com/dermtrack/dermtrack/internal/cache"
	"github.com/dermtrack/dermtrack/internal/config"
	"github.com/dermtrack/dermtrack/internal/database"
	"github.com/dermtrack/dermtrack/internal/handlers"
	"github.com/dermtrack/dermtrack/internal/logger"
	"github.com/dermtrack/dermtrack/internal/middleware"
	"github.com/dermtrack/dermtrack/internal/queue"
	"github.com/dermtrack/dermtrack/internal/telemetry"
)

const serviceName = "dermtrack-api"

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Sync(zapLogger)
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("ai_model", cfg.AIModel),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// OpenTelemetry tracing, when configured
	var tracerEnabled bool
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), serviceName, cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				tracerEnabled = true
				zapLogger.Info("otel_tracer_initialized", zap.String("endpoint", cfg.OTELEndpoint))
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

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

	// Redis backs both the rate limiter and the report cache. The cache is
	// optional; the API serves reports from Postgres when Redis is down.
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		zapLogger.Fatal("invalid_redis_url", zap.Error(err))
	}
	redisClient := redis.NewClient(redisOpts)
	defer func() {
		if err := redisClient.Close(); err != nil {
			zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
		}
	}()

	reportCache, err := cache.NewReportCache(cfg.RedisURL, cfg.ReportCacheTTL)
	if err != nil {
		zapLogger.Warn("report_cache_unavailable", zap.Error(err))
		reportCache = nil
	} else {
		defer func() {
			if err := reportCache.Close(); err != nil {
				zapLogger.Warn("failed_to_close_report_cache", zap.Error(err))
			}
		}()
		zapLogger.Info("connected_to_report_cache")
	}

	jobQueue := connectQueue(cfg.RabbitMQURL, zapLogger)
	defer func() {
		if err := jobQueue.Close(); err != nil {
			zapLogger.Warn("failed_to_close_rabbitmq_connection", zap.Error(err))
		}
	}()

	sessionRepo := database.NewSessionRepository(db)
	analysisRepo := database.NewAnalysisRepository(db)
	reportRepo := database.NewReportRepository(db)

	// Typed-nil interfaces would defeat the handlers' nil checks, so the
	// optional cache is only assigned when it actually connected.
	var invalidator handlers.ReportInvalidator
	var reader handlers.ReportReader
	var pinger handlers.CachePinger
	if reportCache != nil {
		invalidator = reportCache
		reader = reportCache
		pinger = reportCache
	}

	sessionHandler := handlers.NewSessionHandler(sessionRepo, analysisRepo, invalidator)
	reportHandler := handlers.NewReportHandler(sessionRepo, reportRepo, reader, jobQueue)
	healthChecker := handlers.NewHealthChecker(db, pinger, jobQueue)

	r := mux.NewRouter()

	// Middleware runs in registration order; outermost first.
	if tracerEnabled {
		r.Use(otelmux.Middleware(serviceName))
	}
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.Logging(zapLogger))
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(middleware.DefaultRequestTimeout))

	rateLimitMW, err := middleware.RateLimit(redisClient, cfg.RateLimit)
	if err != nil {
		zapLogger.Fatal("failed_to_create_rate_limiter", zap.Error(err))
	}

	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	r.HandleFunc("/version", handlers.VersionHandler).Methods("GET")

	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	sessionsRouter := apiRouter.PathPrefix("/sessions").Subrouter()
	sessionsRouter.Use(rateLimitMW)
	sessionHandler.RegisterRoutes(sessionsRouter)
	reportHandler.RegisterRoutes(sessionsRouter)

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	gcCtx, gcCancel := context.WithCancel(context.Background())
	defer gcCancel()

	// Expired report jobs accumulate in the DLQ; purge them hourly
	if dlqPurger, ok := jobQueue.(queue.DLQPurger); ok {
		dlqGC := queue.NewGarbageCollector(dlqPurger, 1*time.Hour, 24*time.Hour, zapLogger)
		go func() {
			if err := dlqGC.Start(gcCtx); err != nil && err != context.Canceled {
				zapLogger.Error("dlq_garbage_collector_stopped_with_error", zap.Error(err))
			}
		}()
		zapLogger.Info("started_dlq_garbage_collector",
			zap.Duration("interval", 1*time.Hour),
			zap.Duration("retention", 24*time.Hour),
		)
	}

	go func() {
		zapLogger.Info("server_starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")
	gcCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}

// connectQueue dials RabbitMQ with exponential backoff to ride out broker
// startup delays. The queue is required; exhausting retries is fatal.
func connectQueue(amqpURL string, zapLogger *zap.Logger) queue.JobQueue {
	const maxRetries = 10
	const initialDelay = 2 * time.Second

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		jobQueue, err := queue.NewRabbitMQQueue(amqpURL)
		if err == nil {
			zapLogger.Info("connected_to_rabbitmq")
			return jobQueue
		}

		lastErr = err
		delay := initialDelay * time.Duration(1<<uint(attempt))
		if delay > 30*time.Second {
			delay = 30 * time.Second
		}
		zapLogger.Warn("failed_to_connect_to_rabbitmq_retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries),
			zap.Error(err),
			zap.Duration("retry_delay", delay),
		)
		time.Sleep(delay)
	}

	zapLogger.Fatal("failed_to_connect_to_rabbitmq_after_retries",
		zap.Int("max_retries", maxRetries),
		zap.Error(lastErr),
	)
	return nil
}
