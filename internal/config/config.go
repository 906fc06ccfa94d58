package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration. Environment variables win; an
// optional CONFIG_FILE YAML overlay fills whatever they leave unset.
type Config struct {
	DatabaseURL      string        `yaml:"database_url"`
	ServerPort       string        `yaml:"server_port"`
	BaseURL          string        `yaml:"base_url"`
	CORSOrigins      []string      `yaml:"cors_origins"`
	RateLimit        string        `yaml:"rate_limit"`
	OpenAIKey        string        `yaml:"openai_api_key"`
	AIModel          string        `yaml:"ai_model"`
	AIBaseURL        string        `yaml:"ai_base_url"`
	EnableHSTS       bool          `yaml:"enable_hsts"`
	RedisURL         string        `yaml:"redis_url"`
	RabbitMQURL      string        `yaml:"rabbitmq_url"`
	RabbitMQPrefetch int           `yaml:"rabbitmq_prefetch"`
	ReportCacheTTL   time.Duration `yaml:"report_cache_ttl"`
	WorkerDebugMode  bool          `yaml:"worker_debug_mode"`
	ServerDebugMode  bool          `yaml:"server_debug_mode"`
	OTELEnabled      bool          `yaml:"otel_enabled"`
	OTELEndpoint     string        `yaml:"otel_endpoint"`
}

// Load builds configuration from the environment plus the optional YAML
// overlay named by CONFIG_FILE.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		BaseURL:          getEnv("BASE_URL", "http://localhost:8080"),
		CORSOrigins:      splitEnv("CORS_ORIGINS"),
		RateLimit:        getEnv("RATE_LIMIT", "60-M"),
		OpenAIKey:        getEnv("OPENAI_API_KEY", ""),
		AIModel:          getEnv("AI_MODEL", ""),
		AIBaseURL:        getEnv("AI_BASE_URL", ""),
		EnableHSTS:       getEnvBool("ENABLE_HSTS", false),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RabbitMQURL:      getEnv("RABBITMQ_URL", ""),
		RabbitMQPrefetch: getEnvInt("RABBITMQ_PREFETCH", 1),
		ReportCacheTTL:   getEnvDuration("REPORT_CACHE_TTL", 24*time.Hour),
		WorkerDebugMode:  getEnvBool("WORKER_DEBUG_MODE", false),
		ServerDebugMode:  getEnvBool("SERVER_DEBUG_MODE", false),
		OTELEnabled:      getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:     getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := applyOverlay(cfg, path); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.RabbitMQURL == "" {
		return nil, fmt.Errorf("RABBITMQ_URL is required for report generation jobs")
	}

	return cfg, nil
}

// applyOverlay fills zero-valued fields from the YAML file. Environment
// values already set are never overwritten.
func applyOverlay(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing yaml: %w", err)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = overlay.DatabaseURL
	}
	if cfg.OpenAIKey == "" {
		cfg.OpenAIKey = overlay.OpenAIKey
	}
	if cfg.AIModel == "" {
		cfg.AIModel = overlay.AIModel
	}
	if cfg.AIBaseURL == "" {
		cfg.AIBaseURL = overlay.AIBaseURL
	}
	if cfg.RabbitMQURL == "" {
		cfg.RabbitMQURL = overlay.RabbitMQURL
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = overlay.CORSOrigins
	}
	if cfg.OTELEndpoint == "" {
		cfg.OTELEndpoint = overlay.OTELEndpoint
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitEnv(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
