// Package config handles application configuration.
//
// Configuration is environment-sourced with sensible defaults; main loads a
// .env file first so local runs behave like deployed ones.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/vibelab/channel-dna-api/internal/models"
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	Port           string
	GinMode        string // "debug", "release", or "test"
	AllowedOrigins []string

	// Optional static key guarding the analysis endpoints. Empty = open.
	ServiceAPIKey string

	// Optional Postgres history store. Empty = disabled.
	DatabaseURL string

	// Apify transcript actor
	ApifyToken   string
	ApifyActorID string
	ApifyTimeout time.Duration // per fetch attempt

	// Pipeline limits
	MaxTranscriptChars int
	DefaultConcurrency int

	// Gemini generation
	GeminiAPIKey          string
	GoogleCloudProject    string
	GeminiLocation        string
	GeminiModel           string
	MaxOutputTokens       int
	RepairMaxOutputTokens int // 0 = same ceiling as the first attempt
}

// Load reads configuration from environment variables with defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		AllowedOrigins: []string{getEnv("CORS_ORIGIN", "*")},

		ServiceAPIKey: getEnv("SERVICE_API_KEY", ""),
		DatabaseURL:   getEnv("DATABASE_URL", ""),

		ApifyToken:   getEnv("APIFY_TOKEN", ""),
		ApifyActorID: getEnv("APIFY_ACTOR_ID", "starvibe~youtube-video-transcript"),
		ApifyTimeout: time.Duration(getEnvInt("APIFY_TIMEOUT_SEC", 120)) * time.Second,

		MaxTranscriptChars: getEnvInt("MAX_TRANSCRIPT_CHARS", 18000),
		DefaultConcurrency: getEnvInt("CONCURRENCY", 4),

		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),
		GoogleCloudProject:    firstEnv("GOOGLE_CLOUD_PROJECT", "GCP_PROJECT", "PROJECT_ID"),
		GeminiLocation:        getEnv("GEMINI_LOCATION", "us-central1"),
		GeminiModel:           getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		MaxOutputTokens:       getEnvInt("GEMINI_MAX_OUTPUT_TOKENS", 2048),
		RepairMaxOutputTokens: getEnvInt("GEMINI_REPAIR_MAX_OUTPUT_TOKENS", 0),
	}

	if cfg.DefaultConcurrency < 1 || cfg.DefaultConcurrency > models.MaxConcurrency {
		return nil, fmt.Errorf("CONCURRENCY must be between 1 and %d, got %d", models.MaxConcurrency, cfg.DefaultConcurrency)
	}

	if cfg.GeminiAPIKey == "" && cfg.GoogleCloudProject == "" {
		return nil, fmt.Errorf("set GEMINI_API_KEY or GOOGLE_CLOUD_PROJECT (or GCP_PROJECT/PROJECT_ID)")
	}

	return cfg, nil
}

// getEnv reads an environment variable with a fallback default.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvInt reads an integer environment variable with a fallback.
func getEnvInt(key string, fallback int) int {
	str := getEnv(key, "")
	if str == "" {
		return fallback
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return fallback
	}
	return val
}

// firstEnv returns the first non-empty value among the given variables.
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}
