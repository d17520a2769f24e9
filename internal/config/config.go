// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Job source backends.
const (
	JobSourceSerpAPI = "serpapi"
	JobSourceAdzuna  = "adzuna"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	FrontendURL string
	DBPath      string

	GCPProjectID string

	GeminiAPIKey   string
	ChatModel      string
	EmbedModel     string
	LLMCallTimeout time.Duration

	JobSource          string
	SerpAPIKey         string
	AdzunaAppID        string
	AdzunaKey          string
	DefaultJobLocation string

	SessionIdleTimeout   time.Duration
	SessionSweepInterval time.Duration

	ResumeOutputDir string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		DBPath:      getEnv("DB_PATH", "./data/wellbeing.db"),

		GCPProjectID: getEnv("GCP_PROJECT_ID", ""),

		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		ChatModel:      getEnv("GEMINI_CHAT_MODEL", "gemini-2.5-flash"),
		EmbedModel:     getEnv("GEMINI_EMBED_MODEL", "gemini-embedding-001"),
		LLMCallTimeout: getEnvDuration("LLM_TIMEOUT", 30*time.Second),

		JobSource:          getEnv("JOB_SOURCE", JobSourceSerpAPI),
		SerpAPIKey:         getEnv("SERPAPI_KEY", ""),
		AdzunaAppID:        getEnv("ADZUNA_APP_ID", ""),
		AdzunaKey:          getEnv("ADZUNA_KEY", ""),
		DefaultJobLocation: getEnv("DEFAULT_JOB_LOCATION", "Atlanta, GA"),

		// The original prototype used 60s for both; that is a placeholder,
		// not a production inactivity policy.
		SessionIdleTimeout:   getEnvDuration("SESSION_IDLE_TIMEOUT", 5*time.Minute),
		SessionSweepInterval: getEnvDuration("SESSION_SWEEP_INTERVAL", time.Minute),

		ResumeOutputDir: getEnv("RESUME_OUTPUT_DIR", "./data/resumes"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY must be set")
	}
	if c.GCPProjectID == "" {
		return fmt.Errorf("GCP_PROJECT_ID must be set")
	}
	switch c.JobSource {
	case JobSourceSerpAPI:
		if c.SerpAPIKey == "" {
			return fmt.Errorf("SERPAPI_KEY must be set when JOB_SOURCE=%s", JobSourceSerpAPI)
		}
	case JobSourceAdzuna:
		if c.AdzunaAppID == "" || c.AdzunaKey == "" {
			return fmt.Errorf("ADZUNA_APP_ID and ADZUNA_KEY must be set when JOB_SOURCE=%s", JobSourceAdzuna)
		}
	default:
		return fmt.Errorf("JOB_SOURCE must be %q or %q, got %q", JobSourceSerpAPI, JobSourceAdzuna, c.JobSource)
	}
	if c.SessionIdleTimeout <= 0 {
		return fmt.Errorf("SESSION_IDLE_TIMEOUT must be > 0")
	}
	if c.SessionSweepInterval <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
