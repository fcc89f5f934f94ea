package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"viralclips/internal/poller"
)

// Config holds the gateway settings read from the environment.
type Config struct {
	Port       string
	APIBaseURL string

	PollInterval         time.Duration
	VideoPollMaxAttempts int
	ClipPollMaxAttempts  int
	PollWorkers          int // concurrent backend fetches
	PollQueueSize        int // polls queued or running

	HTTPTimeout time.Duration
	LogLevel    string

	SupabaseURL        string
	SupabaseServiceKey string
	AIServiceAddr      string
	CORSAllowOrigins   string
}

// Load reads the configuration, falling back to defaults for unset variables.
func Load() *Config {
	return &Config{
		Port:       getEnv("PORT", "8080"),
		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8000/api"),

		PollInterval:         getEnvAsDuration("POLL_INTERVAL", poller.DefaultInterval),
		VideoPollMaxAttempts: getEnvAsInt("VIDEO_POLL_MAX_ATTEMPTS", poller.DefaultVideoMaxAttempts),
		ClipPollMaxAttempts:  getEnvAsInt("CLIP_POLL_MAX_ATTEMPTS", poller.DefaultClipMaxAttempts),
		PollWorkers:          getEnvAsInt("POLL_WORKERS", 10),
		PollQueueSize:        getEnvAsInt("POLL_QUEUE_SIZE", 100),

		HTTPTimeout: getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseServiceKey: os.Getenv("SUPABASE_SERVICE_KEY"),
		AIServiceAddr:      os.Getenv("AI_SERVICE_ADDR"),
		CORSAllowOrigins:   getEnv("CORS_ALLOW_ORIGINS", "*"),
	}
}

// VideoPollOptions returns the poll settings for video analysis.
func (c *Config) VideoPollOptions() poller.Options {
	return poller.Options{Interval: c.PollInterval, MaxAttempts: c.VideoPollMaxAttempts}
}

// ClipPollOptions returns the poll settings for clip rendering.
func (c *Config) ClipPollOptions() poller.Options {
	return poller.Options{Interval: c.PollInterval, MaxAttempts: c.ClipPollMaxAttempts}
}

// RecorderEnabled reports whether tracking jobs should be persisted to Supabase.
func (c *Config) RecorderEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseServiceKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts Go durations ("5s") or plain milliseconds ("5000").
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if ms, err := strconv.Atoi(raw); err == nil && ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}
