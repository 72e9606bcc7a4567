package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultEndpoint is the evaluation backend address used when nothing else is configured
const DefaultEndpoint = "http://localhost:8000"

// Config holds the application configuration
type Config struct {
	// Backend
	APIEndpoint      string
	HTTPTimeout      time.Duration
	EscapeReportPath bool

	// Logging
	LogLevel  string
	LogFormat string // "console" or "json"
}

// Load loads the configuration from environment variables.
// Values from files are applied first; real environment variables win.
func Load(files ...string) (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load(files...)

	timeout, err := time.ParseDuration(getEnv("HTTP_TIMEOUT", "30s"))
	if err != nil {
		return nil, &ConfigError{Field: "HTTP_TIMEOUT", Message: err.Error()}
	}

	escape, err := strconv.ParseBool(getEnv("ESCAPE_REPORT_PATH", "true"))
	if err != nil {
		return nil, &ConfigError{Field: "ESCAPE_REPORT_PATH", Message: "must be a boolean"}
	}

	return &Config{
		APIEndpoint:      strings.TrimRight(getEnv("API_ENDPOINT", DefaultEndpoint), "/"),
		HTTPTimeout:      timeout,
		EscapeReportPath: escape,
		LogLevel:         strings.ToLower(getEnv("LOG_LEVEL", "warn")),
		LogFormat:        strings.ToLower(getEnv("LOG_FORMAT", "console")),
	}, nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Validate validates the configuration
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIEndpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &ConfigError{Field: "API_ENDPOINT", Message: "must be an absolute http(s) URL"}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &ConfigError{Field: "API_ENDPOINT", Message: "scheme must be 'http' or 'https'"}
	}
	if c.HTTPTimeout <= 0 {
		return &ConfigError{Field: "HTTP_TIMEOUT", Message: "must be positive"}
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		return &ConfigError{Field: "LOG_FORMAT", Message: "must be 'console' or 'json'"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
