package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ConfigurationError reports missing or unusable store settings. It is fatal:
// the process must not serve traffic after one is returned.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Config holds application configuration values.
type Config struct {
	StoreURL       string
	StoreKey       string
	HTTPPort       string
	LogLevel       string
	QueryTimeout   time.Duration
	AllowedOrigins []string
	RateLimit      float64
	RateBurst      int
}

// Load reads configuration from environment variables with reasonable defaults.
// STORE_URL and STORE_KEY are required.
func Load() (Config, error) {
	storeURL := strings.TrimSpace(os.Getenv("STORE_URL"))
	storeKey := strings.TrimSpace(os.Getenv("STORE_KEY"))
	if storeURL == "" || storeKey == "" {
		return Config{}, &ConfigurationError{Reason: "store credentials not found in environment (STORE_URL, STORE_KEY)"}
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}
	// Validate that port is numeric.
	if _, err := strconv.Atoi(port); err != nil {
		slog.Warn("invalid HTTP_PORT value, defaulting to 8080", "value", port)
		port = "8080"
	}

	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}

	timeout := 10 * time.Second
	if raw := os.Getenv("STORE_QUERY_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return Config{}, &ConfigurationError{Reason: fmt.Sprintf("invalid STORE_QUERY_TIMEOUT %q", raw), Err: err}
		}
		timeout = d
	}

	origins := []string{"*"}
	if raw := os.Getenv("CORS_ALLOWED_ORIGINS"); raw != "" {
		origins = origins[:0]
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
	}

	var rps float64
	if raw := os.Getenv("RATE_LIMIT_RPS"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return Config{}, &ConfigurationError{Reason: fmt.Sprintf("invalid RATE_LIMIT_RPS %q", raw), Err: err}
		}
		rps = v
	}

	burst := 20
	if raw := os.Getenv("RATE_LIMIT_BURST"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return Config{}, &ConfigurationError{Reason: fmt.Sprintf("invalid RATE_LIMIT_BURST %q", raw), Err: err}
		}
		burst = v
	}

	return Config{
		StoreURL:       storeURL,
		StoreKey:       storeKey,
		HTTPPort:       port,
		LogLevel:       level,
		QueryTimeout:   timeout,
		AllowedOrigins: origins,
		RateLimit:      rps,
		RateBurst:      burst,
	}, nil
}
