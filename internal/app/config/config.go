// Package config loads the HTTP server settings from the environment.
// Database and Redis settings live in platform/db and platform/redis.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the HTTP server settings.
type Config struct {
	Port string

	CORSEnabled bool
	CORSOrigins []string

	// JWTSecret enables bearer authentication on /api when non-empty.
	JWTSecret string

	// RateLimitRPS <= 0 disables rate limiting.
	RateLimitRPS   float64
	RateLimitBurst int

	CacheTTL time.Duration

	LogLevel  string
	LogFormat string

	RunMigrations    bool
	MetricsNamespace string
}

// Addr returns the listen address, e.g. ":8080".
func (c Config) Addr() string {
	return ":" + c.Port
}

// Load reads the server settings from the environment.
// Malformed numeric, boolean or duration values are reported rather than silently replaced.
func Load() (Config, error) {
	cfg := Config{
		Port:             getenv("PORT", "8080"),
		CORSOrigins:      splitList(os.Getenv("CORS_ORIGINS")),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		LogFormat:        getenv("LOG_FORMAT", "json"),
		MetricsNamespace: getenv("METRICS_NAMESPACE", "portfolio"),
	}

	var err error
	if cfg.CORSEnabled, err = parseBool("CORS_ENABLED", false); err != nil {
		return cfg, err
	}
	if cfg.RunMigrations, err = parseBool("RUN_MIGRATIONS", true); err != nil {
		return cfg, err
	}
	if cfg.RateLimitRPS, err = parseFloat("RATE_LIMIT_RPS", 10); err != nil {
		return cfg, err
	}
	if cfg.RateLimitBurst, err = parseInt("RATE_LIMIT_BURST", 20); err != nil {
		return cfg, err
	}
	if cfg.CacheTTL, err = parseDuration("CACHE_TTL", 5*time.Minute); err != nil {
		return cfg, err
	}
	if _, err := strconv.ParseUint(cfg.Port, 10, 16); err != nil {
		return cfg, fmt.Errorf("PORT: invalid port %q", cfg.Port)
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBool(key string, fallback bool) (bool, error) {
	v := getenv(key, "")
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	v := getenv(key, "")
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func parseInt(key string, fallback int) (int, error) {
	v := getenv(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := getenv(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
