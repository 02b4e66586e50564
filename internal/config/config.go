package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	JWTIssuer   string

	SessionTTL      time.Duration
	WatchInterval   time.Duration
	CleanupInterval time.Duration
	LoginDelay      time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CORSOrigins  []string
	CookieSecure bool
}

// Load reads configuration from the environment and performs minimal
// validation. DATABASE_URL and REDIS_ADDR are optional: without them the
// server runs on the seeded demo directory and the in-process session
// store.
func Load() (Config, error) {
	cfg := Config{
		Port:          fallback(os.Getenv("PORT"), "8080"),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:     strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:     fallback(os.Getenv("JWT_ISSUER"), "rioporto-p2p"),
		RedisAddr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CORSOrigins:   parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		CookieSecure:  strings.EqualFold(os.Getenv("COOKIE_SECURE"), "true"),
	}

	cfg.SessionTTL = durationFromHours("SESSION_TTL_HOURS", 24)
	cfg.WatchInterval = durationFromSeconds("SESSION_WATCH_SECONDS", 60)
	cfg.CleanupInterval = durationFromSeconds("SESSION_CLEANUP_SECONDS", 300)
	cfg.LoginDelay = durationFromMillis("LOGIN_DELAY_MS", 300)

	if db := strings.TrimSpace(os.Getenv("REDIS_DB")); db != "" {
		if n, err := strconv.Atoi(db); err == nil && n >= 0 {
			cfg.RedisDB = n
		}
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func durationFromHours(key string, def int) time.Duration {
	return lookupDuration(key, def, time.Hour)
}

func durationFromSeconds(key string, def int) time.Duration {
	return lookupDuration(key, def, time.Second)
}

func durationFromMillis(key string, def int) time.Duration {
	return lookupDuration(key, def, time.Millisecond)
}

func lookupDuration(key string, def int, unit time.Duration) time.Duration {
	if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			return time.Duration(n) * unit
		}
	}
	return time.Duration(def) * unit
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
