package app

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tcsservices/loginportal/pkg/jwtx"
)

type Config struct {
	Issuer     string   // Required: issuer claim for tokens
	Audiences  []string // Optional: audiences tokens must validate against (comma separated)
	SigningKey string   // Required: HS256 signing key, at least 32 bytes

	DatabaseFile  string // Optional: path to SQLite database file (default: ./portal.db)
	CookieDomain  string // Optional: domain attribute on portal cookies (default: .tcsservices.com)
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	RefreshWindow time.Duration

	Env                  string // Environment (dev, staging, prod) (default: dev)
	LogLevel             string // Log level (debug, info, warn, error) (default: info)
	LogFormat            string // Log format (json, text) (default: json)
	Port                 int    // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration
	HousekeepingInterval time.Duration
}

var errMissingSigningKey = errors.New("PORTAL_SIGNING_KEY is required and must be at least 32 bytes")

func LoadConfig() (Config, error) {
	cfg := Config{
		Issuer:               getEnvOrDefault("PORTAL_ISSUER", "loginportal"),
		Audiences:            splitCSV(os.Getenv("PORTAL_AUDIENCES")),
		SigningKey:           os.Getenv("PORTAL_SIGNING_KEY"),
		DatabaseFile:         getEnvOrDefault("PORTAL_DATABASE_FILE", "portal.db"),
		CookieDomain:         getEnvOrDefault("PORTAL_COOKIE_DOMAIN", ".tcsservices.com"),
		AccessTTL:            getEnvDurationOrDefault("PORTAL_ACCESS_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTTL:           getEnvDurationOrDefault("PORTAL_REFRESH_TTL", jwtx.DefaultRefreshTokenTTL),
		RefreshWindow:        getEnvDurationOrDefault("PORTAL_REFRESH_WINDOW", 5*time.Minute),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	if len(cfg.SigningKey) < jwtx.MinKeyBytes {
		return Config{}, errMissingSigningKey
	}

	return cfg, nil
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are read as minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
