// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is the dotenv file Load reads when it exists.
const DefaultEnvFile = ".env"

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// RedisURL selects the Redis in-flight guard when set. Empty keeps the
	// guard in process memory.
	RedisURL string

	// SinkURL seeds the sync target on first boot. It never overrides a
	// value already stored in settings.
	SinkURL string

	// SyncAutoDelay is the pause between closing a trip and its automatic sync.
	SyncAutoDelay time.Duration

	// SyncReleaseDelay is how long a trip stays in flight after a sync attempt.
	SyncReleaseDelay time.Duration

	// MaxBodyBytes caps request body size.
	MaxBodyBytes int64
}

// Load reads configuration from the environment, falling back to values in
// DefaultEnvFile. A missing file is not an error.
func Load() (Config, error) {
	return LoadFile(DefaultEnvFile)
}

// LoadFile is Load with an explicit dotenv path. Process environment always
// wins over the file, and the file never modifies the process environment.
// Returns an error listing any required variables that are not set, or naming
// the first variable whose value cannot be parsed.
func LoadFile(path string) (Config, error) {
	fileVals, err := godotenv.Read(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	env := lookup(fileVals)

	cfg := Config{
		Port:        env.get("PORT", "8080"),
		LogLevel:    env.get("LOG_LEVEL", "info"),
		CORSOrigins: splitCSV(env.get("CORS_ORIGINS", "http://localhost:5173")),
		RedisURL:    env.get("REDIS_URL", ""),
		SinkURL:     env.get("SINK_URL", ""),
	}

	if cfg.SyncAutoDelay, err = env.duration("SYNC_AUTO_DELAY", time.Second); err != nil {
		return Config{}, err
	}
	if cfg.SyncReleaseDelay, err = env.duration("SYNC_RELEASE_DELAY", 2*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.MaxBodyBytes, err = env.positiveInt("MAX_BODY_BYTES", 1<<20); err != nil {
		return Config{}, err
	}

	var missing []string

	cfg.DatabaseURL = env.get("DATABASE_URL", "")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// lookup resolves a key from the process environment, then the dotenv values.
type lookup map[string]string

// get returns the value named by key, or fallback if it is unset or empty.
func (l lookup) get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if v := l[key]; v != "" {
		return v
	}
	return fallback
}

func (l lookup) duration(key string, fallback time.Duration) (time.Duration, error) {
	raw := l.get(key, "")
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s %q: want a non-negative duration such as 1s or 500ms", key, raw)
	}
	return d, nil
}

func (l lookup) positiveInt(key string, fallback int64) (int64, error) {
	raw := l.get(key, "")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: want a positive integer", key, raw)
	}
	return n, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
