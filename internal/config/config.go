// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/sethvargo/go-envconfig"
)

// File storage backends.
const (
	FileStorageMemory = "memory"
	FileStorageLocal  = "local"
	FileStorageS3     = "s3"
)

// Static errors for configuration validation.
var (
	// ErrUnknownFileStorage is returned when FILE_STORAGE names no known backend.
	ErrUnknownFileStorage = errors.New("config: FILE_STORAGE must be one of memory, local, s3")
	// ErrS3ConfigIncomplete is returned when FILE_STORAGE=s3 lacks S3_BUCKET or S3_REGION.
	ErrS3ConfigIncomplete = errors.New("config: S3_BUCKET and S3_REGION are required for s3 file storage")
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	Port           int   `env:"PORT, default=8080" json:"port"`
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES, default=10485760" json:"max_upload_bytes"`

	// File storage settings
	FileStorage string `env:"FILE_STORAGE, default=memory" json:"file_storage"` // "memory", "local" or "s3"
	FilesDir    string `env:"FILES_DIR, default=/tmp/dreamjob/files" json:"files_dir"`

	// Optional S3 settings
	S3Bucket           string `env:"S3_BUCKET" json:"s3_bucket,omitempty"`
	S3Region           string `env:"S3_REGION" json:"s3_region,omitempty"`
	S3Endpoint         string `env:"S3_ENDPOINT" json:"s3_endpoint,omitempty"`
	S3Prefix           string `env:"S3_PREFIX" json:"s3_prefix,omitempty"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Optional backing services
	DatabaseURL string `env:"DATABASE_URL" json:"-"` // Masked in JSON, may hold a password
	RedisURL    string `env:"REDIS_URL" json:"-"`    // Masked in JSON, may hold a password

	// Session and login settings
	SessionTTL         time.Duration `env:"SESSION_TTL, default=24h" json:"session_ttl"`
	LoginRatePerMinute int           `env:"LOGIN_RATE_PER_MINUTE, default=10" json:"login_rate_per_minute"`

	// Board data settings
	SeedFile            string        `env:"SEED_FILE" json:"seed_file,omitempty"`
	OrphanSweepSchedule string        `env:"ORPHAN_SWEEP_SCHEDULE" json:"orphan_sweep_schedule,omitempty"` // cron spec, empty disables
	OrphanMinAge        time.Duration `env:"ORPHAN_MIN_AGE, default=10m" json:"orphan_min_age"`

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// Load reads configuration from environment variables using go-envconfig
// and validates it.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the selected backends are fully configured.
func (c *Config) Validate() error {
	switch strings.ToLower(c.FileStorage) {
	case FileStorageMemory, FileStorageLocal:
	case FileStorageS3:
		if !c.S3Enabled() {
			return ErrS3ConfigIncomplete
		}
	default:
		return ErrUnknownFileStorage
	}
	return nil
}

// S3Enabled returns true if S3 configuration is provided.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// DatabaseEnabled returns true if users are stored in PostgreSQL.
func (c *Config) DatabaseEnabled() bool {
	return c.DatabaseURL != ""
}

// RedisEnabled returns true if sessions are stored in Redis.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != ""
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for production.
// Otherwise, it outputs human-readable text logs, colored on a terminal.
func (c *Config) NewLogger() *slog.Logger {
	return c.newLogger(os.Stdout, isatty.IsTerminal(os.Stdout.Fd()))
}

func (c *Config) newLogger(w io.Writer, color bool) *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05.000",
			NoColor:    !color,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Port: %d, FileStorage: %s, FilesDir: %s, S3Bucket: %s, S3Region: %s, Database: %t, Redis: %t, SessionTTL: %s, LogFormat: %s, LogLevel: %s}",
		c.Port,
		c.FileStorage,
		c.FilesDir,
		c.S3Bucket,
		c.S3Region,
		c.DatabaseEnabled(),
		c.RedisEnabled(),
		c.SessionTTL,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
