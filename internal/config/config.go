package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName     string
	AppEnv      string
	Port        string
	ContentPath string
	LogLevel    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Day rollover
	TimeZone             string // IANA name; empty means the system local zone
	RolloverPollInterval time.Duration

	// Counter
	IncrementRateLimit  int
	IncrementRateWindow time.Duration
	NotificationBuffer  int

	// Observability (optional)
	SentryDSN string

	// Backup storage (S3-compatible, optional: empty bucket disables backups)
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string // Optional: for S3-compatible services (MinIO, DO Spaces, R2, etc.)
	BackupInterval  time.Duration
	BackupRetention int
	BackupOnStart   bool
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:     envString("APP_NAME", "Tasbih"),
		AppEnv:      envString("APP_ENV", "development"),
		Port:        envString("PORT", "8090"),
		ContentPath: envString("CONTENT_PATH", "content"),
		LogLevel:    envString("LOG_LEVEL", ""),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/tasbih.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"),

		// Day rollover
		TimeZone:             envString("TIME_ZONE", ""),
		RolloverPollInterval: envDuration("ROLLOVER_POLL_INTERVAL", time.Minute),

		// Counter
		IncrementRateLimit:  envInt("INCREMENT_RATE_LIMIT", 20),
		IncrementRateWindow: envDuration("INCREMENT_RATE_WINDOW", time.Second),
		NotificationBuffer:  envInt("NOTIFICATION_BUFFER", 50),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Backup storage
		S3Region:        envString("S3_REGION", "us-east-1"),
		S3Bucket:        envString("S3_BUCKET", ""),
		S3AccessKey:     envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     envString("S3_SECRET_KEY", ""),
		S3Endpoint:      envString("S3_ENDPOINT", ""),
		BackupInterval:  envDuration("BACKUP_INTERVAL", 24*time.Hour),
		BackupRetention: envInt("BACKUP_RETENTION", 14),
		BackupOnStart:   envBool("BACKUP_ON_START", false),
	}

	return cfg
}

// Location resolves TimeZone. Day keys and the midnight rollover follow it.
func (c *Config) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIME_ZONE %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) BackupEnabled() bool {
	return c.S3Bucket != ""
}
