package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Scheduler SchedulerConfig
	Logging   LoggingConfig
	Health    HealthConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Host           string
	Port           string
	Password       string
	DB             int
	OutstandingTTL time.Duration
}

type StorageConfig struct {
	Root string
}

type SchedulerConfig struct {
	AuditSpec  string
	WarmupSpec string
	Timezone   string
}

type LoggingConfig struct {
	Level  string
	Format string
}

type HealthConfig struct {
	Timeout time.Duration
}

var defaults = map[string]any{
	"SERVER_PORT":           "8080",
	"SERVER_HOST":           "0.0.0.0",
	"ENV":                   "development",
	"SERVER_READ_TIMEOUT":   "15s",
	"SERVER_WRITE_TIMEOUT":  "30s",
	"SERVER_IDLE_TIMEOUT":   "60s",
	"DB_MAX_OPEN_CONNS":     25,
	"DB_MAX_IDLE_CONNS":     5,
	"DB_CONN_MAX_LIFETIME":  "30m",
	"REDIS_HOST":            "localhost",
	"REDIS_PORT":            "6379",
	"REDIS_DB":              0,
	"OUTSTANDING_CACHE_TTL": "10m",
	"STORAGE_ROOT":          "./uploads",
	"AUDIT_CRON":            "0 30 1 * * *",
	"CACHE_WARMUP_CRON":     "0 */15 * * * *",
	"SCHEDULER_TIMEZONE":    "Africa/Lagos",
	"LOG_LEVEL":             "info",
	"LOG_FORMAT":            "json",
	"HEALTH_CHECK_TIMEOUT":  "5s",
}

// Load reads configuration from environment variables and an optional .env file.
// Variables already present in the environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	config := &Config{
		Server: ServerConfig{
			Port: v.GetString("SERVER_PORT"),
			Host: v.GetString("SERVER_HOST"),
			Env:  v.GetString("ENV"),
		},
		Database: DatabaseConfig{
			URL:          v.GetString("DATABASE_URL"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Storage: StorageConfig{Root: v.GetString("STORAGE_ROOT")},
		Scheduler: SchedulerConfig{
			AuditSpec:  v.GetString("AUDIT_CRON"),
			WarmupSpec: v.GetString("CACHE_WARMUP_CRON"),
			Timezone:   v.GetString("SCHEDULER_TIMEZONE"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

	durations := []struct {
		key    string
		target *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", &config.Server.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", &config.Server.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", &config.Server.IdleTimeout},
		{"DB_CONN_MAX_LIFETIME", &config.Database.ConnMaxLifetime},
		{"OUTSTANDING_CACHE_TTL", &config.Redis.OutstandingTTL},
		{"HEALTH_CHECK_TIMEOUT", &config.Health.Timeout},
	}
	for _, d := range durations {
		parsed, err := time.ParseDuration(v.GetString(d.key))
		if err != nil {
			return nil, fmt.Errorf("invalid configuration: %s must be a valid duration: %w", d.key, err)
		}
		*d.target = parsed
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be greater than 0")
	}

	if c.Redis.OutstandingTTL <= 0 {
		return fmt.Errorf("OUTSTANDING_CACHE_TTL must be greater than 0")
	}

	if c.Storage.Root == "" {
		return fmt.Errorf("STORAGE_ROOT is required")
	}

	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("SCHEDULER_TIMEZONE is not a known location: %w", err)
	}

	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	for key, spec := range map[string]string{"AUDIT_CRON": c.Scheduler.AuditSpec, "CACHE_WARMUP_CRON": c.Scheduler.WarmupSpec} {
		if _, err := parser.Parse(spec); err != nil {
			return fmt.Errorf("%s must be a valid cron spec: %w", key, err)
		}
	}

	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text")
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// DSN returns the connection string handed to the postgres driver.
func (c *DatabaseConfig) DSN() string {
	return c.URL
}

// Address is the listen address of the HTTP server.
func (c *Config) Address() string {
	return c.Server.Host + ":" + c.Server.Port
}

// RedisAddress is the host:port of the Redis server.
func (c *Config) RedisAddress() string {
	return c.Redis.Host + ":" + c.Redis.Port
}

// Location returns the scheduler timezone. Validate has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// NewLogger builds the process logger. Unknown levels fall back to info.
func (c *LoggingConfig) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
