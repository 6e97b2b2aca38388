package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Strob0t/followup/internal/domain/schedule"
	"github.com/Strob0t/followup/internal/domain/task"
)

const (
	// DefaultConfigFile is the path checked for YAML configuration.
	DefaultConfigFile = "followup.yaml"
	// DefaultEnvFile is the dotenv file loaded into the environment.
	DefaultEnvFile = ".env"
)

// Load returns a Config using the hierarchy: defaults < YAML < .env < ENV.
// FOLLOWUP_CONFIG overrides the YAML path. Both files are optional.
func Load() (*Config, error) {
	path := DefaultConfigFile
	if p := os.Getenv("FOLLOWUP_CONFIG"); p != "" {
		path = p
	}
	return LoadFiles(path, DefaultEnvFile)
}

// LoadFrom returns a Config loaded from the given YAML path and the default
// dotenv file.
func LoadFrom(yamlPath string) (*Config, error) {
	return LoadFiles(yamlPath, DefaultEnvFile)
}

// LoadFiles returns a Config from the given YAML and dotenv paths. Values
// already present in the process environment win over the dotenv file.
func LoadFiles(yamlPath, envPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	if err := loadDotenv(envPath); err != nil {
		return nil, fmt.Errorf("config dotenv: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: operator-supplied path
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadDotenv exports the variables of a dotenv file without overriding
// variables that are already set. A missing file is not an error.
func loadDotenv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "FOLLOWUP_PORT")
	setString(&cfg.Server.CORSOrigin, "FOLLOWUP_CORS_ORIGIN")
	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setInt32(&cfg.Postgres.MaxConns, "FOLLOWUP_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "FOLLOWUP_PG_MIN_CONNS")
	setDuration(&cfg.Postgres.MaxConnLifetime, "FOLLOWUP_PG_MAX_CONN_LIFETIME")
	setDuration(&cfg.Postgres.MaxConnIdleTime, "FOLLOWUP_PG_MAX_CONN_IDLE_TIME")
	setDuration(&cfg.Postgres.HealthCheck, "FOLLOWUP_PG_HEALTH_CHECK")
	setString(&cfg.NATS.URL, "NATS_URL")
	setString(&cfg.NATS.Stream, "FOLLOWUP_NATS_STREAM")
	setString(&cfg.Logging.Level, "FOLLOWUP_LOG_LEVEL")
	setString(&cfg.Logging.Service, "FOLLOWUP_LOG_SERVICE")
	setBool(&cfg.Logging.Async, "FOLLOWUP_LOG_ASYNC")
	setInt(&cfg.Breaker.MaxFailures, "FOLLOWUP_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "FOLLOWUP_BREAKER_TIMEOUT")
	setInt(&cfg.Retry.Attempts, "FOLLOWUP_RETRY_ATTEMPTS")
	setDuration(&cfg.Retry.Backoff, "FOLLOWUP_RETRY_BACKOFF")
	setFloat64(&cfg.Rate.RequestsPerSecond, "FOLLOWUP_RATE_RPS")
	setInt(&cfg.Rate.Burst, "FOLLOWUP_RATE_BURST")
	setString(&cfg.Idempotency.Bucket, "FOLLOWUP_IDEMPOTENCY_BUCKET")
	setDuration(&cfg.Idempotency.TTL, "FOLLOWUP_IDEMPOTENCY_TTL")

	// Cache
	setInt64(&cfg.Cache.L1MaxSizeMB, "FOLLOWUP_CACHE_L1_SIZE_MB")
	setString(&cfg.Cache.L2Bucket, "FOLLOWUP_CACHE_L2_BUCKET")
	setDuration(&cfg.Cache.L2TTL, "FOLLOWUP_CACHE_L2_TTL")
	setDuration(&cfg.Cache.DirectoryTTL, "FOLLOWUP_CACHE_DIRECTORY_TTL")

	// Mail
	setString(&cfg.SMTP.Host, "SMTP_HOST")
	setInt(&cfg.SMTP.Port, "SMTP_PORT")
	setString(&cfg.SMTP.Username, "SMTP_USERNAME")
	setString(&cfg.SMTP.Password, "SMTP_PASSWORD")
	setString(&cfg.SMTP.From, "SMTP_FROM")

	// Escalation
	setString(&cfg.Escalation.Recipient, "FOLLOWUP_ESCALATION_RECIPIENT")
	setString(&cfg.Escalation.SlackWebhookURL, "FOLLOWUP_SLACK_WEBHOOK_URL")
	setString(&cfg.Escalation.DiscordWebhookURL, "FOLLOWUP_DISCORD_WEBHOOK_URL")

	// Scheduler
	setBool(&cfg.Scheduler.Enabled, "FOLLOWUP_SCHEDULER_ENABLED")
	setString(&cfg.Scheduler.ReminderCron, "FOLLOWUP_REMINDER_CRON")
	setString(&cfg.Scheduler.EscalationCron, "FOLLOWUP_ESCALATION_CRON")
	setString(&cfg.Scheduler.Timezone, "FOLLOWUP_TIMEZONE")
	setDuration(&cfg.Scheduler.Tick, "FOLLOWUP_SCHEDULER_TICK")

	// OpenTelemetry
	setBool(&cfg.OTEL.Enabled, "FOLLOWUP_OTEL_ENABLED")
	setString(&cfg.OTEL.Endpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	setBool(&cfg.OTEL.Insecure, "FOLLOWUP_OTEL_INSECURE")
	setString(&cfg.OTEL.ServiceName, "OTEL_SERVICE_NAME")
	setFloat64(&cfg.OTEL.SampleRate, "FOLLOWUP_OTEL_SAMPLE_RATE")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	if cfg.NATS.URL == "" {
		return errors.New("nats.url is required")
	}
	if cfg.Postgres.MaxConns < 1 {
		return errors.New("postgres.max_conns must be >= 1")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	if cfg.Retry.Attempts < 1 {
		return errors.New("retry.attempts must be >= 1")
	}
	if cfg.Rate.Burst < 1 {
		return errors.New("rate.burst must be >= 1")
	}
	for _, p := range []task.Priority{task.PriorityUrgent, task.PriorityHigh, task.PriorityMedium, task.PriorityLow} {
		if d, ok := cfg.Policy.DeadlineDays[p]; ok && d < 0 {
			return fmt.Errorf("policy.deadline_days.%s must be >= 0", p)
		}
		if c, ok := cfg.Policy.CadenceDays[p]; ok && c < 1 {
			return fmt.Errorf("policy.cadence_days.%s must be >= 1", p)
		}
	}
	if _, err := time.LoadLocation(cfg.Scheduler.Timezone); err != nil {
		return fmt.Errorf("scheduler.timezone: %w", err)
	}
	if cfg.Scheduler.Enabled {
		if err := schedule.Validate(cfg.Scheduler.ReminderCron); err != nil {
			return fmt.Errorf("scheduler.reminder_cron: %w", err)
		}
		if err := schedule.Validate(cfg.Scheduler.EscalationCron); err != nil {
			return fmt.Errorf("scheduler.escalation_cron: %w", err)
		}
		if cfg.Scheduler.Tick <= 0 {
			return errors.New("scheduler.tick must be > 0")
		}
	}
	return nil
}

// Location returns the scheduler time zone, UTC if it cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
