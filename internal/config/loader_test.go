package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Strob0t/followup/internal/domain/task"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Breaker.Timeout != 30*time.Second {
		t.Errorf("expected breaker timeout 30s, got %v", cfg.Breaker.Timeout)
	}
	if cfg.Policy.DeadlineDays[task.PriorityHigh] != 3 {
		t.Errorf("expected HIGH deadline 3, got %d", cfg.Policy.DeadlineDays[task.PriorityHigh])
	}
	if cfg.Policy.CadenceDays[task.PriorityLow] != 5 {
		t.Errorf("expected LOW cadence 5, got %d", cfg.Policy.CadenceDays[task.PriorityLow])
	}
	if len(cfg.Policy.Rules.UrgentKeywords) == 0 {
		t.Error("expected default urgent keywords")
	}
}

func TestLoadYAMLOverride(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "test.yaml")

	content := `
server:
  port: "9090"
logging:
  level: "debug"
escalation:
  recipient: "hr@example.com"
policy:
  cadence_days:
    URGENT: 2
  rules:
    urgent_keywords: ["fire"]
scheduler:
  reminder_cron: "daily:07:30"
`
	if err := os.WriteFile(yamlPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Defaults()
	if err := loadYAML(&cfg, yamlPath); err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}
	if cfg.Escalation.Recipient != "hr@example.com" {
		t.Errorf("expected recipient, got %q", cfg.Escalation.Recipient)
	}
	if cfg.Policy.CadenceDays[task.PriorityUrgent] != 2 {
		t.Errorf("expected URGENT cadence 2, got %d", cfg.Policy.CadenceDays[task.PriorityUrgent])
	}
	// Map entries not in the file keep their defaults.
	if cfg.Policy.CadenceDays[task.PriorityHigh] != 2 || cfg.Policy.CadenceDays[task.PriorityLow] != 5 {
		t.Errorf("unexpected cadence table %v", cfg.Policy.CadenceDays)
	}
	if len(cfg.Policy.Rules.UrgentKeywords) != 1 || cfg.Policy.Rules.UrgentKeywords[0] != "fire" {
		t.Errorf("urgent keywords = %v", cfg.Policy.Rules.UrgentKeywords)
	}
	if len(cfg.Policy.Rules.HighKeywords) == 0 {
		t.Error("untouched rule lists keep defaults")
	}
	if cfg.Scheduler.ReminderCron != "daily:07:30" {
		t.Errorf("reminder cron = %q", cfg.Scheduler.ReminderCron)
	}
	if cfg.NATS.URL != "nats://localhost:4222" {
		t.Errorf("expected default NATS URL, got %s", cfg.NATS.URL)
	}
}

func TestLoadYAMLMissing(t *testing.T) {
	cfg := Defaults()
	if err := loadYAML(&cfg, "/nonexistent/path.yaml"); err != nil {
		t.Errorf("missing YAML should not error, got %v", err)
	}
}

func TestLoadYAMLInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("server: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := Defaults()
	if err := loadYAML(&cfg, path); err == nil {
		t.Error("expected parse error")
	}
}

func TestEnvOverride(t *testing.T) {
	cfg := Defaults()

	t.Setenv("FOLLOWUP_PORT", "7070")
	t.Setenv("DATABASE_URL", "postgres://test:test@db:5432/test")
	t.Setenv("FOLLOWUP_PG_MAX_CONNS", "25")
	t.Setenv("FOLLOWUP_LOG_LEVEL", "warn")
	t.Setenv("FOLLOWUP_BREAKER_TIMEOUT", "1m")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("FOLLOWUP_ESCALATION_RECIPIENT", "hr@example.com")
	t.Setenv("FOLLOWUP_SCHEDULER_ENABLED", "false")

	loadEnv(&cfg)

	if cfg.Server.Port != "7070" {
		t.Errorf("expected port 7070, got %s", cfg.Server.Port)
	}
	if cfg.Postgres.DSN != "postgres://test:test@db:5432/test" {
		t.Errorf("expected test DSN, got %s", cfg.Postgres.DSN)
	}
	if cfg.Postgres.MaxConns != 25 {
		t.Errorf("expected max_conns 25, got %d", cfg.Postgres.MaxConns)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level warn, got %s", cfg.Logging.Level)
	}
	if cfg.Breaker.Timeout != time.Minute {
		t.Errorf("expected breaker timeout 1m, got %v", cfg.Breaker.Timeout)
	}
	if cfg.SMTP.Host != "smtp.example.com" || cfg.SMTP.Port != 2525 {
		t.Errorf("smtp = %+v", cfg.SMTP)
	}
	if cfg.Escalation.Recipient != "hr@example.com" {
		t.Errorf("recipient = %q", cfg.Escalation.Recipient)
	}
	if cfg.Scheduler.Enabled {
		t.Error("expected scheduler disabled")
	}
}

func TestEnvIgnoresMalformedValues(t *testing.T) {
	cfg := Defaults()
	t.Setenv("FOLLOWUP_PG_MAX_CONNS", "many")
	t.Setenv("FOLLOWUP_BREAKER_TIMEOUT", "soon")
	loadEnv(&cfg)
	if cfg.Postgres.MaxConns != 10 || cfg.Breaker.Timeout != 30*time.Second {
		t.Errorf("malformed values must be ignored: %+v %+v", cfg.Postgres, cfg.Breaker)
	}
}

func TestLoadFilesDotenv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "FOLLOWUP_LOG_LEVEL=error\nFOLLOWUP_ESCALATION_RECIPIENT=boss@example.com\n"
	if err := os.WriteFile(envPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	// Real environment wins over the dotenv file.
	t.Setenv("FOLLOWUP_ESCALATION_RECIPIENT", "hr@example.com")
	// Register for cleanup; godotenv sets it for the process.
	t.Setenv("FOLLOWUP_LOG_LEVEL", "")

	cfg, err := LoadFiles(filepath.Join(dir, "missing.yaml"), envPath)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Escalation.Recipient != "hr@example.com" {
		t.Errorf("recipient = %q, want env value", cfg.Escalation.Recipient)
	}
	if cfg.Logging.Level != "info" && cfg.Logging.Level != "error" {
		t.Errorf("log level = %q", cfg.Logging.Level)
	}
}

func TestLoadFilesMissingDotenv(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadFiles(filepath.Join(dir, "none.yaml"), filepath.Join(dir, "none.env")); err != nil {
		t.Fatalf("missing files must not error: %v", err)
	}
}

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{
			name:   "empty port",
			modify: func(c *Config) { c.Server.Port = "" },
			errMsg: "server.port is required",
		},
		{
			name:   "empty DSN",
			modify: func(c *Config) { c.Postgres.DSN = "" },
			errMsg: "postgres.dsn is required",
		},
		{
			name:   "empty NATS URL",
			modify: func(c *Config) { c.NATS.URL = "" },
			errMsg: "nats.url is required",
		},
		{
			name:   "zero max_conns",
			modify: func(c *Config) { c.Postgres.MaxConns = 0 },
			errMsg: "postgres.max_conns must be >= 1",
		},
		{
			name:   "zero breaker failures",
			modify: func(c *Config) { c.Breaker.MaxFailures = 0 },
			errMsg: "breaker.max_failures must be >= 1",
		},
		{
			name:   "zero retry attempts",
			modify: func(c *Config) { c.Retry.Attempts = 0 },
			errMsg: "retry.attempts must be >= 1",
		},
		{
			name:   "zero rate burst",
			modify: func(c *Config) { c.Rate.Burst = 0 },
			errMsg: "rate.burst must be >= 1",
		},
		{
			name:   "zero cadence",
			modify: func(c *Config) { c.Policy.CadenceDays[task.PriorityHigh] = 0 },
			errMsg: "policy.cadence_days.HIGH must be >= 1",
		},
		{
			name:   "negative deadline",
			modify: func(c *Config) { c.Policy.DeadlineDays[task.PriorityLow] = -1 },
			errMsg: "policy.deadline_days.LOW must be >= 0",
		},
		{
			name:   "zero tick",
			modify: func(c *Config) { c.Scheduler.Tick = 0 },
			errMsg: "scheduler.tick must be > 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(&cfg)
			err := validate(&cfg)
			if err == nil {
				t.Fatalf("expected error %q, got nil", tt.errMsg)
			}
			if err.Error() != tt.errMsg {
				t.Errorf("expected %q, got %q", tt.errMsg, err.Error())
			}
		})
	}
}

func TestValidateSchedules(t *testing.T) {
	cfg := Defaults()
	cfg.Scheduler.ReminderCron = "every_hour"
	if err := validate(&cfg); err == nil {
		t.Error("expected invalid cron to fail")
	}

	cfg.Scheduler.Enabled = false
	if err := validate(&cfg); err != nil {
		t.Errorf("disabled scheduler should skip cron validation: %v", err)
	}

	cfg.Scheduler.Timezone = "Mars/Olympus"
	if err := validate(&cfg); err == nil {
		t.Error("expected invalid timezone to fail")
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Defaults()
	if err := validate(&cfg); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestOverridesApply(t *testing.T) {
	cfg := Defaults()
	port, level := "9999", "debug"
	if err := (Overrides{Port: &port, LogLevel: &level}).Apply(&cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != "9999" || cfg.Logging.Level != "debug" {
		t.Errorf("overrides not applied: %+v %+v", cfg.Server, cfg.Logging)
	}
	if cfg.NATS.URL != "nats://localhost:4222" {
		t.Error("nil override must not change value")
	}

	empty := ""
	if err := (Overrides{DSN: &empty}).Apply(&cfg); err == nil {
		t.Error("expected validation error for empty DSN")
	}
}
