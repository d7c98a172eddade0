package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfigFile(t, `
dependencies:
  postgres_url: postgres://localhost:5432/notes
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.ServiceID != "Secure-Notes-Service" {
		t.Fatalf("service id: %q", cfg.ServiceID)
	}
	if cfg.HTTPPort != 8080 {
		t.Fatalf("http port: %d", cfg.HTTPPort)
	}
	if cfg.FailedThreshold != 5 {
		t.Fatalf("failed threshold: %d", cfg.FailedThreshold)
	}
	if cfg.FailureWindow != 15*time.Minute {
		t.Fatalf("failure window: %v", cfg.FailureWindow)
	}
	if cfg.LockoutDuration != 15*time.Minute {
		t.Fatalf("lockout duration: %v", cfg.LockoutDuration)
	}
	if cfg.LoginRateLimit != 10 || cfg.LoginRateWindow != time.Minute {
		t.Fatalf("rate limit: %d per %v", cfg.LoginRateLimit, cfg.LoginRateWindow)
	}
	if cfg.SessionIdleTTL != 30*time.Minute || cfg.SessionAbsoluteTTL != 12*time.Hour {
		t.Fatalf("session ttls: %v / %v", cfg.SessionIdleTTL, cfg.SessionAbsoluteTTL)
	}
	if cfg.BcryptCost != 12 {
		t.Fatalf("bcrypt cost: %d", cfg.BcryptCost)
	}
	if cfg.RedisURL != "" {
		t.Fatalf("redis should default to unset, got %q", cfg.RedisURL)
	}
}

func TestLoadConfigFileOverrides(t *testing.T) {
	path := writeConfigFile(t, `
service:
  id: notes-staging
  http_port: 9000
dependencies:
  postgres_url: postgres://db:5432/notes
  redis_url: redis://cache:6379/0
protection:
  failed_threshold: 3
  lockout_minutes: 30
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServiceID != "notes-staging" || cfg.HTTPPort != 9000 {
		t.Fatalf("service overrides: %q %d", cfg.ServiceID, cfg.HTTPPort)
	}
	if cfg.RedisURL != "redis://cache:6379/0" {
		t.Fatalf("redis url: %q", cfg.RedisURL)
	}
	if cfg.FailedThreshold != 3 || cfg.LockoutDuration != 30*time.Minute {
		t.Fatalf("protection overrides: %d %v", cfg.FailedThreshold, cfg.LockoutDuration)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
service:
  http_port: 9000
dependencies:
  postgres_url: postgres://db:5432/notes
`)

	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("FAILED_LOGIN_THRESHOLD", "7")
	t.Setenv("ACCOUNT_LOCKOUT_MINUTES", "45")
	t.Setenv("DB_URL", "postgres://env:5432/notes")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPPort != 9100 {
		t.Fatalf("env port: %d", cfg.HTTPPort)
	}
	if cfg.FailedThreshold != 7 {
		t.Fatalf("env threshold: %d", cfg.FailedThreshold)
	}
	if cfg.LockoutDuration != 45*time.Minute {
		t.Fatalf("env lockout: %v", cfg.LockoutDuration)
	}
	if cfg.DatabaseURL != "postgres://env:5432/notes" {
		t.Fatalf("env db url: %q", cfg.DatabaseURL)
	}
}

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	path := writeConfigFile(t, `
service:
  http_port: 9000
`)

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for missing database url")
	}
}
