package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration.
// It merges file defaults and environment overrides to support both local and deployed runs.
type Config struct {
	ServiceID string

	HTTPPort int

	DatabaseURL string
	RedisURL    string

	BcryptCost int

	FailedThreshold int
	FailureWindow   time.Duration
	LockoutDuration time.Duration

	LoginRateLimit  int
	LoginRateWindow time.Duration

	SessionIdleTTL     time.Duration
	SessionAbsoluteTTL time.Duration

	MaxDBConns int32
}

// configFile mirrors the YAML schema used by configs/default.yaml.
// It is intentionally separate from Config so runtime-only fields stay internal.
type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL string `yaml:"postgres_url"`
		RedisURL    string `yaml:"redis_url"`
	} `yaml:"dependencies"`
	Protection struct {
		FailedThreshold       int `yaml:"failed_threshold"`
		FailureWindowMinutes  int `yaml:"failure_window_minutes"`
		LockoutMinutes        int `yaml:"lockout_minutes"`
		LoginRateLimit        int `yaml:"login_rate_limit"`
		LoginRateWindowSecond int `yaml:"login_rate_window_seconds"`
	} `yaml:"protection"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
// This order keeps local bootstrap simple while allowing environment-specific overrides.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:          "Secure-Notes-Service",
		HTTPPort:           8080,
		BcryptCost:         12,
		FailedThreshold:    5,
		FailureWindow:      15 * time.Minute,
		LockoutDuration:    15 * time.Minute,
		LoginRateLimit:     10,
		LoginRateWindow:    time.Minute,
		SessionIdleTTL:     30 * time.Minute,
		SessionAbsoluteTTL: 12 * time.Hour,
		MaxDBConns:         20,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if f.Protection.FailedThreshold > 0 {
			cfg.FailedThreshold = f.Protection.FailedThreshold
		}
		if f.Protection.FailureWindowMinutes > 0 {
			cfg.FailureWindow = time.Duration(f.Protection.FailureWindowMinutes) * time.Minute
		}
		if f.Protection.LockoutMinutes > 0 {
			cfg.LockoutDuration = time.Duration(f.Protection.LockoutMinutes) * time.Minute
		}
		if f.Protection.LoginRateLimit > 0 {
			cfg.LoginRateLimit = f.Protection.LoginRateLimit
		}
		if f.Protection.LoginRateWindowSecond > 0 {
			cfg.LoginRateWindow = time.Duration(f.Protection.LoginRateWindowSecond) * time.Second
		}
	}

	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)

	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.BcryptCost = envInt("BCRYPT_ROUNDS", cfg.BcryptCost)
	cfg.FailedThreshold = envInt("FAILED_LOGIN_THRESHOLD", cfg.FailedThreshold)
	cfg.LoginRateLimit = envInt("LOGIN_RATE_LIMIT", cfg.LoginRateLimit)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))

	cfg.FailureWindow = time.Duration(envInt("FAILURE_WINDOW_MINUTES", int(cfg.FailureWindow.Minutes()))) * time.Minute
	cfg.LockoutDuration = time.Duration(envInt("ACCOUNT_LOCKOUT_MINUTES", int(cfg.LockoutDuration.Minutes()))) * time.Minute
	cfg.LoginRateWindow = time.Duration(envInt("LOGIN_RATE_WINDOW_SECONDS", int(cfg.LoginRateWindow.Seconds()))) * time.Second
	cfg.SessionIdleTTL = time.Duration(envInt("SESSION_IDLE_MINUTES", int(cfg.SessionIdleTTL.Minutes()))) * time.Minute
	cfg.SessionAbsoluteTTL = time.Duration(envInt("SESSION_ABSOLUTE_HOURS", int(cfg.SessionAbsoluteTTL.Hours()))) * time.Hour

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DB_URL/POSTGRES_URL")
	}

	return cfg, nil
}

// envOrDefault returns an env var when present, otherwise the provided fallback.
func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envInt parses integer env vars with safe fallback on empty/invalid values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
