package config

import (
	"log/slog"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("BOOKCS_API_URL", "https://api.bookcs.test")
	for _, key := range []string{
		"BOOKCS_SITE_URL", "BOOKCS_PORT", "BOOKCS_API_RATE", "BOOKCS_API_BURST",
		"BOOKCS_API_RETRIES", "BOOKCS_API_TIMEOUT", "BOOKCS_MANAGE_LOGS",
		"BOOKCS_LOG_LEVEL", "BOOKCS_ALLOWED_ORIGINS", "BOOKCS_MANAGE_USERNAME",
		"BOOKCS_MANAGE_PASSWORD_HASH",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("BOOKCS_TIMEZONE", "UTC")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("could not load config %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config should be valid %v", err)
	}
	if cfg.Port != 3000 || cfg.APIRetries != 0 || cfg.APITimeout != 0 || cfg.ManageLogs {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.APIRateLimit != 10 || cfg.APIBurst != 5 || cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Location != time.UTC {
		t.Fatalf("expected UTC got %v", cfg.Location)
	}
	if len(cfg.AllowedOrigins) != 0 {
		t.Fatalf("expected no origins got %v", cfg.AllowedOrigins)
	}
	if cfg.ManageUsername != "admin" || cfg.ManagePasswordHash != "" {
		t.Fatalf("unexpected management defaults %+v", cfg)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("BOOKCS_API_URL", "https://api.bookcs.test")
	t.Setenv("BOOKCS_PORT", "8080")
	t.Setenv("BOOKCS_API_TIMEOUT", "5s")
	t.Setenv("BOOKCS_MANAGE_LOGS", "true")
	t.Setenv("BOOKCS_MANAGE_USERNAME", "operator")
	t.Setenv("BOOKCS_MANAGE_PASSWORD_HASH", "")
	t.Setenv("BOOKCS_LOG_LEVEL", "io")
	t.Setenv("BOOKCS_ALLOWED_ORIGINS", "https://a.test, https://b.test,")
	t.Setenv("BOOKCS_TIMEZONE", "America/Toronto")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("could not load config %v", err)
	}
	if cfg.Port != 8080 || cfg.APITimeout != 5*time.Second || !cfg.ManageLogs || cfg.ManageUsername != "operator" {
		t.Fatalf("overrides not applied %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.test" {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
	if cfg.Location.String() != "America/Toronto" {
		t.Fatalf("unexpected location %v", cfg.Location)
	}
}

func TestFromEnvErrors(t *testing.T) {
	t.Setenv("BOOKCS_PORT", "three thousand")
	if _, err := FromEnv(); err == nil {
		t.Fatalf("expected an error for a bad port")
	}

	t.Setenv("BOOKCS_PORT", "")
	t.Setenv("BOOKCS_API_URL", "")
	t.Setenv("BOOKCS_TIMEZONE", "UTC")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("loading should not need the api url %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation to require the api url")
	}
}

func TestValidateManagePassword(t *testing.T) {
	cfg := &Config{APIURL: "https://api.bookcs.test", ManageLogs: true}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("the log stream should need an operator password")
	}

	cfg.ManagePasswordHash = "plain text"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected an error for a hash that is not bcrypt")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("could not hash %v", err)
	}
	cfg.ManagePasswordHash = string(hash)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config should be valid %v", err)
	}

	cfg.ManageLogs = false
	cfg.ManagePasswordHash = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("no password is needed without the log stream %v", err)
	}
}
