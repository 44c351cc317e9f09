package config

import (
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/immopilot")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("CORS_ORIGINS", "http://localhost:4200")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.GetAsynqQueueName() != "audit" {
		t.Fatalf("expected default queue audit, got %q", cfg.GetAsynqQueueName())
	}
	if cfg.GetAuditDispatchInterval() != 2*time.Second {
		t.Fatalf("expected 2s dispatch interval, got %s", cfg.GetAuditDispatchInterval())
	}
	if cfg.GetDefaultPhoneRegion() != "FR" {
		t.Fatalf("expected FR phone region, got %q", cfg.GetDefaultPhoneRegion())
	}
	if !cfg.GetMigrationsEnabled() {
		t.Fatal("expected migrations enabled by default")
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_ACCESS_SECRET", "secret")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is empty")
	}
}

func TestLoadRejectsWildcardWithCredentials(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/immopilot")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("CORS_ORIGINS", "*")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for wildcard origins with credentials")
	}
}

func TestMustDurationFallsBack(t *testing.T) {
	if got := mustDuration("nope", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback, got %s", got)
	}
	if got := mustDuration("-5s", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for negative duration, got %s", got)
	}
}
