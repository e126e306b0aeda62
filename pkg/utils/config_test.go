package utils

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no .env here

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.OTPTTL() != 5*time.Minute {
		t.Errorf("Expected default OTP TTL 5m, got %v", cfg.OTPTTL())
	}
	if cfg.SessionTTL() != 24*time.Hour {
		t.Errorf("Expected default session TTL 24h, got %v", cfg.SessionTTL())
	}
	if cfg.Notifier.Driver != "log" {
		t.Errorf("Expected default notifier driver 'log', got %q", cfg.Notifier.Driver)
	}
	if len(cfg.App.CORSOrigins) != 1 || cfg.App.CORSOrigins[0] != "*" {
		t.Errorf("Expected CORS origins [*], got %v", cfg.App.CORSOrigins)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("OTP_EXPIRY_MINUTES", "2")
	t.Setenv("NOTIFIER_DRIVER", "REDIS")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.OTPTTL() != 2*time.Minute {
		t.Errorf("Expected OTP TTL 2m, got %v", cfg.OTPTTL())
	}
	if cfg.Notifier.Driver != "redis" {
		t.Errorf("Expected notifier driver 'redis', got %q", cfg.Notifier.Driver)
	}
	if len(cfg.App.CORSOrigins) != 2 || cfg.App.CORSOrigins[1] != "https://b.example" {
		t.Errorf("Unexpected CORS origins %v", cfg.App.CORSOrigins)
	}
}
