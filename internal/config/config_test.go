package config

import (
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func setValidEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", testSecret)
}

func TestLoadDefaults(t *testing.T) {
	setValidEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if got := cfg.TokenTTL(); got != 24*time.Hour {
		t.Errorf("TokenTTL = %v, want 24h", got)
	}
	if got := cfg.RevocationSweepInterval(); got != time.Hour {
		t.Errorf("RevocationSweepInterval = %v, want 1h", got)
	}
	if got := cfg.InvitationTTL(); got != 24*time.Hour {
		t.Errorf("InvitationTTL = %v, want 24h", got)
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("Load without JWT_SECRET should fail")
	}
}

func TestLoadRejectsShortJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "too-short")
	if _, err := Load(); err == nil {
		t.Fatal("Load with short JWT_SECRET should fail")
	}
}

func TestLoadRejectsBcryptCostOutOfRange(t *testing.T) {
	setValidEnv(t)
	for _, cost := range []string{"3", "32"} {
		t.Setenv("BCRYPT_COST", cost)
		if _, err := Load(); err == nil {
			t.Errorf("Load with BCRYPT_COST=%s should fail", cost)
		}
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	setValidEnv(t)
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("REVOCATION_SWEEP_INTERVAL", "5m")
	t.Setenv("INVITE_TTL", "48h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9999" {
		t.Errorf("HTTPAddr = %q, want :9999", cfg.HTTPAddr)
	}
	if got := cfg.TokenTTL(); got != 30*time.Minute {
		t.Errorf("TokenTTL = %v, want 30m", got)
	}
	if got := cfg.RevocationSweepInterval(); got != 5*time.Minute {
		t.Errorf("RevocationSweepInterval = %v, want 5m", got)
	}
	if got := cfg.InvitationTTL(); got != 48*time.Hour {
		t.Errorf("InvitationTTL = %v, want 48h", got)
	}
}

func TestDurationFallbacks(t *testing.T) {
	setValidEnv(t)
	t.Setenv("JWT_TTL", "garbage")
	t.Setenv("REVOCATION_SWEEP_INTERVAL", "-1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.TokenTTL(); got != 24*time.Hour {
		t.Errorf("TokenTTL = %v, want fallback 24h", got)
	}
	if got := cfg.RevocationSweepInterval(); got != time.Hour {
		t.Errorf("RevocationSweepInterval = %v, want fallback 1h", got)
	}
}
