package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":8080")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":8080")
	}
	if cfg.JWTIssuer != "clinic-auth" {
		t.Errorf("JWTIssuer = %q, want %q", cfg.JWTIssuer, "clinic-auth")
	}
	if cfg.JWTAudience != "clinic-api" {
		t.Errorf("JWTAudience = %q, want %q", cfg.JWTAudience, "clinic-api")
	}
	if cfg.JWTAccessTTL != "15m" {
		t.Errorf("JWTAccessTTL = %q, want %q", cfg.JWTAccessTTL, "15m")
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr = %q, want empty", cfg.RedisAddr)
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":9090")
	os.Setenv("JWT_ISSUER", "custom-issuer")
	os.Setenv("REDIS_ADDR", "localhost:6379")
	os.Setenv("BCRYPT_COST", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":9090")
	}
	if cfg.JWTIssuer != "custom-issuer" {
		t.Errorf("JWTIssuer = %q, want %q", cfg.JWTIssuer, "custom-issuer")
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q, want localhost:6379", cfg.RedisAddr)
	}
	if cfg.BcryptCost != 4 {
		t.Errorf("BcryptCost = %d, want 4", cfg.BcryptCost)
	}
}

func TestDurations(t *testing.T) {
	cfg := &Config{JWTAccessTTL: "1h", MembershipCacheTTL: "10s", LookupTimeout: "2s"}
	if got := cfg.AccessTTL(); got != time.Hour {
		t.Errorf("AccessTTL = %v, want 1h", got)
	}
	if got := cfg.CacheTTL(); got != 10*time.Second {
		t.Errorf("CacheTTL = %v, want 10s", got)
	}
	if got := cfg.GuardLookupTimeout(); got != 2*time.Second {
		t.Errorf("GuardLookupTimeout = %v, want 2s", got)
	}

	bad := &Config{JWTAccessTTL: "nope", MembershipCacheTTL: "", LookupTimeout: "-1s"}
	if got := bad.AccessTTL(); got != 15*time.Minute {
		t.Errorf("AccessTTL fallback = %v, want 15m", got)
	}
	if got := bad.CacheTTL(); got != 30*time.Second {
		t.Errorf("CacheTTL fallback = %v, want 30s", got)
	}
	if got := bad.GuardLookupTimeout(); got != 3*time.Second {
		t.Errorf("GuardLookupTimeout fallback = %v, want 3s", got)
	}
}
