package config

import (
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/rental-booking/internal/storage"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORAGE_KIND", "")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Storage != storage.KindMemory {
		t.Errorf("Storage = %q, want memory", c.Storage)
	}
	if c.AccessTTL != time.Hour {
		t.Errorf("AccessTTL = %v, want 1h", c.AccessTTL)
	}
	if c.AdminEmail != "admin" {
		t.Errorf("AdminEmail = %q, want admin", c.AdminEmail)
	}
}

func TestLoadReportsAllProblems(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORAGE_KIND", "relational")
	t.Setenv("DB_DRIVER", "oracle")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "rentals")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() succeeded with missing settings")
	}
	for _, want := range []string{"JWT_SECRET", "DB_USER", "oracle"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoadRelational(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORAGE_KIND", "relational")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASS", "")
	t.Setenv("DB_HOST", "pg")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_NAME", "rentals")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.DB.Driver != "postgres" || c.DB.Host != "pg" {
		t.Errorf("DB = %+v", c.DB)
	}
}

func TestRateLimitClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "1m")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	c := LoadRateLimitConfig()
	if c.Capacity != 1 || c.RefillTokens != 1 {
		t.Errorf("Capacity/RefillTokens = %d/%d, want 1/1", c.Capacity, c.RefillTokens)
	}
	if c.TTL != 5*time.Minute {
		t.Errorf("TTL = %v, want 5m", c.TTL)
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_BOOL", "Yes")
	t.Setenv("X_INT", "nope")
	t.Setenv("X_DUR", "250ms")
	if !envBool("X_BOOL", false) {
		t.Error("envBool(Yes) = false")
	}
	if envInt("X_INT", 7) != 7 {
		t.Error("envInt should fall back on parse errors")
	}
	if envDur("X_DUR", 0) != 250*time.Millisecond {
		t.Error("envDur(250ms) mismatch")
	}
	m := parseMethods(" get, head ,")
	if !m["GET"] || !m["HEAD"] || len(m) != 2 {
		t.Errorf("parseMethods() = %v", m)
	}
}

func TestRedisConfigHostPortWins(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6000")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6380")
	if got := LoadRedisConfig().Addr; got != "redis:6380" {
		t.Errorf("Addr = %q, want redis:6380", got)
	}
}
