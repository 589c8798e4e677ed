package taskauth

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/MrEthical07/taskauth/jwt"
)

func TestDefaultConfigNeedsOnlySecret(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); !errors.Is(err, jwt.ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}

	cfg.JWT.Secret = []byte("s")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	if cfg.Session.Lifetime != 7*24*time.Hour || cfg.Password.Cost != 10 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Cookie.Name != "session" || !cfg.Cookie.Secure || cfg.Cookie.SameSite != http.SameSiteLaxMode || cfg.Cookie.Path != "/" {
		t.Fatalf("unexpected cookie defaults %+v", cfg.Cookie)
	}
}

func TestConfigValidateRejects(t *testing.T) {
	cases := map[string]func(*Config){
		"lifetime":      func(c *Config) { c.Session.Lifetime = 0 },
		"prefix":        func(c *Config) { c.Session.RedisPrefix = " " },
		"leeway":        func(c *Config) { c.JWT.Leeway = time.Hour },
		"cost low":      func(c *Config) { c.Password.Cost = 1 },
		"cost high":     func(c *Config) { c.Password.Cost = 99 },
		"cookie name":   func(c *Config) { c.Cookie.Name = "bad name" },
		"cookie path":   func(c *Config) { c.Cookie.Path = "api" },
		"samesite none": func(c *Config) { c.Cookie.SameSite = http.SameSiteNoneMode; c.Cookie.Secure = false },
		"timeout":       func(c *Config) { c.Store.OperationTimeout = 0 },
		"user prefix":   func(c *Config) { c.Store.UserRedisPrefix = "" },
		"audit buffer":  func(c *Config) { c.Audit.Enabled = true; c.Audit.BufferSize = 0 },
	}

	for name, mutate := range cases {
		cfg := testConfig()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestBuilderRequiresStores(t *testing.T) {
	if _, err := New().WithConfig(testConfig()).Build(); err == nil {
		t.Fatal("expected error without stores")
	}
}

func TestBuilderSingleUse(t *testing.T) {
	env := newTestEnv(t)

	b := New().WithConfig(testConfig()).WithRedis(env.rdb)
	if _, err := b.Build(); err != nil {
		t.Fatalf("first Build failed: %v", err)
	}
	if _, err := b.Build(); err == nil {
		t.Fatal("expected second Build to fail")
	}
}

func TestBuilderCopiesSecret(t *testing.T) {
	env := newTestEnv(t)
	cfg := testConfig()
	b := New().WithConfig(cfg).WithRedis(env.rdb)
	cfg.JWT.Secret[0] ^= 0xff

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()
	engine.now = env.clock.Now

	issued, err := engine.IssueSession(t.Context(), nil, "u1")
	if err != nil {
		t.Fatalf("IssueSession failed: %v", err)
	}
	if _, ok := env.engine.tokens.Decode(issued.Token); !ok {
		t.Fatal("mutating the caller's config must not change the engine secret")
	}
}
