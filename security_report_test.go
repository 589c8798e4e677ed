package taskauth

import (
	"bytes"
	"testing"
	"time"
)

func TestSecurityReportReflectsPosture(t *testing.T) {
	env := newTestEnv(t)

	cfg := DefaultConfig()
	cfg.JWT.Secret = bytes.Repeat([]byte("k"), 48)
	cfg.JWT.Issuer = "tasks.example"
	engine, err := New().WithConfig(cfg).WithRedis(env.rdb).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer engine.Close()

	report := engine.SecurityReport()
	if report.SigningAlgorithm != "HS256" {
		t.Fatalf("expected HS256, got %q", report.SigningAlgorithm)
	}
	if report.SessionLifetime != 7*24*time.Hour {
		t.Fatalf("unexpected lifetime %v", report.SessionLifetime)
	}
	if report.BcryptCost != 10 || !report.CookieHardened || !report.IssuerBound {
		t.Fatalf("unexpected posture: %+v", report)
	}
	if report.CookieSameSite != "lax" {
		t.Fatalf("expected lax cookie, got %q", report.CookieSameSite)
	}
	if len(report.Warnings) != 0 {
		t.Fatalf("expected no warnings for defaults, got %v", report.Warnings)
	}
}

func TestSecurityReportWarnsOnWeakSettings(t *testing.T) {
	env := newTestEnv(t)

	cfg := testConfig()
	cfg.Cookie.Secure = false
	engine, err := New().WithConfig(cfg).WithRedis(env.rdb).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer engine.Close()

	report := engine.SecurityReport()
	if report.CookieHardened {
		t.Fatalf("expected insecure test cookie to be reported")
	}

	want := map[string]bool{
		"signing secret shorter than 32 bytes": false,
		"bcrypt cost below 10":                 false,
		"session cookie sent over plain HTTP":  false,
	}
	for _, w := range report.Warnings {
		if _, ok := want[w]; ok {
			want[w] = true
		}
	}
	for w, seen := range want {
		if !seen {
			t.Fatalf("missing warning %q in %v", w, report.Warnings)
		}
	}
}

func TestSecurityReportNilEngine(t *testing.T) {
	var e *Engine
	if r := e.SecurityReport(); r.SigningAlgorithm != "" || r.Warnings != nil {
		t.Fatalf("expected zero report, got %+v", r)
	}
}
