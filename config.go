package taskauth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/MrEthical07/taskauth/jwt"
	"github.com/MrEthical07/taskauth/password"
	"github.com/MrEthical07/taskauth/session"
	"github.com/MrEthical07/taskauth/user"
	"golang.org/x/crypto/bcrypt"
)

// Config is the complete engine configuration. Start from [DefaultConfig] and
// override fields; [Builder.Build] validates it.
type Config struct {
	JWT      JWTConfig
	Session  SessionConfig
	Password PasswordConfig
	Cookie   CookieConfig
	Store    StoreConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig controls session token signing. Secret is required and is copied
// on Build.
type JWTConfig struct {
	Secret []byte
	Issuer string
	Leeway time.Duration
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls session lifetime and Redis key layout.
type SessionConfig struct {
	// Lifetime applies to the token, the cookie, and the stored record alike.
	Lifetime    time.Duration
	RedisPrefix string
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig controls the bcrypt work factor.
type PasswordConfig struct {
	Cost int
	// UpgradeOnLogin re-hashes digests whose cost differs from Cost after a
	// successful login.
	UpgradeOnLogin bool
}

/*
====================================
COOKIE CONFIG
====================================
*/

// CookieConfig describes the session cookie written by HTTP transports.
type CookieConfig struct {
	Name     string
	Path     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

/*
====================================
STORE CONFIG
====================================
*/

// StoreConfig bounds every store call.
type StoreConfig struct {
	OperationTimeout time.Duration
	UserRedisPrefix  string
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the production defaults: 7-day sessions, bcrypt cost
// 10, a Secure/HttpOnly/Lax "session" cookie on "/", and a 3s store timeout.
// JWT.Secret is left empty and must be supplied.
func DefaultConfig() Config {
	return Config{
		Session: SessionConfig{
			Lifetime:    jwt.DefaultLifetime,
			RedisPrefix: session.DefaultPrefix,
		},
		Password: PasswordConfig{
			Cost:           password.DefaultCost,
			UpgradeOnLogin: true,
		},
		Cookie: CookieConfig{
			Name:     "session",
			Path:     "/",
			Secure:   true,
			SameSite: http.SameSiteLaxMode,
		},
		Store: StoreConfig{
			OperationTimeout: 3 * time.Second,
			UserRedisPrefix:  user.DefaultPrefix,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.Secret = cloneBytes(cfg.JWT.Secret)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Validate reports the first invalid setting in c.
func (c *Config) Validate() error {
	// JWT
	if len(c.JWT.Secret) == 0 {
		return jwt.ErrMissingSecret
	}
	if c.JWT.Leeway < 0 || c.JWT.Leeway > 2*time.Minute {
		return errors.New("JWT Leeway must be between 0 and 2m")
	}

	// Session
	if c.Session.Lifetime <= 0 {
		return errors.New("Session Lifetime must be > 0")
	}
	if strings.TrimSpace(c.Session.RedisPrefix) == "" {
		return errors.New("Session RedisPrefix must not be empty")
	}

	// Password
	if c.Password.Cost < bcrypt.MinCost || c.Password.Cost > bcrypt.MaxCost {
		return errors.New("Password Cost is outside the bcrypt range")
	}

	// Cookie
	if c.Cookie.Name == "" || strings.ContainsAny(c.Cookie.Name, " \t;=,") {
		return errors.New("Cookie Name is invalid")
	}
	if !strings.HasPrefix(c.Cookie.Path, "/") {
		return errors.New("Cookie Path must start with /")
	}
	if c.Cookie.SameSite == http.SameSiteNoneMode && !c.Cookie.Secure {
		return errors.New("Cookie SameSite=None requires Secure")
	}

	// Store
	if c.Store.OperationTimeout <= 0 {
		return errors.New("Store OperationTimeout must be > 0")
	}
	if strings.TrimSpace(c.Store.UserRedisPrefix) == "" {
		return errors.New("Store UserRedisPrefix must not be empty")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when enabled")
	}

	return nil
}
