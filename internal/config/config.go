// Package config loads the taskauthd server configuration from the
// environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MrEthical07/taskauth"
)

// StoreKind is the backend selected by STORE_URL.
type StoreKind string

const (
	StoreRedis    StoreKind = "redis"
	StorePostgres StoreKind = "postgres"
)

// ErrInvalid wraps every validation failure returned by Load.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	HTTPAddr        string
	StoreURL        string
	SessionSecret   string
	SessionIssuer   string
	SessionLifetime time.Duration
	StoreTimeout    time.Duration
	ShutdownTimeout time.Duration
	CookieSecure    bool
	CookieDomain    string
	AuditEnabled    bool
	LogLevel        string
}

func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		StoreURL:      strings.TrimSpace(os.Getenv("STORE_URL")),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionIssuer: os.Getenv("SESSION_ISSUER"),
		CookieSecure:  getEnvBool("COOKIE_SECURE", true),
		CookieDomain:  os.Getenv("COOKIE_DOMAIN"),
		AuditEnabled:  getEnvBool("AUDIT_ENABLED", false),
		LogLevel:      strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}

	lifetime, err := time.ParseDuration(getEnv("SESSION_LIFETIME", "168h"))
	if err != nil {
		return nil, fmt.Errorf("parse SESSION_LIFETIME: %w", err)
	}
	cfg.SessionLifetime = lifetime

	storeTimeout, err := time.ParseDuration(getEnv("STORE_TIMEOUT", "3s"))
	if err != nil {
		return nil, fmt.Errorf("parse STORE_TIMEOUT: %w", err)
	}
	cfg.StoreTimeout = storeTimeout

	shutdownTimeout, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("parse SHUTDOWN_TIMEOUT: %w", err)
	}
	cfg.ShutdownTimeout = shutdownTimeout

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string
	if c.SessionSecret == "" {
		errs = append(errs, "SESSION_SECRET is required")
	}
	if c.StoreURL == "" {
		errs = append(errs, "STORE_URL is required")
	} else if _, err := c.Store(); err != nil {
		errs = append(errs, err.Error())
	}
	if c.SessionLifetime <= 0 {
		errs = append(errs, "SESSION_LIFETIME must be > 0")
	}
	if c.StoreTimeout <= 0 {
		errs = append(errs, "STORE_TIMEOUT must be > 0")
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, "SHUTDOWN_TIMEOUT must be > 0")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, "LOG_LEVEL must be one of debug, info, warn, error")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(errs, "; "))
	}
	return nil
}

// Store returns the backend named by the STORE_URL scheme.
func (c *Config) Store() (StoreKind, error) {
	u, err := url.Parse(c.StoreURL)
	if err != nil {
		return "", fmt.Errorf("STORE_URL is not a URL: %v", err)
	}
	switch u.Scheme {
	case "redis", "rediss":
		return StoreRedis, nil
	case "postgres", "postgresql":
		return StorePostgres, nil
	default:
		return "", fmt.Errorf("STORE_URL scheme %q is not supported", u.Scheme)
	}
}

// SlogLevel maps LOG_LEVEL to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Engine returns the engine configuration derived from c.
func (c *Config) Engine() taskauth.Config {
	cfg := taskauth.DefaultConfig()
	cfg.JWT.Secret = []byte(c.SessionSecret)
	cfg.JWT.Issuer = c.SessionIssuer
	cfg.Session.Lifetime = c.SessionLifetime
	cfg.Store.OperationTimeout = c.StoreTimeout
	cfg.Cookie.Secure = c.CookieSecure
	cfg.Cookie.Domain = c.CookieDomain
	cfg.Audit.Enabled = c.AuditEnabled
	return cfg
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
