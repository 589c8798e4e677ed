package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultLifetime is the token lifetime used when Config.Lifetime is zero.
const DefaultLifetime = 7 * 24 * time.Hour

// Algorithm is the only signing algorithm issued or accepted.
const Algorithm = "HS256"

var (
	// ErrMissingSecret is returned by NewManager when no signing secret is configured.
	ErrMissingSecret = errors.New("token signing secret is required")
	// ErrMissingSessionID is returned when encoding or decoding a token without a session identifier.
	ErrMissingSessionID = errors.New("token session id is required")
)

// Config controls token signing and verification.
type Config struct {
	Secret   []byte
	Lifetime time.Duration
	Issuer   string
	Leeway   time.Duration
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// Payload is the data bound into a session token.
type Payload struct {
	SessionID string
	// IssuedAt anchors the expiry; zero means the manager's clock.
	IssuedAt time.Time
}

// SessionClaims is the JWT claim set of a session token.
type SessionClaims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// Manager encodes and decodes session tokens. It is immutable after
// construction and safe for concurrent use.
type Manager struct {
	secret   []byte
	lifetime time.Duration
	issuer   string
	leeway   time.Duration
	now      func() time.Time
}

// NewManager validates cfg and returns a Manager. The secret is copied.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrMissingSecret
	}
	if cfg.Lifetime == 0 {
		cfg.Lifetime = DefaultLifetime
	}
	if cfg.Lifetime < 0 {
		return nil, errors.New("invalid token lifetime")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	return &Manager{
		secret:   secret,
		lifetime: cfg.Lifetime,
		issuer:   strings.TrimSpace(cfg.Issuer),
		leeway:   cfg.Leeway,
		now:      cfg.Now,
	}, nil
}

// Lifetime returns the configured token lifetime.
func (m *Manager) Lifetime() time.Duration {
	return m.lifetime
}

// ExpiryFor returns the expiry a token issued at issuedAt carries, at the
// one-second resolution of JWT numeric dates.
func (m *Manager) ExpiryFor(issuedAt time.Time) time.Time {
	return issuedAt.Truncate(time.Second).Add(m.lifetime)
}

// Encode signs p and returns the token together with the expiry embedded in it.
func (m *Manager) Encode(p Payload) (string, time.Time, error) {
	if p.SessionID == "" {
		return "", time.Time{}, ErrMissingSessionID
	}

	issuedAt := p.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = m.now()
	}
	issuedAt = issuedAt.Truncate(time.Second)
	expiresAt := m.ExpiryFor(issuedAt)

	claims := SessionClaims{
		SID: p.SessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Issuer:    m.issuer,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Parse verifies tokenStr and returns its claims. Any failure is returned
// as an error; see Decode for the boolean form used on request paths.
func (m *Manager) Parse(tokenStr string) (*SessionClaims, error) {
	if tokenStr == "" {
		return nil, jwt.ErrTokenMalformed
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(m.now),
	}
	if m.leeway > 0 {
		options = append(options, jwt.WithLeeway(m.leeway))
	}
	if m.issuer != "" {
		options = append(options, jwt.WithIssuer(m.issuer))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.SID == "" {
		return nil, ErrMissingSessionID
	}

	return claims, nil
}

// Decode returns the session identifier carried by tokenStr, or false when
// the token is absent, malformed, forged, signed with another algorithm, or
// expired.
func (m *Manager) Decode(tokenStr string) (string, bool) {
	claims, err := m.Parse(tokenStr)
	if err != nil {
		return "", false
	}
	return claims.SID, true
}
