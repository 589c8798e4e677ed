package taskauth

import (
	"sync"
	"time"
)

// TokenTransport is where a client keeps its session token between requests.
// The HTTP implementation is middleware.CookieTransport; MemoryTransport serves
// tests and non-HTTP callers.
type TokenTransport interface {
	// Token returns the presented token, or "" when there is none.
	Token() string
	// SetToken stores token on the client until expiresAt.
	SetToken(token string, expiresAt time.Time)
	// ClearToken removes the token from the client.
	ClearToken()
}

// MemoryTransport is an in-process TokenTransport. It is safe for concurrent use.
type MemoryTransport struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewMemoryTransport returns a transport presenting token.
func NewMemoryTransport(token string) *MemoryTransport {
	return &MemoryTransport{token: token}
}

func (t *MemoryTransport) Token() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.token
}

func (t *MemoryTransport) SetToken(token string, expiresAt time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = token
	t.expiresAt = expiresAt
}

func (t *MemoryTransport) ClearToken() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = ""
	t.expiresAt = time.Time{}
}

// ExpiresAt returns the expiry passed to the last SetToken.
func (t *MemoryTransport) ExpiresAt() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.expiresAt
}
