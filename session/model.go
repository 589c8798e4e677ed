package session

import (
	"context"
	"time"

	"github.com/MrEthical07/taskauth/store"
)

// Session is the server-side record behind a session token.
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
}

// Store is the session store gateway.
//
// Implementations wrap connection failures with store.ErrUnavailable and
// report absent records with store.ErrNotFound.
type Store interface {
	// UpsertByUser atomically creates or replaces the single record for
	// userID. A replaced record gets a new identifier.
	UpsertByUser(ctx context.Context, userID string, expiresAt time.Time) (*Session, store.Outcome, error)
	// FindByID returns the record with the given identifier.
	FindByID(ctx context.Context, sessionID string) (*Session, error)
	// DeleteByID removes the record; deleting an absent record is not an error.
	DeleteByID(ctx context.Context, sessionID string) error
}
