package user

import (
	"context"

	"github.com/MrEthical07/taskauth/store"
)

// User is a stored account. PasswordHash never leaves the engine.
type User struct {
	ID           string
	Email        string
	PasswordHash string
}

// Profile is the public projection of a User.
type Profile struct {
	ID    string
	Email string
}

// Store persists users keyed by identifier with a unique email index.
//
// Implementations wrap connection failures with store.ErrUnavailable and
// report absent users with store.ErrNotFound.
type Store interface {
	// UpsertByEmail creates the user for email or replaces the digest of the
	// existing one. The identifier of an existing user never changes.
	UpsertByEmail(ctx context.Context, email, passwordHash string) (*User, store.Outcome, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindProfileByID(ctx context.Context, id string) (*Profile, error)
	// UpdatePasswordHash replaces the digest of an existing user.
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
}
