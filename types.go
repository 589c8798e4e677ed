package taskauth

import "time"

// CurrentUser is the identity exposed to callers. It never carries the
// password digest.
type CurrentUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// IssuedSession describes a session produced by [Engine.IssueSession].
type IssuedSession struct {
	SessionID string
	UserID    string
	Token     string
	ExpiresAt time.Time
	// Replaced reports whether an earlier session of the same user was
	// overwritten.
	Replaced bool
}

// Result is the uniform outcome of Signup and Login. Failures carry no
// reason so that callers cannot distinguish them.
type Result struct {
	Done bool `json:"done"`
}

// SignupForm carries the raw signup fields. Values are trimmed before use.
type SignupForm struct {
	Email           string
	Password        string
	ConfirmPassword string
}

// LoginForm carries the raw login fields. Values are trimmed before use.
type LoginForm struct {
	Email    string
	Password string
}
