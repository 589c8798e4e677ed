package taskauth

import "errors"

var (
	// ErrNoSession is returned when the transport carries no token, the token does
	// not verify, or its session record does not exist. Callers must not be able to
	// tell these cases apart.
	ErrNoSession = errors.New("no session")
	// ErrSessionCreationFailed is returned by IssueSession when the record or the
	// token could not be produced.
	ErrSessionCreationFailed = errors.New("session creation failed")
	// ErrSessionInvalidationFailed is returned by RevokeSession when the store
	// rejected the delete. The client credential is cleared regardless.
	ErrSessionInvalidationFailed = errors.New("session invalidation failed")
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSignupInvalid is returned for missing fields or a password/confirmation mismatch.
	ErrSignupInvalid = errors.New("invalid signup request")
	// ErrIdentityUnavailable is returned when the user store could not be reached.
	ErrIdentityUnavailable = errors.New("identity backend unavailable")
	// ErrEngineNotReady is returned by methods called on a nil or unbuilt Engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
