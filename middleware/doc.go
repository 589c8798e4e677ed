// Package middleware adapts the session engine to net/http: a cookie-backed
// [taskauth.TokenTransport] and guards that resolve the current user.
//
// # Components
//
//   - [CookieTransport]: reads and writes the session cookie (HttpOnly, SameSite, Path, Expires).
//   - [RequireUser]: rejects requests without a valid session with 401.
//   - [OptionalUser]: attaches the current user when there is one, never rejects.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT implement
// authentication logic itself; all decisions are delegated to Engine.CurrentUser.
//
// # What this package must NOT do
//
//   - Parse or create tokens directly (delegates to Engine).
//   - Access a store (Engine handles I/O).
package middleware
