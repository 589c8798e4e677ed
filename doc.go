// Package taskauth provides session-based authentication for the task tracker:
// signed HS256 session tokens bound to a revocable, one-per-user server-side
// record, bcrypt credential checks, and the signup/login/logout operations that
// produce and destroy those sessions.
//
// The package is designed for concurrent server workloads: Engine methods are safe to call
// from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// taskauth is the public surface. It exposes [Engine], [Builder], [Config], the
// [TokenTransport] abstraction over where a client keeps its token, and value types
// ([CurrentUser], [Result], [MetricsSnapshot]). Token signing lives in jwt/, digests in
// password/, record storage in session/, user/ and storage/gormstore. Audit dispatch and
// metric storage live under internal/.
//
// # What this package must NOT do
//
//   - Expose password digests or store handles in its public API.
//   - Look up a session record with an identifier that did not come out of a verified token.
//   - Panic on malformed, forged, or expired client input.
//   - Import any sub-package that re-imports taskauth (no import cycles).
//
// # Performance contract
//
// ResolveSession is the hot path: one HMAC verification and one store read. Signup and
// Login pay one bcrypt computation plus two store writes.
package taskauth
