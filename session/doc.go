// Package session provides the session store gateway: one revocable
// server-side record per user, addressed by session identifier.
//
// # Record model
//
// A [Session] binds a generated identifier to its owning user and an
// absolute expiry. Each user has at most one record; [Store.UpsertByUser]
// replaces it with a fresh identifier so tokens minted for the previous
// record stop resolving. Records are not expired by the store.
//
// # Architecture boundaries
//
// This package owns the [Store] contract, the [Session] model, and the
// Redis implementation ([RedisStore]). It does NOT interpret tokens or
// decide whether a caller is authenticated; those responsibilities belong
// to the Engine. SQL-backed stores live in storage/gormstore.
//
// # What this package must NOT do
//
//   - Import taskauth, jwt, or password (no upward imports).
//   - Trust a session identifier for anything beyond a keyed lookup.
//   - Retry failed store calls.
package session
