// Package jwt signs and verifies the session token carried by clients.
//
// Tokens are HS256 JWTs whose only application claim is the session
// identifier ("sid"). Issued-at and expiry are registered claims; expiry is
// always issued-at plus the configured lifetime. Decoding is the trust
// boundary: a session identifier is only returned from a token whose
// signature, algorithm, issuer, and expiry all check out.
//
// # What this package must NOT do
//
//   - Touch any store; it maps strings to session identifiers and back.
//   - Accept tokens signed with any algorithm other than HS256.
package jwt
