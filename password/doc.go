// Package password implements one-way password hashing and verification with bcrypt.
//
// # Output format
//
// Digests are standard modular-crypt bcrypt strings:
//
//	$2a$<cost>$<22-char salt><31-char hash>
//
// Every [Bcrypt.Hash] call draws a fresh salt, so two digests of the same
// password differ while both verify. [Bcrypt.NeedsUpgrade] reports digests
// produced with a lower cost than the configured one so callers can re-hash
// after a successful login.
//
// # Architecture boundaries
//
// This package owns hashing and verification only. Input trimming and the
// confirm-password check belong to the Engine's signup flow.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords; callers supply plaintext and receive digests.
//   - Import any other taskauth package.
//   - Log plaintext passwords or digests.
package password
