// Package user provides the user store consumed by signup, login, and
// current-user resolution.
//
// Two read shapes exist on purpose: [Store.FindByEmail] returns the full
// [User] including the password digest for credential checks, while
// [Store.FindProfileByID] returns a [Profile] projection without it.
// Implementations must not load the digest for profile reads.
package user
