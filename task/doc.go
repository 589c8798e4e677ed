// Package task implements owner-scoped task CRUD.
//
// Every mutating call takes the owner identifier resolved from the caller's
// session and matches on both task and owner, so one user can never touch
// another user's tasks. A mismatch is a silent no-op, not an error.
package task
