// Package security derives a configuration posture report from the engine
// settings.
//
// # Architecture boundaries
//
// The report is computed from plain values passed in by the root package;
// this package never sees the signing secret, only its length.
//
// # What this package must NOT do
//
//   - Import the root taskauth package.
//   - Log or return secret material.
package security
