// Package internal holds packages that are private to taskauth.
//
// # Sub-packages
//
//   - audit: async event dispatch (Dispatcher + Sink implementations)
//   - config: environment configuration for cmd/taskauthd
//   - conn: lazily dialed, shareable backend handles
//   - httpapi: chi router exposing the engine and the task service
//   - metrics: lock-free counters and the resolve latency histogram
//   - security: configuration posture report
//
// # What this package must NOT do
//
//   - Export types that appear in the public taskauth API.
//   - Be imported by any package outside the taskauth module.
package internal
