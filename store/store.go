// Package store holds the error vocabulary and outcome values shared by every
// persistence backend (Redis, SQL) behind the session, user, and task stores.
//
// # Architecture boundaries
//
// Backends translate driver-specific failures into the sentinels declared
// here so the engine can make one decision per outcome: found, not found, or
// unavailable.
//
// # What this package must NOT do
//
//   - Import any backend driver.
//   - Retry failed operations; a failure is reported once to the caller.
package store

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a record addressed by key or filter is absent.
var ErrNotFound = errors.New("record not found")

// ErrUnavailable is returned when the backing store cannot be reached or a
// call to it fails or times out.
var ErrUnavailable = errors.New("store unavailable")

// Unavailable wraps a driver error so that errors.Is(err, ErrUnavailable)
// holds. A nil err yields nil.
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// HashTag wraps prefix in a Redis Cluster hash tag, so every key built from
// the result maps to one slot and multi-key scripts stay legal on a cluster.
// A prefix that already carries a tag is returned unchanged.
func HashTag(prefix string) string {
	if strings.HasPrefix(prefix, "{") && strings.HasSuffix(prefix, "}") {
		return prefix
	}
	return "{" + prefix + "}"
}

// Outcome tags the result of an upsert.
type Outcome uint8

const (
	// OutcomeCreated means no record existed for the key before the call.
	OutcomeCreated Outcome = iota + 1
	// OutcomeReplaced means an existing record for the key was overwritten.
	OutcomeReplaced
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeReplaced:
		return "replaced"
	default:
		return "unknown"
	}
}
