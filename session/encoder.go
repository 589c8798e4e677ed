package session

import (
	"errors"
	"strconv"
	"time"
)

const schemaVersionCurrent = 1

const (
	fieldVersion   = "v"
	fieldID        = "id"
	fieldUserID    = "user_id"
	fieldExpiresAt = "expires_at"
)

// ErrCorruptRecord is returned when a stored record cannot be decoded.
var ErrCorruptRecord = errors.New("session record corrupt")

// encodeFields renders s as Redis hash field/value pairs.
func encodeFields(s *Session) []interface{} {
	return []interface{}{
		fieldVersion, schemaVersionCurrent,
		fieldID, s.ID,
		fieldUserID, s.UserID,
		fieldExpiresAt, s.ExpiresAt.UnixMilli(),
	}
}

// decodeFields parses a Redis hash back into a Session.
func decodeFields(fields map[string]string) (*Session, error) {
	version, err := strconv.Atoi(fields[fieldVersion])
	if err != nil || version != schemaVersionCurrent {
		return nil, ErrCorruptRecord
	}

	id := fields[fieldID]
	userID := fields[fieldUserID]
	if id == "" || userID == "" {
		return nil, ErrCorruptRecord
	}

	expiresMillis, err := strconv.ParseInt(fields[fieldExpiresAt], 10, 64)
	if err != nil {
		return nil, ErrCorruptRecord
	}

	return &Session{
		ID:        id,
		UserID:    userID,
		ExpiresAt: time.UnixMilli(expiresMillis).UTC(),
	}, nil
}
