package gormstore

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/taskauth/session"
	"github.com/MrEthical07/taskauth/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sessions implements session.Store on the sessions table.
type Sessions struct {
	backend *Backend
}

var _ session.Store = (*Sessions)(nil)

// UpsertByUser replaces the user's row in one statement; the unique index on
// user_id makes concurrent calls converge on the last writer.
func (s *Sessions) UpsertByUser(ctx context.Context, userID string, expiresAt time.Time) (*session.Session, store.Outcome, error) {
	if userID == "" {
		return nil, 0, errors.New("session: user id is required")
	}
	db, err := s.backend.handle(ctx)
	if err != nil {
		return nil, 0, err
	}

	row := sessionRow{
		ID:        s.backend.newID(),
		UserID:    userID,
		ExpiresAt: expiresAt.UTC(),
	}
	outcome := store.OutcomeCreated

	err = db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&sessionRow{}).Where("user_id = ?", userID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			outcome = store.OutcomeReplaced
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"id", "expires_at"}),
		}).Create(&row).Error
	})
	if err != nil {
		return nil, 0, store.Unavailable(err)
	}

	return &session.Session{ID: row.ID, UserID: row.UserID, ExpiresAt: row.ExpiresAt}, outcome, nil
}

// FindByID implements session.Store.
func (s *Sessions) FindByID(ctx context.Context, sessionID string) (*session.Session, error) {
	if sessionID == "" {
		return nil, store.ErrNotFound
	}
	db, err := s.backend.handle(ctx)
	if err != nil {
		return nil, err
	}

	var row sessionRow
	if err := db.Where("id = ?", sessionID).Take(&row).Error; err != nil {
		return nil, mapErr(err)
	}
	return &session.Session{ID: row.ID, UserID: row.UserID, ExpiresAt: row.ExpiresAt.UTC()}, nil
}

// DeleteByID implements session.Store.
func (s *Sessions) DeleteByID(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	db, err := s.backend.handle(ctx)
	if err != nil {
		return err
	}
	if err := db.Where("id = ?", sessionID).Delete(&sessionRow{}).Error; err != nil {
		return store.Unavailable(err)
	}
	return nil
}
