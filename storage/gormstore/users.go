package gormstore

import (
	"context"
	"errors"

	"github.com/MrEthical07/taskauth/store"
	"github.com/MrEthical07/taskauth/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Users implements user.Store on the users table.
type Users struct {
	backend *Backend
}

var _ user.Store = (*Users)(nil)

// UpsertByEmail implements user.Store.
func (u *Users) UpsertByEmail(ctx context.Context, email, passwordHash string) (*user.User, store.Outcome, error) {
	if email == "" {
		return nil, 0, errors.New("user: email is required")
	}
	db, err := u.backend.handle(ctx)
	if err != nil {
		return nil, 0, err
	}

	candidate := u.backend.newID()
	var row userRow
	err = db.Transaction(func(tx *gorm.DB) error {
		insert := userRow{ID: candidate, Email: email, PasswordHash: passwordHash}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"password_hash"}),
		}).Create(&insert).Error; err != nil {
			return err
		}
		return tx.Where("email = ?", email).Take(&row).Error
	})
	if err != nil {
		return nil, 0, store.Unavailable(err)
	}

	outcome := store.OutcomeReplaced
	if row.ID == candidate {
		outcome = store.OutcomeCreated
	}
	return &user.User{ID: row.ID, Email: row.Email, PasswordHash: row.PasswordHash}, outcome, nil
}

// FindByEmail implements user.Store.
func (u *Users) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	if email == "" {
		return nil, store.ErrNotFound
	}
	db, err := u.backend.handle(ctx)
	if err != nil {
		return nil, err
	}

	var row userRow
	if err := db.Where("email = ?", email).Take(&row).Error; err != nil {
		return nil, mapErr(err)
	}
	return &user.User{ID: row.ID, Email: row.Email, PasswordHash: row.PasswordHash}, nil
}

type profileRow struct {
	ID    string
	Email string
}

// FindProfileByID implements user.Store; the digest column is not selected.
func (u *Users) FindProfileByID(ctx context.Context, id string) (*user.Profile, error) {
	if id == "" {
		return nil, store.ErrNotFound
	}
	db, err := u.backend.handle(ctx)
	if err != nil {
		return nil, err
	}

	var row profileRow
	if err := db.Model(&userRow{}).Select("id", "email").Where("id = ?", id).Take(&row).Error; err != nil {
		return nil, mapErr(err)
	}
	return &user.Profile{ID: row.ID, Email: row.Email}, nil
}

// UpdatePasswordHash implements user.Store.
func (u *Users) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	db, err := u.backend.handle(ctx)
	if err != nil {
		return err
	}

	res := db.Model(&userRow{}).Where("id = ?", id).Update("password_hash", passwordHash)
	if res.Error != nil {
		return store.Unavailable(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
