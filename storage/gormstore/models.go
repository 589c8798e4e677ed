package gormstore

import "time"

type userRow struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
}

func (userRow) TableName() string { return "users" }

type sessionRow struct {
	ID        string    `gorm:"primaryKey;size:36"`
	UserID    string    `gorm:"uniqueIndex;size:36;not null"`
	ExpiresAt time.Time `gorm:"not null"`
}

func (sessionRow) TableName() string { return "sessions" }

type taskRow struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Owner     string    `gorm:"index:idx_tasks_owner_added,priority:1;size:36;not null"`
	Task      string    `gorm:"not null"`
	Priority  string    `gorm:"size:16;not null"`
	Status    string    `gorm:"size:16;not null"`
	DateAdded time.Time `gorm:"index:idx_tasks_owner_added,priority:2;not null"`
}

func (taskRow) TableName() string { return "tasks" }

// Migrate creates or updates the users, sessions, and tasks tables.
func Migrate(db interface{ AutoMigrate(...interface{}) error }) error {
	return db.AutoMigrate(&userRow{}, &sessionRow{}, &taskRow{})
}
