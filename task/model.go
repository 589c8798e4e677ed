package task

import (
	"context"
	"errors"
	"time"
)

// Priority of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Status of a task.
type Status string

const (
	StatusInProgress Status = "inprogress"
	StatusCompleted  Status = "completed"
)

var (
	// ErrInvalidTask is returned for empty text or unknown priority.
	ErrInvalidTask = errors.New("invalid task")
	// ErrOwnerRequired is returned when no owner is supplied.
	ErrOwnerRequired = errors.New("task owner is required")
)

// Task is a single to-do item.
type Task struct {
	ID        string
	Owner     string
	Text      string
	Priority  Priority
	Status    Status
	DateAdded time.Time
}

// Store persists tasks. Update and delete calls match on both id and owner.
type Store interface {
	Insert(ctx context.Context, t *Task) error
	ListByOwner(ctx context.Context, owner string) ([]Task, error)
	SetStatus(ctx context.Context, owner, id string, status Status) error
	Delete(ctx context.Context, owner, id string) error
}
