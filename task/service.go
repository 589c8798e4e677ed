package task

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service validates input and scopes every call to an owner.
type Service struct {
	store Store
	now   func() time.Time
	newID func() string
}

// NewService returns a Service over s.
func NewService(s Store) *Service {
	return &Service{
		store: s,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Add creates an in-progress task for owner.
func (s *Service) Add(ctx context.Context, owner, text string, priority Priority) (*Task, error) {
	if owner == "" {
		return nil, ErrOwnerRequired
	}
	text = strings.TrimSpace(text)
	if text == "" || !priority.Valid() {
		return nil, ErrInvalidTask
	}

	t := &Task{
		ID:        s.newID(),
		Owner:     owner,
		Text:      text,
		Priority:  priority,
		Status:    StatusInProgress,
		DateAdded: s.now().UTC().Truncate(time.Millisecond),
	}
	if err := s.store.Insert(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// List returns owner's tasks, newest first.
func (s *Service) List(ctx context.Context, owner string) ([]Task, error) {
	if owner == "" {
		return nil, ErrOwnerRequired
	}
	return s.store.ListByOwner(ctx, owner)
}

// MarkComplete completes a task owned by owner.
func (s *Service) MarkComplete(ctx context.Context, owner, id string) error {
	if owner == "" {
		return ErrOwnerRequired
	}
	if id == "" {
		return nil
	}
	return s.store.SetStatus(ctx, owner, id, StatusCompleted)
}

// Delete removes a task owned by owner.
func (s *Service) Delete(ctx context.Context, owner, id string) error {
	if owner == "" {
		return ErrOwnerRequired
	}
	if id == "" {
		return nil
	}
	return s.store.Delete(ctx, owner, id)
}
