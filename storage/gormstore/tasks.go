package gormstore

import (
	"context"

	"github.com/MrEthical07/taskauth/store"
	"github.com/MrEthical07/taskauth/task"
)

// Tasks implements task.Store on the tasks table.
type Tasks struct {
	backend *Backend
}

var _ task.Store = (*Tasks)(nil)

// Insert implements task.Store.
func (t *Tasks) Insert(ctx context.Context, tk *task.Task) error {
	db, err := t.backend.handle(ctx)
	if err != nil {
		return err
	}
	row := taskRow{
		ID:        tk.ID,
		Owner:     tk.Owner,
		Task:      tk.Text,
		Priority:  string(tk.Priority),
		Status:    string(tk.Status),
		DateAdded: tk.DateAdded.UTC(),
	}
	return store.Unavailable(db.Create(&row).Error)
}

// ListByOwner implements task.Store.
func (t *Tasks) ListByOwner(ctx context.Context, owner string) ([]task.Task, error) {
	db, err := t.backend.handle(ctx)
	if err != nil {
		return nil, err
	}

	var rows []taskRow
	if err := db.Where("owner = ?", owner).Order("date_added DESC").Find(&rows).Error; err != nil {
		return nil, store.Unavailable(err)
	}

	tasks := make([]task.Task, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, task.Task{
			ID:        r.ID,
			Owner:     r.Owner,
			Text:      r.Task,
			Priority:  task.Priority(r.Priority),
			Status:    task.Status(r.Status),
			DateAdded: r.DateAdded.UTC(),
		})
	}
	return tasks, nil
}

// SetStatus implements task.Store.
func (t *Tasks) SetStatus(ctx context.Context, owner, id string, status task.Status) error {
	db, err := t.backend.handle(ctx)
	if err != nil {
		return err
	}
	err = db.Model(&taskRow{}).Where("id = ? AND owner = ?", id, owner).Update("status", string(status)).Error
	return store.Unavailable(err)
}

// Delete implements task.Store.
func (t *Tasks) Delete(ctx context.Context, owner, id string) error {
	db, err := t.backend.handle(ctx)
	if err != nil {
		return err
	}
	return store.Unavailable(db.Where("id = ? AND owner = ?", id, owner).Delete(&taskRow{}).Error)
}
