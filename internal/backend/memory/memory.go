// Package memory implements task.Repository in process memory.
package memory

import (
	"context"
	"sync"
	"time"

	"todo/internal/task"
)

// Repository keeps tasks in insertion order for the lifetime of the value.
type Repository struct {
	mu    sync.Mutex
	tasks []task.Task
	now   func() time.Time
}

// New creates an empty repository.
func New() *Repository {
	return &Repository{now: func() time.Time { return time.Now().UTC() }}
}

func (r *Repository) AddTask(ctx context.Context, t task.Task) (*task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks = append(r.tasks, t.Clone())
	out := t.Clone()
	return &out, nil
}

func (r *Repository) GetAllTasks(ctx context.Context) ([]task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]task.Task, len(r.tasks))
	for i, t := range r.tasks {
		out[i] = t.Clone()
	}
	return out, nil
}

func (r *Repository) GetTaskByID(ctx context.Context, id string) (*task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	out := r.tasks[i].Clone()
	return &out, nil
}

func (r *Repository) UpdateTask(ctx context.Context, id, title string, description *string) (*task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	r.tasks[i].ApplyUpdate(title, description, r.now())
	out := r.tasks[i].Clone()
	return &out, nil
}

func (r *Repository) DeleteTask(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return false, nil
	}
	r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
	return true, nil
}

func (r *Repository) ToggleTaskStatus(ctx context.Context, id string) (*task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	r.tasks[i].Toggle(r.now())
	out := r.tasks[i].Clone()
	return &out, nil
}

// indexOf must be called with mu held.
func (r *Repository) indexOf(id string) int {
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
