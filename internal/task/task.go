// Package task defines the Task entity and the repository contract over it.
package task

import (
	"context"
	"time"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// DefaultCategory is the category of a task created without one.
const DefaultCategory = "General"

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Toggled returns the opposite status.
func (s Status) Toggled() Status {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

// Task is a single todo item.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      Status    `json:"status"`
	Category    string    `json:"category,omitempty"`
	UserID      string    `json:"user_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Clone returns a deep copy of t.
func (t Task) Clone() Task {
	if t.Description != nil {
		d := *t.Description
		t.Description = &d
	}
	return t
}

// ApplyUpdate sets the title, and the description when non-nil, and stamps UpdatedAt.
func (t *Task) ApplyUpdate(title string, description *string, now time.Time) {
	t.Title = title
	if description != nil {
		d := *description
		t.Description = &d
	}
	t.touch(now)
}

// Toggle flips the status and stamps UpdatedAt.
func (t *Task) Toggle(now time.Time) {
	t.Status = t.Status.Toggled()
	t.touch(now)
}

// touch keeps UpdatedAt >= CreatedAt even if the clock steps backwards.
func (t *Task) touch(now time.Time) {
	if now.Before(t.CreatedAt) {
		now = t.CreatedAt
	}
	t.UpdatedAt = now
}

// DescriptionOr returns the description or def when absent.
func (t Task) DescriptionOr(def string) string {
	if t.Description == nil {
		return def
	}
	return *t.Description
}

// SetCategory replaces the category and stamps UpdatedAt.
func (t *Task) SetCategory(category string, now time.Time) {
	t.Category = category
	t.touch(now)
}

// Repository persists tasks. Methods returning *Task report absence as (nil, nil).
// Returned values are copies; mutating them does not affect the store.
type Repository interface {
	AddTask(ctx context.Context, t Task) (*Task, error)
	GetAllTasks(ctx context.Context) ([]Task, error)
	GetTaskByID(ctx context.Context, id string) (*Task, error)
	UpdateTask(ctx context.Context, id, title string, description *string) (*Task, error)
	DeleteTask(ctx context.Context, id string) (bool, error)
	ToggleTaskStatus(ctx context.Context, id string) (*Task, error)
}

// Categorizer is implemented by repositories that store a task category.
type Categorizer interface {
	SetTaskCategory(ctx context.Context, id, category string) (*Task, error)
}
