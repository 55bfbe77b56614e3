// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"todo/internal/apperr"
	"todo/internal/service"
	"todo/internal/task"
)

// FixedTime is the timestamp stamped on every fake task.
var FixedTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// FakeService is an in-memory implementation of service.Service for testing.
// IDs are deterministic: the n-th task gets "0000000n-fake-task".
type FakeService struct {
	mu     sync.RWMutex
	tasks  []task.Task
	nextID int

	// Error injection for testing
	AddTaskErr    error
	ListTasksErr  error
	GetTaskErr    error
	UpdateTaskErr error
	DeleteTaskErr error
	ToggleTaskErr error
}

var _ service.Service = (*FakeService)(nil)

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{}
}

// Seed stores a task directly, bypassing validation, and returns its ID.
func (f *FakeService) Seed(title string, description *string, status task.Status) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.newTaskLocked(title, description)
	t.Status = status
	f.tasks = append(f.tasks, t)
	return t.ID
}

// Tasks returns a snapshot of stored tasks.
func (f *FakeService) Tasks() []task.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]task.Task, len(f.tasks))
	for i, t := range f.tasks {
		out[i] = t.Clone()
	}
	return out
}

func (f *FakeService) newTaskLocked(title string, description *string) task.Task {
	f.nextID++
	return task.Task{
		ID:          fmt.Sprintf("%08d-fake-task", f.nextID),
		Title:       title,
		Description: description,
		Status:      task.StatusPending,
		CreatedAt:   FixedTime,
		UpdatedAt:   FixedTime,
	}
}

// AddTask implements service.Service.
func (f *FakeService) AddTask(ctx context.Context, title string, description *string) (*task.Task, error) {
	if f.AddTaskErr != nil {
		return nil, f.AddTaskErr
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperr.Validation("title", service.ErrEmptyTitle)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.newTaskLocked(title, service.NormalizeDescription(description))
	f.tasks = append(f.tasks, t)
	out := t.Clone()
	return &out, nil
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]task.Task, error) {
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return f.Tasks(), nil
}

// GetTask implements service.Service.
func (f *FakeService) GetTask(ctx context.Context, id string) (*task.Task, error) {
	if f.GetTaskErr != nil {
		return nil, f.GetTaskErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.tasks {
		if t.ID == id {
			out := t.Clone()
			return &out, nil
		}
	}
	return nil, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id, title string, description *string) (*task.Task, error) {
	if f.UpdateTaskErr != nil {
		return nil, f.UpdateTaskErr
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperr.Validation("title", service.ErrEmptyTitle)
	}
	return f.mutate(id, func(t *task.Task) {
		t.ApplyUpdate(title, service.NormalizeDescription(description), FixedTime)
	})
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) (bool, error) {
	if f.DeleteTaskErr != nil {
		return false, f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// ToggleTaskStatus implements service.Service.
func (f *FakeService) ToggleTaskStatus(ctx context.Context, id string) (*task.Task, error) {
	if f.ToggleTaskErr != nil {
		return nil, f.ToggleTaskErr
	}
	return f.mutate(id, func(t *task.Task) { t.Toggle(FixedTime) })
}

func (f *FakeService) mutate(id string, fn func(*task.Task)) (*task.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			fn(&f.tasks[i])
			out := f.tasks[i].Clone()
			return &out, nil
		}
	}
	return nil, nil
}
