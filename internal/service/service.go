// Package service defines the backend-agnostic task operations and the
// validation rules applied before anything reaches a repository.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"todo/internal/apperr"
	"todo/internal/task"
)

// Service defines the task operations used by the CLI and the API.
// Lookups report a missing task as a nil result, not an error.
type Service interface {
	// AddTask validates and stores a new pending task.
	AddTask(ctx context.Context, title string, description *string) (*task.Task, error)

	// ListTasks returns all tasks in repository order.
	ListTasks(ctx context.Context) ([]task.Task, error)

	// GetTask returns the task with id, or nil.
	GetTask(ctx context.Context, id string) (*task.Task, error)

	// UpdateTask replaces the title and, when description is non-nil, the description.
	UpdateTask(ctx context.Context, id, title string, description *string) (*task.Task, error)

	// DeleteTask reports whether a task was removed.
	DeleteTask(ctx context.Context, id string) (bool, error)

	// ToggleTaskStatus flips pending and completed.
	ToggleTaskStatus(ctx context.Context, id string) (*task.Task, error)
}

// ErrEmptyTitle is the message for a blank title.
const ErrEmptyTitle = "Task title cannot be empty"

// MaxCategoryLength bounds a category name, in runes.
const MaxCategoryLength = 50

// ErrNoCategories is returned when the repository does not store categories.
var ErrNoCategories = errors.New("backend does not store task categories")

// TaskService enforces task rules and delegates persistence to a repository.
type TaskService struct {
	repo  task.Repository
	now   func() time.Time
	newID func() string
}

var _ Service = (*TaskService)(nil)

// Option configures a TaskService.
type Option func(*TaskService)

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) { s.now = now }
}

// WithIDGenerator overrides identifier generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *TaskService) { s.newID = gen }
}

// NewTaskService creates a TaskService over repo.
func NewTaskService(repo task.Repository, opts ...Option) *TaskService {
	s := &TaskService{
		repo:  repo,
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Repository returns the underlying repository.
func (s *TaskService) Repository() task.Repository { return s.repo }

func (s *TaskService) AddTask(ctx context.Context, title string, description *string) (*task.Task, error) {
	return s.addTask(ctx, title, description, "")
}

// AddTaskInCategory is AddTask with a category. A blank category means DefaultCategory.
func (s *TaskService) AddTaskInCategory(ctx context.Context, title string, description *string, category string) (*task.Task, error) {
	category, err := NormalizeCategory(category)
	if err != nil {
		return nil, err
	}
	return s.addTask(ctx, title, description, category)
}

func (s *TaskService) addTask(ctx context.Context, title string, description *string, category string) (*task.Task, error) {
	title, err := normalizeTitle(title)
	if err != nil {
		return nil, err
	}
	now := s.now()
	t := task.Task{
		ID:          s.newID(),
		Title:       title,
		Description: NormalizeDescription(description),
		Status:      task.StatusPending,
		Category:    category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	created, err := s.repo.AddTask(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("add task: %w", err)
	}
	return created, nil
}

func (s *TaskService) ListTasks(ctx context.Context) ([]task.Task, error) {
	tasks, err := s.repo.GetAllTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) GetTask(ctx context.Context, id string) (*task.Task, error) {
	t, err := s.repo.GetTaskByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	return t, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, id, title string, description *string) (*task.Task, error) {
	title, err := normalizeTitle(title)
	if err != nil {
		return nil, err
	}
	existing, err := s.GetTask(ctx, id)
	if err != nil || existing == nil {
		return nil, err
	}
	updated, err := s.repo.UpdateTask(ctx, id, title, NormalizeDescription(description))
	if err != nil {
		return nil, fmt.Errorf("update task %s: %w", id, err)
	}
	return updated, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) (bool, error) {
	deleted, err := s.repo.DeleteTask(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete task %s: %w", id, err)
	}
	return deleted, nil
}

func (s *TaskService) ToggleTaskStatus(ctx context.Context, id string) (*task.Task, error) {
	existing, err := s.GetTask(ctx, id)
	if err != nil || existing == nil {
		return nil, err
	}
	toggled, err := s.repo.ToggleTaskStatus(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("toggle task %s: %w", id, err)
	}
	return toggled, nil
}

// SetCategory moves the task with id to category, or returns nil when absent.
func (s *TaskService) SetCategory(ctx context.Context, id, category string) (*task.Task, error) {
	category, err := NormalizeCategory(category)
	if err != nil {
		return nil, err
	}
	c, ok := s.repo.(task.Categorizer)
	if !ok {
		return nil, ErrNoCategories
	}
	t, err := c.SetTaskCategory(ctx, id, category)
	if err != nil {
		return nil, fmt.Errorf("set category of task %s: %w", id, err)
	}
	return t, nil
}

// NormalizeCategory trims category and checks its length. Blank means DefaultCategory.
func NormalizeCategory(category string) (string, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return task.DefaultCategory, nil
	}
	if utf8.RuneCountInString(category) > MaxCategoryLength {
		return "", apperr.Validation("category", "Category must be at most %d characters", MaxCategoryLength)
	}
	return category, nil
}

func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", apperr.Validation("title", ErrEmptyTitle)
	}
	return title, nil
}

// NormalizeDescription trims a description. Nil and empty mean absent;
// a whitespace-only description trims to the empty string.
func NormalizeDescription(description *string) *string {
	if description == nil || *description == "" {
		return nil
	}
	d := strings.TrimSpace(*description)
	return &d
}
