// Package file implements task.Repository over a JSON document on disk.
//
// Every call reads the whole document, transforms it in memory and writes it
// back. No lock is taken: concurrent writers race and the last write wins.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"todo/internal/apperr"
	"todo/internal/task"
)

// DefaultPath is the file used when none is configured.
const DefaultPath = "tasks.json"

// legacyLayout matches timestamps written without a zone offset.
const legacyLayout = "2006-01-02T15:04:05.999999999"

// record is the on-disk shape of a task.
type record struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// Repository stores tasks in a JSON array at a path.
type Repository struct {
	path   string
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the logger used for recoverable read problems.
func WithLogger(l *slog.Logger) Option {
	return func(r *Repository) { r.logger = l }
}

// WithClock overrides the time source used to stamp mutations.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// New returns a repository over path, creating the file with an empty array if absent.
func New(path string, opts ...Option) (*Repository, error) {
	if path == "" {
		path = DefaultPath
	}
	r := &Repository{
		path:   path,
		logger: slog.New(slog.DiscardHandler),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.ensureFile(); err != nil {
		return nil, err
	}
	return r, nil
}

// Path returns the backing file path.
func (r *Repository) Path() string { return r.path }

func (r *Repository) ensureFile() error {
	_, err := os.Stat(r.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return apperr.Persistence("stat tasks file", err)
	}
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperr.Persistence("create tasks dir", err)
		}
	}
	if err := os.WriteFile(r.path, []byte("[]"), 0o644); err != nil {
		return apperr.Persistence("create tasks file", err)
	}
	return nil
}

func (r *Repository) AddTask(ctx context.Context, t task.Task) (*task.Task, error) {
	tasks, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, existing := range tasks {
		if existing.ID == t.ID {
			return nil, fmt.Errorf("task %s already exists: %w", t.ID, apperr.ErrConflict)
		}
	}
	tasks = append(tasks, t.Clone())
	if err := r.save(tasks); err != nil {
		return nil, err
	}
	out := t.Clone()
	return &out, nil
}

func (r *Repository) GetAllTasks(ctx context.Context) ([]task.Task, error) {
	return r.load()
}

func (r *Repository) GetTaskByID(ctx context.Context, id string) (*task.Task, error) {
	tasks, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i], nil
		}
	}
	return nil, nil
}

func (r *Repository) UpdateTask(ctx context.Context, id, title string, description *string) (*task.Task, error) {
	return r.mutate(id, func(t *task.Task) { t.ApplyUpdate(title, description, r.now()) })
}

func (r *Repository) ToggleTaskStatus(ctx context.Context, id string) (*task.Task, error) {
	return r.mutate(id, func(t *task.Task) { t.Toggle(r.now()) })
}

func (r *Repository) DeleteTask(ctx context.Context, id string) (bool, error) {
	tasks, err := r.load()
	if err != nil {
		return false, err
	}
	kept := tasks[:0]
	for _, t := range tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(tasks) {
		return false, nil
	}
	if err := r.save(kept); err != nil {
		return false, err
	}
	return true, nil
}

// mutate applies fn to the task with id and rewrites the file. Absence writes nothing.
func (r *Repository) mutate(id string, fn func(*task.Task)) (*task.Task, error) {
	tasks, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ID != id {
			continue
		}
		fn(&tasks[i])
		if err := r.save(tasks); err != nil {
			return nil, err
		}
		out := tasks[i].Clone()
		return &out, nil
	}
	return nil, nil
}

// load reads the document. A missing file is an empty store; so is one that
// is not a JSON array of records, which is logged and otherwise ignored.
// A well-formed record with bad field values is a persistence error, so the
// next write cannot drop the tasks around it.
func (r *Repository) load() ([]task.Task, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []task.Task{}, nil
		}
		return nil, apperr.Persistence("read tasks file", err)
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		r.logger.Warn("tasks file is malformed, treating as empty",
			slog.String("path", r.path),
			slog.String("error", err.Error()))
		return []task.Task{}, nil
	}

	tasks, err := decode(records, r.now())
	if err != nil {
		return nil, apperr.Persistence("decode tasks file", err)
	}
	return tasks, nil
}

func (r *Repository) save(tasks []task.Task) error {
	data, err := encode(tasks)
	if err != nil {
		return apperr.Persistence("encode tasks", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return apperr.Persistence("write tasks file", err)
	}
	r.logger.Debug("tasks file written", slog.String("path", r.path), slog.Int("count", len(tasks)))
	return nil
}

func encode(tasks []task.Task) ([]byte, error) {
	records := make([]record, len(tasks))
	for i, t := range tasks {
		records[i] = record{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Status:      string(t.Status),
			CreatedAt:   t.CreatedAt.Format(time.RFC3339Nano),
			UpdatedAt:   t.UpdatedAt.Format(time.RFC3339Nano),
		}
	}
	return json.MarshalIndent(records, "", "  ")
}

// decode converts records to tasks. Missing timestamps default to now.
func decode(records []record, now time.Time) ([]task.Task, error) {
	tasks := make([]task.Task, 0, len(records))
	for _, rec := range records {
		status := task.Status(rec.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("task %s: invalid status %q", rec.ID, rec.Status)
		}
		created, err := parseTime(rec.CreatedAt, now)
		if err != nil {
			return nil, fmt.Errorf("task %s: created_at: %w", rec.ID, err)
		}
		updated, err := parseTime(rec.UpdatedAt, now)
		if err != nil {
			return nil, fmt.Errorf("task %s: updated_at: %w", rec.ID, err)
		}
		tasks = append(tasks, task.Task{
			ID:          rec.ID,
			Title:       rec.Title,
			Description: rec.Description,
			Status:      status,
			CreatedAt:   created,
			UpdatedAt:   updated,
		})
	}
	return tasks, nil
}

// parseTime accepts RFC 3339 and zone-less ISO-8601, the latter read as UTC.
// An empty value yields fallback.
func parseTime(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(legacyLayout, s, time.UTC)
}
