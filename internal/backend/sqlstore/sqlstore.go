// Package sqlstore implements task.Repository on a relational table through GORM.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"todo/internal/apperr"
	"todo/internal/task"
)

// DefaultPath is the SQLite database file used when none is configured.
const DefaultPath = "todo.db"

// TaskRow is the GORM model for the tasks table.
type TaskRow struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Title       string    `gorm:"not null"`
	Description *string   `gorm:"type:text"`
	Status      string    `gorm:"size:16;not null;default:pending"`
	Category    string    `gorm:"size:50;not null;default:General"`
	UserID      string    `gorm:"size:36;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime:false"`
}

// TableName specifies the table name for GORM.
func (TaskRow) TableName() string {
	return "tasks"
}

func rowFromTask(t task.Task) TaskRow {
	category := t.Category
	if category == "" {
		category = task.DefaultCategory
	}
	return TaskRow{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Category:    category,
		UserID:      t.UserID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (r TaskRow) toTask() task.Task {
	return task.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      task.Status(r.Status),
		Category:    r.Category,
		UserID:      r.UserID,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

var _ task.Categorizer = (*Repository)(nil)

// Repository stores tasks in the tasks table. A repository created by ForUser
// only sees and creates rows owned by that user.
type Repository struct {
	db     *gorm.DB
	userID string
	owned  bool
	now    func() time.Time
}

// Config returns the GORM configuration used by this package.
func Config(debug bool) *gorm.Config {
	level := logger.Silent
	if debug {
		level = logger.Info
	}
	return &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	}
}

// Open opens (creating if needed) the SQLite database at path and migrates the schema.
func Open(path string, debug bool) (*Repository, error) {
	if path == "" {
		path = DefaultPath
	}
	db, err := gorm.Open(sqlite.Open(path), Config(debug))
	if err != nil {
		return nil, apperr.Persistence("open database", err)
	}
	repo, err := New(db)
	if err != nil {
		closeDB(db)
		return nil, err
	}
	repo.owned = true
	return repo, nil
}

// New wraps an existing connection and migrates the schema. The caller keeps ownership of db.
func New(db *gorm.DB) (*Repository, error) {
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return &Repository{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Migrate creates or updates the tasks table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&TaskRow{}); err != nil {
		return apperr.Persistence("migrate tasks", err)
	}
	return nil
}

// ForUser returns a view of the repository scoped to userID.
func (r *Repository) ForUser(userID string) *Repository {
	return &Repository{db: r.db, userID: userID, now: r.now}
}

// Close releases the connection if this repository opened it.
func (r *Repository) Close() error {
	if !r.owned {
		return nil
	}
	return closeDB(r.db)
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r *Repository) scoped(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&TaskRow{})
	if r.userID != "" {
		db = db.Where("user_id = ?", r.userID)
	}
	return db
}

func (r *Repository) AddTask(ctx context.Context, t task.Task) (*task.Task, error) {
	if r.userID != "" {
		t.UserID = r.userID
	}
	row := rowFromTask(t)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("task %s already exists: %w", t.ID, apperr.ErrConflict)
		}
		return nil, apperr.Persistence("insert task", err)
	}
	out := row.toTask()
	return &out, nil
}

func (r *Repository) GetAllTasks(ctx context.Context) ([]task.Task, error) {
	var rows []TaskRow
	if err := r.scoped(ctx).Order("created_at ASC").Order("rowid ASC").Find(&rows).Error; err != nil {
		return nil, apperr.Persistence("list tasks", err)
	}
	tasks := make([]task.Task, len(rows))
	for i, row := range rows {
		tasks[i] = row.toTask()
	}
	return tasks, nil
}

func (r *Repository) GetTaskByID(ctx context.Context, id string) (*task.Task, error) {
	row, err := r.find(r.scoped(ctx), id)
	if err != nil || row == nil {
		return nil, err
	}
	out := row.toTask()
	return &out, nil
}

func (r *Repository) UpdateTask(ctx context.Context, id, title string, description *string) (*task.Task, error) {
	return r.mutate(ctx, id, func(t *task.Task) { t.ApplyUpdate(title, description, r.now()) })
}

func (r *Repository) ToggleTaskStatus(ctx context.Context, id string) (*task.Task, error) {
	return r.mutate(ctx, id, func(t *task.Task) { t.Toggle(r.now()) })
}

func (r *Repository) SetTaskCategory(ctx context.Context, id, category string) (*task.Task, error) {
	return r.mutate(ctx, id, func(t *task.Task) { t.SetCategory(category, r.now()) })
}

func (r *Repository) DeleteTask(ctx context.Context, id string) (bool, error) {
	result := r.scoped(ctx).Where("id = ?", id).Delete(&TaskRow{})
	if result.Error != nil {
		return false, apperr.Persistence("delete task", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) mutate(ctx context.Context, id string, fn func(*task.Task)) (*task.Task, error) {
	var out *task.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&TaskRow{})
		if r.userID != "" {
			q = q.Where("user_id = ?", r.userID)
		}
		row, err := r.find(q, id)
		if err != nil || row == nil {
			return err
		}
		t := row.toTask()
		fn(&t)
		updated := rowFromTask(t)
		if err := tx.Save(&updated).Error; err != nil {
			return apperr.Persistence("save task", err)
		}
		out = &t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) find(q *gorm.DB, id string) (*TaskRow, error) {
	var row TaskRow
	err := q.Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Persistence("find task", err)
	}
	return &row, nil
}
