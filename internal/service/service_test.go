package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/apperr"
	"todo/internal/backend/file"
	"todo/internal/backend/memory"
	"todo/internal/backend/sqlstore"
	"todo/internal/service"
	"todo/internal/task"
)

func strPtr(s string) *string { return &s }

// repoCase runs a test against every local backend.
type repoCase struct {
	name string
	new  func(t *testing.T) task.Repository
}

func repoCases() []repoCase {
	return []repoCase{
		{"memory", func(t *testing.T) task.Repository { return memory.New() }},
		{"file", func(t *testing.T) task.Repository {
			repo, err := file.New(filepath.Join(t.TempDir(), "tasks.json"))
			require.NoError(t, err)
			return repo
		}},
	}
}

func TestAddTaskTrimsFields(t *testing.T) {
	for _, rc := range repoCases() {
		t.Run(rc.name, func(t *testing.T) {
			ctx := context.Background()
			svc := service.NewTaskService(rc.new(t))

			created, err := svc.AddTask(ctx, "  Buy milk  ", strPtr("  2%  "))
			require.NoError(t, err)
			assert.Equal(t, "Buy milk", created.Title)
			require.NotNil(t, created.Description)
			assert.Equal(t, "2%", *created.Description)
			assert.Equal(t, task.StatusPending, created.Status)
			assert.True(t, created.CreatedAt.Equal(created.UpdatedAt))

			tasks, err := svc.ListTasks(ctx)
			require.NoError(t, err)
			assert.Len(t, tasks, 1)

			got, err := svc.GetTask(ctx, created.ID)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, "Buy milk", got.Title)
		})
	}
}

func TestAddTaskDescriptionNormalization(t *testing.T) {
	tests := []struct {
		name string
		in   *string
		want *string
	}{
		{"absent", nil, nil},
		{"empty", strPtr(""), nil},
		{"whitespace", strPtr("   "), strPtr("")},
		{"padded", strPtr(" note "), strPtr("note")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := service.NewTaskService(memory.New())
			created, err := svc.AddTask(context.Background(), "A", tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, created.Description)
		})
	}
}

func TestBlankTitleIsRejectedWithoutSideEffects(t *testing.T) {
	for _, rc := range repoCases() {
		t.Run(rc.name, func(t *testing.T) {
			ctx := context.Background()
			svc := service.NewTaskService(rc.new(t))
			existing, err := svc.AddTask(ctx, "A", nil)
			require.NoError(t, err)

			for _, title := range []string{"", " ", "\t\n  "} {
				_, err := svc.AddTask(ctx, title, nil)
				var ve *apperr.ValidationError
				require.True(t, errors.As(err, &ve), "add %q", title)
				assert.Equal(t, "title", ve.Field)
				assert.Equal(t, service.ErrEmptyTitle, ve.Message)

				_, err = svc.UpdateTask(ctx, existing.ID, title, nil)
				assert.True(t, apperr.IsValidation(err), "update %q", title)
			}

			tasks, err := svc.ListTasks(ctx)
			require.NoError(t, err)
			require.Len(t, tasks, 1)
			assert.Equal(t, "A", tasks[0].Title)
		})
	}
}

func TestUpdateTask(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := service.NewTaskService(memory.New(), service.WithClock(func() time.Time { return created }))

	orig, err := svc.AddTask(ctx, "A", strPtr("first"))
	require.NoError(t, err)

	updated, err := svc.UpdateTask(ctx, orig.ID, "  B  ", nil)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "B", updated.Title)
	assert.Equal(t, "first", *updated.Description)
	assert.Equal(t, created, updated.CreatedAt)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))

	updated, err = svc.UpdateTask(ctx, orig.ID, "B", strPtr(" second "))
	require.NoError(t, err)
	assert.Equal(t, "second", *updated.Description)

	missing, err := svc.UpdateTask(ctx, "no-such-id", "C", nil)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUpdateWithEmptyTitleLeavesTaskUnchanged(t *testing.T) {
	ctx := context.Background()
	svc := service.NewTaskService(memory.New())

	created, err := svc.AddTask(ctx, "A", nil)
	require.NoError(t, err)

	_, err = svc.UpdateTask(ctx, created.ID, "", nil)
	assert.True(t, apperr.IsValidation(err))

	got, err := svc.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Title)
}

func TestToggleDeleteLifecycle(t *testing.T) {
	for _, rc := range repoCases() {
		t.Run(rc.name, func(t *testing.T) {
			ctx := context.Background()
			svc := service.NewTaskService(rc.new(t))

			created, err := svc.AddTask(ctx, "A", nil)
			require.NoError(t, err)

			first, err := svc.ToggleTaskStatus(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, task.StatusCompleted, first.Status)

			second, err := svc.ToggleTaskStatus(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, task.StatusPending, second.Status)
			assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))
			assert.False(t, first.UpdatedAt.Before(created.UpdatedAt))
			assert.True(t, created.CreatedAt.Equal(second.CreatedAt))

			deleted, err := svc.DeleteTask(ctx, created.ID)
			require.NoError(t, err)
			assert.True(t, deleted)

			got, err := svc.GetTask(ctx, created.ID)
			require.NoError(t, err)
			assert.Nil(t, got)

			deleted, err = svc.DeleteTask(ctx, created.ID)
			require.NoError(t, err)
			assert.False(t, deleted)

			toggled, err := svc.ToggleTaskStatus(ctx, created.ID)
			require.NoError(t, err)
			assert.Nil(t, toggled)
		})
	}
}

func TestIDsAreGenerated(t *testing.T) {
	ctx := context.Background()
	n := 0
	svc := service.NewTaskService(memory.New(), service.WithIDGenerator(func() string {
		n++
		return []string{"first", "second"}[n-1]
	}))

	a, err := svc.AddTask(ctx, "A", nil)
	require.NoError(t, err)
	b, err := svc.AddTask(ctx, "B", nil)
	require.NoError(t, err)
	assert.Equal(t, "first", a.ID)
	assert.Equal(t, "second", b.ID)

	c, err := service.NewTaskService(memory.New()).AddTask(ctx, "C", nil)
	require.NoError(t, err)
	assert.Len(t, c.ID, 36)
}

// failingRepo returns err from every call.
type failingRepo struct{ err error }

func (f failingRepo) AddTask(context.Context, task.Task) (*task.Task, error) { return nil, f.err }
func (f failingRepo) GetAllTasks(context.Context) ([]task.Task, error)      { return nil, f.err }
func (f failingRepo) GetTaskByID(context.Context, string) (*task.Task, error) {
	return nil, f.err
}
func (f failingRepo) UpdateTask(context.Context, string, string, *string) (*task.Task, error) {
	return nil, f.err
}
func (f failingRepo) DeleteTask(context.Context, string) (bool, error) { return false, f.err }
func (f failingRepo) ToggleTaskStatus(context.Context, string) (*task.Task, error) {
	return nil, f.err
}

func TestRepositoryErrorsAreWrapped(t *testing.T) {
	ctx := context.Background()
	svc := service.NewTaskService(failingRepo{err: apperr.ErrPersistence})

	_, err := svc.AddTask(ctx, "A", nil)
	assert.ErrorIs(t, err, apperr.ErrPersistence)
	_, err = svc.ListTasks(ctx)
	assert.ErrorIs(t, err, apperr.ErrPersistence)
	_, err = svc.UpdateTask(ctx, "x", "A", nil)
	assert.ErrorIs(t, err, apperr.ErrPersistence)
	_, err = svc.DeleteTask(ctx, "x")
	assert.ErrorIs(t, err, apperr.ErrPersistence)
	_, err = svc.ToggleTaskStatus(ctx, "x")
	assert.ErrorIs(t, err, apperr.ErrPersistence)
}

func TestCategories(t *testing.T) {
	ctx := context.Background()
	repo, err := sqlstore.Open(filepath.Join(t.TempDir(), "test.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	svc := service.NewTaskService(repo)

	plain, err := svc.AddTask(ctx, "Plain", nil)
	require.NoError(t, err)
	assert.Equal(t, task.DefaultCategory, plain.Category)

	work, err := svc.AddTaskInCategory(ctx, "Report", nil, "  Work ")
	require.NoError(t, err)
	assert.Equal(t, "Work", work.Category)

	blank, err := svc.AddTaskInCategory(ctx, "Blank", nil, "   ")
	require.NoError(t, err)
	assert.Equal(t, task.DefaultCategory, blank.Category)

	moved, err := svc.SetCategory(ctx, plain.ID, "Home")
	require.NoError(t, err)
	require.NotNil(t, moved)
	assert.Equal(t, "Home", moved.Category)

	missing, err := svc.SetCategory(ctx, "nope", "Home")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = svc.SetCategory(ctx, plain.ID, strings.Repeat("x", service.MaxCategoryLength+1))
	assert.True(t, apperr.IsValidation(err))
}

func TestSetCategoryUnsupported(t *testing.T) {
	svc := service.NewTaskService(memory.New())
	created, err := svc.AddTask(context.Background(), "A", nil)
	require.NoError(t, err)

	_, err = svc.SetCategory(context.Background(), created.ID, "Work")
	assert.ErrorIs(t, err, service.ErrNoCategories)
}
