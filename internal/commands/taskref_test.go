package commands_test

import (
	"context"
	"errors"
	"testing"

	"todo/internal/apperr"
	"todo/internal/commands"
	"todo/internal/task"
	"todo/internal/testutil"
)

func TestResolveTask(t *testing.T) {
	svc := testutil.NewFakeService()
	first := svc.Seed("A", nil, task.StatusPending)
	second := svc.Seed("B", nil, task.StatusPending)

	tests := []struct {
		name string
		ref  string
		want string
	}{
		{"full id", first, first},
		{"short id", "00000002", second},
		{"row number", "#1", first},
		{"surrounding space", "  #2 ", second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := commands.ResolveTask(context.Background(), svc, tt.ref)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ID != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got.ID)
			}
		})
	}
}

func TestResolveTask_Errors(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.Seed("A", nil, task.StatusPending)
	svc.Seed("B", nil, task.StatusPending)

	tests := []struct {
		name string
		ref  string
		want error
	}{
		{"empty", "", commands.ErrTaskRefRequired},
		{"ambiguous prefix", "0000000", commands.ErrAmbiguousRef},
		{"unknown id", "deadbeef", apperr.ErrNotFound},
		{"row out of range", "#3", apperr.ErrNotFound},
		{"row zero", "#0", commands.ErrInvalidRef},
		{"row not a number", "#x", commands.ErrInvalidRef},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := commands.ResolveTask(context.Background(), svc, tt.ref)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestResolveTask_ListError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListTasksErr = errors.New("boom")

	_, err := commands.ResolveTask(context.Background(), svc, "#1")
	if err == nil || err.Error() != "boom" {
		t.Errorf("expected list error, got %v", err)
	}
}
