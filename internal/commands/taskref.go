package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"todo/internal/apperr"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/service"
	"todo/internal/task"
)

var (
	// ErrTaskRefRequired indicates no task reference was provided.
	ErrTaskRefRequired = errors.New("task reference required")

	// ErrAmbiguousRef indicates an id prefix matched more than one task.
	ErrAmbiguousRef = errors.New("ambiguous task reference")

	// ErrInvalidRef indicates a malformed #N reference.
	ErrInvalidRef = errors.New("invalid task reference")
)

// ResolveTask finds the task a reference names. A reference is one of:
//   - a full task id
//   - a unique id prefix, such as the short id shown by list
//   - #N, the N-th row of list (1-based)
func ResolveTask(ctx context.Context, svc service.Service, ref string) (*task.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrTaskRefRequired
	}

	if num, ok := strings.CutPrefix(ref, "#"); ok {
		n, err := strconv.Atoi(num)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidRef, ref)
		}
		tasks, err := svc.ListTasks(ctx)
		if err != nil {
			return nil, err
		}
		if n > len(tasks) {
			return nil, fmt.Errorf("task %s: %w", ref, apperr.ErrNotFound)
		}
		return &tasks[n-1], nil
	}

	t, err := svc.GetTask(ctx, ref)
	if err != nil || t != nil {
		return t, err
	}

	tasks, err := svc.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	var match *task.Task
	for i := range tasks {
		if !strings.HasPrefix(tasks[i].ID, ref) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("%w: %s", ErrAmbiguousRef, ref)
		}
		match = &tasks[i]
	}
	if match == nil {
		return nil, fmt.Errorf("task %s: %w", ref, apperr.ErrNotFound)
	}
	return match, nil
}

// resolveOrReport resolves ref, printing the user-facing error on failure.
// The returned code is only meaningful when the task is nil.
func resolveOrReport(ctx context.Context, svc service.Service, ref string, errOut io.Writer) (*task.Task, int) {
	t, err := ResolveTask(ctx, svc, ref)
	switch {
	case err == nil:
		return t, exitcode.Success
	case errors.Is(err, apperr.ErrNotFound):
		reportNotFound(errOut, ref)
		return nil, exitcode.UserError
	case errors.Is(err, ErrAmbiguousRef), errors.Is(err, ErrTaskRefRequired), errors.Is(err, ErrInvalidRef):
		output.Error(errOut, "%v", err)
		return nil, exitcode.UserError
	default:
		return nil, fail(errOut, err)
	}
}

func reportNotFound(w io.Writer, ref string) {
	output.Error(w, "Task with ID %s not found", ref)
}
