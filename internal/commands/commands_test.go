package commands_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"todo/internal/apperr"
	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/task"
	"todo/internal/testutil"
)

func strPtr(s string) *string { return &s }

// runCommand is a helper to run a command with FakeService.
func runCommand(t *testing.T, cmd commands.Command, svc *testutil.FakeService, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := &config.Config{
		Dir:   t.TempDir(),
		Quiet: quiet,
	}

	ctx := context.Background()
	code = cmd.Run(ctx, cfg, svc, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	cmd := &commands.VersionCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "todo 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	cmd := &commands.HelpCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	for _, want := range []string{"Usage:", "todo add", "todo toggle", "--backend"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help output should contain %q", want)
		}
	}
}

// Tests for list command
func TestListCommand_WithTasks(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.Seed("Buy milk", strPtr("2%"), task.StatusPending)
	svc.Seed("Write report", nil, task.StatusCompleted)

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.GoldenString(t, "list_with_tasks", stdout)
}

func TestListCommand_Empty(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, _, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "INFO: No tasks found\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_EmptyQuiet(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, _, code := runCommand(t, &commands.ListCmd{}, svc, nil, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	// Quiet mode should suppress "No tasks found"
	if stdout != "" {
		t.Errorf("expected empty stdout in quiet mode, got %q", stdout)
	}
}

func TestListCommand_JSON(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.Seed("Buy milk", nil, task.StatusPending)

	cmd := &commands.ListCmd{}
	cmd.SetJSON(true)
	stdout, _, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	for _, want := range []string{`"id": "00000001-fake-task"`, `"description": null`, `"status": "pending"`} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %s in %q", want, stdout)
		}
	}
}

func TestListCommand_BackendError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListTasksErr = apperr.Persistence("read tasks file", errors.New("permission denied"))

	_, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if !strings.HasPrefix(stderr, "ERROR: ") {
		t.Errorf("expected error banner, got %q", stderr)
	}
}

// Tests for add command
func TestAddCommand_Success(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"  Buy milk  ", "  2%  "}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	expected := "SUCCESS: Task added successfully with ID: 00000001-fake-task\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}

	tasks := svc.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].Title != "Buy milk" || tasks[0].DescriptionOr("") != "2%" {
		t.Errorf("expected trimmed fields, got %q / %q", tasks[0].Title, tasks[0].DescriptionOr(""))
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, _, code := runCommand(t, &commands.AddCmd{}, svc, []string{"Buy milk"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected empty stdout in quiet mode, got %q", stdout)
	}
}

func TestAddCommand_NoTitle(t *testing.T) {
	svc := testutil.NewFakeService()

	_, stderr, code := runCommand(t, &commands.AddCmd{}, svc, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.HasPrefix(stderr, "ERROR: title required\n") {
		t.Errorf("expected title required error, got %q", stderr)
	}
}

func TestAddCommand_BlankTitle(t *testing.T) {
	svc := testutil.NewFakeService()

	_, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"   "}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "ERROR: Task title cannot be empty\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
	if len(svc.Tasks()) != 0 {
		t.Error("expected no task to be stored")
	}
}

func TestAddCommand_TooManyArgs(t *testing.T) {
	svc := testutil.NewFakeService()

	_, _, code := runCommand(t, &commands.AddCmd{}, svc, []string{"Buy", "milk", "now"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
}

// Tests for show command
func TestShowCommand_ByShortID(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.Seed("Buy milk", strPtr("2%"), task.StatusPending)

	stdout, stderr, code := runCommand(t, &commands.ShowCmd{}, svc, []string{"00000001"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if !strings.Contains(stdout, "ID:          00000001-fake-task\n") {
		t.Errorf("expected full id in detail, got %q", stdout)
	}
	if !strings.Contains(stdout, "Description: 2%\n") {
		t.Errorf("expected description in detail, got %q", stdout)
	}
}

// Tests for update command
func TestUpdateCommand_Success(t *testing.T) {
	svc := testutil.NewFakeService()
	id := svc.Seed("A", strPtr("keep"), task.StatusPending)

	stdout, stderr, code := runCommand(t, &commands.UpdateCmd{}, svc, []string{id, "B"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "SUCCESS: Task updated successfully\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	got := svc.Tasks()[0]
	if got.Title != "B" || got.DescriptionOr("") != "keep" {
		t.Errorf("expected title B with description kept, got %q / %q", got.Title, got.DescriptionOr(""))
	}
}

func TestUpdateCommand_EmptyTitleLeavesTask(t *testing.T) {
	svc := testutil.NewFakeService()
	id := svc.Seed("A", nil, task.StatusPending)

	_, stderr, code := runCommand(t, &commands.UpdateCmd{}, svc, []string{id, ""}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "ERROR: Task title cannot be empty\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if svc.Tasks()[0].Title != "A" {
		t.Errorf("expected title unchanged, got %q", svc.Tasks()[0].Title)
	}
}

func TestUpdateCommand_NotFound(t *testing.T) {
	svc := testutil.NewFakeService()

	_, stderr, code := runCommand(t, &commands.UpdateCmd{}, svc, []string{"missing", "B"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "ERROR: Task with ID missing not found\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

// Tests for delete command
func TestDeleteCommand_ByRowNumber(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.Seed("A", nil, task.StatusPending)
	svc.Seed("B", nil, task.StatusPending)

	stdout, _, code := runCommand(t, &commands.DeleteCmd{}, svc, []string{"#2"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "SUCCESS: Task deleted successfully\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	tasks := svc.Tasks()
	if len(tasks) != 1 || tasks[0].Title != "A" {
		t.Errorf("expected only A to remain, got %+v", tasks)
	}
}

func TestDeleteCommand_Twice(t *testing.T) {
	svc := testutil.NewFakeService()
	id := svc.Seed("A", nil, task.StatusPending)

	_, _, code := runCommand(t, &commands.DeleteCmd{}, svc, []string{id}, false)
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}

	_, stderr, code := runCommand(t, &commands.DeleteCmd{}, svc, []string{id}, false)
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "not found") {
		t.Errorf("expected not found, got %q", stderr)
	}
}

func TestDeleteCommand_NoRef(t *testing.T) {
	svc := testutil.NewFakeService()

	_, _, code := runCommand(t, &commands.DeleteCmd{}, svc, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
}

// Tests for toggle command
func TestToggleCommand_RoundTrip(t *testing.T) {
	svc := testutil.NewFakeService()
	id := svc.Seed("A", nil, task.StatusPending)

	stdout, _, code := runCommand(t, &commands.ToggleCmd{}, svc, []string{id}, false)
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "SUCCESS: Task status toggled successfully to completed\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}

	stdout, _, _ = runCommand(t, &commands.ToggleCmd{}, svc, []string{id}, false)
	if stdout != "SUCCESS: Task status toggled successfully to pending\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
}

func TestToggleCommand_BackendError(t *testing.T) {
	svc := testutil.NewFakeService()
	id := svc.Seed("A", nil, task.StatusPending)
	svc.ToggleTaskErr = errors.New("disk on fire")

	_, stderr, code := runCommand(t, &commands.ToggleCmd{}, svc, []string{id}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "ERROR: disk on fire\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}
