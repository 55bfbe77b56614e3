package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/service"
)

func init() {
	Register(&RunCmd{})
}

// RunCmd starts the interactive menu.
type RunCmd struct {
	// In is read for menu input. Defaults to os.Stdin.
	In io.Reader
}

func (c *RunCmd) Name() string       { return "run" }
func (c *RunCmd) Aliases() []string  { return []string{"interactive"} }
func (c *RunCmd) Synopsis() string   { return "Start the interactive menu" }
func (c *RunCmd) Usage() string      { return "todo run" }
func (c *RunCmd) NeedsService() bool { return true }

func (c *RunCmd) RegisterFlags(fs *flag.FlagSet) {}

const menuText = `
Select an option:
1. Add Task
2. List All Tasks
3. Update Task
4. Delete Task
5. Toggle Task Status
6. Exit
`

func (c *RunCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	in := c.In
	if in == nil {
		in = os.Stdin
	}
	s := &session{svc: svc, out: out, in: bufio.NewScanner(in)}

	for ctx.Err() == nil {
		output.Info(out, "TODO CONSOLE APP")
		fmt.Fprint(out, menuText)

		choice, ok := s.prompt("Enter your choice (1-6)")
		if !ok {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Exiting...")
			return exitcode.Success
		}

		var err error
		switch strings.TrimSpace(choice) {
		case "1":
			ok, err = s.add(ctx)
		case "2":
			err = s.list(ctx)
		case "3":
			ok, err = s.withTask(ctx, "update", s.update)
		case "4":
			ok, err = s.withTask(ctx, "delete", s.delete)
		case "5":
			ok, err = s.withTask(ctx, "toggle status", s.toggle)
		case "6":
			fmt.Fprintln(out, "Thank you for using Todo Console App!")
			return exitcode.Success
		default:
			output.Error(out, "Please enter a number between 1 and 6")
		}
		if err != nil {
			output.Error(out, "An unexpected error occurred: %v", err)
		}
		if !ok {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Exiting...")
			return exitcode.Success
		}
	}
	return exitcode.Success
}

// session carries the state of one interactive run.
type session struct {
	svc service.Service
	out io.Writer
	in  *bufio.Scanner
}

// prompt reads one line. ok is false at end of input.
func (s *session) prompt(label string) (string, bool) {
	fmt.Fprintf(s.out, "%s: ", label)
	if !s.in.Scan() {
		return "", false
	}
	return s.in.Text(), true
}

// optional converts a blank answer to an absent value.
func optional(answer string) *string {
	if strings.TrimSpace(answer) == "" {
		return nil
	}
	return &answer
}

func (s *session) add(ctx context.Context) (bool, error) {
	title, ok := s.prompt("Enter task title")
	if !ok {
		return false, nil
	}
	description, ok := s.prompt("Enter task description (optional)")
	if !ok {
		return false, nil
	}

	t, err := s.svc.AddTask(ctx, title, optional(description))
	if err != nil {
		if ve := validationMessage(err); ve != "" {
			output.Error(s.out, "%s", ve)
			return true, nil
		}
		return true, err
	}
	output.Success(s.out, "Task added successfully with ID: %s", output.ShortID(t.ID))
	return true, nil
}

func (s *session) list(ctx context.Context) error {
	tasks, err := s.svc.ListTasks(ctx)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		output.Info(s.out, "No tasks found")
		return nil
	}
	output.FormatTaskTable(s.out, tasks)
	return nil
}

// withTask shows the table, asks for a reference and hands the resolved id to fn.
func (s *session) withTask(ctx context.Context, verb string, fn func(ctx context.Context, id, ref string) (bool, error)) (bool, error) {
	tasks, err := s.svc.ListTasks(ctx)
	if err != nil {
		return true, err
	}
	if len(tasks) == 0 {
		output.Info(s.out, "No tasks available to %s", strings.Fields(verb)[0])
		return true, nil
	}
	output.FormatTaskTable(s.out, tasks)

	ref, ok := s.prompt(fmt.Sprintf("Enter task ID to %s (use full ID or first 8 chars)", verb))
	if !ok {
		return false, nil
	}
	t, _ := resolveOrReport(ctx, s.svc, ref, s.out)
	if t == nil {
		return true, nil
	}
	return fn(ctx, t.ID, ref)
}

func (s *session) update(ctx context.Context, id, ref string) (bool, error) {
	title, ok := s.prompt("Enter new title")
	if !ok {
		return false, nil
	}
	description, ok := s.prompt("Enter new description (optional)")
	if !ok {
		return false, nil
	}

	updated, err := s.svc.UpdateTask(ctx, id, title, optional(description))
	if err != nil {
		if ve := validationMessage(err); ve != "" {
			output.Error(s.out, "%s", ve)
			return true, nil
		}
		return true, err
	}
	if updated == nil {
		reportNotFound(s.out, ref)
		return true, nil
	}
	output.Success(s.out, "Task updated successfully")
	return true, nil
}

func (s *session) delete(ctx context.Context, id, ref string) (bool, error) {
	deleted, err := s.svc.DeleteTask(ctx, id)
	if err != nil {
		return true, err
	}
	if !deleted {
		reportNotFound(s.out, ref)
		return true, nil
	}
	output.Success(s.out, "Task deleted successfully")
	return true, nil
}

func (s *session) toggle(ctx context.Context, id, ref string) (bool, error) {
	toggled, err := s.svc.ToggleTaskStatus(ctx, id)
	if err != nil {
		return true, err
	}
	if toggled == nil {
		reportNotFound(s.out, ref)
		return true, nil
	}
	output.Success(s.out, "Task status toggled successfully to %s", toggled.Status)
	return true, nil
}
