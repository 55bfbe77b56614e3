package commands

import (
	"context"
	"flag"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/service"
)

func init() {
	Register(&UpdateCmd{})
}

// UpdateCmd implements the update command.
type UpdateCmd struct{}

func (c *UpdateCmd) Name() string       { return "update" }
func (c *UpdateCmd) Aliases() []string  { return []string{"edit"} }
func (c *UpdateCmd) Synopsis() string   { return "Change a task's title and description" }
func (c *UpdateCmd) Usage() string      { return "todo update <ref> <title> [description]" }
func (c *UpdateCmd) NeedsService() bool { return true }

func (c *UpdateCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UpdateCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) < 2 {
		return usageError(errOut, c, "task reference and title required")
	}
	if len(args) > 3 {
		return usageError(errOut, c, "too many arguments (quote titles that contain spaces)")
	}

	var description *string
	if len(args) == 3 {
		description = &args[2]
	}

	t, code := resolveOrReport(ctx, svc, args[0], errOut)
	if t == nil {
		return code
	}

	updated, err := svc.UpdateTask(ctx, t.ID, args[1], description)
	if err != nil {
		return fail(errOut, err)
	}
	if updated == nil {
		reportNotFound(errOut, args[0])
		return exitcode.UserError
	}

	if !cfg.Quiet {
		output.Success(out, "Task updated successfully")
	}
	return exitcode.Success
}
