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
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct{}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return []string{"create"} }
func (c *AddCmd) Synopsis() string   { return "Add a task" }
func (c *AddCmd) Usage() string      { return "todo add <title> [description]" }
func (c *AddCmd) NeedsService() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		return usageError(errOut, c, "title required")
	}
	if len(args) > 2 {
		return usageError(errOut, c, "too many arguments (quote titles that contain spaces)")
	}

	var description *string
	if len(args) == 2 {
		description = &args[1]
	}

	t, err := svc.AddTask(ctx, args[0], description)
	if err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		output.Success(out, "Task added successfully with ID: %s", t.ID)
	}
	return exitcode.Success
}
