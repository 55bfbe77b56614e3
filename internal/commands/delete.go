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
	Register(&DeleteCmd{})
}

// DeleteCmd implements the delete command.
type DeleteCmd struct{}

func (c *DeleteCmd) Name() string       { return "delete" }
func (c *DeleteCmd) Aliases() []string  { return []string{"rm"} }
func (c *DeleteCmd) Synopsis() string   { return "Delete a task" }
func (c *DeleteCmd) Usage() string      { return "todo delete <ref>" }
func (c *DeleteCmd) NeedsService() bool { return true }

func (c *DeleteCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DeleteCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		return usageError(errOut, c, "exactly one task reference required")
	}

	t, code := resolveOrReport(ctx, svc, args[0], errOut)
	if t == nil {
		return code
	}

	deleted, err := svc.DeleteTask(ctx, t.ID)
	if err != nil {
		return fail(errOut, err)
	}
	if !deleted {
		reportNotFound(errOut, args[0])
		return exitcode.UserError
	}

	if !cfg.Quiet {
		output.Success(out, "Task deleted successfully")
	}
	return exitcode.Success
}
