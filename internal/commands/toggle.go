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
	Register(&ToggleCmd{})
}

// ToggleCmd flips a task between pending and completed.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string       { return "toggle" }
func (c *ToggleCmd) Aliases() []string  { return []string{"done"} }
func (c *ToggleCmd) Synopsis() string   { return "Toggle a task between pending and completed" }
func (c *ToggleCmd) Usage() string      { return "todo toggle <ref>" }
func (c *ToggleCmd) NeedsService() bool { return true }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		return usageError(errOut, c, "exactly one task reference required")
	}

	t, code := resolveOrReport(ctx, svc, args[0], errOut)
	if t == nil {
		return code
	}

	toggled, err := svc.ToggleTaskStatus(ctx, t.ID)
	if err != nil {
		return fail(errOut, err)
	}
	if toggled == nil {
		reportNotFound(errOut, args[0])
		return exitcode.UserError
	}

	if !cfg.Quiet {
		output.Success(out, "Task status toggled successfully to %s", toggled.Status)
	}
	return exitcode.Success
}
