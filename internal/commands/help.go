package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "todo help" }
func (c *HelpCmd) NeedsService() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  todo                                          List all tasks
  todo list [common flags] [--json]             List all tasks
  todo add [common flags] <title> [description]
  todo show [common flags] <ref>
  todo update [common flags] <ref> <title> [description]
  todo delete [common flags] <ref>
  todo toggle [common flags] <ref>
  todo run [common flags]                       Interactive menu
  todo login [common flags]                     Authorize the google backend
  todo logout [common flags]
  todo help
  todo version

Task references:
  <id>        full task id
  <prefix>    unique id prefix, e.g. the 8-character id shown by list
  #<n>        n-th row of list

Common flags:
  --config <dir>     Override config directory
  --backend <name>   file (default), memory, sqlite or google
  --file <path>      Tasks file for the file backend
  --quiet            Suppress informational output
  --debug            Print debug logs to stderr
`
