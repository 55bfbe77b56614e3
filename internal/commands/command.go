// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"errors"
	"flag"
	"io"

	"todo/internal/apperr"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/service"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsService returns true if the command operates on tasks.
	// Commands like help, version, login, logout return false.
	NeedsService() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided.
	// svc is nil if NeedsService() returns false.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int
}

// fail reports err on errOut and returns the matching exit code.
func fail(errOut io.Writer, err error) int {
	if msg := validationMessage(err); msg != "" {
		output.Error(errOut, "%s", msg)
	} else {
		output.Error(errOut, "%v", err)
	}
	return exitcode.FromError(err)
}

// validationMessage returns the message of a validation failure, or "".
func validationMessage(err error) string {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return ""
}

// usageError reports a bad invocation.
func usageError(errOut io.Writer, cmd Command, msg string) int {
	output.Error(errOut, "%s", msg)
	output.Info(errOut, "usage: %s", cmd.Usage())
	return exitcode.UserError
}
