// Package cli implements the cms operations tool.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atelier-interiors/cms-backend/internal/content/actions"
	"github.com/atelier-interiors/cms-backend/internal/content/store"
	"github.com/atelier-interiors/cms-backend/internal/realtime/bus"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // some rows or documents were rejected
	ExitCommandError = 2 // bad input or unreachable dependencies
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

func wrapExit(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// ExitCode extracts the exit code from err.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// App is the set of collaborators a command works against.
type App struct {
	Store     store.Store
	Publisher bus.Publisher
	Pages     actions.Invalidator
	Close     func()
}

// Deps opens the collaborators lazily so that --help never dials anything.
type Deps struct {
	Open    func(ctx context.Context) (*App, error)
	Migrate func(ctx context.Context) ([]string, error)
}

func (d Deps) open(cmd *cobra.Command) (*App, error) {
	app, err := d.Open(cmd.Context())
	if err != nil {
		return nil, wrapExit(ExitCommandError, "open store", err)
	}
	if app.Close == nil {
		app.Close = func() {}
	}
	return app, nil
}

// NewRootCommand creates the root command for the cms tool.
func NewRootCommand(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cms",
		Short:         "Operate the interiors content backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newMigrateCommand(deps))
	cmd.AddCommand(newSeedCommand(deps))
	cmd.AddCommand(newSectionCommand(deps))
	cmd.AddCommand(newInquiriesCommand(deps))
	return cmd
}
