package cli

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/specialistvlad/odegrid/internal/app"
)

// Exit codes.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// options holds the flags shared by every command.
type options struct {
	v          *viper.Viper
	configFile string
	stdout     io.Writer
	stderr     io.Writer
}

// NewRootCommand builds the command tree. Results go to stdout, logs and
// diagnostics to stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{v: app.NewViper(), stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "odegrid",
		Short: "Validate, order and name the equations of ODE models",
		Long: `odegrid checks models written in the HCL model format: it resolves every
reference, rejects cyclical definitions, warns about unused variables and
computes an evaluation order and unique output names for code generators.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "Path to a YAML config file.")
	pf.String("log-level", "info", "Logging level: 'debug', 'info', 'warn' or 'error'.")
	pf.String("log-format", "text", "Log output format: 'text' or 'json'.")
	pf.Bool("remove-unused", false, "Delete unused variables during validation instead of warning.")
	pf.String("metrics-file", "", "Write Prometheus metrics to this file on exit.")
	pf.String("trace-file", "", "Write OpenTelemetry spans to this file.")
	for key, flag := range map[string]string{
		"log.level":              "log-level",
		"log.format":             "log-format",
		"validate.remove_unused": "remove-unused",
		"metrics.file":           "metrics-file",
		"tracing.file":           "trace-file",
	} {
		// The flags exist, so binding cannot fail.
		_ = opts.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		newCheckCommand(opts),
		newOrderCommand(opts),
		newNamesCommand(opts),
		newFmtCommand(opts),
		newDepsCommand(opts),
	)
	return root
}

// Execute runs the command tree with args. Failures are returned as
// *ExitError.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := NewRootCommand(stdout, stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	// Everything cobra itself rejects is a usage problem.
	return &ExitError{Code: ExitUsage, Message: err.Error()}
}

// newApp builds the application for the model paths given on the command
// line.
func (o *options) newApp(cmd *cobra.Command, paths []string) (*app.App, error) {
	cfg, err := app.LoadConfig(o.v, o.configFile, paths)
	if err != nil {
		return nil, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	a, err := app.NewApp(cmd.Context(), o.stderr, cfg)
	if err != nil {
		return nil, &ExitError{Code: ExitFailure, Message: err.Error()}
	}
	return a, nil
}

// fail renders err and turns it into an ExitError.
func (o *options) fail(a *app.App, err error) error {
	if werr := a.WriteDiagnostics(o.stderr, err); werr != nil {
		return &ExitError{Code: ExitFailure, Message: err.Error()}
	}
	return &ExitError{Code: ExitFailure, Message: "odegrid: " + firstLine(err)}
}

// withApp runs fn with a fresh application and closes it afterwards.
func (o *options) withApp(cmd *cobra.Command, paths []string, fn func(ctx context.Context, a *app.App) error) (err error) {
	a, err := o.newApp(cmd, paths)
	if err != nil {
		return err
	}
	ctx := a.Context(cmd.Context())
	defer func() {
		if cerr := a.Close(ctx); cerr != nil && err == nil {
			err = &ExitError{Code: ExitFailure, Message: cerr.Error()}
		}
	}()
	if err := fn(ctx, a); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr
		}
		return o.fail(a, err)
	}
	return nil
}

func firstLine(err error) string {
	line, _, _ := strings.Cut(err.Error(), "\n")
	return line
}
