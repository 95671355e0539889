package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/luccosta/ign-gazebo/internal/app"
	"github.com/luccosta/ign-gazebo/internal/config"
	"github.com/luccosta/ign-gazebo/internal/hcl_adapter"
	"github.com/luccosta/ign-gazebo/internal/spawn"
	"github.com/spf13/cobra"
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

func usageError(err error) *ExitError {
	return &ExitError{Code: 2, Message: err.Error()}
}

// Options holds the collaborators the commands use. Zero values select the
// production implementations.
type Options struct {
	Loader     config.Loader
	AppOptions []app.Option
	Picker     Picker
	// Browse runs the interactive browser; nil means the terminal UI.
	Browse  func(ctx context.Context, a *app.App) error
	Version string
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPaths     []string
	logLevel        string
	logFormat       string
	searchPaths     []string
	defaultPath     string
	noQuery         bool
	traversal       string
	healthcheckPort int
}

// NewRootCommand builds the resource-spawner command tree writing to outW
// and errW.
func NewRootCommand(outW, errW io.Writer, opts Options) *cobra.Command {
	if opts.Loader == nil {
		opts.Loader = hcl_adapter.NewLoader()
	}
	if opts.Picker == nil {
		opts.Picker = surveyPicker{}
	}
	if opts.Browse == nil {
		opts.Browse = browseTUI
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	flags := &globalFlags{}
	root := &cobra.Command{
		Use:   "resource-spawner",
		Short: "Browse simulation models and spawn them into a scene",
		Long: `resource-spawner discovers model directories (model.config plus a description
file) under the simulation's resource paths and sends the chosen description
to the scene, either printed or broadcast over a socket.io bridge.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := root.PersistentFlags()
	pf.StringSliceVarP(&flags.configPaths, "config", "c", nil, "HCL configuration file or directory (repeatable).")
	pf.StringVar(&flags.logLevel, "log-level", "", "Logging level: 'debug', 'info', 'warn', or 'error'.")
	pf.StringVar(&flags.logFormat, "log-format", "", "Log output format: 'text' or 'json'.")
	pf.StringSliceVarP(&flags.searchPaths, "path", "p", nil, "Extra model search path (repeatable).")
	pf.StringVar(&flags.defaultPath, "default-path", "", "Path registered when the resource path query fails.")
	pf.BoolVar(&flags.noQuery, "no-query", false, "Read the resource path environment variable instead of querying the simulator.")
	pf.StringVar(&flags.traversal, "traversal", "", "Model discovery: 'recursive' or 'children'.")

	loadApp := func(cmd *cobra.Command) (*app.App, error) {
		return newApp(cmd, flags, opts)
	}

	root.AddCommand(
		newListCommand(loadApp),
		newPathsCommand(loadApp),
		newSpawnCommand(loadApp),
		newInsertCommand(loadApp),
		newPickCommand(loadApp, opts.Picker),
		newBrowseCommand(loadApp, opts.Browse),
		newServeCommand(loadApp, flags),
		newVersionCommand(opts.Version),
	)
	return root
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, outW, errW io.Writer, args []string, opts Options) error {
	root := NewRootCommand(outW, errW, opts)
	root.SetArgs(args)
	slog.Debug("CLI started.", "args", len(args))
	return root.ExecuteContext(ctx)
}

func newApp(cmd *cobra.Command, flags *globalFlags, opts Options) (*app.App, error) {
	cfg, err := app.NewConfig(app.Config{
		ConfigPaths:     flags.configPaths,
		LogLevel:        flags.logLevel,
		LogFormat:       flags.logFormat,
		HealthcheckPort: flags.healthcheckPort,
		SearchPaths:     flags.searchPaths,
		DefaultPath:     flags.defaultPath,
		NoQuery:         flags.noQuery,
		Traversal:       flags.traversal,
	})
	if err != nil {
		return nil, usageError(err)
	}

	a, err := app.NewApp(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, opts.Loader, opts.AppOptions...)
	if err != nil {
		return nil, usageError(err)
	}
	return a, nil
}

// runtimeError maps spawn errors to exit codes: an unknown shape is a usage
// error, anything else a runtime failure.
func runtimeError(err error) error {
	if err == nil {
		return nil
	}
	var kwErr *spawn.InvalidKeywordError
	if errors.As(err, &kwErr) {
		return usageError(err)
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	return &ExitError{Code: 1, Message: err.Error()}
}
