// Package cli wires the doc-agent command tree.
//
// Commands never call os.Exit from their RunE functions; failures propagate
// as [*ExitError] up to [RunWithConfig], which converts them into an
// [ExecuteResult]. Only [Execute] terminates the process. This keeps every
// command testable end to end.
//
// Key types:
//   - [App] - shared dependencies injected into commands
//   - [ExecuteResult] - exit code and error from one invocation
package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"doc-agent/internal/config"
	"doc-agent/internal/llm"
	"doc-agent/internal/step"
	"doc-agent/internal/ui"
)

// Version is the doc-agent version string. Override at build time with
// -ldflags "-X doc-agent/internal/cli.Version=v1.2.3".
var Version = "0.1.0"

// App holds the shared dependencies for all commands.
//
// Fields are populated by the root command's PersistentPreRunE, after flags
// are parsed, so subcommands can rely on them being non-nil at Run time.
// Tests may pre-populate fields (notably Config and Registry) to inject
// fakes.
type App struct {
	Config   *config.Config
	Registry *step.Registry
	Printer  *ui.Printer
	Logger   *zap.Logger
	Out      io.Writer
}

// ExecuteResult captures the outcome of one CLI invocation.
type ExecuteResult struct {
	// ExitCode is the code to return to the shell.
	ExitCode int

	// Err is the error that produced a non-zero exit, if any.
	Err error
}

// Execute runs the CLI with os.Args and terminates the process with the
// resulting exit code. This is the only place that calls os.Exit.
func Execute() {
	res := RunWithConfig(os.Args[1:], nil, os.Stdout)
	os.Exit(res.ExitCode)
}

// RunWithConfig runs the CLI with explicit args, an optional pre-loaded
// config, and an output writer.
//
// When cfg is nil the configuration is loaded normally (flags, environment,
// config files, defaults). Passing a non-nil cfg bypasses loading, which is
// how tests pin behavior.
func RunWithConfig(args []string, cfg *config.Config, out io.Writer) ExecuteResult {
	return RunWithApp(&App{Config: cfg, Out: out}, args)
}

// RunWithApp runs the CLI against a partially populated [App]. Missing
// dependencies are filled in by the root command's PersistentPreRunE, so
// callers only set the fields they want to control.
func RunWithApp(app *App, args []string) ExecuteResult {
	out := app.Out
	if out == nil {
		out = os.Stdout
	}

	root := newRootCmd(app)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(out)

	if err := root.Execute(); err != nil {
		if code, ok := IsExitError(err); ok {
			return ExecuteResult{ExitCode: code, Err: err}
		}
		return ExecuteResult{ExitCode: 1, Err: err}
	}
	return ExecuteResult{}
}

func newRootCmd(app *App) *cobra.Command {
	var (
		debug   bool
		cfgFile string
	)

	cmd := &cobra.Command{
		Use:     "doc-agent",
		Short:   "Run declarative YAML workflows",
		Version: Version,
		Long: `doc-agent generates, validates, and runs declarative YAML workflows.

A workflow is a named sequence of steps. Step inputs may reference earlier
step outputs with @{step.param} placeholders. Use "doc-agent steps" to see
the available step types.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.initialize(cmd, debug, cfgFile)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose logging")
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a config file")

	cmd.AddCommand(newGenerateCommand(app))
	cmd.AddCommand(newTestCommand(app))
	cmd.AddCommand(newRunCommand(app))
	cmd.AddCommand(newStepsCommand(app))
	cmd.AddCommand(newRunsCommand(app))

	return cmd
}

// initialize populates the App dependencies once flags are parsed.
func (app *App) initialize(cmd *cobra.Command, debug bool, cfgFile string) error {
	if app.Config == nil {
		cfg, err := config.Loader{ExplicitPath: cfgFile}.Load()
		if err != nil {
			return err
		}
		app.Config = cfg
	}

	if app.Logger == nil {
		app.Logger = zap.NewNop()
		if debug {
			logger, err := zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			app.Logger = logger
		}
	}

	if app.Out == nil {
		app.Out = cmd.OutOrStdout()
	}
	if app.Printer == nil {
		app.Printer = ui.NewPrinter(app.Out, app.Config.Output)
	}

	if app.Registry == nil {
		client := llm.NewClient(llm.Config{
			BaseURL:      app.Config.LLM.BaseURL,
			APIKey:       app.Config.LLM.APIKey,
			DefaultModel: app.Config.LLM.DefaultModel,
			Timeout:      time.Duration(app.Config.LLM.TimeoutSeconds) * time.Second,
		}, app.Logger)
		app.Registry = step.DefaultRegistry(step.Deps{Chat: client, Logger: app.Logger})
	}

	return nil
}
