package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/microbench/internal/manifest"
	"github.com/wesleyorama2/microbench/internal/manifest/examples"
)

var version = "0.1.0"

// App holds the process-level dependencies of the command tree.
type App struct {
	Stdout   io.Writer
	Stderr   io.Writer
	Provider manifest.Provider

	// WorkDir is searched for bench.config.* when --config is not given
	WorkDir string
}

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath string
	noColor    bool
	log        LogOptions
}

// NewRootCmd builds the command tree for app.
func NewRootCmd(app *App) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:     "microbench",
		Short:   "Compare candidate implementations with repeatable micro-benchmarks",
		Version: version,
		Long: `microbench runs every case of a benchmark under each of its scenarios,
then reports latency statistics, a text histogram, resource usage and a
ranked comparison of the cases.

Configuration is layered: built-in defaults, a bench.config.{yaml,yml,json,toml}
user file (or --config), the benchmark's own settings, and per-scenario values.`,
		Args:          usageArgs(cobra.NoArgs),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.SetOut(app.Stdout)
	root.SetErr(app.Stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Path to a user config file")
	pf.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	pf.StringVar(&flags.log.Format, "log-format", "text", "Log format (text, json)")
	pf.StringVar(&flags.log.Level, "log-level", "warn", "Log level (debug, info, warn, error)")
	pf.StringVar(&flags.log.File, "log-file", "", "Write logs to a rotating file instead of stderr")

	root.AddCommand(newRunCmd(app, flags))
	root.AddCommand(newListCmd(app))
	root.AddCommand(newConfigCmd(app, flags))

	return root
}

// DefaultApp wires the process streams and the built-in benchmarks.
func DefaultApp() (*App, error) {
	reg, err := examples.NewRegistry()
	if err != nil {
		return nil, err
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to determine working directory: %w", err)
	}
	return &App{
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Provider: reg,
		WorkDir:  wd,
	}, nil
}

// Execute runs the command tree against os.Args. Errors are printed to
// stderr before being returned.
func Execute() error {
	app, err := DefaultApp()
	if err != nil {
		printError(os.Stderr, err, false)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return ExecuteContext(ctx, app, os.Args[1:])
}

// ExecuteContext runs the command tree with explicit arguments.
func ExecuteContext(ctx context.Context, app *App, args []string) error {
	root := NewRootCmd(app)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err != nil {
		noColor, _ := root.PersistentFlags().GetBool("no-color")
		printError(app.Stderr, err, noColor)
		if IsUsageError(err) {
			fmt.Fprintln(app.Stderr, "Run 'microbench --help' for usage.")
		}
	}
	return err
}
