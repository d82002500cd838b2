package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/microbench/internal/bench"
	"github.com/wesleyorama2/microbench/internal/bench/config"
	"github.com/wesleyorama2/microbench/internal/bench/engine"
	"github.com/wesleyorama2/microbench/internal/bench/hooks"
	"github.com/wesleyorama2/microbench/internal/bench/output"
	"github.com/wesleyorama2/microbench/internal/bench/report"
	"github.com/wesleyorama2/microbench/internal/manifest"
)

// runFlags are the options of the run command.
type runFlags struct {
	manifestPath string
	iterations   int
	timeLimit    string
	priorityCPU  bool
	bins         int
	quiet        bool
	jsonOutput   bool
}

func newRunCmd(app *App, global *globalFlags) *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run <benchmark>",
		Short: "Run a benchmark",
		Long: `Run every case of a benchmark under each of its scenarios.

Flags that set run bounds are folded into the user configuration layer, so a
scenario that sets its own iterations or timeLimit keeps them. Use --manifest
to replace a benchmark's scenarios from a YAML file.

Examples:
  microbench run add-vs-multiply
  microbench run json-build --manifest bench/json-build.yaml
  microbench run json-field-access --quiet --log-level info
  microbench run add-vs-multiply --json > result.json`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBenchmark(cmd, app, global, flags, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.manifestPath, "manifest", "m", "", "YAML overlay for the benchmark's scenarios and config")
	f.IntVarP(&flags.iterations, "iterations", "n", 0, "Default iteration cap (0 = unbounded)")
	f.StringVarP(&flags.timeLimit, "time-limit", "t", "", "Default time limit, e.g. 2s or 500 (ms); 0 = unbounded")
	f.BoolVar(&flags.priorityCPU, "priority-cpu", false, "Record per-call CPU time and headline it")
	f.IntVar(&flags.bins, "bins", 0, "Number of histogram bins")
	f.BoolVarP(&flags.quiet, "quiet", "q", false, "Print one summary line per case")
	f.BoolVar(&flags.jsonOutput, "json", false, "Write the report as JSON to stdout")

	return cmd
}

// overrides converts the flags the user actually set into dotted config paths.
func (f *runFlags) overrides(cmd *cobra.Command) map[string]any {
	out := map[string]any{}
	changed := cmd.Flags().Changed

	if changed("iterations") {
		out[config.PathIterations] = f.iterations
	}
	if changed("time-limit") {
		out[config.PathTimeLimit] = f.timeLimit
	}
	if changed("priority-cpu") {
		out[config.PathPriorityCPU] = f.priorityCPU
	}
	if changed("bins") {
		out[config.PathBins] = f.bins
	}
	return out
}

func runBenchmark(cmd *cobra.Command, app *App, global *globalFlags, flags *runFlags, name string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	log, closer, err := NewLogger(global.log, app.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	user, userPath, err := app.loadUserLayer(global.configPath, flags.overrides(cmd))
	if err != nil {
		return err
	}
	if userPath != "" {
		log.Debug("user config loaded", slog.String("path", userPath))
	}

	resolver := config.NewResolver(user)
	base, err := config.Load(resolver.Merge(nil, nil))
	if err != nil {
		return err
	}

	discovery := base.Discovery
	if discovery.BenchmarkDir != "" && !filepath.IsAbs(discovery.BenchmarkDir) {
		discovery.BenchmarkDir = filepath.Join(app.WorkDir, discovery.BenchmarkDir)
	}

	b, err := manifest.Load(app.Provider, name, flags.manifestPath, discovery)
	if err != nil {
		return err
	}

	settings, err := config.Load(resolver.Merge(b.Config, nil))
	if err != nil {
		return fmt.Errorf("benchmark %s: %w", b.Name, err)
	}

	stdout := app.Stdout
	if flags.jsonOutput {
		// stdout carries the report; everything else goes to stderr
		stdout = app.Stderr
	}
	console := settings.Output.EnableConsole && !flags.jsonOutput

	opts := []engine.Option{
		engine.WithSlog(log),
		engine.WithHooks(traceHooks(log)),
	}
	opts = append(opts, adapterOptions(app, global, flags, console)...)

	if console {
		printHeader(stdout, b, global.noColor)
	}

	rep, err := engine.New(resolver, opts...).Run(ctx, b)
	if err != nil {
		return err
	}

	if flags.jsonOutput {
		if err := report.WriteJSON(app.Stdout, rep); err != nil {
			return err
		}
	}

	written, err := report.Export(rep, settings.Output)
	for _, path := range written {
		fmt.Fprintf(stdout, "%s Report: %s\n", output.SuccessIcon(global.noColor), path)
	}
	return err
}

// adapterOptions picks the console adapters for the invocation.
func adapterOptions(app *App, global *globalFlags, flags *runFlags, console bool) []engine.Option {
	if !console {
		return []engine.Option{
			engine.WithLogger(engine.NopLogger{}),
			engine.WithComparator(engine.NopComparator{}),
		}
	}

	if flags.quiet {
		return []engine.Option{
			engine.WithLogger(output.NewSummaryLogger(app.Stdout)),
			engine.WithComparator(engine.NopComparator{}),
		}
	}

	progress := output.NewProgressDisplay(output.ProgressConfig{
		Writer:  app.Stderr,
		NoColor: global.noColor,
	})
	return []engine.Option{
		engine.WithLogger(output.NewDefaultLogger(app.Stdout, global.noColor)),
		engine.WithComparator(output.NewDefaultComparator(app.Stdout, global.noColor)),
		engine.WithProgress(progress.Update, output.DefaultProgressInterval),
	}
}

func printHeader(w io.Writer, b *bench.Benchmark, noColor bool) {
	p := output.PaletteFor(w, noColor)
	fmt.Fprintf(w, "%s %s\n", p.Title.Sprint("Benchmark:"), b.Name)
	if b.Description != "" {
		fmt.Fprintf(w, "%s\n", p.Dim.Sprint(b.Description))
	}
	fmt.Fprintf(w, "%s %d scenarios x %d cases\n\n", p.Label.Sprint("Plan:"), len(b.Scenarios), len(b.Cases))
}

// traceHooks logs every lifecycle stage at debug level.
func traceHooks(log *slog.Logger) *hooks.Registry {
	reg := hooks.NewRegistry(log)
	for _, stage := range hooks.Stages {
		_ = reg.Register(stage, func(ctx context.Context, hc hooks.Context) error {
			attrs := []any{slog.String("stage", string(stage))}
			if hc.Scenario != nil {
				attrs = append(attrs, slog.String("scenario", hc.Scenario.Name))
			}
			if hc.Case != nil {
				attrs = append(attrs, slog.String("case", hc.Case.Name))
			}
			if hc.Result != nil {
				attrs = append(attrs, slog.Float64("mean_ms", hc.Result.Mean), slog.Float64("p95_ms", hc.Result.P95))
			}
			log.DebugContext(ctx, "lifecycle", attrs...)
			return nil
		})
	}
	return reg
}
