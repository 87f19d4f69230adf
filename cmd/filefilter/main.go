// Package main provides the CLI entry point for filefilter.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"filefilter/internal/audit"
	"filefilter/internal/config"
	"filefilter/internal/exitcode"
	"filefilter/internal/orchestrator"
	"filefilter/internal/output"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(context.Background())
	if err == nil {
		return int(exitcode.OK)
	}

	out := a.out
	if out == nil {
		out = output.New(output.Config{Writer: stdout, ErrWriter: stderr})
	}
	out.Error("Error: %v", err)
	var uerr *usageError
	if errors.As(err, &uerr) {
		out.Error("Run '%s --help' for usage.", rootCmd.CommandPath())
	}
	return int(exitcode.For(err))
}

// usageError marks bad flags or arguments.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

func (e *usageError) ExitCode() exitcode.Code { return exitcode.Usage }

// cliFlags holds the values bound to command-line flags.
type cliFlags struct {
	short        bool
	full         bool
	appendMode   bool
	dryRun       bool
	verbose      bool
	outputDir    string
	prefix       string
	configPath   string
	auditDir     string
	rotationSize int64
	debounceMs   int
}

type app struct {
	stdout io.Writer
	stderr io.Writer
	flags  cliFlags
	out    *output.Output
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "filefilter [flags] <input files...>",
		Short: "Sort lines of text files into integers, floats and strings",
		Long: `filefilter reads the given files line by line and appends every non-blank
line to integers.txt, floats.txt or strings.txt in the output directory,
collecting statistics per category.`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          a.runFilterCmd,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	f := &a.flags
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&f.short, "short", "s", false, "print short statistics")
	pf.BoolVarP(&f.full, "full", "f", false, "print full statistics")
	pf.BoolVarP(&f.appendMode, "append", "a", false, "append to existing output files")
	pf.StringVarP(&f.outputDir, "output", "o", config.DefaultOutputDir, "output directory")
	pf.StringVarP(&f.prefix, "prefix", "p", "", "output file name prefix")
	pf.StringVar(&f.configPath, "config", "", "TOML config file (default "+config.DefaultConfigPath()+")")
	pf.StringVar(&f.auditDir, "audit-dir", "", "write a JSONL audit trail of each run into this directory")
	pf.Int64Var(&f.rotationSize, "audit-rotation-size", config.DefaultAuditRotationSize, "rotate the audit log at this size in bytes")
	pf.BoolVar(&f.dryRun, "dry-run", false, "classify and report statistics without writing output files")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "verbose diagnostics")

	rootCmd.AddCommand(newWatchCmd(a))
	rootCmd.AddCommand(newHistoryCmd(a))

	return rootCmd
}

func (a *app) runFilterCmd(cmd *cobra.Command, args []string) error {
	opts, err := a.loadOptions(cmd, args)
	if err != nil {
		return err
	}
	_, err = a.runBatch(cmd.Context(), opts)
	return err
}

// loadOptions merges the config file into the flags and sets up output.
// Flags given on the command line win over config values.
func (a *app) loadOptions(cmd *cobra.Command, args []string) (config.Options, error) {
	f := &a.flags

	path := f.configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	fileCfg, err := config.LoadFile(path)
	if err != nil {
		return config.Options{}, err
	}
	applyStringConfig(cmd, "output", &f.outputDir, fileCfg.Output.Dir)
	applyStringConfig(cmd, "prefix", &f.prefix, fileCfg.Output.Prefix)
	applyBoolConfig(cmd, "append", &f.appendMode, fileCfg.Output.Append)
	applyBoolConfig(cmd, "short", &f.short, fileCfg.Stats.Short)
	applyBoolConfig(cmd, "full", &f.full, fileCfg.Stats.Full)
	applyStringConfig(cmd, "audit-dir", &f.auditDir, fileCfg.Audit.Dir)
	applyInt64Config(cmd, "audit-rotation-size", &f.rotationSize, fileCfg.Audit.RotationSize)
	applyIntConfig(cmd, "debounce-ms", &f.debounceMs, fileCfg.Watch.DebounceMs)

	a.out = output.New(output.Config{
		Verbose:   f.verbose,
		Writer:    a.stdout,
		ErrWriter: a.stderr,
		IsTTY:     output.IsTerminal(a.stdout),
	})

	opts := config.DefaultOptions()
	opts.InputFiles = args
	opts.OutputDir = f.outputDir
	opts.Prefix = f.prefix
	opts.ShortStats = f.short
	opts.FullStats = f.full
	opts.AppendMode = f.appendMode
	opts.DryRun = f.dryRun
	opts.Verbose = f.verbose
	opts.AuditDir = f.auditDir
	opts.AuditRotationSize = f.rotationSize
	return opts, nil
}

// runBatch validates the options, runs one batch and prints its summary.
func (a *app) runBatch(ctx context.Context, opts config.Options) (*orchestrator.Summary, error) {
	validation, err := config.ValidateInputs(opts.InputFiles)
	if validation != nil {
		a.out.PrintWarnings(validation.Warnings)
	}
	if err != nil {
		return nil, err
	}
	if err := config.ValidateOutputDir(opts.OutputDir); err != nil {
		return nil, err
	}
	opts.InputFiles = validation.Valid

	orchOpts := []orchestrator.Option{
		orchestrator.WithLogger(a.out.Logger()),
		orchestrator.WithRejected(validation.Warnings),
		orchestrator.WithProgress(func(done, _ int) {
			a.out.UpdateProgress(done)
		}),
	}

	if opts.AuditDir != "" {
		w, err := audit.NewWriter(audit.Config{
			LogDirectory: opts.AuditDir,
			RotationSize: opts.AuditRotationSize,
		}, version)
		if err != nil {
			return nil, &orchestrator.RunError{Status: exitcode.IOError, Err: fmt.Errorf("failed to open audit trail: %w", err)}
		}
		defer func() {
			if cerr := w.Close(); cerr != nil {
				a.out.Warn("failed to close audit trail: %v", cerr)
			}
		}()
		orchOpts = append(orchOpts, orchestrator.WithRecorder(w))
	}

	a.out.StartProgress(len(opts.InputFiles))
	summary, err := orchestrator.New(opts, orchOpts...).Run(ctx)
	a.out.EndProgress()
	if err != nil {
		return summary, err
	}
	a.out.PrintSummary(summary, opts.ShortStats, opts.FullStats)
	return summary, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}
