package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"filefilter/internal/config"
	"filefilter/internal/watcher"
)

func newWatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [flags] <input files...>",
		Short: "Re-run the batch whenever an input file changes",
		Long: `watch runs the batch once, then keeps watching the input files and runs it
again in truncate mode after every change. Stop it with Ctrl+C.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MinimumNArgs(1)(cmd, args); err != nil {
				return &usageError{err: err}
			}
			return nil
		},
		RunE: a.runWatchCmd,
	}
	cmd.Flags().IntVar(&a.flags.debounceMs, "debounce-ms", config.DefaultWatchDebounceMs, "quiet period after a change before re-running")
	return cmd
}

func (a *app) runWatchCmd(cmd *cobra.Command, args []string) error {
	opts, err := a.loadOptions(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := a.runBatch(ctx, opts); err != nil {
		return err
	}

	// Re-runs rebuild the outputs from scratch so they match the inputs.
	rerun := opts
	rerun.AppendMode = false

	wcfg := watcher.DefaultWatchConfig()
	if a.flags.debounceMs > 0 {
		wcfg.Debounce = time.Duration(a.flags.debounceMs) * time.Millisecond
	}
	w, err := watcher.New(wcfg, opts.InputFiles, func(ctx context.Context) error {
		a.out.Verbose("Change detected, filtering again...")
		_, err := a.runBatch(ctx, rerun)
		if err != nil {
			a.out.Error("Error: %v", err)
		}
		return err
	}, a.out.Logger())
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	a.out.Info("Watching %d input files. Press Ctrl+C to stop.", len(opts.InputFiles))

	<-ctx.Done()
	summary := w.Stop()
	a.out.Info("Watch stopped after %s: %d runs, %d failed.", summary.Duration.Round(time.Second), summary.Runs, summary.Failures)
	return nil
}
