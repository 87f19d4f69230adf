// Package orchestrator runs a batch: it streams every input file line by
// line, routes each classified line to its output file and accumulates the
// per-category statistics.
package orchestrator

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/afero"

	"filefilter/internal/audit"
	"filefilter/internal/classifier"
	"filefilter/internal/config"
	"filefilter/internal/exitcode"
	"filefilter/internal/outfile"
	"filefilter/internal/stats"
)

// Orchestrator runs batches for one set of options.
type Orchestrator struct {
	fs       afero.Fs
	opts     config.Options
	logger   *slog.Logger
	recorder Recorder
	progress func(done, total int)
	rejected []config.InputWarning
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithFs sets the filesystem inputs are read from and outputs written to.
func WithFs(fsys afero.Fs) Option {
	return func(o *Orchestrator) { o.fs = fsys }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithRecorder sets the audit recorder.
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

// WithProgress sets a callback invoked after each input file.
func WithProgress(fn func(done, total int)) Option {
	return func(o *Orchestrator) { o.progress = fn }
}

// WithRejected reports inputs dropped during validation as skipped, so the
// summary and the audit trail account for every path given.
func WithRejected(warnings []config.InputWarning) Option {
	return func(o *Orchestrator) { o.rejected = warnings }
}

// New creates an Orchestrator on the OS filesystem with no audit trail.
func New(opts config.Options, options ...Option) *Orchestrator {
	o := &Orchestrator{
		fs:       afero.NewOsFs(),
		opts:     opts,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		recorder: nopRecorder{},
	}
	for _, opt := range options {
		opt(o)
	}
	o.logger = o.logger.With("component", "orchestrator")
	return o
}

// Options returns the options the orchestrator runs with.
func (o *Orchestrator) Options() config.Options {
	return o.opts
}

// Run processes all inputs once. The returned summary is never nil and
// carries the partial statistics when the run fails; the error is a
// *RunError whose status is also stored in Summary.Status.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()

	fsys := o.fs
	if o.opts.DryRun {
		fsys = DryRunFs(o.fs)
	}
	targets := outfile.NewSet(fsys, o.opts.OutputDir, o.opts.Prefix)

	summary := &Summary{
		OutputDir: o.opts.OutputDir,
		DryRun:    o.opts.DryRun,
		Append:    o.opts.AppendMode,
		Stats:     stats.NewSet(),
	}
	defer func() {
		summary.Outputs = targets.Targets()
		summary.Duration = time.Since(start)
	}()

	runID, err := o.recorder.StartRun(o.mode(), o.opts.OutputDir)
	if err != nil {
		summary.Status = exitcode.IOError
		summary.Err = fmt.Errorf("failed to start audit run: %w", err)
		return summary, &RunError{Status: summary.Status, Err: summary.Err}
	}
	summary.RunID = runID
	o.logger.Debug("run started", "run_id", runID, "mode", o.mode(), "inputs", len(o.opts.InputFiles))

	for _, w := range o.rejected {
		result := Result{InputPath: w.Path, Status: ResultSkipped, Err: errors.New(w.Message)}
		summary.Results = append(summary.Results, result)
		if err := o.recorder.RecordSkip(w.Path, rejectReason(w.Kind), w.Message); err != nil {
			return summary, o.fail(summary, exitcode.IOError, w.Path, fmt.Errorf("failed to record skipped input: %w", err))
		}
	}

	if o.opts.AppendMode {
		anyExists, err := targets.SeedFromDisk()
		if err != nil {
			return summary, o.fail(summary, exitcode.IOError, "", err)
		}
		if !anyExists {
			return summary, o.fail(summary, exitcode.AppendPrecondition, "", ErrAppendWithoutOutputs)
		}
	}

	for i, path := range o.opts.InputFiles {
		if err := ctx.Err(); err != nil {
			return summary, o.fail(summary, exitcode.IOError, "", err)
		}

		result, err := o.processFile(ctx, fsys, targets, summary.Stats, path)
		summary.Results = append(summary.Results, result)
		if err != nil {
			return summary, o.fail(summary, exitcode.IOError, path, err)
		}
		if o.progress != nil {
			o.progress(i+1, len(o.opts.InputFiles))
		}
	}

	summary.Status = exitcode.OK
	if err := o.recorder.EndRun(audit.RunStatusCompleted, summary.auditSummary()); err != nil {
		summary.Status = exitcode.IOError
		summary.Err = fmt.Errorf("failed to end audit run: %w", err)
		return summary, &RunError{Status: summary.Status, Err: summary.Err}
	}
	o.logger.Debug("run finished", "run_id", runID, "processed", summary.Processed(), "skipped", summary.Skipped())
	return summary, nil
}

func (o *Orchestrator) mode() string {
	mode := "truncate"
	if o.opts.AppendMode {
		mode = "append"
	}
	if o.opts.DryRun {
		mode = "dry-run-" + mode
	}
	return mode
}

// fail records the failure, closes the audit run and returns the RunError.
// Audit errors at this point are logged only; the run failure wins.
func (o *Orchestrator) fail(summary *Summary, status exitcode.Code, path string, cause error) error {
	summary.Status = status
	summary.Err = cause

	o.logger.Error("run failed", "status", status.String(), "path", path, "error", cause)
	if err := o.recorder.RecordError(path, status.String(), cause.Error(), "run"); err != nil {
		o.logger.Warn("failed to record error event", "error", err)
	}
	if err := o.recorder.EndRun(audit.RunStatusFailed, summary.auditSummary()); err != nil {
		o.logger.Warn("failed to end audit run", "error", err)
	}
	return &RunError{Status: status, Err: cause}
}

// processFile streams one input. Inputs that vanished or became unreadable
// since validation are skipped; read and write failures are returned.
func (o *Orchestrator) processFile(ctx context.Context, fsys afero.Fs, targets *outfile.Set, acc *stats.Set, path string) (Result, error) {
	result := Result{
		InputPath: path,
		Matched:   make(map[classifier.Category]int, len(classifier.Categories)),
	}

	f, err := fsys.Open(path)
	if err != nil {
		return o.skip(result, err)
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.IsDir() {
		return o.skip(result, &fs.PathError{Op: "read", Path: path, Err: errIsDirectory})
	}

	r := bufio.NewReader(f)
	for {
		if err := ctx.Err(); err != nil {
			result.Status = ResultFailed
			result.Err = err
			return result, err
		}

		raw, readErr := r.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			result.Status = ResultFailed
			result.Err = fmt.Errorf("failed to read %s: %w", path, readErr)
			return result, result.Err
		}
		if raw == "" && readErr != nil {
			break
		}

		result.Lines++
		if err := o.handleLine(targets, acc, &result, strings.TrimSpace(raw)); err != nil {
			result.Status = ResultFailed
			result.Err = err
			return result, err
		}

		if readErr != nil {
			break
		}
	}

	result.Status = ResultProcessed
	if err := o.recorder.RecordInput(path, result.Lines); err != nil {
		return result, fmt.Errorf("failed to record input: %w", err)
	}
	o.logger.Debug("input processed", "path", path, "lines", result.Lines, "dropped", result.Dropped)
	return result, nil
}

func (o *Orchestrator) handleLine(targets *outfile.Set, acc *stats.Set, result *Result, line string) error {
	c := classifier.Classify(line)
	if !c.IsClassified() {
		if line == "" {
			result.Blank++
		} else {
			result.Dropped++
		}
		return nil
	}

	created, err := targets.Append(c.Category, c.Line)
	if err != nil {
		return err
	}
	if created {
		path := targets.Target(c.Category).Path
		o.logger.Debug("output created", "category", c.Category.String(), "path", path)
		if err := o.recorder.RecordOutputCreated(path); err != nil {
			return fmt.Errorf("failed to record output creation: %w", err)
		}
	}

	acc.Add(c)
	result.Matched[c.Category]++
	return nil
}

func (o *Orchestrator) skip(result Result, cause error) (Result, error) {
	result.Status = ResultSkipped
	result.Err = cause

	reason := audit.ReasonNotReadable
	switch {
	case errors.Is(cause, fs.ErrNotExist):
		reason = audit.ReasonNotFound
	case errors.Is(cause, errIsDirectory):
		reason = audit.ReasonInvalid
	}
	o.logger.Warn("skipping input", "path", result.InputPath, "reason", string(reason), "error", cause)
	if err := o.recorder.RecordSkip(result.InputPath, reason, cause.Error()); err != nil {
		return result, fmt.Errorf("failed to record skipped input: %w", err)
	}
	return result, nil
}

var errIsDirectory = errors.New("is a directory")

func rejectReason(kind config.WarningKind) audit.ReasonCode {
	switch kind {
	case config.InputMissing:
		return audit.ReasonNotFound
	case config.InputEmpty:
		return audit.ReasonEmpty
	case config.InputDirectory:
		return audit.ReasonInvalid
	default:
		return audit.ReasonNotReadable
	}
}
