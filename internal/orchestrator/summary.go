package orchestrator

import (
	"errors"
	"fmt"
	"time"

	"filefilter/internal/audit"
	"filefilter/internal/classifier"
	"filefilter/internal/exitcode"
	"filefilter/internal/outfile"
	"filefilter/internal/stats"
)

// ErrAppendWithoutOutputs is the cause of a run aborted because append mode
// was requested but none of the output files exists.
var ErrAppendWithoutOutputs = errors.New("append mode requested but no output file exists")

// RunError is a run failure carrying the process exit status.
type RunError struct {
	Status exitcode.Code
	Err    error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s: %v", e.Status, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// ExitCode implements exitcode.Coder.
func (e *RunError) ExitCode() exitcode.Code {
	return e.Status
}

// ResultStatus is the outcome for one input file.
type ResultStatus string

const (
	ResultProcessed ResultStatus = "processed"
	ResultSkipped   ResultStatus = "skipped"
	ResultFailed    ResultStatus = "failed"
)

// Result describes what happened to one input file.
type Result struct {
	InputPath string
	Status    ResultStatus
	Lines     int // lines read, including blank ones
	Blank     int
	Dropped   int // non-blank lines matching no category
	Matched   map[classifier.Category]int
	Err       error
}

// Summary is the outcome of one batch run.
type Summary struct {
	RunID     audit.RunID
	Status    exitcode.Code
	OutputDir string
	DryRun    bool
	Append    bool
	Stats     *stats.Set
	Results   []Result
	Outputs   []outfile.Target
	Duration  time.Duration
	Err       error
}

// Processed returns the number of inputs read to the end.
func (s *Summary) Processed() int {
	return s.count(ResultProcessed)
}

// Skipped returns the number of inputs skipped during the run.
func (s *Summary) Skipped() int {
	return s.count(ResultSkipped)
}

func (s *Summary) count(status ResultStatus) int {
	n := 0
	for _, r := range s.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}

// Dropped returns the number of non-blank lines that matched no category.
func (s *Summary) Dropped() int {
	n := 0
	for _, r := range s.Results {
		n += r.Dropped
	}
	return n
}

// Written returns the output targets that received at least one line (or
// would have, in a dry run).
func (s *Summary) Written() []outfile.Target {
	var out []outfile.Target
	for _, t := range s.Outputs {
		if t.State == outfile.Created {
			out = append(out, t)
		}
	}
	return out
}

// HasErrors reports whether the run failed.
func (s *Summary) HasErrors() bool {
	return s.Status != exitcode.OK
}

// auditSummary converts the summary into the counters stored in the audit log.
func (s *Summary) auditSummary() audit.RunSummary {
	counts := s.Stats.Counts()
	return audit.RunSummary{
		Inputs:   s.Processed(),
		Skipped:  s.Skipped(),
		Integers: int(counts["integer"]),
		Decimals: int(counts["decimal"]),
		Strings:  int(counts["text"]),
		Dropped:  s.Dropped(),
		ExitCode: int(s.Status),
	}
}
