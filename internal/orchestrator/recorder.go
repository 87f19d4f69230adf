package orchestrator

import (
	"filefilter/internal/audit"
)

// Recorder receives the events of a run. *audit.Writer implements it.
type Recorder interface {
	StartRun(mode, outputDir string) (audit.RunID, error)
	RecordInput(path string, lines int) error
	RecordSkip(path string, reason audit.ReasonCode, message string) error
	RecordOutputCreated(path string) error
	RecordError(path, errType, errMsg, operation string) error
	EndRun(status audit.RunStatus, summary audit.RunSummary) error
}

var _ Recorder = (*audit.Writer)(nil)

// nopRecorder is used when no audit trail is configured.
type nopRecorder struct{}

func (nopRecorder) StartRun(string, string) (audit.RunID, error) { return "", nil }
func (nopRecorder) RecordInput(string, int) error { return nil }
func (nopRecorder) RecordSkip(string, audit.ReasonCode, string) error { return nil }
func (nopRecorder) RecordOutputCreated(string) error { return nil }
func (nopRecorder) RecordError(string, string, string, string) error { return nil }
func (nopRecorder) EndRun(audit.RunStatus, audit.RunSummary) error { return nil }
