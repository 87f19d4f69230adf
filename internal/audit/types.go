// Package audit records batch runs as an append-only JSON Lines log so that
// past runs can be listed and inspected.
package audit

import "time"

// RunID is a unique identifier for each batch run (UUID v4).
type RunID string

// EventType represents the type of audit event.
type EventType string

const (
	// Run lifecycle events
	EventRunStart EventType = "RUN_START"
	EventRunEnd   EventType = "RUN_END"

	// Input and output events
	EventInputProcessed EventType = "INPUT_PROCESSED"
	EventInputSkipped   EventType = "INPUT_SKIPPED"
	EventOutputCreated  EventType = "OUTPUT_CREATED"
	EventError          EventType = "ERROR"

	// System events
	EventRotation       EventType = "ROTATION"
	EventLogInitialized EventType = "LOG_INITIALIZED"
)

// OperationStatus represents the outcome of an operation.
type OperationStatus string

const (
	StatusSuccess OperationStatus = "SUCCESS"
	StatusFailure OperationStatus = "FAILURE"
	StatusSkipped OperationStatus = "SKIPPED"
)

// ReasonCode explains why an input was skipped.
type ReasonCode string

const (
	ReasonNotFound    ReasonCode = "NOT_FOUND"
	ReasonNotReadable ReasonCode = "NOT_READABLE"
	ReasonEmpty       ReasonCode = "EMPTY"
	ReasonInvalid     ReasonCode = "INVALID"
)

// RunStatus represents the status of a run.
type RunStatus string

const (
	RunStatusInProgress RunStatus = "IN_PROGRESS"
	RunStatusCompleted  RunStatus = "COMPLETED"
	RunStatusFailed     RunStatus = "FAILED"
)

// ErrorDetails contains detailed information about an error.
type ErrorDetails struct {
	ErrorType    string `json:"errorType"`
	ErrorMessage string `json:"errorMessage"`
	Operation    string `json:"operation"`
}

// AuditEvent represents a single audit record.
type AuditEvent struct {
	Timestamp    time.Time         // ISO 8601 in JSON
	RunID        RunID             // empty for system events
	EventType    EventType         // type of event
	Status       OperationStatus   // outcome
	InputPath    string            // input file, if any
	OutputPath   string            // output file, if any
	ReasonCode   ReasonCode        // why an input was skipped
	ErrorDetails *ErrorDetails     // error information
	Metadata     map[string]string // additional metadata
}

// RunSummary contains the counters of a finished run.
type RunSummary struct {
	Inputs   int `json:"inputs"`
	Skipped  int `json:"skipped"`
	Integers int `json:"integers"`
	Decimals int `json:"decimals"`
	Strings  int `json:"strings"`
	Dropped  int `json:"dropped"`
	ExitCode int `json:"exitCode"`
}

// RunInfo contains metadata and summary for a run.
type RunInfo struct {
	RunID      RunID      `json:"runId"`
	StartTime  time.Time  `json:"startTime"`
	EndTime    *time.Time `json:"endTime,omitempty"`
	Status     RunStatus  `json:"status"`
	Mode       string     `json:"mode"`
	AppVersion string     `json:"appVersion"`
	OutputDir  string     `json:"outputDir"`
	Summary    RunSummary `json:"summary"`
}

// Config holds configuration for the audit log.
type Config struct {
	LogDirectory string
	RotationSize int64 // rotate when the active log reaches this size; 0 disables rotation
}

const (
	activeLogName    = "filefilter-audit.jsonl"
	segmentLogPrefix = "filefilter-audit-"
	logSuffix        = ".jsonl"
)
