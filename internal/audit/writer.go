package audit

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNoActiveRun is returned when a run event is recorded outside StartRun/EndRun.
var ErrNoActiveRun = errors.New("no active run: call StartRun first")

// Writer appends audit events to the active log file. Every event is flushed
// and synced before the call returns; any failure is reported to the caller.
type Writer struct {
	mu         sync.Mutex
	file       *os.File
	writer     *bufio.Writer
	logPath    string
	config     Config
	appVersion string
	currentRun *RunID
	now        func() time.Time
}

// NewWriter opens (or creates) the active log in cfg.LogDirectory. A newly
// created log starts with a LOG_INITIALIZED event.
func NewWriter(cfg Config, appVersion string) (*Writer, error) {
	if err := os.MkdirAll(cfg.LogDirectory, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logPath := filepath.Join(cfg.LogDirectory, activeLogName)
	_, statErr := os.Stat(logPath)
	isNewLog := os.IsNotExist(statErr)

	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}

	w := &Writer{
		file:       file,
		writer:     bufio.NewWriter(file),
		logPath:    logPath,
		config:     cfg,
		appVersion: appVersion,
		now:        time.Now,
	}

	if isNewLog {
		event := AuditEvent{
			Timestamp: w.now(),
			EventType: EventLogInitialized,
			Status:    StatusSuccess,
			Metadata:  map[string]string{"logPath": logPath},
		}
		if err := w.appendLocked(event); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write LOG_INITIALIZED event: %w", err)
		}
	}

	return w, nil
}

// StartRun generates a run ID and writes the RUN_START event.
func (w *Writer) StartRun(mode, outputDir string) (RunID, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	runID := RunID(uuid.NewString())
	event := AuditEvent{
		Timestamp: w.now(),
		RunID:     runID,
		EventType: EventRunStart,
		Status:    StatusSuccess,
		Metadata: map[string]string{
			"appVersion": w.appVersion,
			"mode":       mode,
			"outputDir":  outputDir,
		},
	}
	if err := w.writeEventLocked(event); err != nil {
		return "", fmt.Errorf("failed to write RUN_START event: %w", err)
	}

	w.currentRun = &runID
	return runID, nil
}

// RecordInput records an input file that was read to the end.
func (w *Writer) RecordInput(path string, lines int) error {
	return w.recordRunEvent(AuditEvent{
		EventType: EventInputProcessed,
		Status:    StatusSuccess,
		InputPath: path,
		Metadata:  map[string]string{"lines": strconv.Itoa(lines)},
	})
}

// RecordSkip records an input file that was not processed.
func (w *Writer) RecordSkip(path string, reason ReasonCode, message string) error {
	event := AuditEvent{
		EventType:  EventInputSkipped,
		Status:     StatusSkipped,
		InputPath:  path,
		ReasonCode: reason,
	}
	if message != "" {
		event.Metadata = map[string]string{"message": message}
	}
	return w.recordRunEvent(event)
}

// RecordOutputCreated records the creation or truncation of an output file.
func (w *Writer) RecordOutputCreated(path string) error {
	return w.recordRunEvent(AuditEvent{
		EventType:  EventOutputCreated,
		Status:     StatusSuccess,
		OutputPath: path,
	})
}

// RecordError records a failure that aborted the run or an input.
func (w *Writer) RecordError(path, errType, errMsg, operation string) error {
	return w.recordRunEvent(AuditEvent{
		EventType: EventError,
		Status:    StatusFailure,
		InputPath: path,
		ErrorDetails: &ErrorDetails{
			ErrorType:    errType,
			ErrorMessage: errMsg,
			Operation:    operation,
		},
	})
}

// EndRun writes the RUN_END event with the run's counters.
func (w *Writer) EndRun(status RunStatus, summary RunSummary) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.currentRun == nil {
		return ErrNoActiveRun
	}

	opStatus := StatusSuccess
	if status != RunStatusCompleted {
		opStatus = StatusFailure
	}

	event := AuditEvent{
		Timestamp: w.now(),
		RunID:     *w.currentRun,
		EventType: EventRunEnd,
		Status:    opStatus,
		Metadata: map[string]string{
			"status":   string(status),
			"inputs":   strconv.Itoa(summary.Inputs),
			"skipped":  strconv.Itoa(summary.Skipped),
			"integers": strconv.Itoa(summary.Integers),
			"decimals": strconv.Itoa(summary.Decimals),
			"strings":  strconv.Itoa(summary.Strings),
			"dropped":  strconv.Itoa(summary.Dropped),
			"exitCode": strconv.Itoa(summary.ExitCode),
		},
	}
	if err := w.writeEventLocked(event); err != nil {
		return fmt.Errorf("failed to write RUN_END event: %w", err)
	}

	w.currentRun = nil
	return nil
}

func (w *Writer) recordRunEvent(event AuditEvent) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.currentRun == nil {
		return ErrNoActiveRun
	}
	event.RunID = *w.currentRun
	event.Timestamp = w.now()
	return w.writeEventLocked(event)
}

func (w *Writer) writeEventLocked(event AuditEvent) error {
	if err := w.appendLocked(event); err != nil {
		return err
	}
	return w.checkAndRotate()
}

func (w *Writer) appendLocked(event AuditEvent) error {
	data, err := event.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if _, err := w.writer.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	if err := w.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush event: %w", err)
	}
	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync event to disk: %w", err)
	}
	return nil
}

// checkAndRotate closes the active log with a ROTATION event once it reaches
// the configured size and reopens a fresh one.
func (w *Writer) checkAndRotate() error {
	needs, err := NeedsRotation(w.logPath, w.config.RotationSize)
	if err != nil || !needs {
		return err
	}

	rotatedName, err := nextSegmentName(w.config.LogDirectory, w.now())
	if err != nil {
		return err
	}

	var runID RunID
	if w.currentRun != nil {
		runID = *w.currentRun
	}
	event := AuditEvent{
		Timestamp: w.now(),
		RunID:     runID,
		EventType: EventRotation,
		Status:    StatusSuccess,
		Metadata: map[string]string{
			"previousLog": activeLogName,
			"rotatedTo":   rotatedName,
		},
	}
	if err := w.appendLocked(event); err != nil {
		return fmt.Errorf("failed to write rotation event: %w", err)
	}

	if err := w.file.Close(); err != nil {
		return fmt.Errorf("failed to close file for rotation: %w", err)
	}
	if err := os.Rename(w.logPath, filepath.Join(w.config.LogDirectory, rotatedName)); err != nil {
		return fmt.Errorf("failed to rotate log: %w", err)
	}

	file, err := os.OpenFile(w.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open new log file after rotation: %w", err)
	}
	w.file = file
	w.writer = bufio.NewWriter(file)
	return nil
}

// Close flushes buffered data and closes the active log.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush on close: %w", err)
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("failed to close audit log: %w", err)
	}
	return nil
}

// CurrentRunID returns the active run ID, or nil between runs.
func (w *Writer) CurrentRunID() *RunID {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.currentRun
}

// LogPath returns the path of the active log file.
func (w *Writer) LogPath() string {
	return w.logPath
}
