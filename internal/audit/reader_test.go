package audit

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeLog(t *testing.T, path string, events ...AuditEvent) {
	t.Helper()
	var b strings.Builder
	for _, e := range events {
		data, err := e.MarshalJSON()
		if err != nil {
			t.Fatal(err)
		}
		b.Write(data)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestReader_EmptyDirectory(t *testing.T) {
	r := NewReader(filepath.Join(t.TempDir(), "missing"))

	runs, err := r.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
	if _, err := r.LatestRun(); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestReader_ListRunsAcrossSegments(t *testing.T) {
	dir := t.TempDir()
	t0 := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)

	writeLog(t, filepath.Join(dir, SegmentName(t0, 1)),
		AuditEvent{Timestamp: t0, EventType: EventLogInitialized, Status: StatusSuccess},
		AuditEvent{Timestamp: t0, RunID: "run-1", EventType: EventRunStart, Status: StatusSuccess,
			Metadata: map[string]string{"mode": "truncate", "outputDir": "/out", "appVersion": "1.0"}},
		AuditEvent{Timestamp: t0, RunID: "run-1", EventType: EventInputProcessed, Status: StatusSuccess, InputPath: "a.txt"},
	)
	writeLog(t, filepath.Join(dir, activeLogName),
		AuditEvent{Timestamp: t0.Add(time.Second), RunID: "run-1", EventType: EventRunEnd, Status: StatusSuccess,
			Metadata: map[string]string{"status": "COMPLETED", "inputs": "1", "integers": "3", "strings": "2", "dropped": "1"}},
		AuditEvent{Timestamp: t0.Add(time.Minute), RunID: "run-2", EventType: EventRunStart, Status: StatusSuccess,
			Metadata: map[string]string{"mode": "append"}},
		AuditEvent{Timestamp: t0.Add(time.Minute), RunID: "run-2", EventType: EventInputSkipped, Status: StatusSkipped,
			InputPath: "gone.txt", ReasonCode: ReasonNotFound},
	)

	r := NewReader(dir)
	runs, err := r.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}

	first := runs[0]
	if first.RunID != "run-1" || first.Status != RunStatusCompleted {
		t.Errorf("unexpected first run %+v", first)
	}
	if first.Mode != "truncate" || first.OutputDir != "/out" || first.AppVersion != "1.0" {
		t.Errorf("unexpected run metadata %+v", first)
	}
	if first.EndTime == nil {
		t.Error("expected end time for completed run")
	}
	want := RunSummary{Inputs: 1, Integers: 3, Strings: 2, Dropped: 1}
	if first.Summary != want {
		t.Errorf("summary = %+v, want %+v", first.Summary, want)
	}

	second := runs[1]
	if second.Status != RunStatusInProgress {
		t.Errorf("expected unfinished run to be IN_PROGRESS, got %s", second.Status)
	}
	if second.Summary.Skipped != 1 {
		t.Errorf("expected 1 skipped input counted from events, got %d", second.Summary.Skipped)
	}

	latest, err := r.LatestRun()
	if err != nil {
		t.Fatal(err)
	}
	if latest.RunID != "run-2" {
		t.Errorf("expected latest run-2, got %s", latest.RunID)
	}

	if _, err := r.GetRun("run-3"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestReader_CorruptLine(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, activeLogName), []byte("{not json\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewReader(dir).ListRuns(); err == nil {
		t.Error("expected error for corrupt log line")
	}
}

func TestSumRuns(t *testing.T) {
	runs := []RunInfo{
		{Status: RunStatusCompleted, Summary: RunSummary{Inputs: 2, Integers: 3, Decimals: 1, ExitCode: 0}},
		{Status: RunStatusFailed, Summary: RunSummary{Inputs: 1, Strings: 4, Dropped: 2, ExitCode: 5}},
		{Status: RunStatusInProgress, Summary: RunSummary{Skipped: 1}},
	}

	got := SumRuns(runs)
	if got.Runs != 3 || got.Completed != 1 || got.Failed != 1 || got.InProgress != 1 {
		t.Errorf("unexpected run counts %+v", got)
	}
	want := RunSummary{Inputs: 3, Skipped: 1, Integers: 3, Decimals: 1, Strings: 4, Dropped: 2}
	if got.Lines != want {
		t.Errorf("Lines = %+v, want %+v", got.Lines, want)
	}
}
