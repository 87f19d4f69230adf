package audit

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// ErrRunNotFound is returned when no event carries the requested run ID.
var ErrRunNotFound = errors.New("run not found")

// Reader reads audit events across the active log and its rotated segments.
type Reader struct {
	logDir string
}

// NewReader creates a Reader for the given log directory.
func NewReader(logDir string) *Reader {
	return &Reader{logDir: logDir}
}

// ListRuns returns every recorded run, oldest first.
func (r *Reader) ListRuns() ([]RunInfo, error) {
	events, err := r.readAllEvents()
	if err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	return extractRunInfos(events), nil
}

// GetRun returns all events of one run in log order.
func (r *Reader) GetRun(runID RunID) ([]AuditEvent, error) {
	events, err := r.readAllEvents()
	if err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}

	var runEvents []AuditEvent
	for _, event := range events {
		if event.RunID == runID {
			runEvents = append(runEvents, event)
		}
	}
	if len(runEvents) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return runEvents, nil
}

// LatestRun returns the run with the most recent start time.
func (r *Reader) LatestRun() (*RunInfo, error) {
	runs, err := r.ListRuns()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrRunNotFound
	}
	latest := runs[len(runs)-1]
	return &latest, nil
}

func (r *Reader) readAllEvents() ([]AuditEvent, error) {
	logFiles, err := LogFiles(r.logDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get log files: %w", err)
	}

	var all []AuditEvent
	for _, logFile := range logFiles {
		events, err := readEventsFromFile(logFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read events from %s: %w", logFile, err)
		}
		all = append(all, events...)
	}
	return all, nil
}

func readEventsFromFile(path string) ([]AuditEvent, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()

	const maxScanTokenSize = 1024 * 1024
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), maxScanTokenSize)

	var events []AuditEvent
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		event, err := UnmarshalJSONLine(line)
		if err != nil {
			return nil, fmt.Errorf("failed to parse line %d: %w", lineNum, err)
		}
		events = append(events, *event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading log file: %w", err)
	}
	return events, nil
}

func extractRunInfos(events []AuditEvent) []RunInfo {
	var order []RunID
	byRun := make(map[RunID][]AuditEvent)
	for _, event := range events {
		if event.RunID == "" {
			continue
		}
		if _, seen := byRun[event.RunID]; !seen {
			order = append(order, event.RunID)
		}
		byRun[event.RunID] = append(byRun[event.RunID], event)
	}

	runs := make([]RunInfo, 0, len(order))
	for _, id := range order {
		runs = append(runs, buildRunInfo(id, byRun[id]))
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartTime.Before(runs[j].StartTime)
	})
	return runs
}

// buildRunInfo counts input events as it goes; a RUN_END event, when
// present, carries the authoritative counters.
func buildRunInfo(runID RunID, events []AuditEvent) RunInfo {
	info := RunInfo{
		RunID:  runID,
		Status: RunStatusInProgress,
	}

	for _, event := range events {
		switch event.EventType {
		case EventRunStart:
			info.StartTime = event.Timestamp
			info.AppVersion = event.Metadata["appVersion"]
			info.Mode = event.Metadata["mode"]
			info.OutputDir = event.Metadata["outputDir"]
		case EventInputProcessed:
			info.Summary.Inputs++
		case EventInputSkipped:
			info.Summary.Skipped++
		case EventRunEnd:
			end := event.Timestamp
			info.EndTime = &end
			if status, ok := event.Metadata["status"]; ok {
				info.Status = RunStatus(status)
			}
			info.Summary = parseSummary(event.Metadata)
		}
	}
	return info
}

func parseSummary(metadata map[string]string) RunSummary {
	atoi := func(key string) int {
		n, _ := strconv.Atoi(metadata[key])
		return n
	}
	return RunSummary{
		Inputs:   atoi("inputs"),
		Skipped:  atoi("skipped"),
		Integers: atoi("integers"),
		Decimals: atoi("decimals"),
		Strings:  atoi("strings"),
		Dropped:  atoi("dropped"),
		ExitCode: atoi("exitCode"),
	}
}

// Totals aggregates counters over several runs.
type Totals struct {
	Runs       int
	Completed  int
	Failed     int
	InProgress int
	Lines      RunSummary
}

// SumRuns adds up the counters of runs. ExitCode is left zero.
func SumRuns(runs []RunInfo) Totals {
	var t Totals
	for _, run := range runs {
		t.Runs++
		switch run.Status {
		case RunStatusCompleted:
			t.Completed++
		case RunStatusFailed:
			t.Failed++
		default:
			t.InProgress++
		}
		t.Lines.Inputs += run.Summary.Inputs
		t.Lines.Skipped += run.Summary.Skipped
		t.Lines.Integers += run.Summary.Integers
		t.Lines.Decimals += run.Summary.Decimals
		t.Lines.Strings += run.Summary.Strings
		t.Lines.Dropped += run.Summary.Dropped
	}
	return t
}
