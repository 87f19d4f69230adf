package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const segmentTimeLayout = "20060102-150405"

// NeedsRotation reports whether the log at logPath has reached maxSize bytes.
// A missing log or a non-positive maxSize never needs rotation.
func NeedsRotation(logPath string, maxSize int64) (bool, error) {
	if maxSize <= 0 {
		return false, nil
	}
	info, err := os.Stat(logPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat log file: %w", err)
	}
	return info.Size() >= maxSize, nil
}

// SegmentName returns the rotated filename for the given time and sequence,
// e.g. filefilter-audit-20260101-120000-001.jsonl.
func SegmentName(t time.Time, seq int) string {
	return fmt.Sprintf("%s%s-%03d%s", segmentLogPrefix, t.UTC().Format(segmentTimeLayout), seq, logSuffix)
}

// nextSegmentName picks the first sequence number not yet used in dir.
func nextSegmentName(dir string, t time.Time) (string, error) {
	for seq := 1; seq < 1000; seq++ {
		name := SegmentName(t, seq)
		if _, err := os.Stat(filepath.Join(dir, name)); os.IsNotExist(err) {
			return name, nil
		}
	}
	return "", fmt.Errorf("too many log segments for %s", t.UTC().Format(segmentTimeLayout))
}

// DiscoverSegments returns the rotated segments in dir, oldest first.
func DiscoverSegments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read log directory: %w", err)
	}

	var segments []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == activeLogName {
			continue
		}
		if strings.HasPrefix(name, segmentLogPrefix) && strings.HasSuffix(name, logSuffix) {
			segments = append(segments, filepath.Join(dir, name))
		}
	}
	// Timestamp and zero-padded sequence sort lexically.
	sort.Strings(segments)
	return segments, nil
}

// LogFiles returns every log file in dir in chronological order: rotated
// segments first, then the active log if it exists.
func LogFiles(dir string) ([]string, error) {
	files, err := DiscoverSegments(dir)
	if err != nil {
		return nil, err
	}
	active := filepath.Join(dir, activeLogName)
	if _, err := os.Stat(active); err == nil {
		files = append(files, active)
	}
	return files, nil
}
