package stats

import (
	"strconv"
	"unicode/utf8"
)

// TextStats tracks the count and the shortest and longest length of text lines.
// Length is measured in code points.
type TextStats struct {
	count  uint64
	minLen int
	maxLen int
}

// Update adds one line. Empty strings are ignored.
func (s *TextStats) Update(line string) {
	if line == "" {
		return
	}
	n := utf8.RuneCountInString(line)
	s.count++
	if s.count == 1 || n < s.minLen {
		s.minLen = n
	}
	if s.count == 1 || n > s.maxLen {
		s.maxLen = n
	}
}

// Count returns the number of lines seen.
func (s *TextStats) Count() uint64 { return s.count }

// MinLen returns the shortest length; ok is false before the first update.
func (s *TextStats) MinLen() (int, bool) { return s.minLen, s.count > 0 }

// MaxLen returns the longest length; ok is false before the first update.
func (s *TextStats) MaxLen() (int, bool) { return s.maxLen, s.count > 0 }

func (s *TextStats) Lines(v Verbosity) []Line {
	lines := []Line{{Label: "Strings", Value: strconv.FormatUint(s.count, 10)}}
	if v == Short || s.count == 0 {
		return lines
	}
	if s.count == 1 {
		return append(lines, Line{Label: "Only one string, length", Value: strconv.Itoa(s.minLen), Detail: true})
	}
	if s.minLen == s.maxLen {
		return append(lines, Line{Label: "All strings have the same length", Value: strconv.Itoa(s.minLen), Detail: true})
	}
	return append(lines,
		Line{Label: "Shortest string", Value: strconv.Itoa(s.minLen), Detail: true},
		Line{Label: "Longest string", Value: strconv.Itoa(s.maxLen), Detail: true},
	)
}
