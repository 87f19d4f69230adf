// Package stats accumulates per-category statistics over classified lines.
package stats

import (
	"strings"

	"filefilter/internal/classifier"
)

// Verbosity selects how much of an accumulator is rendered.
type Verbosity int

const (
	Short Verbosity = iota
	Full
)

// Line is one rendered statistics row. Detail rows belong under the preceding
// headline row of the same accumulator.
type Line struct {
	Label  string
	Value  string
	Detail bool
}

// Accumulator is implemented by the three category accumulators.
type Accumulator interface {
	Count() uint64
	Lines(v Verbosity) []Line
}

// Set holds one accumulator per category for the lifetime of a run.
type Set struct {
	Integers *IntegerStats
	Decimals *DecimalStats
	Texts    *TextStats
}

// NewSet creates empty accumulators for all categories.
func NewSet() *Set {
	return &Set{
		Integers: &IntegerStats{},
		Decimals: &DecimalStats{},
		Texts:    &TextStats{},
	}
}

// Add feeds a classified line to the accumulator of its category.
// Unclassified lines are ignored.
func (s *Set) Add(c *classifier.Classification) {
	switch c.Category {
	case classifier.Integer:
		s.Integers.Update(c.Int)
	case classifier.Decimal:
		s.Decimals.Update(c.Dec)
	case classifier.Text:
		s.Texts.Update(c.Line)
	}
}

// For returns the accumulator of a category, or nil for None.
func (s *Set) For(cat classifier.Category) Accumulator {
	switch cat {
	case classifier.Integer:
		return s.Integers
	case classifier.Decimal:
		return s.Decimals
	case classifier.Text:
		return s.Texts
	default:
		return nil
	}
}

// Counts returns the per-category counts keyed by category name.
func (s *Set) Counts() map[string]uint64 {
	counts := make(map[string]uint64, len(classifier.Categories))
	for _, cat := range classifier.Categories {
		counts[cat.String()] = s.For(cat).Count()
	}
	return counts
}

// Lines renders all accumulators in category order.
func (s *Set) Lines(v Verbosity) []Line {
	var lines []Line
	for _, cat := range classifier.Categories {
		lines = append(lines, s.For(cat).Lines(v)...)
	}
	return lines
}

// Render formats lines as plain text, indenting detail rows by two spaces.
func Render(lines []Line) string {
	var b strings.Builder
	for _, l := range lines {
		if l.Detail {
			b.WriteString("  ")
		}
		b.WriteString(l.Label)
		b.WriteString(": ")
		b.WriteString(l.Value)
		b.WriteByte('\n')
	}
	return b.String()
}
