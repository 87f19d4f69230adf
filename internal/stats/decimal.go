package stats

import (
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"
)

// averagePlaces is the number of fraction digits kept in the decimal average.
const averagePlaces = 2

// DecimalStats tracks count, sum, min, max and average of decimals.
// The sum keeps the largest scale of its operands; the average is rounded
// half away from zero to two fraction digits.
type DecimalStats struct {
	count   uint64
	sum     decimal.Decimal
	min     decimal.Decimal
	max     decimal.Decimal
	average decimal.Decimal
}

// Update adds one value.
func (s *DecimalStats) Update(v decimal.Decimal) {
	s.count++
	s.sum = s.sum.Add(v)
	if s.count == 1 || v.Cmp(s.min) < 0 {
		s.min = v
	}
	if s.count == 1 || v.Cmp(s.max) > 0 {
		s.max = v
	}
	n := decimal.NewFromBigInt(new(big.Int).SetUint64(s.count), 0)
	s.average = s.sum.DivRound(n, averagePlaces)
}

// Count returns the number of values seen.
func (s *DecimalStats) Count() uint64 { return s.count }

// Sum returns the running sum.
func (s *DecimalStats) Sum() decimal.Decimal { return s.sum }

// Min returns the smallest value; ok is false before the first update.
func (s *DecimalStats) Min() (decimal.Decimal, bool) { return s.min, s.count > 0 }

// Max returns the largest value; ok is false before the first update.
func (s *DecimalStats) Max() (decimal.Decimal, bool) { return s.max, s.count > 0 }

// Average returns the rounded average; ok is false before the first update.
func (s *DecimalStats) Average() (decimal.Decimal, bool) { return s.average, s.count > 0 }

func (s *DecimalStats) Lines(v Verbosity) []Line {
	lines := []Line{{Label: "Decimals", Value: strconv.FormatUint(s.count, 10)}}
	if v == Short || s.count == 0 {
		return lines
	}
	if s.count == 1 {
		return append(lines, Line{Label: "Only one decimal", Value: FormatDecimal(s.min), Detail: true})
	}
	if s.min.Equal(s.max) {
		return append(lines,
			Line{Label: "All decimals are identical", Value: FormatDecimal(s.min), Detail: true},
			Line{Label: "Sum", Value: FormatDecimal(s.sum), Detail: true},
		)
	}
	return append(lines,
		Line{Label: "Min", Value: FormatDecimal(s.min), Detail: true},
		Line{Label: "Max", Value: FormatDecimal(s.max), Detail: true},
		Line{Label: "Sum", Value: FormatDecimal(s.sum), Detail: true},
		Line{Label: "Average", Value: FormatDecimal(s.average), Detail: true},
	)
}

// FormatDecimal renders d in plain notation keeping its scale, so "10.50"
// stays "10.50" and 1.5e-3 renders as "0.0015".
func FormatDecimal(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}
