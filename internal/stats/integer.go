package stats

import (
	"math/big"
	"strconv"
)

// IntegerStats tracks count, sum, min, max and truncated average of integers.
type IntegerStats struct {
	count   uint64
	sum     big.Int
	min     *big.Int
	max     *big.Int
	average *big.Int
}

// Update adds one value. Nil values are ignored.
func (s *IntegerStats) Update(v *big.Int) {
	if v == nil {
		return
	}
	s.count++
	s.sum.Add(&s.sum, v)
	if s.min == nil || v.Cmp(s.min) < 0 {
		s.min = new(big.Int).Set(v)
	}
	if s.max == nil || v.Cmp(s.max) > 0 {
		s.max = new(big.Int).Set(v)
	}
	n := new(big.Int).SetUint64(s.count)
	s.average = new(big.Int).Quo(&s.sum, n)
}

// Count returns the number of values seen.
func (s *IntegerStats) Count() uint64 { return s.count }

// Sum returns a copy of the running sum.
func (s *IntegerStats) Sum() *big.Int { return new(big.Int).Set(&s.sum) }

// Min returns the smallest value, or nil before the first update.
func (s *IntegerStats) Min() *big.Int { return copyInt(s.min) }

// Max returns the largest value, or nil before the first update.
func (s *IntegerStats) Max() *big.Int { return copyInt(s.max) }

// Average returns sum/count truncated toward zero, or nil before the first update.
func (s *IntegerStats) Average() *big.Int { return copyInt(s.average) }

func (s *IntegerStats) Lines(v Verbosity) []Line {
	lines := []Line{{Label: "Integers", Value: strconv.FormatUint(s.count, 10)}}
	if v == Short || s.count == 0 {
		return lines
	}
	if s.count == 1 {
		return append(lines, Line{Label: "Only one integer", Value: s.min.String(), Detail: true})
	}
	if s.min.Cmp(s.max) == 0 {
		return append(lines,
			Line{Label: "All integers are identical", Value: s.min.String(), Detail: true},
			Line{Label: "Sum", Value: s.sum.String(), Detail: true},
		)
	}
	return append(lines,
		Line{Label: "Min", Value: s.min.String(), Detail: true},
		Line{Label: "Max", Value: s.max.String(), Detail: true},
		Line{Label: "Sum", Value: s.sum.String(), Detail: true},
		Line{Label: "Average", Value: s.average.String(), Detail: true},
	)
}

func copyInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}
