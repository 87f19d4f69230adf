package stats

import (
	"math/big"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"filefilter/internal/classifier"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestIntegerStats_Empty(t *testing.T) {
	var s IntegerStats

	if s.Count() != 0 {
		t.Errorf("expected count 0, got %d", s.Count())
	}
	if s.Min() != nil || s.Max() != nil || s.Average() != nil {
		t.Error("expected min, max and average to be unset")
	}
	if got := Render(s.Lines(Full)); got != "Integers: 0\n" {
		t.Errorf("unexpected full render for empty stats: %q", got)
	}
}

func TestIntegerStats_SingleValue(t *testing.T) {
	var s IntegerStats
	s.Update(big.NewInt(42))

	for name, got := range map[string]*big.Int{
		"sum": s.Sum(), "min": s.Min(), "max": s.Max(), "average": s.Average(),
	} {
		if got.Int64() != 42 {
			t.Errorf("expected %s 42, got %s", name, got)
		}
	}

	want := "Integers: 1\n  Only one integer: 42\n"
	if got := Render(s.Lines(Full)); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestIntegerStats_MultipleValues(t *testing.T) {
	var s IntegerStats
	for _, v := range []int64{5, 10, 2} {
		s.Update(big.NewInt(v))
	}

	if s.Count() != 3 {
		t.Errorf("expected count 3, got %d", s.Count())
	}
	if s.Sum().Int64() != 17 {
		t.Errorf("expected sum 17, got %s", s.Sum())
	}
	if s.Min().Int64() != 2 || s.Max().Int64() != 10 {
		t.Errorf("expected min 2 max 10, got %s %s", s.Min(), s.Max())
	}
	// 17/3 truncates to 5
	if s.Average().Int64() != 5 {
		t.Errorf("expected average 5, got %s", s.Average())
	}

	want := "Integers: 3\n  Min: 2\n  Max: 10\n  Sum: 17\n  Average: 5\n"
	if got := Render(s.Lines(Full)); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got := Render(s.Lines(Short)); got != "Integers: 3\n" {
		t.Errorf("unexpected short render %q", got)
	}
}

func TestIntegerStats_IdenticalValues(t *testing.T) {
	var s IntegerStats
	s.Update(big.NewInt(7))
	s.Update(big.NewInt(7))

	want := "Integers: 2\n  All integers are identical: 7\n  Sum: 14\n"
	if got := Render(s.Lines(Full)); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestIntegerStats_BeyondInt64(t *testing.T) {
	var s IntegerStats
	huge, _ := new(big.Int).SetString("99999999999999999999999999", 10)
	s.Update(huge)
	s.Update(huge)
	s.Update(big.NewInt(1))

	if got := s.Sum().String(); got != "199999999999999999999999999" {
		t.Errorf("unexpected sum %s", got)
	}
	if got := s.Average().String(); got != "66666666666666666666666666" {
		t.Errorf("unexpected average %s", got)
	}
}

func TestIntegerStats_IgnoresNil(t *testing.T) {
	var s IntegerStats
	s.Update(nil)
	if s.Count() != 0 {
		t.Errorf("expected nil update to be ignored, count=%d", s.Count())
	}
}

func TestDecimalStats(t *testing.T) {
	tests := []struct {
		name    string
		values  []string
		sum     string
		min     string
		max     string
		average string
	}{
		{"single value keeps scale", []string{"10.50"}, "10.50", "10.50", "10.50", "10.50"},
		{"multiple values", []string{"3.2", "7.8", "5.0"}, "16.0", "3.2", "7.8", "5.33"},
		{"negative values", []string{"-1.1", "-5.3", "2.4"}, "-4.0", "-5.3", "2.4", "-1.33"},
		{"average rounds half up", []string{"-0.001", "3.1415"}, "3.1405", "-0.001", "3.1415", "1.57"},
		{"tiny exponent values", []string{"1.528535047E-25", "1.528535047E-25", "1.528535047E-25"},
			"0.0000000000000000000000004585605141",
			"0.0000000000000000000000001528535047",
			"0.0000000000000000000000001528535047",
			"0.00"},
		{"half up on exact midpoint", []string{"0.125"}, "0.125", "0.125", "0.125", "0.13"},
		{"half away from zero when negative", []string{"-0.125"}, "-0.125", "-0.125", "-0.125", "-0.13"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s DecimalStats
			for _, v := range tt.values {
				s.Update(dec(t, v))
			}

			if s.Count() != uint64(len(tt.values)) {
				t.Errorf("expected count %d, got %d", len(tt.values), s.Count())
			}
			if got := FormatDecimal(s.Sum()); got != tt.sum {
				t.Errorf("sum = %s, want %s", got, tt.sum)
			}
			min, _ := s.Min()
			if got := FormatDecimal(min); got != tt.min {
				t.Errorf("min = %s, want %s", got, tt.min)
			}
			max, _ := s.Max()
			if got := FormatDecimal(max); got != tt.max {
				t.Errorf("max = %s, want %s", got, tt.max)
			}
			avg, ok := s.Average()
			if !ok {
				t.Fatal("expected average to be set")
			}
			if got := FormatDecimal(avg); got != tt.average {
				t.Errorf("average = %s, want %s", got, tt.average)
			}
		})
	}
}

func TestDecimalStats_Render(t *testing.T) {
	var s DecimalStats
	if got := Render(s.Lines(Full)); got != "Decimals: 0\n" {
		t.Errorf("unexpected empty render %q", got)
	}
	if _, ok := s.Average(); ok {
		t.Error("expected no average before first update")
	}

	s.Update(dec(t, "-0.001"))
	s.Update(dec(t, "3.1415"))

	want := "Decimals: 2\n  Min: -0.001\n  Max: 3.1415\n  Sum: 3.1405\n  Average: 1.57\n"
	if got := Render(s.Lines(Full)); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	var same DecimalStats
	same.Update(dec(t, "2.5"))
	same.Update(dec(t, "2.50"))
	want = "Decimals: 2\n  All decimals are identical: 2.5\n  Sum: 5.00\n"
	if got := Render(same.Lines(Full)); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTextStats(t *testing.T) {
	var s TextStats
	if got := Render(s.Lines(Full)); got != "Strings: 0\n" {
		t.Errorf("unexpected empty render %q", got)
	}

	s.Update("Hello")
	if got := Render(s.Lines(Full)); got != "Strings: 1\n  Only one string, length: 5\n" {
		t.Errorf("unexpected single render %q", got)
	}

	s.Update("abcde")
	if got := Render(s.Lines(Full)); got != "Strings: 2\n  All strings have the same length: 5\n" {
		t.Errorf("unexpected identical render %q", got)
	}

	s.Update("ab")
	s.Update("привет мир")
	want := "Strings: 4\n  Shortest string: 2\n  Longest string: 10\n"
	if got := Render(s.Lines(Full)); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	s.Update("")
	if s.Count() != 4 {
		t.Errorf("expected empty string to be ignored, count=%d", s.Count())
	}
}

func TestSet_AddRoutesByCategory(t *testing.T) {
	set := NewSet()
	for _, line := range []string{"42", "-0.001", "3.1415", "abc", "-45", ""} {
		set.Add(classifier.Classify(line))
	}

	counts := set.Counts()
	if counts["integer"] != 1 || counts["decimal"] != 2 || counts["text"] != 1 {
		t.Errorf("unexpected counts %v", counts)
	}

	short := Render(set.Lines(Short))
	if short != "Integers: 1\nDecimals: 2\nStrings: 1\n" {
		t.Errorf("unexpected short render %q", short)
	}
	if !strings.Contains(Render(set.Lines(Full)), "Average: 1.57") {
		t.Error("expected full render to include the decimal average")
	}
	if set.For(classifier.None) != nil {
		t.Error("expected no accumulator for None")
	}
}
