package classifier

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		line string
		want Category
	}{
		{"", None},
		{"42", Integer},
		{"007", Integer},
		{"123456789012345678901234567890", Integer},
		{"-45", None},
		{"+45", Text},
		{"-0.001", Decimal},
		{"3.1415", Decimal},
		{"1.528535047E-25", Decimal},
		{"1.5e3", Decimal},
		{"1.5e+3", Decimal},
		{"12E5", None},
		{"-3E-2", None},
		{".5", Text},
		{"5.", Text},
		{"1,5", Text},
		{"Hello", Text},
		{"null", Text},
		{"-white34", Text},
		{"!@#", Text},
		{"12 34", Text},
		{"١٢٣", Text},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.line), func(t *testing.T) {
			got := Classify(tt.line)
			if got.Category != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.line, got.Category, tt.want)
			}
		})
	}
}

func TestClassify_ParsedValues(t *testing.T) {
	c := Classify("42")
	if c.Int == nil || c.Int.String() != "42" {
		t.Errorf("expected parsed integer 42, got %v", c.Int)
	}

	c = Classify("-0.001")
	if c.Dec.String() != "-0.001" {
		t.Errorf("expected parsed decimal -0.001, got %s", c.Dec.String())
	}
	if c.Line != "-0.001" {
		t.Errorf("expected line to be kept, got %q", c.Line)
	}
}

func TestCategoryFileNames(t *testing.T) {
	want := map[Category]string{
		Integer: "integers.txt",
		Decimal: "floats.txt",
		Text:    "strings.txt",
		None:    "",
	}
	for cat, name := range want {
		if got := cat.FileName(); got != name {
			t.Errorf("%s.FileName() = %q, want %q", cat, got, name)
		}
	}
}

// genNumericShaped generates strings close to the number grammar so that the
// property below exercises the boundaries between the three predicates.
func genNumericShaped() gopter.Gen {
	return gopter.CombineGens(
		gen.OneConstOf("", "-", "+"),
		gen.NumString(),
		gen.OneConstOf("", ".", ".0", ".25", "."),
		gen.OneConstOf("", "e3", "E3", "E-3", "e+3", "e-", "E"),
		gen.OneConstOf("", " ", "x"),
	).Map(func(vals []interface{}) string {
		s := ""
		for _, v := range vals {
			s += v.(string)
		}
		return s
	})
}

func TestPredicatesAreMutuallyExclusive(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500

	properties := gopter.NewProperties(parameters)

	exclusive := func(line string) bool {
		accepted := 0
		for _, ok := range []bool{IsInteger(line), IsDecimal(line), IsText(line)} {
			if ok {
				accepted++
			}
		}
		if accepted > 1 {
			t.Logf("line %q accepted by %d predicates", line, accepted)
			return false
		}
		return true
	}

	properties.Property("arbitrary strings match at most one predicate", prop.ForAll(
		exclusive,
		gen.AnyString(),
	))

	properties.Property("numeric-shaped strings match at most one predicate", prop.ForAll(
		exclusive,
		genNumericShaped(),
	))

	properties.Property("Classify agrees with the predicates", prop.ForAll(
		func(line string) bool {
			got := Classify(line).Category
			switch got {
			case Integer:
				return IsInteger(line)
			case Decimal:
				return IsDecimal(line)
			case Text:
				return IsText(line)
			default:
				return !IsInteger(line) && !IsDecimal(line) && !IsText(line)
			}
		},
		gen.OneGenOf(gen.AnyString(), genNumericShaped()),
	))

	properties.TestingRun(t)
}

func TestNegativeIntegersAreDropped(t *testing.T) {
	for _, line := range []string{"-1", "-45", "-456", "-0"} {
		if IsInteger(line) || IsDecimal(line) || IsText(line) {
			t.Errorf("expected %q to be rejected by every predicate", line)
		}
	}
}
