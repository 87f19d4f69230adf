// Package classifier sorts input lines into integer, decimal and text categories.
package classifier

import (
	"math/big"
	"regexp"

	"github.com/shopspring/decimal"
)

// Category identifies which output a line belongs to.
type Category int

const (
	// None marks blank lines and numeric-looking lines no category accepts.
	None Category = iota
	Integer
	Decimal
	Text
)

// Categories lists the output categories in rendering order.
var Categories = []Category{Integer, Decimal, Text}

func (c Category) String() string {
	switch c {
	case Integer:
		return "integer"
	case Decimal:
		return "decimal"
	case Text:
		return "text"
	default:
		return "none"
	}
}

// FileName returns the fixed output file name for the category, without prefix.
func (c Category) FileName() string {
	switch c {
	case Integer:
		return "integers.txt"
	case Decimal:
		return "floats.txt"
	case Text:
		return "strings.txt"
	default:
		return ""
	}
}

var (
	integerPattern = regexp.MustCompile(`^\d+$`)
	decimalPattern = regexp.MustCompile(`^-?\d+\.\d+(?:[eE][-+]?\d+)?$`)

	// numericPattern is the broad shape excluded from text. It accepts "-45" and "12E5",
	// which neither integerPattern nor decimalPattern accept, so those lines are dropped.
	numericPattern = regexp.MustCompile(`^-?\d+(\.\d+)?(E-?\d+)?$`)
)

// Classification is the result of classifying one trimmed line.
type Classification struct {
	Category Category
	Line     string
	Int      *big.Int        // set for Integer
	Dec      decimal.Decimal // set for Decimal
}

// IsInteger reports whether line is one or more ASCII digits with nothing else.
func IsInteger(line string) bool {
	return integerPattern.MatchString(line)
}

// IsDecimal reports whether line is an optionally negative number with a fractional part
// and an optional exponent.
func IsDecimal(line string) bool {
	return decimalPattern.MatchString(line)
}

// IsText reports whether line is non-blank and not number-shaped.
// Lines such as "-45" fail all three predicates.
func IsText(line string) bool {
	return line != "" && !numericPattern.MatchString(line) && !IsDecimal(line)
}

// Classify assigns line, already trimmed, to exactly one category or None.
func Classify(line string) *Classification {
	switch {
	case line == "":
		return &Classification{Category: None}
	case IsInteger(line):
		n, ok := new(big.Int).SetString(line, 10)
		if !ok {
			return &Classification{Category: None, Line: line}
		}
		return &Classification{Category: Integer, Line: line, Int: n}
	case IsDecimal(line):
		d, err := decimal.NewFromString(line)
		if err != nil {
			return &Classification{Category: None, Line: line}
		}
		return &Classification{Category: Decimal, Line: line, Dec: d}
	case IsText(line):
		return &Classification{Category: Text, Line: line}
	default:
		return &Classification{Category: None, Line: line}
	}
}

// IsClassified returns true if the line landed in one of the output categories.
func (c *Classification) IsClassified() bool {
	return c.Category != None
}
