package dice

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Expression is a parsed "NdS", "NdS+F" or "NdS - F" dice expression.
//
// Invariant: after a successful Parse, CheckRange(Count, Sides, Modifier) == nil.
type Expression struct {
	Raw      string // original input string
	Count    int    // number of dice
	Sides    int    // faces per die
	Modifier int    // flat modifier (may be negative)
}

// Parse parses a dice expression. Whitespace around the modifier sign is
// ignored, so "2d6+3" and "2d6 + 3" are equivalent.
//
// Precondition: expr must be a non-empty string.
// Postcondition: returns an Expression within the package bounds, or an
// error; out-of-bounds values wrap ErrOutOfRange.
func Parse(expr string) (Expression, error) {
	raw := expr
	s := strings.ToLower(strings.Join(strings.Fields(expr), ""))
	if s == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}

	dIdx := strings.Index(s, "d")
	if dIdx < 0 {
		return Expression{}, fmt.Errorf("dice: missing 'd' in expression %q", raw)
	}

	count := 1
	if countStr := s[:dIdx]; countStr != "" {
		var err error
		count, err = strconv.Atoi(countStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: %w", raw, err)
		}
	}

	rest := s[dIdx+1:]
	sidesStr, modStr := rest, ""
	if i := strings.IndexAny(rest, "+-"); i > 0 {
		sidesStr, modStr = rest[:i], rest[i:]
	}

	if sidesStr == "" || sidesStr[0] == '+' || sidesStr[0] == '-' {
		return Expression{}, fmt.Errorf("dice: missing die sides in %q", raw)
	}
	sides, err := strconv.Atoi(sidesStr)
	if err != nil {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: %w", raw, err)
	}

	modifier := 0
	if modStr != "" {
		modifier, err = strconv.Atoi(modStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid modifier in %q: %w", raw, err)
		}
	}

	if err := CheckRange(count, sides, modifier); err != nil {
		return Expression{}, fmt.Errorf("parsing %q: %w", raw, err)
	}
	return Expression{Raw: raw, Count: count, Sides: sides, Modifier: modifier}, nil
}

// MustParse parses expr and panics on error. Useful for package-level constants.
//
// Precondition: expr must be a valid dice expression.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic("dice: MustParse failed for expression " + expr + ": " + err.Error())
	}
	return e
}

// Average returns the statblock average of count dice with the given number of
// sides plus flat: ceil((sides/2 + 0.5) * count) + flat.
//
// Precondition: CheckRange(count, sides, flat) == nil.
func Average(count, sides, flat int) int {
	return int(math.Ceil((float64(sides)/2.0+0.5)*float64(count))) + flat
}

// Average returns the statblock average of e.
func (e Expression) Average() int {
	return Average(e.Count, e.Sides, e.Modifier)
}

// Notation renders e as "NdS", "NdS + F" or "NdS - F".
func (e Expression) Notation() string {
	return Notation(e.Count, e.Sides, e.Modifier)
}

// Notation renders count, sides and flat with a spaced sign. A zero flat is omitted.
func Notation(count, sides, flat int) string {
	switch {
	case flat > 0:
		return fmt.Sprintf("%dd%d + %d", count, sides, flat)
	case flat < 0:
		return fmt.Sprintf("%dd%d - %d", count, sides, -flat)
	default:
		return fmt.Sprintf("%dd%d", count, sides)
	}
}
