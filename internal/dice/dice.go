// Package dice parses the damage dice notation used in statblocks, computes
// printed averages and rolls damage against a pluggable randomness source.
package dice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Bounds on a single expression. No printed statblock comes near them, and
// they keep Average and Roll well inside int range.
const (
	MaxCount    = 1000
	MaxSides    = 1000
	MaxModifier = 1_000_000
)

// ErrOutOfRange is wrapped by CheckRange and Parse when a count, side or
// modifier value exceeds the bounds above.
var ErrOutOfRange = errors.New("dice: value out of range")

// CheckRange validates the three numeric parts of an expression.
//
// Postcondition: returns nil, or an error wrapping ErrOutOfRange.
func CheckRange(count, sides, flat int) error {
	switch {
	case count < 1 || count > MaxCount:
		return fmt.Errorf("%w: count %d not in [1, %d]", ErrOutOfRange, count, MaxCount)
	case sides < 1 || sides > MaxSides:
		return fmt.Errorf("%w: sides %d not in [1, %d]", ErrOutOfRange, sides, MaxSides)
	case flat < -MaxModifier || flat > MaxModifier:
		return fmt.Errorf("%w: modifier %d exceeds %d", ErrOutOfRange, flat, MaxModifier)
	}
	return nil
}

// Damage is one rolled damage part.
//
// Invariant: len(Faces) == Expr.Count and every face is in [1, Expr.Sides].
type Damage struct {
	Type  string // damage type; empty for untyped damage
	Expr  Expression
	Faces []int
}

// Total is the sum of the faces plus the flat modifier.
func (d Damage) Total() int {
	total := d.Expr.Modifier
	for _, f := range d.Faces {
		total += f
	}
	return total
}

// String renders the roll with its type, notation and every face:
//
//	piercing 2d10 + 4: 7 + 3 + 4 = 14
//
// Untyped damage has no leading type.
func (d Damage) String() string {
	var b strings.Builder
	if d.Type != "" {
		b.WriteString(d.Type)
		b.WriteByte(' ')
	}
	b.WriteString(d.Expr.Notation())
	b.WriteString(": ")
	for i, f := range d.Faces {
		if i > 0 {
			b.WriteString(" + ")
		}
		b.WriteString(strconv.Itoa(f))
	}
	switch m := d.Expr.Modifier; {
	case m > 0:
		fmt.Fprintf(&b, " + %d", m)
	case m < 0:
		fmt.Fprintf(&b, " - %d", -m)
	}
	fmt.Fprintf(&b, " = %d", d.Total())
	return b.String()
}

// Source supplies the randomness behind every die face.
//
// Implementations must be safe for concurrent use.
type Source interface {
	// Intn returns a value in [0, n). n is always > 0.
	Intn(n int) int
}
