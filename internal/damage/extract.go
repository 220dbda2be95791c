// Package damage finds the damage rolls in fully expanded ability text.
package damage

import "regexp"

// Part is one (dice expression, damage type) pair. Type is empty for untyped damage.
type Part struct {
	Dice string `json:"dice" yaml:"dice"`
	Type string `json:"type" yaml:"type"`
}

const diceGroup = `\d+d\d+(?: ?[+-] ?\d+)?`

var (
	dualPattern    = regexp.MustCompile(`\d+ \((` + diceGroup + `)\) (\w+) damage plus \d+ \((` + diceGroup + `)\) (\w+) damage`)
	typedPattern   = regexp.MustCompile(`\d+ \((` + diceGroup + `)\) (\w+) damage`)
	untypedPattern = regexp.MustCompile(`\d+ \((` + diceGroup + `)\) damage`)
)

// Extract tries, in order, the dual-typed, single-typed and untyped damage
// phrases and returns the parts of the first that matches.
//
// Postcondition: returns a non-nil slice, empty only when no phrase matches.
// Dice are returned exactly as written in text.
func Extract(text string) []Part {
	if m := dualPattern.FindStringSubmatch(text); m != nil {
		return []Part{{Dice: m[1], Type: m[2]}, {Dice: m[3], Type: m[4]}}
	}
	if m := typedPattern.FindStringSubmatch(text); m != nil {
		return []Part{{Dice: m[1], Type: m[2]}}
	}
	if m := untypedPattern.FindStringSubmatch(text); m != nil {
		return []Part{{Dice: m[1]}}
	}
	return []Part{}
}
