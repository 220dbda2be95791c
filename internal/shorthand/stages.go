package shorthand

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cory-johannsen/tetracube/internal/derive"
	"github.com/cory-johannsen/tetracube/internal/dice"
)

// Scores is the ability lookup every token stage reads from.
type Scores map[derive.Ability]derive.AbilityScore

// skipFunc is told about a token whose outer pattern matched but whose inner
// groups could not be resolved. The token is left in place.
type skipFunc func(token, reason string)

const nameToken = "[MON]"

var (
	attackPattern = regexp.MustCompile(`\[(STR|DEX|CON|INT|WIS|CHA) ATK([+-]\d+)?\]`)
	damagePattern = regexp.MustCompile(`\[(?:(STR|DEX|CON|INT|WIS|CHA) )?(\d+)[Dd](\d+)(?:\+(\d+))?\]`)
	savePattern   = regexp.MustCompile(`\[(STR|DEX|CON|INT|WIS|CHA) SAVE([+-]\d+)?\]`)
	italicPattern = regexp.MustCompile(`_([^_]*)_`)
)

// ExpandName replaces every [MON] with name.
func ExpandName(text, name string) string {
	return strings.ReplaceAll(text, nameToken, name)
}

// ExpandModifiers replaces [STR], [DEX], ... with the signed ability modifier.
// Positive modifiers carry a leading "+"; zero prints as "0".
func ExpandModifiers(text string, scores Scores) string {
	for _, a := range derive.Abilities {
		s, ok := scores[a]
		if !ok {
			continue
		}
		mod := strconv.Itoa(s.Mod)
		if s.Mod > 0 {
			mod = "+" + mod
		}
		text = strings.ReplaceAll(text, "["+strings.ToUpper(string(a))+"]", mod)
	}
	return text
}

// ExpandAttacks replaces [ABI ATK], [ABI ATK+N] and [ABI ATK-N] with the
// signed sum of the ability's attack bonus and N.
func ExpandAttacks(text string, scores Scores) string {
	return expandAttacks(text, scores, nil)
}

// ExpandDamage replaces [NDS], [NDS+F], [ABI NDS] and [ABI NDS+F] with
// "<avg> (<N>d<S>[ + <flat>])", where flat is F plus the ability modifier.
func ExpandDamage(text string, scores Scores) string {
	return expandDamage(text, scores, nil)
}

// ExpandSaves replaces [ABI SAVE], [ABI SAVE+N] and [ABI SAVE-N] with the
// ability's save DC plus N.
func ExpandSaves(text string, scores Scores) string {
	return expandSaves(text, scores, nil)
}

// ConvertItalics turns _text_ into <i>text</i>.
func ConvertItalics(text string) string {
	return italicPattern.ReplaceAllString(text, "<i>$1</i>")
}

// SpellLineBreaks turns the ">" spell-level separators of a spellcasting
// trait into <br> line breaks.
func SpellLineBreaks(text string) string {
	return strings.ReplaceAll(text, ">", "<br>")
}

func expandAttacks(text string, scores Scores, skip skipFunc) string {
	return attackPattern.ReplaceAllStringFunc(text, func(token string) string {
		m := attackPattern.FindStringSubmatch(token)
		s, ok := lookup(scores, m[1])
		if !ok {
			report(skip, token, "unknown ability")
			return token
		}
		bonus, err := optionalInt(m[2])
		if err != nil {
			report(skip, token, err.Error())
			return token
		}
		return fmt.Sprintf("%+d", s.Atk+bonus)
	})
}

func expandDamage(text string, scores Scores, skip skipFunc) string {
	return damagePattern.ReplaceAllStringFunc(text, func(token string) string {
		m := damagePattern.FindStringSubmatch(token)
		flat := 0
		if m[1] != "" {
			s, ok := lookup(scores, m[1])
			if !ok {
				report(skip, token, "unknown ability")
				return token
			}
			flat += s.Mod
		}
		count, err := strconv.Atoi(m[2])
		if err != nil {
			report(skip, token, err.Error())
			return token
		}
		sides, err := strconv.Atoi(m[3])
		if err != nil {
			report(skip, token, err.Error())
			return token
		}
		extra, err := optionalInt(m[4])
		if err != nil {
			report(skip, token, err.Error())
			return token
		}
		flat += extra
		if err := dice.CheckRange(count, sides, flat); err != nil {
			report(skip, token, err.Error())
			return token
		}
		return fmt.Sprintf("%d (%s)", dice.Average(count, sides, flat), dice.Notation(count, sides, flat))
	})
}

func expandSaves(text string, scores Scores, skip skipFunc) string {
	return savePattern.ReplaceAllStringFunc(text, func(token string) string {
		m := savePattern.FindStringSubmatch(token)
		s, ok := lookup(scores, m[1])
		if !ok {
			report(skip, token, "unknown ability")
			return token
		}
		bonus, err := optionalInt(m[2])
		if err != nil {
			report(skip, token, err.Error())
			return token
		}
		return strconv.Itoa(s.DC + bonus)
	})
}

func lookup(scores Scores, code string) (derive.AbilityScore, bool) {
	s, ok := scores[derive.Ability(strings.ToLower(code))]
	return s, ok
}

// optionalInt parses an optional signed literal; "" is zero.
func optionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func report(skip skipFunc, token, reason string) {
	if skip != nil {
		skip(token, reason)
	}
}
