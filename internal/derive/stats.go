package derive

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/cory-johannsen/tetracube/internal/statblock"
)

// AbilityScore holds one ability's raw value and everything computed from it.
//
// Invariant: Mod == Modifier(Value); Atk == prof + Mod; DC == 8 + prof + Mod;
// Save == Mod + prof when Proficient, else Mod.
type AbilityScore struct {
	Value      int  `json:"value" yaml:"value"`
	Proficient bool `json:"proficient" yaml:"proficient"`
	Prof       int  `json:"prof" yaml:"prof"`
	Mod        int  `json:"mod" yaml:"mod"`
	Save       int  `json:"save" yaml:"save"`
	DC         int  `json:"dc" yaml:"dc"`
	Atk        int  `json:"atk" yaml:"atk"`
}

// Modifier returns floor((value-10)/2).
func Modifier(value int) int {
	d := value - 10
	if d < 0 {
		return (d - 1) / 2
	}
	return d / 2
}

// NewAbilityScore computes the derived fields for a single ability.
//
// Postcondition: the returned score satisfies the AbilityScore invariant.
func NewAbilityScore(value int, proficient bool, profBonus int) AbilityScore {
	mod := Modifier(value)
	s := AbilityScore{
		Value:      value,
		Proficient: proficient,
		Mod:        mod,
		Save:       mod,
		DC:         8 + profBonus + mod,
		Atk:        profBonus + mod,
	}
	if proficient {
		s.Prof = profBonus
		s.Save = mod + profBonus
	}
	return s
}

// ProficiencyBonus looks up the proficiency bonus for a challenge rating such
// as "1/4" or "17".
func ProficiencyBonus(cr string) (int, error) {
	pb, ok := crToProfBonus[strings.TrimSpace(cr)]
	if !ok {
		return 0, &MissingLookupError{Table: TableChallengeRating, Key: cr}
	}
	return pb, nil
}

// AbilityScores computes all six ability scores. Save proficiency is
// membership of the ability code in the statblock's saving-throw list.
func AbilityScores(sb *statblock.Statblock, profBonus int) map[Ability]AbilityScore {
	raw := map[Ability]statblock.Int{
		STR: sb.StrPoints,
		DEX: sb.DexPoints,
		CON: sb.ConPoints,
		INT: sb.IntPoints,
		WIS: sb.WisPoints,
		CHA: sb.ChaPoints,
	}
	proficient := make(map[Ability]bool, len(sb.SavingThrows))
	for _, st := range sb.SavingThrows {
		proficient[Ability(normalize(st.Name))] = true
	}

	scores := make(map[Ability]AbilityScore, len(Abilities))
	for _, a := range Abilities {
		scores[a] = NewAbilityScore(int(raw[a]), proficient[a], profBonus)
	}
	return scores
}

// HitPoints is the hit-point roll formula and its average.
type HitPoints struct {
	Formula string `json:"formula" yaml:"formula"`
	Average int    `json:"average" yaml:"average"`
}

// ComputeHitPoints derives hit points from the hit-dice count, the size
// category, and the CON modifier.
//
// Postcondition: Formula == "{n}{die} + {n*conMod}";
// Average == floor(dieAverage*n) + n*conMod.
func ComputeHitPoints(hitDice int, size string, conMod int) (HitPoints, error) {
	die, ok := sizeToHitDie[normalize(size)]
	if !ok {
		return HitPoints{}, &MissingLookupError{Table: TableSize, Key: size}
	}
	bonus := hitDice * conMod
	return HitPoints{
		Formula: fmt.Sprintf("%d%s + %d", hitDice, die.Symbol, bonus),
		Average: int(math.Floor(die.Average*float64(hitDice))) + bonus,
	}, nil
}

// SkillBonus is the governing ability of a skill and its proficiency
// multiplier (2 for expertise, otherwise 1).
type SkillBonus struct {
	Ability    string `json:"ability" yaml:"ability"`
	Multiplier int    `json:"value" yaml:"value"`
}

const expertiseNote = "(ex)"

// SkillBonuses maps each skill's abbreviation to its bonus entry.
func SkillBonuses(skills []statblock.Skill) (map[string]SkillBonus, error) {
	out := make(map[string]SkillBonus, len(skills))
	for _, s := range skills {
		abbr, err := SkillAbbreviation(s.Name)
		if err != nil {
			return nil, err
		}
		mult := 1
		if strings.TrimSpace(s.Note) == expertiseNote {
			mult = 2
		}
		out[abbr] = SkillBonus{Ability: s.Stat, Multiplier: mult}
	}
	return out, nil
}

// DamageProfile partitions damage types by immunity, resistance and vulnerability.
type DamageProfile struct {
	Immunities      []string `json:"di" yaml:"di"`
	Resistances     []string `json:"dr" yaml:"dr"`
	Vulnerabilities []string `json:"dv" yaml:"dv"`
}

// NewDamageProfile partitions entries by their single-letter type code.
// Entries with any other code are ignored.
func NewDamageProfile(types []statblock.DamageType) DamageProfile {
	p := DamageProfile{
		Immunities:      []string{},
		Resistances:     []string{},
		Vulnerabilities: []string{},
	}
	for _, dt := range types {
		switch dt.Type {
		case "i":
			p.Immunities = append(p.Immunities, dt.Name)
		case "r":
			p.Resistances = append(p.Resistances, dt.Name)
		case "v":
			p.Vulnerabilities = append(p.Vulnerabilities, dt.Name)
		}
	}
	return p
}

// LegendaryResources holds the legendary resistance and legendary action pool sizes.
type LegendaryResources struct {
	Resistances int `json:"legres" yaml:"legres"`
	Actions     int `json:"legact" yaml:"legact"`
}

var (
	legendaryResistancePattern = regexp.MustCompile(`(?i)Legendary Resistance \((\d+)/day\)`)
	legendaryActionsPattern    = regexp.MustCompile(`can take (\d+) legendary actions`)
)

// ComputeLegendaryResources scans every trait name for "Legendary Resistance
// (N/day)" and, for legendary creatures, the legendary description for "can
// take N legendary actions". Missing matches yield zero.
func ComputeLegendaryResources(traits []statblock.Entry, isLegendary bool, description string) LegendaryResources {
	var r LegendaryResources
	for _, t := range traits {
		if m := legendaryResistancePattern.FindStringSubmatch(t.Name); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				r.Resistances = n
				break
			}
		}
	}
	if isLegendary {
		if m := legendaryActionsPattern.FindStringSubmatch(description); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				r.Actions = n
			}
		}
	}
	return r
}

// Spellcasting summarises a "Spellcasting" trait. A zero Level or empty
// Ability means the corresponding phrase was not found.
type Spellcasting struct {
	Ability Ability `json:"ability,omitempty" yaml:"ability,omitempty"`
	Level   int     `json:"level,omitempty" yaml:"level,omitempty"`
}

// SpellcastingTrait is the trait name that drives SpellcastingSummary.
const SpellcastingTrait = "Spellcasting"

var (
	casterLevelPattern    = regexp.MustCompile(`([0-9]+)\w{1,2}-level spellcaster`)
	castingAbilityPattern = regexp.MustCompile(`spell ?casting ability is (\w+)`)
)

// SpellcastingSummary extracts caster level and casting ability from the
// Spellcasting trait.
//
// Postcondition: returns (nil, nil) when no such trait exists or neither phrase
// is present; returns a MissingLookupError when the named ability is unknown.
func SpellcastingSummary(traits []statblock.Entry) (*Spellcasting, error) {
	for _, t := range traits {
		if t.Name != SpellcastingTrait {
			continue
		}
		var sc Spellcasting
		if m := casterLevelPattern.FindStringSubmatch(t.Desc); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				sc.Level = n
			}
		}
		if m := castingAbilityPattern.FindStringSubmatch(t.Desc); m != nil {
			code, err := AbilityForFullName(m[1])
			if err != nil {
				return nil, err
			}
			sc.Ability = code
		}
		if sc == (Spellcasting{}) {
			return nil, nil
		}
		return &sc, nil
	}
	return nil, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
