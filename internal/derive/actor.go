// Package derive computes the game-mechanics attributes of a creature from its
// raw statblock: ability modifiers, saves, DCs, attack bonuses, hit points,
// skills, damage-type profile, legendary pools and spellcasting.
package derive

import (
	"strconv"
	"strings"

	"github.com/cory-johannsen/tetracube/internal/statblock"
)

// ArmorClass is the armor calculation mode and its flat value.
type ArmorClass struct {
	Calc string `json:"calc" yaml:"calc"`
	Flat int    `json:"flat" yaml:"flat"`
}

// Movement holds speeds in feet.
type Movement struct {
	Walk   int  `json:"walk" yaml:"walk"`
	Swim   int  `json:"swim" yaml:"swim"`
	Fly    int  `json:"fly" yaml:"fly"`
	Burrow int  `json:"burrow" yaml:"burrow"`
	Climb  int  `json:"climb" yaml:"climb"`
	Hover  bool `json:"hover" yaml:"hover"`
}

// Senses holds sense ranges in feet.
type Senses struct {
	Darkvision  int `json:"darkvision" yaml:"darkvision"`
	Blindsight  int `json:"blindsight" yaml:"blindsight"`
	Tremorsense int `json:"tremorsense" yaml:"tremorsense"`
	Truesight   int `json:"truesight" yaml:"truesight"`
}

// Details holds descriptive creature attributes.
type Details struct {
	CR        float64 `json:"cr" yaml:"cr"`
	Alignment string  `json:"alignment" yaml:"alignment"`
	Type      string  `json:"type" yaml:"type"`
	Subtype   string  `json:"subtype" yaml:"subtype"`
}

// Actor is the fully derived creature. It is built once by Derive and not
// modified afterwards.
type Actor struct {
	Name                string                   `json:"name" yaml:"name"`
	DisplayName         string                   `json:"display_name" yaml:"display_name"`
	Abilities           map[Ability]AbilityScore `json:"abilities" yaml:"abilities"`
	ProficiencyBonus    int                      `json:"prof" yaml:"prof"`
	ArmorClass          ArmorClass               `json:"ac" yaml:"ac"`
	HitPoints           HitPoints                `json:"hp" yaml:"hp"`
	Movement            Movement                 `json:"movement" yaml:"movement"`
	Senses              Senses                   `json:"senses" yaml:"senses"`
	Details             Details                  `json:"details" yaml:"details"`
	Size                string                   `json:"size" yaml:"size"`
	Languages           []string                 `json:"languages" yaml:"languages"`
	Damage              DamageProfile            `json:"damage" yaml:"damage"`
	ConditionImmunities []string                 `json:"ci" yaml:"ci"`
	Skills              map[string]SkillBonus    `json:"skills" yaml:"skills"`
	Legendary           LegendaryResources       `json:"resources" yaml:"resources"`
	Spellcasting        *Spellcasting            `json:"spellcasting,omitempty" yaml:"spellcasting,omitempty"`
}

// Ability returns the derived score for code. The second result is false for
// a code outside the canonical six.
func (a *Actor) Ability(code Ability) (AbilityScore, bool) {
	s, ok := a.Abilities[code]
	return s, ok
}

// Derive computes the Actor for sb.
//
// Precondition: sb must be non-nil.
// Postcondition: returns a complete Actor, or a *MissingLookupError and a nil
// Actor when any fixed-table lookup fails.
func Derive(sb *statblock.Statblock) (*Actor, error) {
	prof, err := ProficiencyBonus(sb.CR)
	if err != nil {
		return nil, err
	}
	scores := AbilityScores(sb, prof)

	hp, err := ComputeHitPoints(int(sb.HitDice), sb.Size, scores[CON].Mod)
	if err != nil {
		return nil, err
	}
	size := sizeToAbbr[normalize(sb.Size)]

	skills, err := SkillBonuses(sb.Skills)
	if err != nil {
		return nil, err
	}
	spell, err := SpellcastingSummary(sb.Abilities)
	if err != nil {
		return nil, err
	}

	return &Actor{
		Name:             sb.Name,
		DisplayName:      sb.DisplayName(),
		Abilities:        scores,
		ProficiencyBonus: prof,
		ArmorClass:       armorClass(sb, scores[DEX].Mod),
		HitPoints:        hp,
		Movement: Movement{
			Walk:   int(sb.Speed),
			Swim:   int(sb.SwimSpeed),
			Fly:    int(sb.FlySpeed),
			Burrow: int(sb.BurrowSpeed),
			Climb:  int(sb.ClimbSpeed),
			Hover:  sb.Hover,
		},
		Senses: Senses{
			Darkvision:  int(sb.Darkvision),
			Blindsight:  int(sb.Blindsight),
			Tremorsense: int(sb.Tremorsense),
			Truesight:   int(sb.Truesight),
		},
		Details: Details{
			CR:        NumericCR(sb.CR),
			Alignment: sb.Alignment,
			Type:      strings.ToLower(sb.Type),
			Subtype:   sb.Tag,
		},
		Size:                size,
		Languages:           languages(sb.Languages),
		Damage:              NewDamageProfile(sb.DamageTypes),
		ConditionImmunities: names(sb.Conditions),
		Skills:              skills,
		Legendary:           ComputeLegendaryResources(sb.Abilities, sb.IsLegendary, sb.LegendariesDescription),
		Spellcasting:        spell,
	}, nil
}

// NumericCR converts "1/8", "1/4" and "1/2" to their decimal values and any
// other rating to its integer value. Unparseable ratings yield 0.
func NumericCR(cr string) float64 {
	cr = strings.TrimSpace(cr)
	if v, ok := crFractionToNumeric[cr]; ok {
		return v
	}
	n, err := strconv.Atoi(cr)
	if err != nil {
		return 0
	}
	return float64(n)
}

func armorClass(sb *statblock.Statblock, dexMod int) ArmorClass {
	calc, ok := armorNameToCalc[normalize(sb.ArmorName)]
	if !ok {
		calc = "natural"
	}
	return ArmorClass{
		Calc: calc,
		Flat: 10 + dexMod + int(sb.NatArmorBonus),
	}
}

// languages keeps the first word of each language, lower-cased.
func languages(entries []statblock.Named) []string {
	out := make([]string, 0, len(entries))
	for _, l := range entries {
		fields := strings.Fields(l.Name)
		if len(fields) == 0 {
			continue
		}
		out = append(out, strings.ToLower(fields[0]))
	}
	return out
}

func names(entries []statblock.Named) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}
