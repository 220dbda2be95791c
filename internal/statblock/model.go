// Package statblock defines the raw creature statblock shape exported by the
// Tetra-Cube statblock generator (.monster files).
package statblock

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Int is an integer field that the generator writes either as a JSON number
// or as a numeric string. An empty string or null decodes to zero.
type Int int

// leadingInt is the integer prefix read from string fields, so "12",
// " 12abc" and "12.0" all decode to 12.
var leadingInt = regexp.MustCompile(`^\s*([+-]?\d+)`)

// maxExactFloat bounds JSON numbers to the range a float64 holds exactly.
const maxExactFloat = 1 << 53

// UnmarshalJSON accepts 12, 12.7, "12", "12.0", " 12 ft", "" and null.
// Fractions are truncated toward zero.
func (n *Int) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*n = 0
			return nil
		}
		m := leadingInt.FindStringSubmatch(s)
		if m == nil {
			return fmt.Errorf("expected integer, got %s", string(data))
		}
		v, err := strconv.Atoi(m[1])
		if err != nil {
			return fmt.Errorf("integer %s out of range", m[1])
		}
		*n = Int(v)
		return nil
	}

	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("expected integer, got %s", string(data))
	}
	if t := math.Trunc(f); t < -maxExactFloat || t > maxExactFloat {
		return fmt.Errorf("integer %s out of range", string(data))
	}
	*n = Int(math.Trunc(f))
	return nil
}

// Named is an entry that carries only a name (save proficiencies, conditions, languages).
type Named struct {
	Name string `json:"name"`
}

// Skill is one skill proficiency entry. Note is " (ex)" for expertise.
type Skill struct {
	Name string `json:"name"`
	Stat string `json:"stat"`
	Note string `json:"note"`
}

// DamageType is one damage-type entry; Type is "i", "r" or "v".
type DamageType struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Entry is one ability entry: a trait or an action-table row.
type Entry struct {
	Name string `json:"name"`
	Desc string `json:"desc"`
}

// Statblock is the raw input aggregate for one conversion. It is never mutated
// by the converter.
type Statblock struct {
	Name      string `json:"name"`
	ShortName string `json:"shortName"`

	StrPoints Int `json:"strPoints"`
	DexPoints Int `json:"dexPoints"`
	ConPoints Int `json:"conPoints"`
	IntPoints Int `json:"intPoints"`
	WisPoints Int `json:"wisPoints"`
	ChaPoints Int `json:"chaPoints"`

	Size    string `json:"size"`
	CR      string `json:"cr"`
	HitDice Int    `json:"hitDice"`

	Speed       Int  `json:"speed"`
	SwimSpeed   Int  `json:"swimSpeed"`
	FlySpeed    Int  `json:"flySpeed"`
	BurrowSpeed Int  `json:"burrowSpeed"`
	ClimbSpeed  Int  `json:"climbSpeed"`
	Hover       bool `json:"hover"`

	Darkvision  Int `json:"darkvision"`
	Blindsight  Int `json:"blindsight"`
	Tremorsense Int `json:"tremorsense"`
	Truesight   Int `json:"truesight"`

	ArmorName     string `json:"armorName"`
	NatArmorBonus Int    `json:"natArmorBonus"`

	SavingThrows []Named      `json:"sthrows"`
	Skills       []Skill      `json:"skills"`
	DamageTypes  []DamageType `json:"damagetypes"`
	Conditions   []Named      `json:"conditions"`
	Languages    []Named      `json:"languages"`

	Alignment string `json:"alignment"`
	Type      string `json:"type"`
	Tag       string `json:"tag"`

	IsLegendary            bool   `json:"isLegendary"`
	LegendariesDescription string `json:"legendariesDescription"`

	Abilities    []Entry `json:"abilities"`
	Actions      []Entry `json:"actions"`
	Reactions    []Entry `json:"reactions"`
	BonusActions []Entry `json:"bonusActions"`
	Legendaries  []Entry `json:"legendaries"`
}

// DisplayName returns ShortName when set, otherwise Name.
func (s *Statblock) DisplayName() string {
	if s.ShortName != "" {
		return s.ShortName
	}
	return s.Name
}
