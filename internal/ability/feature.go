// Package ability turns raw statblock ability entries into feature records:
// passive traits, and active features drawn from the four action tables.
package ability

import (
	"github.com/cory-johannsen/tetracube/internal/damage"
)

// Kind distinguishes passive traits from attack-bearing features.
type Kind string

const (
	KindTrait  Kind = "trait"
	KindWeapon Kind = "weapon"
)

// Activation is the implied activation type of an action table.
type Activation string

const (
	ActivationAction    Activation = "action"
	ActivationReaction  Activation = "reaction"
	ActivationBonus     Activation = "bonus"
	ActivationLegendary Activation = "legendary"
)

// AttackType codes, assigned by the first matching attack phrase.
const (
	MeleeWeapon  = "mwak"
	RangedWeapon = "rwak"
	RangedSpell  = "rsak"
	MeleeSpell   = "msak"
)

// Recharge records whether a feature recharges and on what minimum roll.
// Value is nil when Charged is false.
type Recharge struct {
	Charged bool `json:"charged" yaml:"charged"`
	Value   *int `json:"value" yaml:"value"`
}

// Feature is one parsed ability, ready to persist as an item on its creature.
type Feature struct {
	Name           string        `json:"name" yaml:"name"`
	Description    string        `json:"description" yaml:"description"`
	Kind           Kind          `json:"kind" yaml:"kind"`
	Activation     Activation    `json:"activation,omitempty" yaml:"activation,omitempty"`
	ActivationCost int           `json:"activationCost,omitempty" yaml:"activation_cost,omitempty"`
	Recharge       Recharge      `json:"recharge" yaml:"recharge"`
	ActionType     string        `json:"actionType,omitempty" yaml:"action_type,omitempty"`
	Ability        string        `json:"ability,omitempty" yaml:"ability,omitempty"`
	Proficient     bool          `json:"proficient" yaml:"proficient"`
	AttackBonus    string        `json:"attackBonus,omitempty" yaml:"attack_bonus,omitempty"`
	DamageParts    []damage.Part `json:"damageParts" yaml:"damage_parts"`
}

// IsAttack reports whether an attack phrase classified the feature.
func (f Feature) IsAttack() bool {
	return f.ActionType != ""
}
