package ability

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/tetracube/internal/damage"
	"github.com/cory-johannsen/tetracube/internal/derive"
	"github.com/cory-johannsen/tetracube/internal/shorthand"
	"github.com/cory-johannsen/tetracube/internal/statblock"
)

var (
	rechargePattern = regexp.MustCompile(` \(Recharge (\d+)(?:-(\d+))?\)`)
	costsPattern    = regexp.MustCompile(`(?i) \(Costs (\d+) Actions\)`)
	toHitPattern    = regexp.MustCompile(`\+(\d+) to hit`)
)

// attackPhrases are tested in this order; the first present phrase wins.
var attackPhrases = []struct {
	phrase string
	code   string
}{
	{"Melee Weapon Attack", MeleeWeapon},
	{"Ranged Weapon Attack", RangedWeapon},
	{"Ranged Spell Attack", RangedSpell},
	{"Melee Spell Attack", MeleeSpell},
}

var spellcastingTraits = map[string]bool{
	"Spellcasting":        true,
	"Innate Spellcasting": true,
}

// Parser classifies ability entries for one creature.
type Parser struct {
	expander *shorthand.Expander
	prof     int
	logger   *zap.Logger
}

// NewParser builds a Parser for actor. A nil logger disables logging.
//
// Precondition: actor must be non-nil.
func NewParser(actor *derive.Actor, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{
		expander: shorthand.New(actor, logger),
		prof:     actor.ProficiencyBonus,
		logger:   logger,
	}
}

// ParseTrait expands a passive trait. The spellcasting traits additionally
// turn their ">" spell-level separators into line breaks.
func (p *Parser) ParseTrait(name, description string) Feature {
	desc := p.expander.Expand
	if spellcastingTraits[name] {
		desc = p.expander.ExpandSpellcasting
	}
	return Feature{
		Name:        name,
		Description: desc(description),
		Kind:        KindTrait,
		DamageParts: []damage.Part{},
	}
}

// ParseActive classifies one entry of an action table.
//
// Postcondition: the returned name has any recharge suffix removed, and for
// legendary entries any "(Costs N Actions)" suffix; ActivationCost is at least 1.
func (p *Parser) ParseActive(name string, activation Activation, description string) Feature {
	f := Feature{
		Name:           name,
		Kind:           KindTrait,
		Activation:     activation,
		ActivationCost: 1,
	}

	if loc := rechargePattern.FindStringSubmatchIndex(name); loc != nil {
		start, err := strconv.Atoi(name[loc[2]:loc[3]])
		if err == nil {
			f.Recharge = Recharge{Charged: true, Value: &start}
			f.Name = name[:loc[0]]
		}
	}

	if activation == ActivationLegendary {
		if loc := costsPattern.FindStringSubmatchIndex(f.Name); loc != nil {
			if cost, err := strconv.Atoi(f.Name[loc[2]:loc[3]]); err == nil && cost > 0 {
				f.ActivationCost = cost
				f.Name = f.Name[:loc[0]]
			}
		}
	}

	f.Description = p.expander.Expand(description)

	for _, ap := range attackPhrases {
		if strings.Contains(f.Description, ap.phrase) {
			f.ActionType = ap.code
			break
		}
	}
	if f.IsAttack() {
		f.Kind = KindWeapon
		f.Ability = "none"
		f.Proficient = true
		f.AttackBonus = p.attackBonus(f.Name, f.Description)
	}

	f.DamageParts = damage.Extract(f.Description)
	return f
}

// attackBonus isolates the non-proficiency part of the displayed "+K to hit".
func (p *Parser) attackBonus(name, desc string) string {
	m := toHitPattern.FindStringSubmatch(desc)
	if m == nil {
		p.logger.Debug("attack without to-hit bonus", zap.String("feature", name))
		return ""
	}
	k, err := strconv.Atoi(m[1])
	if err != nil {
		p.logger.Debug("unparseable to-hit bonus",
			zap.String("feature", name),
			zap.String("bonus", m[1]),
		)
		return ""
	}
	return strconv.Itoa(k - p.prof)
}

// ParseAll parses every trait, then every entry of the action, reaction,
// bonus action and legendary tables, in that order.
//
// Precondition: sb and actor must be non-nil and actor derived from sb.
// Postcondition: one Feature per entry, in input order.
func ParseAll(sb *statblock.Statblock, actor *derive.Actor, logger *zap.Logger) []Feature {
	p := NewParser(actor, logger)
	tables := []struct {
		entries    []statblock.Entry
		activation Activation
	}{
		{sb.Actions, ActivationAction},
		{sb.Reactions, ActivationReaction},
		{sb.BonusActions, ActivationBonus},
		{sb.Legendaries, ActivationLegendary},
	}

	features := make([]Feature, 0, len(sb.Abilities)+len(sb.Actions)+len(sb.Reactions)+len(sb.BonusActions)+len(sb.Legendaries))
	for _, e := range sb.Abilities {
		features = append(features, p.ParseTrait(e.Name, e.Desc))
	}
	for _, t := range tables {
		for _, e := range t.entries {
			features = append(features, p.ParseActive(e.Name, t.activation, e.Desc))
		}
	}
	return features
}
