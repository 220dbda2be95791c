// Package shorthand expands the bracket macros embedded in statblock ability
// text ([MON], [STR], [DEX ATK+1], [STR 2D6+3], [CON SAVE], _italics_) using a
// creature's derived statistics.
//
// Token classes are resolved in a fixed order, each over the whole text:
// name, ability modifier, attack, damage, save, italics. A token whose inner
// groups cannot be resolved is left untouched.
package shorthand

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/tetracube/internal/derive"
)

// Stage is one pure text-to-text pass of the pipeline.
type Stage struct {
	Name  string
	Apply func(string) string
}

// Expander applies the shorthand pipeline for a single creature.
type Expander struct {
	name   string
	scores Scores
	logger *zap.Logger
}

// New builds an Expander for actor. A nil logger disables logging.
//
// Precondition: actor must be non-nil.
func New(actor *derive.Actor, logger *zap.Logger) *Expander {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Expander{
		name:   actor.DisplayName,
		scores: Scores(actor.Abilities),
		logger: logger,
	}
}

// Stages returns the ordered pipeline. When spellcasting is true the ">"
// separator pass runs after the bracket stages and before italics, so the
// tags italics introduces are never split.
func (e *Expander) Stages(spellcasting bool) []Stage {
	skip := func(token, reason string) {
		e.logger.Debug("shorthand token skipped",
			zap.String("token", token),
			zap.String("reason", reason),
		)
	}
	stages := []Stage{
		{Name: "name", Apply: func(s string) string { return ExpandName(s, e.name) }},
		{Name: "modifier", Apply: func(s string) string { return ExpandModifiers(s, e.scores) }},
		{Name: "attack", Apply: func(s string) string { return expandAttacks(s, e.scores, skip) }},
		{Name: "damage", Apply: func(s string) string { return expandDamage(s, e.scores, skip) }},
		{Name: "save", Apply: func(s string) string { return expandSaves(s, e.scores, skip) }},
	}
	if spellcasting {
		stages = append(stages, Stage{Name: "spell-levels", Apply: SpellLineBreaks})
	}
	return append(stages, Stage{Name: "italics", Apply: ConvertItalics})
}

// Expand runs the standard pipeline over text.
func (e *Expander) Expand(text string) string {
	return run(text, e.Stages(false))
}

// ExpandSpellcasting runs the pipeline with spell-level line breaks enabled.
func (e *Expander) ExpandSpellcasting(text string) string {
	return run(text, e.Stages(true))
}

func run(text string, stages []Stage) string {
	for _, st := range stages {
		text = st.Apply(text)
	}
	return text
}
