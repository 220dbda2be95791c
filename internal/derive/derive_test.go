package derive_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/tetracube/internal/derive"
	"github.com/cory-johannsen/tetracube/internal/statblock"
	"github.com/cory-johannsen/tetracube/internal/testutil"
)

func fixture(t *testing.T) *statblock.Statblock {
	t.Helper()
	sb, err := statblock.Parse(testutil.Statblock(t, testutil.YoungGreenDragon))
	require.NoError(t, err)
	return sb
}

func TestModifier_Known(t *testing.T) {
	cases := map[int]int{1: -5, 7: -2, 8: -1, 9: -1, 10: 0, 11: 0, 14: 2, 19: 4, 30: 10}
	for v, want := range cases {
		assert.Equal(t, want, derive.Modifier(v), "value %d", v)
	}
}

func TestModifier_FloorProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		v := rapid.IntRange(-30, 60).Draw(rt, "value")
		m := derive.Modifier(v)
		assert.LessOrEqual(rt, 2*m, v-10)
		assert.Greater(rt, 2*(m+1), v-10)
	})
}

func TestNewAbilityScore_Invariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		v := rapid.IntRange(1, 30).Draw(rt, "value")
		prof := rapid.IntRange(2, 9).Draw(rt, "prof")
		proficient := rapid.Bool().Draw(rt, "proficient")

		s := derive.NewAbilityScore(v, proficient, prof)
		assert.Equal(rt, derive.Modifier(v), s.Mod)
		assert.Equal(rt, prof+s.Mod, s.Atk)
		assert.Equal(rt, 8+prof+s.Mod, s.DC)
		if proficient {
			assert.Equal(rt, s.Mod+prof, s.Save)
			assert.Equal(rt, prof, s.Prof)
		} else {
			assert.Equal(rt, s.Mod, s.Save)
			assert.Zero(rt, s.Prof)
		}
	})
}

func TestProficiencyBonus(t *testing.T) {
	cases := map[string]int{"0": 2, "1/8": 2, "1/4": 2, "1/2": 2, "4": 2, "5": 3, "12": 4, "17": 6, "30": 9}
	for cr, want := range cases {
		got, err := derive.ProficiencyBonus(cr)
		require.NoError(t, err, cr)
		assert.Equal(t, want, got, cr)
	}

	_, err := derive.ProficiencyBonus("31")
	var mle *derive.MissingLookupError
	require.True(t, errors.As(err, &mle))
	assert.Equal(t, derive.TableChallengeRating, mle.Table)
	assert.Equal(t, "31", mle.Key)
	assert.ErrorIs(t, err, derive.ErrMissingLookup)
	assert.Equal(t, `unknown challenge rating "31"`, err.Error())
}

func TestComputeHitPoints(t *testing.T) {
	hp, err := derive.ComputeHitPoints(8, "large", 3)
	require.NoError(t, err)
	assert.Equal(t, "8d10 + 24", hp.Formula)
	assert.Equal(t, 68, hp.Average)

	hp, err = derive.ComputeHitPoints(3, "Medium", -1)
	require.NoError(t, err)
	assert.Equal(t, "3d8 + -3", hp.Formula)
	assert.Equal(t, 10, hp.Average)

	hp, err = derive.ComputeHitPoints(5, "tiny", 0)
	require.NoError(t, err)
	assert.Equal(t, 12, hp.Average, "floor(2.5*5)")

	_, err = derive.ComputeHitPoints(1, "colossal", 0)
	assert.ErrorIs(t, err, derive.ErrMissingLookup)
}

func TestSkillBonuses(t *testing.T) {
	skills, err := derive.SkillBonuses([]statblock.Skill{
		{Name: "Perception", Stat: "wis", Note: " (ex)"},
		{Name: "Sleight of Hand", Stat: "dex"},
		{Name: "animal handling", Stat: "wis", Note: ""},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]derive.SkillBonus{
		"prc": {Ability: "wis", Multiplier: 2},
		"slt": {Ability: "dex", Multiplier: 1},
		"ani": {Ability: "wis", Multiplier: 1},
	}, skills)

	_, err = derive.SkillBonuses([]statblock.Skill{{Name: "Juggling"}})
	var mle *derive.MissingLookupError
	require.True(t, errors.As(err, &mle))
	assert.Equal(t, derive.TableSkill, mle.Table)
}

func TestNewDamageProfile(t *testing.T) {
	p := derive.NewDamageProfile([]statblock.DamageType{
		{Name: "poison", Type: "i"},
		{Name: "fire", Type: "r"},
		{Name: "cold", Type: "r"},
		{Name: "radiant", Type: "v"},
		{Name: "psychic", Type: "x"},
	})
	assert.Equal(t, []string{"poison"}, p.Immunities)
	assert.Equal(t, []string{"fire", "cold"}, p.Resistances)
	assert.Equal(t, []string{"radiant"}, p.Vulnerabilities)

	empty := derive.NewDamageProfile(nil)
	assert.NotNil(t, empty.Immunities)
	assert.Empty(t, empty.Immunities)
}

func TestComputeLegendaryResources_AnyPosition(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 6).Draw(rt, "traits")
		pos := rapid.IntRange(0, n).Draw(rt, "position")
		traits := make([]statblock.Entry, 0, n+1)
		for i := 0; i < n; i++ {
			traits = append(traits, statblock.Entry{Name: "Keen Senses"})
		}
		traits = append(traits[:pos], append([]statblock.Entry{{Name: "Legendary Resistance (3/day)"}}, traits[pos:]...)...)

		r := derive.ComputeLegendaryResources(traits, false, "")
		assert.Equal(rt, 3, r.Resistances)
		assert.Zero(rt, r.Actions)
	})
}

func TestComputeLegendaryResources(t *testing.T) {
	r := derive.ComputeLegendaryResources(
		[]statblock.Entry{{Name: "legendary resistance (2/Day)"}},
		true,
		"The lich can take 3 legendary actions, choosing from the options below.",
	)
	assert.Equal(t, derive.LegendaryResources{Resistances: 2, Actions: 3}, r)

	notLegendary := derive.ComputeLegendaryResources(nil, false, "can take 3 legendary actions")
	assert.Zero(t, notLegendary.Actions)

	none := derive.ComputeLegendaryResources([]statblock.Entry{{Name: "Amphibious"}}, true, "")
	assert.Equal(t, derive.LegendaryResources{}, none)
}

func TestSpellcastingSummary(t *testing.T) {
	sc, err := derive.SpellcastingSummary([]statblock.Entry{
		{Name: "Amphibious"},
		{Name: "Spellcasting", Desc: "The mage is a 9th-level spellcaster. Its spellcasting ability is Intelligence (spell save DC 14)."},
	})
	require.NoError(t, err)
	require.NotNil(t, sc)
	assert.Equal(t, derive.Spellcasting{Ability: derive.INT, Level: 9}, *sc)

	sc, err = derive.SpellcastingSummary([]statblock.Entry{
		{Name: "Spellcasting", Desc: "The priest is a 1st-level spellcaster. Its spell casting ability is Wisdom."},
	})
	require.NoError(t, err)
	assert.Equal(t, derive.Spellcasting{Ability: derive.WIS, Level: 1}, *sc)

	sc, err = derive.SpellcastingSummary([]statblock.Entry{{Name: "Spellcasting", Desc: "It casts spells."}})
	require.NoError(t, err)
	assert.Nil(t, sc)

	sc, err = derive.SpellcastingSummary([]statblock.Entry{{Name: "Innate Spellcasting", Desc: "a 3rd-level spellcaster"}})
	require.NoError(t, err)
	assert.Nil(t, sc, "only the Spellcasting trait is summarised")

	_, err = derive.SpellcastingSummary([]statblock.Entry{{Name: "Spellcasting", Desc: "Its spellcasting ability is Luck."}})
	var mle *derive.MissingLookupError
	require.True(t, errors.As(err, &mle))
	assert.Equal(t, derive.TableAbilityName, mle.Table)
	assert.Equal(t, "Luck", mle.Key)
}

func TestNumericCR(t *testing.T) {
	cases := map[string]float64{"1/8": 0.125, "1/4": 0.25, "1/2": 0.5, "0": 0, "8": 8, "21": 21, "": 0, "x": 0}
	for cr, want := range cases {
		assert.Equal(t, want, derive.NumericCR(cr), cr)
	}
}

func TestDerive_Fixture(t *testing.T) {
	a, err := derive.Derive(fixture(t))
	require.NoError(t, err)

	assert.Equal(t, "Young Green Dragon", a.Name)
	assert.Equal(t, "dragon", a.DisplayName)
	assert.Equal(t, 3, a.ProficiencyBonus)

	str, ok := a.Ability(derive.STR)
	require.True(t, ok)
	assert.Equal(t, derive.AbilityScore{Value: 19, Mod: 4, Save: 4, DC: 15, Atk: 7}, str)
	dex, _ := a.Ability(derive.DEX)
	assert.Equal(t, derive.AbilityScore{Value: 12, Proficient: true, Prof: 3, Mod: 1, Save: 4, DC: 12, Atk: 4}, dex)
	_, ok = a.Ability(derive.Ability("luck"))
	assert.False(t, ok)

	assert.Equal(t, derive.ArmorClass{Calc: "natural", Flat: 18}, a.ArmorClass)
	assert.Equal(t, derive.HitPoints{Formula: "16d10 + 48", Average: 136}, a.HitPoints)
	assert.Equal(t, derive.Movement{Walk: 40, Fly: 80, Swim: 40}, a.Movement)
	assert.Equal(t, derive.Senses{Darkvision: 120, Blindsight: 30}, a.Senses)
	assert.Equal(t, derive.Details{CR: 8, Alignment: "lawful evil", Type: "dragon"}, a.Details)
	assert.Equal(t, "lg", a.Size)
	assert.Equal(t, []string{"common", "draconic"}, a.Languages)
	assert.Equal(t, []string{"poison"}, a.Damage.Immunities)
	assert.Equal(t, []string{"poisoned"}, a.ConditionImmunities)
	assert.Equal(t, derive.SkillBonus{Ability: "wis", Multiplier: 2}, a.Skills["prc"])
	assert.Len(t, a.Skills, 3)
	assert.Equal(t, derive.LegendaryResources{Resistances: 1, Actions: 3}, a.Legendary)
	require.NotNil(t, a.Spellcasting)
	assert.Equal(t, derive.Spellcasting{Ability: derive.INT, Level: 5}, *a.Spellcasting)
}

func TestDerive_MageArmor(t *testing.T) {
	sb := fixture(t)
	sb.ArmorName = "Mage Armor"
	sb.NatArmorBonus = 0
	a, err := derive.Derive(sb)
	require.NoError(t, err)
	assert.Equal(t, derive.ArmorClass{Calc: "mage", Flat: 11}, a.ArmorClass)
}

func TestDerive_MissingLookupAborts(t *testing.T) {
	cases := map[string]func(*statblock.Statblock){
		derive.TableChallengeRating: func(sb *statblock.Statblock) { sb.CR = "99" },
		derive.TableSize:            func(sb *statblock.Statblock) { sb.Size = "colossal" },
		derive.TableSkill:           func(sb *statblock.Statblock) { sb.Skills = []statblock.Skill{{Name: "Juggling"}} },
	}
	for table, mutate := range cases {
		t.Run(table, func(t *testing.T) {
			sb := fixture(t)
			mutate(sb)
			a, err := derive.Derive(sb)
			assert.Nil(t, a)
			var mle *derive.MissingLookupError
			require.True(t, errors.As(err, &mle))
			assert.Equal(t, table, mle.Table)
		})
	}
}
