package derive

// Ability is a canonical lower-case ability code.
type Ability string

const (
	STR Ability = "str"
	DEX Ability = "dex"
	CON Ability = "con"
	INT Ability = "int"
	WIS Ability = "wis"
	CHA Ability = "cha"
)

// Abilities lists the six canonical abilities in statblock order.
var Abilities = []Ability{STR, DEX, CON, INT, WIS, CHA}

// HitDie is the die symbol and its average roll for a size category.
type HitDie struct {
	Symbol  string
	Average float64
}

// The tables below are read-only after package initialisation and are shared
// by every conversion.

var crToProfBonus = map[string]int{
	"0": 2, "1/8": 2, "1/4": 2, "1/2": 2,
	"1": 2, "2": 2, "3": 2, "4": 2,
	"5": 3, "6": 3, "7": 3, "8": 3,
	"9": 4, "10": 4, "11": 4, "12": 4,
	"13": 5, "14": 5, "15": 5, "16": 5,
	"17": 6, "18": 6, "19": 6, "20": 6,
	"21": 7, "22": 7, "23": 7, "24": 7,
	"25": 8, "26": 8, "27": 8, "28": 8,
	"29": 9, "30": 9,
}

var crFractionToNumeric = map[string]float64{
	"1/8": 0.125,
	"1/4": 0.25,
	"1/2": 0.5,
}

var armorNameToCalc = map[string]string{
	"mage armor": "mage",
}

var sizeToAbbr = map[string]string{
	"tiny":       "tiny",
	"small":      "small",
	"medium":     "med",
	"large":      "lg",
	"huge":       "huge",
	"gargantuan": "grg",
}

var sizeToHitDie = map[string]HitDie{
	"tiny":       {Symbol: "d4", Average: 2.5},
	"small":      {Symbol: "d6", Average: 3.5},
	"medium":     {Symbol: "d8", Average: 4.5},
	"large":      {Symbol: "d10", Average: 5.5},
	"huge":       {Symbol: "d12", Average: 6.5},
	"gargantuan": {Symbol: "d20", Average: 10.5},
}

var abilityFullNameToCode = map[string]Ability{
	"Strength":     STR,
	"Dexterity":    DEX,
	"Constitution": CON,
	"Intelligence": INT,
	"Wisdom":       WIS,
	"Charisma":     CHA,
}

// Keys are lower-case; lookups lower-case the skill name first.
var skillNameToAbbr = map[string]string{
	"acrobatics":      "acr",
	"animal handling": "ani",
	"arcana":          "arc",
	"athletics":       "ath",
	"deception":       "dec",
	"history":         "his",
	"insight":         "ins",
	"intimidation":    "itm",
	"investigation":   "inv",
	"medicine":        "med",
	"nature":          "nat",
	"perception":      "prc",
	"performance":     "prf",
	"persuasion":      "per",
	"religion":        "rel",
	"sleight of hand": "slt",
	"stealth":         "ste",
	"survival":        "sur",
}

// AbilityForFullName maps "Wisdom" to WIS.
func AbilityForFullName(name string) (Ability, error) {
	code, ok := abilityFullNameToCode[name]
	if !ok {
		return "", &MissingLookupError{Table: TableAbilityName, Key: name}
	}
	return code, nil
}

// SkillAbbreviation maps a skill name such as "Sleight of Hand" to "slt".
func SkillAbbreviation(name string) (string, error) {
	abbr, ok := skillNameToAbbr[normalize(name)]
	if !ok {
		return "", &MissingLookupError{Table: TableSkill, Key: name}
	}
	return abbr, nil
}
