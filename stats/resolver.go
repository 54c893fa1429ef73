// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package stats

import "strings"

// ResolvedWeapon is a weapon ready for the action resolver to roll against.
type ResolvedWeapon struct {
	Name          string
	Damage        string
	DamageType    string
	AttackAbility string // "STR" or "DEX"
	IsRanged      bool
	IsFinesse     bool
}

// ResolvedSpell is a spell ready for the action resolver / spell registry.
type ResolvedSpell struct {
	Name        string
	Level       int
	School      string
	CastingTime string
	Range       string
	Damage      string
	DamageType  string
	Healing     string
	IsAttack    bool
	SavingThrow string
}

// SpellSlot tracks current/max uses of one spell-slot level.
type SpellSlot struct {
	Current int
	Max     int
}

// CombatStats is the canonical output of the stat resolver: everything the
// action resolver and spell registry need, independent of the raw sheet
// shape that produced it.
type CombatStats struct {
	ProficiencyBonus int

	Weapons       []ResolvedWeapon
	PrimaryWeapon ResolvedWeapon

	StealthMod    int
	PerceptionMod int
	AthleticsMod  int
	AcrobaticsMod int

	SpellAttackBonus int
	SpellSaveDC      int
	Spells           []ResolvedSpell
	SpellSlots       map[int]SpellSlot
}

// spellcastingByClass is the fallback ability table used when a sheet
// doesn't name an explicit spellcasting ability.
var spellcastingByClass = map[string]string{
	"wizard":   "INT",
	"cleric":   "WIS",
	"druid":    "WIS",
	"ranger":   "WIS",
	"bard":     "CHA",
	"sorcerer": "CHA",
	"warlock":  "CHA",
	"paladin":  "CHA",
}

const defaultProficiencyBonus = 2

// unarmedStrike is the fallback attack when a character carries no weapons.
var unarmedStrike = WeaponInput{Name: "Unarmed Strike", Damage: "1", DamageType: "bludgeoning"}

// ResolveCharacter turns a raw Sheet into CombatStats.
func ResolveCharacter(sheet Sheet) CombatStats {
	prof := sheet.ProficiencyBonus
	if prof == 0 {
		prof = defaultProficiencyBonus
	}

	weapons := resolveWeapons(sheet, prof)
	primary := pickPrimary(weapons, sheet.Abilities)

	stats := CombatStats{
		ProficiencyBonus: prof,
		Weapons:          weapons,
		PrimaryWeapon:    primary,
		StealthMod:       skillMod(sheet, "stealth", sheet.Abilities.DEX.Mod()),
		PerceptionMod:    skillMod(sheet, "perception", sheet.Abilities.WIS.Mod()),
		AthleticsMod:     skillMod(sheet, "athletics", sheet.Abilities.STR.Mod()),
		AcrobaticsMod:    skillMod(sheet, "acrobatics", sheet.Abilities.DEX.Mod()),
	}

	spellMod, hasCasting := spellcastingModifier(sheet)
	if hasCasting {
		stats.SpellAttackBonus = spellMod + prof
		stats.SpellSaveDC = 8 + spellMod + prof
	} else {
		stats.SpellAttackBonus = prof
		stats.SpellSaveDC = 8 + prof
	}

	stats.Spells = resolveSpells(sheet.Spells)
	stats.SpellSlots = resolveSlots(sheet.SpellSlots)

	return stats
}

func skillMod(sheet Sheet, name string, abilityFallback int) int {
	if sheet.Skills != nil {
		if v, ok := sheet.Skills[name]; ok {
			return v
		}
	}
	return abilityFallback
}

func resolveWeapons(sheet Sheet, _ int) []ResolvedWeapon {
	inputs := sheet.Equipment.Weapons
	out := make([]ResolvedWeapon, 0, len(inputs))
	for _, w := range inputs {
		out = append(out, resolveWeapon(w, sheet.Abilities))
	}
	return out
}

func resolveWeapon(w WeaponInput, abilities AbilityScores) ResolvedWeapon {
	ability := "STR"
	switch {
	case w.isRanged():
		ability = "DEX"
	case w.hasProperty(PropertyFinesse):
		if abilities.DEX.Mod() > abilities.STR.Mod() {
			ability = "DEX"
		}
	}
	return ResolvedWeapon{
		Name:          w.Name,
		Damage:        w.Damage,
		DamageType:    w.DamageType,
		AttackAbility: ability,
		IsRanged:      w.isRanged(),
		IsFinesse:     w.hasProperty(PropertyFinesse),
	}
}

// pickPrimary chooses the attack the action resolver uses by default: the
// first melee weapon; failing that, the first weapon of any kind; failing
// that, an unarmed strike (1 bludgeoning + STR mod).
func pickPrimary(weapons []ResolvedWeapon, abilities AbilityScores) ResolvedWeapon {
	for _, w := range weapons {
		if !w.IsRanged {
			return w
		}
	}
	if len(weapons) > 0 {
		return weapons[0]
	}
	return resolveWeapon(unarmedStrike, abilities)
}

// spellcastingModifier returns the ability modifier governing spellcasting
// and whether the character casts spells at all. An explicit
// SpellcastingAbility on the sheet wins; otherwise the class table applies;
// classes absent from the table (and no override) don't cast.
func spellcastingModifier(sheet Sheet) (int, bool) {
	ability := strings.ToUpper(sheet.SpellcastingAbility)
	if ability == "" {
		ability = spellcastingByClass[strings.ToLower(sheet.Class)]
	}
	switch ability {
	case "INT":
		return sheet.Abilities.INT.Mod(), true
	case "WIS":
		return sheet.Abilities.WIS.Mod(), true
	case "CHA":
		return sheet.Abilities.CHA.Mod(), true
	default:
		return 0, false
	}
}

func resolveSpells(inputs []SpellInput) []ResolvedSpell {
	out := make([]ResolvedSpell, 0, len(inputs))
	for _, s := range inputs {
		out = append(out, ResolvedSpell{
			Name:        strings.ToLower(s.Name),
			Level:       s.Level,
			School:      s.School,
			CastingTime: s.CastingTime,
			Range:       s.Range,
			Damage:      s.Damage,
			DamageType:  s.DamageType,
			Healing:     s.Healing,
			IsAttack:    s.Attack,
			SavingThrow: s.SavingThrow,
		})
	}
	return out
}

func resolveSlots(inputs map[int]SpellSlotInput) map[int]SpellSlot {
	out := make(map[int]SpellSlot, len(inputs))
	for level, slot := range inputs {
		out[level] = SpellSlot{Current: slot.Current, Max: slot.Max}
	}
	return out
}
