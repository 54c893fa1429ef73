// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func scores(str, dex, con, intel, wis, cha int) AbilityScores {
	mk := func(s int) AbilityScore { return AbilityScore{Score: s} }
	return AbilityScores{STR: mk(str), DEX: mk(dex), CON: mk(con), INT: mk(intel), WIS: mk(wis), CHA: mk(cha)}
}

func TestAbilityScore_DerivesModifier(t *testing.T) {
	assert.Equal(t, 3, AbilityScore{Score: 16}.Mod())
	assert.Equal(t, -1, AbilityScore{Score: 8}.Mod())
	assert.Equal(t, 0, AbilityScore{Score: 10}.Mod())
	assert.Equal(t, 0, AbilityScore{Score: 11}.Mod())
}

func TestAbilityScore_ExplicitModifierWins(t *testing.T) {
	a := AbilityScore{Score: 16, Modifier: 10, hasMod: true}
	assert.Equal(t, 10, a.Mod())
}

func TestAbilityScore_UnmarshalScalar(t *testing.T) {
	var a AbilityScore
	err := a.UnmarshalJSON([]byte("16"))
	assert.NoError(t, err)
	assert.Equal(t, 3, a.Mod())
}

func TestAbilityScore_UnmarshalObject(t *testing.T) {
	var a AbilityScore
	err := a.UnmarshalJSON([]byte(`{"score":16,"modifier":5}`))
	assert.NoError(t, err)
	assert.Equal(t, 5, a.Mod())
}

func TestResolveWeapon_RangedUsesDex(t *testing.T) {
	rng := 80
	w := resolveWeapon(WeaponInput{Name: "Longbow", Damage: "1d8", Range: &rng}, scores(10, 16, 10, 10, 10, 10))
	assert.Equal(t, "DEX", w.AttackAbility)
	assert.True(t, w.IsRanged)
}

func TestResolveWeapon_FinesseUsesHigher(t *testing.T) {
	w := resolveWeapon(WeaponInput{Name: "Rapier", Damage: "1d8", Properties: []WeaponProperty{PropertyFinesse}},
		scores(10, 18, 10, 10, 10, 10))
	assert.Equal(t, "DEX", w.AttackAbility)

	w = resolveWeapon(WeaponInput{Name: "Rapier", Damage: "1d8", Properties: []WeaponProperty{PropertyFinesse}},
		scores(18, 10, 10, 10, 10, 10))
	assert.Equal(t, "STR", w.AttackAbility)
}

func TestResolveWeapon_MeleeUsesStr(t *testing.T) {
	w := resolveWeapon(WeaponInput{Name: "Greataxe", Damage: "1d12"}, scores(16, 10, 10, 10, 10, 10))
	assert.Equal(t, "STR", w.AttackAbility)
	assert.False(t, w.IsRanged)
}

func TestPickPrimary_PrefersMelee(t *testing.T) {
	ranged := ResolvedWeapon{Name: "Shortbow", IsRanged: true}
	melee := ResolvedWeapon{Name: "Shortsword", IsRanged: false}
	got := pickPrimary([]ResolvedWeapon{ranged, melee}, scores(10, 10, 10, 10, 10, 10))
	assert.Equal(t, "Shortsword", got.Name)
}

func TestPickPrimary_FallsBackToUnarmed(t *testing.T) {
	got := pickPrimary(nil, scores(14, 10, 10, 10, 10, 10))
	assert.Equal(t, "Unarmed Strike", got.Name)
	assert.Equal(t, "STR", got.AttackAbility)
}

func TestSpellcastingAbility_ClassTable(t *testing.T) {
	sheet := Sheet{Class: "Wizard", Abilities: scores(10, 10, 10, 18, 10, 10)}
	stats := ResolveCharacter(sheet)
	assert.Equal(t, 4+2, stats.SpellAttackBonus)
	assert.Equal(t, 8+4+2, stats.SpellSaveDC)
}

func TestSpellcastingAbility_ExplicitOverride(t *testing.T) {
	sheet := Sheet{Class: "Fighter", SpellcastingAbility: "cha", Abilities: scores(10, 10, 10, 10, 10, 16)}
	stats := ResolveCharacter(sheet)
	assert.Equal(t, 3+2, stats.SpellAttackBonus)
}

func TestSpellcastingAbility_NonCasterDefaults(t *testing.T) {
	sheet := Sheet{Class: "Fighter", Abilities: scores(10, 10, 10, 10, 10, 10)}
	stats := ResolveCharacter(sheet)
	assert.Equal(t, 2, stats.SpellAttackBonus, "non-casters still get 0 + prof")
}

func TestResolveCharacter_DefaultProficiencyBonus(t *testing.T) {
	stats := ResolveCharacter(Sheet{Abilities: scores(10, 10, 10, 10, 10, 10)})
	assert.Equal(t, 2, stats.ProficiencyBonus)
}

func TestResolveCharacter_SkillFallsBackToAbilityMod(t *testing.T) {
	sheet := Sheet{Abilities: scores(10, 16, 10, 10, 10, 10)}
	stats := ResolveCharacter(sheet)
	assert.Equal(t, 3, stats.StealthMod)

	sheet.Skills = map[string]int{"stealth": 7}
	stats = ResolveCharacter(sheet)
	assert.Equal(t, 7, stats.StealthMod)
}
