// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

// Package stats resolves a polymorphic character sheet (or monster block)
// into CombatStats: canonical weapons, skill modifiers, and spellcasting
// numbers the action resolver consumes. Ability scores decode from either a
// scalar or a {score,modifier} object without the caller normalizing first.
// Equipment is taken only in the structured-bag shape (EquipmentInput); a
// bare equipment array is not decoded by this package.
package stats

import "encoding/json"

// AbilityScore accepts either a bare integer score or a
// {"score": N, "modifier": M} object. When only a score is given, the
// modifier is derived; an explicit modifier always wins over the derived
// value (a sheet may carry a modifier distorted by magic items or feats that
// doesn't follow the standard formula).
type AbilityScore struct {
	Score    int
	Modifier int
	hasMod   bool
}

// Mod returns the ability modifier to use, preferring an explicit modifier.
func (a AbilityScore) Mod() int {
	if a.hasMod {
		return a.Modifier
	}
	return deriveModifier(a.Score)
}

func deriveModifier(score int) int {
	// floor((score-10)/2), careful with negative scores in Go's truncating /.
	diff := score - 10
	if diff >= 0 {
		return diff / 2
	}
	return -((-diff + 1) / 2)
}

// UnmarshalJSON accepts either a bare number or an object.
func (a *AbilityScore) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		a.Score = n
		a.hasMod = false
		return nil
	}

	var obj struct {
		Score    int  `json:"score"`
		Modifier *int `json:"modifier"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	a.Score = obj.Score
	if obj.Modifier != nil {
		a.Modifier = *obj.Modifier
		a.hasMod = true
	}
	return nil
}

// AbilityScores is the six-ability block every sheet carries.
type AbilityScores struct {
	STR AbilityScore `json:"STR"`
	DEX AbilityScore `json:"DEX"`
	CON AbilityScore `json:"CON"`
	INT AbilityScore `json:"INT"`
	WIS AbilityScore `json:"WIS"`
	CHA AbilityScore `json:"CHA"`
}

// HitPoints mirrors the sheet's optional hp block.
type HitPoints struct {
	Current int `json:"current"`
	Max     int `json:"max"`
	Temp    int `json:"temp"`
}

// SpellSlotInput is one entry of the sheet's spell_slots map.
type SpellSlotInput struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// SpellInput is one entry of the sheet's spells_known array.
type SpellInput struct {
	Name        string `json:"name"`
	Level       int    `json:"level"`
	School      string `json:"school"`
	CastingTime string `json:"casting_time"`
	Range       string `json:"range"`
	Damage      string `json:"damage"`
	DamageType  string `json:"damage_type"`
	Healing     string `json:"healing"`
	Attack      bool   `json:"attack"`
	SavingThrow string `json:"saving_throw"`
}

// WeaponProperty is one SRD weapon property relevant to attack resolution.
type WeaponProperty string

const (
	PropertyFinesse    WeaponProperty = "finesse"
	PropertyThrown     WeaponProperty = "thrown"
	PropertyAmmunition WeaponProperty = "ammunition"
	PropertyReach      WeaponProperty = "reach"
	PropertyTwoHanded  WeaponProperty = "two-handed"
	PropertyLight      WeaponProperty = "light"
)

// WeaponInput is one entry of the sheet's equipment weapons.
type WeaponInput struct {
	Name       string           `json:"name"`
	Damage     string           `json:"damage"`
	DamageType string           `json:"damage_type"`
	Properties []WeaponProperty `json:"properties"`
	// Range is non-nil for weapons with a listed range increment (bows,
	// thrown weapons); its presence alone marks the weapon ranged even
	// without an explicit ammunition/thrown property.
	Range *int `json:"range"`
	Melee bool `json:"melee"`
}

func (w WeaponInput) hasProperty(p WeaponProperty) bool {
	for _, have := range w.Properties {
		if have == p {
			return true
		}
	}
	return false
}

// isRanged reports whether the weapon is used with a ranged attack roll:
// it lists a range, or carries the ammunition/thrown property.
func (w WeaponInput) isRanged() bool {
	return w.Range != nil || w.hasProperty(PropertyAmmunition) || w.hasProperty(PropertyThrown)
}

// EquipmentInput is the structured equipment bag shape, the only equipment
// shape Sheet accepts; there is no decoding of the array shape (a bare
// []WeaponInput), so such a list has to be placed in Weapons before calling
// ResolveCharacter.
type EquipmentInput struct {
	Weapons   []WeaponInput  `json:"weapons"`
	Armor     *WeaponInput   `json:"armor"`
	Shield    *WeaponInput   `json:"shield"`
	Inventory []WeaponInput  `json:"inventory"`
	Currency  map[string]int `json:"currency"`
}

// Sheet is the normalized character-sheet input to ResolveCharacter.
// Required fields per the external-interfaces contract: Name, Race, Class,
// Level, Abilities. Everything else is optional and defaults sensibly.
type Sheet struct {
	Name      string
	Race      string
	Class     string
	Level     int
	Abilities AbilityScores

	ProficiencyBonus int // 0 means "use default (2)"

	HP        HitPoints
	AC        int
	Speed     int
	Skills    map[string]int
	Expertise []string

	SpellSlots map[int]SpellSlotInput
	Spells     []SpellInput

	Equipment EquipmentInput

	// SpellcastingAbility overrides the class table below when set
	// ("INT", "WIS", or "CHA").
	SpellcastingAbility string
}
