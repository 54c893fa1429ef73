// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package conditions

import "strings"

// Effect is one mechanical consequence exhaustion can carry at a given
// level; the caller (stat resolver / action resolver) interprets these.
type Effect string

const (
	EffectDisadvantageAbilityChecks Effect = "disadvantage_ability_checks"
	EffectSpeedHalved               Effect = "speed_halved"
	EffectDisadvantageAttacksSaves  Effect = "disadvantage_attacks_saves"
	EffectHPMaxHalved               Effect = "hp_max_halved"
	EffectSpeedZero                 Effect = "speed_zero"
	EffectDeath                     Effect = "death"
)

// exhaustionTable is cumulative: level 3 carries every effect from levels 1-3.
var exhaustionTable = map[int]Effect{
	1: EffectDisadvantageAbilityChecks,
	2: EffectSpeedHalved,
	3: EffectDisadvantageAttacksSaves,
	4: EffectHPMaxHalved,
	5: EffectSpeedZero,
	6: EffectDeath,
}

// ExhaustionEffects returns every effect active at the given exhaustion
// level (0..=6), cumulative: level 3 includes levels 1 and 2's effects too.
func ExhaustionEffects(level int) []Effect {
	if level < 0 {
		level = 0
	}
	if level > 6 {
		level = 6
	}
	effects := make([]Effect, 0, level)
	for l := 1; l <= level; l++ {
		effects = append(effects, exhaustionTable[l])
	}
	return effects
}

// incapacitatingKinds give is_incapacitated(conditions) its true result.
var incapacitatingKinds = map[Kind]bool{
	Incapacitated: true,
	Paralyzed:     true,
	Petrified:     true,
	Stunned:       true,
	Unconscious:   true,
}

// IsIncapacitated reports whether any condition in the set incapacitates
// the combatant (blocks actions and reactions).
func IsIncapacitated(conds []ActiveCondition) bool {
	for _, c := range conds {
		if incapacitatingKinds[c.Kind] {
			return true
		}
	}
	return false
}

func has(conds []ActiveCondition, kind Kind) bool {
	for _, c := range conds {
		if c.Kind == kind {
			return true
		}
	}
	return false
}

// AttacksAgainstHaveAdvantage reports whether attacks made against a
// combatant carrying conds, at the given distance in feet, have advantage.
// Dodging on the target overrides prone's melee-range advantage: a prone,
// dodging combatant still grants no advantage to melee attackers.
func AttacksAgainstHaveAdvantage(conds []ActiveCondition, distance int) bool {
	if has(conds, Dodging) {
		return false
	}
	for _, k := range []Kind{Blinded, Paralyzed, Restrained, Stunned, Unconscious} {
		if has(conds, k) {
			return true
		}
	}
	if has(conds, Prone) && distance <= 5 {
		return true
	}
	return false
}

// AttacksAgainstHaveDisadvantage reports whether attacks made against a
// combatant carrying conds, at the given distance in feet, have disadvantage.
func AttacksAgainstHaveDisadvantage(conds []ActiveCondition, distance int) bool {
	if has(conds, Invisible) {
		return true
	}
	if has(conds, Dodging) {
		return true
	}
	if has(conds, Prone) && distance > 5 {
		return true
	}
	return false
}

// ActionModifiers bundles the three outcomes a condition-aware roll resolver
// needs: whether advantage/disadvantage sources are present, and whether the
// roll auto-fails regardless of the die.
type ActionModifiers struct {
	Advantage    bool
	Disadvantage bool
	AutoFail     bool
}

func exhaustionLevel(conds []ActiveCondition) int {
	for _, c := range conds {
		if c.Kind == Exhaustion {
			return c.ExhaustionLevel
		}
	}
	return 0
}

// AttackerModifiers reports the advantage/disadvantage/auto-fail state for a
// combatant about to make an attack or ability check, driven by its own
// conditions (poisoned, frightened, prone, restrained, exhaustion >= 3 give
// disadvantage; invisible gives advantage; incapacitated auto-fails).
func AttackerModifiers(conds []ActiveCondition) ActionModifiers {
	mods := ActionModifiers{}
	if has(conds, Invisible) {
		mods.Advantage = true
	}
	for _, k := range []Kind{Poisoned, Frightened, Prone, Restrained} {
		if has(conds, k) {
			mods.Disadvantage = true
		}
	}
	if exhaustionLevel(conds) >= 3 {
		mods.Disadvantage = true
	}
	if IsIncapacitated(conds) {
		mods.AutoFail = true
	}
	return mods
}

// SaveModifiers reports the advantage/disadvantage/auto-fail state for a
// saving throw of the given ability, per the combatant's own conditions.
func SaveModifiers(conds []ActiveCondition, ability string) ActionModifiers {
	mods := ActionModifiers{}

	if has(conds, Restrained) && isDexSave(ability) {
		mods.Disadvantage = true
	}

	for _, k := range []Kind{Paralyzed, Stunned, Petrified, Unconscious} {
		if has(conds, k) && (isStrSave(ability) || isDexSave(ability)) {
			mods.AutoFail = true
		}
	}

	if exhaustionLevel(conds) >= 3 {
		mods.Disadvantage = true
	}

	return mods
}

func isDexSave(ability string) bool {
	return strings.EqualFold(ability, "dex") || strings.EqualFold(ability, "dexterity")
}

func isStrSave(ability string) bool {
	return strings.EqualFold(ability, "str") || strings.EqualFold(ability, "strength")
}
