// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package damage

import (
	"fmt"

	"github.com/KirkDiggler/combat-core/combatant"
	"github.com/KirkDiggler/combat-core/conditions"
)

// Apply applies a single damage Instance to c and returns the updated
// combatant alongside a Result describing what happened. See spec §4.2 for
// the ordering of steps; summarized:
//  1. clamp amount to >= 0
//  2. immune -> 0; else resisted -> amount/2 (floor); else vulnerable -> amount*2
//  3. absorb into temp HP first, overflow into current, floor at 0 (P8)
//  4. PCs: massive damage (final >= current+max) instant-kills
//  5. crossing from >0 to 0 without an instant kill starts death saves and
//     applies Unconscious (idempotently)
func Apply(c combatant.Combatant, inst Instance) (combatant.Combatant, Result) {
	c = c.Clone()

	original := inst.Amount
	if original < 0 {
		original = 0
	}

	final := original
	wasImmune, wasResisted, wasVulnerable := false, false, false
	switch {
	case c.Immunities[string(inst.Type)]:
		final = 0
		wasImmune = true
	case c.Resistances[string(inst.Type)]:
		final = original / 2
		wasResisted = true
	case c.Vulnerabilities[string(inst.Type)]:
		final = original * 2
		wasVulnerable = true
	}

	beforeCurrent := c.HP.Current
	beforeTotal := c.HP.Current + c.HP.Max

	remaining := final
	if c.HP.Temp > 0 {
		if remaining >= c.HP.Temp {
			remaining -= c.HP.Temp
			c.HP.Temp = 0
		} else {
			c.HP.Temp -= remaining
			remaining = 0
		}
	}
	c.HP.Current -= remaining
	if c.HP.Current < 0 {
		c.HP.Current = 0
	}

	instantKill := false
	if c.Kind == combatant.PC && final >= beforeTotal {
		instantKill = true
	}

	isDown := beforeCurrent > 0 && c.HP.Current == 0
	if isDown && !instantKill {
		if c.Kind == combatant.PC {
			c.DeathSaves = &combatant.DeathSaves{}
		}
		if !conditions.Has(c.Conditions, conditions.Unconscious) {
			c.Conditions = conditions.Add(c.Conditions, conditions.Unconscious, "damage", conditions.PermanentDuration(), nil)
		}
	}

	return c, Result{
		Original:      original,
		Final:         final,
		Type:          inst.Type,
		WasImmune:     wasImmune,
		WasResisted:   wasResisted,
		WasVulnerable: wasVulnerable,
		NewHP:         c.HP.Current,
		IsDown:        isDown,
		InstantKill:   instantKill,
		Description:   describe(inst, original, final, wasImmune, wasResisted, wasVulnerable),
	}
}

func describe(inst Instance, original, final int, immune, resisted, vulnerable bool) string {
	switch {
	case immune:
		return fmt.Sprintf("%d %s damage (immune, 0 taken)", original, inst.Type)
	case resisted:
		return fmt.Sprintf("%d %s damage (resisted, %d taken)", original, inst.Type, final)
	case vulnerable:
		return fmt.Sprintf("%d %s damage (vulnerable, %d taken)", original, inst.Type, final)
	default:
		return fmt.Sprintf("%d %s damage", final, inst.Type)
	}
}

// ApplyMultiple folds Apply over a sequence of damage instances, stopping
// early once an instant kill occurs (further instances would be moot).
func ApplyMultiple(c combatant.Combatant, instances []Instance) (combatant.Combatant, []Result) {
	results := make([]Result, 0, len(instances))
	for _, inst := range instances {
		var res Result
		c, res = Apply(c, inst)
		results = append(results, res)
		if res.InstantKill {
			break
		}
	}
	return c, results
}

// ApplyHealing restores amount HP, clamped at Max. Crossing from 0 to a
// positive value removes Unconscious and resets death saves.
func ApplyHealing(c combatant.Combatant, amount int, source string) (combatant.Combatant, HealResult) {
	c = c.Clone()
	if amount < 0 {
		amount = 0
	}

	wasUnconscious := c.HP.Current == 0
	before := c.HP.Current
	c.HP.Current += amount
	overhealing := 0
	if c.HP.Current > c.HP.Max {
		overhealing = c.HP.Current - c.HP.Max
		c.HP.Current = c.HP.Max
	}
	applied := c.HP.Current - before

	if before == 0 && c.HP.Current > 0 {
		c.Conditions, _ = conditions.Remove(c.Conditions, conditions.Unconscious, "")
		if c.DeathSaves != nil {
			c.DeathSaves = &combatant.DeathSaves{}
		}
	}

	return c, HealResult{
		AmountApplied:  applied,
		NewHP:          c.HP.Current,
		Overhealing:    overhealing,
		WasUnconscious: wasUnconscious,
	}
}

// ApplyTempHP sets temp HP to the max of its current value and amount; temp
// HP from a new source never stacks with what's already there.
func ApplyTempHP(c combatant.Combatant, amount int) combatant.Combatant {
	c = c.Clone()
	if amount > c.HP.Temp {
		c.HP.Temp = amount
	}
	return c
}

// CheckConcentration reports whether a concentration save is required (only
// when the combatant is concentrating on a spell) and at what DC:
// max(10, floor(damageTaken/2)).
func CheckConcentration(c combatant.Combatant, damageTaken int) ConcentrationCheck {
	if c.Concentrating == "" {
		return ConcentrationCheck{}
	}
	dc := damageTaken / 2
	if dc < 10 {
		dc = 10
	}
	return ConcentrationCheck{MustCheck: true, DC: dc}
}

// ApplyDamageWhileDying increments death-save failures (2 on a critical hit,
// clamped at 3) when a combatant at 0 HP takes further damage. No-op if the
// combatant is not at 0 HP.
func ApplyDamageWhileDying(c combatant.Combatant, inst Instance) combatant.Combatant {
	c = c.Clone()
	if c.HP.Current > 0 || c.DeathSaves == nil {
		return c
	}
	n := 1
	if inst.IsCritical {
		n = 2
	}
	c.DeathSaves.Failures += n
	if c.DeathSaves.Failures > 3 {
		c.DeathSaves.Failures = 3
	}
	return c
}
