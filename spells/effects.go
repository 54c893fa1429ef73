// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package spells

import (
	"fmt"
	"sort"

	"github.com/KirkDiggler/combat-core/combatant"
	"github.com/KirkDiggler/combat-core/conditions"
)

// Shield: caster AC += 5 until the start of the caster's next turn. The
// bonus is added to the caster's AC here; the Shielded condition's metadata
// carries ac_bonus and original_ac (see conditions.ActiveCondition.ACBonus)
// so Tick's expiry path reverts it (P9).
func Shield(ctx Context) (Result, error) {
	caster := ctx.Caster.Clone()
	originalAC := caster.AC
	caster.Conditions = conditions.Add(caster.Conditions, conditions.Shielded, "shield",
		conditions.TurnsDuration(1, conditions.StartOfTurn),
		map[string]any{"ac_bonus": 5, "original_ac": originalAC})
	caster.AC = originalAC + 5

	return Result{
		Caster:      caster,
		Description: fmt.Sprintf("%s casts Shield, AC rises to %d", caster.Name, caster.AC),
	}, nil
}

// ShieldOfFaith: the first target's AC += 2, for 10 minutes, while the
// caster concentrates.
func ShieldOfFaith(ctx Context) (Result, error) {
	if len(ctx.Targets) == 0 {
		return Result{}, fmt.Errorf("shield of faith requires a target")
	}
	target := ctx.Targets[0].Clone()
	originalAC := target.AC
	target.Conditions = conditions.Add(target.Conditions, conditions.ShieldOfFaith, "shield of faith",
		conditions.MinutesDuration(10),
		map[string]any{"ac_bonus": 2, "original_ac": originalAC})
	target.AC = originalAC + 2

	caster := ctx.Caster.Clone()
	caster.Concentrating = "shield of faith"

	return Result{
		Caster:      caster,
		Targets:     []combatant.Combatant{target},
		Description: fmt.Sprintf("%s casts Shield of Faith on %s, AC rises to %d", caster.Name, target.Name, target.AC),
	}, nil
}

// Bless: up to 3 targets gain Blessed for 1 minute; the caster concentrates.
func Bless(ctx Context) (Result, error) {
	targets := ctx.Targets
	if len(targets) > 3 {
		targets = targets[:3]
	}
	out := make([]combatant.Combatant, len(targets))
	for i, t := range targets {
		t = t.Clone()
		t.Conditions = conditions.Add(t.Conditions, conditions.Blessed, "bless", conditions.MinutesDuration(1), nil)
		out[i] = t
	}

	caster := ctx.Caster.Clone()
	caster.Concentrating = "bless"

	return Result{
		Caster:      caster,
		Targets:     out,
		Description: fmt.Sprintf("%s casts Bless on %d target(s)", caster.Name, len(out)),
	}, nil
}

// Guidance: the target gains Guided until the end of its current turn.
func Guidance(ctx Context) (Result, error) {
	if len(ctx.Targets) == 0 {
		return Result{}, fmt.Errorf("guidance requires a target")
	}
	target := ctx.Targets[0].Clone()
	target.Conditions = conditions.Add(target.Conditions, conditions.Guided, "guidance",
		conditions.TurnsDuration(1, conditions.EndOfTurn), nil)

	return Result{
		Targets:     []combatant.Combatant{target},
		Description: fmt.Sprintf("%s is touched by Guidance", target.Name),
	}, nil
}

// Sleep: roll a 5d8 HP budget, then put enemies to sleep in ascending
// current-HP order until the budget is exhausted.
func Sleep(ctx Context) (Result, error) {
	rolls, err := ctx.Roller.RollN(5, 8)
	if err != nil {
		return Result{}, err
	}
	budget := 0
	for _, r := range rolls {
		budget += r
	}

	candidates := append([]combatant.Combatant(nil), ctx.Targets...)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].HP.Current < candidates[j].HP.Current
	})

	affected := make([]combatant.Combatant, 0, len(candidates))
	for _, c := range candidates {
		if c.HP.Current > budget {
			continue
		}
		budget -= c.HP.Current
		c = c.Clone()
		c.Conditions = conditions.Add(c.Conditions, conditions.Unconscious, "sleep", conditions.MinutesDuration(1), nil)
		affected = append(affected, c)
	}

	return Result{
		Targets:     affected,
		Description: fmt.Sprintf("Sleep affects %d creature(s) (%d HP budget)", len(affected), budget),
	}, nil
}

// SpareTheDying: a target at 0 HP is stabilized (death_saves.successes=3);
// no-op for anyone not at 0 HP.
func SpareTheDying(ctx Context) (Result, error) {
	if len(ctx.Targets) == 0 {
		return Result{}, fmt.Errorf("spare the dying requires a target")
	}
	target := ctx.Targets[0].Clone()
	if target.HP.Current != 0 {
		return Result{Targets: []combatant.Combatant{target}, Description: fmt.Sprintf("%s is not dying", target.Name)}, nil
	}
	if target.DeathSaves == nil {
		target.DeathSaves = &combatant.DeathSaves{}
	}
	target.DeathSaves.Successes = 3

	return Result{
		Targets:     []combatant.Combatant{target},
		Description: fmt.Sprintf("%s is stabilized by Spare the Dying", target.Name),
	}, nil
}
