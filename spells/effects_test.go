// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package spells

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/combat-core/combatant"
	"github.com/KirkDiggler/combat-core/conditions"
	"github.com/KirkDiggler/combat-core/dice"
)

func TestShield_RaisesACAndRecordsOriginal(t *testing.T) {
	caster := combatant.Combatant{Name: "Wizard", AC: 12}
	res, err := Shield(Context{Caster: caster})
	require.NoError(t, err)
	assert.Equal(t, 17, res.Caster.AC)

	cond, ok := conditions.Get(res.Caster.Conditions, conditions.Shielded)
	require.True(t, ok)
	bonus, ok := cond.ACBonus()
	require.True(t, ok)
	assert.Equal(t, 5, bonus)
}

func TestShield_RevertsOnExpiry(t *testing.T) {
	caster := combatant.Combatant{Name: "Wizard", AC: 12}
	res, _ := Shield(Context{Caster: caster})
	afterCast := res.Caster

	remaining, adj := conditions.Tick(afterCast.Conditions, conditions.StartOfTurn)
	afterCast.AC += adj
	afterCast.Conditions = remaining

	assert.Equal(t, 12, afterCast.AC, "AC reverts exactly to its pre-cast value")
	assert.Empty(t, remaining, "no shielded condition remains")
}

func TestShieldOfFaith_MarksConcentrating(t *testing.T) {
	target := combatant.Combatant{Name: "Fighter", AC: 16}
	caster := combatant.Combatant{Name: "Cleric"}
	res, err := ShieldOfFaith(Context{Caster: caster, Targets: []combatant.Combatant{target}})
	require.NoError(t, err)
	assert.Equal(t, 18, res.Targets[0].AC)
	assert.Equal(t, "shield of faith", res.Caster.Concentrating)
}

func TestBless_CapsAtThreeTargets(t *testing.T) {
	targets := make([]combatant.Combatant, 5)
	for i := range targets {
		targets[i] = combatant.Combatant{Name: "pc"}
	}
	res, err := Bless(Context{Caster: combatant.Combatant{Name: "Cleric"}, Targets: targets})
	require.NoError(t, err)
	assert.Len(t, res.Targets, 3)
	for _, tg := range res.Targets {
		assert.True(t, conditions.Has(tg.Conditions, conditions.Blessed))
	}
}

func TestSleep_AffectsLowestHPFirstWithinBudget(t *testing.T) {
	// 5d8 all 1s -> budget 5
	r := &fixedRoller{value: 1}
	targets := []combatant.Combatant{
		{Name: "big", HP: combatant.HitPoints{Current: 10}},
		{Name: "small", HP: combatant.HitPoints{Current: 3}},
	}
	res, err := Sleep(Context{Targets: targets, Roller: r})
	require.NoError(t, err)
	require.Len(t, res.Targets, 1)
	assert.Equal(t, "small", res.Targets[0].Name)
}

func TestSpareTheDying_StabilizesAtZeroHP(t *testing.T) {
	target := combatant.Combatant{Name: "Rogue", HP: combatant.HitPoints{Current: 0}, DeathSaves: &combatant.DeathSaves{}}
	res, err := SpareTheDying(Context{Targets: []combatant.Combatant{target}})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Targets[0].DeathSaves.Successes)
}

func TestSpareTheDying_NoOpAboveZeroHP(t *testing.T) {
	target := combatant.Combatant{Name: "Rogue", HP: combatant.HitPoints{Current: 5}}
	res, err := SpareTheDying(Context{Targets: []combatant.Combatant{target}})
	require.NoError(t, err)
	assert.Nil(t, res.Targets[0].DeathSaves)
}

func TestDefaultRegistry_ContainsShippedSpells(t *testing.T) {
	r := Default()
	for _, name := range []string{"shield", "shield of faith", "bless", "guidance", "sleep", "spare the dying"} {
		_, ok := r.Get(name)
		assert.True(t, ok, name)
	}
	_, ok := r.Get("fireball")
	assert.False(t, ok)
}

type fixedRoller struct{ value int }

func (f *fixedRoller) Roll(sides int) (int, error) { return f.value, nil }
func (f *fixedRoller) RollN(count, sides int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		out[i] = f.value
	}
	return out, nil
}

var _ dice.Roller = (*fixedRoller)(nil)
