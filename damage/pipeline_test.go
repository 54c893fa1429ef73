// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package damage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/combat-core/combatant"
	"github.com/KirkDiggler/combat-core/conditions"
)

func pc(current, max int) combatant.Combatant {
	return combatant.Combatant{
		Kind:       combatant.PC,
		HP:         combatant.HitPoints{Current: current, Max: max},
		DeathSaves: &combatant.DeathSaves{},
	}
}

func TestApply_ResistanceHalves(t *testing.T) {
	c := pc(20, 20)
	c.Resistances = map[string]bool{"fire": true}
	c, res := Apply(c, Instance{Amount: 11, Type: Fire})
	assert.True(t, res.WasResisted)
	assert.Equal(t, 5, res.Final)
	assert.Equal(t, 15, c.HP.Current)
}

func TestApply_VulnerabilityDoubles(t *testing.T) {
	c := pc(20, 20)
	c.Vulnerabilities = map[string]bool{"cold": true}
	_, res := Apply(c, Instance{Amount: 6, Type: Cold})
	assert.True(t, res.WasVulnerable)
	assert.Equal(t, 12, res.Final)
}

func TestApply_ImmunityZeroesDamage(t *testing.T) {
	c := pc(20, 20)
	c.Immunities = map[string]bool{"poison": true}
	_, res := Apply(c, Instance{Amount: 100, Type: Poison})
	assert.True(t, res.WasImmune)
	assert.Equal(t, 0, res.Final)
}

func TestApply_TempHPAbsorbsFirst(t *testing.T) {
	c := pc(20, 20)
	c.HP.Temp = 5
	c, res := Apply(c, Instance{Amount: 8, Type: Slashing})
	assert.Equal(t, 0, c.HP.Temp)
	assert.Equal(t, 17, c.HP.Current, "5 absorbed by temp, 3 spills to current")
	assert.Equal(t, 3, res.Final)
}

func TestApply_InstantKillThreshold(t *testing.T) {
	notKilled, res := Apply(pc(10, 40), Instance{Amount: 49, Type: Slashing})
	assert.False(t, res.InstantKill)
	assert.Equal(t, 0, notKilled.HP.Current)

	_, res = Apply(pc(10, 40), Instance{Amount: 50, Type: Slashing})
	assert.True(t, res.InstantKill)
}

func TestApply_CrossingToZeroStartsDeathSaves(t *testing.T) {
	c := pc(5, 30)
	c, res := Apply(c, Instance{Amount: 10, Type: Slashing})
	assert.True(t, res.IsDown)
	assert.NotNil(t, c.DeathSaves)
	assert.Equal(t, 0, c.DeathSaves.Failures)
	assert.True(t, conditions.Has(c.Conditions, conditions.Unconscious))
}

func TestApply_UnconsciousIdempotent(t *testing.T) {
	c := pc(5, 30)
	c, _ = Apply(c, Instance{Amount: 10, Type: Slashing})
	// second hit while already at 0 and already unconscious should not duplicate the condition
	c = ApplyDamageWhileDying(c, Instance{Amount: 3, Type: Slashing})
	count := 0
	for _, cond := range c.Conditions {
		if cond.Kind == conditions.Unconscious {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestApplyMultiple_StopsAfterInstantKill(t *testing.T) {
	c := pc(10, 40)
	_, results := ApplyMultiple(c, []Instance{
		{Amount: 50, Type: Slashing},
		{Amount: 5, Type: Fire},
	})
	assert.Len(t, results, 1)
	assert.True(t, results[0].InstantKill)
}

func TestApplyHealing_ClampsAtMaxAndReportsOverhealing(t *testing.T) {
	c := pc(18, 20)
	c, res := ApplyHealing(c, 10, "cure wounds")
	assert.Equal(t, 20, c.HP.Current)
	assert.Equal(t, 8, res.Overhealing)
}

func TestApplyHealing_RemovesUnconsciousAndResetsDeathSaves(t *testing.T) {
	c := pc(0, 20)
	c.Conditions = conditions.Add(c.Conditions, conditions.Unconscious, "damage", conditions.PermanentDuration(), nil)
	c.DeathSaves.Failures = 2
	c, res := ApplyHealing(c, 5, "healing word")
	assert.True(t, res.WasUnconscious)
	assert.False(t, conditions.Has(c.Conditions, conditions.Unconscious))
	assert.Equal(t, 0, c.DeathSaves.Failures)
}

func TestApplyTempHP_NeverStacks(t *testing.T) {
	c := pc(10, 10)
	c = ApplyTempHP(c, 5)
	c = ApplyTempHP(c, 5)
	assert.Equal(t, 5, c.HP.Temp, "applying the same amount twice must equal applying once")
	c = ApplyTempHP(c, 3)
	assert.Equal(t, 5, c.HP.Temp, "a lower amount never reduces existing temp HP")
	c = ApplyTempHP(c, 8)
	assert.Equal(t, 8, c.HP.Temp)
}

func TestCheckConcentration_OnlyWhenConcentrating(t *testing.T) {
	c := pc(10, 10)
	check := CheckConcentration(c, 20)
	assert.False(t, check.MustCheck)

	c.Concentrating = "shield of faith"
	check = CheckConcentration(c, 20)
	assert.True(t, check.MustCheck)
	assert.Equal(t, 10, check.DC)

	check = CheckConcentration(c, 30)
	assert.Equal(t, 15, check.DC)
}

func TestApplyDamageWhileDying(t *testing.T) {
	c := pc(0, 30)
	c = ApplyDamageWhileDying(c, Instance{Amount: 5, Type: Slashing})
	assert.Equal(t, 1, c.DeathSaves.Failures)

	c = ApplyDamageWhileDying(c, Instance{Amount: 10, Type: Slashing, IsCritical: true})
	assert.Equal(t, 3, c.DeathSaves.Failures, "critical adds 2, clamped at 3")
}

func TestApplyDamageWhileDying_NoOpWhenAboveZero(t *testing.T) {
	c := pc(10, 30)
	c = ApplyDamageWhileDying(c, Instance{Amount: 5, Type: Slashing})
	assert.Equal(t, 0, c.DeathSaves.Failures)
}
