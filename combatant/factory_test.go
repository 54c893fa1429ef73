// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package combatant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromCharacter_FreshResources(t *testing.T) {
	c := FromCharacter(CharacterSheet{
		ID: "pc-1", Name: "Aria", HP: HitPoints{Current: 30, Max: 30}, AC: 16, Speed: 30,
	}, 18)

	assert.Equal(t, PC, c.Kind)
	assert.Equal(t, 30, c.Resources.MovementRemaining)
	assert.False(t, c.Resources.ActionUsed)
	require.NotNil(t, c.DeathSaves)
	assert.Equal(t, 0, c.DeathSaves.Successes)
	assert.Empty(t, c.Conditions)
}

func TestFromMonster_DisambiguatesCopies(t *testing.T) {
	tmpl := MonsterTemplate{ID: "goblin", Name: "Goblin", HP: HitPoints{Current: 7, Max: 7}, AC: 15}
	zero, one := 0, 1
	g1 := FromMonster(tmpl, 12, &zero)
	g2 := FromMonster(tmpl, 10, &one)

	assert.Equal(t, "Goblin 1", g1.Name)
	assert.Equal(t, "Goblin 2", g2.Name)
	assert.NotEqual(t, g1.ID, g2.ID)
	assert.NotNil(t, g1.XP)
}

func TestFromMonster_NoDisambiguationWhenNil(t *testing.T) {
	tmpl := MonsterTemplate{ID: "dragon", Name: "Ancient Red Dragon"}
	g := FromMonster(tmpl, 5, nil)
	assert.Equal(t, "Ancient Red Dragon", g.Name)
}

func TestFromCharacter_CarriesAthleticsAndAcrobaticsMods(t *testing.T) {
	c := FromCharacter(CharacterSheet{
		ID: "pc-1", Name: "Aria", AthleticsMod: 4, AcrobaticsMod: 6,
	}, 18)
	assert.Equal(t, 4, c.AthleticsMod)
	assert.Equal(t, 6, c.AcrobaticsMod)
}

func TestFromMonster_CarriesAthleticsAndAcrobaticsMods(t *testing.T) {
	tmpl := MonsterTemplate{ID: "ogre", Name: "Ogre", AthleticsMod: 5, AcrobaticsMod: -1}
	g := FromMonster(tmpl, 5, nil)
	assert.Equal(t, 5, g.AthleticsMod)
	assert.Equal(t, -1, g.AcrobaticsMod)
}

func TestIsDead_DistinctPredicates(t *testing.T) {
	monster := Combatant{Kind: Monster, HP: HitPoints{Current: 0}}
	assert.True(t, monster.IsDeadMonster())
	assert.False(t, monster.IsDeadPC())
	assert.True(t, monster.IsDead())

	pc := Combatant{Kind: PC, HP: HitPoints{Current: 0}, DeathSaves: &DeathSaves{Failures: 2}}
	assert.False(t, pc.IsDeadPC())
	pc.DeathSaves.Failures = 3
	assert.True(t, pc.IsDeadPC())
	assert.False(t, pc.IsDeadMonster())
}

func TestIsStable(t *testing.T) {
	pc := Combatant{Kind: PC, DeathSaves: &DeathSaves{Successes: 3}}
	assert.True(t, pc.IsStable())
}

func TestClone_DoesNotAliasSlicesOrPointers(t *testing.T) {
	pos := Position{X: 1, Y: 2}
	c := Combatant{Position: &pos, DeathSaves: &DeathSaves{}, Resistances: map[string]bool{"fire": true}}
	clone := c.Clone()
	clone.Position.X = 99
	clone.DeathSaves.Successes = 1
	clone.Resistances["cold"] = true

	assert.Equal(t, 1, c.Position.X)
	assert.Equal(t, 0, c.DeathSaves.Successes)
	assert.False(t, c.Resistances["cold"])
}
