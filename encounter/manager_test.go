// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package encounter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/combat-core/combatant"
)

func TestCreateEncounter_DefaultsLightingAndRegistry(t *testing.T) {
	e := CreateEncounter("camp-1", "sess-1", 42, CreateOptions{})
	assert.Equal(t, Preparing, e.Status)
	assert.Equal(t, Bright, e.Lighting)
	assert.NotNil(t, e.Spells)
	assert.NotNil(t, e.Roller)
}

func TestAddPartyAndMonsters_ThenStartCombatSortsOrder(t *testing.T) {
	e := CreateEncounter("camp-1", "sess-1", 7, CreateOptions{})

	e, partyRolls, err := AddParty(e, []combatant.CharacterSheet{
		{ID: "pc-1", Name: "Aria", DexMod: 3, HP: combatant.HitPoints{Current: 20, Max: 20}, AC: 15, Speed: 30},
		{ID: "pc-2", Name: "Borin", DexMod: 1, HP: combatant.HitPoints{Current: 25, Max: 25}, AC: 17, Speed: 30},
	})
	require.NoError(t, err)
	assert.Len(t, partyRolls, 2)

	e, monsterRolls, err := AddMonsters(e, []combatant.MonsterTemplate{
		{ID: "goblin", Name: "Goblin", DexMod: 2, HP: combatant.HitPoints{Current: 7, Max: 7}, AC: 15, Speed: 30},
		{ID: "goblin", Name: "Goblin", DexMod: 2, HP: combatant.HitPoints{Current: 7, Max: 7}, AC: 15, Speed: 30},
	}, true)
	require.NoError(t, err)
	assert.Len(t, monsterRolls, 2)
	assert.Equal(t, monsterRolls[0], monsterRolls[1], "grouped identical monsters share one initiative roll")

	names := map[string]bool{}
	for _, c := range e.InitiativeOrder {
		names[c.Name] = true
	}
	assert.True(t, names["Goblin 1"] && names["Goblin 2"], "disambiguated when more than one copy of a template")

	e = StartCombat(e)
	assert.Equal(t, Active, e.Status)
	assert.Equal(t, 1, e.Round)
	assert.Equal(t, 0, e.CurrentTurnIndex)

	for i := 1; i < len(e.InitiativeOrder); i++ {
		a, b := e.InitiativeOrder[i-1], e.InitiativeOrder[i]
		if a.Initiative == b.Initiative {
			assert.GreaterOrEqual(t, a.DexMod, b.DexMod)
		} else {
			assert.Greater(t, a.Initiative, b.Initiative)
		}
	}
}

func TestSubmitAction_RejectsWrongActor(t *testing.T) {
	e := newTestEncounter(fighter("a", 15, 10), fighter("b", 15, 10))
	e.CurrentTurnIndex = 0

	_, _, err := SubmitAction(e, DashAction{ActorID: "b"})
	require.Error(t, err)
}

func TestSubmitAction_DeathSaveBypassesTurnCheck(t *testing.T) {
	pc := fighter("pc", 15, 30)
	pc.HP.Current = 0
	other := fighter("other", 15, 10)
	e := newTestEncounter(pc, other)
	e.CurrentTurnIndex = 1 // it's "other"'s turn
	e.Roller = &scriptedRoller{values: []int{15}}

	_, res, err := SubmitAction(e, DeathSaveAction{ActorID: "pc"})
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestShouldCombatEnd_PartyWinsWhenMonstersGone(t *testing.T) {
	e := newTestEncounter(fighter("pc-1", 15, 20), fighter("pc-2", 15, 20), goblin("g1", 15, 7), goblin("g2", 15, 7))

	e = UpdateCombatant(e, withZeroHP(mustFind(e, "g1")))
	e = UpdateCombatant(e, withZeroHP(mustFind(e, "g2")))

	result := ShouldCombatEnd(e)
	assert.True(t, result.ShouldEnd)
	assert.Len(t, result.Winners, 2)
	for _, w := range result.Winners {
		assert.Equal(t, combatant.PC, w.Kind)
	}
}

func TestShouldCombatEnd_NotOverWhileBothSidesStanding(t *testing.T) {
	e := newTestEncounter(fighter("pc-1", 15, 20), goblin("g1", 15, 7))
	result := ShouldCombatEnd(e)
	assert.False(t, result.ShouldEnd)
}

func TestCombatSummary_TracksMVPByDamageDealt(t *testing.T) {
	e := newTestEncounter(fighter("attacker", 15, 30), goblin("target", 15, 20))
	e.Status = Active
	e.Roller = &scriptedRoller{values: []int{18, 6}}

	e, _, err := resolveAttack(e, AttackAction{AttackerID: "attacker", TargetID: "target", AttackBonus: 5, DamageDice: "1d8+3"})
	require.NoError(t, err)

	summary := CombatSummary(e)
	require.NotNil(t, summary.MVP)
	assert.Equal(t, "attacker", *summary.MVP)
}

func mustFind(e Encounter, id string) combatant.Combatant {
	c, _ := e.Find(id)
	return c
}

func withZeroHP(c combatant.Combatant) combatant.Combatant {
	c.HP.Current = 0
	return c
}
