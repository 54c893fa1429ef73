// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package encounter

import (
	"github.com/KirkDiggler/combat-core/combatant"
	"github.com/KirkDiggler/combat-core/conditions"
	"github.com/KirkDiggler/combat-core/initiative"
)

// tickAndAdvance implements the advance() half of §4.6: end-of-turn tick for
// the departing combatant, index advance (with round rollover handling),
// start-of-turn tick and resource reset for the arriving combatant, and the
// automatic death save for a PC arriving at 0 HP who isn't yet stable or
// dead.
func tickAndAdvance(e Encounter) Encounter {
	if departing, ok := e.Current(); ok {
		remaining, acAdj := conditions.Tick(departing.Conditions, conditions.EndOfTurn)
		departing.Conditions = remaining
		departing.AC += acAdj
		e.InitiativeOrder = replace(e.InitiativeOrder, departing.ID, departing)
	}

	result := initiative.AdvanceIndex(e.InitiativeOrder, e.CurrentTurnIndex)
	e.CurrentTurnIndex = result.Index

	if result.RoundRolled {
		e.Round++
		e.LairActionUsedThisRound = false
		updated := make([]combatant.Combatant, len(e.InitiativeOrder))
		for i, c := range e.InitiativeOrder {
			remaining, acAdj := conditions.TickRound(c.Conditions)
			c.Conditions = remaining
			c.AC += acAdj
			updated[i] = c
		}
		e.InitiativeOrder = updated
	}

	if arriving, ok := e.Current(); ok {
		remaining, acAdj := conditions.Tick(arriving.Conditions, conditions.StartOfTurn)
		arriving.Conditions = remaining
		arriving.AC += acAdj
		arriving.Resources = combatant.TurnResources{MovementRemaining: arriving.Speed}
		e.InitiativeOrder = replace(e.InitiativeOrder, arriving.ID, arriving)

		if arriving.Kind == combatant.PC && arriving.HP.Current == 0 && !arriving.IsStable() && !arriving.IsDead() {
			e, _, _ = resolveDeathSave(e, DeathSaveAction{ActorID: arriving.ID})
		}
	}

	return migrateDefeated(e)
}

// migrateDefeated moves every dead combatant (monster at 0 HP, PC at three
// death-save failures) out of InitiativeOrder and into Defeated, keeping
// CurrentTurnIndex pointed at the same live combatant it referenced before
// the migration (invariant 1).
func migrateDefeated(e Encounter) Encounter {
	currentID := ""
	if cur, ok := e.Current(); ok {
		currentID = cur.ID
	}

	alive := make([]combatant.Combatant, 0, len(e.InitiativeOrder))
	for _, c := range e.InitiativeOrder {
		if c.IsDead() {
			e.Defeated = append(e.Defeated, c)
		} else {
			alive = append(alive, c)
		}
	}
	e.InitiativeOrder = alive

	if currentID != "" {
		if idx := e.indexOf(currentID); idx >= 0 {
			e.CurrentTurnIndex = idx
			return e
		}
	}
	if e.CurrentTurnIndex >= len(e.InitiativeOrder) {
		e.CurrentTurnIndex = 0
	}
	return e
}
