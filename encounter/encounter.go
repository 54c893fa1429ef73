// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

// Package encounter composes the dice, conditions, damage, combatant,
// initiative, and spells packages into the top-level Encounter aggregate and
// its two public surfaces: the action resolver (one function per declared
// action) and the encounter manager (lifecycle operations). The Encounter
// value is the single-writer aggregate described in the data model; every
// exported operation here takes one by value and returns a new one rather
// than mutating shared state.
package encounter

import (
	"time"

	"github.com/KirkDiggler/combat-core/combatant"
	"github.com/KirkDiggler/combat-core/dice"
	"github.com/KirkDiggler/combat-core/spells"
)

// Status is the encounter's lifecycle state.
type Status string

const (
	Preparing Status = "preparing"
	Active    Status = "active"
	Paused    Status = "paused"
	Ended     Status = "ended"
)

// Lighting is the ambient light level of the encounter's environment.
type Lighting string

const (
	Bright Lighting = "bright"
	Dim    Lighting = "dim"
	Dark   Lighting = "dark"
)

// Encounter is the central aggregate: one party-vs-adversaries combat from
// setup through resolution. Roller is the single seeded RNG instance the
// encounter and everything it calls into exclusively draws from (P10); it is
// shared by reference across every Clone so the sequence of draws stays
// continuous regardless of how many encounter values are produced along the
// way.
type Encounter struct {
	ID         string
	CampaignID string
	SessionID  string

	Status           Status
	Round            int
	CurrentTurnIndex int

	InitiativeOrder []combatant.Combatant
	Defeated        []combatant.Combatant
	Fled            []combatant.Combatant

	EnvironmentalEffects []string
	Lighting             Lighting

	LairActionUsedThisRound   bool
	LegendaryActionsRemaining map[string]int

	ActionLog []LogEntry

	StartedAt time.Time
	EndedAt   time.Time

	Roller dice.Roller
	Spells *spells.Registry
}

// Clone returns a copy of e safe for a caller to mutate independently,
// except for Roller: the RNG is exclusively owned by the encounter lineage
// and is intentionally shared by reference across every clone (see the
// Encounter type doc), not deep-copied.
func (e Encounter) Clone() Encounter {
	clone := e
	clone.InitiativeOrder = cloneCombatants(e.InitiativeOrder)
	clone.Defeated = cloneCombatants(e.Defeated)
	clone.Fled = cloneCombatants(e.Fled)
	clone.EnvironmentalEffects = append([]string(nil), e.EnvironmentalEffects...)
	clone.ActionLog = append([]LogEntry(nil), e.ActionLog...)
	if e.LegendaryActionsRemaining != nil {
		clone.LegendaryActionsRemaining = make(map[string]int, len(e.LegendaryActionsRemaining))
		for k, v := range e.LegendaryActionsRemaining {
			clone.LegendaryActionsRemaining[k] = v
		}
	}
	return clone
}

func cloneCombatants(in []combatant.Combatant) []combatant.Combatant {
	out := make([]combatant.Combatant, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}

// Find returns the combatant with the given id from the live initiative
// order, and whether it was found.
func (e Encounter) Find(id string) (combatant.Combatant, bool) {
	for _, c := range e.InitiativeOrder {
		if c.ID == id {
			return c, true
		}
	}
	return combatant.Combatant{}, false
}

// indexOf returns the position of id within InitiativeOrder, or -1.
func (e Encounter) indexOf(id string) int {
	for i, c := range e.InitiativeOrder {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// replace swaps the combatant at id's position for updated, returning the
// new slice; a no-op copy if id isn't present.
func replace(order []combatant.Combatant, id string, updated combatant.Combatant) []combatant.Combatant {
	out := make([]combatant.Combatant, len(order))
	copy(out, order)
	for i, c := range out {
		if c.ID == id {
			out[i] = updated
			break
		}
	}
	return out
}

// Current returns the combatant whose turn it currently is.
func (e Encounter) Current() (combatant.Combatant, bool) {
	if e.CurrentTurnIndex < 0 || e.CurrentTurnIndex >= len(e.InitiativeOrder) {
		return combatant.Combatant{}, false
	}
	return e.InitiativeOrder[e.CurrentTurnIndex], true
}

func appendLog(e Encounter, entry LogEntry) Encounter {
	entry.Round = e.Round
	entry.TurnOrder = e.CurrentTurnIndex
	e.ActionLog = append(e.ActionLog, entry)
	return e
}
