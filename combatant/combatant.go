// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

// Package combatant defines the Combatant aggregate: the immutable-identity,
// mutable-combat-state record the rest of the engine mutates turn by turn.
package combatant

import "github.com/KirkDiggler/combat-core/conditions"

// Kind distinguishes player characters from NPCs and monsters, since several
// rules (death saves, stabilization, defeat criteria) only apply to PCs.
type Kind string

const (
	PC      Kind = "pc"
	NPC     Kind = "npc"
	Monster Kind = "monster"
)

// HitPoints tracks current, maximum, and temporary hit points. Temp is an
// absorptive buffer that decays before current (P8).
type HitPoints struct {
	Current int
	Max     int
	Temp    int
}

// Position is an optional grid coordinate.
type Position struct {
	X, Y int
}

// TurnResources tracks what a combatant has spent this turn.
type TurnResources struct {
	ActionUsed            bool
	BonusActionUsed       bool
	ReactionUsed          bool
	MovementRemaining     int
	FreeObjectInteraction bool
}

// DeathSaves tracks a PC's death-saving-throw progress at 0 HP. Only ever
// present (non-nil) for PCs; monsters use the HP=0 predicate directly.
type DeathSaves struct {
	Successes int
	Failures  int
}

// Combatant is one participant in an encounter: identity fields that never
// change after creation, and combat-state fields mutated in place by the
// resolver across the life of the encounter.
type Combatant struct {
	ID       string
	Name     string
	Kind     Kind
	SourceID string

	Initiative int
	DexMod     int
	WisMod     int
	ConMod     int

	AthleticsMod  int
	AcrobaticsMod int

	HP    HitPoints
	AC    int
	Speed int

	Position      *Position
	Conditions    []conditions.ActiveCondition
	Concentrating string // spell name, empty if not concentrating

	DeathSaves *DeathSaves // non-nil only for PCs

	Resources TurnResources

	Resistances  map[string]bool
	Immunities   map[string]bool
	Vulnerabilities map[string]bool

	XP *int // present only for monsters
}

// Clone returns a deep-enough copy of c so the resolver can mutate the copy
// and hand the caller a fresh value without aliasing slices/maps with the
// original (the encounter manager owns the single canonical copy; every
// mutating operation replaces it with a new value rather than mutating
// shared state in place).
func (c Combatant) Clone() Combatant {
	clone := c
	if c.Position != nil {
		p := *c.Position
		clone.Position = &p
	}
	if c.DeathSaves != nil {
		ds := *c.DeathSaves
		clone.DeathSaves = &ds
	}
	if c.XP != nil {
		xp := *c.XP
		clone.XP = &xp
	}
	clone.Conditions = append([]conditions.ActiveCondition(nil), c.Conditions...)
	clone.Resistances = cloneSet(c.Resistances)
	clone.Immunities = cloneSet(c.Immunities)
	clone.Vulnerabilities = cloneSet(c.Vulnerabilities)
	return clone
}

func cloneSet(m map[string]bool) map[string]bool {
	if m == nil {
		return nil
	}
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// IsDeadMonster reports whether a monster combatant has fallen (HP 0).
// Do not use this for PCs: monster death and PC death are distinct
// predicates (see IsDeadPC) and must never be unified.
func (c Combatant) IsDeadMonster() bool {
	return c.Kind != PC && c.HP.Current <= 0
}

// IsDeadPC reports whether a PC has failed three death saves.
func (c Combatant) IsDeadPC() bool {
	return c.Kind == PC && c.DeathSaves != nil && c.DeathSaves.Failures >= 3
}

// IsDead reports whether the combatant should be moved to the encounter's
// defeated list, regardless of kind.
func (c Combatant) IsDead() bool {
	return c.IsDeadMonster() || c.IsDeadPC()
}

// IsStable reports whether a PC at 0 HP has stabilized (three death-save
// successes) and so remains in initiative, merely skipped while
// incapacitated, rather than being removed.
func (c Combatant) IsStable() bool {
	return c.Kind == PC && c.DeathSaves != nil && c.DeathSaves.Successes >= 3
}

// HasCondition reports whether the combatant currently carries kind.
func (c Combatant) HasCondition(kind conditions.Kind) bool {
	return conditions.Has(c.Conditions, kind)
}
