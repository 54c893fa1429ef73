// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package combatant

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/KirkDiggler/combat-core/conditions"
)

// NewID generates a fresh combatant identifier. Grounded on the pack's
// uuid-backed ID constructors (tools/spatial/ids.go). FromCharacter mints
// one only when the sheet carries no ID; FromMonster always mints one,
// since several copies of one template share the template's ID (kept as
// SourceID).
func NewID() string {
	return uuid.New().String()
}

// CharacterSheet is the minimal projection of a resolved character the
// factory needs; the stat resolver is responsible for turning a raw sheet
// into these fields (ability mods, vitals, resistances).
type CharacterSheet struct {
	ID              string
	Name            string
	Initiative      int
	DexMod          int
	WisMod          int
	ConMod          int
	AthleticsMod    int
	AcrobaticsMod   int
	HP              HitPoints
	AC              int
	Speed           int
	Resistances     map[string]bool
	Immunities      map[string]bool
	Vulnerabilities map[string]bool
	// Conditions carried over from a prior encounter (rare); nil for a fresh PC.
	Conditions []conditions.ActiveCondition
}

// FromCharacter builds a fresh Combatant for a PC: empty turn resources,
// zeroed death saves, and either an empty condition list or a deep copy of
// any conditions the sheet carried over.
func FromCharacter(sheet CharacterSheet, initiative int) Combatant {
	id := sheet.ID
	if id == "" {
		id = NewID()
	}
	var conds []conditions.ActiveCondition
	for _, cond := range sheet.Conditions {
		if cond.Metadata != nil {
			meta := make(map[string]any, len(cond.Metadata))
			for k, v := range cond.Metadata {
				meta[k] = v
			}
			cond.Metadata = meta
		}
		conds = append(conds, cond)
	}
	return Combatant{
		ID:              id,
		Name:            sheet.Name,
		Kind:            PC,
		SourceID:        sheet.ID,
		Initiative:      initiative,
		DexMod:          sheet.DexMod,
		WisMod:          sheet.WisMod,
		ConMod:          sheet.ConMod,
		AthleticsMod:    sheet.AthleticsMod,
		AcrobaticsMod:   sheet.AcrobaticsMod,
		HP:              sheet.HP,
		AC:              sheet.AC,
		Speed:           sheet.Speed,
		Resources:       TurnResources{MovementRemaining: sheet.Speed},
		Resistances:     sheet.Resistances,
		Immunities:      sheet.Immunities,
		Vulnerabilities: sheet.Vulnerabilities,
		DeathSaves:      &DeathSaves{},
		Conditions:      conds,
	}
}

// MonsterTemplate is the minimal projection of a resolved monster the
// factory needs.
type MonsterTemplate struct {
	ID              string
	Name            string
	DexMod          int
	WisMod          int
	ConMod          int
	AthleticsMod    int
	AcrobaticsMod   int
	HP              HitPoints
	AC              int
	Speed           int
	Resistances     map[string]bool
	Immunities      map[string]bool
	Vulnerabilities map[string]bool
	XP              int
}

// FromMonster builds a fresh Combatant for a monster instance. When
// copyIndex is non-nil, the combatant is named "{name} {copyIndex+1}" to
// disambiguate multiple copies of the same template in one encounter (e.g.
// three identical goblins become "Goblin 1", "Goblin 2", "Goblin 3").
func FromMonster(tmpl MonsterTemplate, initiative int, copyIndex *int) Combatant {
	name := tmpl.Name
	if copyIndex != nil {
		name = fmt.Sprintf("%s %d", tmpl.Name, *copyIndex+1)
	}
	xp := tmpl.XP
	return Combatant{
		ID:              NewID(),
		Name:            name,
		Kind:            Monster,
		SourceID:        tmpl.ID,
		Initiative:      initiative,
		DexMod:          tmpl.DexMod,
		WisMod:          tmpl.WisMod,
		ConMod:          tmpl.ConMod,
		AthleticsMod:    tmpl.AthleticsMod,
		AcrobaticsMod:   tmpl.AcrobaticsMod,
		HP:              tmpl.HP,
		AC:              tmpl.AC,
		Speed:           tmpl.Speed,
		Resources:       TurnResources{MovementRemaining: tmpl.Speed},
		Resistances:     tmpl.Resistances,
		Immunities:      tmpl.Immunities,
		Vulnerabilities: tmpl.Vulnerabilities,
		XP:              &xp,
	}
}
