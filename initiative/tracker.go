// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

// Package initiative provides the ordering primitives for the encounter's
// initiative_order: sort, insert, remove, and index advancement. It knows
// nothing about conditions, damage, or logging — those are composed by the
// encounter manager around the mechanical index movement this package
// provides (see spec.md §4.6 and §4.9 for the composition).
package initiative

import "github.com/KirkDiggler/combat-core/combatant"

// Roll is the outcome of rolling initiative for one combatant.
type Roll struct {
	D20Roll  int
	Modifier int
	Total    int
}

// RollInitiative rolls a d20 (optionally with advantage/disadvantage,
// resolved by the caller via dice.RollD20Adv) and adds the combatant's DEX
// modifier. Callers pass the already-resolved die value; this function only
// combines it with the modifier, keeping this package dice-library-free.
func RollInitiative(d20 int, dexMod int) Roll {
	return Roll{D20Roll: d20, Modifier: dexMod, Total: d20 + dexMod}
}

// less reports whether a sorts strictly before b: initiative descending,
// ties broken by dex mod descending.
func less(a, b combatant.Combatant) bool {
	if a.Initiative != b.Initiative {
		return a.Initiative > b.Initiative
	}
	return a.DexMod > b.DexMod
}

// Sort stably orders combatants by (initiative desc, dex mod desc),
// satisfying invariant 2 / property P3.
func Sort(order []combatant.Combatant) []combatant.Combatant {
	out := append([]combatant.Combatant(nil), order...)
	// Insertion sort: stable, and the slice is always small (party + a
	// handful of monsters), so this is both simple and fast enough.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && less(out[j], out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// Insert places newCombatant into order at the first position whose
// (initiative, dexMod) is strictly less than newCombatant's, preserving
// sort order; it is appended at the end if nothing qualifies.
func Insert(order []combatant.Combatant, newCombatant combatant.Combatant) []combatant.Combatant {
	out := make([]combatant.Combatant, 0, len(order)+1)
	inserted := false
	for _, c := range order {
		if !inserted && less(newCombatant, c) {
			out = append(out, newCombatant)
			inserted = true
		}
		out = append(out, c)
	}
	if !inserted {
		out = append(out, newCombatant)
	}
	return out
}

// Remove deletes the combatant with the given id from order, reporting
// whether it was found.
func Remove(order []combatant.Combatant, id string) ([]combatant.Combatant, bool) {
	for i, c := range order {
		if c.ID == id {
			out := make([]combatant.Combatant, 0, len(order)-1)
			out = append(out, order[:i]...)
			out = append(out, order[i+1:]...)
			return out, true
		}
	}
	return order, false
}

// Current returns the combatant at index, or false if index is out of
// range or order is empty.
func Current(order []combatant.Combatant, index int) (combatant.Combatant, bool) {
	if index < 0 || index >= len(order) {
		return combatant.Combatant{}, false
	}
	return order[index], true
}

// IsDead reports whether a combatant should be skipped when advancing the
// turn pointer: dead monsters, and PCs who failed three death saves. A
// stable PC (3 death-save successes) is NOT dead and remains eligible —
// they're merely incapacitated, so the caller auto-skips their action
// resolution but the turn pointer still visits them.
func IsDead(c combatant.Combatant) bool {
	return c.IsDead()
}

// AdvanceResult reports where the turn pointer landed and whether a round
// rolled over.
type AdvanceResult struct {
	Index       int
	RoundRolled bool
}

// AdvanceIndex moves the turn pointer from current to the next non-dead
// combatant in order, wrapping to index 0 (and reporting a round rollover)
// when it passes the end. If every combatant is dead, Index is returned
// unchanged and RoundRolled is false.
func AdvanceIndex(order []combatant.Combatant, current int) AdvanceResult {
	n := len(order)
	if n == 0 {
		return AdvanceResult{Index: current}
	}

	idx := current
	rolled := false
	for i := 0; i < n; i++ {
		idx++
		if idx >= n {
			idx = 0
			rolled = true
		}
		if !IsDead(order[idx]) {
			return AdvanceResult{Index: idx, RoundRolled: rolled}
		}
		if idx == current {
			break
		}
	}
	return AdvanceResult{Index: current}
}

// Delay removes id from order and re-inserts it with newInitiative,
// returning the updated order and the new index of id within it. The
// combatant's DexMod is preserved from its prior entry for tie-breaking.
func Delay(order []combatant.Combatant, id string, newInitiative int) ([]combatant.Combatant, int) {
	var moved combatant.Combatant
	found := false
	remaining := make([]combatant.Combatant, 0, len(order))
	for _, c := range order {
		if c.ID == id {
			moved = c
			found = true
			continue
		}
		remaining = append(remaining, c)
	}
	if !found {
		return order, -1
	}
	moved.Initiative = newInitiative
	updated := Insert(remaining, moved)
	for i, c := range updated {
		if c.ID == id {
			return updated, i
		}
	}
	return updated, -1
}
