// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package dice

// AdvantageMode selects how a d20 roll should be resolved.
type AdvantageMode int

const (
	// Normal rolls a single d20.
	Normal AdvantageMode = iota
	// Advantage rolls two d20s and keeps the higher.
	Advantage
	// Disadvantage rolls two d20s and keeps the lower.
	Disadvantage
	// Both emulates an advantage source and a disadvantage source cancelling:
	// two d20s are rolled (so the call sequence matches Advantage/Disadvantage
	// for determinism) but only the first is kept.
	Both
)

// D20Result is the outcome of a single advantage-aware d20 roll.
type D20Result struct {
	// Kept is the die value that was used.
	Kept int
	// First is the first die rolled.
	First int
	// Second is the second die rolled, or 0 if only one die was rolled.
	Second int
	// RolledTwice is true when two dice were rolled (Advantage, Disadvantage, Both).
	RolledTwice bool
}

// RollD20Adv rolls a d20 under the given advantage mode.
func RollD20Adv(roller Roller, mode AdvantageMode) (D20Result, error) {
	first, err := roller.Roll(20)
	if err != nil {
		return D20Result{}, err
	}

	if mode == Normal {
		return D20Result{Kept: first, First: first}, nil
	}

	second, err := roller.Roll(20)
	if err != nil {
		return D20Result{}, err
	}

	switch mode {
	case Advantage:
		kept := first
		if second > first {
			kept = second
		}
		return D20Result{Kept: kept, First: first, Second: second, RolledTwice: true}, nil
	case Disadvantage:
		kept := first
		if second < first {
			kept = second
		}
		return D20Result{Kept: kept, First: first, Second: second, RolledTwice: true}, nil
	case Both:
		// Cancelling advantage and disadvantage: roll as if both applied
		// (so dice consumption stays identical across equivalent call
		// sequences) but resolve as a plain roll, keeping the first die.
		return D20Result{Kept: first, First: first, Second: second, RolledTwice: true}, nil
	default:
		return D20Result{Kept: first, First: first}, nil
	}
}

// ExecuteResult is the outcome of rolling a full dice expression
// (count dN + modifier), with crit detection for single d20 rolls.
type ExecuteResult struct {
	Rolls    []int
	Natural  int // sum of the dice before modifier
	Total    int // Natural + modifier
	CritHit  bool
	CritMiss bool
}

// Execute rolls count dice of the given size, applies modifier, and reports
// crit hit/miss. Advantage/disadvantage only applies when count=1 and
// sides=20; for any other shape, mode is ignored and a single pool of count
// dice is rolled.
func Execute(roller Roller, count, sides, modifier int, mode AdvantageMode) (ExecuteResult, error) {
	if count == 1 && sides == 20 {
		d20, err := RollD20Adv(roller, mode)
		if err != nil {
			return ExecuteResult{}, err
		}
		return ExecuteResult{
			Rolls:    rollsForD20(d20),
			Natural:  d20.Kept,
			Total:    d20.Kept + modifier,
			CritHit:  d20.Kept == 20,
			CritMiss: d20.Kept == 1,
		}, nil
	}

	rolls, err := roller.RollN(count, sides)
	if err != nil {
		return ExecuteResult{}, err
	}
	natural := 0
	for _, r := range rolls {
		natural += r
	}
	return ExecuteResult{
		Rolls:   rolls,
		Natural: natural,
		Total:   natural + modifier,
	}, nil
}

func rollsForD20(d D20Result) []int {
	if !d.RolledTwice {
		return []int{d.First}
	}
	return []int{d.First, d.Second}
}
