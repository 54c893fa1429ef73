// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package conditions

// Add applies a condition, taking the max of durations when a record with
// the same (kind, source) already exists instead of duplicating it.
// Exhaustion is special-cased: level is capped at 6 and a second Add with a
// higher level replaces the lower one (exhaustion doesn't stack additively).
func Add(conds []ActiveCondition, kind Kind, source string, duration Duration, metadata map[string]any) []ActiveCondition {
	kind = normalizeKind(kind)

	if kind == Exhaustion {
		level := 0
		if metadata != nil {
			if v, ok := metadata["level"].(int); ok {
				level = v
			}
		}
		if level > 6 {
			level = 6
		}
		for i, c := range conds {
			if c.Kind == Exhaustion {
				if level > c.ExhaustionLevel {
					conds[i].ExhaustionLevel = level
					conds[i].Duration = duration
					conds[i].Metadata = metadata
				}
				return conds
			}
		}
		out := make([]ActiveCondition, len(conds), len(conds)+1)
		copy(out, conds)
		return append(out, ActiveCondition{Kind: Exhaustion, Source: source, Duration: duration, Metadata: metadata, ExhaustionLevel: level})
	}

	for i, c := range conds {
		if c.Kind == kind && c.Source == source {
			if duration.greater(c.Duration) {
				conds[i].Duration = duration
				conds[i].Metadata = metadata
			}
			return conds
		}
	}

	out := make([]ActiveCondition, len(conds), len(conds)+1)
	copy(out, conds)
	return append(out, ActiveCondition{Kind: kind, Source: source, Duration: duration, Metadata: metadata})
}

// Remove drops condition(s) matching kind. If source is non-empty, only
// entries with that exact source are removed; otherwise every entry of kind
// is removed. Returns the filtered list and the summed AC adjustment
// (negative of every removed condition's ac_bonus) the caller must apply to
// the combatant's ac in the same step, per invariant 7.
func Remove(conds []ActiveCondition, kind Kind, source string) (remaining []ActiveCondition, acAdjustment int) {
	kind = normalizeKind(kind)
	remaining = make([]ActiveCondition, 0, len(conds))
	for _, c := range conds {
		if c.Kind == kind && (source == "" || c.Source == source) {
			if bonus, ok := c.ACBonus(); ok {
				acAdjustment -= bonus
			}
			continue
		}
		remaining = append(remaining, c)
	}
	return remaining, acAdjustment
}

// Tick advances every condition by one turn-phase hook. Rounds(n) durations
// are untouched here (they decrement only on round rollover, see TickRound);
// Turns{n, endsAt} durations decrement when endsAt matches phase and are
// dropped once they reach zero; every other duration kind persists. Returns
// the filtered list and the AC adjustment the caller must apply for any
// conditions that expired this tick (invariant 7).
func Tick(conds []ActiveCondition, phase Phase) (remaining []ActiveCondition, acAdjustment int) {
	remaining = make([]ActiveCondition, 0, len(conds))
	for _, c := range conds {
		if c.Duration.Kind == DurationTurns && c.Duration.EndsAt == phase {
			c.Duration.N--
			if c.Duration.N <= 0 {
				if bonus, ok := c.ACBonus(); ok {
					acAdjustment -= bonus
				}
				continue
			}
		}
		remaining = append(remaining, c)
	}
	return remaining, acAdjustment
}

// TickRound decrements every Rounds(n) duration by one, on round rollover.
// Turns/Minutes/Hours/Permanent/etc durations are untouched here.
func TickRound(conds []ActiveCondition) (remaining []ActiveCondition, acAdjustment int) {
	remaining = make([]ActiveCondition, 0, len(conds))
	for _, c := range conds {
		if c.Duration.Kind == DurationRounds {
			c.Duration.N--
			if c.Duration.N <= 0 {
				if bonus, ok := c.ACBonus(); ok {
					acAdjustment -= bonus
				}
				continue
			}
		}
		remaining = append(remaining, c)
	}
	return remaining, acAdjustment
}

// RemoveBySource drops every condition whose Source matches exactly,
// regardless of kind — used when a spell's concentration breaks and every
// condition it sourced must fall away together (design note: concentration
// and spell removal). Returns the filtered list and the summed AC
// adjustment, as Remove does.
func RemoveBySource(conds []ActiveCondition, source string) (remaining []ActiveCondition, acAdjustment int) {
	remaining = make([]ActiveCondition, 0, len(conds))
	for _, c := range conds {
		if c.Source == source {
			if bonus, ok := c.ACBonus(); ok {
				acAdjustment -= bonus
			}
			continue
		}
		remaining = append(remaining, c)
	}
	return remaining, acAdjustment
}

// Has reports whether conds carries a condition of the given kind.
func Has(conds []ActiveCondition, kind Kind) bool {
	return has(conds, normalizeKind(kind))
}

// Get returns the first condition of the given kind and whether it was found.
func Get(conds []ActiveCondition, kind Kind) (ActiveCondition, bool) {
	kind = normalizeKind(kind)
	for _, c := range conds {
		if c.Kind == kind {
			return c, true
		}
	}
	return ActiveCondition{}, false
}
