// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package dice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// notationRegex matches SRD dice notation like "2d6+3", "d20", "3d8-2".
var notationRegex = regexp.MustCompile(`^(\d*)[dD](\d+)\s*([+-]\s*\d+)?$`)

// validSides is the closed set of SRD die sizes.
var validSides = map[int]bool{4: true, 6: true, 8: true, 10: true, 12: true, 20: true, 100: true}

// Spec is a parsed dice expression: count dice of size, plus a flat modifier.
type Spec struct {
	Count    int
	Sides    int
	Modifier int
}

// String renders the spec back to canonical notation, e.g. "2d6+3".
func (s Spec) String() string {
	out := fmt.Sprintf("%dd%d", s.Count, s.Sides)
	if s.Modifier > 0 {
		out += fmt.Sprintf("+%d", s.Modifier)
	} else if s.Modifier < 0 {
		out += fmt.Sprintf("%d", s.Modifier)
	}
	return out
}

// ParseDice parses a "NdS±M" dice string. S must be one of the seven SRD die
// sizes (4,6,8,10,12,20,100); N must be >= 1; the modifier is optional.
// Parsing is case-insensitive and trims surrounding whitespace. Any other
// shape returns ErrInvalidNotation.
func ParseDice(notation string) (Spec, error) {
	trimmed := strings.TrimSpace(notation)
	if trimmed == "" {
		return Spec{}, fmt.Errorf("%w: empty notation", ErrInvalidNotation)
	}

	matches := notationRegex.FindStringSubmatch(trimmed)
	if matches == nil {
		return Spec{}, fmt.Errorf("%w: %q", ErrInvalidNotation, notation)
	}

	count := 1
	if matches[1] != "" {
		n, err := strconv.Atoi(matches[1])
		if err != nil || n < 1 {
			return Spec{}, fmt.Errorf("%w: invalid count in %q", ErrInvalidNotation, notation)
		}
		count = n
	}

	sides, err := strconv.Atoi(matches[2])
	if err != nil {
		return Spec{}, fmt.Errorf("%w: invalid die size in %q", ErrInvalidNotation, notation)
	}
	if !validSides[sides] {
		return Spec{}, fmt.Errorf("%w: %w: d%d in %q", ErrInvalidNotation, ErrInvalidDieSize, sides, notation)
	}

	modifier := 0
	if matches[3] != "" {
		modStr := strings.ReplaceAll(matches[3], " ", "")
		modifier, err = strconv.Atoi(modStr)
		if err != nil {
			return Spec{}, fmt.Errorf("%w: invalid modifier in %q", ErrInvalidNotation, notation)
		}
	}

	return Spec{Count: count, Sides: sides, Modifier: modifier}, nil
}

// Roll parses notation and rolls it against roller, doubling the dice count
// (not the modifier) when crit is true, matching SRD critical-hit damage.
func Roll(roller Roller, notation string, mode AdvantageMode, crit bool) (ExecuteResult, error) {
	spec, err := ParseDice(notation)
	if err != nil {
		return ExecuteResult{}, err
	}
	count := spec.Count
	if crit {
		count *= 2
	}
	return Execute(roller, count, spec.Sides, spec.Modifier, mode)
}
