// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeededRoller_Roll_Bounds(t *testing.T) {
	roller := NewSeededRoller(42)
	for _, sides := range []int{4, 6, 8, 10, 12, 20, 100} {
		t.Run(Spec{Sides: sides}.String(), func(t *testing.T) {
			for i := 0; i < 200; i++ {
				roll, err := roller.Roll(sides)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, roll, 1)
				assert.LessOrEqual(t, roll, sides)
			}
		})
	}
}

func TestSeededRoller_Roll_InvalidSides(t *testing.T) {
	roller := NewSeededRoller(1)
	_, err := roller.Roll(0)
	assert.ErrorIs(t, err, ErrInvalidDieSize)
}

func TestSeededRoller_RollN_InvalidCount(t *testing.T) {
	roller := NewSeededRoller(1)
	_, err := roller.RollN(-1, 6)
	assert.ErrorIs(t, err, ErrInvalidDieCount)
}

func TestSeededRoller_Determinism(t *testing.T) {
	a := NewSeededRoller(1234)
	b := NewSeededRoller(1234)

	for i := 0; i < 50; i++ {
		ra, err := a.Roll(20)
		require.NoError(t, err)
		rb, err := b.Roll(20)
		require.NoError(t, err)
		assert.Equal(t, ra, rb)
	}
}

func TestSeededRoller_DifferentSeedsDiverge(t *testing.T) {
	a := NewSeededRoller(1)
	b := NewSeededRoller(2)

	same := true
	for i := 0; i < 50; i++ {
		ra, _ := a.Roll(1000000)
		rb, _ := b.Roll(1000000)
		if ra != rb {
			same = false
			break
		}
	}
	assert.False(t, same, "two distinct seeds should not produce an identical sequence")
}
