// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDice_Valid(t *testing.T) {
	cases := []struct {
		in   string
		want Spec
	}{
		{"2d6+3", Spec{Count: 2, Sides: 6, Modifier: 3}},
		{"d20", Spec{Count: 1, Sides: 20, Modifier: 0}},
		{"3d8-2", Spec{Count: 3, Sides: 8, Modifier: -2}},
		{"  1d4  ", Spec{Count: 1, Sides: 4, Modifier: 0}},
		{"1D100", Spec{Count: 1, Sides: 100, Modifier: 0}},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, err := ParseDice(c.in)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestParseDice_Invalid(t *testing.T) {
	for _, in := range []string{"", "d7", "2x6", "d20+", "0d6", "abc"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseDice(in)
			assert.Error(t, err)
		})
	}
}

func TestRoll_CriticalDoublesDiceNotModifier(t *testing.T) {
	r := &scriptedRoller{rolls: []int{4, 4, 4, 4}}
	res, err := Roll(r, "2d8+3", Normal, true)
	require.NoError(t, err)
	assert.Len(t, res.Rolls, 4, "crit doubles dice count")
	assert.Equal(t, 16+3, res.Total, "modifier is not doubled")
}
