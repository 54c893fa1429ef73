// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package dice

import "errors"

// Common errors returned by the dice package.
var (
	// ErrInvalidNotation indicates the dice notation string could not be parsed.
	ErrInvalidNotation = errors.New("dice: invalid notation")

	// ErrInvalidDieSize indicates a die size outside the supported SRD set.
	ErrInvalidDieSize = errors.New("dice: invalid die size")

	// ErrInvalidDieCount indicates a non-positive dice count.
	ErrInvalidDieCount = errors.New("dice: invalid die count")

	// ErrNilRoller indicates a nil Roller was supplied where one was required.
	ErrNilRoller = errors.New("dice: roller cannot be nil")
)
