// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

// Package spells implements the small, closed registry of non-attack,
// non-healing spells the combat core understands directly: shield, shield
// of faith, bless, guidance, sleep, and spare the dying. Anything beyond
// this set is explicitly out of scope (spec.md §1 Non-goals); Register
// exists only so a host application can extend the registry without
// modifying this package, not to invite an open-ended spellbook here.
package spells

import (
	"strings"

	"github.com/KirkDiggler/combat-core/combatant"
	"github.com/KirkDiggler/combat-core/dice"
)

// Context is everything an Effect needs to resolve.
type Context struct {
	Caster  combatant.Combatant
	Targets []combatant.Combatant
	Roller  dice.Roller
}

// Result is the outcome of applying a spell Effect.
type Result struct {
	Caster      combatant.Combatant
	Targets     []combatant.Combatant
	Description string
}

// Effect resolves one spell against a caster and its targets.
type Effect func(ctx Context) (Result, error)

// Registry is a lowercase-name-keyed map of spell effects, populated at
// startup. The zero value is usable; Default() returns one pre-populated
// with the shipped catalogue.
type Registry struct {
	effects map[string]Effect
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{effects: make(map[string]Effect)}
}

// Register adds or replaces the effect for name (case-insensitive).
func (r *Registry) Register(name string, effect Effect) {
	if r.effects == nil {
		r.effects = make(map[string]Effect)
	}
	r.effects[strings.ToLower(name)] = effect
}

// Get looks up a spell by name (case-insensitive).
func (r *Registry) Get(name string) (Effect, bool) {
	e, ok := r.effects[strings.ToLower(name)]
	return e, ok
}

// Default returns a Registry pre-populated with the shipped catalogue:
// shield, shield of faith, bless, guidance, sleep, spare the dying.
func Default() *Registry {
	r := NewRegistry()
	r.Register("shield", Shield)
	r.Register("shield of faith", ShieldOfFaith)
	r.Register("bless", Bless)
	r.Register("guidance", Guidance)
	r.Register("sleep", Sleep)
	r.Register("spare the dying", SpareTheDying)
	return r
}
