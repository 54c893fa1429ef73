// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package encounter

import (
	"time"

	"github.com/KirkDiggler/combat-core/combatant"
	"github.com/KirkDiggler/combat-core/conditions"
	"github.com/KirkDiggler/combat-core/damage"
)

// ActionType distinguishes the members of the DeclaredAction union.
type ActionType string

const (
	ActionAttack     ActionType = "attack"
	ActionCastSpell  ActionType = "cast_spell"
	ActionDash       ActionType = "dash"
	ActionDisengage  ActionType = "disengage"
	ActionDodge      ActionType = "dodge"
	ActionHelp       ActionType = "help"
	ActionHide       ActionType = "hide"
	ActionReady      ActionType = "ready"
	ActionGrapple    ActionType = "grapple"
	ActionShove      ActionType = "shove"
	ActionMove       ActionType = "move"
	ActionStandUp    ActionType = "stand_up"
	ActionDeathSave  ActionType = "death_save"
	ActionEndTurn    ActionType = "end_turn"
)

// DeclaredAction is the tagged union of every action submit_action accepts.
// Each concrete type below implements it.
type DeclaredAction interface {
	Type() ActionType
	Actor() string
}

// AttackOptions carries the caller-supplied flags Attack combines with
// condition-derived advantage/disadvantage sources.
type AttackOptions struct {
	Advantage    bool
	Disadvantage bool
	IsMagical    bool
	IsRanged     bool
	LongRange    bool
	Distance     int // feet, for condition-derived adv/disadv against the target
}

// AttackAction declares a single weapon or natural attack.
type AttackAction struct {
	AttackerID   string
	TargetID     string
	AttackBonus  int
	DamageDice   string
	DamageType   damage.Type
	Options      AttackOptions
}

func (a AttackAction) Type() ActionType { return ActionAttack }
func (a AttackAction) Actor() string    { return a.AttackerID }

// CastSpellAction declares a spell cast resolved via the spells registry.
type CastSpellAction struct {
	CasterID  string
	SpellName string
	TargetIDs []string
	SlotLevel *int
}

func (a CastSpellAction) Type() ActionType { return ActionCastSpell }
func (a CastSpellAction) Actor() string    { return a.CasterID }

// DashAction declares the Dash action.
type DashAction struct{ ActorID string }

func (a DashAction) Type() ActionType { return ActionDash }
func (a DashAction) Actor() string    { return a.ActorID }

// DisengageAction declares the Disengage action.
type DisengageAction struct{ ActorID string }

func (a DisengageAction) Type() ActionType { return ActionDisengage }
func (a DisengageAction) Actor() string    { return a.ActorID }

// DodgeAction declares the Dodge action.
type DodgeAction struct{ ActorID string }

func (a DodgeAction) Type() ActionType { return ActionDodge }
func (a DodgeAction) Actor() string    { return a.ActorID }

// HelpKind selects what a Help action assists with.
type HelpKind string

const (
	HelpAttack       HelpKind = "attack"
	HelpAbilityCheck HelpKind = "ability_check"
)

// HelpAction declares the Help action: HelperID assists TargetID.
type HelpAction struct {
	HelperID string
	TargetID string
	Kind     HelpKind
}

func (a HelpAction) Type() ActionType { return ActionHelp }
func (a HelpAction) Actor() string    { return a.HelperID }

// HideAction declares the Hide action. The caller supplies the already-
// rolled stealth check; this package does not itself know skill mechanics
// beyond what's in stats.CombatStats.
type HideAction struct {
	ActorID     string
	StealthRoll int
	StealthMod  int
	// EnemyWisMods lists the passive-perception-governing wisdom modifiers
	// of enemies who could detect the hider; DC defaults to 12 when empty.
	EnemyWisMods []int
}

func (a HideAction) Type() ActionType { return ActionHide }
func (a HideAction) Actor() string    { return a.ActorID }

// ReadyAction declares the Ready action. Storage-only: see resolveReady
// regarding trigger detection being out of scope.
type ReadyAction struct {
	ActorID                  string
	Trigger                  string
	ReadiedActionDescription string
}

func (a ReadyAction) Type() ActionType { return ActionReady }
func (a ReadyAction) Actor() string    { return a.ActorID }

// GrappleAction declares a grapple attempt.
type GrappleAction struct {
	AttackerID string
	TargetID   string
}

func (a GrappleAction) Type() ActionType { return ActionGrapple }
func (a GrappleAction) Actor() string    { return a.AttackerID }

// ShoveMode selects what a successful Shove does to the target.
type ShoveMode string

const (
	ShoveProne ShoveMode = "prone"
	ShovePush  ShoveMode = "push"
)

// ShoveAction declares a shove attempt.
type ShoveAction struct {
	AttackerID string
	TargetID   string
	Mode       ShoveMode
}

func (a ShoveAction) Type() ActionType { return ActionShove }
func (a ShoveAction) Actor() string    { return a.AttackerID }

// MoveAction declares movement along the grid.
type MoveAction struct {
	ActorID     string
	Distance    int
	NewPosition *combatant.Position
}

func (a MoveAction) Type() ActionType { return ActionMove }
func (a MoveAction) Actor() string    { return a.ActorID }

// StandUpAction declares standing up from prone.
type StandUpAction struct{ ActorID string }

func (a StandUpAction) Type() ActionType { return ActionStandUp }
func (a StandUpAction) Actor() string    { return a.ActorID }

// DeathSaveAction declares a death-saving throw. It is the one action
// permitted to run when actor isn't CurrentTurnIndex, since it can also be
// auto-invoked by the initiative tracker.
type DeathSaveAction struct{ ActorID string }

func (a DeathSaveAction) Type() ActionType { return ActionDeathSave }
func (a DeathSaveAction) Actor() string    { return a.ActorID }

// EndTurnAction declares the end of the actor's turn.
type EndTurnAction struct{ ActorID string }

func (a EndTurnAction) Type() ActionType { return ActionEndTurn }
func (a EndTurnAction) Actor() string    { return a.ActorID }

// DiceRoll records one die roll made in service of resolving an action, for
// inclusion in a LogEntry.
type DiceRoll struct {
	Purpose      string
	Notation     string
	Rolls        []int
	Total        int
	Advantage    bool
	Disadvantage bool
}

// LogEntry is one append-only record of a resolved action.
type LogEntry struct {
	Timestamp time.Time
	Round     int
	TurnOrder int

	ActorID   string
	ActorName string

	ActionType         ActionType
	ActionDescription  string
	TargetIDs          []string
	DiceRolls          []DiceRoll
	Damage             []damage.Result
	Healing            *damage.HealResult
	ConditionsApplied  []conditions.Kind
	ConditionsRemoved  []conditions.Kind
	Outcome            string
}

// ActionResult is the outcome of resolving one DeclaredAction.
type ActionResult struct {
	Success     bool
	Description string
	LogEntry    LogEntry
}
