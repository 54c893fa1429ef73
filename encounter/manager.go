// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package encounter

import (
	"time"

	"github.com/google/uuid"

	"github.com/KirkDiggler/combat-core/combatant"
	"github.com/KirkDiggler/combat-core/dice"
	"github.com/KirkDiggler/combat-core/initiative"
	"github.com/KirkDiggler/combat-core/rpgerr"
	"github.com/KirkDiggler/combat-core/spells"
)

// CreateOptions configures a freshly created encounter.
type CreateOptions struct {
	Lighting             Lighting
	EnvironmentalEffects []string
	Spells               *spells.Registry // defaults to spells.Default() when nil
}

// CreateEncounter constructs a new Preparing-status encounter with its own
// seeded RNG. The caller owns seed provenance (see dice.NewRoller): the same
// seed driven by the same action stream reproduces the same encounter (P10).
func CreateEncounter(campaignID, sessionID string, seed uint64, opts CreateOptions) Encounter {
	lighting := opts.Lighting
	if lighting == "" {
		lighting = Bright
	}
	registry := opts.Spells
	if registry == nil {
		registry = spells.Default()
	}
	return Encounter{
		ID:                        uuid.New().String(),
		CampaignID:                campaignID,
		SessionID:                 sessionID,
		Status:                    Preparing,
		Lighting:                  lighting,
		EnvironmentalEffects:      append([]string(nil), opts.EnvironmentalEffects...),
		LegendaryActionsRemaining: map[string]int{},
		Roller:                    dice.NewRoller(seed),
		Spells:                    registry,
	}
}

// AddParty rolls initiative for and inserts a party of characters into the
// encounter, returning the rolls alongside the updated encounter.
func AddParty(e Encounter, sheets []combatant.CharacterSheet) (Encounter, []initiative.Roll, error) {
	e = e.Clone()
	rolls := make([]initiative.Roll, 0, len(sheets))
	for _, sheet := range sheets {
		d20, err := dice.RollD20Adv(e.Roller, dice.Normal)
		if err != nil {
			return e, nil, err
		}
		roll := initiative.RollInitiative(d20.Kept, sheet.DexMod)
		rolls = append(rolls, roll)
		c := combatant.FromCharacter(sheet, roll.Total)
		e.InitiativeOrder = initiative.Insert(e.InitiativeOrder, c)
	}
	return e, rolls, nil
}

// AddMonsters rolls initiative for and inserts a set of monster instances.
// When groupIdentical is true, every template sharing the same source id
// rolls initiative once and all copies act on that shared count, matching
// the common tabletop shortcut for grouped identical monsters.
func AddMonsters(e Encounter, templates []combatant.MonsterTemplate, groupIdentical bool) (Encounter, []initiative.Roll, error) {
	e = e.Clone()

	total := make(map[string]int, len(templates))
	for _, t := range templates {
		total[t.ID]++
	}

	rolls := make([]initiative.Roll, 0, len(templates))
	groupRolls := make(map[string]initiative.Roll)
	seen := make(map[string]int)

	for _, tmpl := range templates {
		var roll initiative.Roll
		if groupIdentical {
			if r, ok := groupRolls[tmpl.ID]; ok {
				roll = r
			} else {
				d20, err := dice.RollD20Adv(e.Roller, dice.Normal)
				if err != nil {
					return e, nil, err
				}
				roll = initiative.RollInitiative(d20.Kept, tmpl.DexMod)
				groupRolls[tmpl.ID] = roll
			}
		} else {
			d20, err := dice.RollD20Adv(e.Roller, dice.Normal)
			if err != nil {
				return e, nil, err
			}
			roll = initiative.RollInitiative(d20.Kept, tmpl.DexMod)
		}
		rolls = append(rolls, roll)

		var copyIdx *int
		if total[tmpl.ID] > 1 {
			idx := seen[tmpl.ID]
			copyIdx = &idx
		}
		seen[tmpl.ID]++

		c := combatant.FromMonster(tmpl, roll.Total, copyIdx)
		e.InitiativeOrder = initiative.Insert(e.InitiativeOrder, c)
	}
	return e, rolls, nil
}

// StartCombat sorts the initiative order, marks the encounter Active, and
// starts round 1 at turn index 0.
func StartCombat(e Encounter) Encounter {
	e = e.Clone()
	e.InitiativeOrder = initiative.Sort(e.InitiativeOrder)
	e.Status = Active
	e.Round = 1
	e.CurrentTurnIndex = 0
	e.StartedAt = time.Now()
	return e
}

// SubmitAction routes a DeclaredAction to its resolver. Every action type
// except DeathSave must belong to the current combatant (DeathSave may also
// be auto-invoked by tickAndAdvance, outside of turn order).
func SubmitAction(e Encounter, action DeclaredAction) (Encounter, ActionResult, error) {
	if action.Type() != ActionDeathSave {
		current, ok := e.Current()
		if !ok || current.ID != action.Actor() {
			return e, ActionResult{}, rpgerr.NotYourTurn(action.Actor(), currentID(e))
		}
	}

	switch act := action.(type) {
	case AttackAction:
		return resolveAttack(e, act)
	case CastSpellAction:
		return resolveCastSpell(e, act)
	case DashAction:
		return resolveDash(e, act)
	case DisengageAction:
		return resolveDisengage(e, act)
	case DodgeAction:
		return resolveDodge(e, act)
	case HelpAction:
		return resolveHelp(e, act)
	case HideAction:
		return resolveHide(e, act)
	case ReadyAction:
		return resolveReady(e, act)
	case GrappleAction:
		return resolveGrapple(e, act)
	case ShoveAction:
		return resolveShove(e, act)
	case MoveAction:
		return resolveMove(e, act)
	case StandUpAction:
		return resolveStandUp(e, act)
	case DeathSaveAction:
		return resolveDeathSave(e, act)
	case EndTurnAction:
		return resolveEndTurn(e, act)
	default:
		return e, ActionResult{}, rpgerr.Unknown("action type")
	}
}

func currentID(e Encounter) string {
	if c, ok := e.Current(); ok {
		return c.ID
	}
	return ""
}

// resolveCastSpell looks up the named spell in the encounter's registry and
// applies it. Effects that don't mutate the caster (Guidance, Sleep, Spare
// the Dying) leave Result.Caster as a zero value; this is distinguished from
// a genuine update by comparing IDs rather than trusting a always-present
// caster in the result.
func resolveCastSpell(e Encounter, a CastSpellAction) (Encounter, ActionResult, error) {
	e = e.Clone()

	caster, ok := e.Find(a.CasterID)
	if !ok {
		return e, ActionResult{}, rpgerr.NotFound("combatant", a.CasterID)
	}
	if caster.Resources.ActionUsed {
		return e, ActionResult{}, rpgerr.ResourceUnavailable("action", rpgerr.WithMeta("actor", caster.ID))
	}

	effect, ok := e.Spells.Get(a.SpellName)
	if !ok {
		return e, ActionResult{}, rpgerr.Unknown("spell " + a.SpellName)
	}

	targets := make([]combatant.Combatant, 0, len(a.TargetIDs))
	for _, id := range a.TargetIDs {
		t, ok := e.Find(id)
		if !ok {
			return e, ActionResult{}, rpgerr.NotFound("combatant", id)
		}
		targets = append(targets, t)
	}

	result, err := effect(spells.Context{Caster: caster, Targets: targets, Roller: e.Roller})
	if err != nil {
		return e, ActionResult{}, err
	}

	updatedCaster := caster
	if result.Caster.ID == caster.ID {
		updatedCaster = result.Caster
	}
	updatedCaster.Resources.ActionUsed = true
	e.InitiativeOrder = replace(e.InitiativeOrder, caster.ID, updatedCaster)

	targetIDs := make([]string, 0, len(result.Targets))
	for _, t := range result.Targets {
		e.InitiativeOrder = replace(e.InitiativeOrder, t.ID, t)
		targetIDs = append(targetIDs, t.ID)
	}

	entry := LogEntry{
		ActorID: caster.ID, ActorName: caster.Name, ActionType: ActionCastSpell,
		TargetIDs: targetIDs, ActionDescription: result.Description, Outcome: "success",
	}
	e = appendLog(e, entry)
	return e, ActionResult{Success: true, Description: result.Description, LogEntry: entry}, nil
}

// EndTurn is the manager-level convenience over resolveEndTurn: it ends the
// current combatant's turn without requiring the caller to name them.
func EndTurn(e Encounter) (Encounter, error) {
	current, ok := e.Current()
	if !ok {
		return e, rpgerr.InvalidTarget("no current combatant")
	}
	updated, _, err := resolveEndTurn(e, EndTurnAction{ActorID: current.ID})
	return updated, err
}

// UpdateCombatant writes c through to the encounter's live initiative order
// (a no-op if c's id isn't present) and migrates anyone now dead into
// Defeated.
func UpdateCombatant(e Encounter, c combatant.Combatant) Encounter {
	e = e.Clone()
	if _, ok := e.Find(c.ID); ok {
		e.InitiativeOrder = replace(e.InitiativeOrder, c.ID, c)
	}
	return migrateDefeated(e)
}

// CombatEndResult is the outcome of evaluating whether an encounter should end.
type CombatEndResult struct {
	ShouldEnd bool
	Reason    string
	Winners   []combatant.Combatant
}

// ShouldCombatEnd computes over the live initiative order: no enemies left
// standing means the party wins, no party members left standing means the
// enemies win.
func ShouldCombatEnd(e Encounter) CombatEndResult {
	pcsAlive, enemiesAlive := 0, 0
	for _, c := range e.InitiativeOrder {
		if c.Kind == combatant.PC {
			pcsAlive++
		} else {
			enemiesAlive++
		}
	}
	switch {
	case enemiesAlive == 0 && pcsAlive > 0:
		return CombatEndResult{ShouldEnd: true, Reason: "all enemies defeated", Winners: filterKind(e.InitiativeOrder, combatant.PC)}
	case pcsAlive == 0 && enemiesAlive > 0:
		return CombatEndResult{ShouldEnd: true, Reason: "all party members defeated", Winners: filterKind(e.InitiativeOrder, combatant.Monster)}
	default:
		return CombatEndResult{}
	}
}

func filterKind(order []combatant.Combatant, kind combatant.Kind) []combatant.Combatant {
	out := make([]combatant.Combatant, 0, len(order))
	for _, c := range order {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// EndCombat marks the encounter Ended and appends a closing log entry.
func EndCombat(e Encounter, reason string) Encounter {
	e = e.Clone()
	e.Status = Ended
	e.EndedAt = time.Now()
	e = appendLog(e, LogEntry{ActionDescription: "Combat ended: " + reason, Outcome: "combat_ended"})
	return e
}

// Summary is the outcome of combat_summary: aggregate stats over the
// encounter's full history.
type Summary struct {
	Rounds      int
	Minutes     float64
	Casualties  []combatant.Combatant
	DamageDealt map[string]int
	MVP         *string
}

// CombatSummary aggregates damage dealt per actor name from the action log
// and reports the highest-damage actor as MVP (nil if nobody dealt damage).
func CombatSummary(e Encounter) Summary {
	var minutes float64
	if !e.StartedAt.IsZero() {
		end := e.EndedAt
		if end.IsZero() {
			end = time.Now()
		}
		minutes = end.Sub(e.StartedAt).Minutes()
	}

	dealt := make(map[string]int)
	for _, entry := range e.ActionLog {
		for _, d := range entry.Damage {
			dealt[entry.ActorName] += d.Final
		}
	}

	var mvp *string
	best := 0
	for name, total := range dealt {
		if total > best {
			best = total
			n := name
			mvp = &n
		}
	}

	return Summary{
		Rounds:      e.Round,
		Minutes:     minutes,
		Casualties:  append([]combatant.Combatant(nil), e.Defeated...),
		DamageDealt: dealt,
		MVP:         mvp,
	}
}
