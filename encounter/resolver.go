// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package encounter

import (
	"errors"
	"fmt"

	"github.com/KirkDiggler/combat-core/combatant"
	"github.com/KirkDiggler/combat-core/conditions"
	"github.com/KirkDiggler/combat-core/damage"
	"github.com/KirkDiggler/combat-core/dice"
	"github.com/KirkDiggler/combat-core/rpgerr"
)

// wrapDiceErr maps a malformed dice-notation error onto rpgerr's closed
// Code set (§7) so callers can branch via rpgerr.GetCode rather than
// matching the dice package's sentinel errors directly.
func wrapDiceErr(err error, notation string) error {
	if errors.Is(err, dice.ErrInvalidNotation) || errors.Is(err, dice.ErrInvalidDieSize) || errors.Is(err, dice.ErrInvalidDieCount) {
		return rpgerr.Wrap(err, rpgerr.CodeInvalidNotation, fmt.Sprintf("invalid dice notation: %q", notation))
	}
	return err
}

// resolveMode folds caller-supplied and condition-derived advantage and
// disadvantage sources into a single dice.AdvantageMode (P5: even a
// cancelling pair rolls as a single resolved d20 draw sequence, via
// dice.Both).
func resolveMode(advantage, disadvantage bool) dice.AdvantageMode {
	switch {
	case advantage && disadvantage:
		return dice.Both
	case advantage:
		return dice.Advantage
	case disadvantage:
		return dice.Disadvantage
	default:
		return dice.Normal
	}
}

// resolveAttack implements §4.7.1.
func resolveAttack(e Encounter, a AttackAction) (Encounter, ActionResult, error) {
	e = e.Clone()

	attacker, ok := e.Find(a.AttackerID)
	if !ok {
		return e, ActionResult{}, rpgerr.NotFound("combatant", a.AttackerID)
	}
	target, ok := e.Find(a.TargetID)
	if !ok {
		return e, ActionResult{}, rpgerr.NotFound("combatant", a.TargetID)
	}
	if attacker.Resources.ActionUsed {
		return e, ActionResult{}, rpgerr.ResourceUnavailable("action", rpgerr.WithMeta("actor", attacker.ID))
	}

	if conditions.IsIncapacitated(attacker.Conditions) {
		entry := LogEntry{
			ActorID: attacker.ID, ActorName: attacker.Name,
			ActionType: ActionAttack, TargetIDs: []string{target.ID},
			ActionDescription: "attack auto-fails: attacker is incapacitated",
			Outcome:           "auto_fail",
		}
		e = appendLog(e, entry)
		return e, ActionResult{Success: true, Description: entry.ActionDescription, LogEntry: entry}, nil
	}

	attackerMods := conditions.AttackerModifiers(attacker.Conditions)
	advantage := a.Options.Advantage || attackerMods.Advantage ||
		conditions.Has(attacker.Conditions, conditions.HelpedAttack) ||
		conditions.Has(attacker.Conditions, conditions.Hidden) ||
		conditions.AttacksAgainstHaveAdvantage(target.Conditions, a.Options.Distance)
	disadvantage := a.Options.Disadvantage || attackerMods.Disadvantage || a.Options.LongRange ||
		conditions.AttacksAgainstHaveDisadvantage(target.Conditions, a.Options.Distance)

	mode := resolveMode(advantage, disadvantage)
	d20, err := dice.RollD20Adv(e.Roller, mode)
	if err != nil {
		return e, ActionResult{}, err
	}
	total := d20.Kept + a.AttackBonus
	isCrit := d20.Kept == 20
	isHit := d20.Kept == 20 || (d20.Kept != 1 && total >= target.AC)

	rolls := []DiceRoll{{
		Purpose: "attack", Notation: "d20", Rolls: rollsOf(d20), Total: total,
		Advantage: advantage, Disadvantage: disadvantage,
	}}

	var dmgResults []damage.Result
	outcome := "miss"
	description := fmt.Sprintf("%s attacks %s: miss (total %d vs AC %d)", attacker.Name, target.Name, total, target.AC)

	if isHit {
		dmgRoll, err := dice.Roll(e.Roller, a.DamageDice, dice.Normal, isCrit)
		if err != nil {
			return e, ActionResult{}, wrapDiceErr(err, a.DamageDice)
		}
		rolls = append(rolls, DiceRoll{Purpose: "damage", Notation: a.DamageDice, Rolls: dmgRoll.Rolls, Total: dmgRoll.Total})

		updatedTarget, dmgResult := damage.Apply(target, damage.Instance{
			Amount: dmgRoll.Total, Type: a.DamageType, Source: attacker.Name,
			IsCritical: isCrit, IsMagical: a.Options.IsMagical,
		})
		dmgResults = append(dmgResults, dmgResult)
		target = updatedTarget

		if target.Concentrating != "" && dmgResult.Final > 0 {
			check := damage.CheckConcentration(target, dmgResult.Final)
			if check.MustCheck {
				saveD20, err := dice.RollD20Adv(e.Roller, resolveMode(false, conditions.SaveModifiers(target.Conditions, "con").Disadvantage))
				if err != nil {
					return e, ActionResult{}, err
				}
				rolls = append(rolls, DiceRoll{Purpose: "concentration_save", Notation: "d20", Rolls: rollsOf(saveD20), Total: saveD20.Kept + target.ConMod})
				if saveD20.Kept+target.ConMod < check.DC {
					spell := target.Concentrating
					target.Concentrating = ""
					var acAdj int
					target.Conditions, acAdj = conditions.RemoveBySource(target.Conditions, spell)
					target.AC += acAdj
				}
			}
		}

		if isCrit {
			outcome = "critical_hit"
		} else {
			outcome = "hit"
		}
		description = fmt.Sprintf("%s attacks %s: %s for %d %s damage", attacker.Name, target.Name, outcome, dmgResult.Final, a.DamageType)
	}

	attacker.Resources.ActionUsed = true
	attacker.Conditions, _ = conditions.Remove(attacker.Conditions, conditions.HelpedAttack, "")
	attacker.Conditions, _ = conditions.Remove(attacker.Conditions, conditions.Hidden, "")

	e.InitiativeOrder = replace(e.InitiativeOrder, attacker.ID, attacker)
	e.InitiativeOrder = replace(e.InitiativeOrder, target.ID, target)

	entry := LogEntry{
		ActorID: attacker.ID, ActorName: attacker.Name,
		ActionType: ActionAttack, TargetIDs: []string{target.ID},
		ActionDescription: description, DiceRolls: rolls, Damage: dmgResults,
		Outcome: outcome,
	}
	e = appendLog(e, entry)
	return e, ActionResult{Success: isHit, Description: description, LogEntry: entry}, nil
}

func rollsOf(d dice.D20Result) []int {
	if !d.RolledTwice {
		return []int{d.First}
	}
	return []int{d.First, d.Second}
}

// resolveDash, resolveDisengage, resolveDodge implement §4.7.2.
func resolveDash(e Encounter, a DashAction) (Encounter, ActionResult, error) {
	return resolveSimpleAction(e, a.ActorID, ActionDash, func(c combatant.Combatant) (combatant.Combatant, string) {
		c.Resources.MovementRemaining += c.Speed
		return c, fmt.Sprintf("%s dashes (movement now %d)", c.Name, c.Resources.MovementRemaining)
	})
}

func resolveDisengage(e Encounter, a DisengageAction) (Encounter, ActionResult, error) {
	return resolveSimpleAction(e, a.ActorID, ActionDisengage, func(c combatant.Combatant) (combatant.Combatant, string) {
		c.Conditions = conditions.Add(c.Conditions, conditions.Disengaged, "disengage", conditions.TurnsDuration(1, conditions.StartOfTurn), nil)
		return c, fmt.Sprintf("%s disengages", c.Name)
	})
}

func resolveDodge(e Encounter, a DodgeAction) (Encounter, ActionResult, error) {
	return resolveSimpleAction(e, a.ActorID, ActionDodge, func(c combatant.Combatant) (combatant.Combatant, string) {
		c.Conditions = conditions.Add(c.Conditions, conditions.Dodging, "dodge", conditions.TurnsDuration(1, conditions.StartOfTurn), nil)
		return c, fmt.Sprintf("%s dodges", c.Name)
	})
}

// resolveSimpleAction is shared by the three §4.7.2 actions and by
// resolveReady: each looks up
// the actor, requires their action be unused, runs mutate, marks the action
// used, and logs the result.
func resolveSimpleAction(e Encounter, actorID string, actionType ActionType, mutate func(combatant.Combatant) (combatant.Combatant, string)) (Encounter, ActionResult, error) {
	e = e.Clone()
	actor, ok := e.Find(actorID)
	if !ok {
		return e, ActionResult{}, rpgerr.NotFound("combatant", actorID)
	}
	if actor.Resources.ActionUsed {
		return e, ActionResult{}, rpgerr.ResourceUnavailable("action", rpgerr.WithMeta("actor", actorID))
	}

	actor, description := mutate(actor)
	actor.Resources.ActionUsed = true
	e.InitiativeOrder = replace(e.InitiativeOrder, actorID, actor)

	entry := LogEntry{ActorID: actor.ID, ActorName: actor.Name, ActionType: actionType, ActionDescription: description, Outcome: "success"}
	e = appendLog(e, entry)
	return e, ActionResult{Success: true, Description: description, LogEntry: entry}, nil
}

// resolveHelp implements §4.7.3.
func resolveHelp(e Encounter, a HelpAction) (Encounter, ActionResult, error) {
	e = e.Clone()
	helper, ok := e.Find(a.HelperID)
	if !ok {
		return e, ActionResult{}, rpgerr.NotFound("combatant", a.HelperID)
	}
	target, ok := e.Find(a.TargetID)
	if !ok {
		return e, ActionResult{}, rpgerr.NotFound("combatant", a.TargetID)
	}
	if helper.Resources.ActionUsed {
		return e, ActionResult{}, rpgerr.ResourceUnavailable("action", rpgerr.WithMeta("actor", helper.ID))
	}

	kind := conditions.HelpedAttack
	if a.Kind == HelpAbilityCheck {
		kind = conditions.HelpedCheck
	}
	target.Conditions = conditions.Add(target.Conditions, kind, helper.ID, conditions.TurnsDuration(1, conditions.StartOfTurn), nil)
	helper.Resources.ActionUsed = true

	e.InitiativeOrder = replace(e.InitiativeOrder, helper.ID, helper)
	e.InitiativeOrder = replace(e.InitiativeOrder, target.ID, target)

	description := fmt.Sprintf("%s helps %s", helper.Name, target.Name)
	entry := LogEntry{
		ActorID: helper.ID, ActorName: helper.Name, ActionType: ActionHelp,
		TargetIDs: []string{target.ID}, ActionDescription: description,
		ConditionsApplied: []conditions.Kind{kind}, Outcome: "success",
	}
	e = appendLog(e, entry)
	return e, ActionResult{Success: true, Description: description, LogEntry: entry}, nil
}

// resolveHide implements §4.7.4.
func resolveHide(e Encounter, a HideAction) (Encounter, ActionResult, error) {
	e = e.Clone()
	actor, ok := e.Find(a.ActorID)
	if !ok {
		return e, ActionResult{}, rpgerr.NotFound("combatant", a.ActorID)
	}
	if actor.Resources.ActionUsed {
		return e, ActionResult{}, rpgerr.ResourceUnavailable("action", rpgerr.WithMeta("actor", actor.ID))
	}

	dc := 12
	for _, wis := range a.EnemyWisMods {
		if candidate := 10 + wis; candidate > dc {
			dc = candidate
		}
	}
	total := a.StealthRoll + a.StealthMod
	success := total >= dc

	if success {
		actor.Conditions = conditions.Add(actor.Conditions, conditions.Hidden, "hide", conditions.SpecialDuration("until detected"), nil)
	}
	actor.Resources.ActionUsed = true
	e.InitiativeOrder = replace(e.InitiativeOrder, actor.ID, actor)

	description := fmt.Sprintf("%s attempts to hide: rolled %d vs DC %d", actor.Name, total, dc)
	outcome := "failure"
	if success {
		outcome = "success"
		description = fmt.Sprintf("%s hides: rolled %d vs DC %d", actor.Name, total, dc)
	}
	entry := LogEntry{
		ActorID: actor.ID, ActorName: actor.Name, ActionType: ActionHide,
		ActionDescription: description, Outcome: outcome,
		DiceRolls: []DiceRoll{{Purpose: "stealth", Notation: "check", Total: total}},
	}
	e = appendLog(e, entry)
	return e, ActionResult{Success: success, Description: description, LogEntry: entry}, nil
}

// resolveReady implements §4.7.5. Storage-only: no trigger-detection
// mechanism exists in this package (see design note on the open question).
func resolveReady(e Encounter, a ReadyAction) (Encounter, ActionResult, error) {
	return resolveSimpleAction(e, a.ActorID, ActionReady, func(c combatant.Combatant) (combatant.Combatant, string) {
		source := a.Trigger + ": " + a.ReadiedActionDescription
		c.Conditions = conditions.Add(c.Conditions, conditions.Readied, source, conditions.TurnsDuration(1, conditions.StartOfTurn), nil)
		return c, fmt.Sprintf("%s readies an action", c.Name)
	})
}

// resolveGrapple and resolveShove implement §4.7.6: attacker Athletics versus
// the target's better of Athletics or Acrobatics, attacker winning ties.
func resolveGrapple(e Encounter, a GrappleAction) (Encounter, ActionResult, error) {
	return resolveContest(e, a.AttackerID, a.TargetID, ActionGrapple, func(e Encounter, attacker, target combatant.Combatant, won bool) (Encounter, combatant.Combatant, string) {
		if won {
			target.Conditions = conditions.Add(target.Conditions, conditions.Grappled, attacker.ID, conditions.PermanentDuration(), nil)
		}
		desc := fmt.Sprintf("%s grapples %s", attacker.Name, target.Name)
		if !won {
			desc = fmt.Sprintf("%s fails to grapple %s", attacker.Name, target.Name)
		}
		return e, target, desc
	})
}

func resolveShove(e Encounter, a ShoveAction) (Encounter, ActionResult, error) {
	return resolveContest(e, a.AttackerID, a.TargetID, ActionShove, func(e Encounter, attacker, target combatant.Combatant, won bool) (Encounter, combatant.Combatant, string) {
		if won && a.Mode == ShoveProne {
			target.Conditions = conditions.Add(target.Conditions, conditions.Prone, attacker.ID, conditions.PermanentDuration(), nil)
		}
		desc := fmt.Sprintf("%s shoves %s (%s)", attacker.Name, target.Name, a.Mode)
		if !won {
			desc = fmt.Sprintf("%s fails to shove %s", attacker.Name, target.Name)
		}
		return e, target, desc
	})
}

// resolveContest rolls attacker Athletics against the target's better of
// Athletics or Acrobatics, attacker winning ties, and hands both combatants
// plus the outcome to apply for the kind-specific side effect.
func resolveContest(e Encounter, attackerID, targetID string, actionType ActionType,
	apply func(e Encounter, attacker, target combatant.Combatant, won bool) (Encounter, combatant.Combatant, string),
) (Encounter, ActionResult, error) {
	e = e.Clone()
	attacker, ok := e.Find(attackerID)
	if !ok {
		return e, ActionResult{}, rpgerr.NotFound("combatant", attackerID)
	}
	target, ok := e.Find(targetID)
	if !ok {
		return e, ActionResult{}, rpgerr.NotFound("combatant", targetID)
	}
	if attacker.Resources.ActionUsed {
		return e, ActionResult{}, rpgerr.ResourceUnavailable("action", rpgerr.WithMeta("actor", attackerID))
	}

	defendMod := target.AthleticsMod
	if target.AcrobaticsMod > defendMod {
		defendMod = target.AcrobaticsMod
	}

	attackRoll, err := dice.RollD20Adv(e.Roller, dice.Normal)
	if err != nil {
		return e, ActionResult{}, err
	}
	defendRoll, err := dice.RollD20Adv(e.Roller, dice.Normal)
	if err != nil {
		return e, ActionResult{}, err
	}
	attackTotal := attackRoll.Kept + attacker.AthleticsMod
	defendTotal := defendRoll.Kept + defendMod
	won := attackTotal >= defendTotal

	e, target, description := apply(e, attacker, target, won)

	attacker.Resources.ActionUsed = true
	e.InitiativeOrder = replace(e.InitiativeOrder, attacker.ID, attacker)
	e.InitiativeOrder = replace(e.InitiativeOrder, target.ID, target)

	entry := LogEntry{
		ActorID: attacker.ID, ActorName: attacker.Name, ActionType: actionType,
		TargetIDs: []string{target.ID}, ActionDescription: description,
		DiceRolls: []DiceRoll{
			{Purpose: "contest_attacker", Notation: "d20", Total: attackTotal},
			{Purpose: "contest_defender", Notation: "d20", Total: defendTotal},
		},
		Outcome: outcomeLabel(won),
	}
	e = appendLog(e, entry)
	return e, ActionResult{Success: won, Description: description, LogEntry: entry}, nil
}

func outcomeLabel(won bool) string {
	if won {
		return "success"
	}
	return "failure"
}

// resolveMove and resolveStandUp implement §4.7.7.
func resolveMove(e Encounter, a MoveAction) (Encounter, ActionResult, error) {
	e = e.Clone()
	actor, ok := e.Find(a.ActorID)
	if !ok {
		return e, ActionResult{}, rpgerr.NotFound("combatant", a.ActorID)
	}
	if a.Distance > actor.Resources.MovementRemaining {
		return e, ActionResult{}, rpgerr.ResourceUnavailable("movement", rpgerr.WithMeta("actor", actor.ID))
	}

	actor.Resources.MovementRemaining -= a.Distance
	if a.NewPosition != nil {
		pos := *a.NewPosition
		actor.Position = &pos
	}
	e.InitiativeOrder = replace(e.InitiativeOrder, actor.ID, actor)

	description := fmt.Sprintf("%s moves %d feet", actor.Name, a.Distance)
	entry := LogEntry{ActorID: actor.ID, ActorName: actor.Name, ActionType: ActionMove, ActionDescription: description, Outcome: "success"}
	e = appendLog(e, entry)
	return e, ActionResult{Success: true, Description: description, LogEntry: entry}, nil
}

func resolveStandUp(e Encounter, a StandUpAction) (Encounter, ActionResult, error) {
	e = e.Clone()
	actor, ok := e.Find(a.ActorID)
	if !ok {
		return e, ActionResult{}, rpgerr.NotFound("combatant", a.ActorID)
	}
	if !conditions.Has(actor.Conditions, conditions.Prone) {
		return e, ActionResult{}, rpgerr.InvalidTarget("actor is not prone", rpgerr.WithMeta("actor", actor.ID))
	}
	cost := actor.Speed / 2
	if actor.Resources.MovementRemaining < cost {
		return e, ActionResult{}, rpgerr.ResourceUnavailable("movement", rpgerr.WithMeta("actor", actor.ID))
	}

	actor.Conditions, _ = conditions.Remove(actor.Conditions, conditions.Prone, "")
	actor.Resources.MovementRemaining -= cost
	e.InitiativeOrder = replace(e.InitiativeOrder, actor.ID, actor)

	description := fmt.Sprintf("%s stands up", actor.Name)
	entry := LogEntry{ActorID: actor.ID, ActorName: actor.Name, ActionType: ActionStandUp, ActionDescription: description, Outcome: "success"}
	e = appendLog(e, entry)
	return e, ActionResult{Success: true, Description: description, LogEntry: entry}, nil
}

// resolveDeathSave implements §4.7.8.
func resolveDeathSave(e Encounter, a DeathSaveAction) (Encounter, ActionResult, error) {
	e = e.Clone()
	actor, ok := e.Find(a.ActorID)
	if !ok {
		return e, ActionResult{}, rpgerr.NotFound("combatant", a.ActorID)
	}
	if actor.DeathSaves == nil {
		return e, ActionResult{}, rpgerr.InvalidTarget("actor is not making death saves", rpgerr.WithMeta("actor", actor.ID))
	}

	roll, err := dice.RollD20Adv(e.Roller, dice.Normal)
	if err != nil {
		return e, ActionResult{}, err
	}
	natural := roll.Kept

	var description, outcome string
	switch {
	case natural == 20:
		actor.HP.Current = 1
		actor.DeathSaves = &combatant.DeathSaves{}
		actor.Conditions, _ = conditions.Remove(actor.Conditions, conditions.Unconscious, "")
		description = fmt.Sprintf("%s rolls a natural 20 on their death save: restored to 1 HP", actor.Name)
		outcome = "critical_success"
	case natural == 1:
		actor.DeathSaves.Failures += 2
		if actor.DeathSaves.Failures > 3 {
			actor.DeathSaves.Failures = 3
		}
		description = fmt.Sprintf("%s rolls a natural 1 on their death save: two failures", actor.Name)
		outcome = "critical_failure"
	case natural >= 10:
		actor.DeathSaves.Successes++
		if actor.DeathSaves.Successes >= 3 {
			description = fmt.Sprintf("%s stabilizes after three successful death saves", actor.Name)
			outcome = "stabilized"
		} else {
			description = fmt.Sprintf("%s succeeds on a death save (%d/3)", actor.Name, actor.DeathSaves.Successes)
			outcome = "success"
		}
	default:
		actor.DeathSaves.Failures++
		if actor.DeathSaves.Failures >= 3 {
			description = fmt.Sprintf("%s dies after three failed death saves", actor.Name)
			outcome = "death"
		} else {
			description = fmt.Sprintf("%s fails a death save (%d/3)", actor.Name, actor.DeathSaves.Failures)
			outcome = "failure"
		}
	}

	e.InitiativeOrder = replace(e.InitiativeOrder, actor.ID, actor)
	e = migrateDefeated(e)

	entry := LogEntry{
		ActorID: actor.ID, ActorName: actor.Name, ActionType: ActionDeathSave,
		ActionDescription: description, Outcome: outcome,
		DiceRolls: []DiceRoll{{Purpose: "death_save", Notation: "d20", Total: natural}},
	}
	e = appendLog(e, entry)
	return e, ActionResult{Success: outcome != "death", Description: description, LogEntry: entry}, nil
}

// resolveEndTurn implements §4.7.9 and the tick/advance machinery of §4.6.
func resolveEndTurn(e Encounter, a EndTurnAction) (Encounter, ActionResult, error) {
	e = e.Clone()

	entry := LogEntry{ActorID: a.ActorID, ActionType: ActionEndTurn, ActionDescription: "Turn ended", Outcome: "success"}
	e = appendLog(e, entry)

	e = tickAndAdvance(e)

	return e, ActionResult{Success: true, Description: "Turn ended", LogEntry: entry}, nil
}
