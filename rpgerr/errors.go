// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

// Package rpgerr provides the combat core's structured error type. Every
// public operation that can fail returns one of a finite set of Codes so
// callers can branch on failure kind without string matching.
package rpgerr

import (
	"errors"
	"fmt"
)

// Code is one of the finite error kinds the combat core can return.
type Code string

const (
	// CodeNotFound indicates a referenced combatant id is absent.
	CodeNotFound Code = "not_found"
	// CodeNotYourTurn indicates the action's actor is not the current combatant.
	CodeNotYourTurn Code = "not_your_turn"
	// CodeResourceUnavailable indicates an action/bonus-action/reaction already
	// used, insufficient movement, or no spell slot remaining.
	CodeResourceUnavailable Code = "resource_unavailable"
	// CodeInvalidTarget indicates targeting a defeated combatant, or self where forbidden.
	CodeInvalidTarget Code = "invalid_target"
	// CodeInvalidNotation indicates a dice string failed ParseDice.
	CodeInvalidNotation Code = "invalid_notation"
	// CodeIncapacitated indicates the actor cannot act. Not used for Attack
	// (which resolves as an auto-fail success instead of an error).
	CodeIncapacitated Code = "incapacitated"
	// CodeUnknown indicates a registry lookup failed (e.g. unknown spell name).
	CodeUnknown Code = "unknown"
)

// Error is the combat core's error type: a code, a human-readable message
// suitable for surfacing to a transport layer, an optional wrapped cause, and
// free-form metadata about the game state at the point of failure.
type Error struct {
	Code    Code
	Message string
	Cause   error
	Meta    map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "rpgerr: nil error"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Option configures an *Error at construction time.
type Option func(*Error)

// WithMeta attaches a game-state key/value pair to the error.
func WithMeta(key string, value any) Option {
	return func(e *Error) {
		if e.Meta == nil {
			e.Meta = make(map[string]any)
		}
		e.Meta[key] = value
	}
}

// New creates an *Error with the given code and message.
func New(code Code, message string, opts ...Option) *Error {
	e := &Error{Code: code, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Newf creates an *Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps cause with an *Error carrying the given code and message.
func Wrap(cause error, code Code, message string, opts ...Option) *Error {
	e := New(code, message, opts...)
	e.Cause = cause
	return e
}

// GetCode extracts the Code from any error, defaulting to CodeUnknown.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e.Code
	}
	return CodeUnknown
}

// GetMeta extracts the metadata map from any error, or nil.
func GetMeta(err error) map[string]any {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e.Meta
	}
	return nil
}

// NotFound creates a CodeNotFound error for a missing combatant id.
func NotFound(kind, id string, opts ...Option) *Error {
	return New(CodeNotFound, fmt.Sprintf("%s %q not found", kind, id), opts...)
}

// NotYourTurn creates a CodeNotYourTurn error.
func NotYourTurn(actorID, currentID string, opts ...Option) *Error {
	return New(CodeNotYourTurn, fmt.Sprintf("it is not %s's turn (current: %s)", actorID, currentID), opts...)
}

// ResourceUnavailable creates a CodeResourceUnavailable error.
func ResourceUnavailable(resource string, opts ...Option) *Error {
	return New(CodeResourceUnavailable, fmt.Sprintf("%s unavailable", resource), opts...)
}

// InvalidTarget creates a CodeInvalidTarget error.
func InvalidTarget(reason string, opts ...Option) *Error {
	return New(CodeInvalidTarget, fmt.Sprintf("invalid target: %s", reason), opts...)
}

// InvalidNotation creates a CodeInvalidNotation error.
func InvalidNotation(notation string, opts ...Option) *Error {
	return New(CodeInvalidNotation, fmt.Sprintf("invalid dice notation: %q", notation), opts...)
}

// Incapacitated creates a CodeIncapacitated error.
func Incapacitated(actorID string, opts ...Option) *Error {
	return New(CodeIncapacitated, fmt.Sprintf("%s is incapacitated", actorID), opts...)
}

// Unknown creates a CodeUnknown error, e.g. for an unregistered spell name.
func Unknown(what string, opts ...Option) *Error {
	return New(CodeUnknown, fmt.Sprintf("unknown %s", what), opts...)
}
