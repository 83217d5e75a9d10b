/*-
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package models pkg/models/state.go holds the closed enumerations shared by
// the classification pipeline.
package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidState      = errors.New("invalid state")
	ErrInvalidConfidence = errors.New("invalid confidence")
)

// State is the routing path a peer is classified into.
type State string

const (
	StateOffline     State = "OFFLINE"
	StateInactive    State = "INACTIVE"
	StateDirect      State = "DIRECT"
	StatePeerRelay   State = "PEER_RELAY"
	StateDERPSuspect State = "DERP_SUSPECT"
	StateDERP        State = "DERP"
	StateUnknown     State = "UNKNOWN"
)

// States lists every state in a stable order.
var States = []State{
	StateOffline,
	StateInactive,
	StateDirect,
	StatePeerRelay,
	StateDERPSuspect,
	StateDERP,
	StateUnknown,
}

// Valid reports whether s is one of the enumerated states.
func (s State) Valid() bool {
	for _, st := range States {
		if s == st {
			return true
		}
	}

	return false
}

// Persistable reports whether s may be stored as a final check state.
// DERP_SUSPECT only exists between classification and confirmation.
func (s State) Persistable() bool {
	return s.Valid() && s != StateDERPSuspect
}

// Label is the human readable name used in notifications.
func (s State) Label() string {
	switch s {
	case StatePeerRelay:
		return "SPEED RELAY"
	case StateDERP:
		return "RELAY (DERP)"
	case StateDERPSuspect:
		return "RELAY (SUSPECTED)"
	case StateOffline, StateInactive, StateDirect, StateUnknown:
		return string(s)
	}

	return string(s)
}

// ParseState converts a stored string back into a State.
func ParseState(v string) (State, error) {
	s := State(v)
	if !s.Valid() {
		return StateUnknown, fmt.Errorf("%w: %q", ErrInvalidState, v)
	}

	return s, nil
}

// Confidence grades how strongly the evidence supports a state.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Rank orders confidence tiers; higher is stronger.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	}

	return 0
}

// ParseConfidence converts a stored string back into a Confidence.
func ParseConfidence(v string) (Confidence, error) {
	c := Confidence(v)
	if c.Rank() == 0 {
		return ConfidenceLow, fmt.Errorf("%w: %q", ErrInvalidConfidence, v)
	}

	return c, nil
}

// Severity tiers a transition for notification rendering.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Basis records which classifier rule produced a result.
type Basis string

const (
	BasisPeerAbsent        Basis = "peer_absent"
	BasisExplicitOffline   Basis = "explicit_offline"
	BasisStaleLastSeen     Basis = "stale_last_seen"
	BasisExplicitField     Basis = "explicit_field"
	BasisNeedsConfirmation Basis = "needs_confirmation"
	BasisMalformed         Basis = "malformed"
	BasisProbeFailed       Basis = "probe_failed"
)

// Trigger says what started a check cycle.
type Trigger string

const (
	TriggerStartup   Trigger = "startup"
	TriggerScheduled Trigger = "scheduled"
	TriggerManual    Trigger = "manual"
)
