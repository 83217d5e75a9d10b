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

package transition

import (
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/mfreeman451/pathwatch/pkg/models"
)

const (
	SuppressedNonNotifying = "non-notifying transition"
	SuppressedCooldown     = "cooldown"
	SuppressedNoChannels   = "no notification channels"
)

// Memory is what the engine remembers about one node between cycles.
type Memory struct {
	State  models.State
	Region string
	// Since is when the current state began. Zero means no check has been
	// seen yet.
	Since        time.Time
	LastNotified map[string]time.Time
}

// NewMemory is the memory of a node with no persisted history.
func NewMemory() Memory {
	return Memory{State: models.StateUnknown}
}

// Observation is the final result of one check cycle.
type Observation struct {
	NodeIP  string
	State   models.State
	Region  string
	Trigger models.Trigger
	At      time.Time
}

// Outcome is the result of evaluating one observation. Event is nil when
// nothing changed. Memory replaces the caller's memory.
type Outcome struct {
	Event  *models.TransitionEvent
	Notify bool
	Memory Memory
}

type Config struct {
	Cooldown time.Duration
	// ChannelsEnabled is false when no notification channel is configured.
	ChannelsEnabled bool
}

// Engine decides whether an observation is a transition and whether it
// should be announced. Evaluate does not touch its inputs.
type Engine struct {
	config Config
	newID  func() string
}

func NewEngine(cfg Config) *Engine {
	return &Engine{config: cfg, newID: uuid.NewString}
}

// WithIDFunc replaces the event ID generator.
func (e *Engine) WithIDFunc(fn func() string) *Engine {
	e.newID = fn

	return e
}

func (e *Engine) Evaluate(mem Memory, obs Observation) Outcome {
	cur := obs.State
	if cur == models.StateDERPSuspect {
		cur = models.StateUnknown
	}

	prev := mem.State
	if prev == "" {
		prev = models.StateUnknown
	}

	next := Memory{
		State:        prev,
		Region:       obs.Region,
		Since:        mem.Since,
		LastNotified: mem.LastNotified,
	}

	if next.Since.IsZero() {
		next.Since = obs.At
	}

	stateChange := prev != cur
	regionChange := !stateChange && cur == models.StateDERP &&
		mem.Region != "" && obs.Region != "" && mem.Region != obs.Region

	if !stateChange && !regionChange {
		return Outcome{Memory: next}
	}

	ev := &models.TransitionEvent{
		EventID:                 e.newID(),
		NodeIP:                  obs.NodeIP,
		TransitionedAt:          obs.At,
		PreviousState:           prev,
		CurrentState:            cur,
		PreviousRegion:          mem.Region,
		CurrentRegion:           obs.Region,
		DurationPreviousSeconds: durationSeconds(mem.Since, obs.At),
		Severity:                Severity(prev, cur, regionChange),
		Reason:                  reason(prev, cur, mem.Region, obs.Region, regionChange, obs.Trigger),
	}

	if stateChange {
		next.State = cur
		next.Since = obs.At
	}

	key := CooldownKey(prev, cur, regionChange)

	switch {
	case !Notifies(prev, cur, regionChange):
		ev.SuppressionReason = SuppressedNonNotifying
	case e.inCooldown(mem.LastNotified, key, obs.At):
		ev.SuppressionReason = SuppressedCooldown
	case !e.config.ChannelsEnabled:
		ev.SuppressionReason = SuppressedNoChannels
	default:
		ev.Notified = true

		next.LastNotified = maps.Clone(mem.LastNotified)
		if next.LastNotified == nil {
			next.LastNotified = make(map[string]time.Time)
		}

		next.LastNotified[key] = obs.At
	}

	return Outcome{Event: ev, Notify: ev.Notified, Memory: next}
}

func (e *Engine) inCooldown(last map[string]time.Time, key string, now time.Time) bool {
	if e.config.Cooldown <= 0 {
		return false
	}

	at, ok := last[key]
	if !ok {
		return false
	}

	return now.Sub(at) < e.config.Cooldown
}

func durationSeconds(since, now time.Time) int64 {
	if since.IsZero() {
		return 0
	}

	d := int64(now.Sub(since) / time.Second)
	if d < 0 {
		return 0
	}

	return d
}

func reason(prev, cur models.State, oldRegion, newRegion string, regionChange bool, trigger models.Trigger) string {
	if trigger == "" {
		trigger = models.TriggerScheduled
	}

	if regionChange {
		return fmt.Sprintf("DERP region changed: %s -> %s (%s check)", oldRegion, newRegion, trigger)
	}

	return fmt.Sprintf("%s -> %s (%s check)", prev, cur, trigger)
}
