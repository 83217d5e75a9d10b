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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfreeman451/pathwatch/pkg/models"
)

const nodeIP = "100.64.0.2"

var t0 = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

func newTestEngine(cooldown time.Duration) *Engine {
	return NewEngine(Config{Cooldown: cooldown, ChannelsEnabled: true}).
		WithIDFunc(func() string { return "evt" })
}

func observe(state models.State, region string, at time.Time) Observation {
	return Observation{NodeIP: nodeIP, State: state, Region: region, Trigger: models.TriggerScheduled, At: at}
}

func TestEvaluate_HeldDirectThenDERP(t *testing.T) {
	e := newTestEngine(0)
	mem := Memory{State: models.StateDirect, Since: t0}

	out := e.Evaluate(mem, observe(models.StateDERP, "nyc", t0.Add(8040*time.Second)))

	require.NotNil(t, out.Event)
	assert.Equal(t, int64(8040), out.Event.DurationPreviousSeconds)
	assert.Equal(t, models.SeverityHigh, out.Event.Severity)
	assert.True(t, out.Event.Notified)
	assert.True(t, out.Notify)
	assert.Empty(t, out.Event.SuppressionReason)
	assert.Equal(t, "DIRECT -> DERP (scheduled check)", out.Event.Reason)
	assert.Equal(t, "evt", out.Event.EventID)
	assert.Equal(t, models.StateDERP, out.Memory.State)
	assert.Equal(t, t0.Add(8040*time.Second), out.Memory.Since)
}

func TestEvaluate_Idempotent(t *testing.T) {
	e := newTestEngine(0)
	mem := Memory{State: models.StateDirect, Since: t0}

	for i := 1; i <= 3; i++ {
		out := e.Evaluate(mem, observe(models.StateDirect, "", t0.Add(time.Duration(i)*time.Minute)))
		assert.Nil(t, out.Event)
		assert.False(t, out.Notify)

		mem = out.Memory
	}

	assert.Equal(t, t0, mem.Since)
}

func TestEvaluate_Cooldown(t *testing.T) {
	e := newTestEngine(time.Hour)
	mem := Memory{State: models.StateDirect, Since: t0}

	var events []*models.TransitionEvent

	steps := []models.State{models.StateDERP, models.StateDirect, models.StateDERP}
	for i, st := range steps {
		out := e.Evaluate(mem, observe(st, "nyc", t0.Add(time.Duration(i+1)*time.Minute)))
		require.NotNil(t, out.Event)

		events = append(events, out.Event)
		mem = out.Memory
	}

	// DIRECT->DERP twice within the window
	assert.True(t, events[0].Notified)
	assert.False(t, events[2].Notified)
	assert.Equal(t, SuppressedCooldown, events[2].SuppressionReason)

	// the reverse pair has its own key
	assert.True(t, events[1].Notified)

	out := e.Evaluate(Memory{State: models.StateDirect, LastNotified: mem.LastNotified},
		observe(models.StateDERP, "", t0.Add(2*time.Hour)))
	assert.True(t, out.Event.Notified)
}

func TestEvaluate_CooldownDoesNotMutateInput(t *testing.T) {
	e := newTestEngine(time.Hour)
	last := map[string]time.Time{"DERP->DIRECT": t0}
	mem := Memory{State: models.StateDirect, Since: t0, LastNotified: last}

	out := e.Evaluate(mem, observe(models.StateDERP, "", t0.Add(time.Minute)))

	require.True(t, out.Notify)
	assert.Len(t, last, 1)
	assert.Len(t, out.Memory.LastNotified, 2)
}

func TestEvaluate_Rules(t *testing.T) {
	tests := []struct {
		name         string
		prev         models.State
		cur          models.State
		wantSeverity models.Severity
		wantNotified bool
		wantReason   string
	}{
		{"offline to direct", models.StateOffline, models.StateDirect, models.SeverityHigh, true, ""},
		{"offline to inactive", models.StateOffline, models.StateInactive, models.SeverityHigh, true, ""},
		{"offline to unknown", models.StateOffline, models.StateUnknown, models.SeverityHigh, true, ""},
		{"direct to offline", models.StateDirect, models.StateOffline, models.SeverityHigh, true, ""},
		{"inactive to offline", models.StateInactive, models.StateOffline, models.SeverityHigh, true, ""},
		{"unknown to offline", models.StateUnknown, models.StateOffline, models.SeverityHigh, true, ""},
		{"derp to direct", models.StateDERP, models.StateDirect, models.SeverityHigh, true, ""},
		{"direct to peer relay", models.StateDirect, models.StatePeerRelay, models.SeverityMedium, true, ""},
		{"peer relay to derp", models.StatePeerRelay, models.StateDERP, models.SeverityMedium, true, ""},
		{"direct to inactive", models.StateDirect, models.StateInactive, models.SeverityLow, false, SuppressedNonNotifying},
		{"inactive to derp", models.StateInactive, models.StateDERP, models.SeverityLow, false, SuppressedNonNotifying},
		{"unknown to direct", models.StateUnknown, models.StateDirect, models.SeverityLow, false, SuppressedNonNotifying},
		{"derp to unknown", models.StateDERP, models.StateUnknown, models.SeverityLow, false, SuppressedNonNotifying},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(0)

			out := e.Evaluate(Memory{State: tt.prev, Since: t0}, observe(tt.cur, "", t0.Add(time.Minute)))

			require.NotNil(t, out.Event)
			assert.Equal(t, tt.prev, out.Event.PreviousState)
			assert.Equal(t, tt.cur, out.Event.CurrentState)
			assert.Equal(t, tt.wantSeverity, out.Event.Severity)
			assert.Equal(t, tt.wantNotified, out.Event.Notified)
			assert.Equal(t, tt.wantReason, out.Event.SuppressionReason)
			assert.Equal(t, tt.cur, out.Memory.State)
		})
	}
}

func TestEvaluate_NoChannels(t *testing.T) {
	e := NewEngine(Config{})

	out := e.Evaluate(Memory{State: models.StateDirect, Since: t0}, observe(models.StateOffline, "", t0.Add(time.Minute)))

	require.NotNil(t, out.Event)
	assert.False(t, out.Notify)
	assert.Equal(t, SuppressedNoChannels, out.Event.SuppressionReason)
	assert.NotEmpty(t, out.Event.EventID)
	assert.Empty(t, out.Memory.LastNotified)
}

func TestEvaluate_RegionChange(t *testing.T) {
	e := newTestEngine(0)
	mem := Memory{State: models.StateDERP, Region: "nyc", Since: t0}

	out := e.Evaluate(mem, observe(models.StateDERP, "fra", t0.Add(10*time.Minute)))

	require.NotNil(t, out.Event)
	assert.Equal(t, models.SeverityLow, out.Event.Severity)
	assert.True(t, out.Event.Notified)
	assert.Equal(t, "nyc", out.Event.PreviousRegion)
	assert.Equal(t, "fra", out.Event.CurrentRegion)
	assert.Equal(t, "DERP region changed: nyc -> fra (scheduled check)", out.Event.Reason)
	assert.Equal(t, int64(600), out.Event.DurationPreviousSeconds)
	assert.Contains(t, out.Memory.LastNotified, RegionChangeKey)

	// state did not change, so the state clock keeps running
	assert.Equal(t, t0, out.Memory.Since)
	assert.Equal(t, "fra", out.Memory.Region)
}

func TestEvaluate_UnknownRegionIsNotAChange(t *testing.T) {
	e := newTestEngine(0)

	out := e.Evaluate(Memory{State: models.StateDERP, Region: "nyc", Since: t0}, observe(models.StateDERP, "", t0.Add(time.Minute)))
	assert.Nil(t, out.Event)

	out = e.Evaluate(out.Memory, observe(models.StateDERP, "fra", t0.Add(2*time.Minute)))
	assert.Nil(t, out.Event)
}

func TestEvaluate_FirstEverCheck(t *testing.T) {
	e := newTestEngine(0)

	out := e.Evaluate(NewMemory(), observe(models.StateDirect, "", t0))

	require.NotNil(t, out.Event)
	assert.Equal(t, models.StateUnknown, out.Event.PreviousState)
	assert.Equal(t, int64(0), out.Event.DurationPreviousSeconds)
	assert.False(t, out.Event.Notified)
	assert.Equal(t, t0, out.Memory.Since)
}

func TestEvaluate_SuspectIsRecordedAsUnknown(t *testing.T) {
	e := newTestEngine(0)

	out := e.Evaluate(Memory{State: models.StateUnknown, Since: t0}, observe(models.StateDERPSuspect, "", t0.Add(time.Minute)))

	assert.Nil(t, out.Event)
	assert.Equal(t, models.StateUnknown, out.Memory.State)
}

func TestEvaluate_ClockSkewClampsDuration(t *testing.T) {
	e := newTestEngine(0)

	out := e.Evaluate(Memory{State: models.StateDirect, Since: t0}, observe(models.StateDERP, "", t0.Add(-time.Minute)))

	require.NotNil(t, out.Event)
	assert.Equal(t, int64(0), out.Event.DurationPreviousSeconds)
}

func TestEvaluate_RestartedWithSameState(t *testing.T) {
	e := newTestEngine(0)

	// memory seeded from the last persisted transition
	mem := Memory{State: models.StateOffline, Since: t0}

	out := e.Evaluate(mem, observe(models.StateOffline, "", t0.Add(time.Hour)))
	assert.Nil(t, out.Event)
	assert.False(t, out.Notify)
}

func TestSeverityIsSymmetric(t *testing.T) {
	for _, a := range models.States {
		for _, b := range models.States {
			assert.Equal(t, Severity(a, b, false), Severity(b, a, false), "%s/%s", a, b)
		}
	}
}
