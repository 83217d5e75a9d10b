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

package alerts

import (
	"fmt"
	"time"

	"github.com/mfreeman451/pathwatch/pkg/models"
)

type AlertLevel string

const (
	Info    AlertLevel = "info"
	Warning AlertLevel = "warning"
	Error   AlertLevel = "error"
)

type WebhookAlert struct {
	Level         AlertLevel     `json:"level"`
	Title         string         `json:"title"`
	Message       string         `json:"message"`
	Timestamp     string         `json:"timestamp"`
	NodeID        string         `json:"node_id"`
	NodeLabel     string         `json:"node_label"`
	EventID       string         `json:"event_id,omitempty"`
	PreviousState models.State   `json:"previous_state,omitempty"`
	CurrentState  models.State   `json:"current_state,omitempty"`
	Details       map[string]any `json:"details,omitempty"`
}

func levelFor(sev models.Severity) AlertLevel {
	switch sev {
	case models.SeverityHigh:
		return Error
	case models.SeverityMedium:
		return Warning
	case models.SeverityLow:
		return Info
	}

	return Info
}

// Title is the headline for a transition.
func Title(label string, prev, cur models.State) string {
	switch {
	case cur == models.StateOffline:
		return "Node Offline: " + label
	case prev == models.StateOffline:
		return "Node Back Online: " + label
	case cur == models.StateInactive && prev != models.StateInactive:
		return "Node Inactive: " + label
	case cur == models.StateDERP && prev != models.StateDERP:
		return "DERP Relay Fallback: " + label
	}

	return "Connection Changed: " + label
}

// FormatDuration renders seconds as "42s", "3m 12s" or "2h 14m".
func FormatDuration(seconds int64) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}

	minutes, sec := seconds/60, seconds%60
	hours, minutes := minutes/60, minutes%60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}

	return fmt.Sprintf("%dm %ds", minutes, sec)
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// NewTransitionAlert renders a transition and the check that caused it.
func NewTransitionAlert(ev *models.TransitionEvent, check *models.CheckRecord) *WebhookAlert {
	label := ev.NodeIP
	if check != nil && check.NodeLabel != "" {
		label = check.NodeLabel
	}

	alert := &WebhookAlert{
		Level:         levelFor(ev.Severity),
		Title:         Title(label, ev.PreviousState, ev.CurrentState),
		Message:       ev.Reason,
		Timestamp:     ev.TransitionedAt.UTC().Format(time.RFC3339),
		NodeID:        ev.NodeIP,
		NodeLabel:     label,
		EventID:       ev.EventID,
		PreviousState: ev.PreviousState,
		CurrentState:  ev.CurrentState,
		Details: map[string]any{
			"Node":           fmt.Sprintf("%s (%s)", label, ev.NodeIP),
			"Previous State": fmt.Sprintf("%s for %s", ev.PreviousState.Label(), FormatDuration(ev.DurationPreviousSeconds)),
			"Severity":       string(ev.Severity),
		},
	}

	current := ev.CurrentState.Label()

	if check == nil {
		alert.Details["Current State"] = current

		return alert
	}

	alert.Details["Current State"] = fmt.Sprintf("%s (%s confidence)", current, check.Confidence)

	ping := "Not run"
	if c := check.Confirmation; c != nil {
		ping = c.DominantRoute.Label()

		if len(c.Samples) > 0 {
			alert.Details["Latency"] = fmt.Sprintf("Min %.2fms / Avg %.2fms / Max %.2fms",
				millis(c.MinLatency), millis(c.AvgLatency), millis(c.MaxLatency))
		}

		alert.Details["Packet Loss"] = fmt.Sprintf("%.2f%%", c.LossPct)
	}

	alert.Details["Detection"] = fmt.Sprintf("Status: %s | Ping: %s", check.Evidence.StatusState.Label(), ping)

	region := ev.CurrentRegion
	if region == "" {
		region = check.Evidence.DERPRegion
	}

	if region != "" {
		alert.Details["DERP Region"] = region
	}

	return alert
}
