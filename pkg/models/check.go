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

package models

import "time"

// NodeConfig identifies one monitored peer.
type NodeConfig struct {
	IP            string        `json:"ip"`
	Label         string        `json:"label"`
	Tags          []string      `json:"tags,omitempty"`
	CheckInterval time.Duration `json:"check_interval,omitempty"` // zero means the global default
}

// PeerStatusSnapshot holds the raw per-peer fields from one status read.
type PeerStatusSnapshot struct {
	Online    *bool     `json:"online,omitempty"` // nil when the status output did not say
	Active    bool      `json:"active"`
	CurAddr   string    `json:"cur_addr,omitempty"`
	PeerRelay string    `json:"peer_relay,omitempty"`
	Relay     string    `json:"relay,omitempty"` // relay hint, advisory only
	LastSeen  time.Time `json:"last_seen,omitempty"`
	HostName  string    `json:"host_name,omitempty"`
	DNSName   string    `json:"dns_name,omitempty"`
}

// Evidence is the set of signals that justified a classification.
type Evidence struct {
	Basis       Basis     `json:"basis"`
	StatusState State     `json:"status_state"`
	CurAddr     string    `json:"cur_addr,omitempty"`
	PeerRelay   string    `json:"peer_relay,omitempty"`
	RelayHint   string    `json:"relay_hint,omitempty"`
	DERPRegion  string    `json:"derp_region,omitempty"`
	LastSeen    time.Time `json:"last_seen,omitempty"`
	Detail      string    `json:"detail,omitempty"`
}

// ClassificationResult is produced fresh every cycle and never mutated.
type ClassificationResult struct {
	State      State      `json:"state"`
	Confidence Confidence `json:"confidence"`
	Evidence   Evidence   `json:"evidence"`
}

// ProbeSample is one parsed line of confirmation probe output.
type ProbeSample struct {
	Route    State         `json:"route"`
	Region   string        `json:"region,omitempty"`
	Endpoint string        `json:"endpoint,omitempty"`
	Latency  time.Duration `json:"latency"`
	Line     string        `json:"line"`
}

// ConfirmationResult aggregates the samples of one confirmation probe run.
type ConfirmationResult struct {
	Requested            int           `json:"requested"`
	Samples              []ProbeSample `json:"samples,omitempty"`
	DominantRoute        State         `json:"dominant_route"`
	Region               string        `json:"region,omitempty"`
	DirectNotEstablished bool          `json:"direct_not_established"`
	MinLatency           time.Duration `json:"min_latency"`
	AvgLatency           time.Duration `json:"avg_latency"`
	MaxLatency           time.Duration `json:"max_latency"`
	LossPct              float64       `json:"loss_pct"`
	Raw                  string        `json:"raw,omitempty"`
	ExitError            string        `json:"exit_error,omitempty"`
	TimedOut             bool          `json:"timed_out"`
}

// Usable reports whether the probe produced anything to reason about.
func (c *ConfirmationResult) Usable() bool {
	return c != nil && (len(c.Samples) > 0 || c.DirectNotEstablished)
}

// TrafficDelta is the per-path byte growth observed between two cycles.
type TrafficDelta struct {
	Direct    int64 `json:"direct"`
	PeerRelay int64 `json:"peer_relay"`
	DERP      int64 `json:"derp"`
}

// CheckRecord is the persisted, append-only fact of one cycle.
type CheckRecord struct {
	ID           int64               `json:"id,omitempty"`
	NodeIP       string              `json:"node_ip"`
	NodeLabel    string              `json:"node_label"`
	CheckedAt    time.Time           `json:"checked_at"`
	State        State               `json:"state"`
	Confidence   Confidence          `json:"confidence"`
	Trigger      Trigger             `json:"trigger"`
	Evidence     Evidence            `json:"evidence"`
	Confirmation *ConfirmationResult `json:"confirmation,omitempty"`
	Traffic      *TrafficDelta       `json:"traffic,omitempty"`
}

// TransitionEvent is the persisted, append-only fact of a state change.
type TransitionEvent struct {
	ID                      int64     `json:"id,omitempty"`
	EventID                 string    `json:"event_id"`
	NodeIP                  string    `json:"node_ip"`
	TransitionedAt          time.Time `json:"transitioned_at"`
	PreviousState           State     `json:"previous_state"`
	CurrentState            State     `json:"current_state"`
	PreviousRegion          string    `json:"previous_region,omitempty"`
	CurrentRegion           string    `json:"current_region,omitempty"`
	DurationPreviousSeconds int64     `json:"duration_previous_seconds"`
	Severity                Severity  `json:"severity"`
	Notified                bool      `json:"notified"`
	SuppressionReason       string    `json:"suppression_reason,omitempty"`
	Reason                  string    `json:"reason"`
}

// RuntimeSnapshot is the dashboard view of a node's in-memory state.
type RuntimeSnapshot struct {
	NodeIP      string     `json:"node_ip"`
	Label       string     `json:"label"`
	Tags        []string   `json:"tags,omitempty"`
	State       State      `json:"state"`
	Confidence  Confidence `json:"confidence"`
	Region      string     `json:"region,omitempty"`
	LastChecked time.Time  `json:"last_checked"`
	StateSince  time.Time  `json:"state_since"`
	InFlight    bool       `json:"in_flight"`
}
