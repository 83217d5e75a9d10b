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

package db

import "time"

const (
	defaultHistoryLimit     = 100
	maxHistoryLimit         = 1000
	defaultTransitionsLimit = 50
	maxTransitionsLimit     = 500
)

// NodeRecord is a row of the node registry.
type NodeRecord struct {
	IP         string     `json:"ip"`
	Label      string     `json:"label"`
	Tags       []string   `json:"tags"`
	AddedAt    time.Time  `json:"added_at"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
}

// UptimeStats summarises a node's checks since a point in time. UptimePct is
// nil when there were no checks.
type UptimeStats struct {
	NodeIP    string             `json:"node_ip"`
	Since     time.Time          `json:"since"`
	Total     int                `json:"total"`
	UptimePct *float64           `json:"uptime_pct"`
	StatePct  map[string]float64 `json:"state_pct"`
}

func clampLimit(limit, def, upper int) int {
	switch {
	case limit <= 0:
		return def
	case limit > upper:
		return upper
	}

	return limit
}
