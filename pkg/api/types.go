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

package api

import (
	"time"

	"github.com/mfreeman451/pathwatch/pkg/db"
	"github.com/mfreeman451/pathwatch/pkg/models"
	"github.com/mfreeman451/pathwatch/pkg/scheduler"
)

// NodeDetail is the response of GET /api/nodes/{ip}.
type NodeDetail struct {
	models.RuntimeSnapshot
	LatestCheck *models.CheckRecord      `json:"latest_check,omitempty"`
	Transitions []models.TransitionEvent `json:"recent_transitions"`
}

// TriggerResponse is returned by the per-node check endpoint.
type TriggerResponse struct {
	NodeIP string           `json:"node_ip"`
	Result scheduler.Result `json:"result"`
}

// SystemStats summarises every node over a window.
type SystemStats struct {
	Window     string               `json:"window"`
	Since      time.Time            `json:"since"`
	TotalNodes int                  `json:"total_nodes"`
	InFlight   int                  `json:"in_flight"`
	ByState    map[models.State]int `json:"by_state"`
	Nodes      []*db.UptimeStats    `json:"nodes"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// StreamMessage is one frame on the websocket stream.
type StreamMessage struct {
	Type  string                  `json:"type"`
	Event *models.TransitionEvent `json:"event"`
}
