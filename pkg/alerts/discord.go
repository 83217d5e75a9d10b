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
	"go.uber.org/zap"

	"github.com/mfreeman451/pathwatch/pkg/models"
)

const (
	DiscordColorRed    = 16711680 // OFFLINE
	DiscordColorGreen  = 51411    // DIRECT
	DiscordColorYellow = 16766464 // PEER_RELAY
	DiscordColorOrange = 16740608 // DERP
	DiscordColorBlue   = 5793266  // INACTIVE
	DiscordColorGrey   = 8421504  // UNKNOWN
)

// StateColor is the embed color for a state.
func StateColor(s models.State) int {
	switch s {
	case models.StateOffline:
		return DiscordColorRed
	case models.StateDirect:
		return DiscordColorGreen
	case models.StatePeerRelay:
		return DiscordColorYellow
	case models.StateDERP:
		return DiscordColorOrange
	case models.StateInactive:
		return DiscordColorBlue
	case models.StateDERPSuspect, models.StateUnknown:
		return DiscordColorGrey
	}

	return DiscordColorGrey
}

const DiscordTemplate = `{
  "content": {{json (truncate 1900 (printf "%s | %s" .alert.Title .alert.Message))}},
  "allowed_mentions": {"parse": []},
  "embeds": [{
    "title": {{json .alert.Title}},
    "description": {{json .alert.Message}},
    "color": {{color .alert.CurrentState}},
    "timestamp": {{json .alert.Timestamp}},
    "footer": {"text": "pathwatch"},
    "fields": [
      {
        "name": "Node ID",
        "value": {{json .alert.NodeID}},
        "inline": true
      }
      {{range $key, $value := .alert.Details}},
      {
        "name": {{json $key}},
        "value": {{json $value}},
        "inline": true
      }
      {{end}}
    ]
  }]
}`

func NewDiscordWebhook(webhookURL string, logger *zap.Logger) (*WebhookAlerter, error) {
	return NewWebhookAlerter(WebhookConfig{
		Enabled:  true,
		Name:     "discord",
		URL:      webhookURL,
		Template: DiscordTemplate,
	}, logger)
}
