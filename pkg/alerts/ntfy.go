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
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mfreeman451/pathwatch/pkg/models"
)

var errNtfyStatus = errors.New("ntfy returned non-2xx status")

type NtfyConfig struct {
	Enabled bool          `json:"enabled" yaml:"enabled"`
	URL     string        `json:"url" yaml:"url"`
	Topic   string        `json:"topic" yaml:"topic"`
	Token   string        `json:"token,omitempty" yaml:"token,omitempty"`
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// NtfyAlerter publishes plain text messages to an ntfy topic.
type NtfyAlerter struct {
	config NtfyConfig
	client *http.Client
	logger *zap.Logger
}

func NewNtfyAlerter(config NtfyConfig, logger *zap.Logger) *NtfyAlerter {
	if logger == nil {
		logger = zap.NewNop()
	}

	if config.Timeout <= 0 {
		config.Timeout = defaultWebhookTimeout
	}

	return &NtfyAlerter{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger.With(zap.String("channel", "ntfy")),
	}
}

func (n *NtfyAlerter) IsEnabled() bool {
	return n.config.Enabled && n.config.URL != "" && n.config.Topic != ""
}

func (*NtfyAlerter) Name() string {
	return "ntfy"
}

func (n *NtfyAlerter) endpoint() string {
	return strings.TrimRight(n.config.URL, "/") + "/" + strings.TrimLeft(n.config.Topic, "/")
}

func (n *NtfyAlerter) Alert(ctx context.Context, alert *WebhookAlert) error {
	if !n.IsEnabled() {
		return errWebhookDisabled
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint(), strings.NewReader(ntfyBody(alert)))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Title", fmt.Sprintf("TS: %s -> %s", alert.NodeLabel, alert.CurrentState.Label()))
	req.Header.Set("Priority", NtfyPriority(alert.PreviousState, alert.CurrentState))
	req.Header.Set("Tags", strings.Join(ntfyTags(alert), ","))
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	if n.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+n.config.Token)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send ntfy message: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			n.logger.Warn("failed to close response body", zap.Error(err))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		return fmt.Errorf("%w: status=%d body=%s", errNtfyStatus, resp.StatusCode, string(bytes.TrimSpace(body)))
	}

	return nil
}

// NtfyPriority maps a transition to an ntfy priority name.
func NtfyPriority(prev, cur models.State) string {
	switch {
	case cur == models.StateOffline:
		return "urgent"
	case cur == models.StateDERP:
		return "high"
	case cur == models.StateInactive:
		return "low"
	case prev == models.StateOffline && cur == models.StateDirect:
		return "low"
	}

	return "default"
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

func ntfyTags(alert *WebhookAlert) []string {
	tags := []string{"tailscale", strings.ToLower(string(alert.CurrentState))}

	if slug := strings.Trim(slugRe.ReplaceAllString(strings.ToLower(alert.NodeLabel), "-"), "-"); slug != "" {
		tags = append(tags, slug)
	}

	return tags
}

var ntfyFieldOrder = []string{
	"Node", "Previous State", "Current State", "Detection", "Latency", "Packet Loss", "DERP Region",
}

func ntfyBody(alert *WebhookAlert) string {
	var b strings.Builder

	b.WriteString(alert.Message)

	for _, key := range ntfyFieldOrder {
		v, ok := alert.Details[key]
		if !ok {
			continue
		}

		fmt.Fprintf(&b, "\n%s: %v", key, v)
	}

	return b.String()
}
