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

package config

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mfreeman451/pathwatch/pkg/models"
)

type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		// parse numeric as nanoseconds
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: %w", errInvalidDuration, err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

// UnmarshalYAML accepts "5m" style strings; bare numbers are seconds.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d", errInvalidDuration, node.Line)
	}

	if tag := node.ShortTag(); tag == "!!int" || tag == "!!float" {
		var secs float64
		if err := node.Decode(&secs); err != nil {
			return fmt.Errorf("%w: %w", errInvalidDuration, err)
		}

		*d = Duration(time.Duration(secs * float64(time.Second)))

		return nil
	}

	dur, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidDuration, err)
	}

	*d = Duration(dur)

	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Node is one monitored peer as written in the config file.
type Node struct {
	IP            string   `json:"ip" yaml:"ip"`
	Label         string   `json:"label" yaml:"label"`
	Tags          []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	CheckInterval Duration `json:"check_interval,omitempty" yaml:"check_interval,omitempty"`
}

type ConfirmationConfig struct {
	Enabled bool     `json:"enabled" yaml:"enabled"`
	Samples int      `json:"samples" yaml:"samples"`
	Timeout Duration `json:"timeout" yaml:"timeout"`
}

// Settings tune the check pipeline.
type Settings struct {
	CheckInterval        Duration           `json:"check_interval" yaml:"check_interval"`
	OfflineStaleness     Duration           `json:"offline_staleness" yaml:"offline_staleness"`
	Confirmation         ConfirmationConfig `json:"confirmation" yaml:"confirmation"`
	NotificationCooldown Duration           `json:"notification_cooldown" yaml:"notification_cooldown"`
	DataRetention        Duration           `json:"data_retention" yaml:"data_retention"`
	ShutdownGrace        Duration           `json:"shutdown_grace" yaml:"shutdown_grace"`
}

type TailscaleConfig struct {
	Binary              string   `json:"binary" yaml:"binary"`
	Socket              string   `json:"socket" yaml:"socket"`
	StatusTimeout       Duration `json:"status_timeout" yaml:"status_timeout"`
	StatusCacheTTL      Duration `json:"status_cache_ttl" yaml:"status_cache_ttl"`
	MaxConcurrentProbes int64    `json:"max_concurrent_probes" yaml:"max_concurrent_probes"`
}

type TrafficConfig struct {
	Enabled bool     `json:"enabled" yaml:"enabled"`
	URL     string   `json:"url" yaml:"url"`
	Timeout Duration `json:"timeout" yaml:"timeout"`
}

// WebhookConfig represents a webhook notification configuration.
type WebhookConfig struct {
	Enabled  bool     `json:"enabled" yaml:"enabled"`
	Name     string   `json:"name,omitempty" yaml:"name,omitempty"`
	URL      string   `json:"url" yaml:"url"`
	Template string   `json:"template,omitempty" yaml:"template,omitempty"`
	Headers  []Header `json:"headers,omitempty" yaml:"headers,omitempty"` // Optional custom headers
}

// Header represents a custom HTTP header.
type Header struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

type NtfyConfig struct {
	URL   string `json:"url,omitempty" yaml:"url,omitempty"`
	Topic string `json:"topic,omitempty" yaml:"topic,omitempty"`
	Token string `json:"token,omitempty" yaml:"token,omitempty"`
}

type NotificationsConfig struct {
	DiscordWebhookURL string          `json:"discord_webhook_url,omitempty" yaml:"discord_webhook_url,omitempty"`
	Ntfy              NtfyConfig      `json:"ntfy" yaml:"ntfy"`
	Webhooks          []WebhookConfig `json:"webhooks,omitempty" yaml:"webhooks,omitempty"`
	SendTimeout       Duration        `json:"send_timeout" yaml:"send_timeout"`
}

type ServerConfig struct {
	ListenAddr     string  `json:"listen_addr" yaml:"listen_addr"`
	GRPCAddr       string  `json:"grpc_addr,omitempty" yaml:"grpc_addr,omitempty"` // health endpoint, disabled when empty
	MaxConnections int     `json:"max_connections" yaml:"max_connections"`
	TriggerRate    float64 `json:"trigger_rate" yaml:"trigger_rate"` // manual triggers per second
	TriggerBurst   int     `json:"trigger_burst" yaml:"trigger_burst"`
}

type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // json or console
}

// Config is the complete monitor configuration.
type Config struct {
	DBPath        string               `json:"db_path" yaml:"db_path"`
	Settings      Settings             `json:"settings" yaml:"settings"`
	Tailscale     TailscaleConfig      `json:"tailscale" yaml:"tailscale"`
	Traffic       TrafficConfig        `json:"traffic" yaml:"traffic"`
	Notifications NotificationsConfig  `json:"notifications" yaml:"notifications"`
	Server        ServerConfig         `json:"server" yaml:"server"`
	Logging       LoggingConfig        `json:"logging" yaml:"logging"`
	Metrics       models.MetricsConfig `json:"metrics" yaml:"metrics"`
	Nodes         []Node               `json:"nodes" yaml:"nodes"`
}
