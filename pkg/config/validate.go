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
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/mfreeman451/pathwatch/pkg/models"
)

const (
	DefaultCheckInterval       = 5 * time.Minute
	MinCheckInterval           = 5 * time.Second
	DefaultOfflineStaleness    = 10 * time.Minute
	DefaultConfirmationSamples = 3
	MinConfirmationSamples     = 1
	MaxConfirmationSamples     = 20
	DefaultConfirmationTimeout = 15 * time.Second
	DefaultDataRetention       = 30 * 24 * time.Hour
	DefaultShutdownGrace       = 5 * time.Second
	DefaultListenAddr          = ":8080"
	DefaultDBPath              = "data/pathwatch.db"
	DefaultTailscaleBinary     = "tailscale"
	DefaultTailscaleSocket     = "/var/run/tailscale/tailscaled.sock"
	DefaultStatusTimeout       = 10 * time.Second
	DefaultStatusCacheTTL      = 2 * time.Second
	DefaultMaxConcurrentProbes = 4
	DefaultMaxConnections      = 256
	DefaultTriggerRate         = 1.0
	DefaultTriggerBurst        = 5
	DefaultSendTimeout         = 15 * time.Second
	DefaultMetricsRetention    = 100
)

var (
	errNodeIPRequired   = errors.New("node ip is required")
	errInvalidNodeIP    = errors.New("node ip is not a valid address")
	errDuplicateNodeIP  = errors.New("duplicate node ip")
	errNegativeDuration = errors.New("duration must not be negative")
	errDBPathRequired   = errors.New("db_path is required")
	errBinaryRequired   = errors.New("tailscale.binary is required")
)

// Default returns a configuration with every default filled in and no nodes.
func Default() *Config {
	return &Config{
		DBPath: DefaultDBPath,
		Settings: Settings{
			CheckInterval:    Duration(DefaultCheckInterval),
			OfflineStaleness: Duration(DefaultOfflineStaleness),
			Confirmation: ConfirmationConfig{
				Enabled: true,
				Samples: DefaultConfirmationSamples,
				Timeout: Duration(DefaultConfirmationTimeout),
			},
			DataRetention: Duration(DefaultDataRetention),
			ShutdownGrace: Duration(DefaultShutdownGrace),
		},
		Tailscale: TailscaleConfig{
			Binary:              DefaultTailscaleBinary,
			Socket:              DefaultTailscaleSocket,
			StatusTimeout:       Duration(DefaultStatusTimeout),
			StatusCacheTTL:      Duration(DefaultStatusCacheTTL),
			MaxConcurrentProbes: DefaultMaxConcurrentProbes,
		},
		Notifications: NotificationsConfig{
			SendTimeout: Duration(DefaultSendTimeout),
		},
		Server: ServerConfig{
			ListenAddr:     DefaultListenAddr,
			MaxConnections: DefaultMaxConnections,
			TriggerRate:    DefaultTriggerRate,
			TriggerBurst:   DefaultTriggerBurst,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: models.MetricsConfig{
			Enabled:   true,
			Retention: DefaultMetricsRetention,
		},
	}
}

// Validate implements config.Validator interface. Out of range tunables are
// clamped; structural problems are errors.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return errDBPathRequired
	}

	if c.Tailscale.Binary == "" {
		return errBinaryRequired
	}

	c.clampSettings()

	seen := make(map[string]bool, len(c.Nodes))

	for i := range c.Nodes {
		if err := c.validateNode(&c.Nodes[i], seen); err != nil {
			return fmt.Errorf("node %d: %w", i+1, err)
		}
	}

	return nil
}

func (c *Config) clampSettings() {
	s := &c.Settings

	if s.CheckInterval.Std() < MinCheckInterval {
		s.CheckInterval = Duration(MinCheckInterval)
	}

	if s.OfflineStaleness.Std() <= 0 {
		s.OfflineStaleness = Duration(DefaultOfflineStaleness)
	}

	s.Confirmation.Samples = clampInt(s.Confirmation.Samples, MinConfirmationSamples, MaxConfirmationSamples)

	if s.Confirmation.Timeout.Std() < time.Second {
		s.Confirmation.Timeout = Duration(DefaultConfirmationTimeout)
	}

	if s.NotificationCooldown.Std() < 0 {
		s.NotificationCooldown = 0
	}

	if s.ShutdownGrace.Std() <= 0 {
		s.ShutdownGrace = Duration(DefaultShutdownGrace)
	}

	if c.Tailscale.MaxConcurrentProbes < 1 {
		c.Tailscale.MaxConcurrentProbes = DefaultMaxConcurrentProbes
	}

	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = DefaultListenAddr
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}

func (*Config) validateNode(n *Node, seen map[string]bool) error {
	n.IP = strings.TrimSpace(n.IP)
	if n.IP == "" {
		return errNodeIPRequired
	}

	if net.ParseIP(n.IP) == nil {
		return fmt.Errorf("%w: %q", errInvalidNodeIP, n.IP)
	}

	if seen[n.IP] {
		return fmt.Errorf("%w: %s", errDuplicateNodeIP, n.IP)
	}

	seen[n.IP] = true

	n.Label = strings.TrimSpace(n.Label)
	if n.Label == "" {
		n.Label = n.IP
	}

	if n.CheckInterval.Std() < 0 {
		return fmt.Errorf("check_interval: %w", errNegativeDuration)
	}

	if n.CheckInterval != 0 && n.CheckInterval.Std() < MinCheckInterval {
		n.CheckInterval = Duration(MinCheckInterval)
	}

	return nil
}

// NodeConfigs converts the configured nodes into their runtime form.
func (c *Config) NodeConfigs() []models.NodeConfig {
	out := make([]models.NodeConfig, 0, len(c.Nodes))

	for _, n := range c.Nodes {
		out = append(out, models.NodeConfig{
			IP:            n.IP,
			Label:         n.Label,
			Tags:          append([]string(nil), n.Tags...),
			CheckInterval: n.CheckInterval.Std(),
		})
	}

	return out
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides notification secrets from the environment. Blank values
// are ignored and one layer of matching quotes is stripped.
func (c *Config) ApplyEnv(lookup LookupFunc) {
	set := func(dst *string, key string) {
		if v, ok := envString(lookup, key); ok {
			*dst = v
		}
	}

	set(&c.Notifications.DiscordWebhookURL, "DISCORD_WEBHOOK_URL")
	set(&c.Notifications.Ntfy.URL, "NTFY_URL")
	set(&c.Notifications.Ntfy.Topic, "NTFY_TOPIC")
	set(&c.Notifications.Ntfy.Token, "NTFY_TOKEN")
}

func envString(lookup LookupFunc, key string) (string, bool) {
	v, ok := lookup(key)
	if !ok {
		return "", false
	}

	v = strings.TrimSpace(v)
	if len(v) >= 2 && v[0] == v[len(v)-1] && (v[0] == '"' || v[0] == '\'') {
		v = strings.TrimSpace(v[1 : len(v)-1])
	}

	return v, v != ""
}
