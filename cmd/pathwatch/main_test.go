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

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/mfreeman451/pathwatch/pkg/config"
	"github.com/mfreeman451/pathwatch/pkg/db"
	"github.com/mfreeman451/pathwatch/pkg/models"
	"github.com/mfreeman451/pathwatch/pkg/monitor"
	"github.com/mfreeman451/pathwatch/pkg/probe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

const (
	peerIP     = "100.64.0.20"
	directPeer = `{"Self": {"TailscaleIPs": ["100.64.0.1"]}, "Peer": {"nodekey:1": {
		"TailscaleIPs": ["100.64.0.20"], "Active": true, "Online": true,
		"CurAddr": "198.51.100.4:41641", "Relay": "fra"}}}`
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.DBPath = filepath.Join(t.TempDir(), "pathwatch.db")
	cfg.Server.ListenAddr = "127.0.0.1:0"
	cfg.Nodes = []config.Node{{IP: peerIP, Label: "nas", Tags: []string{"home"}}}

	require.NoError(t, cfg.Validate())

	return cfg
}

func TestNewDispatcher(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*config.Config)
		wantEnabled bool
		wantErr     bool
	}{
		{
			name:   "no channels",
			mutate: func(*config.Config) {},
		},
		{
			name: "discord",
			mutate: func(c *config.Config) {
				c.Notifications.DiscordWebhookURL = "https://discord.example/api/webhooks/1/abc"
			},
			wantEnabled: true,
		},
		{
			name: "ntfy needs a topic",
			mutate: func(c *config.Config) {
				c.Notifications.Ntfy.URL = "https://ntfy.sh"
			},
		},
		{
			name: "ntfy",
			mutate: func(c *config.Config) {
				c.Notifications.Ntfy = config.NtfyConfig{URL: "https://ntfy.sh", Topic: "tailnet"}
			},
			wantEnabled: true,
		},
		{
			name: "disabled webhook",
			mutate: func(c *config.Config) {
				c.Notifications.Webhooks = []config.WebhookConfig{{URL: "https://hooks.example/x"}}
			},
		},
		{
			name: "webhook with bad template",
			mutate: func(c *config.Config) {
				c.Notifications.Webhooks = []config.WebhookConfig{{
					Enabled:  true,
					URL:      "https://hooks.example/x",
					Template: "{{ .alert.Title ",
				}}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(cfg)

			d, err := newDispatcher(cfg, zap.NewNop())
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantEnabled, d.Enabled())
		})
	}
}

func TestMonitorOptions(t *testing.T) {
	cfg := testConfig(t)
	cfg.Settings.Confirmation.Samples = 7
	cfg.Settings.NotificationCooldown = config.Duration(time.Hour)

	opts := monitorOptions(cfg)

	assert.True(t, opts.Confirmation)
	assert.Equal(t, 7, opts.Samples)
	assert.Equal(t, 15*time.Second, opts.ConfirmTimeout)
	assert.Equal(t, 10*time.Minute, opts.StaleAfter)
	assert.Equal(t, time.Hour, opts.Cooldown)
}

func TestAppWiring(t *testing.T) {
	cfg := testConfig(t)
	ctrl := gomock.NewController(t)
	prober := probe.NewMockProber(ctrl)

	a, err := newApp(cfg, zap.NewNop(), prober)
	require.NoError(t, err)

	require.NoError(t, a.prepare(context.Background()))
	require.Len(t, a.monitor.Nodes(), 1)

	// store, retention, dispatcher drain, scheduler, api
	assert.Len(t, a.services(), 5)
	assert.Equal(t, cfg.Settings.ShutdownGrace.Std()+10*time.Second, a.shutdownTimeout())

	nodes, err := a.store.ListNodes(context.Background())
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "nas", nodes[0].Label)

	require.NoError(t, a.store.Close())
}

func TestAppWithoutRetention(t *testing.T) {
	cfg := testConfig(t)
	cfg.Settings.DataRetention = 0

	a, err := newApp(cfg, zap.NewNop(), probe.NewMockProber(gomock.NewController(t)))
	require.NoError(t, err)

	defer func() { _ = a.store.Close() }()

	assert.Nil(t, a.retention)
	assert.Len(t, a.services(), 4)
}

func TestRunProbe(t *testing.T) {
	cfg := testConfig(t)
	ctrl := gomock.NewController(t)
	prober := probe.NewMockProber(ctrl)

	prober.EXPECT().Status(gomock.Any()).Return([]byte(directPeer), nil)

	var out bytes.Buffer

	require.NoError(t, runProbe(context.Background(), &out, cfg, zap.NewNop(), prober, peerIP, &probeFlags{}))

	var rec models.CheckRecord
	require.NoError(t, json.Unmarshal(out.Bytes(), &rec))

	assert.Equal(t, models.StateDirect, rec.State)
	assert.Equal(t, models.ConfidenceHigh, rec.Confidence)
	assert.Equal(t, "nas", rec.NodeLabel)
	assert.Equal(t, models.TriggerManual, rec.Trigger)
}

func TestRunProbeDiagnose(t *testing.T) {
	cfg := testConfig(t)
	ctrl := gomock.NewController(t)
	prober := probe.NewMockProber(ctrl)

	prober.EXPECT().Ping(gomock.Any(), "100.64.0.99", 2, 15*time.Second).Return(probe.PingOutput{
		Text: "pong from x (100.64.0.99) via DERP(fra) in 38ms\npong from x (100.64.0.99) via DERP(fra) in 40ms",
	}, nil)

	var out bytes.Buffer

	require.NoError(t, runProbe(context.Background(), &out, cfg, zap.NewNop(), prober, "100.64.0.99",
		&probeFlags{count: 2, diagnose: true}))

	var diag monitor.Diagnosis
	require.NoError(t, json.Unmarshal(out.Bytes(), &diag))

	assert.Equal(t, models.StateDERP, diag.Route)
	assert.Equal(t, "fra", diag.Region)
}

func TestProbeRejectsInvalidIP(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"probe", "not-an-ip"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.ErrorIs(t, err, errInvalidIP)
}

func TestStatusCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "status.db")

	store, err := db.New(dbPath, nil)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.UpsertNodes(ctx, []models.NodeConfig{{IP: peerIP, Label: "nas"}}))
	require.NoError(t, store.InsertCheck(ctx, &models.CheckRecord{
		NodeIP:     peerIP,
		NodeLabel:  "nas",
		CheckedAt:  time.Now().UTC(),
		State:      models.StateDERP,
		Confidence: models.ConfidenceHigh,
		Trigger:    models.TriggerScheduled,
		Evidence:   models.Evidence{Basis: models.BasisNeedsConfirmation, DERPRegion: "fra"},
	}))
	require.NoError(t, store.Close())

	t.Run("table", func(t *testing.T) {
		var out bytes.Buffer

		cmd := newRootCmd()
		cmd.SetArgs([]string{"status", "--db", dbPath})
		cmd.SetOut(&out)

		require.NoError(t, cmd.Execute())

		text := out.String()
		assert.Contains(t, text, "NODE")
		assert.Contains(t, text, peerIP)
		assert.Contains(t, text, "RELAY (DERP)")
		assert.Contains(t, text, "fra")
	})

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer

		cmd := newRootCmd()
		cmd.SetArgs([]string{"status", "--db", dbPath, "--json"})
		cmd.SetOut(&out)

		require.NoError(t, cmd.Execute())

		var rows []NodeStatus
		require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
		require.Len(t, rows, 1)
		require.NotNil(t, rows[0].LatestCheck)
		assert.Equal(t, models.StateDERP, rows[0].LatestCheck.State)
		require.NotNil(t, rows[0].Uptime)
		assert.Equal(t, 1, rows[0].Uptime.Total)
	})
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.SetArgs([]string{"version"})
	cmd.SetOut(&out)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "pathwatch dev")
}
