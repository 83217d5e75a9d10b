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

package confirm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mfreeman451/pathwatch/pkg/models"
	"github.com/mfreeman451/pathwatch/pkg/probe"
)

const (
	derpNYC   = "pong from beta (100.64.0.3) via DERP(nyc) in 41ms"
	derpFRA   = "pong from beta (100.64.0.3) via DERP(fra) in 95.5ms"
	direct    = "pong from beta (100.64.0.3) via 203.0.113.7:41641 in 12ms"
	direct6   = "pong from beta (100.64.0.3) via [2001:db8::7]:41641 in 10ms"
	peerRelay = "pong from beta (100.64.0.3) via peer-relay(198.51.100.1:3478:vni:7) in 20ms"
	oddRoute  = "pong from beta (100.64.0.3) via somewhere in 30ms"
	notDirect = "direct connection not established"
	timeout   = "timeout waiting for ping reply"
)

func lines(l ...string) string {
	out := ""
	for _, s := range l {
		out += s + "\n"
	}

	return out
}

func TestParse(t *testing.T) {
	tests := []struct {
		name          string
		raw           string
		requested     int
		wantSamples   int
		wantDominant  models.State
		wantRegion    string
		wantLoss      float64
		wantNotDirect bool
	}{
		{
			name:         "all derp",
			raw:          lines(derpNYC, derpNYC, derpNYC),
			requested:    3,
			wantSamples:  3,
			wantDominant: models.StateDERP,
			wantRegion:   "nyc",
		},
		{
			name:         "partial loss",
			raw:          lines(timeout, derpNYC, timeout),
			requested:    3,
			wantSamples:  1,
			wantDominant: models.StateDERP,
			wantRegion:   "nyc",
			wantLoss:     200.0 / 3.0,
		},
		{
			name:         "majority direct",
			raw:          lines(derpNYC, direct, direct6),
			requested:    3,
			wantSamples:  3,
			wantDominant: models.StateDirect,
			wantRegion:   "nyc",
		},
		{
			name:         "tie goes to derp",
			raw:          lines(direct, derpFRA),
			requested:    2,
			wantSamples:  2,
			wantDominant: models.StateDERP,
			wantRegion:   "fra",
		},
		{
			name:         "tie between relays goes to peer relay over direct",
			raw:          lines(direct, peerRelay),
			requested:    2,
			wantSamples:  2,
			wantDominant: models.StatePeerRelay,
		},
		{
			name:         "unrecognized route is parsed but not voted",
			raw:          lines(oddRoute, oddRoute, peerRelay),
			requested:    3,
			wantSamples:  3,
			wantDominant: models.StatePeerRelay,
		},
		{
			name:          "marker only",
			raw:           lines(timeout, notDirect),
			requested:     3,
			wantDominant:  models.StateUnknown,
			wantLoss:      100,
			wantNotDirect: true,
		},
		{
			name:         "more replies than requested",
			raw:          lines(derpNYC, derpNYC),
			requested:    1,
			wantSamples:  2,
			wantDominant: models.StateDERP,
			wantRegion:   "nyc",
		},
		{
			name:         "empty output",
			raw:          "",
			requested:    3,
			wantDominant: models.StateUnknown,
			wantLoss:     100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw, tt.requested)

			assert.Len(t, got.Samples, tt.wantSamples)
			assert.Equal(t, tt.wantDominant, got.DominantRoute)
			assert.Equal(t, tt.wantRegion, got.Region)
			assert.InDelta(t, tt.wantLoss, got.LossPct, 0.001)
			assert.Equal(t, tt.wantNotDirect, got.DirectNotEstablished)
			assert.Equal(t, tt.raw, got.Raw)
		})
	}
}

func TestParse_Latency(t *testing.T) {
	got := Parse(lines(direct, derpNYC, derpFRA), 3)

	assert.Equal(t, 12*time.Millisecond, got.MinLatency)
	assert.Equal(t, 95500*time.Microsecond, got.MaxLatency)
	assert.Equal(t, (12*time.Millisecond+41*time.Millisecond+95500*time.Microsecond)/3, got.AvgLatency)
	assert.Equal(t, "203.0.113.7:41641", got.Samples[0].Endpoint)
	assert.Equal(t, "198.51.100.1:3478:vni:7", Parse(peerRelay, 1).Samples[0].Endpoint)
}

func suspect(hint string) models.ClassificationResult {
	return models.ClassificationResult{
		State:      models.StateDERPSuspect,
		Confidence: models.ConfidenceLow,
		Evidence: models.Evidence{
			Basis:       models.BasisNeedsConfirmation,
			StatusState: models.StateDERPSuspect,
			RelayHint:   hint,
		},
	}
}

func TestVerdict(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		hint       string
		wantState  models.State
		wantRegion string
		wantErr    error
	}{
		{"derp confirmed", lines(derpNYC, derpNYC), "", models.StateDERP, "nyc", nil},
		{"any derp sample wins over direct majority", lines(direct, direct, derpFRA), "", models.StateDERP, "fra", nil},
		{"marker with region hint", lines(notDirect, timeout), "ams", models.StateDERP, "ams", nil},
		{"direct", lines(direct, direct), "nyc", models.StateDirect, "", nil},
		{"peer relay", lines(peerRelay), "", models.StatePeerRelay, "", nil},
		{"no samples", lines(timeout, timeout), "nyc", models.StateDERPSuspect, "", ErrConfirmationAmbiguous},
		{"only unrecognized routes", lines(oddRoute), "", models.StateDERPSuspect, "", ErrConfirmationAmbiguous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Parse(tt.raw, 3)

			state, region, err := Verdict(suspect(tt.hint), &res)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tt.wantState, state)
			assert.Equal(t, tt.wantRegion, region)
		})
	}
}

func TestVerdict_NilResultNeverPromotes(t *testing.T) {
	state, _, err := Verdict(suspect("nyc"), nil)

	require.ErrorIs(t, err, ErrConfirmationAmbiguous)
	assert.Equal(t, models.StateDERPSuspect, state)
}

func TestShouldConfirm(t *testing.T) {
	assert.True(t, ShouldConfirm(suspect(""), true))
	assert.False(t, ShouldConfirm(suspect(""), false))
	assert.False(t, ShouldConfirm(models.ClassificationResult{State: models.StateDirect}, true))
	assert.False(t, ShouldConfirm(models.ClassificationResult{State: models.StateOffline}, true))
}

func TestConfirmer_ParsesPartialOutputOnFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	prober := probe.NewMockProber(ctrl)
	prober.EXPECT().
		Ping(gomock.Any(), "100.64.0.3", 3, 5*time.Second).
		Return(probe.PingOutput{Text: lines(derpNYC), ExitCode: -1, TimedOut: true},
			&probe.ProbeError{Op: "tailscale", Err: probe.ErrProbeTimeout, TimedOut: true})

	c := NewConfirmer(prober, 3, 5*time.Second, nil)

	res, err := c.Confirm(context.Background(), "100.64.0.3")
	require.ErrorIs(t, err, probe.ErrProbeTimeout)
	require.NotNil(t, res)

	assert.True(t, res.TimedOut)
	assert.NotEmpty(t, res.ExitError)
	assert.Len(t, res.Samples, 1)
	assert.Equal(t, models.StateDERP, res.DominantRoute)

	state, region, err := Verdict(suspect(""), res)
	require.NoError(t, err)
	assert.Equal(t, models.StateDERP, state)
	assert.Equal(t, "nyc", region)
}

func TestConfirmer_ClampsSampleCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	prober := probe.NewMockProber(ctrl)
	gomock.InOrder(
		prober.EXPECT().Ping(gomock.Any(), "100.64.0.3", MaxSamples, gomock.Any()).Return(probe.PingOutput{}, nil),
		prober.EXPECT().Ping(gomock.Any(), "100.64.0.3", MinSamples, gomock.Any()).Return(probe.PingOutput{}, nil),
	)

	c := NewConfirmer(prober, 3, time.Second, nil)

	_, err := c.ConfirmN(context.Background(), "100.64.0.3", 50)
	require.NoError(t, err)

	_, err = c.ConfirmN(context.Background(), "100.64.0.3", 0)
	require.NoError(t, err)
}
