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

package monitor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mfreeman451/pathwatch/pkg/db"
	"github.com/mfreeman451/pathwatch/pkg/models"
	"github.com/mfreeman451/pathwatch/pkg/probe"
	"github.com/mfreeman451/pathwatch/pkg/traffic"
)

const (
	nodeA = "100.64.0.10"
	nodeB = "100.64.0.11"
)

var epoch = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type peerSpec struct {
	ip        string
	online    string // "true", "false" or "" for absent
	active    bool
	curAddr   string
	peerRelay string
	relay     string
	lastSeen  time.Time
}

func statusJSON(peers ...peerSpec) []byte {
	entries := make([]string, 0, len(peers))

	for i, p := range peers {
		fields := []string{
			fmt.Sprintf(`"TailscaleIPs": [%q]`, p.ip),
			fmt.Sprintf(`"Active": %t`, p.active),
			fmt.Sprintf(`"CurAddr": %q`, p.curAddr),
			fmt.Sprintf(`"PeerRelay": %q`, p.peerRelay),
			fmt.Sprintf(`"Relay": %q`, p.relay),
		}

		if p.online != "" {
			fields = append(fields, `"Online": `+p.online)
		}

		if !p.lastSeen.IsZero() {
			fields = append(fields, fmt.Sprintf(`"LastSeen": %q`, p.lastSeen.Format(time.RFC3339)))
		}

		entries = append(entries, fmt.Sprintf(`"nodekey:%d": {%s}`, i, strings.Join(fields, ", ")))
	}

	return []byte(fmt.Sprintf(`{"Self": {"TailscaleIPs": ["100.64.0.1"]}, "Peer": {%s}}`, strings.Join(entries, ", ")))
}

func directPeer(ip string) peerSpec {
	return peerSpec{ip: ip, online: "true", active: true, curAddr: "203.0.113.7:41641"}
}

func suspectPeer(ip string) peerSpec {
	return peerSpec{ip: ip, online: "true", active: true, relay: "nyc"}
}

func pings(lines ...string) probe.PingOutput {
	return probe.PingOutput{Text: strings.Join(lines, "\n")}
}

const (
	pongNYC    = "pong from beta (100.64.0.10) via DERP(nyc) in 41ms"
	pongDirect = "pong from beta (100.64.0.10) via 203.0.113.7:41641 in 12ms"
)

// memStore is an in-memory Store.
type memStore struct {
	mu          sync.Mutex
	checks      []models.CheckRecord
	transitions []models.TransitionEvent
	lastSeen    map[string]time.Time
	seeded      map[string]*models.TransitionEvent
	failChecks  int
	failSeeds   int
}

func newMemStore() *memStore {
	return &memStore{
		lastSeen: make(map[string]time.Time),
		seeded:   make(map[string]*models.TransitionEvent),
	}
}

var errDiskFull = errors.New("disk full")

func (m *memStore) InsertCheck(_ context.Context, rec *models.CheckRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failChecks > 0 {
		m.failChecks--
		return errDiskFull
	}

	m.checks = append(m.checks, *rec)

	return nil
}

func (m *memStore) InsertTransition(_ context.Context, ev *models.TransitionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.transitions = append(m.transitions, *ev)

	return nil
}

func (m *memStore) UpdateNodeLastSeen(_ context.Context, ip string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastSeen[ip] = at

	return nil
}

func (m *memStore) GetLastTransition(_ context.Context, ip string) (*models.TransitionEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failSeeds > 0 {
		m.failSeeds--
		return nil, errDiskFull
	}

	for i := len(m.transitions) - 1; i >= 0; i-- {
		if m.transitions[i].NodeIP == ip {
			ev := m.transitions[i]
			return &ev, nil
		}
	}

	return m.seeded[ip], nil
}

func (m *memStore) GetFirstCheckTime(_ context.Context, ip string) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.checks {
		if c.NodeIP == ip {
			return c.CheckedAt, nil
		}
	}

	return time.Time{}, nil
}

func (m *memStore) GetLatestCheck(_ context.Context, ip string) (*models.CheckRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(m.checks) - 1; i >= 0; i-- {
		if m.checks[i].NodeIP == ip {
			c := m.checks[i]
			return &c, nil
		}
	}

	return nil, nil
}

func (m *memStore) transitionsFor(ip string) []models.TransitionEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.TransitionEvent

	for _, ev := range m.transitions {
		if ev.NodeIP == ip {
			out = append(out, ev)
		}
	}

	return out
}

func (m *memStore) checkCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.checks)
}

// recordingNotifier captures Notify and Publish calls.
type recordingNotifier struct {
	mu        sync.Mutex
	enabled   bool
	notified  []*models.TransitionEvent
	published []*models.TransitionEvent
}

func (r *recordingNotifier) Notify(ev *models.TransitionEvent, _ *models.CheckRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notified = append(r.notified, ev)
}

func (r *recordingNotifier) Publish(ev *models.TransitionEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.published = append(r.published, ev)
}

func (r *recordingNotifier) Enabled() bool { return r.enabled }

func (r *recordingNotifier) notifyCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.notified)
}

type harness struct {
	prober   *probe.MockProber
	store    *memStore
	notifier *recordingNotifier
	clock    *clock.Mock
	svc      *Service
}

func newHarness(t *testing.T, opts Options, options ...Option) *harness {
	t.Helper()

	ctrl := gomock.NewController(t)

	h := &harness{
		prober:   probe.NewMockProber(ctrl),
		store:    newMemStore(),
		notifier: &recordingNotifier{enabled: true},
		clock:    clock.NewMock(),
	}

	h.clock.Set(epoch)

	seq := 0
	options = append([]Option{
		WithClock(h.clock),
		WithEventIDs(func() string {
			seq++
			return fmt.Sprintf("evt-%d", seq)
		}),
	}, options...)

	h.svc = NewService(
		[]models.NodeConfig{{IP: nodeA, Label: "alpha"}, {IP: nodeB, Label: "beta"}},
		h.prober, h.store, h.notifier, opts, options...)

	return h
}

func defaultOptions() Options {
	return Options{
		Confirmation:   true,
		Samples:        3,
		ConfirmTimeout: 15 * time.Second,
	}
}

// seed makes the store report a persisted last transition for ip.
func (h *harness) seed(t *testing.T, ip string, state models.State, at time.Time) {
	t.Helper()

	h.store.seeded[ip] = &models.TransitionEvent{
		NodeIP:         ip,
		PreviousState:  models.StateUnknown,
		CurrentState:   state,
		TransitionedAt: at,
	}

	require.NoError(t, h.svc.LoadRuntime(context.Background()))
}

func TestPeerAbsentIsLowConfidenceOffline(t *testing.T) {
	h := newHarness(t, defaultOptions())

	h.prober.EXPECT().Status(gomock.Any()).Return(statusJSON(directPeer(nodeB)), nil)

	check, err := h.svc.RunCheck(context.Background(), nodeA, models.TriggerScheduled)
	require.NoError(t, err)

	assert.Equal(t, models.StateOffline, check.State)
	assert.Equal(t, models.ConfidenceLow, check.Confidence)
	assert.Equal(t, models.BasisPeerAbsent, check.Evidence.Basis)
	assert.Nil(t, check.Confirmation)

	_, seen := h.store.lastSeen[nodeA]
	assert.False(t, seen, "offline checks do not refresh last seen")
}

func TestDirectPeerIsHighConfidence(t *testing.T) {
	h := newHarness(t, defaultOptions())

	h.prober.EXPECT().Status(gomock.Any()).Return(statusJSON(directPeer(nodeA)), nil)

	check, err := h.svc.RunCheck(context.Background(), nodeA, models.TriggerScheduled)
	require.NoError(t, err)

	assert.Equal(t, models.StateDirect, check.State)
	assert.Equal(t, models.ConfidenceHigh, check.Confidence)
	assert.Nil(t, check.Confirmation)
	assert.Equal(t, epoch, h.store.lastSeen[nodeA])
}

func TestConfirmedDERPRecordsRegion(t *testing.T) {
	h := newHarness(t, defaultOptions())

	h.prober.EXPECT().Status(gomock.Any()).Return(statusJSON(suspectPeer(nodeA)), nil)
	h.prober.EXPECT().Ping(gomock.Any(), nodeA, 3, 15*time.Second).
		Return(pings(pongNYC, pongNYC, pongNYC), nil)

	check, err := h.svc.RunCheck(context.Background(), nodeA, models.TriggerScheduled)
	require.NoError(t, err)

	assert.Equal(t, models.StateDERP, check.State)
	assert.Equal(t, models.ConfidenceHigh, check.Confidence)
	assert.Equal(t, "nyc", check.Evidence.DERPRegion)
	assert.Equal(t, models.StateDERPSuspect, check.Evidence.StatusState)
	require.NotNil(t, check.Confirmation)
	assert.Len(t, check.Confirmation.Samples, 3)

	snap, ok := h.svc.Snapshot(nodeA)
	require.True(t, ok)
	assert.Equal(t, "nyc", snap.Region)
}

func TestStaleLastSeenIsHighConfidenceOffline(t *testing.T) {
	h := newHarness(t, defaultOptions())

	idle := peerSpec{ip: nodeA, lastSeen: epoch.Add(-time.Hour)}
	h.prober.EXPECT().Status(gomock.Any()).Return(statusJSON(idle), nil)

	check, err := h.svc.RunCheck(context.Background(), nodeA, models.TriggerScheduled)
	require.NoError(t, err)

	assert.Equal(t, models.StateOffline, check.State)
	assert.Equal(t, models.ConfidenceHigh, check.Confidence)
	assert.Equal(t, models.BasisStaleLastSeen, check.Evidence.Basis)
	assert.Nil(t, check.Confirmation)
}

func TestLongDirectThenDERPNotifies(t *testing.T) {
	h := newHarness(t, defaultOptions())
	h.seed(t, nodeA, models.StateDirect, epoch)

	h.clock.Add(8040 * time.Second)

	h.prober.EXPECT().Status(gomock.Any()).Return(statusJSON(suspectPeer(nodeA)), nil)
	h.prober.EXPECT().Ping(gomock.Any(), nodeA, 3, gomock.Any()).
		Return(pings(pongNYC, pongNYC, pongNYC), nil)

	_, err := h.svc.RunCheck(context.Background(), nodeA, models.TriggerScheduled)
	require.NoError(t, err)

	events := h.store.transitionsFor(nodeA)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, models.StateDirect, ev.PreviousState)
	assert.Equal(t, models.StateDERP, ev.CurrentState)
	assert.Equal(t, int64(8040), ev.DurationPreviousSeconds)
	assert.Equal(t, models.SeverityHigh, ev.Severity)
	assert.True(t, ev.Notified)
	assert.Empty(t, ev.SuppressionReason)

	require.Equal(t, 1, h.notifier.notifyCount())
	assert.Equal(t, "evt-1", h.notifier.notified[0].EventID)
	assert.Len(t, h.notifier.published, 1)
}

func TestUnconfirmedSuspectIsNeverDERP(t *testing.T) {
	tests := []struct {
		name   string
		opts   Options
		ping   probe.PingOutput
		err    error
		expect bool
	}{
		{
			name: "confirmation disabled",
			opts: Options{Confirmation: false},
		},
		{
			name:   "probe failed without output",
			opts:   defaultOptions(),
			err:    &probe.ProbeError{Op: "ping", Err: probe.ErrProbeTimeout, TimedOut: true},
			ping:   probe.PingOutput{TimedOut: true},
			expect: true,
		},
		{
			name:   "unrecognized output",
			opts:   defaultOptions(),
			ping:   pings("no reply", "timeout"),
			expect: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.opts)

			h.prober.EXPECT().Status(gomock.Any()).Return(statusJSON(suspectPeer(nodeA)), nil)

			if tt.expect {
				h.prober.EXPECT().Ping(gomock.Any(), nodeA, gomock.Any(), gomock.Any()).Return(tt.ping, tt.err)
			}

			check, err := h.svc.RunCheck(context.Background(), nodeA, models.TriggerScheduled)
			require.NoError(t, err)

			assert.Equal(t, models.StateUnknown, check.State)
			assert.Equal(t, models.ConfidenceLow, check.Confidence)
			assert.Equal(t, "nyc", check.Evidence.RelayHint)
			assert.Empty(t, check.Evidence.DERPRegion)
		})
	}
}

func TestPartialProbeOutputStillConfirms(t *testing.T) {
	h := newHarness(t, defaultOptions())

	h.prober.EXPECT().Status(gomock.Any()).Return(statusJSON(suspectPeer(nodeA)), nil)
	h.prober.EXPECT().Ping(gomock.Any(), nodeA, 3, gomock.Any()).
		Return(probe.PingOutput{Text: pongNYC, ExitCode: 1}, &probe.ProbeError{Op: "ping", Err: probe.ErrProbeExit})

	check, err := h.svc.RunCheck(context.Background(), nodeA, models.TriggerScheduled)
	require.NoError(t, err)

	assert.Equal(t, models.StateDERP, check.State)
	assert.Equal(t, models.ConfidenceMedium, check.Confidence, "two of three samples lost")
	assert.NotEmpty(t, check.Confirmation.ExitError)
}

func TestSuspectResolvedDirect(t *testing.T) {
	h := newHarness(t, defaultOptions())

	h.prober.EXPECT().Status(gomock.Any()).Return(statusJSON(suspectPeer(nodeA)), nil)
	h.prober.EXPECT().Ping(gomock.Any(), nodeA, 3, gomock.Any()).
		Return(pings(pongDirect, pongDirect, pongDirect), nil)

	check, err := h.svc.RunCheck(context.Background(), nodeA, models.TriggerScheduled)
	require.NoError(t, err)

	assert.Equal(t, models.StateDirect, check.State)
	assert.Equal(t, models.ConfidenceMedium, check.Confidence)
}

func TestStatusFailureDowngrades(t *testing.T) {
	h := newHarness(t, defaultOptions())

	h.prober.EXPECT().Status(gomock.Any()).
		Return(nil, &probe.ProbeError{Op: "status", Err: probe.ErrProbeStart})

	check, err := h.svc.RunCheck(context.Background(), nodeA, models.TriggerScheduled)
	require.NoError(t, err)

	assert.Equal(t, models.StateUnknown, check.State)
	assert.Equal(t, models.ConfidenceLow, check.Confidence)
	assert.Equal(t, models.BasisProbeFailed, check.Evidence.Basis)
	assert.Equal(t, 1, h.store.checkCount())
}

func TestMalformedStatusDowngrades(t *testing.T) {
	h := newHarness(t, defaultOptions())

	h.prober.EXPECT().Status(gomock.Any()).Return([]byte(`{"Peer": [1, 2]}`), nil)

	check, err := h.svc.RunCheck(context.Background(), nodeA, models.TriggerScheduled)
	require.NoError(t, err)

	assert.Equal(t, models.StateUnknown, check.State)
	assert.Equal(t, models.BasisMalformed, check.Evidence.Basis)
}

func TestIdempotentCycles(t *testing.T) {
	h := newHarness(t, defaultOptions())
	h.seed(t, nodeA, models.StateDirect, epoch)

	h.prober.EXPECT().Status(gomock.Any()).Return(statusJSON(directPeer(nodeA)), nil).Times(2)

	for i := 0; i < 2; i++ {
		h.clock.Add(time.Minute)

		_, err := h.svc.RunCheck(context.Background(), nodeA, models.TriggerScheduled)
		require.NoError(t, err)
	}

	assert.Empty(t, h.store.transitionsFor(nodeA))
	assert.Equal(t, 2, h.store.checkCount())
	assert.Zero(t, h.notifier.notifyCount())
}

func TestCooldownSuppressesRepeat(t *testing.T) {
	opts := defaultOptions()
	opts.Cooldown = time.Hour

	h := newHarness(t, opts)
	h.seed(t, nodeA, models.StateDirect, epoch)

	direct := statusJSON(directPeer(nodeA))
	suspect := statusJSON(suspectPeer(nodeA))

	gomock.InOrder(
		h.prober.EXPECT().Status(gomock.Any()).Return(suspect, nil),
		h.prober.EXPECT().Status(gomock.Any()).Return(direct, nil),
		h.prober.EXPECT().Status(gomock.Any()).Return(suspect, nil),
	)
	h.prober.EXPECT().Ping(gomock.Any(), nodeA, gomock.Any(), gomock.Any()).
		Return(pings(pongNYC, pongNYC, pongNYC), nil).Times(2)

	for i := 0; i < 3; i++ {
		h.clock.Add(5 * time.Minute)

		_, err := h.svc.RunCheck(context.Background(), nodeA, models.TriggerScheduled)
		require.NoError(t, err)
	}

	var toDERP []models.TransitionEvent

	for _, ev := range h.store.transitionsFor(nodeA) {
		if ev.PreviousState == models.StateDirect && ev.CurrentState == models.StateDERP {
			toDERP = append(toDERP, ev)
		}
	}

	require.Len(t, toDERP, 2)
	assert.True(t, toDERP[0].Notified)
	assert.False(t, toDERP[1].Notified)
	assert.Equal(t, "cooldown", toDERP[1].SuppressionReason)

	// DIRECT->DERP, DERP->DIRECT; the repeat was suppressed
	assert.Equal(t, 2, h.notifier.notifyCount())
	assert.Len(t, h.notifier.published, 3)
}

func TestNoChannelsSuppresses(t *testing.T) {
	h := newHarness(t, defaultOptions())
	h.notifier.enabled = false
	h.svc = NewService(h.svc.Nodes(), h.prober, h.store, h.notifier, defaultOptions(), WithClock(h.clock))
	h.seed(t, nodeA, models.StateDirect, epoch)

	h.prober.EXPECT().Status(gomock.Any()).Return(statusJSON(peerSpec{ip: nodeA, online: "false"}), nil)

	_, err := h.svc.RunCheck(context.Background(), nodeA, models.TriggerScheduled)
	require.NoError(t, err)

	events := h.store.transitionsFor(nodeA)
	require.Len(t, events, 1)
	assert.False(t, events[0].Notified)
	assert.Equal(t, "no notification channels", events[0].SuppressionReason)
	assert.Zero(t, h.notifier.notifyCount())
	assert.Len(t, h.notifier.published, 1)
}

func TestRestartRecovery(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pathwatch.db")
	nodes := []models.NodeConfig{{IP: nodeA, Label: "alpha"}}

	run := func(t *testing.T, clk *clock.Mock, prober probe.Prober, notifier Notifier) {
		t.Helper()

		store, err := db.New(path, nil)
		require.NoError(t, err)

		defer func() { require.NoError(t, store.Close()) }()

		require.NoError(t, store.UpsertNodes(ctx, nodes))

		svc := NewService(nodes, prober, store, notifier, defaultOptions(), WithClock(clk))
		require.NoError(t, svc.LoadRuntime(ctx))

		_, err = svc.RunCheck(ctx, nodeA, models.TriggerStartup)
		require.NoError(t, err)
	}

	ctrl := gomock.NewController(t)
	prober := probe.NewMockProber(ctrl)
	prober.EXPECT().Status(gomock.Any()).Return(statusJSON(directPeer(nodeA)), nil).Times(2)

	clk := clock.NewMock()
	clk.Set(epoch)

	first := &recordingNotifier{enabled: true}
	run(t, clk, prober, first)

	clk.Add(time.Hour)

	second := &recordingNotifier{enabled: true}
	run(t, clk, prober, second)

	assert.Empty(t, second.published, "restart must not produce a transition")
	assert.Zero(t, second.notifyCount())

	store, err := db.New(path, nil)
	require.NoError(t, err)

	defer func() { require.NoError(t, store.Close()) }()

	events, err := store.GetRecentTransitions(ctx, nodeA, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.StateUnknown, events[0].PreviousState)
	assert.Equal(t, models.StateDirect, events[0].CurrentState)

	history, err := store.GetNodeHistory(ctx, nodeA, 10)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestLoadRuntimeSeedsSnapshot(t *testing.T) {
	h := newHarness(t, defaultOptions())
	h.store.seeded[nodeA] = &models.TransitionEvent{
		NodeIP:         nodeA,
		PreviousState:  models.StateDirect,
		CurrentState:   models.StateDERP,
		CurrentRegion:  "fra",
		TransitionedAt: epoch,
		Notified:       true,
	}

	require.NoError(t, h.svc.LoadRuntime(context.Background()))

	snap, ok := h.svc.Snapshot(nodeA)
	require.True(t, ok)
	assert.Equal(t, models.StateDERP, snap.State)
	assert.Equal(t, "fra", snap.Region)
	assert.Equal(t, epoch, snap.StateSince)

	rt, _ := h.svc.Runtime(nodeA)
	assert.Equal(t, epoch, rt.loadMemory().LastNotified["DIRECT->DERP"])

	other, _ := h.svc.Snapshot(nodeB)
	assert.Equal(t, models.StateUnknown, other.State)
}

func TestLoadRuntimeStoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockStore(ctrl)

	store.EXPECT().GetLastTransition(gomock.Any(), nodeA).Return(nil, errDiskFull)

	svc := NewService([]models.NodeConfig{{IP: nodeA}}, probe.NewMockProber(ctrl), store, nil, defaultOptions())

	err := svc.LoadRuntime(context.Background())
	require.ErrorIs(t, err, ErrSeedFailed)
	require.ErrorIs(t, err, errDiskFull)
}

func TestRunCheckSeedsBeforeFirstCycle(t *testing.T) {
	h := newHarness(t, defaultOptions())
	h.store.seeded[nodeA] = &models.TransitionEvent{
		NodeIP:         nodeA,
		PreviousState:  models.StateUnknown,
		CurrentState:   models.StateDirect,
		TransitionedAt: epoch,
	}
	h.store.failSeeds = 3 // both nodes at startup, then nodeA once more

	err := h.svc.LoadRuntime(context.Background())
	require.ErrorIs(t, err, ErrSeedFailed)

	_, err = h.svc.RunCheck(context.Background(), nodeA, models.TriggerStartup)
	require.ErrorIs(t, err, ErrSeedFailed)
	require.ErrorIs(t, err, errDiskFull)
	assert.Zero(t, h.store.checkCount(), "no cycle runs against unseeded memory")

	h.prober.EXPECT().Status(gomock.Any()).Return(statusJSON(directPeer(nodeA)), nil)

	check, err := h.svc.RunCheck(context.Background(), nodeA, models.TriggerScheduled)
	require.NoError(t, err)
	assert.Equal(t, models.StateDirect, check.State)

	assert.Empty(t, h.store.transitionsFor(nodeA), "persisted DIRECT must not transition to DIRECT")
	assert.Zero(t, h.notifier.notifyCount())

	snap, _ := h.svc.Snapshot(nodeA)
	assert.Equal(t, epoch, snap.StateSince)
}

func TestStoreFailureRetriedNextCycle(t *testing.T) {
	h := newHarness(t, defaultOptions())
	h.store.failChecks = 1

	h.prober.EXPECT().Status(gomock.Any()).Return(statusJSON(directPeer(nodeA)), nil).Times(2)

	_, err := h.svc.RunCheck(context.Background(), nodeA, models.TriggerScheduled)
	require.NoError(t, err)

	assert.Equal(t, 0, h.store.checkCount())
	assert.Equal(t, 1, h.svc.PendingWrites(nodeA))
	assert.Empty(t, h.store.transitionsFor(nodeA), "transition waits behind its check")

	snap, _ := h.svc.Snapshot(nodeA)
	assert.Equal(t, models.StateDirect, snap.State, "memory keeps the cycle result")

	h.clock.Add(time.Minute)

	_, err = h.svc.RunCheck(context.Background(), nodeA, models.TriggerScheduled)
	require.NoError(t, err)

	assert.Equal(t, 2, h.store.checkCount())
	assert.Len(t, h.store.transitionsFor(nodeA), 1)
	assert.Zero(t, h.svc.PendingWrites(nodeA))
}

func TestPendingQueueIsBounded(t *testing.T) {
	opts := defaultOptions()
	opts.PendingLimit = 2

	h := newHarness(t, opts)
	h.store.failChecks = 100

	h.prober.EXPECT().Status(gomock.Any()).Return(statusJSON(directPeer(nodeA)), nil).Times(4)

	for i := 0; i < 4; i++ {
		_, err := h.svc.RunCheck(context.Background(), nodeA, models.TriggerScheduled)
		require.NoError(t, err)
	}

	assert.Equal(t, 2, h.svc.PendingWrites(nodeA))
}

func TestCancelledCycleWritesNothing(t *testing.T) {
	h := newHarness(t, defaultOptions())

	ctx, cancel := context.WithCancel(context.Background())

	h.prober.EXPECT().Status(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]byte, error) {
		cancel()
		return nil, &probe.ProbeError{Op: "status", Err: ctx.Err()}
	})

	_, err := h.svc.RunCheck(ctx, nodeA, models.TriggerScheduled)
	require.ErrorIs(t, err, ErrCycleAborted)
	assert.Zero(t, h.store.checkCount())

	snap, _ := h.svc.Snapshot(nodeA)
	assert.Equal(t, models.StateUnknown, snap.State)
	assert.True(t, snap.LastChecked.IsZero())
}

func TestUnknownNode(t *testing.T) {
	h := newHarness(t, defaultOptions())

	_, err := h.svc.RunCheck(context.Background(), "100.64.9.9", models.TriggerManual)
	require.ErrorIs(t, err, ErrUnknownNode)

	_, err = h.svc.Diagnose(context.Background(), "100.64.9.9", 3)
	require.ErrorIs(t, err, ErrUnknownNode)

	_, ok := h.svc.Snapshot("100.64.9.9")
	assert.False(t, ok)
}

func TestDiagnoseIsReadOnly(t *testing.T) {
	h := newHarness(t, defaultOptions())
	h.seed(t, nodeA, models.StateDirect, epoch)

	before, _ := h.svc.Snapshot(nodeA)

	h.prober.EXPECT().Ping(gomock.Any(), nodeA, 20, gomock.Any()).
		Return(pings(pongNYC, pongNYC), nil)

	d, err := h.svc.Diagnose(context.Background(), nodeA, 50)
	require.NoError(t, err)

	assert.Equal(t, models.StateDERP, d.Route)
	assert.Equal(t, "nyc", d.Region)
	assert.Equal(t, 20, d.Result.Requested)
	assert.InDelta(t, 90.0, d.Result.LossPct, 0.001)

	after, _ := h.svc.Snapshot(nodeA)
	assert.Equal(t, before, after)
	assert.Zero(t, h.store.checkCount())
	assert.Empty(t, h.store.transitionsFor(nodeA))
	assert.Empty(t, h.notifier.published)
}

func TestTrafficDeltas(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := NewMockTrafficSource(ctrl)

	gomock.InOrder(
		src.EXPECT().Fetch(gomock.Any()).Return(traffic.Counters{Direct: 100, DERP: 10}, nil),
		src.EXPECT().Fetch(gomock.Any()).Return(traffic.Counters{Direct: 160, DERP: 10}, nil),
		src.EXPECT().Fetch(gomock.Any()).Return(traffic.Counters{}, errors.New("connection refused")),
	)

	h := newHarness(t, defaultOptions(), WithTraffic(src))
	h.prober.EXPECT().Status(gomock.Any()).Return(statusJSON(directPeer(nodeA)), nil).Times(3)

	first, err := h.svc.RunCheck(context.Background(), nodeA, models.TriggerScheduled)
	require.NoError(t, err)
	require.NotNil(t, first.Traffic)
	assert.Equal(t, models.TrafficDelta{}, *first.Traffic)

	second, err := h.svc.RunCheck(context.Background(), nodeA, models.TriggerScheduled)
	require.NoError(t, err)
	require.NotNil(t, second.Traffic)
	assert.Equal(t, int64(60), second.Traffic.Direct)

	third, err := h.svc.RunCheck(context.Background(), nodeA, models.TriggerScheduled)
	require.NoError(t, err)
	assert.Nil(t, third.Traffic)
	assert.Equal(t, models.StateDirect, third.State, "traffic never changes the state")
}

func TestNodesAreIndependent(t *testing.T) {
	h := newHarness(t, defaultOptions())

	h.prober.EXPECT().Status(gomock.Any()).
		Return(statusJSON(directPeer(nodeA), peerSpec{ip: nodeB, online: "true"}), nil).Times(2)

	a, err := h.svc.RunCheck(context.Background(), nodeA, models.TriggerManual)
	require.NoError(t, err)

	b, err := h.svc.RunCheck(context.Background(), nodeB, models.TriggerManual)
	require.NoError(t, err)

	assert.Equal(t, models.StateDirect, a.State)
	assert.Equal(t, models.StateInactive, b.State)

	snaps := h.svc.Snapshots()
	require.Len(t, snaps, 2)
	assert.Equal(t, nodeA, snaps[0].NodeIP)
	assert.Equal(t, "beta", snaps[1].Label)
}

func TestInFlightGuard(t *testing.T) {
	h := newHarness(t, defaultOptions())

	require.NoError(t, h.svc.TryBegin(nodeA))
	require.ErrorIs(t, h.svc.TryBegin(nodeA), ErrInFlight)
	require.NoError(t, h.svc.TryBegin(nodeB), "other nodes are unaffected")
	require.ErrorIs(t, h.svc.TryBegin("100.64.9.9"), ErrUnknownNode)

	snap, _ := h.svc.Snapshot(nodeA)
	assert.True(t, snap.InFlight)

	h.svc.End(nodeA)
	require.NoError(t, h.svc.TryBegin(nodeA))
}
