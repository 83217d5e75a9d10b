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

// Package monitor runs the per-node check pipeline: status read,
// classification, confirmation, confidence, transition evaluation and
// persistence.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mfreeman451/pathwatch/pkg/classify"
	"github.com/mfreeman451/pathwatch/pkg/confidence"
	"github.com/mfreeman451/pathwatch/pkg/confirm"
	"github.com/mfreeman451/pathwatch/pkg/metrics"
	"github.com/mfreeman451/pathwatch/pkg/models"
	"github.com/mfreeman451/pathwatch/pkg/probe"
	"github.com/mfreeman451/pathwatch/pkg/traffic"
	"github.com/mfreeman451/pathwatch/pkg/transition"
)

const (
	defaultPendingLimit = 32
	defaultStoreTimeout = 10 * time.Second
)

type Options struct {
	Confirmation   bool
	Samples        int
	ConfirmTimeout time.Duration
	StaleAfter     time.Duration
	Cooldown       time.Duration
	// PendingLimit bounds unwritten cycle results kept per node.
	PendingLimit int
}

// Service owns every NodeRuntime and runs their check cycles.
type Service struct {
	prober    probe.Prober
	confirmer *confirm.Confirmer
	store     Store
	notifier  Notifier
	traffic   TrafficSource
	recorder  metrics.Recorder
	engine    *transition.Engine
	clock     clock.Clock
	opts      Options
	logger    *zap.Logger

	nodes map[string]*NodeRuntime
	order []string
}

type Option func(*Service)

// WithTraffic enables per-cycle traffic counter deltas.
func WithTraffic(src TrafficSource) Option {
	return func(s *Service) { s.traffic = src }
}

func WithRecorder(r metrics.Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

func WithClock(c clock.Clock) Option {
	return func(s *Service) { s.clock = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithEventIDs replaces the transition event ID generator.
func WithEventIDs(fn func() string) Option {
	return func(s *Service) { s.engine.WithIDFunc(fn) }
}

func NewService(
	nodes []models.NodeConfig,
	prober probe.Prober,
	store Store,
	notifier Notifier,
	opts Options,
	options ...Option,
) *Service {
	if opts.PendingLimit <= 0 {
		opts.PendingLimit = defaultPendingLimit
	}

	s := &Service{
		prober:   prober,
		store:    store,
		notifier: notifier,
		recorder: nopRecorder{},
		clock:    clock.New(),
		opts:     opts,
		logger:   zap.NewNop(),
		nodes:    make(map[string]*NodeRuntime, len(nodes)),
		engine: transition.NewEngine(transition.Config{
			Cooldown:        opts.Cooldown,
			ChannelsEnabled: notifier != nil && notifier.Enabled(),
		}),
	}

	for _, o := range options {
		o(s)
	}

	s.confirmer = confirm.NewConfirmer(prober, opts.Samples, opts.ConfirmTimeout, s.logger)

	for _, n := range nodes {
		if _, dup := s.nodes[n.IP]; dup {
			continue
		}

		s.nodes[n.IP] = newNodeRuntime(n)
		s.order = append(s.order, n.IP)
	}

	return s
}

// Runtime returns the handle for ip.
func (s *Service) Runtime(ip string) (*NodeRuntime, bool) {
	rt, ok := s.nodes[ip]

	return rt, ok
}

// Nodes lists the configured nodes in configuration order.
func (s *Service) Nodes() []models.NodeConfig {
	out := make([]models.NodeConfig, 0, len(s.order))
	for _, ip := range s.order {
		out = append(out, s.nodes[ip].Config)
	}

	return out
}

// TryBegin marks ip in flight. It fails with ErrInFlight when a cycle is
// already running and ErrUnknownNode for unconfigured addresses.
func (s *Service) TryBegin(ip string) error {
	rt, ok := s.nodes[ip]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, ip)
	}

	if !rt.TryBegin() {
		return ErrInFlight
	}

	return nil
}

// End clears the in-flight mark set by TryBegin.
func (s *Service) End(ip string) {
	if rt, ok := s.nodes[ip]; ok {
		rt.End()
	}
}

func (s *Service) Snapshot(ip string) (models.RuntimeSnapshot, bool) {
	rt, ok := s.nodes[ip]
	if !ok {
		return models.RuntimeSnapshot{}, false
	}

	return rt.Snapshot(), true
}

func (s *Service) Snapshots() []models.RuntimeSnapshot {
	out := make([]models.RuntimeSnapshot, 0, len(s.order))
	for _, ip := range s.order {
		out = append(out, s.nodes[ip].Snapshot())
	}

	return out
}

// LoadRuntime seeds every node from persisted history so a restart does not
// look like a state change. A node that fails here is seeded again at the
// start of its next cycle, and the cycle does not run until that succeeds.
func (s *Service) LoadRuntime(ctx context.Context) error {
	var errs []error

	for _, ip := range s.order {
		if err := s.seedNode(ctx, s.nodes[ip]); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %w", ErrSeedFailed, ip, err))
		}
	}

	return errors.Join(errs...)
}

func (s *Service) seedNode(ctx context.Context, rt *NodeRuntime) error {
	ip := rt.Config.IP
	mem := transition.NewMemory()

	last, err := s.store.GetLastTransition(ctx, ip)
	if err != nil {
		return err
	}

	if last != nil {
		mem.State = last.CurrentState
		mem.Region = last.CurrentRegion
		mem.Since = last.TransitionedAt

		if last.Notified {
			regionChange := last.PreviousState == last.CurrentState
			mem.LastNotified = map[string]time.Time{
				transition.CooldownKey(last.PreviousState, last.CurrentState, regionChange): last.TransitionedAt,
			}
		}
	} else {
		first, err := s.store.GetFirstCheckTime(ctx, ip)
		if err != nil {
			return err
		}

		mem.Since = first
	}

	var (
		conf        models.Confidence
		lastChecked time.Time
	)

	latest, err := s.store.GetLatestCheck(ctx, ip)
	if err != nil {
		return err
	}

	if latest != nil {
		conf = latest.Confidence
		lastChecked = latest.CheckedAt
	}

	rt.seed(mem, conf, lastChecked)

	s.logger.Info("seeded node runtime",
		zap.String("node", ip),
		zap.String("state", string(mem.State)),
		zap.Time("since", mem.Since))

	return nil
}

// RunCheck runs one full cycle for ip. It always yields a record unless the
// node is unknown or ctx ended while probing.
func (s *Service) RunCheck(ctx context.Context, ip string, trigger models.Trigger) (*models.CheckRecord, error) {
	rt, ok := s.nodes[ip]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, ip)
	}

	rt.cycleMu.Lock()
	defer rt.cycleMu.Unlock()

	if !rt.isSeeded() {
		if err := s.seedNode(ctx, rt); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrSeedFailed, ip, err)
		}
	}

	s.recorder.InFlight(1)
	defer s.recorder.InFlight(-1)

	start := s.clock.Now()

	s.flushPending(ctx, rt)

	cls, counters := s.observe(ctx, rt)
	if ctx.Err() != nil {
		// a cancelled probe says nothing about the peer
		return nil, fmt.Errorf("%w: %w", ErrCycleAborted, ctx.Err())
	}

	final, region, conf := s.confirmRoute(ctx, ip, cls)
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %w", ErrCycleAborted, ctx.Err())
	}

	grade := confidence.Resolve(cls, final, conf)
	if final == models.StateDERPSuspect {
		final = models.StateUnknown
	}

	evidence := cls.Evidence
	evidence.DERPRegion = region

	checkedAt := s.clock.Now().UTC()

	check := &models.CheckRecord{
		NodeIP:       ip,
		NodeLabel:    rt.Config.Label,
		CheckedAt:    checkedAt,
		State:        final,
		Confidence:   grade,
		Trigger:      trigger,
		Evidence:     evidence,
		Confirmation: conf,
	}

	if counters != nil {
		delta := traffic.Delta(rt.counters, *counters)
		rt.counters = counters
		check.Traffic = &delta
	}

	outcome := s.engine.Evaluate(rt.loadMemory(), transition.Observation{
		NodeIP:  ip,
		State:   final,
		Region:  region,
		Trigger: trigger,
		At:      checkedAt,
	})

	rt.commit(outcome.Memory, grade, checkedAt)

	s.persist(ctx, rt, check, outcome.Event)

	if outcome.Event != nil {
		s.announce(outcome, check)
	}

	s.recorder.ObserveCheck(check, s.clock.Since(start))

	s.logger.Debug("check complete",
		zap.String("node", ip),
		zap.String("state", string(final)),
		zap.String("confidence", string(grade)),
		zap.String("trigger", string(trigger)))

	return check, nil
}

// observe reads the status snapshot and, when enabled, the traffic counters
// concurrently.
func (s *Service) observe(ctx context.Context, rt *NodeRuntime) (models.ClassificationResult, *traffic.Counters) {
	var (
		cls      models.ClassificationResult
		counters *traffic.Counters
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t0 := s.clock.Now()
		raw, err := s.prober.Status(gctx)
		s.recorder.ObserveProbe("status", s.clock.Since(t0), err)

		if err != nil {
			s.logger.Warn("status read failed", zap.String("node", rt.Config.IP), zap.Error(err))
			cls = classify.ProbeFailed(err)

			return nil
		}

		cls, _ = classify.FromStatus(raw, rt.Config.IP, s.clock.Now(), classify.Options{StaleAfter: s.opts.StaleAfter})
		if cls.Evidence.Basis == models.BasisMalformed {
			s.logger.Warn("status output unusable",
				zap.String("node", rt.Config.IP),
				zap.String("detail", cls.Evidence.Detail))
		}

		return nil
	})

	if s.traffic != nil {
		g.Go(func() error {
			c, err := s.traffic.Fetch(gctx)
			if err != nil {
				s.logger.Debug("traffic counters unavailable", zap.String("node", rt.Config.IP), zap.Error(err))

				return nil
			}

			counters = &c

			return nil
		})
	}

	_ = g.Wait()

	return cls, counters
}

// confirmRoute runs the confirmation probe when the classification needs
// one. The returned state may still be DERP_SUSPECT.
func (s *Service) confirmRoute(
	ctx context.Context, ip string, cls models.ClassificationResult,
) (models.State, string, *models.ConfirmationResult) {
	if !confirm.ShouldConfirm(cls, s.opts.Confirmation) {
		return cls.State, cls.Evidence.DERPRegion, nil
	}

	t0 := s.clock.Now()
	res, err := s.confirmer.Confirm(ctx, ip)
	s.recorder.ObserveProbe("ping", s.clock.Since(t0), err)

	state, region, verr := confirm.Verdict(cls, res)
	if verr != nil {
		s.logger.Info("confirmation inconclusive",
			zap.String("node", ip),
			zap.Int("samples", len(res.Samples)),
			zap.Bool("timed_out", res.TimedOut),
			zap.Error(verr))
	}

	return state, region, res
}

func (*Service) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	// a cycle that got this far is worth writing even during shutdown
	return context.WithTimeout(context.WithoutCancel(ctx), defaultStoreTimeout)
}

func (s *Service) persist(ctx context.Context, rt *NodeRuntime, check *models.CheckRecord, ev *models.TransitionEvent) {
	wctx, cancel := s.storeContext(ctx)
	defer cancel()

	w := pendingWrite{check: check, event: ev}

	if len(rt.pending) > 0 || !s.write(wctx, rt.Config.IP, &w) {
		s.enqueue(rt, w)
	}

	if check.State != models.StateOffline {
		if err := s.store.UpdateNodeLastSeen(wctx, rt.Config.IP, check.CheckedAt); err != nil {
			s.logger.Warn("failed to update last seen", zap.String("node", rt.Config.IP), zap.Error(err))
		}
	}
}

// write stores w and clears what was written. It reports whether nothing
// is left.
func (s *Service) write(ctx context.Context, ip string, w *pendingWrite) bool {
	if w.check != nil {
		if err := s.store.InsertCheck(ctx, w.check); err != nil {
			s.logger.Error("failed to store check", zap.String("node", ip), zap.Error(err))

			return false
		}

		w.check = nil
	}

	if w.event != nil {
		if err := s.store.InsertTransition(ctx, w.event); err != nil {
			s.logger.Error("failed to store transition",
				zap.String("node", ip),
				zap.String("event_id", w.event.EventID),
				zap.Error(err))

			return false
		}

		w.event = nil
	}

	return true
}

func (s *Service) enqueue(rt *NodeRuntime, w pendingWrite) {
	rt.pending = append(rt.pending, w)

	if over := len(rt.pending) - s.opts.PendingLimit; over > 0 {
		s.logger.Warn("dropping unwritten cycle results",
			zap.String("node", rt.Config.IP),
			zap.Int("dropped", over))

		rt.pending = rt.pending[over:]
	}
}

// flushPending retries unwritten results in order, stopping at the first
// failure.
func (s *Service) flushPending(ctx context.Context, rt *NodeRuntime) {
	if len(rt.pending) == 0 {
		return
	}

	wctx, cancel := s.storeContext(ctx)
	defer cancel()

	written := 0

	for i := range rt.pending {
		if !s.write(wctx, rt.Config.IP, &rt.pending[i]) {
			break
		}

		written++
	}

	rt.pending = rt.pending[written:]

	if written > 0 {
		s.logger.Info("stored pending cycle results",
			zap.String("node", rt.Config.IP),
			zap.Int("written", written),
			zap.Int("remaining", len(rt.pending)))
	}
}

// PendingWrites reports how many cycle results for ip await storage.
func (s *Service) PendingWrites(ip string) int {
	rt, ok := s.nodes[ip]
	if !ok {
		return 0
	}

	rt.cycleMu.Lock()
	defer rt.cycleMu.Unlock()

	return len(rt.pending)
}

func (s *Service) announce(outcome transition.Outcome, check *models.CheckRecord) {
	ev := outcome.Event

	s.recorder.ObserveTransition(ev)

	s.logger.Info("state transition",
		zap.String("node", ev.NodeIP),
		zap.String("previous", string(ev.PreviousState)),
		zap.String("current", string(ev.CurrentState)),
		zap.String("severity", string(ev.Severity)),
		zap.Int64("duration_previous_seconds", ev.DurationPreviousSeconds),
		zap.Bool("notified", ev.Notified),
		zap.String("suppression_reason", ev.SuppressionReason))

	if s.notifier == nil {
		return
	}

	s.notifier.Publish(ev)

	if outcome.Notify {
		s.notifier.Notify(ev, check)
	}
}

type nopRecorder struct{}

func (nopRecorder) ObserveCheck(*models.CheckRecord, time.Duration) {}
func (nopRecorder) ObserveTransition(*models.TransitionEvent)       {}
func (nopRecorder) ObserveProbe(string, time.Duration, error)       {}
func (nopRecorder) InFlight(int)                                    {}
