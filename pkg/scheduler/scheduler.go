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

// Package scheduler pkg/scheduler/scheduler.go drives one check loop per node.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/mfreeman451/pathwatch/pkg/models"
	"github.com/mfreeman451/pathwatch/pkg/monitor"
)

//go:generate mockgen -destination=mock_scheduler.go -package=scheduler github.com/mfreeman451/pathwatch/pkg/scheduler Pipeline

const defaultInterval = 5 * time.Minute

var (
	errShutdownTimeout = errors.New("scheduler shutdown timed out")
	errAlreadyStarted  = errors.New("scheduler already started")
	errStopped         = errors.New("scheduler stopped")
)

// Pipeline is the per-node check cycle the scheduler drives.
type Pipeline interface {
	Nodes() []models.NodeConfig
	TryBegin(ip string) error
	End(ip string)
	RunCheck(ctx context.Context, ip string, trigger models.Trigger) (*models.CheckRecord, error)
}

// Result is the synchronous answer to a manual trigger.
type Result string

const (
	ResultAccepted    Result = "accepted"
	ResultInProgress  Result = "in_progress"
	ResultUnknownNode Result = "unknown_node"
	ResultStopped     Result = "stopped"
)

// Summary counts the outcome of TriggerAll.
type Summary struct {
	Accepted   int `json:"accepted"`
	InProgress int `json:"in_progress"`
	Stopped    int `json:"stopped"`
}

type Config struct {
	DefaultInterval time.Duration
	Grace           time.Duration // how long Stop waits before cancelling running cycles
}

type Scheduler struct {
	pipeline Pipeline
	config   Config
	clock    clock.Clock
	logger   *zap.Logger

	mu      sync.Mutex
	started bool
	stopped bool
	wg      sync.WaitGroup

	cancelLoops context.CancelFunc
	cycleCtx    context.Context
	cancelCycle context.CancelFunc
}

func New(p Pipeline, cfg Config, clk clock.Clock, logger *zap.Logger) *Scheduler {
	if clk == nil {
		clk = clock.New()
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.DefaultInterval <= 0 {
		cfg.DefaultInterval = defaultInterval
	}

	cycleCtx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		pipeline:    p,
		config:      cfg,
		clock:       clk,
		logger:      logger,
		cycleCtx:    cycleCtx,
		cancelCycle: cancel,
		cancelLoops: func() {},
	}
}

// Interval returns the effective check interval of node.
func (s *Scheduler) Interval(node models.NodeConfig) time.Duration {
	if node.CheckInterval > 0 {
		return node.CheckInterval
	}

	return s.config.DefaultInterval
}

// Start launches one loop per node and returns immediately. Every loop runs
// a startup cycle before its first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return errAlreadyStarted
	}

	if s.stopped {
		return errStopped
	}

	s.started = true

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancelLoops = cancel

	for _, node := range s.pipeline.Nodes() {
		interval := s.Interval(node)
		ticker := s.clock.Ticker(interval)

		s.logger.Info("Scheduling node",
			zap.String("node", node.IP),
			zap.Duration("interval", interval))

		s.wg.Add(1)

		go s.loop(loopCtx, node.IP, ticker)
	}

	return nil
}

func (s *Scheduler) loop(ctx context.Context, ip string, ticker *clock.Ticker) {
	defer s.wg.Done()
	defer ticker.Stop()

	s.scheduled(ip, models.TriggerStartup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}

			s.scheduled(ip, models.TriggerScheduled)
		}
	}
}

func (s *Scheduler) scheduled(ip string, trigger models.Trigger) {
	if err := s.pipeline.TryBegin(ip); err != nil {
		s.logger.Debug("Skipping scheduled check",
			zap.String("node", ip),
			zap.String("trigger", string(trigger)),
			zap.Error(err))

		return
	}

	s.cycle(ip, trigger)
}

// cycle runs one check for a node already marked in flight.
func (s *Scheduler) cycle(ip string, trigger models.Trigger) {
	defer s.pipeline.End(ip)

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Check cycle panicked",
				zap.String("node", ip),
				zap.String("trigger", string(trigger)),
				zap.Any("panic", r))
		}
	}()

	rec, err := s.pipeline.RunCheck(s.cycleCtx, ip, trigger)
	if err != nil {
		s.logger.Warn("Check cycle failed",
			zap.String("node", ip),
			zap.String("trigger", string(trigger)),
			zap.Error(err))

		return
	}

	s.logger.Debug("Check cycle complete",
		zap.String("node", ip),
		zap.String("trigger", string(trigger)),
		zap.String("state", string(rec.State)),
		zap.String("confidence", string(rec.Confidence)))
}

// TriggerCheck requests an immediate cycle for ip. The answer is returned
// before the cycle runs.
func (s *Scheduler) TriggerCheck(ip string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return ResultStopped
	}

	if err := s.pipeline.TryBegin(ip); err != nil {
		if errors.Is(err, monitor.ErrInFlight) {
			return ResultInProgress
		}

		return ResultUnknownNode
	}

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		s.cycle(ip, models.TriggerManual)
	}()

	return ResultAccepted
}

// TriggerAll triggers every configured node.
func (s *Scheduler) TriggerAll() Summary {
	var sum Summary

	for _, node := range s.pipeline.Nodes() {
		switch s.TriggerCheck(node.IP) {
		case ResultAccepted:
			sum.Accepted++
		case ResultInProgress:
			sum.InProgress++
		case ResultStopped:
			sum.Stopped++
		case ResultUnknownNode:
		}
	}

	return sum
}

// Stopped reports whether Stop has been called.
func (s *Scheduler) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stopped
}

// Stop refuses new cycles, waits up to the grace period for running ones and
// then cancels whatever is left. It returns an error if ctx ends first.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	s.stopped = true
	s.cancelLoops()
	s.mu.Unlock()

	done := make(chan struct{})

	go func() {
		s.wg.Wait()
		close(done)
	}()

	if s.config.Grace > 0 {
		graceCtx, cancel := context.WithTimeout(ctx, s.config.Grace)
		defer cancel()

		select {
		case <-done:
			s.cancelCycle()

			return nil
		case <-graceCtx.Done():
			s.logger.Warn("Grace period elapsed, cancelling running checks",
				zap.Duration("grace", s.config.Grace))
		}
	}

	s.cancelCycle()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", errShutdownTimeout, ctx.Err())
	}
}
