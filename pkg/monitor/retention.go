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
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

const (
	DefaultRetentionInterval = 24 * time.Hour
	retentionTimeout         = 5 * time.Minute
)

// Cleaner deletes history older than a retention period.
type Cleaner interface {
	CleanOldData(ctx context.Context, retentionPeriod time.Duration) (int64, error)
}

// RetentionService prunes old check history at start and then on every
// interval.
type RetentionService struct {
	store     Cleaner
	retention time.Duration
	interval  time.Duration
	clock     clock.Clock
	logger    *zap.Logger

	stopCh chan struct{}
	done   chan struct{}
	once   sync.Once
}

func NewRetentionService(store Cleaner, retention time.Duration, clk clock.Clock, logger *zap.Logger) (*RetentionService, error) {
	if retention <= 0 {
		return nil, ErrRetentionZero
	}

	if clk == nil {
		clk = clock.New()
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &RetentionService{
		store:     store,
		retention: retention,
		interval:  DefaultRetentionInterval,
		clock:     clk,
		logger:    logger,
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
	}, nil
}

// Start runs the cleanup loop until ctx ends or Stop is called.
func (r *RetentionService) Start(ctx context.Context) error {
	defer close(r.done)

	ticker := r.clock.Ticker(r.interval)
	defer ticker.Stop()

	r.Cleanup(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-r.stopCh:
			r.logger.Info("Retention service stopped")
			return nil
		case <-ticker.C:
			r.Cleanup(ctx)
		}
	}
}

func (r *RetentionService) Stop(ctx context.Context) error {
	r.once.Do(func() { close(r.stopCh) })

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cleanup performs one pruning pass.
func (r *RetentionService) Cleanup(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, retentionTimeout)
	defer cancel()

	n, err := r.store.CleanOldData(ctx, r.retention)
	if err != nil {
		r.logger.Error("Error cleaning old check history", zap.Error(err))
		return
	}

	r.logger.Info("Cleaned old check history",
		zap.Int64("deleted", n),
		zap.Duration("retention", r.retention))
}
