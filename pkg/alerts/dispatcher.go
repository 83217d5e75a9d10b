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
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mfreeman451/pathwatch/pkg/models"
)

const defaultSendTimeout = 15 * time.Second

// Observer receives every persisted transition, notified or not.
type Observer interface {
	Publish(ev *models.TransitionEvent)
}

// Dispatcher fans a transition out to every enabled channel without
// blocking the caller. Failures are logged and never retried.
type Dispatcher struct {
	services    []AlertService
	observers   []Observer
	sendTimeout time.Duration
	logger      *zap.Logger
	wg          sync.WaitGroup
	mu          sync.RWMutex
}

func NewDispatcher(logger *zap.Logger, services ...AlertService) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Dispatcher{
		services:    services,
		sendTimeout: defaultSendTimeout,
		logger:      logger,
	}
}

// SetSendTimeout bounds each channel delivery. Non-positive values are ignored.
func (d *Dispatcher) SetSendTimeout(timeout time.Duration) {
	if timeout > 0 {
		d.sendTimeout = timeout
	}
}

// Subscribe registers an observer for Publish.
func (d *Dispatcher) Subscribe(o Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.observers = append(d.observers, o)
}

// Enabled reports whether at least one channel would deliver.
func (d *Dispatcher) Enabled() bool {
	for _, svc := range d.services {
		if svc.IsEnabled() {
			return true
		}
	}

	return false
}

// Notify dispatches ev to every enabled channel in the background.
func (d *Dispatcher) Notify(ev *models.TransitionEvent, check *models.CheckRecord) {
	for _, svc := range d.services {
		if !svc.IsEnabled() {
			continue
		}

		alert := NewTransitionAlert(ev, check)

		d.wg.Add(1)

		go d.send(svc, alert)
	}
}

func (d *Dispatcher) send(svc AlertService, alert *WebhookAlert) {
	defer d.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("alert channel panicked",
				zap.String("channel", svc.Name()),
				zap.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
	defer cancel()

	if err := svc.Alert(ctx, alert); err != nil {
		d.logger.Warn("failed to deliver alert",
			zap.String("channel", svc.Name()),
			zap.String("node", alert.NodeID),
			zap.String("event_id", alert.EventID),
			zap.Error(err))

		return
	}

	d.logger.Debug("alert delivered",
		zap.String("channel", svc.Name()),
		zap.String("event_id", alert.EventID))
}

// Publish hands ev to observers. Observers must not block.
func (d *Dispatcher) Publish(ev *models.TransitionEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, o := range d.observers {
		o.Publish(ev)
	}
}

// Drain waits for in-flight deliveries or until ctx is done.
func (d *Dispatcher) Drain(ctx context.Context) error {
	done := make(chan struct{})

	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
