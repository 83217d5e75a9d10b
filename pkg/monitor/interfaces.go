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

// Package monitor pkg/monitor/interfaces.go
package monitor

import (
	"context"
	"time"

	"github.com/mfreeman451/pathwatch/pkg/models"
	"github.com/mfreeman451/pathwatch/pkg/traffic"
)

//go:generate mockgen -destination=mock_monitor.go -package=monitor github.com/mfreeman451/pathwatch/pkg/monitor Store,Notifier,TrafficSource,Cleaner

// Store is the persistence the check pipeline needs. db.Service satisfies it.
type Store interface {
	InsertCheck(ctx context.Context, rec *models.CheckRecord) error
	InsertTransition(ctx context.Context, ev *models.TransitionEvent) error
	UpdateNodeLastSeen(ctx context.Context, ip string, at time.Time) error
	GetLastTransition(ctx context.Context, ip string) (*models.TransitionEvent, error)
	GetFirstCheckTime(ctx context.Context, ip string) (time.Time, error)
	GetLatestCheck(ctx context.Context, ip string) (*models.CheckRecord, error)
}

// Notifier receives transitions. Notify and Publish must not block.
type Notifier interface {
	Notify(ev *models.TransitionEvent, check *models.CheckRecord)
	Publish(ev *models.TransitionEvent)
	Enabled() bool
}

// TrafficSource reads cumulative per-path byte counters.
type TrafficSource interface {
	Fetch(ctx context.Context) (traffic.Counters, error)
}
