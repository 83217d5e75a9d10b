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

// Package api pkg/api/interfaces.go
package api

import (
	"context"
	"time"

	"github.com/mfreeman451/pathwatch/pkg/db"
	"github.com/mfreeman451/pathwatch/pkg/models"
	"github.com/mfreeman451/pathwatch/pkg/monitor"
	"github.com/mfreeman451/pathwatch/pkg/scheduler"
)

//go:generate mockgen -destination=mock_api.go -package=api github.com/mfreeman451/pathwatch/pkg/api Monitor,Trigger

// Monitor exposes runtime state and the diagnostic probe.
type Monitor interface {
	Snapshots() []models.RuntimeSnapshot
	Snapshot(ip string) (models.RuntimeSnapshot, bool)
	Diagnose(ctx context.Context, ip string, count int) (*monitor.Diagnosis, error)
}

// Trigger starts checks on demand.
type Trigger interface {
	TriggerCheck(ip string) scheduler.Result
	TriggerAll() scheduler.Summary
}

// Store is the read side of the database used by the dashboard.
type Store interface {
	GetLatestCheck(ctx context.Context, ip string) (*models.CheckRecord, error)
	GetNodeHistory(ctx context.Context, ip string, limit int) ([]models.CheckRecord, error)
	GetRecentTransitions(ctx context.Context, ip string, limit int) ([]models.TransitionEvent, error)
	GetUptimeStats(ctx context.Context, ip string, since time.Time) (*db.UptimeStats, error)
}

// LatencySource serves the in-memory latency series of a node.
type LatencySource interface {
	GetLatency(ip string) []models.LatencyPoint
}
