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

// Package db pkg/db/interfaces.go
package db

import (
	"context"
	"time"

	"github.com/mfreeman451/pathwatch/pkg/models"
)

//go:generate mockgen -destination=mock_db.go -package=db github.com/mfreeman451/pathwatch/pkg/db Service

// Service represents all database operations.
type Service interface {
	Close() error

	// Node registry.

	UpsertNodes(ctx context.Context, nodes []models.NodeConfig) error
	UpdateNodeLastSeen(ctx context.Context, ip string, at time.Time) error
	ListNodes(ctx context.Context) ([]NodeRecord, error)

	// Append-only facts.

	InsertCheck(ctx context.Context, rec *models.CheckRecord) error
	InsertTransition(ctx context.Context, ev *models.TransitionEvent) error

	// Reads used to seed runtime state. Both return zero values, not errors,
	// when the node has no history.

	GetLastTransition(ctx context.Context, ip string) (*models.TransitionEvent, error)
	GetFirstCheckTime(ctx context.Context, ip string) (time.Time, error)

	// Dashboard reads.

	GetLatestCheck(ctx context.Context, ip string) (*models.CheckRecord, error)
	GetNodeHistory(ctx context.Context, ip string, limit int) ([]models.CheckRecord, error)
	GetRecentTransitions(ctx context.Context, ip string, limit int) ([]models.TransitionEvent, error)
	GetUptimeStats(ctx context.Context, ip string, since time.Time) (*UptimeStats, error)

	// Maintenance.

	CleanOldData(ctx context.Context, retentionPeriod time.Duration) (int64, error)
}
