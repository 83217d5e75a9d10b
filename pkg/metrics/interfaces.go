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

// Package metrics pkg/metrics/interfaces.go
package metrics

import (
	"time"

	"github.com/mfreeman451/pathwatch/pkg/models"
)

//go:generate mockgen -destination=mock_metrics.go -package=metrics github.com/mfreeman451/pathwatch/pkg/metrics LatencyStore,Recorder

type LatencyStore interface {
	Add(point models.LatencyPoint)
	GetPoints() []models.LatencyPoint
	GetLastPoint() *models.LatencyPoint
}

// Recorder receives the outcome of every check cycle.
type Recorder interface {
	ObserveCheck(check *models.CheckRecord, elapsed time.Duration)
	ObserveTransition(ev *models.TransitionEvent)
	ObserveProbe(op string, elapsed time.Duration, err error)
	InFlight(delta int)
}
