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

// Package models pkg/models/metrics.go
package models

import "time"

// LatencyPoint is one confirmation probe result kept for the dashboard chart.
type LatencyPoint struct {
	Timestamp time.Time `json:"timestamp"`
	AvgMs     float64   `json:"avg_ms"`
	MinMs     float64   `json:"min_ms"`
	MaxMs     float64   `json:"max_ms"`
	LossPct   float64   `json:"loss_pct"`
	Route     State     `json:"route"`
}

type MetricsConfig struct {
	Enabled   bool `json:"enabled" yaml:"enabled"`
	Retention int  `json:"retention" yaml:"retention"` // points kept per node
	MaxNodes  int  `json:"max_nodes" yaml:"max_nodes"`
}
