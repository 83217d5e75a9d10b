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

package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/mfreeman451/pathwatch/pkg/models"
)

const defaultRetention = 100

type NodeMetrics struct {
	buffer LatencyStore
}

// Manager keeps per-node latency history and feeds the Prometheus
// collectors. It satisfies Recorder.
type Manager struct {
	nodes       sync.Map // Map of nodeIP -> *NodeMetrics
	config      models.MetricsConfig
	activeNodes int64 // Atomic counter for active nodes
	collectors  *Collectors
	logger      *zap.Logger
}

// NewManager registers its collectors on reg; a nil reg skips registration.
func NewManager(cfg models.MetricsConfig, reg prometheus.Registerer, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.Retention <= 0 {
		cfg.Retention = defaultRetention
	}

	m := &Manager{
		config:     cfg,
		collectors: NewCollectors(),
		logger:     logger,
	}

	if reg != nil {
		logRegisterError(logger, m.collectors.Register(reg))
	}

	return m
}

func (m *Manager) AddLatency(nodeIP string, point models.LatencyPoint) {
	if !m.config.Enabled {
		return
	}

	nodeMetrics, loaded := m.nodes.Load(nodeIP)
	if !loaded {
		if m.config.MaxNodes > 0 && atomic.LoadInt64(&m.activeNodes) >= int64(m.config.MaxNodes) {
			m.logger.Debug("latency history node limit reached", zap.String("node", nodeIP))

			return
		}

		nodeMetrics, loaded = m.nodes.LoadOrStore(nodeIP, &NodeMetrics{
			buffer: NewBuffer(m.config.Retention),
		})

		if !loaded {
			atomic.AddInt64(&m.activeNodes, 1)
		}
	}

	nodeMetrics.(*NodeMetrics).buffer.Add(point)
}

func (m *Manager) GetLatency(nodeIP string) []models.LatencyPoint {
	nodeMetrics, ok := m.nodes.Load(nodeIP)
	if !ok {
		return nil
	}

	return nodeMetrics.(*NodeMetrics).buffer.GetPoints()
}

func (m *Manager) GetActiveNodes() int64 {
	return atomic.LoadInt64(&m.activeNodes)
}

func (m *Manager) ObserveCheck(check *models.CheckRecord, elapsed time.Duration) {
	m.collectors.observeCheck(check, elapsed)

	c := check.Confirmation
	if c == nil || len(c.Samples) == 0 {
		return
	}

	m.AddLatency(check.NodeIP, models.LatencyPoint{
		Timestamp: check.CheckedAt,
		AvgMs:     durationMs(c.AvgLatency),
		MinMs:     durationMs(c.MinLatency),
		MaxMs:     durationMs(c.MaxLatency),
		LossPct:   c.LossPct,
		Route:     c.DominantRoute,
	})
}

func (m *Manager) ObserveTransition(ev *models.TransitionEvent) {
	m.collectors.observeTransition(ev)
}

func (m *Manager) ObserveProbe(op string, elapsed time.Duration, err error) {
	m.collectors.observeProbe(op, elapsed, err)
}

func (m *Manager) InFlight(delta int) {
	m.collectors.inFlight.Add(float64(delta))
}

func durationMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
