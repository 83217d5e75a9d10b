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
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfreeman451/pathwatch/pkg/models"
)

func point(ms float64) models.LatencyPoint {
	return models.LatencyPoint{Timestamp: time.Unix(int64(ms), 0), AvgMs: ms}
}

func TestRingBuffer(t *testing.T) {
	b := NewBuffer(3)
	assert.Empty(t, b.GetPoints())
	assert.Nil(t, b.GetLastPoint())

	b.Add(point(1))
	b.Add(point(2))
	assert.Equal(t, []float64{1, 2}, avgs(b.GetPoints()))

	b.Add(point(3))
	b.Add(point(4))
	assert.Equal(t, []float64{2, 3, 4}, avgs(b.GetPoints()))

	last := b.GetLastPoint()
	require.NotNil(t, last)
	assert.InDelta(t, 4.0, last.AvgMs, 0)
}

func avgs(points []models.LatencyPoint) []float64 {
	out := make([]float64, 0, len(points))
	for _, p := range points {
		out = append(out, p.AvgMs)
	}

	return out
}

func confirmedCheck(ip string, avg time.Duration) *models.CheckRecord {
	return &models.CheckRecord{
		NodeIP:     ip,
		CheckedAt:  time.Now(),
		State:      models.StateDERP,
		Confidence: models.ConfidenceHigh,
		Confirmation: &models.ConfirmationResult{
			Samples:       make([]models.ProbeSample, 2),
			DominantRoute: models.StateDERP,
			AvgLatency:    avg,
		},
	}
}

func TestManager(t *testing.T) {
	cfg := models.MetricsConfig{
		Enabled:   true,
		Retention: 10,
	}

	t.Run("records latency per node", func(t *testing.T) {
		manager := NewManager(cfg, nil, nil)

		manager.ObserveCheck(confirmedCheck("100.64.0.1", 20*time.Millisecond), time.Second)
		manager.ObserveCheck(confirmedCheck("100.64.0.2", 30*time.Millisecond), time.Second)
		manager.ObserveCheck(&models.CheckRecord{NodeIP: "100.64.0.3", State: models.StateDirect}, time.Second)

		assert.Equal(t, int64(2), manager.GetActiveNodes())

		points := manager.GetLatency("100.64.0.1")
		require.Len(t, points, 1)
		assert.InDelta(t, 20.0, points[0].AvgMs, 0.001)
		assert.Equal(t, models.StateDERP, points[0].Route)
		assert.Nil(t, manager.GetLatency("100.64.0.3"))
	})

	t.Run("disabled history", func(t *testing.T) {
		manager := NewManager(models.MetricsConfig{Enabled: false}, nil, nil)

		manager.AddLatency("node1", point(1))
		assert.Nil(t, manager.GetLatency("node1"))
	})

	t.Run("node limit", func(t *testing.T) {
		manager := NewManager(models.MetricsConfig{Enabled: true, MaxNodes: 1}, nil, nil)

		manager.AddLatency("a", point(1))
		manager.AddLatency("b", point(1))
		manager.AddLatency("a", point(2))

		assert.Len(t, manager.GetLatency("a"), 2)
		assert.Nil(t, manager.GetLatency("b"))
	})

	t.Run("concurrent access", func(t *testing.T) {
		manager := NewManager(cfg, nil, nil)

		var wg sync.WaitGroup

		const goroutines = 10

		const iterations = 100

		for i := 0; i < goroutines; i++ {
			wg.Add(1)

			go func(id int) {
				defer wg.Done()

				for j := 0; j < iterations; j++ {
					manager.AddLatency("node1", point(float64(id*1000+j)))
				}
			}(i)
		}

		wg.Wait()

		assert.Len(t, manager.GetLatency("node1"), cfg.Retention)
	})
}

func TestCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	manager := NewManager(models.MetricsConfig{Enabled: true}, reg, nil)

	manager.ObserveCheck(confirmedCheck("100.64.0.1", time.Millisecond), time.Second)
	manager.ObserveTransition(&models.TransitionEvent{Severity: models.SeverityHigh, Notified: true})
	manager.ObserveProbe("ping", time.Second, errors.New("exit 1"))
	manager.InFlight(1)
	manager.InFlight(1)
	manager.InFlight(-1)

	c := manager.collectors
	assert.InDelta(t, 1.0, testutil.ToFloat64(c.checks.WithLabelValues("DERP", "high")), 0)
	assert.InDelta(t, 1.0, testutil.ToFloat64(c.transitions.WithLabelValues("high", "true")), 0)
	assert.InDelta(t, 1.0, testutil.ToFloat64(c.inFlight), 0)
	assert.InDelta(t, 1.0, testutil.ToFloat64(c.nodeState.WithLabelValues("100.64.0.1", "DERP")), 0)
	assert.InDelta(t, 0.0, testutil.ToFloat64(c.nodeState.WithLabelValues("100.64.0.1", "DIRECT")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(c.probeDuration))

	// A second manager on the same registry must not fail.
	require.NoError(t, NewCollectors().Register(reg))
}
