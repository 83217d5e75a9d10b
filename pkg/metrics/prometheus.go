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
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/mfreeman451/pathwatch/pkg/models"
)

const namespace = "pathwatch"

// Collectors are the Prometheus series exported on /metrics.
type Collectors struct {
	checks        *prometheus.CounterVec
	transitions   *prometheus.CounterVec
	probeDuration *prometheus.HistogramVec
	checkDuration prometheus.Histogram
	inFlight      prometheus.Gauge
	nodeState     *prometheus.GaugeVec
}

func NewCollectors() *Collectors {
	return &Collectors{
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_total",
			Help:      "Completed check cycles by final state and confidence.",
		}, []string{"state", "confidence"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Recorded transitions by severity and whether they were notified.",
		}, []string{"severity", "notified"}),
		probeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "probe_duration_seconds",
			Help:      "Duration of external probe invocations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "result"}),
		checkDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "check_duration_seconds",
			Help:      "Duration of a full check cycle.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 40},
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "checks_in_flight",
			Help:      "Check cycles currently running.",
		}),
		nodeState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "node_state",
			Help:      "1 for the current state of each node, 0 otherwise.",
		}, []string{"node", "state"}),
	}
}

// Register adds every collector to reg. Already registered collectors are
// not an error.
func (c *Collectors) Register(reg prometheus.Registerer) error {
	for _, col := range []prometheus.Collector{
		c.checks, c.transitions, c.probeDuration, c.checkDuration, c.inFlight, c.nodeState,
	} {
		if err := reg.Register(col); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}

			return err
		}
	}

	return nil
}

func (c *Collectors) observeCheck(check *models.CheckRecord, elapsed time.Duration) {
	c.checks.WithLabelValues(string(check.State), string(check.Confidence)).Inc()
	c.checkDuration.Observe(elapsed.Seconds())

	for _, s := range models.States {
		if !s.Persistable() {
			continue
		}

		v := 0.0
		if s == check.State {
			v = 1
		}

		c.nodeState.WithLabelValues(check.NodeIP, string(s)).Set(v)
	}
}

func (c *Collectors) observeTransition(ev *models.TransitionEvent) {
	notified := "false"
	if ev.Notified {
		notified = "true"
	}

	c.transitions.WithLabelValues(string(ev.Severity), notified).Inc()
}

func (c *Collectors) observeProbe(op string, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}

	c.probeDuration.WithLabelValues(op, result).Observe(elapsed.Seconds())
}

func logRegisterError(logger *zap.Logger, err error) {
	if err != nil {
		logger.Warn("failed to register collectors", zap.Error(err))
	}
}
