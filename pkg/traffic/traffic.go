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

// Package traffic reads tailscaled's per-path outbound byte counters and
// turns consecutive readings into deltas.
package traffic

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"go.uber.org/zap"

	"github.com/mfreeman451/pathwatch/pkg/models"
)

const (
	DefaultURL     = "http://100.100.100.100/metrics"
	DefaultTimeout = 5 * time.Second

	outboundBytesMetric = "tailscaled_outbound_bytes_total"
	pathLabel           = "path"
)

var (
	ErrScrapeStatus = errors.New("metrics endpoint returned non-2xx status")
	ErrScrapeParse  = errors.New("failed to parse metrics payload")
)

// Counters are cumulative outbound bytes grouped by path family.
type Counters struct {
	Direct    int64
	PeerRelay int64
	DERP      int64
}

type Config struct {
	Enabled bool          `json:"enabled" yaml:"enabled"`
	URL     string        `json:"url" yaml:"url"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// Scraper fetches counters over HTTP.
type Scraper struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

func NewScraper(cfg Config, logger *zap.Logger) *Scraper {
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Scraper{
		url:    cfg.URL,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

func (s *Scraper) Fetch(ctx context.Context) (Counters, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, http.NoBody)
	if err != nil {
		return Counters{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return Counters{}, fmt.Errorf("failed to scrape %s: %w", s.url, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			s.logger.Debug("failed to close metrics body", zap.Error(err))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Counters{}, fmt.Errorf("%w: %d", ErrScrapeStatus, resp.StatusCode)
	}

	return Parse(resp.Body)
}

// Parse sums the outbound byte counters in a Prometheus text payload.
// Unknown paths are ignored.
func Parse(r io.Reader) (Counters, error) {
	var parser expfmt.TextParser

	families, err := parser.TextToMetricFamilies(r)
	if err != nil {
		return Counters{}, fmt.Errorf("%w: %w", ErrScrapeParse, err)
	}

	var c Counters

	family, ok := families[outboundBytesMetric]
	if !ok {
		return c, nil
	}

	for _, m := range family.GetMetric() {
		v := int64(sampleValue(m))

		switch labelValue(m, pathLabel) {
		case "direct_ipv4", "direct_ipv6":
			c.Direct += v
		case "peer_relay_ipv4", "peer_relay_ipv6":
			c.PeerRelay += v
		case "derp":
			c.DERP += v
		}
	}

	return c, nil
}

func sampleValue(m *dto.Metric) float64 {
	switch {
	case m.GetCounter() != nil:
		return m.GetCounter().GetValue()
	case m.GetGauge() != nil:
		return m.GetGauge().GetValue()
	case m.GetUntyped() != nil:
		return m.GetUntyped().GetValue()
	}

	return 0
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}

	return ""
}

// Delta is the growth from prev to cur. A nil prev yields zeros; a counter
// that went backwards was reset and its current value is the growth.
func Delta(prev *Counters, cur Counters) models.TrafficDelta {
	if prev == nil {
		return models.TrafficDelta{}
	}

	return models.TrafficDelta{
		Direct:    grow(prev.Direct, cur.Direct),
		PeerRelay: grow(prev.PeerRelay, cur.PeerRelay),
		DERP:      grow(prev.DERP, cur.DERP),
	}
}

func grow(old, cur int64) int64 {
	if cur < old {
		return cur
	}

	return cur - old
}
