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

package confirm

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mfreeman451/pathwatch/pkg/models"
	"github.com/mfreeman451/pathwatch/pkg/probe"
)

const (
	MinSamples = 1
	MaxSamples = 20
)

// ShouldConfirm reports whether a classification needs an active probe.
func ShouldConfirm(cls models.ClassificationResult, enabled bool) bool {
	if !enabled || cls.State != models.StateDERPSuspect {
		return false
	}

	return cls.Evidence.Basis != models.BasisExplicitOffline
}

// Verdict combines a suspected-relay classification with the probe result.
// It returns StateDERPSuspect with ErrConfirmationAmbiguous when the probe
// gave nothing to decide on; callers must not promote that to DERP.
func Verdict(cls models.ClassificationResult, res *models.ConfirmationResult) (models.State, string, error) {
	if !res.Usable() {
		return models.StateDERPSuspect, "", ErrConfirmationAmbiguous
	}

	suspected := cls.State == models.StateDERPSuspect

	if res.DominantRoute == models.StateDERP || HasRoute(res, models.StateDERP) ||
		(suspected && res.DirectNotEstablished) {
		region := res.Region
		if region == "" {
			region = cls.Evidence.RelayHint
		}

		return models.StateDERP, region, nil
	}

	if res.DominantRoute == models.StateDirect || res.DominantRoute == models.StatePeerRelay {
		return res.DominantRoute, "", nil
	}

	return models.StateDERPSuspect, "", ErrConfirmationAmbiguous
}

// Confirmer runs confirmation probes through a Prober.
type Confirmer struct {
	prober  probe.Prober
	samples int
	timeout time.Duration
	logger  *zap.Logger
}

func NewConfirmer(prober probe.Prober, samples int, timeout time.Duration, logger *zap.Logger) *Confirmer {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Confirmer{
		prober:  prober,
		samples: ClampSamples(samples),
		timeout: timeout,
		logger:  logger,
	}
}

// Confirm probes ip with the configured sample count.
func (c *Confirmer) Confirm(ctx context.Context, ip string) (*models.ConfirmationResult, error) {
	return c.ConfirmN(ctx, ip, c.samples)
}

// ConfirmN probes ip with count samples. Whatever output was captured is
// parsed even when the probe failed; the error is informational.
func (c *Confirmer) ConfirmN(ctx context.Context, ip string, count int) (*models.ConfirmationResult, error) {
	count = ClampSamples(count)

	out, err := c.prober.Ping(ctx, ip, count, c.timeout)

	res := Parse(out.Text, count)
	res.TimedOut = out.TimedOut

	if err != nil {
		res.ExitError = err.Error()

		c.logger.Warn("confirmation probe failed",
			zap.String("node", ip),
			zap.Error(err),
			zap.Int("samples", len(res.Samples)))
	}

	return &res, err
}

func ClampSamples(n int) int {
	switch {
	case n < MinSamples:
		return MinSamples
	case n > MaxSamples:
		return MaxSamples
	}

	return n
}
