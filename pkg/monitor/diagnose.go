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

package monitor

import (
	"context"
	"fmt"

	"github.com/mfreeman451/pathwatch/pkg/confirm"
	"github.com/mfreeman451/pathwatch/pkg/models"
)

// Diagnosis is the outcome of an ad-hoc confirmation probe.
type Diagnosis struct {
	NodeIP string                     `json:"node_ip"`
	Route  models.State               `json:"route"`
	Region string                     `json:"region,omitempty"`
	Result *models.ConfirmationResult `json:"result"`
	Error  string                     `json:"error,omitempty"`
}

// Diagnose runs the confirmation probe against ip with count samples
// (clamped to 1..20). It does not touch runtime state, the store or the
// notifier.
func (s *Service) Diagnose(ctx context.Context, ip string, count int) (*Diagnosis, error) {
	rt, ok := s.nodes[ip]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, ip)
	}

	t0 := s.clock.Now()
	res, err := s.confirmer.ConfirmN(ctx, ip, count)
	s.recorder.ObserveProbe("ping", s.clock.Since(t0), err)

	// judge the probe as if the status had suggested a relay
	suspect := models.ClassificationResult{
		State: models.StateDERPSuspect,
		Evidence: models.Evidence{
			Basis: models.BasisNeedsConfirmation,
		},
	}

	route, region, _ := confirm.Verdict(suspect, res)
	if route == models.StateDERPSuspect {
		route = models.StateUnknown
	}

	d := &Diagnosis{
		NodeIP: rt.Config.IP,
		Route:  route,
		Region: region,
		Result: res,
	}

	if err != nil {
		d.Error = err.Error()
	}

	return d, nil
}
