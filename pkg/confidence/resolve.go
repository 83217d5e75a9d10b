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

// Package confidence pkg/confidence/resolve.go grades the combined evidence
// of one check cycle.
package confidence

import (
	"github.com/mfreeman451/pathwatch/pkg/models"
)

// Resolve returns the confidence for a final state given the classifier
// result and the confirmation probe result, if one ran.
func Resolve(cls models.ClassificationResult, final models.State, conf *models.ConfirmationResult) models.Confidence {
	if final == models.StateUnknown || final == models.StateDERPSuspect {
		return models.ConfidenceLow
	}

	switch cls.Evidence.Basis {
	case models.BasisMalformed, models.BasisProbeFailed, models.BasisPeerAbsent:
		return models.ConfidenceLow
	case models.BasisExplicitOffline, models.BasisStaleLastSeen, models.BasisExplicitField:
		return models.ConfidenceHigh
	case models.BasisNeedsConfirmation:
		return confirmed(final, conf)
	}

	return models.ConfidenceLow
}

func confirmed(final models.State, conf *models.ConfirmationResult) models.Confidence {
	if !conf.Usable() {
		return models.ConfidenceLow
	}

	if final != models.StateDERP {
		// status suggested a relay but the probe found a usable path
		return models.ConfidenceMedium
	}

	if len(conf.Samples) == 0 || conf.LossPct > 0 || conf.DominantRoute != models.StateDERP {
		return models.ConfidenceMedium
	}

	return models.ConfidenceHigh
}
