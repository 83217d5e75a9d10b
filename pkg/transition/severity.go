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

// Package transition pkg/transition/severity.go
package transition

import "github.com/mfreeman451/pathwatch/pkg/models"

const RegionChangeKey = "DERP_REGION_CHANGE"

type pair struct {
	a, b models.State
}

func unordered(a, b models.State) pair {
	if a > b {
		a, b = b, a
	}

	return pair{a, b}
}

var pathSeverity = map[pair]models.Severity{
	unordered(models.StateDirect, models.StateDERP):      models.SeverityHigh,
	unordered(models.StateDirect, models.StatePeerRelay): models.SeverityMedium,
	unordered(models.StatePeerRelay, models.StateDERP):   models.SeverityMedium,
}

// Severity tiers a change from prev to cur.
func Severity(prev, cur models.State, regionChange bool) models.Severity {
	if regionChange {
		return models.SeverityLow
	}

	if prev == models.StateOffline || cur == models.StateOffline {
		return models.SeverityHigh
	}

	if sev, ok := pathSeverity[unordered(prev, cur)]; ok {
		return sev
	}

	return models.SeverityLow
}

// Notifies reports whether a change from prev to cur should reach the
// notification channels at all, before cooldown is considered.
func Notifies(prev, cur models.State, regionChange bool) bool {
	switch {
	case regionChange:
		return true
	case prev == cur:
		return false
	case prev == models.StateOffline, cur == models.StateOffline:
		return true
	}

	_, ok := pathSeverity[unordered(prev, cur)]

	return ok
}

// CooldownKey identifies the transition kind for cooldown bookkeeping.
func CooldownKey(prev, cur models.State, regionChange bool) string {
	if regionChange {
		return RegionChangeKey
	}

	return string(prev) + "->" + string(cur)
}
