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

package classify

import (
	"errors"
	"fmt"
	"time"

	"github.com/mfreeman451/pathwatch/pkg/models"
)

// DefaultStaleAfter is how long a non-active peer may go unseen before it is
// treated as offline.
const DefaultStaleAfter = 10 * time.Minute

type Options struct {
	StaleAfter time.Duration
}

func (o Options) staleAfter() time.Duration {
	if o.StaleAfter <= 0 {
		return DefaultStaleAfter
	}

	return o.StaleAfter
}

// Classify maps one peer snapshot to a state. A nil peer means the peer was
// absent from the status output. It has no side effects.
func Classify(peer *models.PeerStatusSnapshot, now time.Time, opts Options) models.ClassificationResult {
	if peer == nil {
		return result(models.StateOffline, models.ConfidenceLow, models.Evidence{
			Basis:  models.BasisPeerAbsent,
			Detail: ErrPeerNotFound.Error(),
		})
	}

	ev := models.Evidence{
		CurAddr:   peer.CurAddr,
		PeerRelay: peer.PeerRelay,
		RelayHint: peer.Relay,
		LastSeen:  peer.LastSeen,
	}

	if peer.Online != nil && !*peer.Online {
		ev.Basis = models.BasisExplicitOffline
		return result(models.StateOffline, models.ConfidenceHigh, ev)
	}

	if stale(peer, now, opts.staleAfter()) {
		ev.Basis = models.BasisStaleLastSeen
		ev.Detail = fmt.Sprintf("last seen %s ago", now.Sub(peer.LastSeen).Truncate(time.Second))

		return result(models.StateOffline, models.ConfidenceHigh, ev)
	}

	ev.Basis = models.BasisExplicitField

	switch {
	case !peer.Active:
		return result(models.StateInactive, models.ConfidenceHigh, ev)
	case peer.CurAddr != "":
		return result(models.StateDirect, models.ConfidenceHigh, ev)
	case peer.PeerRelay != "":
		return result(models.StatePeerRelay, models.ConfidenceHigh, ev)
	}

	ev.Basis = models.BasisNeedsConfirmation

	return result(models.StateDERPSuspect, models.ConfidenceLow, ev)
}

// stale is true only for a non-active peer whose reachability was not
// asserted this cycle and whose last-seen is older than the window.
func stale(peer *models.PeerStatusSnapshot, now time.Time, window time.Duration) bool {
	if peer.Active || (peer.Online != nil && *peer.Online) || peer.LastSeen.IsZero() {
		return false
	}

	return now.Sub(peer.LastSeen) > window
}

// Malformed is the result for a snapshot that could not be interpreted.
func Malformed(err error) models.ClassificationResult {
	ev := models.Evidence{Basis: models.BasisMalformed}
	if err != nil {
		ev.Detail = err.Error()
	}

	return result(models.StateUnknown, models.ConfidenceLow, ev)
}

// ProbeFailed is the result when the status read itself failed.
func ProbeFailed(err error) models.ClassificationResult {
	ev := models.Evidence{Basis: models.BasisProbeFailed}
	if err != nil {
		ev.Detail = err.Error()
	}

	return result(models.StateUnknown, models.ConfidenceLow, ev)
}

// FromStatus parses raw status output and classifies the peer at ip. The
// returned snapshot is nil when the peer was absent or unparseable.
func FromStatus(raw []byte, ip string, now time.Time, opts Options) (models.ClassificationResult, *models.PeerStatusSnapshot) {
	st, err := ParseStatus(raw)
	if err != nil {
		return Malformed(err), nil
	}

	peer, err := st.Peer(ip)

	switch {
	case errors.Is(err, ErrPeerNotFound):
		return Classify(nil, now, opts), nil
	case err != nil:
		return Malformed(err), nil
	}

	return Classify(peer, now, opts), peer
}

func result(state models.State, conf models.Confidence, ev models.Evidence) models.ClassificationResult {
	ev.StatusState = state

	return models.ClassificationResult{State: state, Confidence: conf, Evidence: ev}
}
