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

// Package confirm pkg/confirm/parse.go turns confirmation probe output into
// an aggregate route verdict.
package confirm

import (
	"errors"
	"net"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mfreeman451/pathwatch/pkg/models"
)

var ErrConfirmationAmbiguous = errors.New("no recognizable route in confirmation output")

var (
	pongRe      = regexp.MustCompile(`(?i)pong from .*?via (?P<via>.+?) in (?P<latency>[0-9]+(?:\.[0-9]+)?)\s*ms`)
	derpRe      = regexp.MustCompile(`(?i)DERP\((?P<region>[^)]+)\)`)
	peerRelayRe = regexp.MustCompile(`(?i)peer[-_ ]?relay(?:\((?P<endpoint>[^)]*)\))?`)
	notDirectRe = regexp.MustCompile(`(?i)direct connection not established`)
)

// tie-break order when two routes have the same vote count
var routePriority = map[models.State]int{
	models.StateDERP:      3,
	models.StatePeerRelay: 2,
	models.StateDirect:    1,
}

// Parse aggregates every pong line in raw. requested is the sample count the
// probe was asked for; missing and unparsed samples count as loss.
func Parse(raw string, requested int) models.ConfirmationResult {
	res := models.ConfirmationResult{
		Requested:     requested,
		DominantRoute: models.StateUnknown,
		Raw:           raw,
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if notDirectRe.MatchString(line) {
			res.DirectNotEstablished = true
		}

		if s, ok := parseLine(line); ok {
			res.Samples = append(res.Samples, s)
		}
	}

	summarize(&res)

	return res
}

func parseLine(line string) (models.ProbeSample, bool) {
	m := pongRe.FindStringSubmatch(line)
	if m == nil {
		return models.ProbeSample{}, false
	}

	ms, err := strconv.ParseFloat(m[pongRe.SubexpIndex("latency")], 64)
	if err != nil {
		return models.ProbeSample{}, false
	}

	s := models.ProbeSample{
		Latency: time.Duration(ms * float64(time.Millisecond)),
		Line:    line,
	}

	s.Route, s.Region, s.Endpoint = routeOf(strings.TrimSpace(m[pongRe.SubexpIndex("via")]))

	return s, true
}

func routeOf(via string) (route models.State, region, endpoint string) {
	if m := derpRe.FindStringSubmatch(via); m != nil {
		return models.StateDERP, strings.TrimSpace(m[derpRe.SubexpIndex("region")]), ""
	}

	if m := peerRelayRe.FindStringSubmatch(via); m != nil {
		return models.StatePeerRelay, "", m[peerRelayRe.SubexpIndex("endpoint")]
	}

	if host, port, err := net.SplitHostPort(via); err == nil && host != "" {
		if _, err := strconv.Atoi(port); err == nil {
			return models.StateDirect, "", via
		}
	}

	return models.StateUnknown, "", via
}

func summarize(res *models.ConfirmationResult) {
	received := len(res.Samples)

	sent := res.Requested
	if received > sent {
		sent = received
	}

	if received == 0 {
		res.LossPct = 100

		return
	}

	res.LossPct = float64(sent-received) / float64(sent) * 100

	var total time.Duration

	votes := make(map[models.State]int)
	regionVotes := make(map[string]int)
	regionOrder := make([]string, 0)

	for i, s := range res.Samples {
		if i == 0 || s.Latency < res.MinLatency {
			res.MinLatency = s.Latency
		}

		if s.Latency > res.MaxLatency {
			res.MaxLatency = s.Latency
		}

		total += s.Latency

		if _, ok := routePriority[s.Route]; ok {
			votes[s.Route]++
		}

		if s.Route == models.StateDERP && s.Region != "" {
			if regionVotes[s.Region] == 0 {
				regionOrder = append(regionOrder, s.Region)
			}

			regionVotes[s.Region]++
		}
	}

	res.AvgLatency = total / time.Duration(received)

	best := 0
	for route, n := range votes {
		if n > best || (n == best && routePriority[route] > routePriority[res.DominantRoute]) {
			best = n
			res.DominantRoute = route
		}
	}

	best = 0
	for _, region := range regionOrder {
		if regionVotes[region] > best {
			best = regionVotes[region]
			res.Region = region
		}
	}
}

// HasRoute reports whether any sample took route.
func HasRoute(res *models.ConfirmationResult, route models.State) bool {
	if res == nil {
		return false
	}

	for _, s := range res.Samples {
		if s.Route == route {
			return true
		}
	}

	return false
}
