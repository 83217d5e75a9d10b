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

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/mfreeman451/pathwatch/pkg/db"
	"github.com/mfreeman451/pathwatch/pkg/models"
	"github.com/mfreeman451/pathwatch/pkg/monitor"
	"github.com/mfreeman451/pathwatch/pkg/scheduler"
	"go.uber.org/zap"
)

const (
	defaultStatsWindow    = 24 * time.Hour
	defaultDiagnoseCount  = 5
	nodeDetailTransitions = 10
)

func (s *APIServer) healthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *APIServer) getNodes(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.monitor.Snapshots())
}

// knownNode writes a 404 and returns false when the path names an
// unconfigured node.
func (s *APIServer) knownNode(w http.ResponseWriter, r *http.Request) (models.RuntimeSnapshot, bool) {
	ip := mux.Vars(r)["ip"]

	snap, ok := s.monitor.Snapshot(ip)
	if !ok {
		s.writeError(w, http.StatusNotFound, "node not found")
	}

	return snap, ok
}

func (s *APIServer) getNode(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.knownNode(w, r)
	if !ok {
		return
	}

	latest, err := s.store.GetLatestCheck(r.Context(), snap.NodeIP)
	if err != nil {
		s.storeError(w, snap.NodeIP, err)
		return
	}

	transitions, err := s.store.GetRecentTransitions(r.Context(), snap.NodeIP, nodeDetailTransitions)
	if err != nil {
		s.storeError(w, snap.NodeIP, err)
		return
	}

	if transitions == nil {
		transitions = []models.TransitionEvent{}
	}

	s.writeJSON(w, http.StatusOK, NodeDetail{
		RuntimeSnapshot: snap,
		LatestCheck:     latest,
		Transitions:     transitions,
	})
}

func (s *APIServer) getNodeHistory(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.knownNode(w, r)
	if !ok {
		return
	}

	limit, ok := s.intParam(w, r, "limit", 0)
	if !ok {
		return
	}

	history, err := s.store.GetNodeHistory(r.Context(), snap.NodeIP, limit)
	if err != nil {
		s.storeError(w, snap.NodeIP, err)
		return
	}

	if history == nil {
		history = []models.CheckRecord{}
	}

	s.writeJSON(w, http.StatusOK, history)
}

func (s *APIServer) getNodeLatency(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.knownNode(w, r)
	if !ok {
		return
	}

	points := []models.LatencyPoint{}

	if s.latency != nil {
		if p := s.latency.GetLatency(snap.NodeIP); p != nil {
			points = p
		}
	}

	s.writeJSON(w, http.StatusOK, points)
}

func (s *APIServer) getTransitions(w http.ResponseWriter, r *http.Request) {
	node := r.URL.Query().Get("node")

	if node != "" {
		if _, ok := s.monitor.Snapshot(node); !ok {
			s.writeError(w, http.StatusNotFound, "node not found")
			return
		}
	}

	limit, ok := s.intParam(w, r, "limit", 0)
	if !ok {
		return
	}

	events, err := s.store.GetRecentTransitions(r.Context(), node, limit)
	if err != nil {
		s.storeError(w, node, err)
		return
	}

	if events == nil {
		events = []models.TransitionEvent{}
	}

	s.writeJSON(w, http.StatusOK, events)
}

func (s *APIServer) getStats(w http.ResponseWriter, r *http.Request) {
	window := defaultStatsWindow

	if v := r.URL.Query().Get("window"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			s.writeError(w, http.StatusBadRequest, "invalid window")
			return
		}

		window = d
	}

	since := s.clock.Now().Add(-window)
	snaps := s.monitor.Snapshots()

	stats := SystemStats{
		Window:     window.String(),
		Since:      since.UTC(),
		TotalNodes: len(snaps),
		ByState:    make(map[models.State]int),
		Nodes:      make([]*db.UptimeStats, 0, len(snaps)),
	}

	for i := range snaps {
		stats.ByState[snaps[i].State]++

		if snaps[i].InFlight {
			stats.InFlight++
		}

		uptime, err := s.store.GetUptimeStats(r.Context(), snaps[i].NodeIP, since)
		if err != nil {
			s.storeError(w, snaps[i].NodeIP, err)
			return
		}

		stats.Nodes = append(stats.Nodes, uptime)
	}

	s.writeJSON(w, http.StatusOK, stats)
}

func (s *APIServer) triggerCheck(w http.ResponseWriter, r *http.Request) {
	ip := mux.Vars(r)["ip"]
	result := s.trigger.TriggerCheck(ip)

	var status int

	switch result {
	case scheduler.ResultAccepted:
		status = http.StatusAccepted
	case scheduler.ResultInProgress:
		status = http.StatusConflict
	case scheduler.ResultUnknownNode:
		status = http.StatusNotFound
	case scheduler.ResultStopped:
		status = http.StatusServiceUnavailable
	default:
		status = http.StatusInternalServerError
	}

	s.writeJSON(w, status, TriggerResponse{NodeIP: ip, Result: result})
}

func (s *APIServer) triggerAll(w http.ResponseWriter, _ *http.Request) {
	sum := s.trigger.TriggerAll()

	status := http.StatusAccepted
	if sum.Stopped > 0 {
		status = http.StatusServiceUnavailable
	}

	s.writeJSON(w, status, sum)
}

func (s *APIServer) diagnose(w http.ResponseWriter, r *http.Request) {
	ip := mux.Vars(r)["ip"]

	count, ok := s.intParam(w, r, "count", defaultDiagnoseCount)
	if !ok {
		return
	}

	diag, err := s.monitor.Diagnose(r.Context(), ip, count)
	if err != nil {
		if errors.Is(err, monitor.ErrUnknownNode) {
			s.writeError(w, http.StatusNotFound, "node not found")
			return
		}

		s.logger.Warn("Diagnostic probe failed", zap.String("node", ip), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "diagnostic probe failed")

		return
	}

	s.writeJSON(w, http.StatusOK, diag)
}

func (s *APIServer) intParam(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, true
	}

	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		s.writeError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}

	return n, true
}

func (s *APIServer) storeError(w http.ResponseWriter, ip string, err error) {
	s.logger.Error("Store read failed", zap.String("node", ip), zap.Error(err))
	s.writeError(w, http.StatusInternalServerError, "store unavailable")
}
