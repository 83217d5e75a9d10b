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

// Package api pkg/api/server.go serves the dashboard API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gorilla/mux"
	httpx "github.com/mfreeman451/pathwatch/pkg/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/net/netutil"
	"golang.org/x/time/rate"
)

const (
	defaultListenAddr     = ":8080"
	defaultMaxConnections = 256
	readHeaderTimeout     = 10 * time.Second
)

type Option func(*APIServer)

// APIServer routes dashboard requests to the monitor, scheduler and store.
type APIServer struct {
	monitor  Monitor
	trigger  Trigger
	store    Store
	latency  LatencySource
	hub      *Hub
	gatherer prometheus.Gatherer
	limiter  *rate.Limiter
	clock    clock.Clock
	logger   *zap.Logger

	addr     string
	maxConns int
	router   *mux.Router
	handler  http.Handler
	srv      *http.Server
}

func WithLatency(src LatencySource) Option {
	return func(s *APIServer) { s.latency = src }
}

func WithHub(h *Hub) Option {
	return func(s *APIServer) { s.hub = h }
}

func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *APIServer) { s.gatherer = g }
}

// WithRateLimit bounds the trigger endpoints to r requests per second.
func WithRateLimit(r float64, burst int) Option {
	return func(s *APIServer) {
		if r > 0 && burst > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(r), burst)
		}
	}
}

func WithClock(c clock.Clock) Option {
	return func(s *APIServer) { s.clock = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *APIServer) { s.logger = l }
}

func WithListenAddr(addr string) Option {
	return func(s *APIServer) { s.addr = addr }
}

func WithMaxConnections(n int) Option {
	return func(s *APIServer) { s.maxConns = n }
}

func NewAPIServer(mon Monitor, trig Trigger, store Store, opts ...Option) *APIServer {
	s := &APIServer{
		monitor:  mon,
		trigger:  trig,
		store:    store,
		gatherer: prometheus.DefaultGatherer,
		clock:    clock.New(),
		logger:   zap.NewNop(),
		addr:     defaultListenAddr,
		maxConns: defaultMaxConnections,
		router:   mux.NewRouter(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.hub == nil {
		s.hub = NewHub(s.logger)
	}

	s.setupRoutes()

	// preflight requests never match a route, so CORS wraps the router
	s.handler = httpx.CommonMiddleware(s.router)

	s.srv = &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	return s
}

func (s *APIServer) setupRoutes() {
	s.router.Use(httpx.LoggingMiddleware(s.logger))

	s.router.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/nodes", s.getNodes).Methods(http.MethodGet)
	api.HandleFunc("/nodes/{ip}", s.getNode).Methods(http.MethodGet)
	api.HandleFunc("/nodes/{ip}/history", s.getNodeHistory).Methods(http.MethodGet)
	api.HandleFunc("/nodes/{ip}/latency", s.getNodeLatency).Methods(http.MethodGet)
	api.HandleFunc("/transitions", s.getTransitions).Methods(http.MethodGet)
	api.HandleFunc("/stats", s.getStats).Methods(http.MethodGet)
	api.Handle("/ws", s.hub).Methods(http.MethodGet)

	triggers := api.NewRoute().Subrouter()
	if s.limiter != nil {
		triggers.Use(httpx.RateLimit(s.limiter))
	}

	triggers.HandleFunc("/nodes/{ip}/check", s.triggerCheck).Methods(http.MethodPost)
	triggers.HandleFunc("/check", s.triggerAll).Methods(http.MethodPost)
	triggers.HandleFunc("/nodes/{ip}/diagnose", s.diagnose).Methods(http.MethodPost)
}

// Handler returns the root handler served by Start.
func (s *APIServer) Handler() http.Handler {
	return s.handler
}

// Hub returns the websocket hub so it can be subscribed to the dispatcher.
func (s *APIServer) Hub() *Hub {
	return s.hub
}

// Start listens on the configured address and serves until Stop is called.
func (s *APIServer) Start(ctx context.Context) error {
	var lc net.ListenConfig

	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	if s.maxConns > 0 {
		ln = netutil.LimitListener(ln, s.maxConns)
	}

	s.logger.Info("Starting HTTP server",
		zap.String("addr", s.addr),
		zap.Int("max_connections", s.maxConns))

	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}

	return nil
}

// Stop closes websocket clients and shuts the HTTP server down.
func (s *APIServer) Stop(ctx context.Context) error {
	s.hub.Close()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	return nil
}

func (s *APIServer) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("Error encoding response", zap.Error(err))
	}
}

func (s *APIServer) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}
