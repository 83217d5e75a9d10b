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

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mfreeman451/pathwatch/pkg/alerts"
	"github.com/mfreeman451/pathwatch/pkg/api"
	"github.com/mfreeman451/pathwatch/pkg/config"
	"github.com/mfreeman451/pathwatch/pkg/db"
	"github.com/mfreeman451/pathwatch/pkg/lifecycle"
	"github.com/mfreeman451/pathwatch/pkg/logger"
	"github.com/mfreeman451/pathwatch/pkg/metrics"
	"github.com/mfreeman451/pathwatch/pkg/monitor"
	"github.com/mfreeman451/pathwatch/pkg/probe"
	"github.com/mfreeman451/pathwatch/pkg/scheduler"
	"github.com/mfreeman451/pathwatch/pkg/traffic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

const serviceName = "pathwatch"

func loadConfig(flags *rootFlags) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Logging.Level
	if flags.logLevel != "" {
		level = flags.logLevel
	}

	log, err := logger.New(level, cfg.Logging.Format)
	if err != nil {
		return nil, nil, err
	}

	return cfg, log, nil
}

func newProber(cfg *config.Config, log *zap.Logger) *probe.Tailscale {
	return probe.NewTailscale(
		probe.NewOSRunner(cfg.Settings.ShutdownGrace.Std()),
		probe.Config{
			Binary:        cfg.Tailscale.Binary,
			Socket:        cfg.Tailscale.Socket,
			StatusTimeout: cfg.Tailscale.StatusTimeout.Std(),
			StatusTTL:     cfg.Tailscale.StatusCacheTTL.Std(),
			MaxConcurrent: cfg.Tailscale.MaxConcurrentProbes,
		},
		log.Named("probe"))
}

// newDispatcher builds one alert service per configured channel. A config
// without channels yields a dispatcher that reports itself disabled.
func newDispatcher(cfg *config.Config, log *zap.Logger) (*alerts.Dispatcher, error) {
	n := cfg.Notifications
	timeout := n.SendTimeout.Std()

	var services []alerts.AlertService

	if n.DiscordWebhookURL != "" {
		discord, err := alerts.NewDiscordWebhook(n.DiscordWebhookURL, log)
		if err != nil {
			return nil, fmt.Errorf("discord: %w", err)
		}

		services = append(services, discord)
	}

	if n.Ntfy.URL != "" && n.Ntfy.Topic != "" {
		services = append(services, alerts.NewNtfyAlerter(alerts.NtfyConfig{
			Enabled: true,
			URL:     n.Ntfy.URL,
			Topic:   n.Ntfy.Topic,
			Token:   n.Ntfy.Token,
			Timeout: timeout,
		}, log))
	}

	for i := range n.Webhooks {
		wh := &n.Webhooks[i]

		headers := make([]alerts.Header, 0, len(wh.Headers))
		for _, h := range wh.Headers {
			headers = append(headers, alerts.Header{Key: h.Key, Value: h.Value})
		}

		svc, err := alerts.NewWebhookAlerter(alerts.WebhookConfig{
			Enabled:  wh.Enabled,
			Name:     wh.Name,
			URL:      wh.URL,
			Headers:  headers,
			Template: wh.Template,
			Timeout:  timeout,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("webhook %d: %w", i, err)
		}

		services = append(services, svc)
	}

	d := alerts.NewDispatcher(log.Named("alerts"), services...)
	d.SetSendTimeout(timeout)

	return d, nil
}

func monitorOptions(cfg *config.Config) monitor.Options {
	s := cfg.Settings

	return monitor.Options{
		Confirmation:   s.Confirmation.Enabled,
		Samples:        s.Confirmation.Samples,
		ConfirmTimeout: s.Confirmation.Timeout.Std(),
		StaleAfter:     s.OfflineStaleness.Std(),
		Cooldown:       s.NotificationCooldown.Std(),
	}
}

func trafficOption(cfg *config.Config, log *zap.Logger) []monitor.Option {
	if !cfg.Traffic.Enabled {
		return nil
	}

	return []monitor.Option{monitor.WithTraffic(traffic.NewScraper(traffic.Config{
		Enabled: true,
		URL:     cfg.Traffic.URL,
		Timeout: cfg.Traffic.Timeout.Std(),
	}, log.Named("traffic")))}
}

// app is the fully wired daemon.
type app struct {
	cfg        *config.Config
	log        *zap.Logger
	store      db.Service
	dispatcher *alerts.Dispatcher
	monitor    *monitor.Service
	scheduler  *scheduler.Scheduler
	retention  *monitor.RetentionService
	api        *api.APIServer
}

func newApp(cfg *config.Config, log *zap.Logger, prober probe.Prober) (*app, error) {
	store, err := db.New(cfg.DBPath, log.Named("db"))
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, store: store}

	if err := a.wire(prober); err != nil {
		_ = store.Close()

		return nil, err
	}

	return a, nil
}

func (a *app) wire(prober probe.Prober) error {
	cfg, log := a.cfg, a.log

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	mgr := metrics.NewManager(cfg.Metrics, registry, log.Named("metrics"))

	dispatcher, err := newDispatcher(cfg, log)
	if err != nil {
		return err
	}

	a.dispatcher = dispatcher

	opts := append([]monitor.Option{
		monitor.WithRecorder(mgr),
		monitor.WithLogger(log.Named("monitor")),
	}, trafficOption(cfg, log)...)

	a.monitor = monitor.NewService(cfg.NodeConfigs(), prober, a.store, dispatcher, monitorOptions(cfg), opts...)

	a.scheduler = scheduler.New(a.monitor, scheduler.Config{
		DefaultInterval: cfg.Settings.CheckInterval.Std(),
		Grace:           cfg.Settings.ShutdownGrace.Std(),
	}, nil, log.Named("scheduler"))

	a.retention, err = monitor.NewRetentionService(a.store, cfg.Settings.DataRetention.Std(), nil, log.Named("retention"))
	if err != nil && !errors.Is(err, monitor.ErrRetentionZero) {
		return err
	}

	a.api = api.NewAPIServer(a.monitor, a.scheduler, a.store,
		api.WithLatency(mgr),
		api.WithGatherer(registry),
		api.WithRateLimit(cfg.Server.TriggerRate, cfg.Server.TriggerBurst),
		api.WithListenAddr(cfg.Server.ListenAddr),
		api.WithMaxConnections(cfg.Server.MaxConnections),
		api.WithLogger(log.Named("api")),
	)

	dispatcher.Subscribe(a.api.Hub())

	return nil
}

// services lists lifecycle services in start order; RunServer stops them in
// reverse, so the API closes first and the store last.
func (a *app) services() []lifecycle.Service {
	svcs := []lifecycle.Service{
		lifecycle.Hooks{OnStop: func(context.Context) error { return a.store.Close() }},
	}

	if a.retention != nil {
		svcs = append(svcs, a.retention)
	} else {
		a.log.Info("Data retention disabled")
	}

	return append(svcs,
		lifecycle.Hooks{OnStop: a.dispatcher.Drain},
		a.scheduler,
		a.api,
	)
}

// prepare registers the configured nodes and restores runtime state. A node
// whose history cannot be read retries the seed before each cycle.
func (a *app) prepare(ctx context.Context) error {
	if err := a.store.UpsertNodes(ctx, a.cfg.NodeConfigs()); err != nil {
		return fmt.Errorf("failed to register nodes: %w", err)
	}

	if err := a.monitor.LoadRuntime(ctx); err != nil {
		a.log.Warn("Could not restore state for every node", zap.Error(err))
	}

	return nil
}

func (a *app) shutdownTimeout() time.Duration {
	return a.cfg.Settings.ShutdownGrace.Std() + lifecycle.ShutdownTimeout
}
