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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/mfreeman451/pathwatch/pkg/config"
	"github.com/mfreeman451/pathwatch/pkg/logger"
	"github.com/mfreeman451/pathwatch/pkg/models"
	"github.com/mfreeman451/pathwatch/pkg/monitor"
	"github.com/mfreeman451/pathwatch/pkg/probe"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errInvalidIP = errors.New("invalid tailscale IP")

type probeFlags struct {
	count    int
	diagnose bool
}

func newProbeCmd(flags *rootFlags) *cobra.Command {
	pf := &probeFlags{}

	cmd := &cobra.Command{
		Use:   "probe <ip>",
		Short: "Classify one peer now without recording anything",
		Long: `Runs a single check against the peer (status read, confirmation probe when
needed) and prints the resulting record. Nothing is written to the database
and no notification is sent. With --diagnose only the confirmation probe runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ip := args[0]
			if net.ParseIP(ip) == nil {
				return fmt.Errorf("%w: %q", errInvalidIP, ip)
			}

			cfg, log, err := loadConfigOrDefault(flags)
			if err != nil {
				return err
			}

			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runProbe(ctx, cmd.OutOrStdout(), cfg, log, newProber(cfg, log), ip, pf)
		},
	}

	cmd.Flags().IntVarP(&pf.count, "count", "n", 0, "confirmation samples (default from config)")
	cmd.Flags().BoolVar(&pf.diagnose, "diagnose", false, "run only the confirmation probe")

	return cmd
}

// loadConfigOrDefault lets probe run on a host without a config file.
func loadConfigOrDefault(flags *rootFlags) (*config.Config, *zap.Logger, error) {
	cfg, log, err := loadConfig(flags)
	if err == nil {
		return cfg, log, nil
	}

	if !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, err
	}

	cfg = config.Default()

	level := flags.logLevel
	if level == "" {
		level = "warn"
	}

	log, err = logger.New(level, "console")
	if err != nil {
		return nil, nil, err
	}

	return cfg, log, nil
}

func runProbe(
	ctx context.Context,
	out io.Writer,
	cfg *config.Config,
	log *zap.Logger,
	prober probe.Prober,
	ip string,
	pf *probeFlags,
) error {
	node := models.NodeConfig{IP: ip, Label: ip}

	for _, n := range cfg.NodeConfigs() {
		if n.IP == ip {
			node = n
			break
		}
	}

	opts := monitorOptions(cfg)
	if pf.count > 0 {
		opts.Samples = pf.count
	}

	svc := monitor.NewService([]models.NodeConfig{node}, prober, discardStore{}, nil, opts,
		append([]monitor.Option{monitor.WithLogger(log.Named("monitor"))}, trafficOption(cfg, log)...)...)

	var (
		result interface{}
		err    error
	)

	if pf.diagnose {
		result, err = svc.Diagnose(ctx, ip, opts.Samples)
	} else {
		result, err = svc.RunCheck(ctx, ip, models.TriggerManual)
	}

	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	return enc.Encode(result)
}

// discardStore satisfies monitor.Store for one-shot checks that must not
// persist anything.
type discardStore struct{}

func (discardStore) InsertCheck(context.Context, *models.CheckRecord) error          { return nil }
func (discardStore) InsertTransition(context.Context, *models.TransitionEvent) error { return nil }
func (discardStore) UpdateNodeLastSeen(context.Context, string, time.Time) error     { return nil }
func (discardStore) GetFirstCheckTime(context.Context, string) (time.Time, error) {
	return time.Time{}, nil
}
func (discardStore) GetLatestCheck(context.Context, string) (*models.CheckRecord, error) {
	return nil, nil
}
func (discardStore) GetLastTransition(context.Context, string) (*models.TransitionEvent, error) {
	return nil, nil
}
