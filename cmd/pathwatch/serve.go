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
	"github.com/mfreeman451/pathwatch/pkg/lifecycle"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduler, API and notifiers until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(flags)
			if err != nil {
				return err
			}

			defer func() { _ = log.Sync() }()

			a, err := newApp(cfg, log, newProber(cfg, log))
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			if err := a.prepare(ctx); err != nil {
				_ = a.store.Close()

				return err
			}

			log.Info("Monitoring nodes",
				zap.Int("nodes", len(cfg.Nodes)),
				zap.Bool("notifications", a.dispatcher.Enabled()),
				zap.String("version", version))

			return lifecycle.RunServer(ctx, &lifecycle.ServerOptions{
				ServiceName:     serviceName,
				GRPCAddr:        cfg.Server.GRPCAddr,
				Services:        a.services(),
				ShutdownTimeout: a.shutdownTimeout(),
				Logger:          log,
			})
		},
	}
}
