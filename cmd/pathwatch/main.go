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

// Package main cmd/pathwatch/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Set by the build.
var (
	version = "dev"
	commit  = "none"
)

type rootFlags struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "pathwatch",
		Short: "Watch which path tailscale traffic takes to each peer",
		Long: `pathwatch classifies every configured tailnet peer as DIRECT, PEER_RELAY,
DERP, INACTIVE or OFFLINE on a schedule, records each check and every path
change, and notifies configured channels when a peer's path changes.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c",
		"/etc/pathwatch/config.yaml", "path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "",
		"override the configured log level")

	rootCmd.AddCommand(
		newServeCmd(flags),
		newProbeCmd(flags),
		newStatusCmd(flags),
		newVersionCmd(),
	)

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
