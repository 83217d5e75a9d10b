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
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/mfreeman451/pathwatch/pkg/db"
	"github.com/mfreeman451/pathwatch/pkg/models"
	"github.com/spf13/cobra"
)

type statusFlags struct {
	dbPath string
	window time.Duration
	json   bool
}

// NodeStatus is one row of the status report.
type NodeStatus struct {
	IP          string              `json:"ip"`
	Label       string              `json:"label"`
	LastSeenAt  *time.Time          `json:"last_seen_at,omitempty"`
	LatestCheck *models.CheckRecord `json:"latest_check,omitempty"`
	Uptime      *db.UptimeStats     `json:"uptime"`
}

func newStatusCmd(flags *rootFlags) *cobra.Command {
	sf := &statusFlags{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the last recorded state of every node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := sf.dbPath

			if path == "" {
				cfg, log, err := loadConfig(flags)
				if err != nil {
					return err
				}

				_ = log.Sync()
				path = cfg.DBPath
			}

			store, err := db.New(path, nil)
			if err != nil {
				return err
			}

			defer func() { _ = store.Close() }()

			rows, err := collectStatus(cmd.Context(), store, time.Now().Add(-sf.window))
			if err != nil {
				return err
			}

			if sf.json {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")

				return enc.Encode(rows)
			}

			return printStatus(cmd.OutOrStdout(), rows, sf.window)
		},
	}

	cmd.Flags().StringVar(&sf.dbPath, "db", "", "database path (default from config)")
	cmd.Flags().DurationVar(&sf.window, "window", 24*time.Hour, "uptime window")
	cmd.Flags().BoolVar(&sf.json, "json", false, "print JSON instead of a table")

	return cmd
}

func collectStatus(ctx context.Context, store db.Service, since time.Time) ([]NodeStatus, error) {
	nodes, err := store.ListNodes(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]NodeStatus, 0, len(nodes))

	for _, n := range nodes {
		latest, err := store.GetLatestCheck(ctx, n.IP)
		if err != nil {
			return nil, err
		}

		uptime, err := store.GetUptimeStats(ctx, n.IP, since)
		if err != nil {
			return nil, err
		}

		rows = append(rows, NodeStatus{
			IP:          n.IP,
			Label:       n.Label,
			LastSeenAt:  n.LastSeenAt,
			LatestCheck: latest,
			Uptime:      uptime,
		})
	}

	return rows, nil
}

func printStatus(out io.Writer, rows []NodeStatus, window time.Duration) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "NODE\tLABEL\tSTATE\tCONFIDENCE\tREGION\tCHECKED\tUPTIME (%s)\n", window)

	for i := range rows {
		r := &rows[i]
		state, conf, region, checked := "-", "-", "-", "never"

		if c := r.LatestCheck; c != nil {
			state = c.State.Label()
			conf = string(c.Confidence)
			checked = c.CheckedAt.Local().Format(time.DateTime)

			if c.Evidence.DERPRegion != "" {
				region = c.Evidence.DERPRegion
			}
		}

		uptime := "-"
		if r.Uptime != nil && r.Uptime.UptimePct != nil {
			uptime = fmt.Sprintf("%.1f%%", *r.Uptime.UptimePct)
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", r.IP, r.Label, state, conf, region, checked, uptime)
	}

	return tw.Flush()
}
