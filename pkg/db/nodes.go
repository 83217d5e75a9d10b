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

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mfreeman451/pathwatch/pkg/models"
)

// UpsertNodes registers the configured nodes, refreshing label and tags of
// nodes that already exist.
func (db *DB) UpsertNodes(ctx context.Context, nodes []models.NodeConfig) error {
	const upsertSQL = `
		INSERT INTO nodes (ip, label, tags, added_at, last_seen_at)
		VALUES (?, ?, ?, ?, NULL)
		ON CONFLICT(ip) DO UPDATE SET
			label = excluded.label,
			tags = excluded.tags
	`

	now := time.Now().UTC()

	return db.withTx(ctx, func(tx *sql.Tx) error {
		for i := range nodes {
			tags := nodes[i].Tags
			if tags == nil {
				tags = []string{}
			}

			encoded, err := json.Marshal(tags)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrFailedToEncode, err)
			}

			if _, err := tx.ExecContext(ctx, upsertSQL, nodes[i].IP, nodes[i].Label, string(encoded), now); err != nil {
				return fmt.Errorf("%w node %s: %w", ErrFailedToInsert, nodes[i].IP, err)
			}
		}

		return nil
	})
}

func (db *DB) UpdateNodeLastSeen(ctx context.Context, ip string, at time.Time) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE nodes SET last_seen_at = ? WHERE ip = ?`, at.UTC(), ip); err != nil {
			return fmt.Errorf("%w node last seen: %w", ErrFailedToUpdate, err)
		}

		return nil
	})
}

func (db *DB) ListNodes(ctx context.Context) ([]NodeRecord, error) {
	const querySQL = `
		SELECT ip, label, tags, added_at, last_seen_at
		FROM nodes
		ORDER BY label COLLATE NOCASE ASC
	`

	rows, err := db.QueryContext(ctx, querySQL)
	if err != nil {
		return nil, fmt.Errorf("%w nodes: %w", ErrFailedToQuery, err)
	}
	defer db.closeRows(rows)

	var nodes []NodeRecord

	for rows.Next() {
		var (
			n        NodeRecord
			tags     string
			lastSeen sql.NullTime
		)

		if err := rows.Scan(&n.IP, &n.Label, &tags, &n.AddedAt, &lastSeen); err != nil {
			return nil, fmt.Errorf("%w node row: %w", ErrFailedToScan, err)
		}

		if err := json.Unmarshal([]byte(tags), &n.Tags); err != nil {
			return nil, fmt.Errorf("%w node tags: %w", ErrFailedToDecode, err)
		}

		if lastSeen.Valid {
			t := lastSeen.Time
			n.LastSeenAt = &t
		}

		nodes = append(nodes, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w nodes: %w", ErrFailedToQuery, err)
	}

	return nodes, nil
}
