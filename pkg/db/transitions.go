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
	"errors"
	"fmt"

	"github.com/mfreeman451/pathwatch/pkg/models"
)

const transitionColumns = `
	id, event_id, node_ip, transitioned_at, previous_state, current_state,
	previous_region, current_region, duration_previous_seconds, severity,
	notified, suppression_reason, reason
`

func (db *DB) InsertTransition(ctx context.Context, ev *models.TransitionEvent) error {
	if ev == nil || ev.NodeIP == "" || ev.EventID == "" ||
		!ev.PreviousState.Persistable() || !ev.CurrentState.Persistable() {
		return fmt.Errorf("%w: transition", ErrInvalidRecord)
	}

	const insertSQL = `
		INSERT INTO transitions (
			event_id, node_ip, transitioned_at, previous_state, current_state,
			previous_region, current_region, duration_previous_seconds, severity,
			notified, suppression_reason, reason
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	return db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, insertSQL,
			ev.EventID,
			ev.NodeIP,
			ev.TransitionedAt.UTC(),
			string(ev.PreviousState),
			string(ev.CurrentState),
			nullString(ev.PreviousRegion),
			nullString(ev.CurrentRegion),
			ev.DurationPreviousSeconds,
			string(ev.Severity),
			ev.Notified,
			nullString(ev.SuppressionReason),
			ev.Reason,
		)
		if err != nil {
			return fmt.Errorf("%w transition: %w", ErrFailedToInsert, err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("%w transition id: %w", ErrFailedToInsert, err)
		}

		ev.ID = id

		return nil
	})
}

// GetLastTransition returns nil when the node has never transitioned.
func (db *DB) GetLastTransition(ctx context.Context, ip string) (*models.TransitionEvent, error) {
	events, err := db.GetRecentTransitions(ctx, ip, 1)
	if err != nil {
		return nil, err
	}

	if len(events) == 0 {
		return nil, nil
	}

	return &events[0], nil
}

// GetRecentTransitions returns transitions newest first. An empty ip
// returns transitions of every node.
func (db *DB) GetRecentTransitions(ctx context.Context, ip string, limit int) ([]models.TransitionEvent, error) {
	var (
		rows *sql.Rows
		err  error
	)

	limit = clampLimit(limit, defaultTransitionsLimit, maxTransitionsLimit)

	if ip == "" {
		rows, err = db.QueryContext(ctx, `SELECT `+transitionColumns+`
			FROM transitions
			ORDER BY transitioned_at DESC, id DESC
			LIMIT ?`, limit)
	} else {
		rows, err = db.QueryContext(ctx, `SELECT `+transitionColumns+`
			FROM transitions
			WHERE node_ip = ?
			ORDER BY transitioned_at DESC, id DESC
			LIMIT ?`, ip, limit)
	}

	if err != nil {
		return nil, fmt.Errorf("%w transitions: %w", ErrFailedToQuery, err)
	}
	defer db.closeRows(rows)

	var events []models.TransitionEvent

	for rows.Next() {
		ev, err := scanTransition(rows)
		if err != nil {
			return nil, err
		}

		events = append(events, *ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w transitions: %w", ErrFailedToQuery, err)
	}

	return events, nil
}

func scanTransition(rows *sql.Rows) (*models.TransitionEvent, error) {
	var (
		ev                  models.TransitionEvent
		prev, cur, severity string
		prevRegion          sql.NullString
		curRegion           sql.NullString
		suppression         sql.NullString
	)

	if err := rows.Scan(
		&ev.ID, &ev.EventID, &ev.NodeIP, &ev.TransitionedAt, &prev, &cur,
		&prevRegion, &curRegion, &ev.DurationPreviousSeconds, &severity,
		&ev.Notified, &suppression, &ev.Reason,
	); err != nil {
		return nil, fmt.Errorf("%w transition row: %w", ErrFailedToScan, err)
	}

	var err error

	if ev.PreviousState, err = models.ParseState(prev); err != nil {
		return nil, errors.Join(ErrFailedToDecode, err)
	}

	if ev.CurrentState, err = models.ParseState(cur); err != nil {
		return nil, errors.Join(ErrFailedToDecode, err)
	}

	ev.Severity = models.Severity(severity)
	ev.PreviousRegion = prevRegion.String
	ev.CurrentRegion = curRegion.String
	ev.SuppressionReason = suppression.String

	return &ev, nil
}
