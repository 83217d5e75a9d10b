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
	"errors"
	"fmt"
	"time"

	"github.com/mfreeman451/pathwatch/pkg/models"
)

const checkColumns = `
	id, node_ip, checked_at, state, confidence, check_trigger,
	bytes_direct_delta, bytes_peer_relay_delta, bytes_derp_delta,
	evidence, confirmation
`

// InsertCheck appends a check record and sets its ID.
func (db *DB) InsertCheck(ctx context.Context, rec *models.CheckRecord) error {
	if rec == nil || rec.NodeIP == "" || !rec.State.Persistable() {
		return fmt.Errorf("%w: check", ErrInvalidRecord)
	}

	const insertSQL = `
		INSERT INTO checks (
			node_ip, checked_at, state, confidence, check_trigger, basis, status_state,
			derp_region, cur_addr, peer_relay, relay_hint, ping_state, ping_avg_ms, ping_loss_pct,
			bytes_direct_delta, bytes_peer_relay_delta, bytes_derp_delta, evidence, confirmation
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	evidence, err := json.Marshal(rec.Evidence)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToEncode, err)
	}

	var (
		confirmation sql.NullString
		pingState    sql.NullString
		pingAvg      sql.NullFloat64
		pingLoss     sql.NullFloat64
	)

	if c := rec.Confirmation; c != nil {
		raw, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFailedToEncode, err)
		}

		confirmation = sql.NullString{String: string(raw), Valid: true}
		pingState = sql.NullString{String: string(c.DominantRoute), Valid: true}
		pingLoss = sql.NullFloat64{Float64: c.LossPct, Valid: true}

		if len(c.Samples) > 0 {
			pingAvg = sql.NullFloat64{Float64: float64(c.AvgLatency) / float64(time.Millisecond), Valid: true}
		}
	}

	var traffic models.TrafficDelta
	if rec.Traffic != nil {
		traffic = *rec.Traffic
	}

	return db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, insertSQL,
			rec.NodeIP,
			rec.CheckedAt.UTC(),
			string(rec.State),
			string(rec.Confidence),
			string(rec.Trigger),
			string(rec.Evidence.Basis),
			string(rec.Evidence.StatusState),
			nullString(rec.Evidence.DERPRegion),
			nullString(rec.Evidence.CurAddr),
			nullString(rec.Evidence.PeerRelay),
			nullString(rec.Evidence.RelayHint),
			pingState,
			pingAvg,
			pingLoss,
			traffic.Direct,
			traffic.PeerRelay,
			traffic.DERP,
			string(evidence),
			confirmation,
		)
		if err != nil {
			return fmt.Errorf("%w check: %w", ErrFailedToInsert, err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("%w check id: %w", ErrFailedToInsert, err)
		}

		rec.ID = id

		return nil
	})
}

// GetFirstCheckTime returns the zero time when the node was never checked.
func (db *DB) GetFirstCheckTime(ctx context.Context, ip string) (time.Time, error) {
	const querySQL = `
		SELECT checked_at
		FROM checks
		WHERE node_ip = ?
		ORDER BY checked_at ASC
		LIMIT 1
	`

	var first time.Time

	err := db.QueryRowContext(ctx, querySQL, ip).Scan(&first)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}

	if err != nil {
		return time.Time{}, fmt.Errorf("%w first check: %w", ErrFailedToQuery, err)
	}

	return first, nil
}

// GetLatestCheck returns nil when the node was never checked.
func (db *DB) GetLatestCheck(ctx context.Context, ip string) (*models.CheckRecord, error) {
	checks, err := db.GetNodeHistory(ctx, ip, 1)
	if err != nil {
		return nil, err
	}

	if len(checks) == 0 {
		return nil, nil
	}

	return &checks[0], nil
}

// GetNodeHistory returns the most recent checks for a node, newest first.
func (db *DB) GetNodeHistory(ctx context.Context, ip string, limit int) ([]models.CheckRecord, error) {
	querySQL := `SELECT ` + checkColumns + `
		FROM checks
		WHERE node_ip = ?
		ORDER BY checked_at DESC, id DESC
		LIMIT ?
	`

	limit = clampLimit(limit, defaultHistoryLimit, maxHistoryLimit)

	rows, err := db.QueryContext(ctx, querySQL, ip, limit)
	if err != nil {
		return nil, fmt.Errorf("%w node history: %w", ErrFailedToQuery, err)
	}
	defer db.closeRows(rows)

	var history []models.CheckRecord

	for rows.Next() {
		rec, err := scanCheck(rows)
		if err != nil {
			return nil, err
		}

		history = append(history, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w node history: %w", ErrFailedToQuery, err)
	}

	return history, nil
}

func scanCheck(rows *sql.Rows) (*models.CheckRecord, error) {
	var (
		rec          models.CheckRecord
		state        string
		confidence   string
		trigger      string
		evidence     string
		confirmation sql.NullString
		traffic      models.TrafficDelta
	)

	if err := rows.Scan(
		&rec.ID, &rec.NodeIP, &rec.CheckedAt, &state, &confidence, &trigger,
		&traffic.Direct, &traffic.PeerRelay, &traffic.DERP,
		&evidence, &confirmation,
	); err != nil {
		return nil, fmt.Errorf("%w check row: %w", ErrFailedToScan, err)
	}

	var err error

	if rec.State, err = models.ParseState(state); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToDecode, err)
	}

	if rec.Confidence, err = models.ParseConfidence(confidence); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToDecode, err)
	}

	rec.Trigger = models.Trigger(trigger)

	if err := json.Unmarshal([]byte(evidence), &rec.Evidence); err != nil {
		return nil, fmt.Errorf("%w evidence: %w", ErrFailedToDecode, err)
	}

	if confirmation.Valid {
		rec.Confirmation = &models.ConfirmationResult{}
		if err := json.Unmarshal([]byte(confirmation.String), rec.Confirmation); err != nil {
			return nil, fmt.Errorf("%w confirmation: %w", ErrFailedToDecode, err)
		}
	}

	if traffic != (models.TrafficDelta{}) {
		rec.Traffic = &traffic
	}

	return &rec, nil
}

// GetUptimeStats counts checks per state since the given time. Every state
// other than OFFLINE and UNKNOWN counts as up.
func (db *DB) GetUptimeStats(ctx context.Context, ip string, since time.Time) (*UptimeStats, error) {
	const querySQL = `
		SELECT state, COUNT(*)
		FROM checks
		WHERE node_ip = ? AND checked_at >= ?
		GROUP BY state
	`

	rows, err := db.QueryContext(ctx, querySQL, ip, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("%w uptime: %w", ErrFailedToQuery, err)
	}
	defer db.closeRows(rows)

	stats := &UptimeStats{
		NodeIP:   ip,
		Since:    since.UTC(),
		StatePct: make(map[string]float64),
	}

	counts := make(map[string]int)

	for rows.Next() {
		var (
			state string
			count int
		)

		if err := rows.Scan(&state, &count); err != nil {
			return nil, fmt.Errorf("%w uptime row: %w", ErrFailedToScan, err)
		}

		counts[state] = count
		stats.Total += count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w uptime: %w", ErrFailedToQuery, err)
	}

	if stats.Total == 0 {
		return stats, nil
	}

	up := 0

	for state, count := range counts {
		stats.StatePct[state] = percent(count, stats.Total)

		switch models.State(state) {
		case models.StateDirect, models.StatePeerRelay, models.StateDERP, models.StateInactive:
			up += count
		case models.StateOffline, models.StateUnknown, models.StateDERPSuspect:
		}
	}

	pct := percent(up, stats.Total)
	stats.UptimePct = &pct

	return stats, nil
}

func percent(n, total int) float64 {
	return float64(int(float64(n)/float64(total)*10000+0.5)) / 100
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
