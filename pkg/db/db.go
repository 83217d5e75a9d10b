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

// Package db pkg/db/db.go provides SQLite persistence for check and
// transition history.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"go.uber.org/zap"
)

const (
	busyTimeoutMillis = 5000

	// SQL statements for database initialization.
	createTablesSQL = `
	-- Node registry
	CREATE TABLE IF NOT EXISTS nodes (
		ip TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		tags TEXT NOT NULL DEFAULT '[]',
		added_at TIMESTAMP NOT NULL,
		last_seen_at TIMESTAMP
	);

	-- One row per check cycle
	CREATE TABLE IF NOT EXISTS checks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		node_ip TEXT NOT NULL,
		checked_at TIMESTAMP NOT NULL,
		state TEXT NOT NULL,
		confidence TEXT NOT NULL,
		check_trigger TEXT NOT NULL,
		basis TEXT NOT NULL,
		status_state TEXT NOT NULL,
		derp_region TEXT,
		cur_addr TEXT,
		peer_relay TEXT,
		relay_hint TEXT,
		ping_state TEXT,
		ping_avg_ms REAL,
		ping_loss_pct REAL,
		bytes_direct_delta INTEGER NOT NULL DEFAULT 0,
		bytes_peer_relay_delta INTEGER NOT NULL DEFAULT 0,
		bytes_derp_delta INTEGER NOT NULL DEFAULT 0,
		evidence TEXT NOT NULL,
		confirmation TEXT,
		FOREIGN KEY (node_ip) REFERENCES nodes(ip)
	);

	-- One row per state change
	CREATE TABLE IF NOT EXISTS transitions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_id TEXT NOT NULL UNIQUE,
		node_ip TEXT NOT NULL,
		transitioned_at TIMESTAMP NOT NULL,
		previous_state TEXT NOT NULL,
		current_state TEXT NOT NULL,
		previous_region TEXT,
		current_region TEXT,
		duration_previous_seconds INTEGER NOT NULL,
		severity TEXT NOT NULL,
		notified BOOLEAN NOT NULL DEFAULT 0,
		suppression_reason TEXT,
		reason TEXT NOT NULL,
		FOREIGN KEY (node_ip) REFERENCES nodes(ip)
	);

	-- Indexes for better query performance
	CREATE INDEX IF NOT EXISTS idx_checks_node_time
		ON checks(node_ip, checked_at DESC);
	CREATE INDEX IF NOT EXISTS idx_transitions_node_time
		ON transitions(node_ip, transitioned_at DESC);
	CREATE INDEX IF NOT EXISTS idx_transitions_time
		ON transitions(transitioned_at DESC);
	`
)

// DB represents the database connection and operations. Writes are
// serialized through mu so that concurrent node tasks never contend on the
// SQLite write lock.
type DB struct {
	*sql.DB
	mu     sync.Mutex
	logger *zap.Logger
}

// New creates a new database connection and initializes the schema.
func New(dbPath string, logger *zap.Logger) (Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFailedOpenDB, err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on&_synchronous=NORMAL", dbPath, busyTimeoutMillis)

	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedOpenDB, err)
	}

	// Enable WAL mode for better concurrent access
	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = sqlDB.Close()

		return nil, fmt.Errorf("%w: %w", ErrFailedToEnableWAL, err)
	}

	db := &DB{DB: sqlDB, logger: logger}
	if err := db.initSchema(); err != nil {
		_ = sqlDB.Close()

		return nil, fmt.Errorf("%w: %w", ErrFailedToInit, err)
	}

	return db, nil
}

// initSchema creates the database tables if they don't exist.
func (db *DB) initSchema() error {
	_, err := db.Exec(createTablesSQL)

	return err
}

func (db *DB) Close() error {
	return db.DB.Close()
}

// withTx runs fn inside a write transaction under the writer lock.
func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToBeginTx, err)
	}

	defer func() {
		db.rollbackOnError(tx, err)
	}()

	if err = fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (db *DB) rollbackOnError(tx *sql.Tx, err error) {
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			db.logger.Error("Error rolling back transaction", zap.Error(rbErr))
		}
	}
}

func (db *DB) closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		db.logger.Warn("failed to close rows", zap.Error(err))
	}
}
