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
	"fmt"
	"time"
)

// CleanOldData removes checks older than the retention period and returns
// how many were deleted. Transitions are kept: the latest one per node seeds
// runtime state after a restart.
func (db *DB) CleanOldData(ctx context.Context, retentionPeriod time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retentionPeriod)

	var deleted int64

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM checks WHERE checked_at < ?", cutoff)
		if err != nil {
			return fmt.Errorf("%w checks: %w", ErrFailedToClean, err)
		}

		deleted, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("%w checks: %w", ErrFailedToClean, err)
		}

		return nil
	})

	return deleted, err
}
