package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies the schema. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := backfillDayCounts(db); err != nil {
		return fmt.Errorf("backfilling trip day counts: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS trips (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		start_date  TEXT NOT NULL,
		config_json TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS day_schedules (
		trip_id       TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
		day_index     INTEGER NOT NULL CHECK(day_index >= 0),
		date          TEXT NOT NULL DEFAULT '',
		day_type      TEXT NOT NULL
		              CHECK(day_type IN ('full','arrival','departure','travel')),
		schedule_json TEXT NOT NULL,
		updated_at    TEXT NOT NULL,
		PRIMARY KEY (trip_id, day_index)
	)`,

	`CREATE TABLE IF NOT EXISTS reshuffle_log (
		token         TEXT PRIMARY KEY,
		trip_id       TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
		day_index     INTEGER NOT NULL,
		trigger_type  TEXT NOT NULL,
		strategy      TEXT NOT NULL,
		trigger_json  TEXT NOT NULL,
		changes_json  TEXT NOT NULL,
		previous_json TEXT NOT NULL,
		next_json     TEXT NOT NULL,
		created_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_reshuffle_log_trip ON reshuffle_log(trip_id, created_at)`,

	`ALTER TABLE reshuffle_log ADD COLUMN undone_at TEXT`,

	`ALTER TABLE trips ADD COLUMN day_count INTEGER NOT NULL DEFAULT 0`,
}

// backfillDayCounts fills day_count for trips stored before the column
// existed.
func backfillDayCounts(db *sql.DB) error {
	_, err := db.Exec(`UPDATE trips
		SET day_count = (SELECT COUNT(*) FROM day_schedules d WHERE d.trip_id = trips.id)
		WHERE day_count = 0`)
	return err
}
