package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/itinera/internal/db"
	"github.com/alexanderramin/itinera/internal/domain"
)

// SQLiteDayScheduleRepo stores each day as a JSON document keyed by trip
// and day index.
type SQLiteDayScheduleRepo struct {
	db  db.DBTX
	now func() time.Time
}

func NewSQLiteDayScheduleRepo(conn db.DBTX) *SQLiteDayScheduleRepo {
	return &SQLiteDayScheduleRepo{db: conn, now: time.Now}
}

func (r *SQLiteDayScheduleRepo) Get(ctx context.Context, tripID string, dayIndex int) (*domain.DaySchedule, error) {
	query := `SELECT schedule_json FROM day_schedules WHERE trip_id = ? AND day_index = ?`
	var data string
	if err := r.db.QueryRowContext(ctx, query, tripID, dayIndex).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("day %d of trip %s: %w", dayIndex, tripID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning day schedule: %w", err)
	}
	var day domain.DaySchedule
	if err := decodeJSON("day schedule", data, &day); err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *SQLiteDayScheduleRepo) ListByTrip(ctx context.Context, tripID string) ([]domain.DaySchedule, error) {
	return listDays(ctx, r.db, tripID)
}

func listDays(ctx context.Context, conn db.DBTX, tripID string) ([]domain.DaySchedule, error) {
	query := `SELECT schedule_json FROM day_schedules WHERE trip_id = ? ORDER BY day_index`
	rows, err := conn.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("listing day schedules: %w", err)
	}
	defer rows.Close()

	var days []domain.DaySchedule
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning day schedule row: %w", err)
		}
		var day domain.DaySchedule
		if err := decodeJSON("day schedule", data, &day); err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating day schedules: %w", err)
	}
	return days, nil
}

func (r *SQLiteDayScheduleRepo) Save(ctx context.Context, tripID string, day domain.DaySchedule) error {
	data, err := encodeJSON("day schedule", day)
	if err != nil {
		return err
	}
	dayType := day.DayType
	if dayType == "" {
		dayType = domain.DayFull
	}
	query := `INSERT INTO day_schedules (trip_id, day_index, date, day_type, schedule_json, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (trip_id, day_index) DO UPDATE SET
			date = excluded.date,
			day_type = excluded.day_type,
			schedule_json = excluded.schedule_json,
			updated_at = excluded.updated_at`
	_, err = r.db.ExecContext(ctx, query, tripID, day.DayIndex, day.Date, string(dayType), data, formatTime(r.now()))
	if err != nil {
		return fmt.Errorf("saving day %d of trip %s: %w", day.DayIndex, tripID, err)
	}
	return nil
}
