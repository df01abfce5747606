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

type SQLiteTripRepo struct {
	db   db.DBTX
	days *SQLiteDayScheduleRepo
	now  func() time.Time
}

func NewSQLiteTripRepo(conn db.DBTX) *SQLiteTripRepo {
	return &SQLiteTripRepo{db: conn, days: NewSQLiteDayScheduleRepo(conn), now: time.Now}
}

// Create inserts the trip and its days. Callers that need atomicity run
// it inside a UnitOfWork.
func (r *SQLiteTripRepo) Create(ctx context.Context, t *domain.TripSchedule) error {
	cfg, err := encodeJSON("planner config", t.Config)
	if err != nil {
		return err
	}
	now := formatTime(r.now())
	query := `INSERT INTO trips (id, name, start_date, config_json, day_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, t.ID, t.Name, t.StartDate, cfg, len(t.Days), now, now); err != nil {
		return fmt.Errorf("inserting trip: %w", err)
	}
	for _, d := range t.Days {
		if err := r.days.Save(ctx, t.ID, d); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteTripRepo) GetByID(ctx context.Context, id string) (*domain.TripSchedule, error) {
	query := `SELECT id, name, start_date, config_json FROM trips WHERE id = ?`
	var t domain.TripSchedule
	var cfg string
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &t.StartDate, &cfg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("trip %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning trip: %w", err)
	}
	if err := decodeJSON("planner config", cfg, &t.Config); err != nil {
		return nil, err
	}
	days, err := listDays(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	t.Days = days
	return &t, nil
}

func (r *SQLiteTripRepo) List(ctx context.Context) ([]TripSummary, error) {
	query := `SELECT id, name, start_date, day_count, created_at, updated_at
		FROM trips ORDER BY start_date, created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing trips: %w", err)
	}
	defer rows.Close()

	var out []TripSummary
	for rows.Next() {
		var s TripSummary
		var created, updated string
		if err := rows.Scan(&s.ID, &s.Name, &s.StartDate, &s.DayCount, &created, &updated); err != nil {
			return nil, fmt.Errorf("scanning trip row: %w", err)
		}
		if s.CreatedAt, err = parseTime("created_at", created); err != nil {
			return nil, err
		}
		if s.UpdatedAt, err = parseTime("updated_at", updated); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trips: %w", err)
	}
	return out, nil
}

// Touch bumps updated_at after one of the trip's days changed.
func (r *SQLiteTripRepo) Touch(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE trips SET updated_at = ? WHERE id = ?`, formatTime(r.now()), id)
	if err != nil {
		return fmt.Errorf("touching trip: %w", err)
	}
	return expectOneRow(res, "trip "+id)
}

func (r *SQLiteTripRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trips WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting trip: %w", err)
	}
	return expectOneRow(res, "trip "+id)
}

func expectOneRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
