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

type SQLiteReshuffleLogRepo struct {
	db db.DBTX
}

func NewSQLiteReshuffleLogRepo(conn db.DBTX) *SQLiteReshuffleLogRepo {
	return &SQLiteReshuffleLogRepo{db: conn}
}

const reshuffleColumns = `token, trip_id, day_index, trigger_type, strategy, trigger_json,
	changes_json, previous_json, next_json, created_at, undone_at`

func (r *SQLiteReshuffleLogRepo) Create(ctx context.Context, rec *domain.ReshuffleRecord) error {
	trigger, err := encodeJSON("trigger", rec.Trigger)
	if err != nil {
		return err
	}
	changes, err := encodeJSON("changes", rec.Changes)
	if err != nil {
		return err
	}
	prev, err := encodeJSON("previous schedule", rec.Previous)
	if err != nil {
		return err
	}
	next, err := encodeJSON("next schedule", rec.Next)
	if err != nil {
		return err
	}

	query := `INSERT INTO reshuffle_log (` + reshuffleColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		rec.Token,
		rec.TripID,
		rec.DayIndex,
		string(rec.Trigger.Type),
		string(rec.Strategy),
		trigger,
		changes,
		prev,
		next,
		formatTime(rec.CreatedAt),
		nullableTimeToString(rec.UndoneAt, time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting reshuffle record: %w", err)
	}
	return nil
}

func (r *SQLiteReshuffleLogRepo) GetByToken(ctx context.Context, token string) (*domain.ReshuffleRecord, error) {
	query := `SELECT ` + reshuffleColumns + ` FROM reshuffle_log WHERE token = ?`
	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, token))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("reshuffle record %s: %w", token, ErrNotFound)
	}
	return rec, err
}

func (r *SQLiteReshuffleLogRepo) ListByTrip(ctx context.Context, tripID string, limit int) ([]*domain.ReshuffleRecord, error) {
	query := `SELECT ` + reshuffleColumns + ` FROM reshuffle_log
		WHERE trip_id = ? ORDER BY created_at DESC, rowid DESC`
	args := []any{tripID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing reshuffle records: %w", err)
	}
	defer rows.Close()

	var out []*domain.ReshuffleRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reshuffle records: %w", err)
	}
	return out, nil
}

// MarkUndone stamps a record that has not been undone yet.
func (r *SQLiteReshuffleLogRepo) MarkUndone(ctx context.Context, token string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reshuffle_log SET undone_at = ? WHERE token = ? AND undone_at IS NULL`,
		formatTime(at), token)
	if err != nil {
		return fmt.Errorf("marking reshuffle undone: %w", err)
	}
	return expectOneRow(res, "pending reshuffle record "+token)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*domain.ReshuffleRecord, error) {
	var rec domain.ReshuffleRecord
	var triggerType, strategy, trigger, changes, prev, next, created string
	var undone sql.NullString
	err := row.Scan(&rec.Token, &rec.TripID, &rec.DayIndex, &triggerType, &strategy,
		&trigger, &changes, &prev, &next, &created, &undone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning reshuffle record: %w", err)
	}

	rec.Strategy = domain.ReshuffleStrategy(strategy)
	if err := decodeJSON("trigger", trigger, &rec.Trigger); err != nil {
		return nil, err
	}
	if err := decodeJSON("changes", changes, &rec.Changes); err != nil {
		return nil, err
	}
	if err := decodeJSON("previous schedule", prev, &rec.Previous); err != nil {
		return nil, err
	}
	if err := decodeJSON("next schedule", next, &rec.Next); err != nil {
		return nil, err
	}
	if rec.CreatedAt, err = parseTime("created_at", created); err != nil {
		return nil, err
	}
	rec.UndoneAt = parseNullableTime(undone, time.RFC3339Nano)
	return &rec, nil
}
