package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/itinera/internal/db"
	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/repository"
	"github.com/alexanderramin/itinera/internal/reshuffle"
)

// ReshuffleDeps configures the reshuffle use cases. Locks must be the
// instance shared with the other writing services.
type ReshuffleDeps struct {
	Trips  repository.TripRepo
	Logs   repository.ReshuffleLogRepo
	UoW    db.UnitOfWork
	Locks  *TripLocks
	Config reshuffle.Config
	// Now defaults to time.Now.
	Now func() time.Time
	// EngineOptions are passed to every per-trip engine.
	EngineOptions []reshuffle.ServiceOption
}

type reshuffleService struct {
	trips    repository.TripRepo
	logs     repository.ReshuffleLogRepo
	uow      db.UnitOfWork
	locks    *TripLocks
	cfg      reshuffle.Config
	now      func() time.Time
	engOpts  []reshuffle.ServiceOption
	observer UseCaseObserver

	mu      sync.Mutex
	engines map[string]*reshuffle.Service
}

func NewReshuffleService(deps ReshuffleDeps, observers ...UseCaseObserver) ReshuffleService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &reshuffleService{
		trips:    deps.Trips,
		logs:     deps.Logs,
		uow:      deps.UoW,
		locks:    locksOrNew(deps.Locks),
		cfg:      deps.Config,
		now:      now,
		engOpts:  deps.EngineOptions,
		observer: useCaseObserverOrNoop(observers),
		engines:  make(map[string]*reshuffle.Service),
	}
}

// engine returns the trip's reshuffle engine. Each trip owns its undo
// ledger and re-finalizes with its own planner settings.
func (s *reshuffleService) engine(trip *domain.TripSchedule) *reshuffle.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.engines[trip.ID]; ok {
		return e
	}
	cfg := s.cfg
	cfg.Planner = trip.Config
	opts := append([]reshuffle.ServiceOption{reshuffle.WithNow(s.now)}, s.engOpts...)
	e := reshuffle.NewService(cfg, opts...)
	s.engines[trip.ID] = e
	return e
}

func (s *reshuffleService) Report(ctx context.Context, req ReportRequest) (res *domain.ReshuffleResult, err error) {
	fields := map[string]any{"trip_id": req.TripID, "day": req.DayIndex}
	defer observe(ctx, s.observer, "report-disruption", fields)(&err)

	if err := validateReport(req); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(req.TripID)
	defer unlock()

	trip, err := loadTrip(ctx, s.trips, req.TripID)
	if err != nil {
		return nil, err
	}
	day, err := dayOf(trip, req.DayIndex)
	if err != nil {
		return nil, err
	}

	eng := s.engine(trip)
	var result domain.ReshuffleResult
	switch {
	case req.Message != "":
		result = eng.ReportMessage(req.Message, day, req.Now)
	case req.DelayMinutes > 0:
		result = eng.ReportDelay(req.DelayMinutes, day, req.Now)
	default:
		result = eng.ReportState(req.State, day, req.Now)
	}
	fields["trigger"] = string(result.Trigger.Type)
	fields["strategy"] = string(result.Strategy)
	fields["changes"] = len(result.Changes)

	if !result.Success || result.UndoToken == "" {
		return &result, nil
	}

	entry, _ := eng.Ledger().Get(result.UndoToken)
	rec := &domain.ReshuffleRecord{
		Token:     result.UndoToken,
		TripID:    trip.ID,
		DayIndex:  req.DayIndex,
		Trigger:   result.Trigger,
		Strategy:  result.Strategy,
		Changes:   result.Changes,
		Previous:  day,
		Next:      result.Schedule,
		CreatedAt: entry.CreatedAt,
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := saveDays(ctx, tx, trip.ID, result.Schedule); err != nil {
			return err
		}
		return repository.NewSQLiteReshuffleLogRepo(tx).Create(ctx, rec)
	})
	if err != nil {
		// Nothing was stored, so the token must not stay undoable.
		eng.Ledger().Take(result.UndoToken)
		return nil, fmt.Errorf("saving reshuffle: %w", err)
	}
	return &result, nil
}

func validateReport(req ReportRequest) error {
	given := 0
	if req.Message != "" {
		given++
	}
	if req.DelayMinutes != 0 {
		given++
	}
	if req.State != domain.StateNone {
		given++
	}
	switch {
	case given != 1:
		return newError(ErrInvalidRequest, "exactly one of message, delay or state is required")
	case req.DelayMinutes < 0:
		return newError(ErrInvalidRequest, "delay must be positive, got %d", req.DelayMinutes)
	case req.State != domain.StateNone && !domain.ValidUserStates[req.State]:
		return newError(ErrInvalidRequest, "unknown state %q", req.State)
	}
	return nil
}

func (s *reshuffleService) Undo(ctx context.Context, token string) (out *UndoResult, err error) {
	fields := map[string]any{"token": token}
	defer observe(ctx, s.observer, "undo-reshuffle", fields)(&err)

	if token == "" {
		return nil, newError(ErrInvalidRequest, "undo token is required")
	}
	rec, err := s.logs.GetByToken(ctx, token)
	if err != nil {
		return nil, notFoundAs(err, ErrUndoFailed, "no reshuffle recorded under token %s", token)
	}
	fields["trip_id"] = rec.TripID

	unlock := s.locks.Lock(rec.TripID)
	defer unlock()

	trip, err := loadTrip(ctx, s.trips, rec.TripID)
	if err != nil {
		return nil, err
	}
	if _, err := dayOf(trip, rec.DayIndex); err != nil {
		return nil, err
	}

	eng := s.engine(trip)
	if rec.UndoneAt != nil {
		// Another process undid it; drop the stale ledger entry.
		eng.Ledger().Take(token)
		return nil, newError(ErrUndoFailed, "reshuffle %s was already undone at %s", token, rec.UndoneAt.Format(time.RFC3339))
	}

	out = &UndoResult{Token: token, TripID: rec.TripID, DayIndex: rec.DayIndex}
	if r := eng.Undo(token); r.Success {
		out.Schedule = r.Schedule
	} else {
		out.Schedule = rec.Previous.Clone()
		out.FromHistory = true
	}
	fields["from_history"] = out.FromHistory

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := saveDays(ctx, tx, rec.TripID, out.Schedule); err != nil {
			return err
		}
		return repository.NewSQLiteReshuffleLogRepo(tx).MarkUndone(ctx, token, s.now())
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(ErrUndoFailed, "reshuffle %s was already undone", token)
	}
	if err != nil {
		return nil, fmt.Errorf("saving undo: %w", err)
	}
	return out, nil
}

func (s *reshuffleService) History(ctx context.Context, tripID string, limit int) ([]*domain.ReshuffleRecord, error) {
	if _, err := loadTrip(ctx, s.trips, tripID); err != nil {
		return nil, err
	}
	return s.logs.ListByTrip(ctx, tripID, limit)
}

func (s *reshuffleService) Defer(ctx context.Context, req DeferRequest) (out *TripChangeResult, err error) {
	fields := map[string]any{"trip_id": req.TripID, "from_day": req.FromDay, "to_day": req.ToDay, "slot": req.SlotID}
	defer observe(ctx, s.observer, "defer-activity", fields)(&err)

	return s.tripChange(ctx, req.TripID, func(m *reshuffle.Mutator, trip domain.TripSchedule) (reshuffle.TripOutcome, error) {
		if _, err := dayOf(&trip, req.FromDay); err != nil {
			return reshuffle.TripOutcome{}, err
		}
		if _, err := dayOf(&trip, req.ToDay); err != nil {
			return reshuffle.TripOutcome{}, err
		}
		o := m.DeferActivityToDay(trip, req.FromDay, req.SlotID, req.ToDay)
		if !o.Found {
			return o, newError(ErrSlotNotFound, "day %d has no slot %s", req.FromDay+1, req.SlotID)
		}
		if len(o.Changes) == 0 {
			return o, newError(ErrInvalidRequest, "slot %s cannot be moved to day %d", req.SlotID, req.ToDay+1)
		}
		return o, nil
	})
}

func (s *reshuffleService) Rebalance(ctx context.Context, tripID string) (out *TripChangeResult, err error) {
	fields := map[string]any{"trip_id": tripID}
	defer observe(ctx, s.observer, "rebalance-trip", fields)(&err)

	return s.tripChange(ctx, tripID, func(m *reshuffle.Mutator, trip domain.TripSchedule) (reshuffle.TripOutcome, error) {
		return m.BalanceDayWorkload(trip), nil
	})
}

func (s *reshuffleService) EmergencyClear(ctx context.Context, tripID string, fromDay, toDay int) (out *TripChangeResult, err error) {
	fields := map[string]any{"trip_id": tripID, "from_day": fromDay, "to_day": toDay}
	defer observe(ctx, s.observer, "emergency-clear", fields)(&err)

	if toDay < fromDay {
		return nil, newError(ErrInvalidRequest, "day range %d..%d is reversed", fromDay+1, toDay+1)
	}
	return s.tripChange(ctx, tripID, func(m *reshuffle.Mutator, trip domain.TripSchedule) (reshuffle.TripOutcome, error) {
		if _, err := dayOf(&trip, fromDay); err != nil {
			return reshuffle.TripOutcome{}, err
		}
		if _, err := dayOf(&trip, toDay); err != nil {
			return reshuffle.TripOutcome{}, err
		}
		return m.EmergencyMultiDayReshuffle(trip, fromDay, toDay), nil
	})
}

type tripRepair func(m *reshuffle.Mutator, trip domain.TripSchedule) (reshuffle.TripOutcome, error)

// tripChange runs a multi-day repair under the trip lock and stores the
// days it changed. Multi-day repairs are not recorded in the undo ledger.
func (s *reshuffleService) tripChange(ctx context.Context, tripID string, repair tripRepair) (*TripChangeResult, error) {
	unlock := s.locks.Lock(tripID)
	defer unlock()

	trip, err := loadTrip(ctx, s.trips, tripID)
	if err != nil {
		return nil, err
	}
	o, err := repair(s.engine(trip).Mutator(), *trip)
	if err != nil {
		return nil, err
	}

	out := &TripChangeResult{Trip: o.Trip, Changes: o.Changes}
	if out.Changes == nil {
		out.Changes = []domain.ScheduleChange{}
	}
	changed := changedDays(*trip, o.Trip)
	if len(changed) == 0 {
		return out, nil
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return saveDays(ctx, tx, tripID, changed...)
	})
	if err != nil {
		return nil, fmt.Errorf("saving trip changes: %w", err)
	}
	return out, nil
}
