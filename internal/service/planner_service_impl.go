package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/itinera/internal/config"
	"github.com/alexanderramin/itinera/internal/db"
	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/importer"
	"github.com/alexanderramin/itinera/internal/repository"
	"github.com/alexanderramin/itinera/internal/scheduler"
)

type plannerService struct {
	trips    repository.TripRepo
	days     repository.DayScheduleRepo
	uow      db.UnitOfWork
	locks    *TripLocks
	observer UseCaseObserver
}

func NewPlannerService(
	trips repository.TripRepo,
	days repository.DayScheduleRepo,
	uow db.UnitOfWork,
	locks *TripLocks,
	observers ...UseCaseObserver,
) PlannerService {
	return &plannerService{
		trips:    trips,
		days:     days,
		uow:      uow,
		locks:    locksOrNew(locks),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *plannerService) PlanTrip(ctx context.Context, req PlanTripRequest) (trip *domain.TripSchedule, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "plan-trip", fields)(&err)

	if req.Pool == nil {
		return nil, newError(ErrInvalidRequest, "no candidate pool given")
	}
	if errs := importer.ValidatePool(req.Pool); len(errs) > 0 {
		return nil, newError(ErrInvalidRequest, "%s", formatValidationErrors(errs))
	}

	tripReq, cfg, err := importer.Convert(req.Pool, req.Planner)
	if err != nil {
		return nil, newError(ErrInvalidRequest, "%v", err)
	}
	if err := config.ValidatePlanner(cfg); err != nil {
		return nil, newError(ErrInvalidRequest, "%v", err)
	}
	fields["trip_id"] = tripReq.ID
	fields["days"] = tripReq.Days
	fields["candidates"] = len(tripReq.Candidates)

	built, err := scheduler.NewBuilder(cfg).BuildTrip(tripReq)
	if err != nil {
		return nil, newError(ErrInvalidRequest, "%v", err)
	}

	unlock := s.locks.Lock(built.ID)
	defer unlock()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteTripRepo(tx).Create(ctx, &built)
	})
	if err != nil {
		return nil, fmt.Errorf("saving trip: %w", err)
	}

	warnings := 0
	for _, d := range built.Days {
		warnings += len(d.Warnings)
	}
	fields["warnings"] = warnings
	return &built, nil
}

func (s *plannerService) GetTrip(ctx context.Context, id string) (*domain.TripSchedule, error) {
	return loadTrip(ctx, s.trips, id)
}

func (s *plannerService) ListTrips(ctx context.Context) ([]repository.TripSummary, error) {
	return s.trips.List(ctx)
}

func (s *plannerService) GetDay(ctx context.Context, tripID string, dayIndex int) (*domain.DaySchedule, error) {
	day, err := s.days.Get(ctx, tripID, dayIndex)
	if err == nil {
		return day, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	// Tell a missing trip apart from a missing day.
	if _, tripErr := loadTrip(ctx, s.trips, tripID); tripErr != nil {
		return nil, tripErr
	}
	return nil, newError(ErrDayNotFound, "trip %s has no day %d", tripID, dayIndex+1)
}

func (s *plannerService) DeleteTrip(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "delete-trip", map[string]any{"trip_id": id})(&err)

	unlock := s.locks.Lock(id)
	defer unlock()

	if err := s.trips.Delete(ctx, id); err != nil {
		return notFoundAs(err, ErrTripNotFound, "trip %s not found", id)
	}
	return nil
}

// formatValidationErrors joins validation errors into one message, one
// error per line.
func formatValidationErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = "  - " + e.Error()
	}
	return fmt.Sprintf("pool validation failed with %d error(s):\n%s", len(errs), strings.Join(msgs, "\n"))
}
