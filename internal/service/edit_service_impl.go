package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/itinera/internal/db"
	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/repository"
	"github.com/alexanderramin/itinera/internal/scheduler"
)

type editService struct {
	trips    repository.TripRepo
	uow      db.UnitOfWork
	locks    *TripLocks
	observer UseCaseObserver
}

func NewEditService(
	trips repository.TripRepo,
	uow db.UnitOfWork,
	locks *TripLocks,
	observers ...UseCaseObserver,
) EditService {
	return &editService{
		trips:    trips,
		uow:      uow,
		locks:    locksOrNew(locks),
		observer: useCaseObserverOrNoop(observers),
	}
}

// slotEdit is one of the builder's single-slot edits.
type slotEdit func(b *scheduler.Builder, day domain.DaySchedule) (domain.DaySchedule, bool)

func (s *editService) Lock(ctx context.Context, ref SlotRef) (*domain.DaySchedule, error) {
	return s.editSlot(ctx, "lock-slot", ref, func(b *scheduler.Builder, day domain.DaySchedule) (domain.DaySchedule, bool) {
		return b.Lock(day, ref.SlotID)
	})
}

func (s *editService) Unlock(ctx context.Context, ref SlotRef) (*domain.DaySchedule, error) {
	return s.editSlot(ctx, "unlock-slot", ref, func(b *scheduler.Builder, day domain.DaySchedule) (domain.DaySchedule, bool) {
		return b.Unlock(day, ref.SlotID)
	})
}

func (s *editService) Remove(ctx context.Context, ref SlotRef) (*domain.DaySchedule, error) {
	return s.editSlot(ctx, "remove-slot", ref, func(b *scheduler.Builder, day domain.DaySchedule) (domain.DaySchedule, bool) {
		return b.Remove(day, ref.SlotID)
	})
}

func (s *editService) SwapAlternative(ctx context.Context, ref SlotRef, n int) (*domain.DaySchedule, error) {
	if n < 0 {
		return nil, newError(ErrInvalidRequest, "alternative number must be positive")
	}
	return s.editSlot(ctx, "swap-alternative", ref, func(b *scheduler.Builder, day domain.DaySchedule) (domain.DaySchedule, bool) {
		if idx := day.SlotIndex(ref.SlotID); idx >= 0 && n >= len(day.Slots[idx].Alternatives) {
			return day, false
		}
		return b.SwapWithAlternative(day, ref.SlotID, n)
	})
}

func (s *editService) editSlot(ctx context.Context, name string, ref SlotRef, edit slotEdit) (out *domain.DaySchedule, err error) {
	fields := map[string]any{"trip_id": ref.TripID, "day": ref.DayIndex, "slot": ref.SlotID}
	defer observe(ctx, s.observer, name, fields)(&err)

	unlock := s.locks.Lock(ref.TripID)
	defer unlock()

	trip, err := loadTrip(ctx, s.trips, ref.TripID)
	if err != nil {
		return nil, err
	}
	day, err := dayOf(trip, ref.DayIndex)
	if err != nil {
		return nil, err
	}

	if day.SlotIndex(ref.SlotID) < 0 {
		return nil, newError(ErrSlotNotFound, "day %d has no slot %s", ref.DayIndex+1, ref.SlotID)
	}
	next, ok := edit(scheduler.NewBuilder(trip.Config), day)
	if !ok {
		return nil, newError(ErrInvalidRequest, "%s cannot be applied to slot %s", name, ref.SlotID)
	}

	if err := s.save(ctx, ref.TripID, next); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *editService) ApplyTemplate(ctx context.Context, tripID string, dayIndex int, name scheduler.TemplateName, candidates []domain.ScoredActivity) (out *domain.DaySchedule, err error) {
	fields := map[string]any{"trip_id": tripID, "day": dayIndex, "template": string(name)}
	defer observe(ctx, s.observer, "apply-template", fields)(&err)

	if !scheduler.ValidTemplates[name] {
		return nil, newError(ErrInvalidRequest, "unknown template %q", name)
	}

	unlock := s.locks.Lock(tripID)
	defer unlock()

	trip, err := loadTrip(ctx, s.trips, tripID)
	if err != nil {
		return nil, err
	}
	day, err := dayOf(trip, dayIndex)
	if err != nil {
		return nil, err
	}

	if candidates == nil {
		candidates = dayCandidates(day)
	}
	next, remaining, _ := scheduler.NewBuilder(trip.Config).ApplyTemplate(day, name, candidates)
	fields["unused_candidates"] = len(remaining)

	if err := s.save(ctx, tripID, next); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *editService) save(ctx context.Context, tripID string, day domain.DaySchedule) error {
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return saveDays(ctx, tx, tripID, day)
	})
	if err != nil {
		return fmt.Errorf("saving day: %w", err)
	}
	return nil
}
