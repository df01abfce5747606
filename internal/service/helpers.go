package service

import (
	"context"
	"fmt"
	"reflect"
	"slices"

	"github.com/alexanderramin/itinera/internal/db"
	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/repository"
)

func loadTrip(ctx context.Context, trips repository.TripRepo, id string) (*domain.TripSchedule, error) {
	trip, err := trips.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrTripNotFound, "trip %s not found", id)
	}
	return trip, nil
}

func dayOf(trip *domain.TripSchedule, dayIndex int) (domain.DaySchedule, error) {
	if dayIndex < 0 || dayIndex >= len(trip.Days) {
		return domain.DaySchedule{}, newError(ErrDayNotFound, "trip %s has no day %d", trip.ID, dayIndex+1)
	}
	return trip.Days[dayIndex], nil
}

// saveDays writes the given days and bumps the trip's updated_at inside tx.
func saveDays(ctx context.Context, tx db.DBTX, tripID string, days ...domain.DaySchedule) error {
	dayRepo := repository.NewSQLiteDayScheduleRepo(tx)
	for _, d := range days {
		if err := dayRepo.Save(ctx, tripID, d); err != nil {
			return err
		}
	}
	if err := repository.NewSQLiteTripRepo(tx).Touch(ctx, tripID); err != nil {
		return fmt.Errorf("touching trip: %w", err)
	}
	return nil
}

// changedDays lists the days of next that differ from the same day in prev.
func changedDays(prev, next domain.TripSchedule) []domain.DaySchedule {
	var out []domain.DaySchedule
	for i, d := range next.Days {
		if i >= len(prev.Days) || !reflect.DeepEqual(prev.Days[i], d) {
			out = append(out, d)
		}
	}
	return out
}

// dayCandidates collects a day's activities and alternatives, first
// occurrence wins.
func dayCandidates(day domain.DaySchedule) []domain.ScoredActivity {
	seen := map[string]bool{}
	var out []domain.ScoredActivity
	add := func(a domain.ScoredActivity) {
		if seen[a.ID] {
			return
		}
		seen[a.ID] = true
		out = append(out, a.Clone())
	}
	for _, s := range day.Slots {
		add(s.Activity)
	}
	for _, s := range day.Slots {
		for _, a := range s.Alternatives {
			add(a)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.ScoredActivity) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})
	return out
}
