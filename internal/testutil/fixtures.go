package testutil

import (
	"fmt"

	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/timeutil"
)

// CityCenter is the default location of test activities. Activities that
// share it have zero-minute commutes between them.
var CityCenter = domain.Coordinates{Lat: 48.8566, Lng: 2.3522}

// Activity options
type ActivityOption func(*domain.ScoredActivity)

func WithCategory(c string) ActivityOption {
	return func(a *domain.ScoredActivity) {
		a.Category = c
	}
}

func WithNeighborhood(n string) ActivityOption {
	return func(a *domain.ScoredActivity) {
		a.Neighborhood = n
	}
}

func WithLocation(lat, lng float64) ActivityOption {
	return func(a *domain.ScoredActivity) {
		a.Location = domain.Coordinates{Lat: lat, Lng: lng}
	}
}

func WithDuration(min int) ActivityOption {
	return func(a *domain.ScoredActivity) {
		a.RecommendedDuration = min
	}
}

func WithBestTimes(times ...domain.TimeOfDay) ActivityOption {
	return func(a *domain.ScoredActivity) {
		a.BestTimes = times
	}
}

func WithScore(s float64) ActivityOption {
	return func(a *domain.ScoredActivity) {
		a.Score = s
	}
}

func WithCost(c float64) ActivityOption {
	return func(a *domain.ScoredActivity) {
		a.Cost = c
	}
}

func AsRestaurant(meals ...domain.MealType) ActivityOption {
	return func(a *domain.ScoredActivity) {
		a.IsRestaurant = true
		a.MealTypes = meals
		a.Category = "restaurant"
	}
}

func WithConfirmedBooking(ref string) ActivityOption {
	return func(a *domain.ScoredActivity) {
		a.Booking = &domain.BookingInfo{Required: true, Confirmed: true, Reference: ref}
	}
}

func Outdoor() ActivityOption {
	return func(a *domain.ScoredActivity) {
		a.IsOutdoor = true
		a.WeatherSensitive = true
	}
}

// NewTestActivity returns a 60-minute museum at CityCenter that fits any
// time of day.
func NewTestActivity(id string, opts ...ActivityOption) domain.ScoredActivity {
	a := domain.ScoredActivity{
		ID:                  id,
		Name:                id,
		Category:            "museum",
		Neighborhood:        "center",
		Location:            CityCenter,
		RecommendedDuration: 60,
		Score:               50,
	}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

// Scheduled slot options
type SlotOption func(*domain.ScheduledActivity)

func Locked() SlotOption {
	return func(s *domain.ScheduledActivity) {
		s.IsLocked = true
	}
}

func WithSlotDuration(min int) SlotOption {
	return func(s *domain.ScheduledActivity) {
		s.SetDuration(min)
	}
}

func WithAlternatives(alts ...domain.ScoredActivity) SlotOption {
	return func(s *domain.ScheduledActivity) {
		s.Alternatives = alts
	}
}

func WithMeal(m domain.MealType) SlotOption {
	return func(s *domain.ScheduledActivity) {
		s.MealType = m
	}
}

// NewTestSlot schedules activity at start ("HH:MM") for its recommended duration.
func NewTestSlot(id string, activity domain.ScoredActivity, start string, opts ...SlotOption) domain.ScheduledActivity {
	s := domain.ScheduledActivity{
		ID:             id,
		SlotName:       id,
		TimeOfDay:      domain.TimeMorning,
		Activity:       activity,
		ActualDuration: activity.RecommendedDuration,
	}
	s.Reschedule(timeutil.MustClock(start))
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// NewTestDay wraps slots into a full day. Totals are left for the caller
// to finalize.
func NewTestDay(dayIndex int, slots ...domain.ScheduledActivity) domain.DaySchedule {
	return domain.DaySchedule{
		DayIndex: dayIndex,
		DayType:  domain.DayFull,
		Slots:    slots,
	}
}

// NewTestTrip builds a trip starting 2026-05-01 with sequential day dates.
func NewTestTrip(id string, days ...domain.DaySchedule) *domain.TripSchedule {
	for i := range days {
		days[i].DayIndex = i
		days[i].Date = fmt.Sprintf("2026-05-%02d", i+1)
	}
	return &domain.TripSchedule{
		ID:        id,
		Name:      "Trip " + id,
		StartDate: "2026-05-01",
		Config:    domain.DefaultPlannerConfig(),
		Days:      days,
	}
}
