package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/timeutil"
)

var (
	validTimesOfDay = map[string]bool{"morning": true, "afternoon": true, "evening": true, "night": true}
	validMeals      = map[string]bool{"breakfast": true, "lunch": true, "dinner": true}
)

// ValidatePool checks the pool for errors before conversion.
// Returns a slice of all validation errors found.
func ValidatePool(schema *PoolSchema) []error {
	var errs []error

	errs = append(errs, validateTrip(&schema.Trip)...)
	errs = append(errs, validatePlanner(schema.Planner)...)
	errs = append(errs, validateActivities(schema.Activities)...)
	errs = append(errs, validateWeather(schema.Weather)...)

	return errs
}

func validateTrip(t *TripImport) []error {
	var errs []error

	if t.Name == "" {
		errs = append(errs, fmt.Errorf("trip.name is required"))
	}
	if t.StartDate == "" {
		errs = append(errs, fmt.Errorf("trip.start_date is required"))
	} else if _, err := time.Parse("2006-01-02", t.StartDate); err != nil {
		errs = append(errs, fmt.Errorf("trip.start_date: invalid date format %q (expected YYYY-MM-DD)", t.StartDate))
	}
	if t.Days <= 0 {
		errs = append(errs, fmt.Errorf("trip.days must be positive"))
	}
	if len(t.DayTypes) > t.Days && t.Days > 0 {
		errs = append(errs, fmt.Errorf("trip.day_types has %d entries for %d days", len(t.DayTypes), t.Days))
	}
	for i, dt := range t.DayTypes {
		if !domain.ValidDayTypes[domain.DayType(dt)] {
			errs = append(errs, fmt.Errorf("trip.day_types[%d]: invalid value %q", i, dt))
		}
	}

	return errs
}

func validatePlanner(p *PlannerImport) []error {
	if p == nil {
		return nil
	}
	var errs []error

	if p.Pace != "" && !domain.ValidPaceModes[domain.PaceMode(p.Pace)] {
		errs = append(errs, fmt.Errorf("planner.pace: invalid value %q", p.Pace))
	}
	if p.TripMode != "" && !domain.ValidTripModes[domain.TripMode(p.TripMode)] {
		errs = append(errs, fmt.Errorf("planner.trip_mode: invalid value %q", p.TripMode))
	}
	if p.CommutePreference != "" && !domain.ValidCommutePreferences[domain.CommutePreference(p.CommutePreference)] {
		errs = append(errs, fmt.Errorf("planner.commute_preference: invalid value %q", p.CommutePreference))
	}

	var start, end timeutil.Clock
	var startOK, endOK bool
	if p.DayStart != "" {
		c, err := timeutil.ParseClock(p.DayStart)
		if err != nil {
			errs = append(errs, fmt.Errorf("planner.day_start: %w", err))
		} else {
			start, startOK = c, true
		}
	}
	if p.DayEnd != "" {
		c, err := timeutil.ParseClock(p.DayEnd)
		if err != nil {
			errs = append(errs, fmt.Errorf("planner.day_end: %w", err))
		} else {
			end, endOK = c, true
		}
	}
	if startOK && endOK && end <= start {
		errs = append(errs, fmt.Errorf("planner: day_end %s must be after day_start %s", end, start))
	}
	if p.MaxWalkMinutes != nil && *p.MaxWalkMinutes <= 0 {
		errs = append(errs, fmt.Errorf("planner.max_walk_minutes must be positive"))
	}

	return errs
}

func validateActivities(acts []ActivityImport) []error {
	var errs []error

	if len(acts) == 0 {
		errs = append(errs, fmt.Errorf("at least one activity is required"))
	}

	ids := make(map[string]bool, len(acts))
	for i, a := range acts {
		prefix := fmt.Sprintf("activities[%d]", i)
		if a.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		} else if ids[a.ID] {
			errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, a.ID))
		}
		ids[a.ID] = true

		if a.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if a.Category == "" {
			errs = append(errs, fmt.Errorf("%s.category is required", prefix))
		}
		if a.DurationMin <= 0 {
			errs = append(errs, fmt.Errorf("%s.duration_min must be positive", prefix))
		}
		if a.Lat < -90 || a.Lat > 90 || a.Lng < -180 || a.Lng > 180 {
			errs = append(errs, fmt.Errorf("%s: coordinates (%g, %g) out of range", prefix, a.Lat, a.Lng))
		}
		if a.Score < 0 || a.Score > 100 {
			errs = append(errs, fmt.Errorf("%s.score must be within 0..100", prefix))
		}
		if a.Cost < 0 {
			errs = append(errs, fmt.Errorf("%s.cost must not be negative", prefix))
		}
		for _, bt := range a.BestTimes {
			if !validTimesOfDay[bt] {
				errs = append(errs, fmt.Errorf("%s.best_times: invalid value %q", prefix, bt))
			}
		}
		for _, m := range a.Meals {
			if !validMeals[m] {
				errs = append(errs, fmt.Errorf("%s.meals: invalid value %q", prefix, m))
			}
		}
		if len(a.Meals) > 0 && !a.Restaurant {
			errs = append(errs, fmt.Errorf("%s: meals are only allowed on restaurants", prefix))
		}
		if a.Booking != nil && a.Booking.Confirmed && a.Booking.Reference == "" {
			errs = append(errs, fmt.Errorf("%s.booking: confirmed booking needs a reference", prefix))
		}
	}

	return errs
}

func validateWeather(ws []WeatherImport) []error {
	var errs []error

	dates := make(map[string]bool, len(ws))
	for i, w := range ws {
		prefix := fmt.Sprintf("weather[%d]", i)
		if _, err := time.Parse("2006-01-02", w.Date); err != nil {
			errs = append(errs, fmt.Errorf("%s.date: invalid date format %q (expected YYYY-MM-DD)", prefix, w.Date))
		} else if dates[w.Date] {
			errs = append(errs, fmt.Errorf("%s.date: duplicate forecast for %s", prefix, w.Date))
		}
		dates[w.Date] = true

		if w.PrecipitationPct < 0 || w.PrecipitationPct > 100 {
			errs = append(errs, fmt.Errorf("%s.precipitation_pct must be within 0..100", prefix))
		}
		if w.TempLowC > w.TempHighC {
			errs = append(errs, fmt.Errorf("%s: temp_low_c %g above temp_high_c %g", prefix, w.TempLowC, w.TempHighC))
		}
	}

	return errs
}
