package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/scheduler"
	"github.com/alexanderramin/itinera/internal/timeutil"
	"github.com/google/uuid"
)

// Convert transforms a validated pool into a trip build request and the
// planner configuration the trip should use. base supplies every planner
// field the pool does not override.
// Call ValidatePool first; Convert assumes the schema is valid.
func Convert(schema *PoolSchema, base domain.PlannerConfig) (scheduler.TripRequest, domain.PlannerConfig, error) {
	cfg, err := mergePlanner(base, schema.Planner)
	if err != nil {
		return scheduler.TripRequest{}, domain.PlannerConfig{}, err
	}

	req := scheduler.TripRequest{
		ID:         uuid.New().String(),
		Name:       schema.Trip.Name,
		StartDate:  schema.Trip.StartDate,
		Days:       schema.Trip.Days,
		Candidates: make([]domain.ScoredActivity, 0, len(schema.Activities)),
	}
	for _, dt := range schema.Trip.DayTypes {
		req.DayTypes = append(req.DayTypes, domain.DayType(dt))
	}
	for _, a := range schema.Activities {
		req.Candidates = append(req.Candidates, convertActivity(a))
	}
	if len(schema.Weather) > 0 {
		req.Weather = make(map[string]domain.WeatherForecast, len(schema.Weather))
		for _, w := range schema.Weather {
			req.Weather[w.Date] = domain.WeatherForecast{
				Date:             w.Date,
				Condition:        strings.ToLower(w.Condition),
				PrecipitationPct: w.PrecipitationPct,
				TempLowC:         w.TempLowC,
				TempHighC:        w.TempHighC,
			}
		}
	}
	return req, cfg, nil
}

// ConvertActivities returns just the candidates, for edits that need a
// fresh pool on an existing trip.
func ConvertActivities(schema *PoolSchema) []domain.ScoredActivity {
	out := make([]domain.ScoredActivity, 0, len(schema.Activities))
	for _, a := range schema.Activities {
		out = append(out, convertActivity(a))
	}
	return out
}

func convertActivity(a ActivityImport) domain.ScoredActivity {
	act := domain.ScoredActivity{
		ID:                  a.ID,
		Name:                a.Name,
		Category:            strings.ToLower(a.Category),
		Neighborhood:        a.Neighborhood,
		Location:            domain.Coordinates{Lat: a.Lat, Lng: a.Lng},
		RecommendedDuration: a.DurationMin,
		IsRestaurant:        a.Restaurant,
		Cost:                a.Cost,
		IsOutdoor:           a.Outdoor,
		WeatherSensitive:    a.WeatherSensitive || a.Outdoor,
		Score:               a.Score,
	}
	for _, bt := range a.BestTimes {
		act.BestTimes = append(act.BestTimes, domain.TimeOfDay(bt))
	}
	for _, m := range a.Meals {
		act.MealTypes = append(act.MealTypes, domain.MealType(m))
	}
	if a.Booking != nil {
		act.Booking = &domain.BookingInfo{
			Required:  a.Booking.Required,
			Confirmed: a.Booking.Confirmed,
			Reference: a.Booking.Reference,
		}
	}
	if len(a.ScoreBreakdown) > 0 {
		act.ScoreBreakdown = make(map[string]float64, len(a.ScoreBreakdown))
		for k, v := range a.ScoreBreakdown {
			act.ScoreBreakdown[k] = v
		}
	}
	return act
}

func mergePlanner(base domain.PlannerConfig, p *PlannerImport) (domain.PlannerConfig, error) {
	if p == nil {
		return base, nil
	}
	cfg := base
	cfg.Pace = domain.Coalesce(domain.PaceMode(p.Pace), base.Pace)
	cfg.TripMode = domain.Coalesce(domain.TripMode(p.TripMode), base.TripMode)
	cfg.CommutePreference = domain.Coalesce(domain.CommutePreference(p.CommutePreference), base.CommutePreference)
	cfg.MaxWalkMinutes = domain.ValueOr(base.MaxWalkMinutes, p.MaxWalkMinutes)
	if p.DayStart != "" {
		c, err := timeutil.ParseClock(p.DayStart)
		if err != nil {
			return cfg, fmt.Errorf("parsing day_start: %w", err)
		}
		cfg.DayStart = c
	}
	if p.DayEnd != "" {
		c, err := timeutil.ParseClock(p.DayEnd)
		if err != nil {
			return cfg, fmt.Errorf("parsing day_end: %w", err)
		}
		cfg.DayEnd = c
	}
	return cfg, nil
}
