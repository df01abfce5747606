package scheduler

import (
	"fmt"

	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/timeutil"
)

type TripRequest struct {
	ID        string
	Name      string
	StartDate string
	Days      int
	// DayTypes overrides the type of day i; missing entries are full days.
	DayTypes   []domain.DayType
	Candidates []domain.ScoredActivity
	// Weather is keyed by YYYY-MM-DD.
	Weather map[string]domain.WeatherForecast
}

// BuildTrip builds every day in order. Activities used on one day are not
// offered to later days.
func (b *Builder) BuildTrip(req TripRequest) (domain.TripSchedule, error) {
	start, err := timeutil.ParseLocalDate(req.StartDate)
	if err != nil {
		return domain.TripSchedule{}, fmt.Errorf("trip start date: %w", err)
	}
	if req.Days <= 0 {
		return domain.TripSchedule{}, fmt.Errorf("trip must span at least one day, got %d", req.Days)
	}

	trip := domain.TripSchedule{
		ID:        req.ID,
		Name:      req.Name,
		StartDate: req.StartDate,
		Config:    b.cfg,
		Days:      make([]domain.DaySchedule, 0, req.Days),
	}

	pool := req.Candidates
	for i := 0; i < req.Days; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		dayType := domain.DayFull
		if i < len(req.DayTypes) && req.DayTypes[i] != "" {
			dayType = req.DayTypes[i]
		}
		dr := DayRequest{
			DayIndex:   i,
			Date:       date,
			DayType:    dayType,
			Candidates: pool,
		}
		if w, ok := req.Weather[date]; ok {
			dr.Weather = &w
		}
		var day domain.DaySchedule
		day, pool = b.BuildDay(dr)
		trip.Days = append(trip.Days, day)
	}
	return trip, nil
}
