package domain

import "slices"

type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

type BookingInfo struct {
	Required  bool   `json:"required"`
	Confirmed bool   `json:"confirmed"`
	Reference string `json:"reference,omitempty"`
}

// ScoredActivity is a candidate activity or restaurant as ranked by the
// upstream candidate pool. The scheduler works on copies.
type ScoredActivity struct {
	ID                  string             `json:"id"`
	Name                string             `json:"name"`
	Category            string             `json:"category"`
	Neighborhood        string             `json:"neighborhood"`
	Location            Coordinates        `json:"location"`
	RecommendedDuration int                `json:"recommended_duration_min"`
	BestTimes           []TimeOfDay        `json:"best_times"`
	IsRestaurant        bool               `json:"is_restaurant"`
	MealTypes           []MealType         `json:"meal_types,omitempty"`
	Booking             *BookingInfo       `json:"booking,omitempty"`
	Cost                float64            `json:"cost"`
	IsOutdoor           bool               `json:"is_outdoor"`
	WeatherSensitive    bool               `json:"weather_sensitive"`
	Score               float64            `json:"score"`
	ScoreBreakdown      map[string]float64 `json:"score_breakdown,omitempty"`
}

// FitsTimeOfDay reports whether the activity is eligible for the bucket.
// An activity without preferred times fits anywhere.
func (a ScoredActivity) FitsTimeOfDay(t TimeOfDay) bool {
	return len(a.BestTimes) == 0 || slices.Contains(a.BestTimes, t)
}

// ServesMeal reports whether a restaurant serves the given meal.
func (a ScoredActivity) ServesMeal(m MealType) bool {
	return a.IsRestaurant && slices.Contains(a.MealTypes, m)
}

// HasFirmBooking reports whether a confirmed reservation exists.
func (a ScoredActivity) HasFirmBooking() bool {
	return a.Booking != nil && a.Booking.Confirmed
}

// Clone returns a deep copy.
func (a ScoredActivity) Clone() ScoredActivity {
	out := a
	out.BestTimes = slices.Clone(a.BestTimes)
	out.MealTypes = slices.Clone(a.MealTypes)
	if a.Booking != nil {
		b := *a.Booking
		out.Booking = &b
	}
	if a.ScoreBreakdown != nil {
		out.ScoreBreakdown = make(map[string]float64, len(a.ScoreBreakdown))
		for k, v := range a.ScoreBreakdown {
			out.ScoreBreakdown[k] = v
		}
	}
	return out
}

type WeatherForecast struct {
	Date             string  `json:"date" yaml:"date"`
	Condition        string  `json:"condition" yaml:"condition"`
	PrecipitationPct int     `json:"precipitation_pct" yaml:"precipitation_pct"`
	TempLowC         float64 `json:"temp_low_c" yaml:"temp_low_c"`
	TempHighC        float64 `json:"temp_high_c" yaml:"temp_high_c"`
}

var rainyConditions = []string{"rain", "showers", "storm", "thunderstorm", "drizzle", "snow"}

// IsRainy reports a wet forecast by condition or by precipitation chance.
func (w WeatherForecast) IsRainy() bool {
	return slices.Contains(rainyConditions, w.Condition) || w.PrecipitationPct >= 60
}

// IsExtremeTemperature reports a forecast below 5 °C or above 35 °C.
func (w WeatherForecast) IsExtremeTemperature() bool {
	return w.TempLowC < 5 || w.TempHighC > 35
}
