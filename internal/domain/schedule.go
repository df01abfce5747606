package domain

import (
	"slices"

	"github.com/alexanderramin/itinera/internal/timeutil"
)

// PlannerConfig holds the traveler preferences that drive schedule generation.
type PlannerConfig struct {
	Pace              PaceMode          `json:"pace" toml:"pace"`
	DayStart          timeutil.Clock    `json:"day_start" toml:"day_start"`
	DayEnd            timeutil.Clock    `json:"day_end" toml:"day_end"`
	TripMode          TripMode          `json:"trip_mode" toml:"trip_mode"`
	CommutePreference CommutePreference `json:"commute_preference" toml:"commute_preference"`
	MaxWalkMinutes    int               `json:"max_walk_minutes" toml:"max_walk_minutes"`
}

// DefaultPlannerConfig returns a normal-paced solo configuration for 08:00–23:00.
func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		Pace:              PaceNormal,
		DayStart:          timeutil.MustClock("08:00"),
		DayEnd:            timeutil.MustClock("23:00"),
		TripMode:          TripSolo,
		CommutePreference: CommuteBalanced,
		MaxWalkMinutes:    20,
	}
}

// TimeSlot is a named window of a day template.
type TimeSlot struct {
	Name            string         `json:"name"`
	StartTime       timeutil.Clock `json:"start_time"`
	EndTime         timeutil.Clock `json:"end_time"`
	DurationMinutes int            `json:"duration_min"`
	TimeOfDay       TimeOfDay      `json:"time_of_day"`
	MealType        MealType       `json:"meal_type,omitempty"`
	IsFlexible      bool           `json:"is_flexible"`
	IsRequired      bool           `json:"is_required"`
}

// CommuteInfo is the directed travel edge into a scheduled activity.
type CommuteInfo struct {
	DistanceMeters  float64    `json:"distance_m"`
	DurationMinutes int        `json:"duration_min"`
	Mode            TravelMode `json:"mode"`
	TransitDetail   string     `json:"transit_detail,omitempty"`
}

// ScheduledActivity is a slot once filled with a concrete activity and times.
type ScheduledActivity struct {
	ID                  string           `json:"id"`
	SlotName            string           `json:"slot_name"`
	TimeOfDay           TimeOfDay        `json:"time_of_day"`
	MealType            MealType         `json:"meal_type,omitempty"`
	Activity            ScoredActivity   `json:"activity"`
	ScheduledStart      timeutil.Clock   `json:"scheduled_start"`
	ScheduledEnd        timeutil.Clock   `json:"scheduled_end"`
	ActualDuration      int              `json:"actual_duration_min"`
	PlannedDuration     int              `json:"planned_duration_min,omitempty"`
	IsLocked            bool             `json:"is_locked"`
	Alternatives        []ScoredActivity `json:"alternatives,omitempty"`
	CommuteFromPrevious *CommuteInfo     `json:"commute_from_previous,omitempty"`
	Note                string           `json:"note,omitempty"`
}

// Reschedule moves the activity to start and derives its end from ActualDuration.
func (s *ScheduledActivity) Reschedule(start timeutil.Clock) {
	s.ScheduledStart = start
	s.ScheduledEnd = start.Add(s.ActualDuration)
}

// SetDuration changes ActualDuration and re-derives the end.
func (s *ScheduledActivity) SetDuration(min int) {
	s.ActualDuration = min
	s.ScheduledEnd = s.ScheduledStart.Add(min)
}

// BaseDuration is the length shortening limits are measured against: the
// activity's recommended duration, else the duration the slot was planned
// with. It does not shrink as the slot is shortened.
func (s ScheduledActivity) BaseDuration() int {
	if s.Activity.RecommendedDuration > 0 {
		return s.Activity.RecommendedDuration
	}
	if s.PlannedDuration > 0 {
		return s.PlannedDuration
	}
	return s.ActualDuration
}

// InboundCommuteMinutes is zero when there is no inbound edge.
func (s ScheduledActivity) InboundCommuteMinutes() int {
	if s.CommuteFromPrevious == nil {
		return 0
	}
	return s.CommuteFromPrevious.DurationMinutes
}

func (s ScheduledActivity) Clone() ScheduledActivity {
	out := s
	out.Activity = s.Activity.Clone()
	if s.Alternatives != nil {
		out.Alternatives = make([]ScoredActivity, len(s.Alternatives))
		for i, a := range s.Alternatives {
			out.Alternatives[i] = a.Clone()
		}
	}
	if s.CommuteFromPrevious != nil {
		c := *s.CommuteFromPrevious
		out.CommuteFromPrevious = &c
	}
	return out
}

type ScheduleWarning struct {
	Type          WarningType     `json:"type"`
	Severity      WarningSeverity `json:"severity"`
	Message       string          `json:"message"`
	AffectedSlots []string        `json:"affected_slots,omitempty"`
	Suggestion    string          `json:"suggestion,omitempty"`
}

// DaySchedule is one calendar day of a trip. Slots are kept in chronological order.
type DaySchedule struct {
	DayIndex             int                 `json:"day_index"`
	Date                 string              `json:"date"`
	DayType              DayType             `json:"day_type"`
	Slots                []ScheduledActivity `json:"slots"`
	Weather              *WeatherForecast    `json:"weather,omitempty"`
	TotalActivityTime    int                 `json:"total_activity_min"`
	TotalCommuteTime     int                 `json:"total_commute_min"`
	TotalCost            float64             `json:"total_cost"`
	NeighborhoodsVisited []string            `json:"neighborhoods_visited"`
	CategoriesCovered    []string            `json:"categories_covered"`
	Warnings             []ScheduleWarning   `json:"warnings"`
	PaceScore            int                 `json:"pace_score"`
}

// SlotIndex returns the position of the slot with the given id, or -1.
func (d DaySchedule) SlotIndex(id string) int {
	return slices.IndexFunc(d.Slots, func(s ScheduledActivity) bool { return s.ID == id })
}

// Clone returns a deep copy so mutations never leak into the original.
func (d DaySchedule) Clone() DaySchedule {
	out := d
	if d.Slots != nil {
		out.Slots = make([]ScheduledActivity, len(d.Slots))
		for i, s := range d.Slots {
			out.Slots[i] = s.Clone()
		}
	}
	if d.Weather != nil {
		w := *d.Weather
		out.Weather = &w
	}
	out.NeighborhoodsVisited = slices.Clone(d.NeighborhoodsVisited)
	out.CategoriesCovered = slices.Clone(d.CategoriesCovered)
	if d.Warnings != nil {
		out.Warnings = make([]ScheduleWarning, len(d.Warnings))
		for i, w := range d.Warnings {
			w.AffectedSlots = slices.Clone(w.AffectedSlots)
			out.Warnings[i] = w
		}
	}
	return out
}

// TripSchedule is the full multi-day itinerary.
type TripSchedule struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	StartDate string        `json:"start_date"`
	Config    PlannerConfig `json:"config"`
	Days      []DaySchedule `json:"days"`
}

func (t TripSchedule) Clone() TripSchedule {
	out := t
	if t.Days != nil {
		out.Days = make([]DaySchedule, len(t.Days))
		for i, d := range t.Days {
			out.Days[i] = d.Clone()
		}
	}
	return out
}
