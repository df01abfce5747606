package scheduler

import (
	"fmt"
	"slices"
	"sort"

	"github.com/alexanderramin/itinera/internal/domain"
)

// Builder produces and edits day schedules for one traveler configuration.
type Builder struct {
	cfg domain.PlannerConfig
}

func NewBuilder(cfg domain.PlannerConfig) *Builder {
	return &Builder{cfg: cfg}
}

// Config returns the planner configuration the builder was created with.
func (b *Builder) Config() domain.PlannerConfig { return b.cfg }

type DayRequest struct {
	DayIndex   int
	Date       string
	DayType    domain.DayType
	Candidates []domain.ScoredActivity
	Weather    *domain.WeatherForecast
	// Template forces a named template instead of the pace/day-type choice.
	Template TemplateName
}

// SlotID is the identifier of the scheduled activity placed in a template slot.
func SlotID(dayIndex int, slotName string) string {
	return fmt.Sprintf("d%d-%s", dayIndex, slotName)
}

// BuildDay selects slots, allocates activities, optimizes the route and
// validates the result. It returns the day and the unused candidates.
func (b *Builder) BuildDay(req DayRequest) (domain.DaySchedule, []domain.ScoredActivity) {
	if req.DayType == "" {
		req.DayType = domain.DayFull
	}
	slotReq := SlotRequest{
		Pace:     b.cfg.Pace,
		DayType:  req.DayType,
		DayStart: b.cfg.DayStart,
		DayEnd:   b.cfg.DayEnd,
		TripMode: b.cfg.TripMode,
	}
	var slots []domain.TimeSlot
	if req.Template != "" && req.DayType != domain.DayTravel {
		slots = AdjustSlots(TemplateSlots(req.Template), slotReq)
	} else {
		slots = SelectSlots(slotReq)
	}

	alloc := AllocateActivities(slots, req.Candidates, "")
	scheduled := scheduleAssignments(req.DayIndex, alloc.Assignments)
	scheduled = OptimizeFlow(scheduled)

	day := domain.DaySchedule{
		DayIndex: req.DayIndex,
		Date:     req.Date,
		DayType:  req.DayType,
		Slots:    scheduled,
	}
	if req.Weather != nil {
		w := *req.Weather
		day.Weather = &w
	}
	return b.Finalize(day), alloc.Remaining
}

func scheduleAssignments(dayIndex int, assignments []Assignment) []domain.ScheduledActivity {
	out := make([]domain.ScheduledActivity, 0, len(assignments))
	for _, a := range assignments {
		if a.Activity == nil {
			continue
		}
		duration := a.Activity.RecommendedDuration
		if duration <= 0 {
			duration = a.Slot.DurationMinutes
		}
		s := domain.ScheduledActivity{
			ID:              SlotID(dayIndex, a.Slot.Name),
			SlotName:        a.Slot.Name,
			TimeOfDay:       a.Slot.TimeOfDay,
			MealType:        a.Slot.MealType,
			Activity:        a.Activity.Clone(),
			ActualDuration:  duration,
			PlannedDuration: duration,
			Alternatives:    a.Alternatives,
		}
		s.Reschedule(a.Slot.StartTime)
		out = append(out, s)
	}
	return out
}

// Finalize restores chronological order, recomputes commute edges and
// totals, and re-runs validation. It never modifies its argument.
func (b *Builder) Finalize(day domain.DaySchedule) domain.DaySchedule {
	return Finalize(day, b.cfg)
}

func Finalize(day domain.DaySchedule, cfg domain.PlannerConfig) domain.DaySchedule {
	out := day.Clone()
	if out.Slots == nil {
		out.Slots = []domain.ScheduledActivity{}
	}
	sort.SliceStable(out.Slots, func(i, j int) bool {
		return out.Slots[i].ScheduledStart < out.Slots[j].ScheduledStart
	})
	recomputeCommutes(out.Slots, cfg)
	applyTotals(&out)
	out.Warnings = Validate(out, cfg)
	out.PaceScore = CalculatePaceScore(out.DayType, out.TotalActivityTime, out.TotalCommuteTime)
	return out
}

func applyTotals(day *domain.DaySchedule) {
	day.TotalActivityTime = 0
	day.TotalCommuteTime = 0
	day.TotalCost = 0
	day.NeighborhoodsVisited = []string{}
	day.CategoriesCovered = []string{}
	for _, s := range day.Slots {
		day.TotalActivityTime += s.ActualDuration
		day.TotalCommuteTime += s.InboundCommuteMinutes()
		day.TotalCost += s.Activity.Cost
		if n := s.Activity.Neighborhood; n != "" && !slices.Contains(day.NeighborhoodsVisited, n) {
			day.NeighborhoodsVisited = append(day.NeighborhoodsVisited, n)
		}
		if c := s.Activity.Category; c != "" && !slices.Contains(day.CategoriesCovered, c) {
			day.CategoriesCovered = append(day.CategoriesCovered, c)
		}
	}
}
