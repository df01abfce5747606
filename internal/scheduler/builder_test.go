package scheduler

import (
	"testing"

	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parisPool() []domain.ScoredActivity {
	return []domain.ScoredActivity{
		testutil.NewTestActivity("cafe-de-flore", testutil.AsRestaurant(domain.MealBreakfast), testutil.WithDuration(45), testutil.WithNeighborhood("saint-germain"), testutil.WithLocation(48.8541, 2.3326), testutil.WithCost(18)),
		testutil.NewTestActivity("louvre", testutil.WithDuration(150), testutil.WithScore(95), testutil.WithNeighborhood("louvre"), testutil.WithLocation(48.8606, 2.3376), testutil.WithCost(22)),
		testutil.NewTestActivity("orsay", testutil.WithDuration(120), testutil.WithScore(90), testutil.WithNeighborhood("saint-germain"), testutil.WithLocation(48.8600, 2.3266), testutil.WithCost(16)),
		testutil.NewTestActivity("sainte-chapelle", testutil.WithCategory("landmark"), testutil.WithScore(80), testutil.WithNeighborhood("cite"), testutil.WithLocation(48.8554, 2.3450), testutil.WithCost(11)),
		testutil.NewTestActivity("luxembourg", testutil.WithCategory("park"), testutil.WithDuration(90), testutil.WithScore(70), testutil.WithNeighborhood("latin"), testutil.WithLocation(48.8462, 2.3372), testutil.Outdoor()),
		testutil.NewTestActivity("chez-janou", testutil.AsRestaurant(domain.MealLunch, domain.MealDinner), testutil.WithDuration(75), testutil.WithScore(75), testutil.WithNeighborhood("marais"), testutil.WithLocation(48.8573, 2.3670), testutil.WithCost(35)),
		testutil.NewTestActivity("le-train-bleu", testutil.AsRestaurant(domain.MealDinner), testutil.WithDuration(90), testutil.WithScore(70), testutil.WithNeighborhood("bastille"), testutil.WithLocation(48.8447, 2.3735), testutil.WithCost(80)),
		testutil.NewTestActivity("duc-des-lombards", testutil.WithCategory("nightlife"), testutil.WithBestTimes(domain.TimeNight), testutil.WithDuration(90), testutil.WithScore(65), testutil.WithNeighborhood("chatelet"), testutil.WithLocation(48.8593, 2.3490), testutil.WithCost(30)),
	}
}

func TestBuildDay_StandardDay(t *testing.T) {
	b := NewBuilder(domain.DefaultPlannerConfig())
	pool := parisPool()

	day, remaining := b.BuildDay(DayRequest{DayIndex: 1, Date: "2026-05-02", Candidates: pool})

	require.Len(t, day.Slots, 6)
	assert.Equal(t, domain.DayFull, day.DayType)
	assert.Equal(t, "d1-breakfast", day.Slots[0].ID)
	assert.Equal(t, "cafe-de-flore", day.Slots[0].Activity.ID)
	assert.Equal(t, "08:00", day.Slots[0].ScheduledStart.String())
	assert.Equal(t, "08:45", day.Slots[0].ScheduledEnd.String())

	lunch := day.Slots[day.SlotIndex("d1-lunch")]
	assert.Equal(t, "chez-janou", lunch.Activity.ID)
	dinner := day.Slots[day.SlotIndex("d1-dinner")]
	assert.Equal(t, "le-train-bleu", dinner.Activity.ID)

	used := map[string]bool{}
	for i, s := range day.Slots {
		assert.False(t, used[s.Activity.ID], "activity %s used twice", s.Activity.ID)
		used[s.Activity.ID] = true
		assert.Equal(t, s.ScheduledStart.Add(s.ActualDuration), s.ScheduledEnd)
		if i > 0 {
			assert.LessOrEqual(t, day.Slots[i-1].ScheduledStart, s.ScheduledStart)
			assert.NotNil(t, s.CommuteFromPrevious)
		}
	}
	for _, r := range remaining {
		assert.False(t, used[r.ID])
	}
	assert.Len(t, remaining, len(pool)-len(day.Slots))
	assert.Positive(t, day.TotalCommuteTime)
	assert.Greater(t, day.PaceScore, 50)
}

func TestBuildDay_TravelDayIsEmpty(t *testing.T) {
	b := NewBuilder(domain.DefaultPlannerConfig())
	pool := parisPool()

	day, remaining := b.BuildDay(DayRequest{DayType: domain.DayTravel, Candidates: pool})

	assert.Empty(t, day.Slots)
	assert.Equal(t, 50, day.PaceScore)
	assert.Empty(t, day.Warnings)
	assert.Len(t, remaining, len(pool))
}

func TestBuildDay_EmptyPool(t *testing.T) {
	day, remaining := NewBuilder(domain.DefaultPlannerConfig()).BuildDay(DayRequest{})

	assert.Empty(t, day.Slots)
	assert.Empty(t, remaining)
	assert.Equal(t, 50, day.PaceScore)
}

func TestBuildDay_TemplateOverride(t *testing.T) {
	b := NewBuilder(domain.DefaultPlannerConfig())

	day, _ := b.BuildDay(DayRequest{Candidates: parisPool(), Template: TemplateDeparture})

	var names []string
	for _, s := range day.Slots {
		names = append(names, s.SlotName)
	}
	assert.Equal(t, []string{"breakfast", "morning", "lunch"}, names)
}

func TestBuildDay_AttachesWeatherWarnings(t *testing.T) {
	b := NewBuilder(domain.DefaultPlannerConfig())
	rain := domain.WeatherForecast{Date: "2026-05-02", Condition: "rain", TempLowC: 10, TempHighC: 14}
	pool := []domain.ScoredActivity{
		testutil.NewTestActivity("luxembourg", testutil.Outdoor(), testutil.WithScore(90)),
	}

	day, _ := b.BuildDay(DayRequest{Date: "2026-05-02", Candidates: pool, Weather: &rain})

	require.NotNil(t, day.Weather)
	assert.Equal(t, "rain", day.Weather.Condition)
	assert.Len(t, warningsOf(day, domain.WarnWeather), 1)

	rain.Condition = "sunny"
	assert.Equal(t, "rain", day.Weather.Condition)
}

func TestBuildDay_Deterministic(t *testing.T) {
	b := NewBuilder(domain.DefaultPlannerConfig())

	d1, r1 := b.BuildDay(DayRequest{Candidates: parisPool()})
	d2, r2 := b.BuildDay(DayRequest{Candidates: parisPool()})

	assert.Equal(t, d1, d2)
	assert.Equal(t, r1, r2)
}
