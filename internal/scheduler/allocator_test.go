package scheduler

import (
	"testing"

	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	morningSlot   = slot("morning", "09:30", "12:00", domain.TimeMorning, domain.MealNone, false)
	lunchSlot     = slot("lunch", "12:30", "13:30", domain.TimeAfternoon, domain.MealLunch, true)
	afternoonSlot = slot("afternoon", "14:00", "17:00", domain.TimeAfternoon, domain.MealNone, false)
	eveningSlot   = slot("evening", "21:00", "22:30", domain.TimeNight, domain.MealNone, true)
)

func assignedID(a Assignment) string {
	if a.Activity == nil {
		return ""
	}
	return a.Activity.ID
}

func TestAllocate_MealSlotsTakeRestaurantsOnly(t *testing.T) {
	pool := []domain.ScoredActivity{
		testutil.NewTestActivity("louvre", testutil.WithScore(90)),
		testutil.NewTestActivity("cafe", testutil.AsRestaurant(domain.MealBreakfast), testutil.WithScore(80)),
		testutil.NewTestActivity("bistro", testutil.AsRestaurant(domain.MealLunch, domain.MealDinner), testutil.WithScore(70)),
	}

	alloc := AllocateActivities([]domain.TimeSlot{morningSlot, lunchSlot}, pool, "")

	require.Len(t, alloc.Assignments, 2)
	assert.Equal(t, "louvre", assignedID(alloc.Assignments[0]))
	assert.Equal(t, "bistro", assignedID(alloc.Assignments[1]))
	assert.Equal(t, []string{"cafe"}, ids(alloc.Remaining))
}

func TestAllocate_NonMealSlotRejectsRestaurants(t *testing.T) {
	pool := []domain.ScoredActivity{
		testutil.NewTestActivity("bistro", testutil.AsRestaurant(domain.MealLunch), testutil.WithScore(99)),
	}

	alloc := AllocateActivities([]domain.TimeSlot{morningSlot}, pool, "")

	assert.Nil(t, alloc.Assignments[0].Activity)
	assert.Len(t, alloc.Remaining, 1)
}

func TestAllocate_RespectsBestTimes(t *testing.T) {
	pool := []domain.ScoredActivity{
		testutil.NewTestActivity("jazz-club", testutil.WithBestTimes(domain.TimeNight), testutil.WithScore(95)),
		testutil.NewTestActivity("market", testutil.WithBestTimes(domain.TimeMorning), testutil.WithScore(60)),
	}

	alloc := AllocateActivities([]domain.TimeSlot{morningSlot, eveningSlot}, pool, "")

	assert.Equal(t, "market", assignedID(alloc.Assignments[0]))
	assert.Equal(t, "jazz-club", assignedID(alloc.Assignments[1]))
}

func TestAllocate_DurationOverflowLimit(t *testing.T) {
	// lunch is 60 minutes; up to 30 minutes of overflow is tolerated
	pool := []domain.ScoredActivity{
		testutil.NewTestActivity("tasting-menu", testutil.AsRestaurant(domain.MealLunch), testutil.WithDuration(91), testutil.WithScore(90)),
		testutil.NewTestActivity("brasserie", testutil.AsRestaurant(domain.MealLunch), testutil.WithDuration(90), testutil.WithScore(40)),
	}

	alloc := AllocateActivities([]domain.TimeSlot{lunchSlot}, pool, "")

	assert.Equal(t, "brasserie", assignedID(alloc.Assignments[0]))
}

func TestAllocate_NeighborhoodBonus(t *testing.T) {
	pool := []domain.ScoredActivity{
		testutil.NewTestActivity("a1", testutil.WithScore(60), testutil.WithNeighborhood("marais"), testutil.WithCategory("museum")),
		testutil.NewTestActivity("b1", testutil.WithScore(55), testutil.WithNeighborhood("latin"), testutil.WithCategory("park")),
		testutil.NewTestActivity("a2", testutil.WithScore(52), testutil.WithNeighborhood("marais"), testutil.WithCategory("gallery")),
	}

	alloc := AllocateActivities([]domain.TimeSlot{morningSlot, afternoonSlot}, pool, "")

	assert.Equal(t, "a1", assignedID(alloc.Assignments[0]))
	assert.Equal(t, "a2", assignedID(alloc.Assignments[1]))
	assert.Equal(t, 62.0, alloc.Assignments[1].Score)
}

func TestAllocate_PreviousNeighborhoodSeedsBonus(t *testing.T) {
	pool := []domain.ScoredActivity{
		testutil.NewTestActivity("far", testutil.WithScore(60), testutil.WithNeighborhood("montmartre")),
		testutil.NewTestActivity("near", testutil.WithScore(55), testutil.WithNeighborhood("marais")),
	}

	alloc := AllocateActivities([]domain.TimeSlot{morningSlot}, pool, "marais")

	assert.Equal(t, "near", assignedID(alloc.Assignments[0]))
}

func TestAllocate_CategoryRepeatPenalty(t *testing.T) {
	pool := []domain.ScoredActivity{
		testutil.NewTestActivity("c1", testutil.WithScore(60), testutil.WithNeighborhood("x")),
		testutil.NewTestActivity("c2", testutil.WithScore(58), testutil.WithNeighborhood("y")),
		testutil.NewTestActivity("c3", testutil.WithScore(54), testutil.WithNeighborhood("z"), testutil.WithCategory("park")),
	}

	alloc := AllocateActivities([]domain.TimeSlot{morningSlot, afternoonSlot}, pool, "")

	assert.Equal(t, "c1", assignedID(alloc.Assignments[0]))
	assert.Equal(t, "c3", assignedID(alloc.Assignments[1]))
}

func TestAllocate_AlternativesAreNextBestUpToThree(t *testing.T) {
	var pool []domain.ScoredActivity
	for i, id := range []string{"p1", "p2", "p3", "p4", "p5"} {
		pool = append(pool, testutil.NewTestActivity(id, testutil.WithScore(float64(90-i))))
	}

	alloc := AllocateActivities([]domain.TimeSlot{morningSlot}, pool, "")

	a := alloc.Assignments[0]
	assert.Equal(t, "p1", assignedID(a))
	assert.Equal(t, []string{"p2", "p3", "p4"}, ids(a.Alternatives))
	assert.Equal(t, []string{"p2", "p3", "p4", "p5"}, ids(alloc.Remaining))
}

func TestAllocate_TieBreaksOnPoolOrder(t *testing.T) {
	pool := []domain.ScoredActivity{
		testutil.NewTestActivity("first"),
		testutil.NewTestActivity("second"),
	}

	alloc := AllocateActivities([]domain.TimeSlot{morningSlot}, pool, "")

	assert.Equal(t, "first", assignedID(alloc.Assignments[0]))
}

func TestAllocate_EmptyPoolLeavesSlotsUnfilled(t *testing.T) {
	alloc := AllocateActivities([]domain.TimeSlot{morningSlot, lunchSlot}, nil, "")

	require.Len(t, alloc.Assignments, 2)
	for _, a := range alloc.Assignments {
		assert.Nil(t, a.Activity)
	}
	assert.Empty(t, alloc.Remaining)
}

func TestAllocate_DoesNotModifyPool(t *testing.T) {
	pool := []domain.ScoredActivity{
		testutil.NewTestActivity("a", testutil.WithBestTimes(domain.TimeMorning)),
		testutil.NewTestActivity("b"),
	}
	before := []domain.ScoredActivity{pool[0].Clone(), pool[1].Clone()}

	alloc := AllocateActivities([]domain.TimeSlot{morningSlot, afternoonSlot}, pool, "")
	alloc.Assignments[0].Activity.BestTimes[0] = domain.TimeNight

	assert.Equal(t, before, pool)
}

func ids(acts []domain.ScoredActivity) []string {
	out := make([]string, len(acts))
	for i, a := range acts {
		out[i] = a.ID
	}
	return out
}
