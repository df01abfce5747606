package reshuffle

import (
	"fmt"
	"time"

	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/scheduler"
	"github.com/alexanderramin/itinera/internal/testutil"
	"github.com/alexanderramin/itinera/internal/timeutil"
)

var fixedTime = time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)

func clock(s string) timeutil.Clock { return timeutil.MustClock(s) }

func dayOf(slots ...domain.ScheduledActivity) domain.DaySchedule {
	return scheduler.Finalize(testutil.NewTestDay(0, slots...), DefaultConfig().Planner)
}

func slotByID(day domain.DaySchedule, id string) (domain.ScheduledActivity, bool) {
	i := day.SlotIndex(id)
	if i < 0 {
		return domain.ScheduledActivity{}, false
	}
	return day.Slots[i], true
}

func sequence(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func testDetector() *Detector {
	return NewDetector(WithClock(func() time.Time { return fixedTime }), WithIDGenerator(sequence("trg")))
}

func testService(cfg Config) *Service {
	return NewService(cfg,
		WithDetector(testDetector()),
		WithTokenGenerator(sequence("undo")),
		WithNow(func() time.Time { return fixedTime }),
	)
}

// eightMinuteBufferDay has two back-to-back museums with 8 idle minutes
// between them.
func eightMinuteBufferDay() domain.DaySchedule {
	return dayOf(
		testutil.NewTestSlot("a", testutil.NewTestActivity("orangerie"), "10:00"),
		testutil.NewTestSlot("b", testutil.NewTestActivity("rodin"), "11:08"),
	)
}
