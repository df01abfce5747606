package reshuffle

import (
	"testing"

	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_CompressEscalatesToShorten(t *testing.T) {
	svc := testService(DefaultConfig())
	day := eightMinuteBufferDay()
	trigger := svc.Detector().FromDelay(20, day, clock("10:00"))
	impact := Analyze(trigger, day, svc.Config())

	res := svc.Apply(trigger, impact, domain.StrategyCompressBuffer, day)

	require.True(t, res.Success)
	assert.Equal(t, []domain.ReshuffleStrategy{domain.StrategyShortenActivity}, res.Escalations)
	assert.Equal(t, 20, res.TimeSavedMinutes)
	a, _ := slotByID(res.Schedule, "a")
	b, _ := slotByID(res.Schedule, "b")
	assert.Equal(t, "10:20", a.ScheduledStart.String())
	assert.Equal(t, "11:03", a.ScheduledEnd.String())
	assert.Equal(t, "11:08", b.ScheduledStart.String())
	assert.Equal(t, "12:08", b.ScheduledEnd.String())
	assert.Equal(t, "undo-1", res.UndoToken)
	assert.Contains(t, res.Explanation, "shortened orangerie by 17 min")
}

func TestReshuffle_DelaySelectsShorten(t *testing.T) {
	svc := testService(DefaultConfig())

	res := svc.ReportDelay(20, eightMinuteBufferDay(), clock("10:00"))

	assert.Equal(t, domain.StrategyShortenActivity, res.Strategy)
	assert.Equal(t, "trg-1", res.Trigger.ID)
	assert.Equal(t, domain.TriggerMedium, res.Trigger.Severity)
	b, _ := slotByID(res.Schedule, "b")
	assert.Equal(t, "11:08", b.ScheduledStart.String())
}

func TestReshuffle_RepeatedDelaysKeepShortenFloor(t *testing.T) {
	svc := testService(DefaultConfig())
	day := eightMinuteBufferDay()

	for i := 0; i < 3; i++ {
		res := svc.ReportDelay(20, day, clock("10:00"))
		day = res.Schedule
		if a, ok := slotByID(day, "a"); ok {
			assert.GreaterOrEqual(t, a.ActualDuration, 42, "round %d", i)
		}
	}
}

func TestReshuffle_SickClearsDay(t *testing.T) {
	svc := testService(DefaultConfig())
	day := dayOf(
		testutil.NewTestSlot("breakfast", testutil.NewTestActivity("cafe"), "08:00"),
		testutil.NewTestSlot("louvre", testutil.NewTestActivity("louvre"), "10:00"),
		testutil.NewTestSlot("show", testutil.NewTestActivity("opera", testutil.WithCategory("show")), "15:00", testutil.Locked()),
		testutil.NewTestSlot("dinner", testutil.NewTestActivity("bistro"), "19:00"),
	)

	res := svc.ReportState(domain.StateSick, day, clock("10:30"))

	require.True(t, res.Success)
	assert.Equal(t, domain.TriggerCritical, res.Trigger.Severity)
	assert.Equal(t, DayOverDelay, res.Impact.TotalDelayMinutes)
	assert.Equal(t, domain.StrategyEmergencyReroute, res.Strategy)
	assert.Equal(t, []string{"breakfast", "show"}, []string{res.Schedule.Slots[0].ID, res.Schedule.Slots[1].ID})
	assert.Len(t, res.Schedule.Slots, 2)
	for _, s := range res.Schedule.Slots {
		assert.True(t, s.IsLocked || s.ScheduledEnd <= clock("10:30"), s.ID)
	}
}

func bookedDay() domain.DaySchedule {
	return dayOf(
		testutil.NewTestSlot("a", testutil.NewTestActivity("orangerie"), "10:00"),
		testutil.NewTestSlot("booked", testutil.NewTestActivity("catacombs", testutil.WithConfirmedBooking("CAT-1")), "11:30", testutil.Locked()),
		testutil.NewTestSlot("c", testutil.NewTestActivity("pantheon"), "13:00"),
	)
}

func TestReshuffle_BookingAtRiskShortens(t *testing.T) {
	svc := testService(DefaultConfig())

	res := svc.ReportDelay(20, bookedDay(), clock("10:00"))

	require.True(t, res.Success)
	require.Len(t, res.Impact.BookingsAtRisk, 1)
	assert.Equal(t, domain.BookingAtRisk, res.Impact.BookingsAtRisk[0].Risk)
	assert.Equal(t, domain.StrategyShortenActivity, res.Strategy)
	booked, _ := slotByID(res.Schedule, "booked")
	assert.Equal(t, "11:30", booked.ScheduledStart.String())
	assert.Equal(t, 1, res.BookingsProtected)
}

func TestReshuffle_BookingBigDelaySkips(t *testing.T) {
	svc := testService(DefaultConfig())

	res := svc.ReportDelay(50, bookedDay(), clock("10:00"))

	require.True(t, res.Success)
	assert.Equal(t, domain.StrategySkipActivity, res.Strategy)
	_, ok := slotByID(res.Schedule, "a")
	assert.False(t, ok)
	booked, _ := slotByID(res.Schedule, "booked")
	assert.Equal(t, "11:30", booked.ScheduledStart.String())
	assert.Equal(t, 1, res.BookingsProtected)
}

func TestUndo_RoundTrip(t *testing.T) {
	svc := testService(DefaultConfig())
	day := eightMinuteBufferDay()
	res := svc.ReportDelay(20, day, clock("10:00"))
	require.NotEmpty(t, res.UndoToken)
	require.NotEqual(t, day, res.Schedule)

	undo := svc.Undo(res.UndoToken)

	require.True(t, undo.Success)
	assert.Equal(t, day, undo.Schedule)
	require.NotNil(t, undo.Entry.UndoneAt)
	assert.Equal(t, fixedTime, *undo.Entry.UndoneAt)
	assert.Equal(t, res.Schedule, undo.Entry.Next)

	again := svc.Undo(res.UndoToken)
	assert.False(t, again.Success)
	assert.Equal(t, ErrUndoNotFound, again.Error)
}

func TestUndo_UnknownToken(t *testing.T) {
	res := testService(DefaultConfig()).Undo("nope")

	assert.False(t, res.Success)
	assert.Equal(t, ErrUndoNotFound, res.Error)
}

func TestUndo_HistoryIsBounded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxUndoHistory = 1
	svc := testService(cfg)
	first := svc.ReportDelay(20, eightMinuteBufferDay(), clock("10:00"))
	second := svc.ReportDelay(20, eightMinuteBufferDay(), clock("10:00"))

	assert.False(t, svc.Undo(first.UndoToken).Success)
	assert.True(t, svc.Undo(second.UndoToken).Success)
}

func TestReshuffle_NoActionHasNoUndoToken(t *testing.T) {
	svc := testService(DefaultConfig())
	day := eightMinuteBufferDay()

	res := svc.ReportState(domain.StateEnergized, day, clock("09:00"))

	assert.True(t, res.Success)
	assert.Equal(t, domain.StrategyNoAction, res.Strategy)
	assert.Empty(t, res.Changes)
	assert.Empty(t, res.UndoToken)
	assert.Equal(t, "No changes needed.", res.Explanation)
	assert.Equal(t, day, res.Schedule)
	assert.Zero(t, svc.Ledger().Len())
}

func closureDay() domain.DaySchedule {
	return dayOf(
		testutil.NewTestSlot("s1", testutil.NewTestActivity("louvre"), "10:00"),
		testutil.NewTestSlot("s2", testutil.NewTestActivity("orsay", testutil.WithDuration(120)), "14:00",
			testutil.WithAlternatives(testutil.NewTestActivity("orangerie", testutil.WithDuration(90)))),
	)
}

func TestReshuffle_ClosureReplacesFromAlternatives(t *testing.T) {
	svc := testService(DefaultConfig())

	res := svc.ReportMessage("The Orsay is closed today", closureDay(), clock("12:00"))

	require.True(t, res.Success)
	assert.Equal(t, domain.StrategyReplaceActivity, res.Strategy)
	s2, _ := slotByID(res.Schedule, "s2")
	assert.Equal(t, "orangerie", s2.Activity.ID)
	assert.Equal(t, "Replaced orsay with orangerie.", res.Explanation)
}

func TestReshuffle_ClosureOfUnknownVenue(t *testing.T) {
	svc := testService(DefaultConfig())
	day := closureDay()

	res := svc.ReportMessage("The Pantheon is closed", day, clock("09:00"))

	assert.False(t, res.Success)
	assert.Equal(t, string(ErrSlotNotFound), res.Error)
	assert.Equal(t, day, res.Schedule)
	assert.Empty(t, res.UndoToken)
}
