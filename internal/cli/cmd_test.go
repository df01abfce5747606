package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/alexanderramin/itinera/internal/cli/formatter"
	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/repository"
	"github.com/alexanderramin/itinera/internal/reshuffle"
	"github.com/alexanderramin/itinera/internal/scheduler"
	"github.com/alexanderramin/itinera/internal/service"
	"github.com/alexanderramin/itinera/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const parisPool = "../importer/testdata/paris.yaml"

var fixedTime = time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	formatter.DisableColor()
	os.Exit(m.Run())
}

type testHarness struct {
	app   *App
	trips *repository.SQLiteTripRepo
	days  *repository.SQLiteDayScheduleRepo
}

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *testHarness {
	t.Helper()
	database := testutil.NewTestDB(t)

	trips := repository.NewSQLiteTripRepo(database)
	days := repository.NewSQLiteDayScheduleRepo(database)
	logs := repository.NewSQLiteReshuffleLogRepo(database)
	uow := testutil.NewTestUoW(database)
	locks := service.NewTripLocks()

	tokens := 0
	now := func() time.Time { return fixedTime }

	return &testHarness{
		trips: trips,
		days:  days,
		app: &App{
			Planner: service.NewPlannerService(trips, days, uow, locks),
			Edits:   service.NewEditService(trips, uow, locks),
			Reshuffle: service.NewReshuffleService(service.ReshuffleDeps{
				Trips:  trips,
				Logs:   logs,
				UoW:    uow,
				Locks:  locks,
				Config: reshuffle.DefaultConfig(),
				Now:    now,
				EngineOptions: []reshuffle.ServiceOption{
					reshuffle.WithTokenGenerator(func() string {
						tokens++
						return fmt.Sprintf("undo-%d", tokens)
					}),
				},
			}),
			PlannerDefaults: domain.DefaultPlannerConfig(),
			Now:             now,
		},
	}
}

// seedBufferTrip stores a two-day trip: day 1 has slots "a" at 10:00 and
// "b" at 11:08 (with one alternative), day 2 has "c" at 10:00.
func (h *testHarness) seedBufferTrip(t *testing.T) {
	t.Helper()
	trip := testutil.NewTestTrip("3f2a9c10-0000-4000-8000-000000000001",
		testutil.NewTestDay(0,
			testutil.NewTestSlot("a", testutil.NewTestActivity("orangerie"), "10:00"),
			testutil.NewTestSlot("b", testutil.NewTestActivity("rodin"), "11:08",
				testutil.WithAlternatives(testutil.NewTestActivity("cluny", testutil.WithDuration(45)))),
		),
		testutil.NewTestDay(1,
			testutil.NewTestSlot("c", testutil.NewTestActivity("pompidou"), "10:00"),
		),
	)
	trip.Name = "Paris"
	for i := range trip.Days {
		trip.Days[i] = scheduler.Finalize(trip.Days[i], trip.Config)
	}
	require.NoError(t, h.trips.Create(context.Background(), trip))
}

const bufferTripID = "3f2a9c10-0000-4000-8000-000000000001"

func (h *testHarness) slot(t *testing.T, dayIndex int, slotID string) domain.ScheduledActivity {
	t.Helper()
	day, err := h.days.Get(context.Background(), bufferTripID, dayIndex)
	require.NoError(t, err)
	i := day.SlotIndex(slotID)
	require.GreaterOrEqual(t, i, 0, "slot %s missing", slotID)
	return day.Slots[i]
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// --- plan / trips / show / delete ---

func TestPlanCmd_BuildsAndStoresTrip(t *testing.T) {
	h := testApp(t)

	out, err := executeCmd(t, h.app, "plan", parisPool)
	require.NoError(t, err)
	assert.Contains(t, out, "Planned")
	assert.Contains(t, out, "ITINERARY")
	assert.Contains(t, out, "DAY 1")

	trips, err := h.app.Planner.ListTrips(context.Background())
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, 3, trips[0].DayCount)
}

func TestPlanCmd_MissingFile(t *testing.T) {
	h := testApp(t)
	_, err := executeCmd(t, h.app, "plan", "testdata/nope.yaml")
	require.Error(t, err)
}

func TestTripsCmd(t *testing.T) {
	h := testApp(t)

	out, err := executeCmd(t, h.app, "trips")
	require.NoError(t, err)
	assert.Contains(t, out, "No trips yet")

	h.seedBufferTrip(t)
	out, err = executeCmd(t, h.app, "trips")
	require.NoError(t, err)
	assert.Contains(t, out, "Paris")
	assert.Contains(t, out, "3f2a9c10")
}

func TestShowCmd_ResolvesIDPrefix(t *testing.T) {
	h := testApp(t)
	h.seedBufferTrip(t)

	out, err := executeCmd(t, h.app, "show", "3f2a")
	require.NoError(t, err)
	assert.Contains(t, out, "DAY 1")
	assert.Contains(t, out, "DAY 2")

	out, err = executeCmd(t, h.app, "show", "3f2a", "--day", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "DAY 2")
	assert.NotContains(t, out, "DAY 1")
	assert.Contains(t, out, "pompidou")
}

func TestShowCmd_Errors(t *testing.T) {
	h := testApp(t)
	h.seedBufferTrip(t)

	_, err := executeCmd(t, h.app, "show", "ffff")
	assert.ErrorContains(t, err, "trip not found")

	_, err = executeCmd(t, h.app, "show", bufferTripID, "--day", "5")
	assert.True(t, service.HasCode(err, service.ErrDayNotFound), "got %v", err)

	_, err = executeCmd(t, h.app, "show", bufferTripID, "--day", "0")
	assert.ErrorContains(t, err, "--day must be 1 or greater")
}

func TestDeleteCmd(t *testing.T) {
	h := testApp(t)
	h.seedBufferTrip(t)

	out, err := executeCmd(t, h.app, "delete", "3f2a")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted trip "+bufferTripID)

	_, err = h.trips.GetByID(context.Background(), bufferTripID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// --- edits ---

func TestLockAndUnlockCmd(t *testing.T) {
	h := testApp(t)
	h.seedBufferTrip(t)

	out, err := executeCmd(t, h.app, "lock", bufferTripID, "b")
	require.NoError(t, err)
	assert.Contains(t, out, "locked")
	assert.True(t, h.slot(t, 0, "b").IsLocked)

	_, err = executeCmd(t, h.app, "unlock", bufferTripID, "b")
	require.NoError(t, err)
	assert.False(t, h.slot(t, 0, "b").IsLocked)
}

func TestRemoveCmd_UnknownSlot(t *testing.T) {
	h := testApp(t)
	h.seedBufferTrip(t)

	_, err := executeCmd(t, h.app, "remove", bufferTripID, "zz")
	assert.True(t, service.HasCode(err, service.ErrSlotNotFound), "got %v", err)
}

func TestSwapCmd(t *testing.T) {
	h := testApp(t)
	h.seedBufferTrip(t)

	_, err := executeCmd(t, h.app, "swap", bufferTripID, "b", "--alt", "0")
	assert.ErrorContains(t, err, "--alt must be 1 or greater")

	out, err := executeCmd(t, h.app, "swap", bufferTripID, "b")
	require.NoError(t, err)
	assert.Contains(t, out, "cluny")
	assert.Equal(t, "cluny", h.slot(t, 0, "b").Activity.ID)
}

func TestTemplateCmd_UnknownTemplate(t *testing.T) {
	h := testApp(t)
	h.seedBufferTrip(t)

	_, err := executeCmd(t, h.app, "template", bufferTripID, "leisurely")
	assert.ErrorContains(t, err, `unknown template "leisurely"`)
}

// --- reshuffle ---

func TestReportCmd_DelayThenUndo(t *testing.T) {
	h := testApp(t)
	h.seedBufferTrip(t)

	out, err := executeCmd(t, h.app, "report", "3f2a", "--delay", "20", "--now", "10:00")
	require.NoError(t, err)
	assert.Contains(t, out, "running late at 10:00")
	assert.Contains(t, out, "shorten activity")
	assert.Contains(t, out, "itinera undo undo-1")
	assert.Equal(t, "10:20", h.slot(t, 0, "a").ScheduledStart.String())

	out, err = executeCmd(t, h.app, "history", "3f2a")
	require.NoError(t, err)
	assert.Contains(t, out, "undo-1")

	out, err = executeCmd(t, h.app, "undo", "undo-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Restored day 1 from recent changes.")
	assert.Equal(t, "10:00", h.slot(t, 0, "a").ScheduledStart.String())

	_, err = executeCmd(t, h.app, "undo", "undo-1")
	assert.True(t, service.HasCode(err, service.ErrUndoFailed), "got %v", err)
}

func TestReportCmd_TriggerFlags(t *testing.T) {
	h := testApp(t)
	h.seedBufferTrip(t)

	_, err := executeCmd(t, h.app, "report", bufferTripID)
	require.Error(t, err, "one trigger flag is required")

	_, err = executeCmd(t, h.app, "report", bufferTripID, "--delay", "10", "--state", "sick")
	require.Error(t, err, "trigger flags are exclusive")

	_, err = executeCmd(t, h.app, "report", bufferTripID, "--state", "grumpy")
	assert.True(t, service.HasCode(err, service.ErrInvalidRequest), "got %v", err)

	_, err = executeCmd(t, h.app, "report", bufferTripID, "--delay", "10", "--now", "25:00")
	require.Error(t, err)
}

func TestReportCmd_NoActionHasNoToken(t *testing.T) {
	h := testApp(t)
	h.seedBufferTrip(t)

	out, err := executeCmd(t, h.app, "report", bufferTripID, "--state", "energized", "--now", "09:00")
	require.NoError(t, err)
	assert.Contains(t, out, "no action")
	assert.NotContains(t, out, "itinera undo")
}

// --- multi-day repairs ---

func TestDeferCmd(t *testing.T) {
	h := testApp(t)
	h.seedBufferTrip(t)

	_, err := executeCmd(t, h.app, "defer", bufferTripID, "b")
	require.Error(t, err, "--to is required")

	out, err := executeCmd(t, h.app, "defer", bufferTripID, "b", "--to", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "deferred")
	assert.Contains(t, out, "DAY 2")

	day0, err := h.days.Get(context.Background(), bufferTripID, 0)
	require.NoError(t, err)
	assert.Equal(t, -1, day0.SlotIndex("b"))
}

func TestEmergencyCmd_RejectsReversedRange(t *testing.T) {
	h := testApp(t)
	h.seedBufferTrip(t)

	_, err := executeCmd(t, h.app, "emergency", bufferTripID, "--from", "2", "--to", "1")
	assert.ErrorContains(t, err, "must not be before")
}

func TestEmergencyCmd_ClearsDay(t *testing.T) {
	h := testApp(t)
	h.seedBufferTrip(t)

	out, err := executeCmd(t, h.app, "emergency", bufferTripID, "--from", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "CHANGES")

	day0, err := h.days.Get(context.Background(), bufferTripID, 0)
	require.NoError(t, err)
	assert.Empty(t, day0.Slots)
}

func TestRebalanceCmd_NothingToMove(t *testing.T) {
	h := testApp(t)
	h.seedBufferTrip(t)

	out, err := executeCmd(t, h.app, "rebalance", bufferTripID)
	require.NoError(t, err)
	assert.Contains(t, out, "No changes.")
}

// --- root ---

func TestRootCmd_SetupRunsWithGlobalFlags(t *testing.T) {
	h := testApp(t)
	var got GlobalOptions
	h.app.Setup = func(opts GlobalOptions) error {
		got = opts
		return nil
	}

	_, err := executeCmd(t, h.app, "--config", "/tmp/c.toml", "--db", "/tmp/i.db", "trips")
	require.NoError(t, err)
	assert.Equal(t, GlobalOptions{ConfigPath: "/tmp/c.toml", DBPath: "/tmp/i.db"}, got)
}

func TestClockFlag(t *testing.T) {
	var c clockFlag
	assert.Equal(t, "", c.String())
	assert.Equal(t, "09:15", c.or(func() time.Time { return time.Date(2026, 5, 1, 9, 15, 0, 0, time.UTC) }).String())

	require.NoError(t, c.Set("14:30"))
	assert.Equal(t, "14:30", c.String())
	assert.Equal(t, "14:30", c.or(time.Now).String())
	assert.Error(t, c.Set("2pm"))
}
