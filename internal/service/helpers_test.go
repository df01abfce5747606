package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/itinera/internal/db"
	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/importer"
	"github.com/alexanderramin/itinera/internal/repository"
	"github.com/alexanderramin/itinera/internal/reshuffle"
	"github.com/alexanderramin/itinera/internal/scheduler"
	"github.com/alexanderramin/itinera/internal/testutil"
	"github.com/alexanderramin/itinera/internal/timeutil"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)

func clock(s string) timeutil.Clock { return timeutil.MustClock(s) }

func sequence(prefix string) func() string {
	n := 0
	var mu sync.Mutex
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

type testEnv struct {
	db        *sql.DB
	trips     *repository.SQLiteTripRepo
	days      *repository.SQLiteDayScheduleRepo
	logs      *repository.SQLiteReshuffleLogRepo
	locks     *TripLocks
	obs       *recordingObserver
	planner   PlannerService
	edits     EditService
	reshuffle ReshuffleService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, testutil.NewTestDB(t), nil, reshuffle.DefaultConfig())
}

// newTestEnvWith builds every service over database. A nil uow uses a
// plain SQLite unit of work.
func newTestEnvWith(t *testing.T, database *sql.DB, uow db.UnitOfWork, cfg reshuffle.Config) *testEnv {
	t.Helper()
	if uow == nil {
		uow = testutil.NewTestUoW(database)
	}
	env := &testEnv{
		db:    database,
		trips: repository.NewSQLiteTripRepo(database),
		days:  repository.NewSQLiteDayScheduleRepo(database),
		logs:  repository.NewSQLiteReshuffleLogRepo(database),
		locks: NewTripLocks(),
		obs:   &recordingObserver{},
	}
	env.planner = NewPlannerService(env.trips, env.days, uow, env.locks, env.obs)
	env.edits = NewEditService(env.trips, uow, env.locks, env.obs)
	env.reshuffle = newTestReshuffle(env, uow, cfg)
	return env
}

// newTestReshuffle returns a fresh reshuffle service over env's store, as
// after a process restart.
func newTestReshuffle(env *testEnv, uow db.UnitOfWork, cfg reshuffle.Config) ReshuffleService {
	return NewReshuffleService(ReshuffleDeps{
		Trips:  env.trips,
		Logs:   env.logs,
		UoW:    uow,
		Locks:  env.locks,
		Config: cfg,
		Now:    func() time.Time { return fixedTime },
		EngineOptions: []reshuffle.ServiceOption{
			reshuffle.WithTokenGenerator(sequence("undo")),
			reshuffle.WithDetector(reshuffle.NewDetector(
				reshuffle.WithClock(func() time.Time { return fixedTime }),
				reshuffle.WithIDGenerator(sequence("trg")),
			)),
		},
	}, env.obs)
}

func finalizedTrip(id string, days ...domain.DaySchedule) *domain.TripSchedule {
	trip := testutil.NewTestTrip(id, days...)
	for i := range trip.Days {
		trip.Days[i] = scheduler.Finalize(trip.Days[i], trip.Config)
	}
	return trip
}

func seedTrip(t *testing.T, env *testEnv, trip *domain.TripSchedule) {
	t.Helper()
	require.NoError(t, env.trips.Create(context.Background(), trip))
}

// bufferTrip has two museums 8 minutes apart on day 1 and one on day 2.
func bufferTrip() *domain.TripSchedule {
	return finalizedTrip("paris",
		testutil.NewTestDay(0,
			testutil.NewTestSlot("a", testutil.NewTestActivity("orangerie"), "10:00"),
			testutil.NewTestSlot("b", testutil.NewTestActivity("rodin"), "11:08",
				testutil.WithAlternatives(testutil.NewTestActivity("cluny", testutil.WithDuration(45)))),
		),
		testutil.NewTestDay(1,
			testutil.NewTestSlot("c", testutil.NewTestActivity("pompidou"), "10:00"),
		),
	)
}

func storedSlot(t *testing.T, env *testEnv, tripID string, dayIndex int, slotID string) domain.ScheduledActivity {
	t.Helper()
	day, err := env.days.Get(context.Background(), tripID, dayIndex)
	require.NoError(t, err)
	i := day.SlotIndex(slotID)
	require.GreaterOrEqual(t, i, 0, "slot %s missing from day %d", slotID, dayIndex)
	return day.Slots[i]
}

func slotIDs(day domain.DaySchedule) []string {
	out := make([]string, 0, len(day.Slots))
	for _, s := range day.Slots {
		out = append(out, s.ID)
	}
	return out
}

func samplePool() *importer.PoolSchema {
	return &importer.PoolSchema{
		Trip: importer.TripImport{Name: "Paris", StartDate: "2026-05-01", Days: 2, DayTypes: []string{"full", "departure"}},
		Activities: []importer.ActivityImport{
			{ID: "louvre", Name: "Louvre", Category: "museum", Neighborhood: "1er", Lat: 48.8606, Lng: 2.3376, DurationMin: 150, Score: 95},
			{ID: "orsay", Name: "Musée d'Orsay", Category: "museum", Neighborhood: "7e", Lat: 48.8600, Lng: 2.3266, DurationMin: 120, Score: 90},
			{ID: "tuileries", Name: "Tuileries", Category: "park", Neighborhood: "1er", Lat: 48.8635, Lng: 2.3275, DurationMin: 60, Outdoor: true, Score: 70},
			{ID: "sainte-chapelle", Name: "Sainte-Chapelle", Category: "landmark", Neighborhood: "4e", Lat: 48.8554, Lng: 2.3450, DurationMin: 45, Score: 85},
			{ID: "marais", Name: "Marais walk", Category: "tour", Neighborhood: "Marais", Lat: 48.8590, Lng: 2.3620, DurationMin: 90, Score: 65},
			{ID: "cafe-flore", Name: "Café de Flore", Category: "restaurant", Neighborhood: "6e", Lat: 48.8541, Lng: 2.3326, DurationMin: 45, Restaurant: true, Meals: []string{"breakfast", "lunch"}, Score: 75},
			{ID: "janou", Name: "Chez Janou", Category: "restaurant", Neighborhood: "Marais", Lat: 48.8573, Lng: 2.3680, DurationMin: 75, Restaurant: true, Meals: []string{"lunch", "dinner"}, Score: 80},
			{ID: "bouillon", Name: "Bouillon Chartier", Category: "restaurant", Neighborhood: "9e", Lat: 48.8720, Lng: 2.3430, DurationMin: 60, Restaurant: true, Meals: []string{"lunch", "dinner"}, Score: 72},
		},
	}
}
