package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alexanderramin/itinera/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newConcurrentTestDB creates a file-backed SQLite database in a temp directory.
// Unlike :memory:, a file-backed DB shares state across all connections in the
// pool, which is required to test real concurrent access with WAL mode.
func newConcurrentTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "concurrent_test.db")
	database, err := db.OpenDB(dbPath)
	require.NoError(t, err, "failed to create concurrent test database")
	t.Cleanup(func() { database.Close() })
	return database
}

// TestConcurrentAccess_ReadDuringDaySaves verifies that readers keep seeing a
// complete day while another goroutine rewrites it.
func TestConcurrentAccess_ReadDuringDaySaves(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()

	require.NoError(t, NewSQLiteTripRepo(database).Create(ctx, parisTrip("paris")))
	dayRepo := NewSQLiteDayScheduleRepo(database)

	day, err := dayRepo.Get(ctx, "paris", 1)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 40)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			next := day.Clone()
			next.Slots[0].Note = fmt.Sprintf("rev %d", i)
			if err := dayRepo.Save(ctx, "paris", next); err != nil {
				errs <- err
			}
		}
	}()

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := 0; r < 5; r++ {
				got, err := dayRepo.Get(ctx, "paris", 1)
				if err != nil {
					errs <- err
					continue
				}
				if len(got.Slots) != 1 {
					errs <- fmt.Errorf("partial day with %d slots", len(got.Slots))
				}
			}
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	final, err := dayRepo.Get(ctx, "paris", 1)
	require.NoError(t, err)
	assert.Equal(t, "rev 19", final.Slots[0].Note)
}
