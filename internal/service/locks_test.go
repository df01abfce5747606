package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTripLocks_SerializesPerTrip(t *testing.T) {
	locks := NewTripLocks()
	var wg sync.WaitGroup
	inside := 0
	maxInside := 0
	var mu sync.Mutex

	for n := 0; n < 20; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("paris")
			defer unlock()

			mu.Lock()
			inside++
			maxInside = max(maxInside, inside)
			mu.Unlock()

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInside, "only one writer per trip at a time")
	assert.Zero(t, locks.held("paris"), "released locks are forgotten")
}

func TestTripLocks_IndependentTrips(t *testing.T) {
	locks := NewTripLocks()

	unlockParis := locks.Lock("paris")
	done := make(chan struct{})
	go func() {
		unlockRome := locks.Lock("rome")
		unlockRome()
		close(done)
	}()
	<-done

	assert.Equal(t, 1, locks.held("paris"))
	unlockParis()
	assert.Zero(t, locks.held("paris"))
}
