package service

import "sync"

// TripLocks serializes writers per itinerary id. Services that write the
// same store must share one instance.
type TripLocks struct {
	mu    sync.Mutex
	locks map[string]*tripLock
}

type tripLock struct {
	mu   sync.Mutex
	refs int
}

func NewTripLocks() *TripLocks {
	return &TripLocks{locks: make(map[string]*tripLock)}
}

// Lock blocks until the caller owns tripID and returns the release func.
func (l *TripLocks) Lock(tripID string) (unlock func()) {
	l.mu.Lock()
	tl, ok := l.locks[tripID]
	if !ok {
		tl = &tripLock{}
		l.locks[tripID] = tl
	}
	tl.refs++
	l.mu.Unlock()

	tl.mu.Lock()
	return func() {
		tl.mu.Unlock()
		l.mu.Lock()
		tl.refs--
		if tl.refs == 0 {
			delete(l.locks, tripID)
		}
		l.mu.Unlock()
	}
}

// held reports how many callers hold or wait on tripID.
func (l *TripLocks) held(tripID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if tl, ok := l.locks[tripID]; ok {
		return tl.refs
	}
	return 0
}

func locksOrNew(l *TripLocks) *TripLocks {
	if l == nil {
		return NewTripLocks()
	}
	return l
}
