package reshuffle

import (
	"sync"
	"time"

	"github.com/alexanderramin/itinera/internal/domain"
)

// LedgerEntry is everything needed to reverse one applied reshuffle.
type LedgerEntry struct {
	Token     string                   `json:"token"`
	Trigger   domain.TriggerEvent      `json:"trigger"`
	Strategy  domain.ReshuffleStrategy `json:"strategy"`
	Changes   []domain.ScheduleChange  `json:"changes"`
	Previous  domain.DaySchedule       `json:"previous"`
	Next      domain.DaySchedule       `json:"next"`
	CreatedAt time.Time                `json:"created_at"`
	UndoneAt  *time.Time               `json:"undone_at,omitempty"`
}

// Ledger is a bounded FIFO of undo entries keyed by token. Adding beyond
// capacity evicts the oldest entry. Entries leave only by eviction or by
// being taken for an undo.
type Ledger struct {
	mu       sync.Mutex
	capacity int
	order    []string
	entries  map[string]LedgerEntry
}

func NewLedger(capacity int) *Ledger {
	return &Ledger{
		capacity: max(capacity, 1),
		entries:  make(map[string]LedgerEntry),
	}
}

// Put stores e and returns the token evicted to make room, if any.
func (l *Ledger) Put(e LedgerEntry) (evicted string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.entries[e.Token]; !ok {
		l.order = append(l.order, e.Token)
	}
	l.entries[e.Token] = e
	if len(l.order) > l.capacity {
		evicted = l.order[0]
		l.order = l.order[1:]
		delete(l.entries, evicted)
	}
	return evicted
}

func (l *Ledger) Get(token string) (LedgerEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[token]
	return e, ok
}

// Take removes and returns the entry for token.
func (l *Ledger) Take(token string) (LedgerEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[token]
	if !ok {
		return LedgerEntry{}, false
	}
	delete(l.entries, token)
	for i, t := range l.order {
		if t == token {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return e, true
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.order)
}

// Tokens returns the stored tokens, oldest first.
func (l *Ledger) Tokens() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.order...)
}
