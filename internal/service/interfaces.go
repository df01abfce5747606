package service

import (
	"context"

	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/importer"
	"github.com/alexanderramin/itinera/internal/repository"
	"github.com/alexanderramin/itinera/internal/scheduler"
	"github.com/alexanderramin/itinera/internal/timeutil"
)

type PlannerService interface {
	PlanTrip(ctx context.Context, req PlanTripRequest) (*domain.TripSchedule, error)
	GetTrip(ctx context.Context, id string) (*domain.TripSchedule, error)
	ListTrips(ctx context.Context) ([]repository.TripSummary, error)
	GetDay(ctx context.Context, tripID string, dayIndex int) (*domain.DaySchedule, error)
	DeleteTrip(ctx context.Context, id string) error
}

type EditService interface {
	Lock(ctx context.Context, ref SlotRef) (*domain.DaySchedule, error)
	Unlock(ctx context.Context, ref SlotRef) (*domain.DaySchedule, error)
	Remove(ctx context.Context, ref SlotRef) (*domain.DaySchedule, error)
	// SwapAlternative promotes the n-th (0-based) alternative of the slot.
	SwapAlternative(ctx context.Context, ref SlotRef, n int) (*domain.DaySchedule, error)
	// ApplyTemplate rebuilds a day from a named template. A nil candidate
	// list reuses the day's own activities and alternatives.
	ApplyTemplate(ctx context.Context, tripID string, dayIndex int, name scheduler.TemplateName, candidates []domain.ScoredActivity) (*domain.DaySchedule, error)
}

type ReshuffleService interface {
	Report(ctx context.Context, req ReportRequest) (*domain.ReshuffleResult, error)
	Undo(ctx context.Context, token string) (*UndoResult, error)
	History(ctx context.Context, tripID string, limit int) ([]*domain.ReshuffleRecord, error)
	Defer(ctx context.Context, req DeferRequest) (*TripChangeResult, error)
	Rebalance(ctx context.Context, tripID string) (*TripChangeResult, error)
	EmergencyClear(ctx context.Context, tripID string, fromDay, toDay int) (*TripChangeResult, error)
}

// PlanTripRequest carries a loaded candidate pool and the planner defaults
// the pool may override.
type PlanTripRequest struct {
	Pool    *importer.PoolSchema
	Planner domain.PlannerConfig
}

type SlotRef struct {
	TripID   string
	DayIndex int
	SlotID   string
}

// ReportRequest describes a disruption on one day. Exactly one of
// Message, DelayMinutes or State must be set.
type ReportRequest struct {
	TripID       string
	DayIndex     int
	Message      string
	DelayMinutes int
	State        domain.UserState
	Now          timeutil.Clock
}

type UndoResult struct {
	Token    string
	TripID   string
	DayIndex int
	Schedule domain.DaySchedule
	// FromHistory is set when the in-memory ledger no longer held the
	// token and the durable history record was used.
	FromHistory bool
}

type DeferRequest struct {
	TripID  string
	FromDay int
	SlotID  string
	ToDay   int
}

// TripChangeResult is the outcome of a multi-day repair.
type TripChangeResult struct {
	Trip    domain.TripSchedule
	Changes []domain.ScheduleChange
}
