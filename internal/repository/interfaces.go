package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/itinera/internal/domain"
)

// TripSummary is the list view of a stored trip without its days.
type TripSummary struct {
	ID        string
	Name      string
	StartDate string
	DayCount  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type TripRepo interface {
	// Create stores the trip row and all of its days.
	Create(ctx context.Context, t *domain.TripSchedule) error
	GetByID(ctx context.Context, id string) (*domain.TripSchedule, error)
	List(ctx context.Context) ([]TripSummary, error)
	Touch(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type DayScheduleRepo interface {
	Get(ctx context.Context, tripID string, dayIndex int) (*domain.DaySchedule, error)
	ListByTrip(ctx context.Context, tripID string) ([]domain.DaySchedule, error)
	// Save replaces the stored day with the same index.
	Save(ctx context.Context, tripID string, day domain.DaySchedule) error
}

type ReshuffleLogRepo interface {
	Create(ctx context.Context, r *domain.ReshuffleRecord) error
	GetByToken(ctx context.Context, token string) (*domain.ReshuffleRecord, error)
	// ListByTrip returns the newest records first. A limit <= 0 means all.
	ListByTrip(ctx context.Context, tripID string, limit int) ([]*domain.ReshuffleRecord, error)
	MarkUndone(ctx context.Context, token string, at time.Time) error
}
