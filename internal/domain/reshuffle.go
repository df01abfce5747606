package domain

import (
	"time"

	"github.com/alexanderramin/itinera/internal/timeutil"
)

// ActivityFlexibility is the repair policy resolved for a single activity.
type ActivityFlexibility struct {
	CanShorten        bool `json:"can_shorten"`
	MaxShortenPercent int  `json:"max_shorten_pct"`
	CanSkip           bool `json:"can_skip"`
	SkipPriority      int  `json:"skip_priority"`
	CanDefer          bool `json:"can_defer"`
	DeferDays         int  `json:"defer_days"`
	HasBooking        bool `json:"has_booking"`
}

type TriggerContext struct {
	DelayMinutes int            `json:"delay_min,omitempty"`
	UserState    UserState      `json:"user_state,omitempty"`
	CurrentTime  timeutil.Clock `json:"current_time"`
	Venue        string         `json:"venue,omitempty"`
	Message      string         `json:"message,omitempty"`
}

// TriggerEvent is an immutable record of a detected disruption.
type TriggerEvent struct {
	ID              string          `json:"id"`
	Type            TriggerType     `json:"type"`
	Severity        TriggerSeverity `json:"severity"`
	DetectedAt      time.Time       `json:"detected_at"`
	Source          TriggerSource   `json:"source"`
	Context         TriggerContext  `json:"context"`
	AffectedSlotIDs []string        `json:"affected_slot_ids"`
}

type RecoveryOption struct {
	Action           RecoveryAction `json:"action"`
	TimeSavedMinutes int            `json:"time_saved_min"`
}

type AffectedActivity struct {
	SlotID          string           `json:"slot_id"`
	ImpactType      ImpactType       `json:"impact_type"`
	Severity        int              `json:"severity"`
	CumulativeDelay int              `json:"cumulative_delay_min"`
	RecoveryOptions []RecoveryOption `json:"recovery_options,omitempty"`
}

type AtRiskBooking struct {
	SlotID        string      `json:"slot_id"`
	Risk          BookingRisk `json:"risk"`
	BufferMinutes int         `json:"buffer_min"`
}

// ImpactAnalysis is the computed consequence of a trigger on one day.
type ImpactAnalysis struct {
	TriggerID          string             `json:"trigger_id"`
	AffectedActivities []AffectedActivity `json:"affected_activities"`
	BookingsAtRisk     []AtRiskBooking    `json:"bookings_at_risk"`
	CascadeEffect      CascadeEffect      `json:"cascade_effect"`
	Urgency            Urgency            `json:"urgency"`
	TotalDelayMinutes  int                `json:"total_delay_min"`
	CanAutoResolve     bool               `json:"can_auto_resolve"`
}

// HasEndangeredBooking reports whether any booking is at_risk or will_miss.
func (a ImpactAnalysis) HasEndangeredBooking() bool {
	for _, b := range a.BookingsAtRisk {
		if b.Risk.Endangered() {
			return true
		}
	}
	return false
}

// ScheduleChange records one slot before and after a mutation.
// After is nil when the slot left the day.
type ScheduleChange struct {
	Type        ChangeType         `json:"type"`
	SlotID      string             `json:"slot_id"`
	Before      *ScheduledActivity `json:"before,omitempty"`
	After       *ScheduledActivity `json:"after,omitempty"`
	Description string             `json:"description"`
}

type ReshuffleResult struct {
	Success           bool                `json:"success"`
	Error             string              `json:"error,omitempty"`
	Trigger           TriggerEvent        `json:"trigger"`
	Impact            ImpactAnalysis      `json:"impact"`
	Strategy          ReshuffleStrategy   `json:"strategy"`
	Escalations       []ReshuffleStrategy `json:"escalations,omitempty"`
	Changes           []ScheduleChange    `json:"changes"`
	Explanation       string              `json:"explanation"`
	TimeSavedMinutes  int                 `json:"time_saved_min"`
	BookingsProtected int                 `json:"bookings_protected"`
	UndoToken         string              `json:"undo_token,omitempty"`
	Schedule          DaySchedule         `json:"schedule"`
}

// ReshuffleRecord is the durable history entry of one applied reshuffle.
type ReshuffleRecord struct {
	Token     string            `json:"token"`
	TripID    string            `json:"trip_id"`
	DayIndex  int               `json:"day_index"`
	Trigger   TriggerEvent      `json:"trigger"`
	Strategy  ReshuffleStrategy `json:"strategy"`
	Changes   []ScheduleChange  `json:"changes"`
	Previous  DaySchedule       `json:"previous"`
	Next      DaySchedule       `json:"next"`
	CreatedAt time.Time         `json:"created_at"`
	UndoneAt  *time.Time        `json:"undone_at,omitempty"`
}
