package reshuffle

import (
	"fmt"

	"github.com/alexanderramin/itinera/internal/domain"
)

// Config tunes trigger handling and repair. All durations are minutes.
type Config struct {
	// SilentBufferMin is the delay that is absorbed without bothering the traveler.
	SilentBufferMin int `toml:"silent_buffer_min"`
	// MinBookingBufferMin is the slack a protected booking needs to count as safe.
	MinBookingBufferMin int `toml:"min_booking_buffer_min"`
	// CompressFloorMin is the idle time compression always leaves between activities.
	CompressFloorMin int `toml:"compress_floor_min"`
	// AbsorbFloorMin is the idle time impact analysis assumes is not spendable.
	AbsorbFloorMin      int `toml:"absorb_floor_min"`
	MaxUndoHistory      int `toml:"max_undo_history"`
	MaxActivitiesPerDay int `toml:"max_activities_per_day"`
	DefaultDeferDays    int `toml:"default_defer_days"`

	Flexibility Policy               `toml:"flexibility"`
	Planner     domain.PlannerConfig `toml:"-"`
}

func DefaultConfig() Config {
	return Config{
		SilentBufferMin:     10,
		MinBookingBufferMin: 15,
		CompressFloorMin:    5,
		AbsorbFloorMin:      10,
		MaxUndoHistory:      20,
		MaxActivitiesPerDay: 6,
		DefaultDeferDays:    2,
		Flexibility:         DefaultPolicy(),
		Planner:             domain.DefaultPlannerConfig(),
	}
}

func (c Config) policy() Policy {
	if len(c.Flexibility) == 0 {
		return DefaultPolicy()
	}
	return c.Flexibility
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	checks := []struct {
		name string
		v    int
		min  int
	}{
		{"silent_buffer_min", c.SilentBufferMin, 0},
		{"min_booking_buffer_min", c.MinBookingBufferMin, 0},
		{"compress_floor_min", c.CompressFloorMin, 0},
		{"absorb_floor_min", c.AbsorbFloorMin, 0},
		{"max_undo_history", c.MaxUndoHistory, 1},
		{"max_activities_per_day", c.MaxActivitiesPerDay, 1},
		{"default_defer_days", c.DefaultDeferDays, 0},
	}
	for _, ch := range checks {
		if ch.v < ch.min {
			return fmt.Errorf("reshuffle.%s must be >= %d, got %d", ch.name, ch.min, ch.v)
		}
	}
	for cat, f := range c.Flexibility {
		if f.MaxShortenPercent < 0 || f.MaxShortenPercent > 100 {
			return fmt.Errorf("reshuffle.flexibility.%s.max_shorten_pct must be within 0..100, got %d", cat, f.MaxShortenPercent)
		}
		if f.DeferDays < 0 {
			return fmt.Errorf("reshuffle.flexibility.%s.defer_days must be >= 0, got %d", cat, f.DeferDays)
		}
	}
	return nil
}
