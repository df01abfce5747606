package reshuffle

import (
	"strings"

	"github.com/alexanderramin/itinera/internal/domain"
)

// CategoryFlex is the repair policy for one activity category. A lower
// SkipPriority means the activity is dropped sooner. DeferDays of zero
// falls back to Config.DefaultDeferDays.
type CategoryFlex struct {
	CanShorten        bool `toml:"can_shorten" json:"can_shorten"`
	MaxShortenPercent int  `toml:"max_shorten_pct" json:"max_shorten_pct"`
	CanSkip           bool `toml:"can_skip" json:"can_skip"`
	SkipPriority      int  `toml:"skip_priority" json:"skip_priority"`
	CanDefer          bool `toml:"can_defer" json:"can_defer"`
	DeferDays         int  `toml:"defer_days" json:"defer_days"`
}

// Policy maps lower-case categories to their flexibility. The "default"
// entry covers categories without their own row.
type Policy map[string]CategoryFlex

const defaultCategory = "default"

func DefaultPolicy() Policy {
	return Policy{
		"museum":     {CanShorten: true, MaxShortenPercent: 30, CanSkip: true, SkipPriority: 3, CanDefer: true},
		"landmark":   {CanShorten: true, MaxShortenPercent: 30, CanSkip: true, SkipPriority: 4, CanDefer: true},
		"park":       {CanShorten: true, MaxShortenPercent: 50, CanSkip: true, SkipPriority: 1, CanDefer: true},
		"nature":     {CanShorten: true, MaxShortenPercent: 40, CanSkip: true, SkipPriority: 2, CanDefer: true},
		"shopping":   {CanShorten: true, MaxShortenPercent: 50, CanSkip: true, SkipPriority: 1, CanDefer: true},
		"market":     {CanShorten: true, MaxShortenPercent: 40, CanSkip: true, SkipPriority: 2, CanDefer: true},
		"food":       {CanShorten: true, MaxShortenPercent: 30, CanSkip: true, SkipPriority: 3, CanDefer: true},
		"restaurant": {CanShorten: true, MaxShortenPercent: 25, CanSkip: true, SkipPriority: 5},
		"tour":       {CanSkip: true, SkipPriority: 6, CanDefer: true},
		"show":       {CanSkip: true, SkipPriority: 7},
		"nightlife":  {CanShorten: true, MaxShortenPercent: 40, CanSkip: true, SkipPriority: 2},
		"spa":        {CanShorten: true, MaxShortenPercent: 30, CanSkip: true, SkipPriority: 4, CanDefer: true},
		"default":    {CanShorten: true, MaxShortenPercent: 30, CanSkip: true, SkipPriority: 5, CanDefer: true},
	}
}

func (p Policy) lookup(category string) CategoryFlex {
	if f, ok := p[strings.ToLower(category)]; ok {
		return f
	}
	if f, ok := p[defaultCategory]; ok {
		return f
	}
	return DefaultPolicy()[defaultCategory]
}

// FlexibilityOf resolves the policy for a scheduled slot. Locked slots and
// activities with a firm booking can never be shortened, skipped or deferred.
func (c Config) FlexibilityOf(s domain.ScheduledActivity) domain.ActivityFlexibility {
	f := c.policy().lookup(s.Activity.Category)
	deferDays := f.DeferDays
	if deferDays <= 0 {
		deferDays = c.DefaultDeferDays
	}
	flex := domain.ActivityFlexibility{
		CanShorten:        f.CanShorten && f.MaxShortenPercent > 0,
		MaxShortenPercent: f.MaxShortenPercent,
		CanSkip:           f.CanSkip,
		SkipPriority:      f.SkipPriority,
		CanDefer:          f.CanDefer,
		DeferDays:         deferDays,
		HasBooking:        s.Activity.HasFirmBooking(),
	}
	if s.IsLocked || flex.HasBooking {
		flex.CanShorten = false
		flex.CanSkip = false
		flex.CanDefer = false
	}
	return flex
}

// shortenFloor is the shortest s may become: its base duration less the
// category's maximum shorten percentage, rounded up.
func (c Config) shortenFloor(s domain.ScheduledActivity) int {
	flex := c.FlexibilityOf(s)
	if !flex.CanShorten {
		return s.ActualDuration
	}
	return (s.BaseDuration()*(100-flex.MaxShortenPercent) + 99) / 100
}

// maxShortenMinutes is the largest reduction still allowed for s. Earlier
// shortening counts against it.
func (c Config) maxShortenMinutes(s domain.ScheduledActivity) int {
	return max(s.ActualDuration-c.shortenFloor(s), 0)
}
