package reshuffle

import (
	"testing"

	"github.com/alexanderramin/itinera/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestFlexibility_CategoryLookup(t *testing.T) {
	cfg := DefaultConfig()

	park := cfg.FlexibilityOf(testutil.NewTestSlot("p", testutil.NewTestActivity("p", testutil.WithCategory("Park")), "10:00"))
	assert.True(t, park.CanShorten)
	assert.Equal(t, 50, park.MaxShortenPercent)
	assert.Equal(t, 1, park.SkipPriority)
	assert.Equal(t, cfg.DefaultDeferDays, park.DeferDays)

	unknown := cfg.FlexibilityOf(testutil.NewTestSlot("u", testutil.NewTestActivity("u", testutil.WithCategory("escape-room")), "10:00"))
	assert.Equal(t, DefaultPolicy()["default"].SkipPriority, unknown.SkipPriority)

	show := cfg.FlexibilityOf(testutil.NewTestSlot("s", testutil.NewTestActivity("s", testutil.WithCategory("show")), "10:00"))
	assert.False(t, show.CanShorten)
	assert.False(t, show.CanDefer)
}

func TestFlexibility_ProtectedSlots(t *testing.T) {
	cfg := DefaultConfig()
	slots := map[string]bool{
		"locked": true,
		"booked": false,
	}
	for name, locked := range slots {
		t.Run(name, func(t *testing.T) {
			var opts []testutil.ActivityOption
			if !locked {
				opts = append(opts, testutil.WithConfirmedBooking("ABC123"))
			}
			s := testutil.NewTestSlot(name, testutil.NewTestActivity(name, opts...), "10:00")
			s.IsLocked = locked

			f := cfg.FlexibilityOf(s)
			assert.False(t, f.CanShorten)
			assert.False(t, f.CanSkip)
			assert.False(t, f.CanDefer)
			assert.Zero(t, cfg.maxShortenMinutes(s))
		})
	}
}

func TestFlexibility_CustomPolicy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Flexibility = Policy{"museum": {CanShorten: true, MaxShortenPercent: 10, CanDefer: true, DeferDays: 4}}
	s := testutil.NewTestSlot("m", testutil.NewTestActivity("m", testutil.WithDuration(120)), "10:00")

	assert.Equal(t, 12, cfg.maxShortenMinutes(s))
	assert.Equal(t, 4, cfg.FlexibilityOf(s).DeferDays)
	assert.False(t, cfg.FlexibilityOf(s).CanSkip)

	park := testutil.NewTestSlot("p", testutil.NewTestActivity("p", testutil.WithCategory("park")), "10:00")
	assert.Equal(t, DefaultPolicy()["default"].MaxShortenPercent, cfg.FlexibilityOf(park).MaxShortenPercent)
}
