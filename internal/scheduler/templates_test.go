package scheduler

import (
	"testing"

	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/timeutil"
	"github.com/stretchr/testify/assert"
)

func slotNames(slots []domain.TimeSlot) []string {
	names := make([]string, len(slots))
	for i, s := range slots {
		names[i] = s.Name
	}
	return names
}

func fullDayRequest(pace domain.PaceMode, mode domain.TripMode) SlotRequest {
	return SlotRequest{
		Pace:     pace,
		DayType:  domain.DayFull,
		DayStart: timeutil.MustClock("07:00"),
		DayEnd:   timeutil.MustClock("23:30"),
		TripMode: mode,
	}
}

func TestTemplateFor(t *testing.T) {
	tests := []struct {
		dayType domain.DayType
		pace    domain.PaceMode
		want    TemplateName
		ok      bool
	}{
		{domain.DayFull, domain.PaceRelaxed, TemplateRelaxed, true},
		{domain.DayFull, domain.PaceNormal, TemplateStandard, true},
		{domain.DayFull, domain.PaceAmbitious, TemplatePacked, true},
		{domain.DayFull, "", TemplateStandard, true},
		{domain.DayArrival, domain.PaceAmbitious, TemplateArrival, true},
		{domain.DayDeparture, domain.PaceRelaxed, TemplateDeparture, true},
		{domain.DayTravel, domain.PaceNormal, "", false},
	}
	for _, tt := range tests {
		got, ok := TemplateFor(tt.dayType, tt.pace)
		assert.Equal(t, tt.want, got, "%s/%s", tt.dayType, tt.pace)
		assert.Equal(t, tt.ok, ok)
	}
}

func TestTemplateSlots_AreChronologicalWithDurations(t *testing.T) {
	for name := range ValidTemplates {
		slots := TemplateSlots(name)
		assert.NotEmpty(t, slots, name)
		for i, s := range slots {
			assert.Equal(t, s.EndTime.Sub(s.StartTime), s.DurationMinutes, "%s/%s", name, s.Name)
			if i > 0 {
				assert.LessOrEqual(t, slots[i-1].EndTime, s.StartTime, "%s/%s", name, s.Name)
			}
		}
	}
	assert.Nil(t, TemplateSlots("brunch"))
}

func TestSelectSlots_TravelDayIsEmpty(t *testing.T) {
	req := fullDayRequest(domain.PaceNormal, domain.TripSolo)
	req.DayType = domain.DayTravel
	slots := SelectSlots(req)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestSelectSlots_ClipsToDayWindow(t *testing.T) {
	req := fullDayRequest(domain.PaceNormal, domain.TripSolo)
	req.DayStart = timeutil.MustClock("09:00")
	req.DayEnd = timeutil.MustClock("21:00")

	assert.Equal(t, []string{"morning", "lunch", "afternoon", "dinner"}, slotNames(SelectSlots(req)))
}

func TestSelectSlots_TripModeAdjustments(t *testing.T) {
	tests := []struct {
		mode domain.TripMode
		want []string
	}{
		{domain.TripSolo, []string{"breakfast", "morning", "lunch", "afternoon", "dinner", "evening"}},
		{domain.TripFriends, []string{"breakfast", "morning", "lunch", "afternoon", "dinner", "evening"}},
		{domain.TripFamily, []string{"breakfast", "morning", "lunch", "afternoon", "dinner"}},
		{domain.TripMultiGenerational, []string{"breakfast", "morning", "lunch", "afternoon", "dinner"}},
		{domain.TripHoneymoon, []string{"lunch", "afternoon", "dinner"}},
		{domain.TripBabymoon, []string{"lunch", "afternoon", "dinner"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			got := SelectSlots(fullDayRequest(domain.PaceNormal, tt.mode))
			assert.Equal(t, tt.want, slotNames(got))
		})
	}
}

func TestSelectSlots_RomanticDropsOnlyTrailingEvening(t *testing.T) {
	got := SelectSlots(fullDayRequest(domain.PaceRelaxed, domain.TripHoneymoon))
	// relaxed ends with dinner (evening) which is the final evening slot
	assert.Equal(t, []string{"morning", "lunch", "afternoon"}, slotNames(got))
}

func TestSelectSlots_ReturnsFreshCopies(t *testing.T) {
	a := SelectSlots(fullDayRequest(domain.PaceNormal, domain.TripSolo))
	a[0].Name = "mutated"
	b := SelectSlots(fullDayRequest(domain.PaceNormal, domain.TripSolo))
	assert.Equal(t, "breakfast", b[0].Name)
}
