package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay is the end-of-day sentinel accepted as "24:00".
const MinutesPerDay = 24 * 60

// ParseHHMM converts an "HH:MM" string into minutes since midnight.
// "24:00" is accepted and maps to MinutesPerDay.
func ParseHHMM(s string) (int, error) {
	s = strings.TrimSpace(s)
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(mm) != 2 || len(hh) == 0 || len(hh) > 2 {
		return 0, fmt.Errorf("invalid time %q (expected HH:MM)", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	if h == 24 && m == 0 {
		return MinutesPerDay, nil
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return h*60 + m, nil
}

// MustParseHHMM is ParseHHMM for compile-time constants. It panics on bad input.
func MustParseHHMM(s string) int {
	v, err := ParseHHMM(s)
	if err != nil {
		panic(err)
	}
	return v
}

// FormatHHMM renders minutes since midnight as "HH:MM", clamped to [00:00, 24:00].
func FormatHHMM(min int) string {
	if min < 0 {
		min = 0
	}
	if min > MinutesPerDay {
		min = MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// ParseLocalDate parses a YYYY-MM-DD date in the local time zone.
func ParseLocalDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// MinutesOfDay returns the minutes since local midnight of t.
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
