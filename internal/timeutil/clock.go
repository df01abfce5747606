package timeutil

import (
	"fmt"
	"strconv"
	"strings"
)

// Clock is a wall-clock time of day in minutes since midnight.
// It marshals as "HH:MM" in every text-based encoding. Repairs can push a
// slot past midnight or before it, so the text form is not clamped:
// 1500 marshals as "25:00" and -30 as "-00:30".
type Clock int

// ParseClock parses an "HH:MM" string into a Clock.
func ParseClock(s string) (Clock, error) {
	v, err := ParseHHMM(s)
	if err != nil {
		return 0, err
	}
	return Clock(v), nil
}

// MustClock parses s or panics. Intended for fixed templates and tests.
func MustClock(s string) Clock {
	return Clock(MustParseHHMM(s))
}

// Add returns the clock shifted by min minutes.
func (c Clock) Add(min int) Clock { return c + Clock(min) }

// Sub returns c - o in minutes.
func (c Clock) Sub(o Clock) int { return int(c - o) }

// Minutes returns the raw minute count.
func (c Clock) Minutes() int { return int(c) }

func (c Clock) String() string { return FormatHHMM(int(c)) }

func (c Clock) MarshalText() ([]byte, error) {
	m := int(c)
	sign := ""
	if m < 0 {
		sign, m = "-", -m
	}
	return fmt.Appendf(nil, "%s%02d:%02d", sign, m/60, m%60), nil
}

func (c *Clock) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	neg := strings.HasPrefix(s, "-")
	hh, mm, ok := strings.Cut(strings.TrimPrefix(s, "-"), ":")
	if !ok || len(mm) != 2 || len(hh) == 0 {
		return fmt.Errorf("invalid time %q (expected HH:MM)", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 {
		return fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return fmt.Errorf("invalid minute in %q", s)
	}
	v := h*60 + m
	if neg {
		v = -v
	}
	*c = Clock(v)
	return nil
}
