package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/itinera/internal/timeutil"
	"github.com/spf13/pflag"
)

// resolveTripID accepts a full trip id or a unique id prefix, as shown
// by "itinera trips".
func resolveTripID(ctx context.Context, app *App, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("trip ID is required")
	}

	trips, err := app.Planner.ListTrips(ctx)
	if err != nil {
		return "", err
	}

	for _, t := range trips {
		if t.ID == input {
			return t.ID, nil
		}
	}

	var matches []string
	for _, t := range trips {
		if strings.HasPrefix(t.ID, input) {
			matches = append(matches, t.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("trip not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("trip ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// dayIndex converts a 1-based day number from the command line into the
// stored 0-based index.
func dayIndex(flag string, day int) (int, error) {
	if day < 1 {
		return 0, fmt.Errorf("--%s must be 1 or greater, got %d", flag, day)
	}
	return day - 1, nil
}

// clockFlag is a pflag.Value holding an optional "HH:MM" time of day.
type clockFlag struct {
	value timeutil.Clock
	set   bool
}

var _ pflag.Value = (*clockFlag)(nil)

func (c *clockFlag) String() string {
	if !c.set {
		return ""
	}
	return c.value.String()
}

func (c *clockFlag) Set(s string) error {
	v, err := timeutil.ParseClock(s)
	if err != nil {
		return err
	}
	c.value, c.set = v, true
	return nil
}

func (c *clockFlag) Type() string { return "HH:MM" }

// or returns the flag value, or the time of day of fallback when unset.
func (c *clockFlag) or(fallback func() time.Time) timeutil.Clock {
	if c.set {
		return c.value
	}
	return timeutil.Clock(timeutil.MinutesOfDay(fallback()))
}
