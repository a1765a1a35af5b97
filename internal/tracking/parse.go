package tracking

import (
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/secondbrain/internal/daterange"
	"github.com/mesh-intelligence/secondbrain/pkg/types"
)

const clockLayout = "15:04"

// parseDate parses a YYYY-MM-DD date at midnight in loc.
func parseDate(raw string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(daterange.DateLayout, strings.TrimSpace(raw), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", raw, types.ErrInvalidDate)
	}
	return d, nil
}

// parseClock validates an HH:MM wall-clock time and returns it normalised.
func parseClock(raw string) (string, error) {
	c, err := time.Parse(clockLayout, strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("time %q: %w", raw, types.ErrInvalidTime)
	}
	return c.Format(clockLayout), nil
}

// atClock places a normalised HH:MM clock on d's calendar day.
func atClock(d time.Time, clock string) time.Time {
	c, _ := time.Parse(clockLayout, clock)
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), 0, 0, d.Location())
}

// parseStart combines a date (or full date-time) with an optional HH:MM
// clock. A date-only value needs a clock unless the span is all-day.
func parseStart(date, clock string, allDay bool, loc *time.Location) (time.Time, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Time{}, fmt.Errorf("start date is required: %w", types.ErrInvalidDate)
	}
	start, err := daterange.ParseBoundary(date, false, loc)
	if err != nil {
		return time.Time{}, err
	}
	dateOnly := len(date) == len(daterange.DateLayout)
	if strings.TrimSpace(clock) != "" {
		c, err := parseClock(clock)
		if err != nil {
			return time.Time{}, err
		}
		return atClock(start, c), nil
	}
	if dateOnly && !allDay {
		return time.Time{}, fmt.Errorf("start time is required: %w", types.ErrInvalidTime)
	}
	return start, nil
}
