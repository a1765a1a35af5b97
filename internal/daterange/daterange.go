// Package daterange computes the calendar windows used to filter todos and
// events: named ranges (day, week, month, year, all) and explicit from/to
// boundaries given as ISO date or date-time strings.
package daterange

import (
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/secondbrain/pkg/types"
)

// Range keywords accepted by Window.
const (
	RangeDay   = "day"
	RangeWeek  = "week"
	RangeMonth = "month"
	RangeYear  = "year"
	RangeAll   = "all"
)

// DateLayout is the date-only wire format.
const DateLayout = "2006-01-02"

// dateTimeLayouts are tried in order for boundaries that carry a time.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Window is the half-open interval [Start, End). The zero Window is
// unbounded and contains every instant.
type Window struct {
	Start time.Time
	End   time.Time
}

// Unbounded reports whether the window places no constraint.
func (w Window) Unbounded() bool { return w.Start.IsZero() && w.End.IsZero() }

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if w.Unbounded() {
		return true
	}
	return !t.Before(w.Start) && t.Before(w.End)
}

// Resolver computes windows relative to the current time in a location.
type Resolver struct {
	Now      func() time.Time
	Location *time.Location
}

// NewResolver returns a Resolver using the wall clock and the local zone.
func NewResolver() *Resolver {
	return &Resolver{Now: time.Now, Location: time.Local}
}

func (r *Resolver) now() time.Time {
	loc := r.Location
	if loc == nil {
		loc = time.Local
	}
	if r.Now == nil {
		return time.Now().In(loc)
	}
	return r.Now().In(loc)
}

// Window returns the calendar window named by keyword, relative to now. An
// empty keyword is treated as "all". Weeks start on Monday.
func (r *Resolver) Window(keyword string) (Window, error) {
	return WindowAt(keyword, r.now())
}

// WindowAt returns the calendar window named by keyword that contains now.
func WindowAt(keyword string, now time.Time) (Window, error) {
	today := StartOfDay(now)
	switch strings.ToLower(strings.TrimSpace(keyword)) {
	case RangeDay:
		return Window{Start: today, End: today.AddDate(0, 0, 1)}, nil
	case RangeWeek:
		// Go weekdays start on Sunday; shift so Monday is 0.
		back := (int(today.Weekday()) + 6) % 7
		start := today.AddDate(0, 0, -back)
		return Window{Start: start, End: start.AddDate(0, 0, 7)}, nil
	case RangeMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return Window{Start: start, End: start.AddDate(0, 1, 0)}, nil
	case RangeYear:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		return Window{Start: start, End: start.AddDate(1, 0, 0)}, nil
	case RangeAll, "":
		return Window{}, nil
	default:
		return Window{}, fmt.Errorf("range %q: %w", keyword, types.ErrInvalidRange)
	}
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseBoundary parses a from/to boundary. A date-only value used as an upper
// bound is expanded to the last microsecond of that day, so a filter from
// 2024-01-01 to 2024-01-01 covers the whole day.
func ParseBoundary(raw string, isEnd bool, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	raw = strings.TrimSpace(raw)
	if d, err := time.ParseInLocation(DateLayout, raw, loc); err == nil {
		if isEnd {
			return d.AddDate(0, 0, 1).Add(-time.Microsecond), nil
		}
		return d, nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("boundary %q: %w", raw, types.ErrInvalidDate)
}

// Filter combines a named window with optional inclusive from/to bounds.
type Filter struct {
	Window Window
	From   *time.Time
	To     *time.Time
}

// Filter builds a Filter from a range keyword and raw from/to values. Empty
// values are ignored.
func (r *Resolver) Filter(keyword, from, to string) (Filter, error) {
	w, err := r.Window(keyword)
	if err != nil {
		return Filter{}, err
	}
	f := Filter{Window: w}
	loc := r.Location
	if from != "" {
		t, err := ParseBoundary(from, false, loc)
		if err != nil {
			return Filter{}, err
		}
		f.From = &t
	}
	if to != "" {
		t, err := ParseBoundary(to, true, loc)
		if err != nil {
			return Filter{}, err
		}
		f.To = &t
	}
	return f, nil
}

// Match reports whether t satisfies the filter.
func (f Filter) Match(t time.Time) bool {
	if !f.Window.Contains(t) {
		return false
	}
	if f.From != nil && t.Before(*f.From) {
		return false
	}
	if f.To != nil && t.After(*f.To) {
		return false
	}
	return true
}
