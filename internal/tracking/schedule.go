package tracking

import (
	"time"

	"github.com/mesh-intelligence/secondbrain/pkg/types"
)

// EndOfDay returns 23:59:59.999 of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// DeriveSpan normalises an event's start and end. All-day spans run from
// midnight to EndOfDay; an explicit duration places the end that many minutes
// after start; otherwise the existing end is kept, defaulting to one hour
// after start when there is none or it precedes start.
func DeriveSpan(start time.Time, explicit *int, allDay bool, existingEnd *time.Time) types.Span {
	if allDay {
		day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
		end := EndOfDay(start)
		return types.Span{Start: day, End: &end, AllDay: true}
	}
	if explicit != nil && *explicit > 0 {
		end := start.Add(time.Duration(*explicit) * time.Minute)
		return types.Span{Start: start, End: &end}
	}
	if existingEnd != nil && !existingEnd.Before(start) {
		end := *existingEnd
		return types.Span{Start: start, End: &end}
	}
	end := start.Add(DefaultSpanMinutes * time.Minute)
	return types.Span{Start: start, End: &end}
}
