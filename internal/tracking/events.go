package tracking

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/mesh-intelligence/secondbrain/internal/daterange"
	"github.com/mesh-intelligence/secondbrain/pkg/types"
)

// NewEvent holds the fields for CreateEvent. Date is YYYY-MM-DD or a full
// date-time, Time is HH:MM and End is an optional explicit end. Duration
// wins over End when both are given.
type NewEvent struct {
	ContextID         string
	Title             string
	Description       string
	Date              string
	Time              string
	End               string
	AllDay            bool
	DurationHours     string
	Completed         bool
	Tags              []string
	Recurring         bool
	RecurrenceType    string
	RecurrenceEndDate string
}

// EventUpdate holds the fields for UpdateEvent. Nil fields are left alone.
// Unparseable Date, Time and End values are ignored with a warning.
type EventUpdate struct {
	Title             *string
	Description       *string
	Date              *string
	Time              *string
	End               *string
	AllDay            *bool
	DurationHours     *string
	Completed         *bool
	Tags              *[]string
	Recurring         *bool
	RecurrenceType    *string
	RecurrenceEndDate *string
}

// validRecurrence accepts an empty kind, meaning the event does not repeat.
func validRecurrence(kind string) error {
	if kind != "" && !types.ValidRecurrence(kind) {
		return fmt.Errorf("recurrence %q: %w", kind, types.ErrInvalidRecurrence)
	}
	return nil
}

// CreateEvent adds a standalone event to a context. An event created as
// completed is attributed immediately.
func (s *Service) CreateEvent(ctx context.Context, in NewEvent) (*Result, error) {
	if err := requireID("context", in.ContextID); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("event title: %w", types.ErrInvalidName)
	}
	start, err := parseStart(in.Date, in.Time, in.AllDay, s.location())
	if err != nil {
		return nil, err
	}
	var end *time.Time
	if strings.TrimSpace(in.End) != "" {
		e, err := daterange.ParseBoundary(in.End, false, s.location())
		if err != nil {
			return nil, err
		}
		end = &e
	}
	dur, err := parseDurationInput(in.DurationHours)
	if err != nil {
		return nil, err
	}
	if err := validRecurrence(in.RecurrenceType); err != nil {
		return nil, err
	}

	event := &types.Event{
		ContextID:         in.ContextID,
		Title:             title,
		Description:       in.Description,
		Completed:         in.Completed,
		Tags:              slices.Clone(in.Tags),
		CreatedAt:         s.now(),
		Recurring:         in.Recurring,
		RecurrenceType:    in.RecurrenceType,
		RecurrenceEndDate: s.parseOptionalDate(in.RecurrenceEndDate, "recurrence end date"),
	}
	if dur.set {
		event.DurationMinutes = intPtr(dur.minutes)
	}
	event.SetSpan(DeriveSpan(start, event.DurationMinutes, in.AllDay, end))

	var res *Result
	err = s.inTx(ctx, func(o *op) error {
		if _, err := o.tx.GetContext(in.ContextID); err != nil {
			return err
		}
		if err := o.settleEvent(event); err != nil {
			return err
		}
		if err := o.save(nil, event); err != nil {
			return err
		}
		res, err = o.result(event.ContextID, nil, event)
		return err
	})
	return res, err
}

// GetEvent returns an event with its link hydrated.
func (s *Service) GetEvent(ctx context.Context, eventID string) (*types.Event, error) {
	if err := requireID("event", eventID); err != nil {
		return nil, err
	}
	var event *types.Event
	err := s.inTx(ctx, func(o *op) error {
		e, _, err := o.eventPair(eventID)
		event = e
		return err
	})
	return event, err
}

// UpdateEvent edits an event. Timing changes re-derive the span; for a
// linked event the resulting duration becomes the todo's, and completion
// and descriptive fields flow from the event to the todo.
func (s *Service) UpdateEvent(ctx context.Context, eventID string, in EventUpdate) (*Result, error) {
	if err := requireID("event", eventID); err != nil {
		return nil, err
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, fmt.Errorf("event title: %w", types.ErrInvalidName)
	}
	var dur *durationInput
	if in.DurationHours != nil {
		d, err := parseDurationInput(*in.DurationHours)
		if err != nil {
			return nil, err
		}
		dur = &d
	}
	if in.RecurrenceType != nil {
		if err := validRecurrence(*in.RecurrenceType); err != nil {
			return nil, err
		}
	}

	var res *Result
	err := s.inTx(ctx, func(o *op) error {
		event, todo, err := o.eventPair(eventID)
		if err != nil {
			return err
		}

		timing, err := s.applyEventTiming(event, todo, in, dur)
		if err != nil {
			return err
		}
		if in.Completed != nil {
			event.Completed = *in.Completed
		}

		if todo != nil {
			if timing {
				todo.DurationMinutes = intPtr(eventMinutes(event))
			}
			if in.Completed != nil {
				MirrorCompletion(todo, event, OriginEvent)
			}
			if timing || in.Completed != nil {
				if err := o.settleTodo(todo, event); err != nil {
					return err
				}
			}
		} else if timing || in.Completed != nil {
			if err := o.settleEvent(event); err != nil {
				return err
			}
		}

		if in.Title != nil {
			event.Title = strings.TrimSpace(*in.Title)
		}
		if in.Description != nil {
			event.Description = *in.Description
		}
		if in.Tags != nil {
			event.Tags = slices.Clone(*in.Tags)
		}
		if in.Recurring != nil {
			event.Recurring = *in.Recurring
		}
		if in.RecurrenceType != nil {
			event.RecurrenceType = *in.RecurrenceType
		}
		if in.RecurrenceEndDate != nil {
			if strings.TrimSpace(*in.RecurrenceEndDate) == "" {
				event.RecurrenceEndDate = nil
			} else if d := s.parseOptionalDate(*in.RecurrenceEndDate, "recurrence end date"); d != nil {
				event.RecurrenceEndDate = d
			}
		}
		if todo != nil {
			if in.Title != nil || in.Description != nil || in.Tags != nil {
				MirrorFields(todo, event, OriginEvent)
			}
			todo.UpdatedAt = s.now()
		}

		if err := o.save(todo, event); err != nil {
			return err
		}
		res, err = o.result(event.ContextID, todo, event)
		return err
	})
	return res, err
}

// applyEventTiming applies start, all-day, duration and end changes and
// re-derives the span. It reports whether anything affecting the event's
// duration was touched.
func (s *Service) applyEventTiming(event *types.Event, todo *types.Todo, in EventUpdate, dur *durationInput) (bool, error) {
	timing := false
	start := event.StartDate
	allDay := event.AllDay
	existingEnd := event.EndDate

	if in.AllDay != nil && *in.AllDay != allDay {
		allDay = *in.AllDay
		if !allDay {
			existingEnd = nil
		}
		timing = true
	}

	if in.Date != nil || in.Time != nil {
		date := start.Format(daterange.DateLayout)
		if in.Date != nil {
			date = *in.Date
		}
		clock := ""
		if in.Time != nil {
			clock = *in.Time
		} else if len(strings.TrimSpace(date)) == len(daterange.DateLayout) && !allDay {
			clock = start.Format(clockLayout)
		}
		if t, err := parseStart(date, clock, allDay, s.location()); err != nil {
			s.warnf("ignoring start %q %q on event %s: %v", date, clock, event.EventID, err)
		} else {
			start = t
			timing = true
		}
	}

	if in.End != nil && strings.TrimSpace(*in.End) != "" {
		if e, err := daterange.ParseBoundary(*in.End, false, s.location()); err != nil {
			s.warnf("ignoring end %q on event %s: %v", *in.End, event.EventID, err)
		} else {
			existingEnd = &e
			event.DurationMinutes = nil
			timing = true
		}
	}

	if dur != nil {
		switch {
		case dur.set:
			event.DurationMinutes = intPtr(dur.minutes)
		case todo != nil:
			m, ok := Resolve(nil, nil, todo.DurationMinutes)
			if !ok {
				return false, fmt.Errorf("event %s: %w", event.EventID, types.ErrDurationRequired)
			}
			event.DurationMinutes = intPtr(m)
		default:
			event.DurationMinutes = nil
		}
		timing = true
	}

	if timing {
		event.SetSpan(DeriveSpan(start, event.DurationMinutes, allDay, existingEnd))
	}
	return timing, nil
}

// DeleteEvent removes an event. Unless preserveTime is set the attribution
// of the event, or of the pair when linked, is taken off the ledger. A
// linked todo survives unscheduled.
func (s *Service) DeleteEvent(ctx context.Context, eventID string, preserveTime bool) (*Result, error) {
	if err := requireID("event", eventID); err != nil {
		return nil, err
	}

	var res *Result
	err := s.inTx(ctx, func(o *op) error {
		event, todo, err := o.eventPair(eventID)
		if err != nil {
			return err
		}
		if !preserveTime {
			if err := o.ledger.settle(event.ContextID, &event.TrackedMinutes, 0); err != nil {
				return err
			}
			if todo != nil {
				if err := o.ledger.settle(todo.ContextID, &todo.TrackedMinutes, 0); err != nil {
					return err
				}
			}
		}
		if todo != nil {
			if err := o.links.Unlink(todo, event, false); err != nil {
				return err
			}
			todo.UpdatedAt = s.now()
		} else if err := o.tx.DeleteEvent(eventID); err != nil {
			return fmt.Errorf("deleting event %s: %w", eventID, err)
		}
		if err := o.save(todo, nil); err != nil {
			return err
		}
		res, err = o.result(event.ContextID, todo, nil)
		return err
	})
	return res, err
}
