package tracking

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/mesh-intelligence/secondbrain/pkg/types"
)

// NewTodo holds the fields for CreateTodo. DueDate, DueTime and
// DurationHours are raw request values.
type NewTodo struct {
	ContextID     string
	Title         string
	Description   string
	Status        string
	Priority      string
	DueDate       string
	DueTime       string
	Tags          []string
	DurationHours string
}

// TodoUpdate holds the fields for UpdateTodo. Nil fields are left alone; an
// empty DueDate, DueTime or DurationHours clears the value.
type TodoUpdate struct {
	Title         *string
	Description   *string
	Status        *string
	Priority      *string
	DueDate       *string
	DueTime       *string
	Tags          *[]string
	DurationHours *string
}

// LinkParams places a todo on the calendar. Date is YYYY-MM-DD or a full
// date-time; Time is HH:MM and is required unless AllDay is set. An empty
// DurationHours keeps the todo's own duration.
type LinkParams struct {
	Date          string
	Time          string
	AllDay        bool
	DurationHours string
}

// CreateTodo adds a todo to a context. A todo created as done is attributed
// immediately.
func (s *Service) CreateTodo(ctx context.Context, in NewTodo) (*Result, error) {
	if err := requireID("context", in.ContextID); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("todo title: %w", types.ErrInvalidName)
	}
	status := in.Status
	if status == "" {
		status = types.StatusTodo
	}
	priority := in.Priority
	if priority == "" {
		priority = types.PriorityMedium
	}
	var clock string
	if strings.TrimSpace(in.DueTime) != "" {
		c, err := parseClock(in.DueTime)
		if err != nil {
			return nil, err
		}
		clock = c
	}
	dur, err := parseDurationInput(in.DurationHours)
	if err != nil {
		return nil, err
	}

	now := s.now()
	todo := &types.Todo{
		ContextID:   in.ContextID,
		Title:       title,
		Description: in.Description,
		DueTime:     clock,
		Tags:        slices.Clone(in.Tags),
		CreatedAt:   now,
	}
	if err := todo.SetStatus(status); err != nil {
		return nil, fmt.Errorf("status %q: %w", status, err)
	}
	if err := todo.SetPriority(priority); err != nil {
		return nil, fmt.Errorf("priority %q: %w", priority, err)
	}
	todo.UpdatedAt = now
	if dur.set {
		todo.DurationMinutes = intPtr(dur.minutes)
	}
	todo.DueDate = s.parseOptionalDate(in.DueDate, "due date")

	var res *Result
	err = s.inTx(ctx, func(o *op) error {
		if _, err := o.tx.GetContext(in.ContextID); err != nil {
			return err
		}
		if err := o.settleTodo(todo, nil); err != nil {
			return err
		}
		if err := o.save(todo, nil); err != nil {
			return err
		}
		res, err = o.result(todo.ContextID, todo, nil)
		return err
	})
	return res, err
}

// GetTodo returns a todo with its link hydrated.
func (s *Service) GetTodo(ctx context.Context, todoID string) (*types.Todo, error) {
	if err := requireID("todo", todoID); err != nil {
		return nil, err
	}
	var todo *types.Todo
	err := s.inTx(ctx, func(o *op) error {
		t, _, err := o.todoPair(todoID)
		todo = t
		return err
	})
	return todo, err
}

// UpdateTodo edits a todo. Descriptive and completion changes are mirrored
// onto the linked event; duration changes re-derive the event's end and are
// applied to the ledger if the todo is done.
func (s *Service) UpdateTodo(ctx context.Context, todoID string, in TodoUpdate) (*Result, error) {
	if err := requireID("todo", todoID); err != nil {
		return nil, err
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, fmt.Errorf("todo title: %w", types.ErrInvalidName)
	}
	var clock *string
	if in.DueTime != nil {
		c := ""
		if strings.TrimSpace(*in.DueTime) != "" {
			var err error
			if c, err = parseClock(*in.DueTime); err != nil {
				return nil, err
			}
		}
		clock = &c
	}
	var dur *durationInput
	if in.DurationHours != nil {
		d, err := parseDurationInput(*in.DurationHours)
		if err != nil {
			return nil, err
		}
		dur = &d
	}

	var res *Result
	err := s.inTx(ctx, func(o *op) error {
		todo, event, err := o.todoPair(todoID)
		if err != nil {
			return err
		}
		if in.Status != nil {
			if err := todo.SetStatus(*in.Status); err != nil {
				return fmt.Errorf("status %q: %w", *in.Status, err)
			}
		}
		if in.Priority != nil {
			if err := todo.SetPriority(*in.Priority); err != nil {
				return fmt.Errorf("priority %q: %w", *in.Priority, err)
			}
		}

		if dur != nil {
			if err := applyTodoDuration(todo, event, *dur); err != nil {
				return err
			}
		}
		if in.Status != nil && event != nil {
			MirrorCompletion(todo, event, OriginTodo)
		}
		if dur != nil || in.Status != nil {
			if err := o.settleTodo(todo, event); err != nil {
				return err
			}
		}

		if in.Title != nil {
			todo.Title = strings.TrimSpace(*in.Title)
		}
		if in.Description != nil {
			todo.Description = *in.Description
		}
		if in.Tags != nil {
			todo.Tags = slices.Clone(*in.Tags)
		}
		if clock != nil {
			todo.DueTime = *clock
		}
		if in.DueDate != nil {
			s.applyDueDate(todo, *in.DueDate)
		}
		if event != nil && (in.Title != nil || in.Description != nil || in.Tags != nil) {
			MirrorFields(todo, event, OriginTodo)
		}
		todo.UpdatedAt = s.now()

		if err := o.save(todo, event); err != nil {
			return err
		}
		res, err = o.result(todo.ContextID, todo, event)
		return err
	})
	return res, err
}

func (s *Service) applyDueDate(todo *types.Todo, raw string) {
	if strings.TrimSpace(raw) == "" {
		todo.DueDate = nil
		return
	}
	d, err := parseDate(raw, s.location())
	if err != nil {
		s.warnf("ignoring due date %q on todo %s: %v", raw, todo.TodoID, err)
		return
	}
	todo.DueDate = &d
}

// applyTodoDuration sets or clears a todo's explicit duration. A linked todo
// cannot go without one: clearing falls back to the previous value, and the
// event's end is re-derived from the result.
func applyTodoDuration(todo *types.Todo, event *types.Event, in durationInput) error {
	switch {
	case in.set:
		todo.DurationMinutes = intPtr(in.minutes)
	case event != nil:
		m, ok := Resolve(nil, nil, todo.DurationMinutes)
		if !ok {
			return fmt.Errorf("todo %s: %w", todo.TodoID, types.ErrDurationRequired)
		}
		todo.DurationMinutes = intPtr(m)
	default:
		todo.DurationMinutes = nil
	}
	if event != nil {
		event.DurationMinutes = intPtr(*todo.DurationMinutes)
		event.SetSpan(DeriveSpan(event.StartDate, event.DurationMinutes, event.AllDay, event.EndDate))
	}
	return nil
}

// SetTodoStatus changes a todo's status, propagating completion to its
// linked event.
func (s *Service) SetTodoStatus(ctx context.Context, todoID, status string) (*Result, error) {
	return s.UpdateTodo(ctx, todoID, TodoUpdate{Status: &status})
}

// SetTodoDuration sets a todo's duration from an hours value. Empty input
// clears the override, which a linked todo refuses unless it has a previous
// duration to fall back on.
func (s *Service) SetTodoDuration(ctx context.Context, todoID, rawHours string) (*Result, error) {
	return s.UpdateTodo(ctx, todoID, TodoUpdate{DurationHours: &rawHours})
}

// LinkTodoToEvent schedules a todo as a new calendar event. A todo already
// on the calendar has its previous event deleted first. The new event's
// duration becomes the todo's, and the ledger is corrected if the todo is
// done.
func (s *Service) LinkTodoToEvent(ctx context.Context, todoID string, p LinkParams) (*Result, error) {
	if err := requireID("todo", todoID); err != nil {
		return nil, err
	}
	start, err := parseStart(p.Date, p.Time, p.AllDay, s.location())
	if err != nil {
		return nil, err
	}
	dur, err := parseDurationInput(p.DurationHours)
	if err != nil {
		return nil, err
	}

	var res *Result
	err = s.inTx(ctx, func(o *op) error {
		todo, _, err := o.todoPair(todoID)
		if err != nil {
			return err
		}
		explicit := todo.DurationMinutes
		if dur.set {
			explicit = intPtr(dur.minutes)
		}
		span := DeriveSpan(start, explicit, p.AllDay, nil)
		minutes, _ := Resolve(explicit, &span, nil)

		if _, err := o.links.Replace(todo); err != nil {
			return err
		}
		event := &types.Event{
			ContextID: todo.ContextID,
			CreatedAt: s.now(),
		}
		event.SetSpan(span)
		if explicit != nil {
			event.DurationMinutes = intPtr(*explicit)
		}
		if err := o.tx.SaveEvent(event); err != nil {
			return fmt.Errorf("saving event: %w", err)
		}
		if err := o.links.Link(todo, event); err != nil {
			return err
		}

		todo.DurationMinutes = intPtr(minutes)
		if err := o.settleTodo(todo, event); err != nil {
			return err
		}
		todo.UpdatedAt = s.now()
		if err := o.save(todo, event); err != nil {
			return err
		}
		res, err = o.result(todo.ContextID, todo, event)
		return err
	})
	return res, err
}

// UnlinkTodo removes a todo from the calendar. With keepEvent the event
// stays as an independent entry and takes over the pair's attribution;
// otherwise it is deleted and the todo keeps the time only if it is done.
func (s *Service) UnlinkTodo(ctx context.Context, todoID, eventID string, keepEvent bool) (*Result, error) {
	if err := requireID("todo", todoID); err != nil {
		return nil, err
	}
	if err := requireID("event", eventID); err != nil {
		return nil, err
	}

	var res *Result
	err := s.inTx(ctx, func(o *op) error {
		todo, event, err := o.todoPair(todoID)
		if err != nil {
			return err
		}
		if event == nil || event.EventID != eventID {
			return fmt.Errorf("todo %s and event %s: %w", todoID, eventID, types.ErrNotLinked)
		}
		if err := o.links.Unlink(todo, event, keepEvent); err != nil {
			return err
		}

		todo.UpdatedAt = s.now()
		if keepEvent {
			todo.HandedOffMinutes += todo.TrackedMinutes
			event.TrackedMinutes, todo.TrackedMinutes = todo.TrackedMinutes, 0
			if err := o.save(todo, event); err != nil {
				return err
			}
		} else {
			if err := o.settleTodo(todo, nil); err != nil {
				return err
			}
			if err := o.save(todo, nil); err != nil {
				return err
			}
			event = nil
		}
		res, err = o.result(todo.ContextID, todo, event)
		return err
	})
	return res, err
}

// DeleteTodo removes a todo. Unless preserveTime is set its attribution is
// taken off the ledger. A linked event survives as an independent entry and
// inherits the attribution when time is preserved.
func (s *Service) DeleteTodo(ctx context.Context, todoID string, preserveTime bool) (*Result, error) {
	if err := requireID("todo", todoID); err != nil {
		return nil, err
	}

	var res *Result
	err := s.inTx(ctx, func(o *op) error {
		todo, event, err := o.todoPair(todoID)
		if err != nil {
			return err
		}
		if event != nil {
			if err := o.links.Unlink(todo, event, true); err != nil {
				return err
			}
		}
		switch {
		case preserveTime && event != nil:
			event.TrackedMinutes = todo.TrackedMinutes
		case !preserveTime:
			if err := o.ledger.settle(todo.ContextID, &todo.TrackedMinutes, 0); err != nil {
				return err
			}
		}
		if err := o.tx.DeleteTodo(todoID); err != nil {
			return fmt.Errorf("deleting todo %s: %w", todoID, err)
		}
		if err := o.save(nil, event); err != nil {
			return err
		}
		res, err = o.result(todo.ContextID, nil, event)
		return err
	})
	return res, err
}

func (s *Service) parseOptionalDate(raw, what string) *time.Time {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	d, err := parseDate(raw, s.location())
	if err != nil {
		s.warnf("ignoring %s %q: %v", what, raw, err)
		return nil
	}
	return &d
}
