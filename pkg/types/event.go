package types

import (
	"slices"
	"time"
)

// Recurrence types.
const (
	RecurrenceDaily   = "daily"
	RecurrenceWeekly  = "weekly"
	RecurrenceMonthly = "monthly"
	RecurrenceYearly  = "yearly"
)

var validRecurrences = map[string]bool{
	RecurrenceDaily:   true,
	RecurrenceWeekly:  true,
	RecurrenceMonthly: true,
	RecurrenceYearly:  true,
}

// ValidRecurrence reports whether r is a recognised recurrence type.
func ValidRecurrence(r string) bool { return validRecurrences[r] }

// Event is a scheduled block on the calendar, owned by exactly one context.
type Event struct {
	EventID     string     `json:"id"`
	ContextID   string     `json:"contextId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	AllDay      bool       `json:"allDay"`
	Completed   bool       `json:"completed"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"createdAt"`

	Recurring         bool       `json:"recurring"`
	RecurrenceType    string     `json:"recurrenceType,omitempty"`
	RecurrenceEndDate *time.Time `json:"recurrenceEndDate,omitempty"`

	// DurationMinutes is the explicit duration the end date was derived
	// from, nil when the end was given directly or defaulted.
	DurationMinutes *int `json:"durationMinutes,omitempty"`

	// LinkedTodoID is empty when no todo is scheduled by this event.
	LinkedTodoID string `json:"linkedTodoId,omitempty"`

	// TrackedMinutes is what this event currently contributes to its
	// context's aggregate. Always zero while the event is linked.
	TrackedMinutes int `json:"trackedMinutes"`
}

// Linked reports whether a todo is scheduled by this event.
func (e *Event) Linked() bool { return e.LinkedTodoID != "" }

// Span returns the event's start/end window.
func (e *Event) Span() Span {
	return Span{Start: e.StartDate, End: e.EndDate, AllDay: e.AllDay}
}

// SetSpan stores a derived span on the event.
func (e *Event) SetSpan(s Span) {
	e.StartDate = s.Start
	e.EndDate = s.End
	e.AllDay = s.AllDay
}

// Clone returns a deep copy of the event.
func (e *Event) Clone() *Event {
	c := *e
	c.Tags = slices.Clone(e.Tags)
	if e.EndDate != nil {
		d := *e.EndDate
		c.EndDate = &d
	}
	if e.RecurrenceEndDate != nil {
		d := *e.RecurrenceEndDate
		c.RecurrenceEndDate = &d
	}
	if e.DurationMinutes != nil {
		d := *e.DurationMinutes
		c.DurationMinutes = &d
	}
	return &c
}

// Span is a calendar window. End is nil when the end is unknown.
type Span struct {
	Start  time.Time
	End    *time.Time
	AllDay bool
}
