package types

import (
	"slices"
	"time"
)

// Todo statuses.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// Todo priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

var validStatuses = map[string]bool{
	StatusTodo:       true,
	StatusInProgress: true,
	StatusDone:       true,
}

var validPriorities = map[string]bool{
	PriorityLow:    true,
	PriorityMedium: true,
	PriorityHigh:   true,
}

// ValidStatus reports whether s is a recognised todo status.
func ValidStatus(s string) bool { return validStatuses[s] }

// ValidPriority reports whether p is a recognised todo priority.
func ValidPriority(p string) bool { return validPriorities[p] }

// Todo is a unit of work owned by exactly one context. It is scheduled on the
// calendar at most once, through LinkedEventID.
type Todo struct {
	TodoID      string     `json:"id"`
	ContextID   string     `json:"contextId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	DueTime     string     `json:"dueTime,omitempty"` // HH:MM, empty when unset.
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// DurationMinutes is the explicit duration override, nil when unset.
	DurationMinutes *int `json:"durationMinutes,omitempty"`

	// LinkedEventID is empty when the todo is not on the calendar.
	LinkedEventID string `json:"linkedEventId,omitempty"`

	// TrackedMinutes is what this todo currently contributes to its
	// context's aggregate.
	TrackedMinutes int `json:"trackedMinutes"`

	// HandedOffMinutes were moved to an event that was unlinked and kept.
	// Later completions of this todo count only time beyond them.
	HandedOffMinutes int `json:"handedOffMinutes,omitempty"`
}

// Done reports whether the todo is completed.
func (t *Todo) Done() bool { return t.Status == StatusDone }

// Linked reports whether the todo has a calendar event.
func (t *Todo) Linked() bool { return t.LinkedEventID != "" }

// SetStatus sets the todo status. Returns ErrInvalidStatus if the value is not
// recognised; the todo is left unchanged on error.
func (t *Todo) SetStatus(status string) error {
	if !ValidStatus(status) {
		return ErrInvalidStatus
	}
	t.Status = status
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// SetPriority sets the todo priority. Returns ErrInvalidPriority if the value
// is not recognised.
func (t *Todo) SetPriority(priority string) error {
	if !ValidPriority(priority) {
		return ErrInvalidPriority
	}
	t.Priority = priority
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// Clone returns a deep copy of the todo.
func (t *Todo) Clone() *Todo {
	c := *t
	c.Tags = slices.Clone(t.Tags)
	if t.DurationMinutes != nil {
		d := *t.DurationMinutes
		c.DurationMinutes = &d
	}
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	return &c
}
