package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/secondbrain/pkg/types"
)

const eventColumns = "event_id, context_id, title, description, start_date, end_date, all_day, completed, " +
	"tags, recurring, recurrence_type, recurrence_end_date, duration_minutes, tracked_minutes, created_at"

// eventSelect hydrates LinkedTodoID from the link table alongside the row.
const eventSelect = "SELECT " + eventColumns +
	", (SELECT MIN(l.todo_id) FROM todo_event_links l WHERE l.event_id = events.event_id) FROM events"

// GetEvent retrieves an event by ID.
func (t *tx) GetEvent(id string) (*types.Event, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	event, err := hydrateEvent(t.tx.QueryRow(eventSelect+" WHERE event_id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("event %s: %w", id, types.ErrEventNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting event %s: %w", id, err)
	}
	return event, nil
}

// SaveEvent inserts the event when its ID is empty or unknown and updates it
// otherwise. LinkedTodoID is not written.
func (t *tx) SaveEvent(e *types.Event) error {
	if e.StartDate.IsZero() {
		return types.ErrInvalidDate
	}
	if e.RecurrenceType != "" && !types.ValidRecurrence(e.RecurrenceType) {
		return types.ErrInvalidRecurrence
	}
	if e.EventID == "" {
		e.EventID = generateUUID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	tags, err := encodeTags(e.Tags)
	if err != nil {
		return err
	}

	exists, err := t.exists("events", "event_id", e.EventID)
	if err != nil {
		return err
	}
	args := []any{
		e.ContextID, e.Title, e.Description, formatTime(e.StartDate), formatOptionalTime(e.EndDate),
		e.AllDay, e.Completed, tags, e.Recurring, e.RecurrenceType, formatOptionalTime(e.RecurrenceEndDate),
		formatOptionalInt(e.DurationMinutes), e.TrackedMinutes, formatTime(e.CreatedAt),
	}
	if exists {
		_, err = t.tx.Exec(`UPDATE events SET context_id = ?, title = ?, description = ?, start_date = ?,
			end_date = ?, all_day = ?, completed = ?, tags = ?, recurring = ?, recurrence_type = ?,
			recurrence_end_date = ?, duration_minutes = ?, tracked_minutes = ?, created_at = ?
			WHERE event_id = ?`,
			append(args, e.EventID)...,
		)
	} else {
		_, err = t.tx.Exec(
			"INSERT INTO events ("+eventColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			append([]any{e.EventID}, args...)...,
		)
	}
	if err != nil {
		return fmt.Errorf("persisting event: %w", err)
	}
	return nil
}

// DeleteEvent removes an event and its link rows.
func (t *tx) DeleteEvent(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	exists, err := t.exists("events", "event_id", id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("event %s: %w", id, types.ErrEventNotFound)
	}
	if _, err := t.tx.Exec("DELETE FROM todo_event_links WHERE event_id = ?", id); err != nil {
		return fmt.Errorf("deleting event links: %w", err)
	}
	if _, err := t.tx.Exec("DELETE FROM events WHERE event_id = ?", id); err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}
	return nil
}

// ListEvents returns a context's events ordered by start. An empty
// contextID lists every event.
func (t *tx) ListEvents(contextID string) ([]*types.Event, error) {
	query := eventSelect
	var args []any
	if contextID != "" {
		query += " WHERE context_id = ?"
		args = append(args, contextID)
	}
	rows, err := t.tx.Query(query+" ORDER BY start_date ASC", args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var out []*types.Event
	for rows.Next() {
		e, err := hydrateEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func hydrateEvent(row scanner) (*types.Event, error) {
	var (
		e                          types.Event
		start, createdAt, tags     string
		end, recurrenceEnd, linked sql.NullString
		duration                   sql.NullInt64
	)
	if err := row.Scan(
		&e.EventID, &e.ContextID, &e.Title, &e.Description, &start, &end, &e.AllDay, &e.Completed,
		&tags, &e.Recurring, &e.RecurrenceType, &recurrenceEnd, &duration, &e.TrackedMinutes, &createdAt,
		&linked,
	); err != nil {
		return nil, err
	}
	var err error
	if e.StartDate, err = parseTime(start); err != nil {
		return nil, fmt.Errorf("parsing start_date: %w", err)
	}
	if e.EndDate, err = parseOptionalTime(end); err != nil {
		return nil, fmt.Errorf("parsing end_date: %w", err)
	}
	if e.RecurrenceEndDate, err = parseOptionalTime(recurrenceEnd); err != nil {
		return nil, fmt.Errorf("parsing recurrence_end_date: %w", err)
	}
	if e.Tags, err = decodeTags(tags); err != nil {
		return nil, err
	}
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	e.DurationMinutes = parseOptionalInt(duration)
	e.LinkedTodoID = linked.String
	return &e, nil
}
