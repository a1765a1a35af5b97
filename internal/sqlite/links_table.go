package sqlite

import (
	"fmt"
	"time"

	"github.com/mesh-intelligence/secondbrain/pkg/types"
)

// LinkedEvents returns every event ID linked to the todo.
func (t *tx) LinkedEvents(todoID string) ([]string, error) {
	return t.linkColumn("SELECT event_id FROM todo_event_links WHERE todo_id = ? ORDER BY created_at ASC", todoID)
}

// LinkedTodos returns every todo ID linked to the event.
func (t *tx) LinkedTodos(eventID string) ([]string, error) {
	return t.linkColumn("SELECT todo_id FROM todo_event_links WHERE event_id = ? ORDER BY created_at ASC", eventID)
}

func (t *tx) linkColumn(query, id string) ([]string, error) {
	rows, err := t.tx.Query(query, id)
	if err != nil {
		return nil, fmt.Errorf("querying links: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning link: %w", err)
		}
		ids = append(ids, v)
	}
	return ids, rows.Err()
}

// InsertLink records a todo/event association. Both records must exist.
func (t *tx) InsertLink(todoID, eventID string) error {
	if todoID == "" || eventID == "" {
		return types.ErrInvalidID
	}
	if ok, err := t.exists("todos", "todo_id", todoID); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("todo %s: %w", todoID, types.ErrTodoNotFound)
	}
	if ok, err := t.exists("events", "event_id", eventID); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("event %s: %w", eventID, types.ErrEventNotFound)
	}
	_, err := t.tx.Exec(
		"INSERT OR IGNORE INTO todo_event_links (todo_id, event_id, created_at) VALUES (?, ?, ?)",
		todoID, eventID, formatTime(time.Now().UTC()),
	)
	if err != nil {
		return fmt.Errorf("inserting link: %w", err)
	}
	return nil
}

// DeleteLink removes one association.
func (t *tx) DeleteLink(todoID, eventID string) error {
	res, err := t.tx.Exec("DELETE FROM todo_event_links WHERE todo_id = ? AND event_id = ?", todoID, eventID)
	if err != nil {
		return fmt.Errorf("deleting link: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting link: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("todo %s and event %s: %w", todoID, eventID, types.ErrNotLinked)
	}
	return nil
}

// ListLinks returns every association in creation order.
func (t *tx) ListLinks() ([]*types.Link, error) {
	rows, err := t.tx.Query("SELECT todo_id, event_id, created_at FROM todo_event_links ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("querying links: %w", err)
	}
	defer rows.Close()

	var out []*types.Link
	for rows.Next() {
		var l types.Link
		var createdAt string
		if err := rows.Scan(&l.TodoID, &l.EventID, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning link: %w", err)
		}
		if l.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}
