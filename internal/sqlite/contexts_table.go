package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/secondbrain/pkg/types"
)

const contextColumns = "context_id, name, emoji, color, total_tracked_minutes, created_at"

// GetContext retrieves a context by ID.
func (t *tx) GetContext(id string) (*types.Context, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	row := t.tx.QueryRow("SELECT "+contextColumns+" FROM contexts WHERE context_id = ?", id)
	c, err := hydrateContext(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("context %s: %w", id, types.ErrContextNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting context %s: %w", id, err)
	}
	return c, nil
}

// SaveContext inserts the context when its ID is empty or unknown and
// updates it otherwise.
func (t *tx) SaveContext(c *types.Context) error {
	if c.Name == "" {
		return types.ErrInvalidName
	}
	if c.ContextID == "" {
		c.ContextID = generateUUID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	exists, err := t.exists("contexts", "context_id", c.ContextID)
	if err != nil {
		return err
	}
	if exists {
		_, err = t.tx.Exec(
			"UPDATE contexts SET name = ?, emoji = ?, color = ?, total_tracked_minutes = ?, created_at = ? WHERE context_id = ?",
			c.Name, c.Emoji, c.Color, c.TotalTrackedMinutes, formatTime(c.CreatedAt), c.ContextID,
		)
	} else {
		_, err = t.tx.Exec(
			"INSERT INTO contexts ("+contextColumns+") VALUES (?, ?, ?, ?, ?, ?)",
			c.ContextID, c.Name, c.Emoji, c.Color, c.TotalTrackedMinutes, formatTime(c.CreatedAt),
		)
	}
	if err != nil {
		return fmt.Errorf("persisting context: %w", err)
	}
	return nil
}

// DeleteContext removes a context and cascades to its todos, events and
// their links.
func (t *tx) DeleteContext(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	exists, err := t.exists("contexts", "context_id", id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("context %s: %w", id, types.ErrContextNotFound)
	}

	if _, err := t.tx.Exec(`DELETE FROM todo_event_links WHERE
		todo_id IN (SELECT todo_id FROM todos WHERE context_id = ?) OR
		event_id IN (SELECT event_id FROM events WHERE context_id = ?)`, id, id); err != nil {
		return fmt.Errorf("deleting context links: %w", err)
	}
	if _, err := t.tx.Exec("DELETE FROM todos WHERE context_id = ?", id); err != nil {
		return fmt.Errorf("deleting context todos: %w", err)
	}
	if _, err := t.tx.Exec("DELETE FROM events WHERE context_id = ?", id); err != nil {
		return fmt.Errorf("deleting context events: %w", err)
	}
	if _, err := t.tx.Exec("DELETE FROM contexts WHERE context_id = ?", id); err != nil {
		return fmt.Errorf("deleting context: %w", err)
	}
	return nil
}

// ListContexts returns every context in creation order.
func (t *tx) ListContexts() ([]*types.Context, error) {
	rows, err := t.tx.Query("SELECT " + contextColumns + " FROM contexts ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("querying contexts: %w", err)
	}
	defer rows.Close()

	var out []*types.Context
	for rows.Next() {
		c, err := hydrateContext(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating context: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func hydrateContext(row scanner) (*types.Context, error) {
	var c types.Context
	var createdAt string
	if err := row.Scan(&c.ContextID, &c.Name, &c.Emoji, &c.Color, &c.TotalTrackedMinutes, &createdAt); err != nil {
		return nil, err
	}
	var err error
	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &c, nil
}
