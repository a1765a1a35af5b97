package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/secondbrain/pkg/types"
)

const todoColumns = "todo_id, context_id, title, description, status, priority, due_date, due_time, " +
	"tags, duration_minutes, tracked_minutes, handed_off_minutes, created_at, updated_at"

// todoSelect hydrates LinkedEventID from the link table alongside the row.
const todoSelect = "SELECT " + todoColumns +
	", (SELECT MIN(l.event_id) FROM todo_event_links l WHERE l.todo_id = todos.todo_id) FROM todos"

// GetTodo retrieves a todo by ID.
func (t *tx) GetTodo(id string) (*types.Todo, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	todo, err := hydrateTodo(t.tx.QueryRow(todoSelect+" WHERE todo_id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("todo %s: %w", id, types.ErrTodoNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting todo %s: %w", id, err)
	}
	return todo, nil
}

// SaveTodo inserts the todo when its ID is empty or unknown and updates it
// otherwise. LinkedEventID is not written; links have their own table.
func (t *tx) SaveTodo(todo *types.Todo) error {
	if todo.Title == "" {
		return types.ErrInvalidName
	}
	if !types.ValidStatus(todo.Status) {
		return types.ErrInvalidStatus
	}
	if !types.ValidPriority(todo.Priority) {
		return types.ErrInvalidPriority
	}
	now := time.Now().UTC()
	if todo.TodoID == "" {
		todo.TodoID = generateUUID()
	}
	if todo.CreatedAt.IsZero() {
		todo.CreatedAt = now
	}
	if todo.UpdatedAt.IsZero() {
		todo.UpdatedAt = now
	}
	tags, err := encodeTags(todo.Tags)
	if err != nil {
		return err
	}

	exists, err := t.exists("todos", "todo_id", todo.TodoID)
	if err != nil {
		return err
	}
	args := []any{
		todo.ContextID, todo.Title, todo.Description, todo.Status, todo.Priority,
		formatOptionalTime(todo.DueDate), todo.DueTime, tags, formatOptionalInt(todo.DurationMinutes),
		todo.TrackedMinutes, todo.HandedOffMinutes, formatTime(todo.CreatedAt), formatTime(todo.UpdatedAt),
	}
	if exists {
		_, err = t.tx.Exec(`UPDATE todos SET context_id = ?, title = ?, description = ?, status = ?,
			priority = ?, due_date = ?, due_time = ?, tags = ?, duration_minutes = ?,
			tracked_minutes = ?, handed_off_minutes = ?, created_at = ?, updated_at = ? WHERE todo_id = ?`,
			append(args, todo.TodoID)...,
		)
	} else {
		_, err = t.tx.Exec(
			"INSERT INTO todos ("+todoColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			append([]any{todo.TodoID}, args...)...,
		)
	}
	if err != nil {
		return fmt.Errorf("persisting todo: %w", err)
	}
	return nil
}

// DeleteTodo removes a todo and its link rows.
func (t *tx) DeleteTodo(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	exists, err := t.exists("todos", "todo_id", id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("todo %s: %w", id, types.ErrTodoNotFound)
	}
	if _, err := t.tx.Exec("DELETE FROM todo_event_links WHERE todo_id = ?", id); err != nil {
		return fmt.Errorf("deleting todo links: %w", err)
	}
	if _, err := t.tx.Exec("DELETE FROM todos WHERE todo_id = ?", id); err != nil {
		return fmt.Errorf("deleting todo: %w", err)
	}
	return nil
}

// ListTodos returns a context's todos in creation order. An empty contextID
// lists every todo.
func (t *tx) ListTodos(contextID string) ([]*types.Todo, error) {
	query := todoSelect
	var args []any
	if contextID != "" {
		query += " WHERE context_id = ?"
		args = append(args, contextID)
	}
	rows, err := t.tx.Query(query+" ORDER BY created_at ASC", args...)
	if err != nil {
		return nil, fmt.Errorf("querying todos: %w", err)
	}
	defer rows.Close()

	var out []*types.Todo
	for rows.Next() {
		todo, err := hydrateTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating todo: %w", err)
		}
		out = append(out, todo)
	}
	return out, rows.Err()
}

func hydrateTodo(row scanner) (*types.Todo, error) {
	var (
		todo                 types.Todo
		dueDate, linked      sql.NullString
		tags                 string
		duration             sql.NullInt64
		createdAt, updatedAt string
	)
	if err := row.Scan(
		&todo.TodoID, &todo.ContextID, &todo.Title, &todo.Description, &todo.Status, &todo.Priority,
		&dueDate, &todo.DueTime, &tags, &duration, &todo.TrackedMinutes, &todo.HandedOffMinutes,
		&createdAt, &updatedAt, &linked,
	); err != nil {
		return nil, err
	}
	var err error
	if todo.DueDate, err = parseOptionalTime(dueDate); err != nil {
		return nil, fmt.Errorf("parsing due_date: %w", err)
	}
	if todo.Tags, err = decodeTags(tags); err != nil {
		return nil, err
	}
	if todo.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if todo.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	todo.DurationMinutes = parseOptionalInt(duration)
	todo.LinkedEventID = linked.String
	return &todo, nil
}
