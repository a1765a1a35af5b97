package types

import (
	"context"
	"time"
)

// Link is one row of the todo/event association. The table has a
// many-to-many shape; the tracking core keeps it one-to-one.
type Link struct {
	TodoID    string    `json:"todoId"`
	EventID   string    `json:"eventId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store is the record store consumed by the tracking core. Every core
// operation runs inside exactly one transaction obtained from Begin.
type Store interface {
	// Begin opens a transaction. The caller must end it with Commit or
	// Rollback; Rollback after Commit is a no-op.
	Begin(ctx context.Context) (Tx, error)
}

// Tx provides load/save of contexts, todos, events and links within a
// single transaction. Get methods return an error wrapping ErrNotFound when
// the record does not exist. Save methods insert when the ID is empty
// (generating one) and update otherwise.
type Tx interface {
	GetContext(id string) (*Context, error)
	SaveContext(c *Context) error
	// DeleteContext removes the context together with its todos, events
	// and links.
	DeleteContext(id string) error
	ListContexts() ([]*Context, error)

	// GetTodo hydrates LinkedEventID from the link table.
	GetTodo(id string) (*Todo, error)
	SaveTodo(t *Todo) error
	// DeleteTodo removes the todo and any link rows that reference it.
	DeleteTodo(id string) error
	ListTodos(contextID string) ([]*Todo, error)

	// GetEvent hydrates LinkedTodoID from the link table.
	GetEvent(id string) (*Event, error)
	SaveEvent(e *Event) error
	// DeleteEvent removes the event and any link rows that reference it.
	DeleteEvent(id string) error
	ListEvents(contextID string) ([]*Event, error)

	// LinkedEvents returns every event ID linked to the todo.
	LinkedEvents(todoID string) ([]string, error)
	// LinkedTodos returns every todo ID linked to the event.
	LinkedTodos(eventID string) ([]string, error)
	InsertLink(todoID, eventID string) error
	// DeleteLink returns an error wrapping ErrNotFound when the pair is not
	// linked.
	DeleteLink(todoID, eventID string) error
	ListLinks() ([]*Link, error)

	Commit() error
	Rollback() error
}
