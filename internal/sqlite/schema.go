package sqlite

import (
	"database/sql"
	"fmt"
)

// Schema DDL for all tables.
const (
	createContexts = `CREATE TABLE IF NOT EXISTS contexts (
    context_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    emoji TEXT NOT NULL,
    color TEXT NOT NULL,
    total_tracked_minutes INTEGER NOT NULL DEFAULT 0 CHECK (total_tracked_minutes >= 0),
    created_at TEXT NOT NULL
);`

	createTodos = `CREATE TABLE IF NOT EXISTS todos (
    todo_id TEXT PRIMARY KEY,
    context_id TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    priority TEXT NOT NULL,
    due_date TEXT,
    due_time TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '[]',
    duration_minutes INTEGER,
    tracked_minutes INTEGER NOT NULL DEFAULT 0,
    handed_off_minutes INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    FOREIGN KEY (context_id) REFERENCES contexts(context_id) ON DELETE CASCADE
);`

	createEvents = `CREATE TABLE IF NOT EXISTS events (
    event_id TEXT PRIMARY KEY,
    context_id TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    start_date TEXT NOT NULL,
    end_date TEXT,
    all_day INTEGER NOT NULL DEFAULT 0,
    completed INTEGER NOT NULL DEFAULT 0,
    tags TEXT NOT NULL DEFAULT '[]',
    recurring INTEGER NOT NULL DEFAULT 0,
    recurrence_type TEXT NOT NULL DEFAULT '',
    recurrence_end_date TEXT,
    duration_minutes INTEGER,
    tracked_minutes INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    FOREIGN KEY (context_id) REFERENCES contexts(context_id) ON DELETE CASCADE
);`

	// The link table has a many-to-many shape; one-to-one is enforced by
	// the tracking core.
	createTodoEventLinks = `CREATE TABLE IF NOT EXISTS todo_event_links (
    todo_id TEXT NOT NULL,
    event_id TEXT NOT NULL,
    created_at TEXT NOT NULL,
    PRIMARY KEY (todo_id, event_id),
    FOREIGN KEY (todo_id) REFERENCES todos(todo_id) ON DELETE CASCADE,
    FOREIGN KEY (event_id) REFERENCES events(event_id) ON DELETE CASCADE
);`
)

// Index DDL for common queries.
const (
	idxTodosContext  = `CREATE INDEX IF NOT EXISTS idx_todos_context ON todos(context_id);`
	idxEventsContext = `CREATE INDEX IF NOT EXISTS idx_events_context ON events(context_id);`
	idxEventsStart   = `CREATE INDEX IF NOT EXISTS idx_events_start ON events(context_id, start_date);`
	idxLinksEvent    = `CREATE INDEX IF NOT EXISTS idx_todo_event_links_event ON todo_event_links(event_id);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createContexts,
	createTodos,
	createEvents,
	createTodoEventLinks,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxTodosContext,
	idxEventsContext,
	idxEventsStart,
	idxLinksEvent,
}

// initSchema creates any missing tables and indexes.
func initSchema(db *sql.DB) error {
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("creating table: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}
	return nil
}
