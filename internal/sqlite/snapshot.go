package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/secondbrain/pkg/types"
)

// Snapshot file names, in load order: records must follow the records they
// reference.
const (
	ContextsFile = "contexts.jsonl"
	TodosFile    = "todos.jsonl"
	EventsFile   = "events.jsonl"
	LinksFile    = "links.jsonl"
)

// SnapshotStats counts the records written or read by a snapshot.
type SnapshotStats struct {
	Contexts int `json:"contexts"`
	Todos    int `json:"todos"`
	Events   int `json:"events"`
	Links    int `json:"links"`
}

// Export writes every record to JSONL files in dir, one file per table.
// Each file is replaced atomically.
func (b *Backend) Export(ctx context.Context, dir string) (SnapshotStats, error) {
	var stats SnapshotStats
	if err := os.MkdirAll(dir, 0755); err != nil {
		return stats, fmt.Errorf("creating snapshot dir: %w", err)
	}

	t, err := b.Begin(ctx)
	if err != nil {
		return stats, err
	}
	defer t.Rollback()

	contexts, err := t.ListContexts()
	if err != nil {
		return stats, err
	}
	todos, err := t.ListTodos("")
	if err != nil {
		return stats, err
	}
	events, err := t.ListEvents("")
	if err != nil {
		return stats, err
	}
	links, err := t.ListLinks()
	if err != nil {
		return stats, err
	}

	if err := writeSnapshotFile(dir, ContextsFile, contexts); err != nil {
		return stats, err
	}
	if err := writeSnapshotFile(dir, TodosFile, todos); err != nil {
		return stats, err
	}
	if err := writeSnapshotFile(dir, EventsFile, events); err != nil {
		return stats, err
	}
	if err := writeSnapshotFile(dir, LinksFile, links); err != nil {
		return stats, err
	}
	stats = SnapshotStats{Contexts: len(contexts), Todos: len(todos), Events: len(events), Links: len(links)}
	return stats, t.Commit()
}

func writeSnapshotFile[T any](dir, name string, records []T) error {
	raw := make([]json.RawMessage, 0, len(records))
	for _, r := range records {
		b, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encoding %s record: %w", name, err)
		}
		raw = append(raw, b)
	}
	if err := writeJSONL(filepath.Join(dir, name), raw); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// Import loads JSONL files from dir into the store. Records with a known ID
// are overwritten. Loading is transactional: either every record is applied
// or none are. Malformed lines are skipped and unknown fields are ignored.
func (b *Backend) Import(ctx context.Context, dir string) (SnapshotStats, error) {
	var stats SnapshotStats

	contexts, err := readSnapshotFile[types.Context](dir, ContextsFile)
	if err != nil {
		return stats, err
	}
	todos, err := readSnapshotFile[types.Todo](dir, TodosFile)
	if err != nil {
		return stats, err
	}
	events, err := readSnapshotFile[types.Event](dir, EventsFile)
	if err != nil {
		return stats, err
	}
	links, err := readSnapshotFile[types.Link](dir, LinksFile)
	if err != nil {
		return stats, err
	}

	t, err := b.Begin(ctx)
	if err != nil {
		return stats, err
	}
	defer t.Rollback()

	for _, c := range contexts {
		if err := t.SaveContext(c); err != nil {
			return stats, fmt.Errorf("loading context %s: %w", c.ContextID, err)
		}
	}
	for _, todo := range todos {
		if err := t.SaveTodo(todo); err != nil {
			return stats, fmt.Errorf("loading todo %s: %w", todo.TodoID, err)
		}
	}
	for _, e := range events {
		if err := t.SaveEvent(e); err != nil {
			return stats, fmt.Errorf("loading event %s: %w", e.EventID, err)
		}
	}
	for _, l := range links {
		if err := t.InsertLink(l.TodoID, l.EventID); err != nil {
			return stats, fmt.Errorf("loading link %s/%s: %w", l.TodoID, l.EventID, err)
		}
	}
	if err := t.Commit(); err != nil {
		return stats, fmt.Errorf("committing import: %w", err)
	}
	return SnapshotStats{Contexts: len(contexts), Todos: len(todos), Events: len(events), Links: len(links)}, nil
}

func readSnapshotFile[T any](dir, name string) ([]*T, error) {
	raw, err := readJSONL(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	out := make([]*T, 0, len(raw))
	for _, r := range raw {
		v := new(T)
		if err := json.Unmarshal(r, v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}
