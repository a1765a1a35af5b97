package tracking

import (
	"fmt"

	"github.com/mesh-intelligence/secondbrain/pkg/types"
)

// linkRegistry keeps the todo/event association one-to-one on top of a link
// table that could hold many rows per side. Every mutation re-checks both
// directions before writing.
type linkRegistry struct {
	tx types.Tx
}

func newLinkRegistry(tx types.Tx) *linkRegistry {
	return &linkRegistry{tx: tx}
}

// LinkedEvent returns the event scheduled for the todo, or "".
func (r *linkRegistry) LinkedEvent(todoID string) (string, error) {
	ids, err := r.tx.LinkedEvents(todoID)
	if err != nil {
		return "", fmt.Errorf("reading links of todo %s: %w", todoID, err)
	}
	return single("todo", todoID, ids)
}

// LinkedTodo returns the todo scheduled by the event, or "".
func (r *linkRegistry) LinkedTodo(eventID string) (string, error) {
	ids, err := r.tx.LinkedTodos(eventID)
	if err != nil {
		return "", fmt.Errorf("reading links of event %s: %w", eventID, err)
	}
	return single("event", eventID, ids)
}

func single(kind, id string, ids []string) (string, error) {
	switch len(ids) {
	case 0:
		return "", nil
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%s %s has %d links: %w", kind, id, len(ids), types.ErrConflict)
	}
}

// Link associates an unlinked todo with an unlinked event and copies the
// todo's descriptive fields and completion state onto the event.
func (r *linkRegistry) Link(todo *types.Todo, event *types.Event) error {
	if todo.ContextID != event.ContextID {
		return fmt.Errorf("todo %s and event %s belong to different contexts: %w",
			todo.TodoID, event.EventID, types.ErrConflict)
	}
	if cur, err := r.LinkedEvent(todo.TodoID); err != nil {
		return err
	} else if cur != "" {
		return fmt.Errorf("todo %s: %w", todo.TodoID, types.ErrAlreadyLinked)
	}
	if cur, err := r.LinkedTodo(event.EventID); err != nil {
		return err
	} else if cur != "" {
		return fmt.Errorf("event %s: %w", event.EventID, types.ErrAlreadyLinked)
	}
	if err := r.tx.InsertLink(todo.TodoID, event.EventID); err != nil {
		return fmt.Errorf("inserting link: %w", err)
	}
	todo.LinkedEventID = event.EventID
	event.LinkedTodoID = todo.TodoID
	MirrorFields(todo, event, OriginTodo)
	MirrorCompletion(todo, event, OriginTodo)
	return nil
}

// Unlink removes the association. Unless keepEvent is set the event is
// deleted as well.
func (r *linkRegistry) Unlink(todo *types.Todo, event *types.Event, keepEvent bool) error {
	cur, err := r.LinkedEvent(todo.TodoID)
	if err != nil {
		return err
	}
	if cur != event.EventID {
		return fmt.Errorf("todo %s and event %s: %w", todo.TodoID, event.EventID, types.ErrNotLinked)
	}
	if keepEvent {
		if err := r.tx.DeleteLink(todo.TodoID, event.EventID); err != nil {
			return fmt.Errorf("deleting link: %w", err)
		}
	} else if err := r.tx.DeleteEvent(event.EventID); err != nil {
		return fmt.Errorf("deleting event %s: %w", event.EventID, err)
	}
	todo.LinkedEventID = ""
	event.LinkedTodoID = ""
	return nil
}

// Replace clears the way for a new link: the todo's current event, if any,
// is deleted rather than detached. It returns the removed event.
func (r *linkRegistry) Replace(todo *types.Todo) (*types.Event, error) {
	cur, err := r.LinkedEvent(todo.TodoID)
	if err != nil || cur == "" {
		return nil, err
	}
	prior, err := r.tx.GetEvent(cur)
	if err != nil {
		return nil, fmt.Errorf("loading linked event %s: %w", cur, err)
	}
	if err := r.Unlink(todo, prior, false); err != nil {
		return nil, err
	}
	return prior, nil
}
