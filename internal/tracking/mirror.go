package tracking

import (
	"slices"

	"github.com/mesh-intelligence/secondbrain/pkg/types"
)

// Origin names the side of a link that was the subject of the request.
// Mirroring always flows from the origin, never back to it.
type Origin int

const (
	OriginTodo Origin = iota
	OriginEvent
)

// MirrorFields copies title, a non-empty description and tags from the
// origin side to the other side.
func MirrorFields(todo *types.Todo, event *types.Event, from Origin) {
	switch from {
	case OriginTodo:
		event.Title = todo.Title
		if todo.Description != "" {
			event.Description = todo.Description
		}
		event.Tags = slices.Clone(todo.Tags)
	case OriginEvent:
		todo.Title = event.Title
		if event.Description != "" {
			todo.Description = event.Description
		}
		todo.Tags = slices.Clone(event.Tags)
	}
}

// MirrorCompletion copies completion state from the origin side. An event
// that is un-completed moves a done todo back to "todo"; other statuses are
// left alone.
func MirrorCompletion(todo *types.Todo, event *types.Event, from Origin) {
	switch from {
	case OriginTodo:
		event.Completed = todo.Done()
	case OriginEvent:
		switch {
		case event.Completed:
			todo.Status = types.StatusDone
		case todo.Done():
			todo.Status = types.StatusTodo
		}
	}
}
