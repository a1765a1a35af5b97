package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/secondbrain/pkg/types"
)

func TestMirrorFields(t *testing.T) {
	t.Run("from todo", func(t *testing.T) {
		todo := &types.Todo{Title: "Write", Description: "draft", Tags: []string{"a"}}
		event := &types.Event{Title: "old", Description: "keep", Tags: []string{"z"}}
		MirrorFields(todo, event, OriginTodo)
		assert.Equal(t, "Write", event.Title)
		assert.Equal(t, "draft", event.Description)
		assert.Equal(t, []string{"a"}, event.Tags)

		todo.Tags[0] = "changed"
		assert.Equal(t, "a", event.Tags[0], "tags must not alias")
	})

	t.Run("empty description is not copied", func(t *testing.T) {
		todo := &types.Todo{Title: "Write"}
		event := &types.Event{Description: "keep"}
		MirrorFields(todo, event, OriginTodo)
		assert.Equal(t, "keep", event.Description)
	})

	t.Run("from event", func(t *testing.T) {
		todo := &types.Todo{Title: "old", Description: "keep"}
		event := &types.Event{Title: "Meet", Tags: []string{"x"}}
		MirrorFields(todo, event, OriginEvent)
		assert.Equal(t, "Meet", todo.Title)
		assert.Equal(t, "keep", todo.Description)
		assert.Equal(t, []string{"x"}, todo.Tags)
	})
}

func TestMirrorCompletion(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		completed  bool
		from       Origin
		wantStatus string
		wantDone   bool
	}{
		{"todo done completes event", types.StatusDone, false, OriginTodo, types.StatusDone, true},
		{"todo in progress uncompletes event", types.StatusInProgress, true, OriginTodo, types.StatusInProgress, false},
		{"event completed marks todo done", types.StatusInProgress, true, OriginEvent, types.StatusDone, true},
		{"event uncompleted reopens done todo", types.StatusDone, false, OriginEvent, types.StatusTodo, false},
		{"event uncompleted leaves in progress alone", types.StatusInProgress, false, OriginEvent, types.StatusInProgress, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			todo := &types.Todo{Status: tt.status}
			event := &types.Event{Completed: tt.completed}
			MirrorCompletion(todo, event, tt.from)
			assert.Equal(t, tt.wantStatus, todo.Status)
			assert.Equal(t, tt.wantDone, event.Completed)
		})
	}
}
