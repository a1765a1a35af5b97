package tracking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/secondbrain/pkg/types"
)

func TestCreateContextDefaults(t *testing.T) {
	svc, _, c := setupService(t)
	assert.Equal(t, types.DefaultContextEmoji, c.Emoji)
	assert.Equal(t, types.DefaultContextColor, c.Color)
	assert.Zero(t, c.TotalTrackedMinutes)

	_, err := svc.CreateContext(context.Background(), NewContext{Name: "  "})
	assert.ErrorIs(t, err, types.ErrInvalidName)
}

func TestListContextsSortedByName(t *testing.T) {
	svc, _, _ := setupService(t)
	_, err := svc.CreateContext(context.Background(), NewContext{Name: "Health", Emoji: "Heart", Color: "#ff0000"})
	require.NoError(t, err)

	all, err := svc.ListContexts(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Health", all[0].Name)
	assert.Equal(t, "Heart", all[0].Emoji)
	assert.Equal(t, "Work", all[1].Name)
}

func TestDeleteContextCascades(t *testing.T) {
	svc, _, c := setupService(t)
	todo := createTodo(t, svc, c.ContextID, "Write", "1")
	ev := link(t, svc, todo.TodoID, "10:00", "").Event

	require.NoError(t, svc.DeleteContext(context.Background(), c.ContextID))

	_, err := svc.GetContext(context.Background(), c.ContextID)
	assert.ErrorIs(t, err, types.ErrContextNotFound)
	_, err = svc.GetTodo(context.Background(), todo.TodoID)
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = svc.GetEvent(context.Background(), ev.EventID)
	assert.ErrorIs(t, err, types.ErrNotFound)

	assert.ErrorIs(t, svc.DeleteContext(context.Background(), c.ContextID), types.ErrNotFound)
}

func TestOverview(t *testing.T) {
	svc, _, c := setupService(t)
	a := createTodo(t, svc, c.ContextID, "A", "1")
	createTodo(t, svc, c.ContextID, "B", "")
	link(t, svc, a.TodoID, "10:00", "")
	setStatus(t, svc, a.TodoID, types.StatusDone)
	_, err := svc.CreateEvent(context.Background(), NewEvent{ContextID: c.ContextID, Title: "Gym", Date: "2024-01-04", AllDay: true})
	require.NoError(t, err)

	ov, err := svc.Overview(context.Background(), c.ContextID)
	require.NoError(t, err)
	assert.Equal(t, 1, ov.TodosByStatus[types.StatusDone])
	assert.Equal(t, 1, ov.TodosByStatus[types.StatusTodo])
	assert.Equal(t, 0, ov.TodosByStatus[types.StatusInProgress])
	assert.Equal(t, 2, ov.EventCount)
	assert.Equal(t, 1, ov.CompletedEvents)
	assert.Equal(t, 1, ov.LinkedPairs)
	assert.Equal(t, 60, ov.TrackedMinutes)
}

func TestListEventsByRange(t *testing.T) {
	svc, _, c := setupService(t)
	mk := func(title, date string) {
		_, err := svc.CreateEvent(context.Background(), NewEvent{ContextID: c.ContextID, Title: title, Date: date, Time: "10:00"})
		require.NoError(t, err)
	}
	mk("sunday before", "2023-12-31")
	mk("monday", "2024-01-01")
	mk("today", "2024-01-03")
	mk("sunday", "2024-01-07")
	mk("next month", "2024-02-01")

	titles := func(q Query) []string {
		events, err := svc.ListEvents(context.Background(), c.ContextID, q)
		require.NoError(t, err)
		var out []string
		for _, e := range events {
			out = append(out, e.Title)
		}
		return out
	}

	assert.Equal(t, []string{"today"}, titles(Query{Range: "day"}))
	assert.Equal(t, []string{"monday", "today", "sunday"}, titles(Query{Range: "week"}))
	assert.Equal(t, []string{"monday", "today", "sunday"}, titles(Query{Range: "month"}))
	assert.Len(t, titles(Query{}), 5)
	assert.Equal(t, []string{"today"}, titles(Query{From: "2024-01-03", To: "2024-01-03"}),
		"a date-only upper bound covers the whole day")

	_, err := svc.ListEvents(context.Background(), c.ContextID, Query{Range: "fortnight"})
	assert.ErrorIs(t, err, types.ErrInvalidRange)
	_, err = svc.ListEvents(context.Background(), c.ContextID, Query{To: "tomorrow"})
	assert.ErrorIs(t, err, types.ErrInvalidDate)
}

func TestListTodosByDueDate(t *testing.T) {
	svc, _, c := setupService(t)
	mk := func(title, due string) {
		_, err := svc.CreateTodo(context.Background(), NewTodo{ContextID: c.ContextID, Title: title, DueDate: due})
		require.NoError(t, err)
	}
	mk("undated", "")
	mk("today", "2024-01-03")
	mk("next year", "2025-01-03")

	all, err := svc.ListTodos(context.Background(), c.ContextID, Query{Range: "all"})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	year, err := svc.ListTodos(context.Background(), c.ContextID, Query{Range: "year"})
	require.NoError(t, err)
	require.Len(t, year, 1)
	assert.Equal(t, "today", year[0].Title)

	_, err = svc.ListTodos(context.Background(), "missing", Query{})
	assert.ErrorIs(t, err, types.ErrContextNotFound)
}
