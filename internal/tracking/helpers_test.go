package tracking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/secondbrain/internal/sqlite"
	"github.com/mesh-intelligence/secondbrain/pkg/types"
)

// wednesday is the fixed clock for service tests: Wednesday 2024-01-03.
var wednesday = time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)

func setupBackend(t *testing.T) *sqlite.Backend {
	t.Helper()
	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { b.Detach() })
	return b
}

// setupService returns a Service over a fresh backend and one empty context.
func setupService(t *testing.T) (*Service, *sqlite.Backend, *types.Context) {
	t.Helper()
	b := setupBackend(t)
	svc := NewService(b, WithLocation(time.UTC), WithClock(func() time.Time { return wednesday }))
	c, err := svc.CreateContext(context.Background(), NewContext{Name: "Work"})
	require.NoError(t, err)
	return svc, b, c
}

func total(t *testing.T, svc *Service, contextID string) int {
	t.Helper()
	c, err := svc.GetContext(context.Background(), contextID)
	require.NoError(t, err)
	return c.TotalTrackedMinutes
}

func createTodo(t *testing.T, svc *Service, contextID, title, hours string) *types.Todo {
	t.Helper()
	res, err := svc.CreateTodo(context.Background(), NewTodo{ContextID: contextID, Title: title, DurationHours: hours})
	require.NoError(t, err)
	return res.Todo
}

func link(t *testing.T, svc *Service, todoID, clock, hours string) *Result {
	t.Helper()
	res, err := svc.LinkTodoToEvent(context.Background(), todoID, LinkParams{Date: "2024-01-03", Time: clock, DurationHours: hours})
	require.NoError(t, err)
	return res
}

func setStatus(t *testing.T, svc *Service, todoID, status string) *Result {
	t.Helper()
	res, err := svc.SetTodoStatus(context.Background(), todoID, status)
	require.NoError(t, err)
	return res
}

func ptr[T any](v T) *T { return &v }
