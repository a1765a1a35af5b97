package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/secondbrain/pkg/types"
)

func seedSnapshot(t *testing.T, b *Backend) (*types.Context, *types.Todo, *types.Event) {
	t.Helper()
	tx, err := b.Begin(context.Background())
	require.NoError(t, err)
	c := newContext(t, tx, "Work")
	c.TotalTrackedMinutes = 60
	require.NoError(t, tx.SaveContext(c))
	todo := newTodo(t, tx, c.ContextID, "Write")
	todo.Status = types.StatusDone
	todo.TrackedMinutes = 60
	require.NoError(t, tx.SaveTodo(todo))
	e := newEvent(t, tx, c.ContextID, "Write", time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC))
	require.NoError(t, tx.InsertLink(todo.TodoID, e.EventID))
	require.NoError(t, tx.Commit())
	return c, todo, e
}

func TestExportImportRoundTrip(t *testing.T) {
	src := setupBackend(t)
	c, todo, e := seedSnapshot(t, src)
	dir := t.TempDir()

	stats, err := src.Export(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, SnapshotStats{Contexts: 1, Todos: 1, Events: 1, Links: 1}, stats)
	for _, name := range []string{ContextsFile, TodosFile, EventsFile, LinksFile} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	dst := setupBackend(t)
	stats, err = dst.Import(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Links)

	tx := begin(t, dst)
	gotContext, err := tx.GetContext(c.ContextID)
	require.NoError(t, err)
	assert.Equal(t, 60, gotContext.TotalTrackedMinutes)
	gotTodo, err := tx.GetTodo(todo.TodoID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusDone, gotTodo.Status)
	assert.Equal(t, 60, gotTodo.TrackedMinutes)
	assert.Equal(t, e.EventID, gotTodo.LinkedEventID)
}

func TestImportIsTransactional(t *testing.T) {
	dir := t.TempDir()
	contexts := `{"id":"c1","name":"Work","emoji":"x","color":"#000"}` + "\n"
	// The todo references a context that does not exist.
	todos := `{"id":"t1","contextId":"missing","title":"x","status":"todo","priority":"low"}` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ContextsFile), []byte(contexts), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, TodosFile), []byte(todos), 0644))

	b := setupBackend(t)
	_, err := b.Import(context.Background(), dir)
	require.Error(t, err)

	tx := begin(t, b)
	all, err := tx.ListContexts()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestImportEmptyDir(t *testing.T) {
	b := setupBackend(t)
	stats, err := b.Import(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, SnapshotStats{}, stats)
}
