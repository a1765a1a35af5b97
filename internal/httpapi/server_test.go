package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/secondbrain/internal/sqlite"
	"github.com/mesh-intelligence/secondbrain/internal/tracking"
	"github.com/mesh-intelligence/secondbrain/pkg/types"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Count   int             `json:"count"`
	Data    json.RawMessage `json:"data"`
}

type testAPI struct {
	t       *testing.T
	backend *sqlite.Backend
	handler http.Handler
}

func setupAPI(t *testing.T) *testAPI {
	t.Helper()
	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { b.Detach() })

	now := time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)
	svc := tracking.NewService(b, tracking.WithLocation(time.UTC), tracking.WithClock(func() time.Time { return now }))
	srv := NewServer(svc, log.New(io.Discard, "", 0), gin.TestMode)
	return &testAPI{t: t, backend: b, handler: srv.Handler()}
}

func (a *testAPI) do(method, path string, body any) (int, envelope) {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)

	var env envelope
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func (a *testAPI) context(name string) *types.Context {
	a.t.Helper()
	code, env := a.do(http.MethodPost, "/api/contexts", map[string]any{"name": name})
	require.Equal(a.t, http.StatusCreated, code, env.Message)
	return decode[*types.Context](a.t, env)
}

func (a *testAPI) total(contextID string) int {
	a.t.Helper()
	code, env := a.do(http.MethodGet, "/api/contexts/"+contextID, nil)
	require.Equal(a.t, http.StatusOK, code, env.Message)
	return decode[*types.Context](a.t, env).TotalTrackedMinutes
}

func TestHealth(t *testing.T) {
	a := setupAPI(t)

	code, env := a.do(http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.Equal(t, "connected", decode[map[string]string](t, env)["database"])

	require.NoError(t, a.backend.Detach())
	code, env = a.do(http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.False(t, env.Success)
}

func TestContextEndpoints(t *testing.T) {
	a := setupAPI(t)
	work := a.context("Work")
	a.context("Home")

	assert.Equal(t, "Briefcase", work.Emoji)
	assert.Equal(t, "#000000", work.Color)

	code, env := a.do(http.MethodGet, "/api/contexts", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, env.Count)
	names := decode[[]*types.Context](t, env)
	assert.Equal(t, "Home", names[0].Name)

	code, env = a.do(http.MethodPost, "/api/contexts", map[string]any{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Message)

	code, env = a.do(http.MethodGet, "/api/contexts/"+work.ContextID+"/overview", nil)
	require.Equal(t, http.StatusOK, code)
	ov := decode[*types.Overview](t, env)
	assert.Equal(t, 0, ov.TrackedMinutes)

	code, _ = a.do(http.MethodDelete, "/api/contexts/"+work.ContextID, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = a.do(http.MethodGet, "/api/contexts/"+work.ContextID, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestTodoLifecycle(t *testing.T) {
	a := setupAPI(t)
	work := a.context("Work")

	code, env := a.do(http.MethodPost, "/api/todos", map[string]any{
		"contextId": work.ContextID,
		"title":     "Write report",
		"duration":  0.75,
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	todo := decode[tracking.Result](t, env).Todo
	require.NotNil(t, todo.DurationMinutes)
	assert.Equal(t, 45, *todo.DurationMinutes)

	code, env = a.do(http.MethodPut, "/api/todos/"+todo.TodoID+"/status", map[string]any{"status": "done"})
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Equal(t, 45, decode[tracking.Result](t, env).Context.TotalTrackedMinutes)

	code, env = a.do(http.MethodPut, "/api/todos/"+todo.TodoID+"/duration", map[string]any{"duration": "2"})
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Equal(t, 120, a.total(work.ContextID))

	code, env = a.do(http.MethodPut, "/api/todos/"+todo.TodoID, map[string]any{"title": "Final report"})
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Equal(t, "Final report", decode[tracking.Result](t, env).Todo.Title)

	code, env = a.do(http.MethodGet, "/api/contexts/"+work.ContextID+"/todos?range=all", nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Equal(t, 1, env.Count)

	code, env = a.do(http.MethodDelete, "/api/todos/"+todo.TodoID, nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Equal(t, 0, a.total(work.ContextID))

	code, _ = a.do(http.MethodGet, "/api/todos/"+todo.TodoID, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestLinkAndUnlink(t *testing.T) {
	a := setupAPI(t)
	work := a.context("Work")

	_, env := a.do(http.MethodPost, "/api/todos", map[string]any{"contextId": work.ContextID, "title": "Plan"})
	todo := decode[tracking.Result](t, env).Todo

	code, env := a.do(http.MethodPost, "/api/todos/"+todo.TodoID+"/link", map[string]any{
		"date":     "2024-01-03",
		"time":     "09:00",
		"duration": 1.5,
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	linked := decode[tracking.Result](t, env)
	require.NotNil(t, linked.Event)
	assert.Equal(t, linked.Event.EventID, linked.Todo.LinkedEventID)
	assert.Equal(t, 90, *linked.Todo.DurationMinutes)

	_, env = a.do(http.MethodPut, "/api/events/"+linked.Event.EventID, map[string]any{"completed": true})
	res := decode[tracking.Result](t, env)
	assert.Equal(t, types.StatusDone, res.Todo.Status)
	assert.Equal(t, 90, a.total(work.ContextID))

	code, env = a.do(http.MethodDelete, "/api/todos/"+todo.TodoID+"/link/"+linked.Event.EventID+"?keepEvent=true", nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Equal(t, 90, a.total(work.ContextID))

	code, _ = a.do(http.MethodDelete, "/api/todos/"+todo.TodoID+"/link/"+linked.Event.EventID, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = a.do(http.MethodDelete, "/api/todos/"+todo.TodoID+"?preserveTime=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = a.do(http.MethodDelete, "/api/events/"+linked.Event.EventID+"?preserveTime=true", nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Equal(t, 90, a.total(work.ContextID))
}

func TestEventEndpoints(t *testing.T) {
	a := setupAPI(t)
	work := a.context("Work")

	code, env := a.do(http.MethodPost, "/api/events", map[string]any{
		"contextId": work.ContextID,
		"title":     "Standup",
		"date":      "2024-01-03",
		"time":      "10:00",
		"duration":  "0.5",
		"completed": true,
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	event := decode[tracking.Result](t, env).Event
	assert.Equal(t, 30, a.total(work.ContextID))

	code, env = a.do(http.MethodGet, "/api/contexts/"+work.ContextID+"/events?from=2024-01-01&to=2024-01-31", nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Equal(t, 1, env.Count)

	code, _ = a.do(http.MethodGet, "/api/contexts/"+work.ContextID+"/events?range=fortnight", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = a.do(http.MethodPost, "/api/events", map[string]any{
		"contextId": work.ContextID,
		"title":     "Bad",
		"date":      "not-a-date",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = a.do(http.MethodDelete, "/api/events/"+event.EventID, nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Equal(t, 0, a.total(work.ContextID))
}

func TestMalformedBody(t *testing.T) {
	a := setupAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/todos", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	code, _ := a.do(http.MethodPut, "/api/todos/x/duration", map[string]any{"duration": true})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{types.ErrTodoNotFound, http.StatusNotFound},
		{fmt.Errorf("loading: %w", types.ErrEventNotFound), http.StatusNotFound},
		{types.ErrInvalidDuration, http.StatusBadRequest},
		{types.ErrAlreadyLinked, http.StatusConflict},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestHoursDecoding(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`1.5`, "1.5"},
		{`"2"`, "2"},
		{`""`, ""},
		{`null`, ""},
	}
	for _, tt := range tests {
		var h hours
		require.NoError(t, json.Unmarshal([]byte(tt.in), &h))
		assert.Equal(t, tt.want, string(h), tt.in)
	}

	var h hours
	assert.Error(t, json.Unmarshal([]byte(`[1]`), &h))
}

func TestUpdateWithNullDurationClears(t *testing.T) {
	a := setupAPI(t)
	work := a.context("Work")

	_, env := a.do(http.MethodPost, "/api/todos", map[string]any{"contextId": work.ContextID, "title": "Read", "duration": 1})
	todo := decode[tracking.Result](t, env).Todo

	code, env := a.do(http.MethodPut, "/api/todos/"+todo.TodoID, map[string]any{"title": "Read more"})
	require.Equal(t, http.StatusOK, code, env.Message)
	require.NotNil(t, decode[tracking.Result](t, env).Todo.DurationMinutes, "absent duration is left alone")

	code, env = a.do(http.MethodPut, "/api/todos/"+todo.TodoID, map[string]any{"duration": nil})
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Nil(t, decode[tracking.Result](t, env).Todo.DurationMinutes)

	_, env = a.do(http.MethodPost, "/api/events", map[string]any{
		"contextId": work.ContextID,
		"title":     "Standup",
		"date":      "2024-01-03",
		"time":      "10:00",
		"duration":  "0.5",
	})
	event := decode[tracking.Result](t, env).Event
	require.NotNil(t, event.DurationMinutes)

	code, env = a.do(http.MethodPut, "/api/events/"+event.EventID, map[string]any{"duration": nil})
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Nil(t, decode[tracking.Result](t, env).Event.DurationMinutes)

	// A linked todo cannot go without a duration and keeps its previous one.
	_, env = a.do(http.MethodPost, "/api/todos", map[string]any{"contextId": work.ContextID, "title": "Plan"})
	plan := decode[tracking.Result](t, env).Todo
	a.do(http.MethodPost, "/api/todos/"+plan.TodoID+"/link", map[string]any{"date": "2024-01-03", "time": "09:00", "duration": 1.5})

	code, env = a.do(http.MethodPut, "/api/todos/"+plan.TodoID, map[string]any{"duration": nil})
	require.Equal(t, http.StatusOK, code, env.Message)
	res := decode[tracking.Result](t, env)
	require.NotNil(t, res.Todo.DurationMinutes)
	assert.Equal(t, 90, *res.Todo.DurationMinutes)
	assert.Equal(t, 90, *res.Event.DurationMinutes)
}

func TestDurationHoursKey(t *testing.T) {
	a := setupAPI(t)
	work := a.context("Work")

	code, env := a.do(http.MethodPost, "/api/todos", map[string]any{
		"contextId":     work.ContextID,
		"title":         "Write",
		"durationHours": 2,
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	todo := decode[tracking.Result](t, env).Todo
	require.NotNil(t, todo.DurationMinutes)
	assert.Equal(t, 120, *todo.DurationMinutes)

	code, env = a.do(http.MethodPut, "/api/todos/"+todo.TodoID+"/duration", map[string]any{"durationHours": "0.5"})
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Equal(t, 30, *decode[tracking.Result](t, env).Todo.DurationMinutes)

	code, env = a.do(http.MethodPut, "/api/todos/"+todo.TodoID, map[string]any{"durationHours": 1, "duration": 3})
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Equal(t, 60, *decode[tracking.Result](t, env).Todo.DurationMinutes, "durationHours wins over duration")

	code, env = a.do(http.MethodPut, "/api/todos/"+todo.TodoID, map[string]any{"durationHours": nil})
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Nil(t, decode[tracking.Result](t, env).Todo.DurationMinutes)

	code, env = a.do(http.MethodPost, "/api/todos/"+todo.TodoID+"/link", map[string]any{
		"date":          "2024-01-03",
		"time":          "14:00",
		"durationHours": 0.75,
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	linked := decode[tracking.Result](t, env)
	assert.Equal(t, 45, *linked.Event.DurationMinutes)

	code, env = a.do(http.MethodPut, "/api/events/"+linked.Event.EventID, map[string]any{"durationHours": 1.25})
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Equal(t, 75, *decode[tracking.Result](t, env).Todo.DurationMinutes)

	code, env = a.do(http.MethodPost, "/api/events", map[string]any{
		"contextId":     work.ContextID,
		"title":         "Review",
		"date":          "2024-01-03",
		"time":          "16:00",
		"durationHours": "0.25",
		"completed":     true,
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	assert.Equal(t, 15, a.total(work.ContextID))
}

func TestOptionalHoursDecoding(t *testing.T) {
	var req updateTodoReq
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x"}`), &req))
	assert.Nil(t, optionalDurationOf(req.DurationHours, req.Duration))

	req = updateTodoReq{}
	require.NoError(t, json.Unmarshal([]byte(`{"duration":null}`), &req))
	got := optionalDurationOf(req.DurationHours, req.Duration)
	require.NotNil(t, got)
	assert.Equal(t, "", *got)

	req = updateTodoReq{}
	require.NoError(t, json.Unmarshal([]byte(`{"durationHours":"1.5","duration":2}`), &req))
	got = optionalDurationOf(req.DurationHours, req.Duration)
	require.NotNil(t, got)
	assert.Equal(t, "1.5", *got)

	assert.Equal(t, "2", durationOf("", "2"))
	assert.Equal(t, "1", durationOf("1", "2"))
}
