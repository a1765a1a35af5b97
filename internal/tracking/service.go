// Package tracking keeps each context's tracked-time aggregate consistent as
// todos are completed, scheduled on the calendar, re-timed and deleted.
//
// Every exported Service method runs in one store transaction: durations are
// resolved first, the ledger delta is applied, fields are mirrored across a
// link and the records are written. Any failure rolls all of it back.
//
// Attribution is carried per item in TrackedMinutes. For a linked pair the
// todo carries the pair's minutes and the event carries zero, so time is
// never counted on both sides.
package tracking

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/mesh-intelligence/secondbrain/internal/daterange"
	"github.com/mesh-intelligence/secondbrain/pkg/types"
)

// Service is the time-accounting core consumed by the HTTP and CLI layers.
type Service struct {
	store  types.Store
	logger *log.Logger
	dates  *daterange.Resolver
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for warnings about ignored input.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithLocation sets the zone in which dates without an offset are read.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.dates.Location = loc }
}

// WithClock replaces the wall clock used for range keywords and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.dates.Now = now }
}

// NewService returns a Service over store.
func NewService(store types.Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: log.New(io.Discard, "", 0),
		dates:  daterange.NewResolver(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result carries the records touched by a mutation. Context reflects the
// aggregate after the ledger delta.
type Result struct {
	Todo    *types.Todo    `json:"todo,omitempty"`
	Event   *types.Event   `json:"event,omitempty"`
	Context *types.Context `json:"context,omitempty"`
}

// op is the per-transaction working set.
type op struct {
	tx     types.Tx
	links  *linkRegistry
	ledger *Ledger
}

func (s *Service) inTx(ctx context.Context, fn func(o *op) error) error {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	o := &op{tx: tx, links: newLinkRegistry(tx), ledger: NewLedger(tx)}
	if err := fn(o); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Ping checks that the store can open a transaction.
func (s *Service) Ping(ctx context.Context) error {
	return s.inTx(ctx, func(o *op) error {
		_, err := o.tx.ListContexts()
		return err
	})
}

func (s *Service) location() *time.Location {
	if s.dates.Location == nil {
		return time.Local
	}
	return s.dates.Location
}

func (s *Service) now() time.Time {
	if s.dates.Now == nil {
		return time.Now().UTC()
	}
	return s.dates.Now().UTC()
}

func (s *Service) warnf(format string, args ...any) {
	s.logger.Printf("warning: "+format, args...)
}

func requireID(kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%s id is empty: %w", kind, types.ErrInvalidID)
	}
	return nil
}

// todoPair loads a todo and, when it is scheduled, its event. The link table
// is consulted through the registry so a broken one-to-one shape surfaces
// as a conflict instead of being silently picked from.
func (o *op) todoPair(todoID string) (*types.Todo, *types.Event, error) {
	todo, err := o.tx.GetTodo(todoID)
	if err != nil {
		return nil, nil, err
	}
	eventID, err := o.links.LinkedEvent(todoID)
	if err != nil {
		return nil, nil, err
	}
	todo.LinkedEventID = eventID
	if eventID == "" {
		return todo, nil, nil
	}
	event, err := o.tx.GetEvent(eventID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading linked event %s: %w", eventID, err)
	}
	return todo, event, nil
}

// eventPair is todoPair seen from the event side.
func (o *op) eventPair(eventID string) (*types.Event, *types.Todo, error) {
	event, err := o.tx.GetEvent(eventID)
	if err != nil {
		return nil, nil, err
	}
	todoID, err := o.links.LinkedTodo(eventID)
	if err != nil {
		return nil, nil, err
	}
	event.LinkedTodoID = todoID
	if todoID == "" {
		return event, nil, nil
	}
	todo, err := o.tx.GetTodo(todoID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading linked todo %s: %w", todoID, err)
	}
	return event, todo, nil
}

// todoMinutes is the duration a todo accounts for. A linked todo keeps its
// duration in step with the event, so the event span is only a fallback.
func todoMinutes(todo *types.Todo, event *types.Event) int {
	var span *types.Span
	if event != nil {
		sp := event.Span()
		span = &sp
	}
	m, _ := Resolve(todo.DurationMinutes, span, nil)
	return m
}

// eventMinutes is the duration an event accounts for on its own.
func eventMinutes(event *types.Event) int {
	sp := event.Span()
	m, _ := Resolve(event.DurationMinutes, &sp, nil)
	return m
}

// settleTodo brings the todo's attribution in line with its state. A linked
// event never carries anything itself. Minutes already handed off to a kept
// event are not counted again.
func (o *op) settleTodo(todo *types.Todo, event *types.Event) error {
	want := 0
	if todo.Done() {
		want = max(0, todoMinutes(todo, event)-todo.HandedOffMinutes)
	}
	if err := o.ledger.settle(todo.ContextID, &todo.TrackedMinutes, want); err != nil {
		return err
	}
	if event != nil && event.TrackedMinutes != 0 {
		return o.ledger.settle(event.ContextID, &event.TrackedMinutes, 0)
	}
	return nil
}

// settleEvent brings an unlinked event's attribution in line with its state.
func (o *op) settleEvent(event *types.Event) error {
	want := 0
	if event.Completed {
		want = eventMinutes(event)
	}
	return o.ledger.settle(event.ContextID, &event.TrackedMinutes, want)
}

func (o *op) save(todo *types.Todo, event *types.Event) error {
	if todo != nil {
		if err := o.tx.SaveTodo(todo); err != nil {
			return fmt.Errorf("saving todo: %w", err)
		}
	}
	if event != nil {
		if err := o.tx.SaveEvent(event); err != nil {
			return fmt.Errorf("saving event: %w", err)
		}
	}
	return nil
}

// result assembles the returned records, reloading the owning context so the
// caller sees the aggregate after this operation.
func (o *op) result(contextID string, todo *types.Todo, event *types.Event) (*Result, error) {
	r := &Result{}
	if todo != nil {
		r.Todo = todo.Clone()
	}
	if event != nil {
		r.Event = event.Clone()
	}
	c, err := o.tx.GetContext(contextID)
	if err != nil {
		return nil, fmt.Errorf("reloading context %s: %w", contextID, err)
	}
	r.Context = c
	return r, nil
}
