package tracking

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mesh-intelligence/secondbrain/internal/daterange"
	"github.com/mesh-intelligence/secondbrain/pkg/types"
)

// NewContext holds the fields for CreateContext. Empty Emoji and Color take
// the defaults.
type NewContext struct {
	Name  string
	Emoji string
	Color string
}

// Query filters list results by a range keyword (day, week, month, year,
// all) and optional inclusive from/to boundaries.
type Query struct {
	Range string
	From  string
	To    string
}

// CreateContext adds an empty context with a zero aggregate.
func (s *Service) CreateContext(ctx context.Context, in NewContext) (*types.Context, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("context name: %w", types.ErrInvalidName)
	}
	c := &types.Context{
		Name:      name,
		Emoji:     in.Emoji,
		Color:     in.Color,
		CreatedAt: s.now(),
	}
	if c.Emoji == "" {
		c.Emoji = types.DefaultContextEmoji
	}
	if c.Color == "" {
		c.Color = types.DefaultContextColor
	}
	err := s.inTx(ctx, func(o *op) error {
		if err := o.tx.SaveContext(c); err != nil {
			return fmt.Errorf("saving context: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetContext returns a context by ID.
func (s *Service) GetContext(ctx context.Context, contextID string) (*types.Context, error) {
	if err := requireID("context", contextID); err != nil {
		return nil, err
	}
	var c *types.Context
	err := s.inTx(ctx, func(o *op) error {
		var err error
		c, err = o.tx.GetContext(contextID)
		return err
	})
	return c, err
}

// ListContexts returns all contexts ordered by name.
func (s *Service) ListContexts(ctx context.Context) ([]*types.Context, error) {
	var out []*types.Context
	err := s.inTx(ctx, func(o *op) error {
		var err error
		out, err = o.tx.ListContexts()
		return err
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// DeleteContext removes a context with all of its todos, events and links.
func (s *Service) DeleteContext(ctx context.Context, contextID string) error {
	if err := requireID("context", contextID); err != nil {
		return err
	}
	return s.inTx(ctx, func(o *op) error {
		if _, err := o.tx.GetContext(contextID); err != nil {
			return err
		}
		if err := o.tx.DeleteContext(contextID); err != nil {
			return fmt.Errorf("deleting context %s: %w", contextID, err)
		}
		return nil
	})
}

// Overview summarises a context's todos, events and tracked time.
func (s *Service) Overview(ctx context.Context, contextID string) (*types.Overview, error) {
	if err := requireID("context", contextID); err != nil {
		return nil, err
	}
	var ov *types.Overview
	err := s.inTx(ctx, func(o *op) error {
		c, err := o.tx.GetContext(contextID)
		if err != nil {
			return err
		}
		todos, err := o.tx.ListTodos(contextID)
		if err != nil {
			return fmt.Errorf("listing todos: %w", err)
		}
		events, err := o.tx.ListEvents(contextID)
		if err != nil {
			return fmt.Errorf("listing events: %w", err)
		}
		ov = &types.Overview{
			Context: c,
			TodosByStatus: map[string]int{
				types.StatusTodo:       0,
				types.StatusInProgress: 0,
				types.StatusDone:       0,
			},
			EventCount:     len(events),
			TrackedMinutes: c.TotalTrackedMinutes,
		}
		for _, t := range todos {
			ov.TodosByStatus[t.Status]++
			if t.Linked() {
				ov.LinkedPairs++
			}
		}
		for _, e := range events {
			if e.Completed {
				ov.CompletedEvents++
			}
		}
		return nil
	})
	return ov, err
}

// ListTodos returns a context's todos whose due date falls in the query
// window, ordered by creation. Todos without a due date are only listed
// when the query is unbounded.
func (s *Service) ListTodos(ctx context.Context, contextID string, q Query) ([]*types.Todo, error) {
	f, err := s.filter(contextID, q)
	if err != nil {
		return nil, err
	}
	unbounded := f.Window.Unbounded() && f.From == nil && f.To == nil

	var out []*types.Todo
	err = s.inTx(ctx, func(o *op) error {
		if _, err := o.tx.GetContext(contextID); err != nil {
			return err
		}
		todos, err := o.tx.ListTodos(contextID)
		if err != nil {
			return fmt.Errorf("listing todos: %w", err)
		}
		for _, t := range todos {
			if (t.DueDate == nil && unbounded) || (t.DueDate != nil && f.Match(*t.DueDate)) {
				out = append(out, t)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ListEvents returns a context's events starting in the query window,
// ordered by start.
func (s *Service) ListEvents(ctx context.Context, contextID string, q Query) ([]*types.Event, error) {
	f, err := s.filter(contextID, q)
	if err != nil {
		return nil, err
	}

	var out []*types.Event
	err = s.inTx(ctx, func(o *op) error {
		if _, err := o.tx.GetContext(contextID); err != nil {
			return err
		}
		events, err := o.tx.ListEvents(contextID)
		if err != nil {
			return fmt.Errorf("listing events: %w", err)
		}
		for _, e := range events {
			if f.Match(e.StartDate) {
				out = append(out, e)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (s *Service) filter(contextID string, q Query) (daterange.Filter, error) {
	if err := requireID("context", contextID); err != nil {
		return daterange.Filter{}, err
	}
	return s.dates.Filter(q.Range, q.From, q.To)
}
