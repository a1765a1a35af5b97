package tracking

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/secondbrain/pkg/types"
)

// ContextRecords is the slice of the record store the ledger needs.
type ContextRecords interface {
	GetContext(id string) (*types.Context, error)
	SaveContext(c *types.Context) error
}

// Ledger applies signed minute deltas to a context's tracked-time aggregate.
// Adjust is the only code path that changes TotalTrackedMinutes.
type Ledger struct {
	records ContextRecords
}

// NewLedger returns a Ledger writing through records.
func NewLedger(records ContextRecords) *Ledger {
	return &Ledger{records: records}
}

// Adjust adds delta to the context's total, clamping at zero, and returns the
// new total. A zero delta, an empty ID or a missing context is a no-op.
func (l *Ledger) Adjust(contextID string, delta int) (int, error) {
	if delta == 0 || contextID == "" {
		return 0, nil
	}
	c, err := l.records.GetContext(contextID)
	if errors.Is(err, types.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("loading context %s: %w", contextID, err)
	}
	c.TotalTrackedMinutes = max(0, c.TotalTrackedMinutes+delta)
	if err := l.records.SaveContext(c); err != nil {
		return 0, fmt.Errorf("saving context %s: %w", contextID, err)
	}
	return c.TotalTrackedMinutes, nil
}

// settle moves an item's attribution to minutes, applying the difference to
// the ledger.
func (l *Ledger) settle(contextID string, carried *int, minutes int) error {
	if _, err := l.Adjust(contextID, minutes-*carried); err != nil {
		return err
	}
	*carried = minutes
	return nil
}
