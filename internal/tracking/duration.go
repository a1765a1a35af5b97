package tracking

import (
	"math"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/secondbrain/pkg/types"
)

// Minute counts used when a span has no explicit duration.
const (
	AllDayMinutes      = 24 * 60
	DefaultSpanMinutes = 60
)

// ParseHours converts a duration given in hours into whole minutes, rounded
// to the nearest minute. Empty, unparseable, non-finite and non-positive
// input is reported as unset.
func ParseHours(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	h, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(h) || math.IsInf(h, 0) || h <= 0 {
		return 0, false
	}
	minutes := int(math.Round(h * 60))
	if minutes <= 0 {
		return 0, false
	}
	return minutes, true
}

// SpanMinutes derives a duration from a calendar span: a full day for all-day
// spans, the rounded start/end difference (floored at zero) when an end is
// known, and DefaultSpanMinutes otherwise.
func SpanMinutes(s types.Span) int {
	switch {
	case s.AllDay:
		return AllDayMinutes
	case s.End != nil:
		m := int(math.Round(s.End.Sub(s.Start).Minutes()))
		return max(m, 0)
	default:
		return DefaultSpanMinutes
	}
}

// Resolve picks the effective duration from the most specific source: an
// explicit override, then a linked span, then a previously known value. It
// reports false when none is available.
func Resolve(explicit *int, span *types.Span, fallback *int) (int, bool) {
	if explicit != nil && *explicit > 0 {
		return *explicit, true
	}
	if span != nil {
		return SpanMinutes(*span), true
	}
	if fallback != nil && *fallback > 0 {
		return *fallback, true
	}
	return 0, false
}

// durationInput classifies raw duration input for an operation.
type durationInput struct {
	minutes int
	set     bool // a valid positive duration was given
	clear   bool // the input was empty
}

// parseDurationInput validates raw duration input. Non-empty input that
// ParseHours rejects is a validation error rather than a silent clear.
func parseDurationInput(raw string) (durationInput, error) {
	if strings.TrimSpace(raw) == "" {
		return durationInput{clear: true}, nil
	}
	m, ok := ParseHours(raw)
	if !ok {
		return durationInput{}, types.ErrInvalidDuration
	}
	return durationInput{minutes: m, set: true}, nil
}

func intPtr(v int) *int { return &v }
