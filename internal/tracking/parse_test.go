package tracking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/secondbrain/pkg/types"
)

func TestParseStart(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		clock   string
		allDay  bool
		want    time.Time
		wantErr error
	}{
		{"date and clock", "2024-01-03", "09:15", false, time.Date(2024, 1, 3, 9, 15, 0, 0, time.UTC), nil},
		{"all day without clock", "2024-01-03", "", true, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), nil},
		{"full date-time", "2024-01-03T14:00", "", false, time.Date(2024, 1, 3, 14, 0, 0, 0, time.UTC), nil},
		{"clock overrides date-time", "2024-01-03T14:00", "08:00", false, time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC), nil},
		{"missing date", "", "09:00", false, time.Time{}, types.ErrInvalidDate},
		{"malformed date", "03/01/2024", "09:00", false, time.Time{}, types.ErrInvalidDate},
		{"missing clock", "2024-01-03", "", false, time.Time{}, types.ErrInvalidTime},
		{"malformed clock", "2024-01-03", "9am", false, time.Time{}, types.ErrInvalidTime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseStart(tt.date, tt.clock, tt.allDay, time.UTC)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestParseClock(t *testing.T) {
	got, err := parseClock("7:05")
	require.NoError(t, err)
	assert.Equal(t, "07:05", got)

	_, err = parseClock("25:00")
	assert.ErrorIs(t, err, types.ErrInvalidTime)
}
