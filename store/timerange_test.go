package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeRangeSingleUnits(t *testing.T) {
	tests := []struct {
		name  string
		expr  string
		start string
		end   string
	}{
		{"minute", "2024-06-15-08:30", "2024-06-15 08:30:00", "2024-06-15 08:30:59"},
		{"hour", "2024-06-15-08", "2024-06-15 08:00:00", "2024-06-15 08:59:59"},
		{"day", "2024-06-15", "2024-06-15 00:00:00", "2024-06-15 23:59:59"},
		{"month", "2024-06", "2024-06-01 00:00:00", "2024-06-30 23:59:59"},
		{"year", "2024", "2024-01-01 00:00:00", "2024-12-31 23:59:59"},
		{"leap february", "2024-02", "2024-02-01 00:00:00", "2024-02-29 23:59:59"},
		{"plain february", "2023-02", "2023-02-01 00:00:00", "2023-02-28 23:59:59"},
		{"december rolls into january", "2023-12", "2023-12-01 00:00:00", "2023-12-31 23:59:59"},
		{"new years eve hour", "2023-12-31-23", "2023-12-31 23:00:00", "2023-12-31 23:59:59"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := ParseTimeRange(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.start, start.Format(timeLayout))
			assert.Equal(t, tt.end, end.Format(timeLayout))
		})
	}
}

func TestParseTimeRangePair(t *testing.T) {
	start, end, err := ParseTimeRange("2023,2024")
	require.NoError(t, err)
	assert.Equal(t, "2023-01-01 00:00:00", start.Format(timeLayout))
	assert.Equal(t, "2024-12-31 23:59:59", end.Format(timeLayout))

	start, end, err = ParseTimeRange("2024-01, 2024-06-15")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01 00:00:00", start.Format(timeLayout))
	assert.Equal(t, "2024-06-15 23:59:59", end.Format(timeLayout))
}

func TestParseTimeRangeMalformed(t *testing.T) {
	for _, expr := range []string{"junk", "2024-13", "2024-6", "15-06-2024", "2023,2024,2025", ""} {
		t.Run(expr, func(t *testing.T) {
			_, _, err := ParseTimeRange(expr)
			var malformed MalformedTimeRangeError
			require.ErrorAs(t, err, &malformed)
		})
	}
}
