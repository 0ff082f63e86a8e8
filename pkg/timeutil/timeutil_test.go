package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	tests := []struct {
		name  string
		value string
		want  time.Time
		ok    bool
	}{
		{"rfc3339 utc", "2026-01-01T10:00:00Z", time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC), true},
		{"rfc3339 offset", "2026-01-01T15:30:00+05:30", time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC), true},
		{"outlook fraction", "2026-01-01T10:00:00.0000000", time.Date(2026, 1, 1, 4, 30, 0, 0, time.UTC), true},
		{"naive space", "2026-01-01 15:30:00", time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC), true},
		{"naive minutes", "2026-01-01T15:30", time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC), true},
		{"empty", "", time.Time{}, false},
		{"garbage", "next tuesday", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.value, kolkata)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
				assert.Equal(t, time.UTC, got.Location())
			}
		})
	}
}

func TestFormatBot(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	at := time.Date(2026, 1, 1, 15, 30, 0, 0, ist)
	assert.Equal(t, "2026-01-01T10:00:00+00:00", FormatBot(at))
}

func TestWithinTolerance(t *testing.T) {
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	assert.True(t, WithinTolerance(base.Add(8*time.Minute), base, 10*time.Minute))
	assert.False(t, WithinTolerance(base.Add(8*time.Minute), base, 5*time.Minute))
	assert.True(t, WithinTolerance(base.Add(-10*time.Minute), base, 10*time.Minute))
}
