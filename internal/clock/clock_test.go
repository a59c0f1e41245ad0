package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestISOWeekday(t *testing.T) {
	// 2025-06-02 is a Monday, 2025-06-08 a Sunday.
	monday := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, 6, 8, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, ISOWeekday(monday))
	assert.Equal(t, 7, ISOWeekday(sunday))
	assert.Equal(t, 3, ISOWeekday(monday.AddDate(0, 0, 2)))
}

func TestDayKeyRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 2, 8, 30, 0, 0, time.UTC)
	key := DayKey(now)
	assert.Equal(t, "2025-06-02", key)

	parsed, err := ParseDayKey(key, now)
	require.NoError(t, err)
	assert.Equal(t, StartOfDay(now), parsed)
}

func TestParseMinutes(t *testing.T) {
	tests := []struct {
		input    string
		expected int
		wantErr  bool
	}{
		{"00:00", 0, false},
		{"07:30", 450, false},
		{"09:58", 598, false},
		{"10:00", 600, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"09:60", 0, true},
		{"0930", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseMinutes(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.expected, got, tt.input)
	}
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "07:05", FormatMinutes(425))
	assert.Equal(t, "10:00", FormatMinutes(600))
}

func TestFakeClock(t *testing.T) {
	fake := &Fake{Current: time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC)}
	before := fake.Now()
	fake.Advance(3 * time.Minute)
	assert.Equal(t, before.Add(3*time.Minute), fake.Now())
}
