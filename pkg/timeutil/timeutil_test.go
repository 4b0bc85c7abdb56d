package timeutil

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/schoolable/timetable-api/pkg/errors"
)

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                       string
		startA, endA, startB, endB string
		want                       bool
	}{
		{"partial overlap", "08:00", "09:00", "08:30", "09:30", true},
		{"containment", "08:00", "10:00", "08:30", "09:00", true},
		{"identical", "08:00", "09:00", "08:00", "09:00", true},
		{"adjacent", "08:00", "09:00", "09:00", "10:00", false},
		{"disjoint", "08:00", "09:00", "10:00", "11:00", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.startA, tc.endA, tc.startB, tc.endB))
			// Overlap is symmetric.
			assert.Equal(t, tc.want, Overlaps(tc.startB, tc.endB, tc.startA, tc.endA))
		})
	}
}

func TestParseTime(t *testing.T) {
	for _, valid := range []string{"00:00", "08:05", "23:59", " 09:30 "} {
		parsed, err := ParseTime(valid)
		require.NoError(t, err, valid)
		assert.Len(t, parsed, 5)
	}

	for _, invalid := range []string{"8:00", "24:00", "12:60", "12.30", "noon", ""} {
		_, err := ParseTime(invalid)
		require.Error(t, err, invalid)
		var appErr *appErrors.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrInvalidTimeFormat.Code, appErr.Code)
	}
}

func TestValidateRange(t *testing.T) {
	assert.NoError(t, ValidateRange("08:00", "09:00"))

	err := ValidateRange("09:00", "08:00")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInvalidTimeRange.Code, appErr.Code)

	assert.Error(t, ValidateRange("08:00", "08:00"))
}

func TestDayHelpers(t *testing.T) {
	assert.Equal(t, 1, DayIndex("MONDAY"))
	assert.Equal(t, 5, DayIndex("friday"))
	assert.Equal(t, 0, DayIndex("someday"))
	assert.Equal(t, "WEDNESDAY", DayName(3))
	assert.True(t, IsValidDay("SUNDAY"))
	assert.False(t, IsValidDay(""))
	assert.Equal(t, "TUESDAY", NormalizeDay(" tuesday "))
	assert.Len(t, Weekdays, 5)
}

func TestAcademicYear(t *testing.T) {
	september := time.Date(2025, time.October, 12, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025/2026", AcademicYear(september, time.September))

	spring := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025/2026", AcademicYear(spring, time.September))

	boundary := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026/2027", AcademicYear(boundary, time.September))
}
