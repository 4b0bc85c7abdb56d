package timeutil

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	appErrors "github.com/schoolable/timetable-api/pkg/errors"
)

// Times of day are fixed-width zero-padded "HH:mm" strings. Lexicographic
// comparison is therefore equivalent to numeric comparison, and the overlap
// and range helpers below rely on that equivalence.

var timeOfDayPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ParseTime validates a 24-hour "HH:mm" string and returns it normalised.
func ParseTime(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if !timeOfDayPattern.MatchString(value) {
		return "", appErrors.Clone(appErrors.ErrInvalidTimeFormat, fmt.Sprintf("invalid time %q, expected 24-hour HH:mm", raw))
	}
	return value, nil
}

// Overlaps reports whether two time ranges intersect. Ranges that merely touch
// (one ending exactly when the other starts) do not overlap.
func Overlaps(startA, endA, startB, endB string) bool {
	return startA < endB && endA > startB
}

// ValidateRange ensures start precedes end.
func ValidateRange(start, end string) error {
	if start >= end {
		return appErrors.Clone(appErrors.ErrInvalidTimeRange, fmt.Sprintf("start time %s must be before end time %s", start, end))
	}
	return nil
}

var dayIndexMap = map[int]string{
	1: "MONDAY",
	2: "TUESDAY",
	3: "WEDNESDAY",
	4: "THURSDAY",
	5: "FRIDAY",
	6: "SATURDAY",
	7: "SUNDAY",
}

var dayNameIndex = map[string]int{
	"MONDAY":    1,
	"TUESDAY":   2,
	"WEDNESDAY": 3,
	"THURSDAY":  4,
	"FRIDAY":    5,
	"SATURDAY":  6,
	"SUNDAY":    7,
}

// Weekdays lists the five working days in chronological order.
var Weekdays = []string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY"}

// DayIndex returns the 1-based index for a day name, 0 when unknown.
func DayIndex(name string) int {
	return dayNameIndex[strings.ToUpper(strings.TrimSpace(name))]
}

// DayName returns the canonical upper-case name for a 1-based day index.
func DayName(index int) string {
	if name, ok := dayIndexMap[index]; ok {
		return name
	}
	return "MONDAY"
}

// IsValidDay reports whether the name is one of the seven canonical day names.
func IsValidDay(name string) bool {
	return DayIndex(name) != 0
}

// NormalizeDay trims and upper-cases a day name into its canonical form.
func NormalizeDay(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// AcademicYear derives the "YYYY/YYYY" pair for a reference date. Months from
// startMonth onwards belong to the year pair starting that calendar year.
func AcademicYear(ref time.Time, startMonth time.Month) string {
	if startMonth < time.January || startMonth > time.December {
		startMonth = time.September
	}
	year := ref.Year()
	if ref.Month() < startMonth {
		year--
	}
	return fmt.Sprintf("%d/%d", year, year+1)
}
