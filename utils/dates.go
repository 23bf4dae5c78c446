// utils/dates.go
package utils

import (
	"time"

	"easyhora-backend/apperror"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func DaysBetween(start, end time.Time) int {
	start = BeginningOfDay(start)
	end = BeginningOfDay(end)
	return int(end.Sub(start).Hours() / 24)
}

func IsWeekend(t time.Time) bool {
	day := t.Weekday()
	return day == time.Saturday || day == time.Sunday
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD calendar date in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, apperror.NewValidation("date must be formatted as YYYY-MM-DD").WithDetail("date", value)
	}
	return t, nil
}

// ValidateDate checks a YYYY-MM-DD value without keeping the parsed time.
func ValidateDate(value string) error {
	_, err := ParseDate(value, time.UTC)
	return err
}

// ValidateTimeOfDay checks an HH:MM value.
func ValidateTimeOfDay(value string) error {
	if _, err := time.Parse(TimeLayout, value); err != nil {
		return apperror.NewValidation("time must be formatted as HH:MM").WithDetail("time", value)
	}
	return nil
}
