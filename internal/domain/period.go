package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPeriod rejects an unknown analysis period
var ErrInvalidPeriod = errors.New("invalid period")

// DefaultPeriod is used when a request names none
const DefaultPeriod = "1y"

var periods = map[string]func(time.Time) time.Time{
	"1mo": func(t time.Time) time.Time { return t.AddDate(0, -1, 0) },
	"3mo": func(t time.Time) time.Time { return t.AddDate(0, -3, 0) },
	"6mo": func(t time.Time) time.Time { return t.AddDate(0, -6, 0) },
	"1y":  func(t time.Time) time.Time { return t.AddDate(-1, 0, 0) },
	"2y":  func(t time.Time) time.Time { return t.AddDate(-2, 0, 0) },
	"5y":  func(t time.Time) time.Time { return t.AddDate(-5, 0, 0) },
	"max": func(time.Time) time.Time { return time.Time{} },
}

// ValidatePeriod checks period against the supported lookbacks
func ValidatePeriod(period string) error {
	if _, ok := periods[period]; !ok {
		return fmt.Errorf("%q: %w", period, ErrInvalidPeriod)
	}
	return nil
}

// PeriodStart returns the first date inside period when counting back
// from end
func PeriodStart(period string, end time.Time) (time.Time, error) {
	fn, ok := periods[period]
	if !ok {
		return time.Time{}, fmt.Errorf("%q: %w", period, ErrInvalidPeriod)
	}
	return fn(end), nil
}
