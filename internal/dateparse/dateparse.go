// Package dateparse turns free-form user date text into a calendar date.
//
// Parsing tries an ordered list of accepted layouts and returns the first
// match. Range validation (past dates, horizon limits) is deliberately left
// to the caller; this package answers only "what date did the user mean".
package dateparse

import (
	"fmt"
	"strings"
	"time"

	"forecastbot/internal/types"
)

// Layouts that carry a full year, tried in order.
var yearLayouts = []string{
	"2006-01-02", // YYYY-MM-DD
	"01/02/2006", // MM/DD/YYYY
	"1/2/2006",   // M/D/YYYY
}

// Layouts without a year; the caller-supplied year is substituted.
var yearlessLayouts = []string{
	"01/02", // MM/DD
	"1/2",   // M/D
}

// AcceptedFormats lists the supported input formats in user-facing notation.
// Invalid-format errors echo this list so the user can correct their input.
var AcceptedFormats = []string{"YYYY-MM-DD", "MM/DD/YYYY", "MM/DD"}

// Parse interprets text as a calendar date using the full-year layouts only.
// The result is normalized to UTC midnight.
func Parse(text string) (time.Time, error) {
	return parse(text, 0)
}

// ParseWithDefaultYear behaves like Parse but additionally accepts
// year-omitted forms (MM/DD), which resolve to the given year.
func ParseWithDefaultYear(text string, year int) (time.Time, error) {
	return parse(text, year)
}

func parse(text string, defaultYear int) (time.Time, error) {
	trimmed := strings.TrimSpace(text)

	for _, layout := range yearLayouts {
		if d, err := time.ParseInLocation(layout, trimmed, time.UTC); err == nil {
			return midnight(d), nil
		}
	}

	if defaultYear > 0 {
		for _, layout := range yearlessLayouts {
			if d, err := time.ParseInLocation(layout, trimmed, time.UTC); err == nil {
				return time.Date(defaultYear, d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
			}
		}
	}

	return time.Time{}, types.NewAppErrorWithDetails(
		types.ErrCodeValidationDateFormat,
		fmt.Sprintf("Invalid date format. Please use one of the following formats: %s", strings.Join(AcceptedFormats, ", ")),
		nil,
		map[string]any{"input": trimmed, "accepted_formats": AcceptedFormats},
	)
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
