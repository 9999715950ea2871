package types

import (
	"context"
	"time"
)

// WeatherProvider defines how forecast data is retrieved for a location and
// calendar date. Implementations live in internal/provider; the tracker
// treats the provider as a black box that either returns a snapshot or fails.
type WeatherProvider interface {
	FetchForecast(ctx context.Context, location string, date time.Time) (*WeatherSnapshot, error)
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the real system time (always UTC).
type RealClock struct{}

// Now returns the current time in UTC.
func (RealClock) Now() time.Time { return time.Now().UTC() }

// Today returns the current calendar date at UTC midnight.
func Today(c Clock) time.Time {
	y, m, d := c.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
