package types

import "time"

// DateLayout is the fixed wire and storage format for target dates.
// Dates are stored as strings to avoid timezone and locale ambiguity.
const DateLayout = "2006-01-02"

// TrackedForecast is the core domain entity: one user's standing request
// for a forecast at a location on a calendar date.
type TrackedForecast struct {
	// ID is an opaque unique identifier generated at creation. It is
	// immutable and never reused.
	ID string `json:"-"`

	// Location is the free-text place name exactly as the user entered it.
	// Comparisons are case-insensitive; display preserves the original case.
	Location string `json:"location"`

	// TargetDate is the requested calendar date in DateLayout form.
	TargetDate string `json:"target_date"`

	// OriginChannel identifies where results must be delivered back.
	// It is opaque to this service.
	OriginChannel string `json:"origin_channel"`
}

// Date parses the record's TargetDate into a UTC midnight time.Time.
// Stored dates are written by this service in DateLayout form, so a parse
// failure indicates a corrupted record.
func (t *TrackedForecast) Date() (time.Time, error) {
	return time.Parse(DateLayout, t.TargetDate)
}

// WeatherSnapshot holds one fetched day's metrics. It is transient: produced
// by the provider adapter, consumed by the advisory engine and formatting,
// then discarded. Never persisted.
type WeatherSnapshot struct {
	// Condition is the provider's human-readable condition label, e.g. "Sunny".
	Condition string `json:"condition"`

	MaxTempF float64 `json:"max_temp_f"`
	MinTempF float64 `json:"min_temp_f"`
	AvgTempF float64 `json:"avg_temp_f"`

	// Humidity is the average relative humidity percentage.
	Humidity int `json:"humidity"`

	// WindMPH is the maximum sustained wind speed in miles per hour.
	WindMPH float64 `json:"wind_mph"`

	// RainChance is the daily chance of rain, 0-100.
	RainChance int `json:"rain_chance"`
}
