// Package config defines the global configuration structure for forecastbot.
// Configuration is loaded once at process initialization and is immutable
// thereafter. It follows 12-Factor App principles by strictly separating
// code from configuration.
//
// Values are resolved via a priority chain:
//
//	OS Environment (Highest) -> Dotenv File (Lowest)
//
// Any missing required value or invalid format causes the application to fail
// immediately on startup (fail fast).
package config

import (
	"time"

	"forecastbot/internal/types"
)

// SecretString is an alias for types.SecretString, the redacted secret type used
// throughout configuration to prevent accidental logging of sensitive values.
type SecretString = types.SecretString

// Config is the top-level configuration struct for forecastbot.
// It is populated once during process initialization and never modified.
// Sub-components receive only the specific config subsets they require.
type Config struct {
	// System Metadata
	Environment string `envconfig:"APP_ENV" default:"local" validate:"required,oneof=local dev staging prod"`
	Service     string `envconfig:"SERVICE_NAME" default:"forecastbot"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Domain Configurations
	Server   ServerConfig
	Weather  WeatherConfig
	Store    StoreConfig
	Advisory AdvisoryConfig
}

// ServerConfig holds HTTP command-surface configuration.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// WeatherConfig holds upstream weather provider settings.
type WeatherConfig struct {
	APIKey  SecretString `envconfig:"WEATHERAPI_KEY" validate:"required"`
	BaseURL string       `envconfig:"WEATHERAPI_BASE_URL" default:"https://api.weatherapi.com/v1" validate:"url"`

	// FetchTimeout bounds a single forecast fetch. A fetch that exceeds it
	// fails the operation rather than hanging the command handler.
	FetchTimeout time.Duration `envconfig:"WEATHER_FETCH_TIMEOUT" default:"10s"`

	// HorizonDays is the maximum number of days ahead a forecast may be tracked.
	HorizonDays int `envconfig:"FORECAST_HORIZON_DAYS" default:"14" validate:"min=1,max=14"`

	// RefreshConcurrency bounds the fan-out of refresh-all fetches.
	RefreshConcurrency int `envconfig:"REFRESH_CONCURRENCY" default:"4" validate:"min=1"`

	// Rate limiting of outbound provider calls.
	RateLimitPerSec float64 `envconfig:"WEATHER_RATE_LIMIT_PER_SEC" default:"5"`
	RateLimitBurst  int     `envconfig:"WEATHER_RATE_LIMIT_BURST" default:"10"`
}

// StoreConfig holds tracked-forecast persistence settings.
type StoreConfig struct {
	Path string `envconfig:"STORE_PATH" default:"tracked_forecasts.json" validate:"required"`
}

// AdvisoryConfig holds every threshold and category set the advisory engine
// evaluates. The defaults reproduce the reference rule chain; individual
// deployments tune them through the environment without code changes.
//
// Condition sets are comma-separated in the environment. Membership checks
// are case-insensitive and whitespace-trimmed.
type AdvisoryConfig struct {
	ColdAvgTempF float64 `envconfig:"ADVISORY_COLD_AVG_TEMP_F" default:"45"`
	HotMaxTempF  float64 `envconfig:"ADVISORY_HOT_MAX_TEMP_F" default:"95"`
	HighWindMPH  float64 `envconfig:"ADVISORY_HIGH_WIND_MPH" default:"25"`

	HighRainChance     int     `envconfig:"ADVISORY_HIGH_RAIN_CHANCE" default:"70" validate:"min=0,max=100"`
	ModerateRainChance int     `envconfig:"ADVISORY_MODERATE_RAIN_CHANCE" default:"40" validate:"min=0,max=100"`
	ModerateWindMPH    float64 `envconfig:"ADVISORY_MODERATE_WIND_MPH" default:"15"`
	ModerateHumidity   int     `envconfig:"ADVISORY_MODERATE_HUMIDITY" default:"85" validate:"min=0,max=100"`

	IdealMinTempF  float64 `envconfig:"ADVISORY_IDEAL_MIN_TEMP_F" default:"60"`
	IdealMaxTempF  float64 `envconfig:"ADVISORY_IDEAL_MAX_TEMP_F" default:"85"`
	DecentMinTempF float64 `envconfig:"ADVISORY_DECENT_MIN_TEMP_F" default:"55"`

	ChillyAvgTempF   float64 `envconfig:"ADVISORY_CHILLY_AVG_TEMP_F" default:"65"`
	BreezyWindMPH    float64 `envconfig:"ADVISORY_BREEZY_WIND_MPH" default:"10"`
	VeryHighHumidity int     `envconfig:"ADVISORY_VERY_HIGH_HUMIDITY" default:"90" validate:"min=0,max=100"`

	GoodConditions    []string `envconfig:"ADVISORY_GOOD_CONDITIONS" default:"Sunny,Partly Cloudy,Overcast,Mist"`
	DecentConditions  []string `envconfig:"ADVISORY_DECENT_CONDITIONS" default:"Cloudy,Fog,Patchy light drizzle,Light drizzle"`
	PoorConditions    []string `envconfig:"ADVISORY_POOR_CONDITIONS" default:"Heavy rain,Moderate rain,Patchy rain possible,Torrential rain shower"`
	ExtremeConditions []string `envconfig:"ADVISORY_EXTREME_CONDITIONS" default:"Thundery outbreaks possible,Moderate or heavy rain with thunder,Blizzard,Ice pellets"`
}

// ConfigErrorType categorizes configuration loading failures to aid debugging.
type ConfigErrorType string

const (
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates a failure when parsing environment variable values
	// into their target types.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
)
