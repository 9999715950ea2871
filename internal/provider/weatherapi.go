// Package provider is the anti-corruption layer between the tracker and the
// third-party weather API. All outbound HTTP calls are routed through a
// circuit breaker, carry a bounded deadline, and map every failure mode --
// network error, non-200 status, malformed payload -- to a typed AppError.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker/v2"

	"forecastbot/internal/types"
)

// WeatherAPIClient fetches day forecasts from api.weatherapi.com.
type WeatherAPIClient struct {
	apiKey       types.SecretString
	baseURL      string
	fetchTimeout time.Duration
	client       *http.Client
	breaker      *gobreaker.CircuitBreaker[*types.WeatherSnapshot]
}

// Option is a functional option for configuring a WeatherAPIClient.
type Option func(*WeatherAPIClient)

// WithHTTPClient overrides the underlying HTTP client, mainly for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(w *WeatherAPIClient) {
		w.client = c
	}
}

// WithBaseURL overrides the API base URL, mainly for tests.
func WithBaseURL(u string) Option {
	return func(w *WeatherAPIClient) {
		w.baseURL = u
	}
}

// NewWeatherAPIClient creates a provider client. fetchTimeout bounds each
// individual fetch; a fetch exceeding it fails with
// upstream_provider_timeout rather than hanging the caller.
func NewWeatherAPIClient(apiKey types.SecretString, baseURL string, fetchTimeout time.Duration, opts ...Option) *WeatherAPIClient {
	w := &WeatherAPIClient{
		apiKey:       apiKey,
		baseURL:      baseURL,
		fetchTimeout: fetchTimeout,
		client:       &http.Client{Timeout: fetchTimeout},
		breaker: gobreaker.NewCircuitBreaker[*types.WeatherSnapshot](gobreaker.Settings{
			Name:        "weatherapi",
			MaxRequests: 1,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 5
			},
		}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// forecastPayload mirrors the subset of the /v1/forecast.json response the
// tracker consumes.
type forecastPayload struct {
	Forecast struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Day  struct {
				MaxTempF    float64 `json:"maxtemp_f"`
				MinTempF    float64 `json:"mintemp_f"`
				AvgTempF    float64 `json:"avgtemp_f"`
				MaxWindMPH  float64 `json:"maxwind_mph"`
				AvgHumidity float64 `json:"avghumidity"`
				RainChance  int     `json:"daily_chance_of_rain"`
				Condition   struct {
					Text string `json:"text"`
				} `json:"condition"`
			} `json:"day"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

// FetchForecast retrieves the day forecast for a location on a calendar date.
// Any non-success response maps to an AppError; the caller never sees raw
// HTTP or JSON failures.
func (w *WeatherAPIClient) FetchForecast(ctx context.Context, location string, date time.Time) (*types.WeatherSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, w.fetchTimeout)
	defer cancel()

	snap, err := w.breaker.Execute(func() (*types.WeatherSnapshot, error) {
		return w.fetch(ctx, location, date)
	})
	if err != nil {
		return nil, w.mapError(ctx, location, date, err)
	}
	return snap, nil
}

func (w *WeatherAPIClient) fetch(ctx context.Context, location string, date time.Time) (*types.WeatherSnapshot, error) {
	params := url.Values{}
	params.Set("key", w.apiKey.Unmask())
	params.Set("q", location)
	params.Set("dt", date.Format(types.DateLayout))
	params.Set("aqi", "no")
	params.Set("alerts", "no")

	endpoint := fmt.Sprintf("%s/forecast.json?%s", w.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("weatherapi returned status %d", resp.StatusCode)
	}

	var payload forecastPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("malformed weatherapi payload: %w", err)
	}
	if len(payload.Forecast.ForecastDay) == 0 {
		return nil, fmt.Errorf("weatherapi payload contains no forecast days")
	}

	// The request asked for a single specific date.
	day := payload.Forecast.ForecastDay[0].Day
	return &types.WeatherSnapshot{
		Condition:  day.Condition.Text,
		MaxTempF:   day.MaxTempF,
		MinTempF:   day.MinTempF,
		AvgTempF:   day.AvgTempF,
		Humidity:   int(day.AvgHumidity),
		WindMPH:    day.MaxWindMPH,
		RainChance: day.RainChance,
	}, nil
}

// mapError translates transport-level failures into domain-level AppErrors.
func (w *WeatherAPIClient) mapError(ctx context.Context, location string, date time.Time, err error) *types.AppError {
	details := map[string]any{
		"location": location,
		"date":     date.Format(types.DateLayout),
	}

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return types.NewAppErrorWithDetails(
			types.ErrCodeUpstreamRateLimited,
			"weather provider circuit breaker is open",
			err, details,
		)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return types.NewAppErrorWithDetails(
			types.ErrCodeUpstreamTimeout,
			fmt.Sprintf("timed out fetching weather for %s on %s", location, date.Format(types.DateLayout)),
			err, details,
		)
	default:
		return types.NewAppErrorWithDetails(
			types.ErrCodeUpstreamProvider,
			fmt.Sprintf("failed to fetch weather data for %s on %s", location, date.Format(types.DateLayout)),
			err, details,
		)
	}
}
