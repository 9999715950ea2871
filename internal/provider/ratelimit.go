package provider

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"forecastbot/internal/types"
)

// Throttled wraps a WeatherProvider with a token-bucket rate limiter so
// refresh-all fan-out cannot burst past the upstream plan's request budget.
// Wait blocks until a token is available or the call's context expires.
type Throttled struct {
	inner   types.WeatherProvider
	limiter *rate.Limiter
}

// NewThrottled wraps inner with a limiter allowing perSec requests per
// second with the given burst.
func NewThrottled(inner types.WeatherProvider, perSec float64, burst int) *Throttled {
	return &Throttled{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(perSec), burst),
	}
}

// FetchForecast waits for limiter clearance, then delegates to the wrapped
// provider.
func (t *Throttled) FetchForecast(ctx context.Context, location string, date time.Time) (*types.WeatherSnapshot, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, types.NewAppError(types.ErrCodeUpstreamTimeout,
			"timed out waiting for provider rate limit clearance", err)
	}
	return t.inner.FetchForecast(ctx, location, date)
}
