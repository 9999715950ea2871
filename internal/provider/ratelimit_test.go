package provider

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forecastbot/internal/types"
)

type fakeProvider struct {
	calls int
	snap  *types.WeatherSnapshot
	err   error
}

func (f *fakeProvider) FetchForecast(_ context.Context, _ string, _ time.Time) (*types.WeatherSnapshot, error) {
	f.calls++
	return f.snap, f.err
}

func TestThrottled_Delegates(t *testing.T) {
	inner := &fakeProvider{snap: &types.WeatherSnapshot{Condition: "Sunny"}}
	throttled := NewThrottled(inner, 100, 10)

	snap, err := throttled.FetchForecast(context.Background(), "Boston", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Sunny", snap.Condition)
	assert.Equal(t, 1, inner.calls)
}

func TestThrottled_ExpiredContext(t *testing.T) {
	inner := &fakeProvider{snap: &types.WeatherSnapshot{}}
	// Zero burst means Wait can never succeed.
	throttled := NewThrottled(inner, 1, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := throttled.FetchForecast(ctx, "Boston", time.Now())
	requireAppErrorCode(t, err, types.ErrCodeUpstreamTimeout)
	assert.Equal(t, 0, inner.calls)
}
