// Package tracker implements the forecast-tracking service: validating track
// requests, fetching snapshots from the weather provider, deriving advisory
// verdicts, and keeping the durable store pruned of past-dated records.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"forecastbot/internal/advisory"
	"forecastbot/internal/dateparse"
	"forecastbot/internal/store"
	"forecastbot/internal/types"
)

// DefaultHorizonDays is the default tracking horizon when none is configured.
const DefaultHorizonDays = 14

// DefaultRefreshConcurrency bounds refresh-all provider fan-out by default.
const DefaultRefreshConcurrency = 4

// Service orchestrates the track / refresh / remove operations. Each
// operation returns the formatted text the command surface delivers back to
// the originating channel.
type Service struct {
	store        *store.ForecastStore
	provider     types.WeatherProvider
	engine       *advisory.Engine
	logger       *slog.Logger
	clock        types.Clock
	horizonDays  int
	refreshLimit int
}

// NewService creates a tracker service with the provided dependencies.
func NewService(
	st *store.ForecastStore,
	provider types.WeatherProvider,
	engine *advisory.Engine,
	logger *slog.Logger,
	clock types.Clock,
	horizonDays int,
	refreshConcurrency int,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = types.RealClock{}
	}
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	if refreshConcurrency <= 0 {
		refreshConcurrency = DefaultRefreshConcurrency
	}
	return &Service{
		store:        st,
		provider:     provider,
		engine:       engine,
		logger:       logger,
		clock:        clock,
		horizonDays:  horizonDays,
		refreshLimit: refreshConcurrency,
	}
}

// Track registers a new tracked forecast and returns the formatted forecast
// text for immediate delivery.
//
// The date text must parse (validation_invalid_date_format otherwise) and the
// resulting date must fall within [today, today+horizon]
// (validation_date_out_of_range otherwise). The record is only kept when the
// initial fetch succeeds: a provider failure leaves no residual record in the
// store.
func (s *Service) Track(ctx context.Context, location, dateText, originChannel string) (string, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return "", types.NewAppError(types.ErrCodeValidationMissingField,
			"Please provide both a city and a date.", nil)
	}

	today := types.Today(s.clock)
	date, err := dateparse.ParseWithDefaultYear(dateText, today.Year())
	if err != nil {
		return "", err
	}

	if date.Before(today) || date.Sub(today) > time.Duration(s.horizonDays)*24*time.Hour {
		return "", types.NewAppError(types.ErrCodeValidationDateRange,
			fmt.Sprintf("You can only request forecasts for the next %d days.", s.horizonDays), nil)
	}

	snap, err := s.provider.FetchForecast(ctx, location, date)
	if err != nil {
		s.logger.Warn("initial forecast fetch failed, request not tracked",
			"location", location, "date", date.Format(types.DateLayout), "error", err)
		return "", err
	}

	rec := types.TrackedForecast{
		ID:            uuid.NewString(),
		Location:      location,
		TargetDate:    date.Format(types.DateLayout),
		OriginChannel: originChannel,
	}
	if err := s.store.Add(rec); err != nil {
		// A duplicate uuid is an internal invariant violation: fail this
		// request, keep the process alive.
		s.logger.Error("failed to add tracked forecast", "id", rec.ID, "error", err)
		return "", err
	}
	s.persist("track")

	verdict := s.engine.Evaluate(*snap)
	return advisory.FormatReport(rec.Location, rec.TargetDate, *snap, verdict), nil
}

// RefreshAll re-fetches every tracked forecast and returns one concatenated
// message. Past-dated records are pruned and reported as removed; a fetch
// failure keeps the record and reports the failure inline. Fetches run
// concurrently with bounded fan-out, but the message order always matches
// the store's iteration order.
func (s *Service) RefreshAll(ctx context.Context) (string, error) {
	records := s.store.All()
	if len(records) == 0 {
		return "No weather forecasts are being tracked at the moment.", nil
	}

	today := types.Today(s.clock)
	sections := make([]string, len(records))
	var toRemove []string

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.refreshLimit)

	for i, rec := range records {
		date, err := rec.Date()
		if err != nil {
			// A record this service wrote always parses; anything else is
			// file corruption that slipped past load. Prune it.
			s.logger.Error("pruning tracked forecast with unparseable date",
				"id", rec.ID, "date", rec.TargetDate)
			toRemove = append(toRemove, rec.ID)
			sections[i] = fmt.Sprintf("• **%s** on **%s** - REMOVED (invalid date)\n",
				advisory.TitleCase(rec.Location), rec.TargetDate)
			continue
		}

		if date.Before(today) {
			toRemove = append(toRemove, rec.ID)
			sections[i] = fmt.Sprintf("• **%s** on **%s** - REMOVED (past date)\n",
				advisory.TitleCase(rec.Location), rec.TargetDate)
			continue
		}

		i, rec := i, rec
		g.Go(func() error {
			snap, err := s.provider.FetchForecast(gctx, rec.Location, date)
			if err != nil {
				s.logger.Warn("refresh fetch failed",
					"location", rec.Location, "date", rec.TargetDate, "error", err)
				sections[i] = fmt.Sprintf("• **%s** on **%s** - Failed to fetch weather data.\n",
					advisory.TitleCase(rec.Location), rec.TargetDate)
				return nil
			}
			verdict := s.engine.Evaluate(*snap)
			sections[i] = advisory.FormatReport(rec.Location, rec.TargetDate, *snap, verdict)
			return nil
		})
	}

	// Workers report failures as message sections, never as errors, so the
	// only wait error is context cancellation.
	if err := g.Wait(); err != nil {
		return "", types.NewAppError(types.ErrCodeInternalUnexpected, "refresh interrupted", err)
	}

	if len(toRemove) > 0 {
		s.store.RemoveBatch(toRemove)
	}
	s.persist("refresh")

	var b strings.Builder
	b.WriteString("📋 **Weather Updates For All Tracked Locations:**\n\n")
	for _, section := range sections {
		b.WriteString(section)
	}
	return b.String(), nil
}

// Remove untracks every forecast matching the location (case-insensitive)
// and date. Past dates are removable; only the date format is validated.
func (s *Service) Remove(ctx context.Context, location, dateText string) (string, error) {
	_ = ctx

	location = strings.TrimSpace(location)
	if location == "" {
		return "", types.NewAppError(types.ErrCodeValidationMissingField,
			"Please provide both a city and a date.", nil)
	}

	today := types.Today(s.clock)
	date, err := dateparse.ParseWithDefaultYear(dateText, today.Year())
	if err != nil {
		return "", err
	}
	dateStr := date.Format(types.DateLayout)

	removed := s.store.RemoveMatching(location, dateStr)
	if removed == 0 {
		return fmt.Sprintf("No forecast found for **%s** on **%s**.",
			advisory.TitleCase(location), dateStr), nil
	}

	s.persist("remove")
	return fmt.Sprintf("Removed forecast for **%s** on **%s** from tracking.",
		advisory.TitleCase(location), dateStr), nil
}

// Persist flushes the store to durable storage. Exposed for the shutdown
// lifecycle hook; a best-effort crash before this call may lose the last
// unsaved mutation, which is accepted.
func (s *Service) Persist() error {
	return s.store.Persist()
}

// persist saves after a successful mutation. A persist failure is logged and
// the operation still succeeds: the mutation lives in memory and the next
// persist (or shutdown) retries the write.
func (s *Service) persist(op string) {
	if err := s.store.Persist(); err != nil {
		s.logger.Error("failed to persist tracked forecasts", "op", op, "error", err)
	}
}
