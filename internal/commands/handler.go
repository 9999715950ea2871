package commands

import (
	"context"
	"errors"
	"log/slog"

	"forecastbot/internal/types"
)

// TrackerService is the tracker surface the handler drives. Each method
// returns the formatted reply text for the originating channel.
type TrackerService interface {
	Track(ctx context.Context, location, dateText, originChannel string) (string, error)
	RefreshAll(ctx context.Context) (string, error)
	Remove(ctx context.Context, location, dateText string) (string, error)
}

// Handler adapts raw command arguments to tracker operations. The external
// dispatcher owns prefix parsing and message delivery; the handler owns
// argument tokenization and error-to-text rendering.
type Handler struct {
	svc    TrackerService
	logger *slog.Logger
}

// NewHandler creates a command handler.
func NewHandler(svc TrackerService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Track handles "track a forecast": args carry a location (quoted when
// multi-word) and a date. The reply is either the formatted forecast or a
// plain description of what went wrong.
func (h *Handler) Track(ctx context.Context, args, originChannel string) string {
	location, dateText, err := ParseLocationAndDate(args)
	if err != nil {
		return h.renderError(err)
	}

	reply, err := h.svc.Track(ctx, location, dateText, originChannel)
	if err != nil {
		return h.renderError(err)
	}
	return reply
}

// RefreshAll handles "refresh all tracked forecasts".
func (h *Handler) RefreshAll(ctx context.Context) string {
	reply, err := h.svc.RefreshAll(ctx)
	if err != nil {
		return h.renderError(err)
	}
	return reply
}

// Remove handles "remove a tracked forecast" with the same argument grammar
// as Track.
func (h *Handler) Remove(ctx context.Context, args string) string {
	location, dateText, err := ParseLocationAndDate(args)
	if err != nil {
		return h.renderError(err)
	}

	reply, err := h.svc.Remove(ctx, location, dateText)
	if err != nil {
		return h.renderError(err)
	}
	return reply
}

// renderError converts any error into user-deliverable text. AppErrors carry
// a message written for end users; anything else collapses to a generic line
// so internals never leak into chat.
func (h *Handler) renderError(err error) string {
	var appErr *types.AppError
	if errors.As(err, &appErr) {
		return appErr.UserMessage()
	}
	h.logger.Error("command failed with unexpected error", "error", err)
	return "An error occurred while handling the command. Please try again."
}
