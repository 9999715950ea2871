// Package api exposes the command surface over HTTP for the external chat
// dispatcher to bind. It is deliberately thin: request decoding, struct
// validation, and translation of tracker outcomes into JSON replies. Chat
// protocol concerns (prefixes, permissions, message delivery) stay with the
// dispatcher.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"forecastbot/internal/commands"
)

// Server wires the command handler into a chi router.
type Server struct {
	handler  *commands.Handler
	logger   *slog.Logger
	validate *validator.Validate
	router   *chi.Mux
}

// NewServer creates the API server and mounts its routes.
func NewServer(handler *commands.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		handler:  handler,
		logger:   logger,
		validate: validator.New(),
		router:   chi.NewRouter(),
	}
	s.mountRoutes()
	return s
}

// Handler returns the http.Handler for the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) mountRoutes() {
	s.router.Use(s.requestLogger)

	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/v1/commands", func(r chi.Router) {
		r.Post("/track", s.handleTrack)
		r.Post("/refresh", s.handleRefresh)
		r.Post("/remove", s.handleRemove)
	})
}

// requestLogger logs one line per request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// trackRequest carries the "track a forecast" command payload. Args holds
// the raw argument text after the command word, e.g. `"New York" 2025-03-24`;
// tokenization happens in the commands package.
type trackRequest struct {
	Args    string `json:"args" validate:"required"`
	Channel string `json:"channel" validate:"required"`
}

func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := s.decodeValid(w, r, &req); err != nil {
		Error(w, err)
		return
	}

	reply := s.handler.Track(r.Context(), req.Args, req.Channel)
	JSON(w, http.StatusOK, CommandResponse{Reply: reply})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	reply := s.handler.RefreshAll(r.Context())
	JSON(w, http.StatusOK, CommandResponse{Reply: reply})
}

// removeRequest carries the "remove a tracked forecast" command payload with
// the same argument grammar as trackRequest.
type removeRequest struct {
	Args string `json:"args" validate:"required"`
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	var req removeRequest
	if err := s.decodeValid(w, r, &req); err != nil {
		Error(w, err)
		return
	}

	reply := s.handler.Remove(r.Context(), req.Args)
	JSON(w, http.StatusOK, CommandResponse{Reply: reply})
}

// decodeValid decodes the body into dst and runs struct validation.
func (s *Server) decodeValid(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := DecodeJSON(w, r, dst); err != nil {
		return err
	}
	return s.validateStruct(r.Context(), dst)
}

func (s *Server) validateStruct(ctx context.Context, dst any) error {
	return wrapValidation(s.validate.StructCtx(ctx, dst))
}
