package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"forecastbot/internal/types"
)

// maxRequestBodySize is the maximum allowed size of a request body (64 KB).
// Command payloads are a location, a date, and a channel id; anything larger
// is abuse.
const maxRequestBodySize = 64 << 10

// CommandResponse is the envelope for a successful command invocation. Reply
// is the formatted text the dispatcher delivers to the originating channel.
type CommandResponse struct {
	Reply string `json:"reply"`
}

// APIErrorResponse is the standard envelope for all error responses.
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the structured error information returned to clients.
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Error writes an error response. AppErrors map to their HTTP status with a
// structured body; anything else becomes a 500 without leaking internals.
func Error(w http.ResponseWriter, err error) {
	var appErr *types.AppError
	if errors.As(err, &appErr) {
		JSON(w, appErr.HTTPStatus(), APIErrorResponse{
			Error: ErrorDetail{
				Code:    string(appErr.Code),
				Message: appErr.Message,
				Details: appErr.Details,
			},
		})
		return
	}

	JSON(w, http.StatusInternalServerError, APIErrorResponse{
		Error: ErrorDetail{
			Code:    string(types.ErrCodeInternalUnexpected),
			Message: "an unexpected error occurred",
		},
	})
}

// DecodeJSON reads the request body into dst, enforcing the body size limit
// and rejecting unknown fields and trailing JSON values.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return types.NewAppError(types.ErrCodeValidationMissingField,
				"request body must not be empty", err)
		}
		return types.NewAppError(types.ErrCodeValidationArguments,
			"invalid JSON in request body", err)
	}
	if dec.More() {
		return types.NewAppError(types.ErrCodeValidationArguments,
			"request body must contain a single JSON object", nil)
	}
	return nil
}
