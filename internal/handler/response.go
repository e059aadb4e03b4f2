package handler

// RESPONSE HELPERS:
// Every JSON response goes through writeJSON, every failure through
// writeError, so all endpoints share one error shape:
//
//	{"error": "not_found", "message": "GitHub user ghost not found"}

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/profile-viewer/internal/apperror"
)

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`   // Machine-readable kind (e.g., "not_found")
	Message string `json:"message"` // Human-readable description
}

// writeJSON sends data as JSON with the given status code.
// Headers and status must be written before the body.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// statusFor maps a failure kind to the HTTP status of the local API.
//
//	InvalidInput   → 400
//	NotFound       → 404
//	UpstreamError  → 502 (GitHub answered, but not with success)
//	TransportError → 500 (GitHub could not be reached or read)
//	anything else  → 500
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError translates a lookup failure into an HTTP error response.
// Errors outside the taxonomy get a generic message; their text may carry
// internal details.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), ErrorResponse{
		Error:   apperror.Kind(err),
		Message: apperror.Message(err),
	})
}
