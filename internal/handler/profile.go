// Package handler contains the HTTP handlers of the viewer.
//
// Handlers only parse the request, call the lookup service and write the
// response. They never talk to GitHub directly and never decide policy.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/profile-viewer/internal/model"
)

// Lookup is what the handlers need from the service layer.
// *service.ProfileService implements it.
type Lookup interface {
	Profile(ctx context.Context, username string) (*model.Profile, error)
	Activity(ctx context.Context, username string) ([]model.ActivityEvent, error)
	ViewModel(ctx context.Context, username string) (*model.ViewModel, error)
}

// ProfileHandler serves the JSON endpoints.
type ProfileHandler struct {
	lookup Lookup
	logger *slog.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(lookup Lookup, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		lookup: lookup,
		logger: logger,
	}
}

// HandleProfile returns the normalized profile.
//
// HTTP: GET /profile/{username}
func (h *ProfileHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.lookup.Profile(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// HandleActivity returns the whole first page of public events.
//
// HTTP: GET /activity/{username}
func (h *ProfileHandler) HandleActivity(w http.ResponseWriter, r *http.Request) {
	events, err := h.lookup.Activity(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// HandleView returns the profile together with its recent activity.
//
// HTTP: GET /view/{username}
func (h *ProfileHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	vm, err := h.lookup.ViewModel(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vm)
}

// HandleHealth reports that the process is up. It does not call GitHub.
//
// HTTP: GET /healthz
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
