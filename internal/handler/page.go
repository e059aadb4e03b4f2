package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/sakif/profile-viewer/internal/apperror"
	"github.com/sakif/profile-viewer/internal/model"
)

// PageHandler renders the search page and the profile card.
// Templates are parsed once at startup and reused for every request.
type PageHandler struct {
	lookup    Lookup
	templates *template.Template
	logger    *slog.Logger
}

// pageData is what base.html and profile.html render.
type pageData struct {
	Title    string
	Username string
	View     *model.ViewModel
	Error    string
}

var templateFuncs = template.FuncMap{
	// "June 20, 2024 at 10:00 AM", in the server's local zone
	"longDate": func(t time.Time) string {
		return t.Local().Format("January 2, 2006 at 03:04 PM")
	},
}

// NewPageHandler parses base.html and profile.html from templateDir.
// base.html defines the "base" layout; profile.html fills its "content" block.
func NewPageHandler(templateDir string, lookup Lookup, logger *slog.Logger) (*PageHandler, error) {
	tmpl, err := template.New("base").Funcs(templateFuncs).ParseFiles(
		filepath.Join(templateDir, "base.html"),
		filepath.Join(templateDir, "profile.html"),
	)
	if err != nil {
		return nil, err
	}

	return &PageHandler{
		lookup:    lookup,
		templates: tmpl,
		logger:    logger,
	}, nil
}

// HandlePage serves the viewer page.
//
// HTTP: GET /?username=octocat
//
// Without a username only the search form is shown. On failure the form is
// kept, prefilled, above an inline error so the user can simply submit again.
func (h *PageHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.URL.Query().Get("username"))
	data := pageData{
		Title:    "GitHub Profile Viewer",
		Username: username,
	}

	status := http.StatusOK
	if username != "" {
		vm, err := h.lookup.ViewModel(r.Context(), username)
		if err != nil {
			status = statusFor(err)
			data.Error = failureText(err)
		} else {
			data.View = vm
			data.Title = vm.Profile.DisplayName() + " · GitHub Profile Viewer"
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.ExecuteTemplate(w, "base", data); err != nil {
		// Status is already sent; all we can do is log.
		h.logger.Error("failed to render template", slog.String("error", err.Error()))
	}
}

// failureText is the message shown in the page's error box.
func failureText(err error) string {
	switch apperror.Kind(err) {
	case apperror.KindNotFound:
		return "User not found"
	case apperror.KindInvalidInput:
		return "Please enter a GitHub username"
	case apperror.KindUpstream:
		return apperror.Message(err) + ". Please try again."
	case apperror.KindTransport:
		return "Could not reach GitHub. Please try again."
	default:
		return "An error occurred"
	}
}
