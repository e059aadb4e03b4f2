// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the wiring layer. It decides which URL patterns map to
// which handler, what middleware wraps them, and how the process stops.
// It does not build the lookup service itself; main hands one in, so tests
// can mount the whole router on top of a fake.
//
// HANDLER STACK (outermost first):
//
//	otelhttp  → starts a server span, extracts incoming trace context
//	CORS      → gorilla/handlers, origins from CORS_ALLOWED_ORIGINS
//	chi       → RequestID, RealIP, Logger, Recoverer, then the routes
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	gorillahandlers "github.com/gorilla/handlers"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sakif/profile-viewer/internal/handler"
	"github.com/sakif/profile-viewer/internal/middleware"
)

// Config holds server configuration.
type Config struct {
	Port           int
	TemplateDir    string
	StaticDir      string
	AllowedOrigins []string
	ServiceName    string // span name of the otelhttp server handler
}

// ShutdownHook runs after the HTTP server has drained, e.g. to flush traces.
type ShutdownHook func(context.Context) error

// Server represents the HTTP server and all its dependencies.
type Server struct {
	router  *chi.Mux
	handler http.Handler
	config  Config
	logger  *slog.Logger
	hooks   []ShutdownHook
}

// New creates a Server whose routes are backed by lookup.
// It fails only when the page templates cannot be parsed.
func New(cfg Config, lookup handler.Lookup, logger *slog.Logger) (*Server, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "profile-viewer"
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
	}

	if err := s.setupRoutes(lookup); err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	cors := gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins(cfg.AllowedOrigins),
		gorillahandlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type", "X-Requested-With"}),
	)
	s.handler = otelhttp.NewHandler(cors(s.router), cfg.ServiceName)

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
// GET /                     → search page, ?username=x renders the card (HTML)
// GET /static/*             → CSS and other assets
// GET /profile/{username}   → normalized profile (JSON)
// GET /activity/{username}  → first page of public events (JSON)
// GET /view/{username}      → profile + 5 most recent events (JSON)
// GET /healthz              → liveness, never calls GitHub
//
// The three JSON routes answer a missing username with a 400.
//
// MIDDLEWARE ORDER MATTERS:
// RequestID runs first so the logger can print the id; Recoverer runs
// inside Logger so a recovered panic is still logged as a 500.
func (s *Server) setupRoutes(lookup handler.Lookup) error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	pageHandler, err := handler.NewPageHandler(s.config.TemplateDir, lookup, s.logger)
	if err != nil {
		return fmt.Errorf("creating page handler: %w", err)
	}
	s.router.Get("/", pageHandler.HandlePage)

	// The bare and trailing-slash forms reach the handlers with an empty
	// username, which they answer with the JSON 400 rather than chi's
	// plain-text 404.
	profileHandler := handler.NewProfileHandler(lookup, s.logger)
	for prefix, h := range map[string]http.HandlerFunc{
		"/profile":  profileHandler.HandleProfile,
		"/activity": profileHandler.HandleActivity,
		"/view":     profileHandler.HandleView,
	} {
		s.router.Get(prefix, h)
		s.router.Get(prefix+"/", h)
		s.router.Get(prefix+"/{username}", h)
	}

	s.router.Get("/healthz", handler.HandleHealth)

	return nil
}

// Handler returns the fully wrapped handler. Tests serve it through
// httptest; Start serves it on the configured port.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// OnShutdown registers a hook that Start runs after the server has stopped.
func (s *Server) OnShutdown(hook ShutdownHook) {
	s.hooks = append(s.hooks, hook)
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
// On SIGINT or SIGTERM the listener closes, in-flight lookups get up to
// 30 seconds to finish, and then the shutdown hooks run in order.
func (s *Server) Start() error {
	// WriteTimeout stays above the time two sequential GitHub calls can take.
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		if err := s.runHooks(ctx); err != nil {
			return err
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

func (s *Server) runHooks(ctx context.Context) error {
	var errs []error
	for _, hook := range s.hooks {
		if err := hook(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("shutdown hooks: %w", err)
	}
	return nil
}
