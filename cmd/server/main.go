// Package main is the entry point for the profile viewer web server.
//
// MAIN PACKAGE IN GO:
// main only reads configuration, builds the dependencies and starts the
// server. All behaviour lives in internal/ packages so it can be tested.
//
// DEPENDENCY CHAIN:
//
//	config → http.Client (otelhttp) → github.Client → ProfileService → server
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sakif/profile-viewer/internal/config"
	"github.com/sakif/profile-viewer/internal/github"
	"github.com/sakif/profile-viewer/internal/secretmanager"
	"github.com/sakif/profile-viewer/internal/server"
	"github.com/sakif/profile-viewer/internal/service"
	"github.com/sakif/profile-viewer/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	// === 1. CONFIGURATION ===
	// .env is optional; real environment variables always win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return err
	}

	// === 2. LOGGING ===
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	ctx := context.Background()

	// === 3. GITHUB CREDENTIAL ===
	// GITHUB_TOKEN wins; otherwise GITHUB_TOKEN_SECRET_ID is read from
	// AWS Secrets Manager. Neither set means anonymous lookups.
	if err := cfg.ResolveGitHubToken(ctx, secretmanager.GetSecret); err != nil {
		logger.Error("failed to resolve GitHub token", slog.String("error", err.Error()))
		return err
	}
	if !cfg.HasGitHubToken() {
		logger.Warn("GITHUB_TOKEN not set: using anonymous GitHub requests (60 per hour)")
	}

	// === 4. TRACING ===
	shutdownTracing, err := telemetry.Init(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialise tracing", slog.String("error", err.Error()))
		return err
	}

	// === 5. LOOKUP SERVICE ===
	// The outbound transport is traced too, so every page view shows its two
	// GitHub calls as child spans.
	httpClient := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	client := github.NewClient(github.Config{
		BaseURL: cfg.GitHub.BaseURL,
		Token:   cfg.GitHub.Token,
	}, httpClient)
	profiles := service.NewProfileService(client, logger)

	// === 6. SERVER ===
	// Template paths are made absolute so the log shows exactly what was loaded.
	templateDir, _ := filepath.Abs(cfg.Web.TemplateDir)
	staticDir, _ := filepath.Abs(cfg.Web.StaticDir)

	srv, err := server.New(server.Config{
		Port:           cfg.Port,
		TemplateDir:    templateDir,
		StaticDir:      staticDir,
		AllowedOrigins: cfg.Web.AllowedOrigins,
		ServiceName:    cfg.Telemetry.ServiceName,
	}, profiles, logger)
	if err != nil {
		logger.Error("failed to create server",
			slog.String("template_dir", templateDir),
			slog.String("error", err.Error()),
		)
		_ = shutdownTracing(ctx)
		return err
	}
	srv.OnShutdown(server.ShutdownHook(shutdownTracing))

	logger.Info("configuration loaded",
		slog.String("env", cfg.AppEnv),
		slog.String("github_api", cfg.GitHub.BaseURL),
		slog.Bool("authenticated", client.Authenticated()),
	)

	// Start blocks until SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		return err
	}
	return nil
}
