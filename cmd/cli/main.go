// Command cli looks up one GitHub user from the terminal.
//
//	$ go run ./cmd/cli
//	Enter GitHub username: octocat
//
// or non-interactively with -user octocat. Exit status is 1 when the lookup
// fails.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/sakif/profile-viewer/internal/config"
	"github.com/sakif/profile-viewer/internal/github"
	"github.com/sakif/profile-viewer/internal/secretmanager"
	"github.com/sakif/profile-viewer/internal/service"
	"github.com/sakif/profile-viewer/internal/terminal"
)

func main() {
	user := flag.String("user", "", "GitHub username to look up (prompts when empty)")
	flag.Parse()

	_ = godotenv.Load()

	// Logs go to stderr at warn so stdout carries only the prompt and summary.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cfg.ResolveGitHubToken(ctx, secretmanager.GetSecret); err != nil {
		logger.Error("failed to resolve GitHub token", slog.String("error", err.Error()))
		os.Exit(1)
	}

	client := github.NewClient(github.Config{
		BaseURL: cfg.GitHub.BaseURL,
		Token:   cfg.GitHub.Token,
	}, nil)
	session := terminal.NewSession(service.NewProfileService(client, logger), os.Stdin, os.Stdout, os.Stderr)

	if err := session.Run(ctx, *user); err != nil {
		stop()
		os.Exit(1)
	}
}
