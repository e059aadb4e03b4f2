// Package config loads runtime settings from the environment.
//
// Both entry points call Load after godotenv has had a chance to populate the
// environment from an optional .env file. Only GITHUB_TOKEN changes lookup
// behaviour; everything else is about where and how the process runs.
package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/sakif/profile-viewer/internal/github"
)

type Config struct {
	AppEnv    string
	Port      int
	LogLevel  slog.Level
	GitHub    GitHubConfig
	Web       WebConfig
	Telemetry TelemetryConfig
}

type GitHubConfig struct {
	BaseURL       string
	Token         string // empty means anonymous requests
	TokenSecretID string // AWS Secrets Manager id, consulted only when Token is empty
}

type WebConfig struct {
	TemplateDir    string
	StaticDir      string
	AllowedOrigins []string
}

type TelemetryConfig struct {
	OTLPEndpoint string // empty disables tracing
	ServiceName  string
	Insecure     bool
}

// SecretLookup fetches a secret value by id.
type SecretLookup func(ctx context.Context, id string) (string, error)

func Load() (Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil || port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("invalid PORT: %q", os.Getenv("PORT"))
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	return Config{
		AppEnv:   getEnv("APP_ENV", "dev"),
		Port:     port,
		LogLevel: level,
		GitHub: GitHubConfig{
			BaseURL:       getEnv("GITHUB_API_URL", github.DefaultBaseURL),
			Token:         strings.TrimSpace(os.Getenv("GITHUB_TOKEN")),
			TokenSecretID: os.Getenv("GITHUB_TOKEN_SECRET_ID"),
		},
		Web: WebConfig{
			TemplateDir:    getEnv("TEMPLATE_DIR", "web/templates"),
			StaticDir:      getEnv("STATIC_DIR", "web/static"),
			AllowedOrigins: parseCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "profile-viewer"),
			Insecure:     getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", false),
		},
	}, nil
}

// ResolveGitHubToken fills GitHub.Token from the secret store when no token
// was set directly. The secret may be a bare token or a JSON object with a
// GITHUB_TOKEN key.
func (c *Config) ResolveGitHubToken(ctx context.Context, lookup SecretLookup) error {
	if c.GitHub.Token != "" || c.GitHub.TokenSecretID == "" {
		return nil
	}
	if lookup == nil {
		return errors.New("config: GITHUB_TOKEN_SECRET_ID set but no secret lookup available")
	}

	raw, err := lookup(ctx, c.GitHub.TokenSecretID)
	if err != nil {
		return fmt.Errorf("config: reading GitHub token secret: %w", err)
	}

	token := strings.TrimSpace(raw)
	var values map[string]string
	if json.Unmarshal([]byte(token), &values) == nil {
		token = strings.TrimSpace(values["GITHUB_TOKEN"])
	}
	if token == "" {
		return fmt.Errorf("config: secret %s holds no GitHub token", c.GitHub.TokenSecretID)
	}

	c.GitHub.Token = token
	return nil
}

// HasGitHubToken reports whether lookups will be authenticated.
func (c Config) HasGitHubToken() bool {
	return c.GitHub.Token != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseCSV(value string) []string {
	parts := strings.Split(value, ",")
	var results []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}
