// Package github is the retrieval client for the GitHub REST API.
//
// It issues exactly one GET per operation, attaches a bearer credential when
// one was configured, and maps every outcome onto the apperror taxonomy:
//
//	empty username          → apperror.ErrInvalidInput (no request sent)
//	HTTP 404                → apperror.ErrNotFound
//	any other non-2xx       → apperror.ErrUpstream (carries the status)
//	dial/reset/timeout/body → apperror.ErrTransport
//
// There is no caching, retrying or pagination. Each call is a single
// best-effort round trip.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"github.com/sakif/profile-viewer/internal/apperror"
	"github.com/sakif/profile-viewer/internal/model"
)

const (
	DefaultBaseURL   = "https://api.github.com"
	DefaultUserAgent = "profile-viewer/1.0"
	apiVersion       = "2022-11-28"
)

// Config holds what the client needs to talk to GitHub. The token is passed
// in by the composition root; the client never reads the environment itself.
type Config struct {
	BaseURL   string // defaults to DefaultBaseURL
	Token     string // optional; empty means anonymous requests
	UserAgent string // defaults to DefaultUserAgent
}

// Client fetches profiles and public events for GitHub users.
//
// A Client holds no per-request state and is safe for concurrent use.
type Client struct {
	baseURL       string
	userAgent     string
	httpClient    *http.Client
	authenticated bool
}

// NewClient creates a Client on top of httpClient (http.DefaultClient when nil).
//
// When cfg.Token is set, httpClient is wrapped by oauth2.NewClient with a
// static token source. The wrapper keeps httpClient's transport and timeout
// and adds "Authorization: Bearer <token>" to every request.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	if cfg.Token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.Token,
		}))
	}

	return &Client{
		baseURL:       baseURL,
		userAgent:     userAgent,
		httpClient:    httpClient,
		authenticated: cfg.Token != "",
	}
}

// Authenticated reports whether requests carry a credential.
func (c *Client) Authenticated() bool {
	return c.authenticated
}

// ValidateUsername trims username and rejects it when nothing is left.
func ValidateUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", apperror.InvalidInput("username", "username is required")
	}
	return username, nil
}

// FetchProfile retrieves GET /users/{username} and normalizes it.
func (c *Client) FetchProfile(ctx context.Context, username string) (*model.Profile, error) {
	username, err := ValidateUsername(username)
	if err != nil {
		return nil, err
	}

	var u githubUser
	if err := c.get(ctx, "/users/"+url.PathEscape(username), username, &u); err != nil {
		return nil, fmt.Errorf("github: fetch profile: %w", err)
	}

	profile, err := u.toProfile()
	if err != nil {
		return nil, fmt.Errorf("github: fetch profile: %w", err)
	}
	return profile, nil
}

// FetchActivity retrieves the first page of GET /users/{username}/events/public.
//
// Every event on the page is returned, in upstream order. A non-2xx status is
// always a failure, even though GitHub sometimes sends a JSON body with it.
func (c *Client) FetchActivity(ctx context.Context, username string) ([]model.ActivityEvent, error) {
	username, err := ValidateUsername(username)
	if err != nil {
		return nil, err
	}

	var events []githubEvent
	if err := c.get(ctx, "/users/"+url.PathEscape(username)+"/events/public", username, &events); err != nil {
		return nil, fmt.Errorf("github: fetch activity: %w", err)
	}

	return toActivity(events), nil
}

// get performs one GET against path and decodes a 2xx body into out.
func (c *Client) get(ctx context.Context, path, username string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return apperror.Transport("could not build GitHub request", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperror.Transport("could not reach GitHub", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return apperror.NotFound("GitHub user", username)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperror.Upstream(resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperror.Transport("GitHub returned a malformed response", err)
	}
	return nil
}
