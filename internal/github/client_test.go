package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/profile-viewer/internal/apperror"
)

const octocatJSON = `{
	"login": "octocat",
	"id": 583231,
	"name": "The Octocat",
	"avatar_url": "https://avatars.githubusercontent.com/u/583231?v=4",
	"html_url": "https://github.com/octocat",
	"company": "@github",
	"blog": "https://github.blog",
	"location": "San Francisco",
	"email": null,
	"hireable": null,
	"bio": null,
	"twitter_username": null,
	"public_repos": 8,
	"followers": 4000,
	"following": 9,
	"created_at": "2011-01-25T18:44:36Z",
	"updated_at": "2024-06-22T11:23:32Z"
}`

const eventsJSON = `[
	{
		"id": "101",
		"type": "PushEvent",
		"repo": {"id": 1, "name": "octocat/Hello-World", "url": "https://api.github.com/repos/octocat/Hello-World"},
		"payload": {"push_id": 1, "commits": [{"sha": "a", "message": "Fix typo"}, {"sha": "b", "message": "Add README"}]},
		"created_at": "2024-06-20T10:00:00Z"
	},
	{
		"id": "100",
		"type": "WatchEvent",
		"repo": {"id": 2, "name": "golang/go", "url": "https://api.github.com/repos/golang/go"},
		"payload": {"action": "started"},
		"created_at": "2024-06-21T09:00:00Z"
	}
]`

// stubGitHub is an httptest server standing in for api.github.com.
// hits counts every request so tests can assert "no network call".
type stubGitHub struct {
	*httptest.Server
	hits       atomic.Int32
	lastHeader atomic.Value // http.Header of the most recent request
}

func newStubGitHub(t *testing.T, routes map[string]func(w http.ResponseWriter)) *stubGitHub {
	t.Helper()
	stub := &stubGitHub{}
	stub.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.hits.Add(1)
		stub.lastHeader.Store(r.Header.Clone())

		route, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		route(w)
	}))
	t.Cleanup(stub.Close)
	return stub
}

func jsonBody(status int, body string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func (s *stubGitHub) header() http.Header {
	h, _ := s.lastHeader.Load().(http.Header)
	return h
}

// roundTripFunc lets a test fail at the transport level, before any server
// sees the request.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// =========================================================================
// FETCH PROFILE
// =========================================================================

func TestFetchProfile_Success(t *testing.T) {
	stub := newStubGitHub(t, map[string]func(http.ResponseWriter){
		"/users/octocat": jsonBody(http.StatusOK, octocatJSON),
	})
	client := NewClient(Config{BaseURL: stub.URL}, stub.Client())

	profile, err := client.FetchProfile(context.Background(), "octocat")
	require.NoError(t, err)

	assert.Equal(t, "octocat", profile.Login)
	assert.Equal(t, "The Octocat", profile.Name)
	assert.Equal(t, 8, profile.PublicRepos)
	assert.Equal(t, 4000, profile.Followers)
	assert.Equal(t, 9, profile.Following)
	assert.Equal(t, "https://github.com/octocat", profile.HTMLURL)
	assert.Equal(t, "@github", profile.Company)
	assert.Equal(t, "San Francisco", profile.Location)
	assert.Equal(t, 2011, profile.CreatedAt.Year())

	// null upstream fields are absent, not errors
	assert.Empty(t, profile.Bio)
	assert.Empty(t, profile.Email)
	assert.Empty(t, profile.TwitterUsername)
	assert.Nil(t, profile.Hireable)

	assert.Equal(t, int32(1), stub.hits.Load())
}

func TestFetchProfile_MinimalBody(t *testing.T) {
	// Missing optional keys entirely, plus an unknown field.
	stub := newStubGitHub(t, map[string]func(http.ResponseWriter){
		"/users/ghost": jsonBody(http.StatusOK, `{"login":"ghost","public_repos":0,"followers":0,"following":0,"plan":{"name":"free"}}`),
	})
	client := NewClient(Config{BaseURL: stub.URL}, stub.Client())

	profile, err := client.FetchProfile(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Equal(t, "ghost", profile.Login)
	assert.Empty(t, profile.Name)
	assert.Empty(t, profile.Blog)
}

func TestFetchProfile_SendsGitHubHeaders(t *testing.T) {
	stub := newStubGitHub(t, map[string]func(http.ResponseWriter){
		"/users/octocat": jsonBody(http.StatusOK, octocatJSON),
	})

	t.Run("anonymous", func(t *testing.T) {
		client := NewClient(Config{BaseURL: stub.URL}, stub.Client())
		_, err := client.FetchProfile(context.Background(), "octocat")
		require.NoError(t, err)

		h := stub.header()
		assert.Equal(t, "application/vnd.github+json", h.Get("Accept"))
		assert.Equal(t, DefaultUserAgent, h.Get("User-Agent"))
		assert.Empty(t, h.Get("Authorization"))
		assert.False(t, client.Authenticated())
	})

	t.Run("with token", func(t *testing.T) {
		client := NewClient(Config{BaseURL: stub.URL, Token: "test-token"}, stub.Client())
		_, err := client.FetchProfile(context.Background(), "octocat")
		require.NoError(t, err)

		assert.Equal(t, "Bearer test-token", stub.header().Get("Authorization"))
		assert.True(t, client.Authenticated())
	})
}

func TestFetchProfile_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		wantErr    error
		wantStatus int
	}{
		{"404 is NotFound", http.StatusNotFound, apperror.ErrNotFound, 404},
		{"500 is UpstreamError", http.StatusInternalServerError, apperror.ErrUpstream, 500},
		{"403 rate limited is UpstreamError", http.StatusForbidden, apperror.ErrUpstream, 403},
		{"503 is UpstreamError", http.StatusServiceUnavailable, apperror.ErrUpstream, 503},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := newStubGitHub(t, map[string]func(http.ResponseWriter){
				"/users/octocat": jsonBody(tt.status, `{"message":"nope"}`),
			})
			client := NewClient(Config{BaseURL: stub.URL}, stub.Client())

			profile, err := client.FetchProfile(context.Background(), "octocat")
			require.Error(t, err)
			assert.Nil(t, profile)
			assert.ErrorIs(t, err, tt.wantErr)

			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.wantStatus, appErr.StatusCode)
		})
	}
}

func TestFetchProfile_InvalidUsername_NoNetworkCall(t *testing.T) {
	stub := newStubGitHub(t, map[string]func(http.ResponseWriter){
		"/users/octocat": jsonBody(http.StatusOK, octocatJSON),
	})
	client := NewClient(Config{BaseURL: stub.URL}, stub.Client())

	for _, username := range []string{"", "   ", "\t\n"} {
		_, err := client.FetchProfile(context.Background(), username)
		assert.ErrorIs(t, err, apperror.ErrInvalidInput, "username %q", username)

		_, err = client.FetchActivity(context.Background(), username)
		assert.ErrorIs(t, err, apperror.ErrInvalidInput, "username %q", username)
	}

	assert.Equal(t, int32(0), stub.hits.Load())
}

func TestFetchProfile_TransportFailure(t *testing.T) {
	failing := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("dial tcp: connection refused")
	})}
	client := NewClient(Config{BaseURL: "http://github.invalid"}, failing)

	_, err := client.FetchProfile(context.Background(), "octocat")
	assert.ErrorIs(t, err, apperror.ErrTransport)

	_, err = client.FetchActivity(context.Background(), "octocat")
	assert.ErrorIs(t, err, apperror.ErrTransport)
}

func TestFetchProfile_ServerGone(t *testing.T) {
	stub := httptest.NewServer(http.NotFoundHandler())
	baseURL := stub.URL
	stub.Close()

	client := NewClient(Config{BaseURL: baseURL}, nil)

	_, err := client.FetchProfile(context.Background(), "octocat")
	assert.ErrorIs(t, err, apperror.ErrTransport)
}

func TestFetchProfile_CanceledContext(t *testing.T) {
	stub := newStubGitHub(t, map[string]func(http.ResponseWriter){
		"/users/octocat": jsonBody(http.StatusOK, octocatJSON),
	})
	client := NewClient(Config{BaseURL: stub.URL}, stub.Client())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchProfile(ctx, "octocat")
	assert.ErrorIs(t, err, apperror.ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchProfile_MalformedBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>rate limited</html>`},
		{"truncated", `{"login":"octocat",`},
		{"missing login", `{"public_repos": 3}`},
		{"negative count", `{"login":"octocat","followers":-1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := newStubGitHub(t, map[string]func(http.ResponseWriter){
				"/users/octocat": jsonBody(http.StatusOK, tt.body),
			})
			client := NewClient(Config{BaseURL: stub.URL}, stub.Client())

			_, err := client.FetchProfile(context.Background(), "octocat")
			assert.ErrorIs(t, err, apperror.ErrTransport)
		})
	}
}

func TestFetchProfile_TrimsUsername(t *testing.T) {
	stub := newStubGitHub(t, map[string]func(http.ResponseWriter){
		"/users/octocat": jsonBody(http.StatusOK, octocatJSON),
	})
	client := NewClient(Config{BaseURL: stub.URL + "/"}, stub.Client())

	profile, err := client.FetchProfile(context.Background(), "  octocat\n")
	require.NoError(t, err)
	assert.Equal(t, "octocat", profile.Login)
}

// =========================================================================
// FETCH ACTIVITY
// =========================================================================

func TestFetchActivity_Success(t *testing.T) {
	stub := newStubGitHub(t, map[string]func(http.ResponseWriter){
		"/users/octocat/events/public": jsonBody(http.StatusOK, eventsJSON),
	})
	client := NewClient(Config{BaseURL: stub.URL}, stub.Client())

	events, err := client.FetchActivity(context.Background(), "octocat")
	require.NoError(t, err)
	require.Len(t, events, 2)

	// upstream order kept even though created_at is not sorted
	assert.Equal(t, "101", events[0].ID)
	assert.Equal(t, "100", events[1].ID)

	push := events[0]
	assert.Equal(t, "PushEvent", push.Type)
	assert.Equal(t, "octocat/Hello-World", push.Repo.Name)
	assert.Equal(t, "https://api.github.com/repos/octocat/Hello-World", push.Repo.URL)
	assert.Equal(t, "https://github.com/octocat/Hello-World", push.Repo.WebURL)
	assert.Equal(t, []string{"Fix typo", "Add README"}, push.CommitMessages)

	assert.Empty(t, events[1].CommitMessages)
}

func TestFetchActivity_EmptyArray(t *testing.T) {
	stub := newStubGitHub(t, map[string]func(http.ResponseWriter){
		"/users/octocat/events/public": jsonBody(http.StatusOK, `[]`),
	})
	client := NewClient(Config{BaseURL: stub.URL}, stub.Client())

	events, err := client.FetchActivity(context.Background(), "octocat")
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestFetchActivity_NoTruncation(t *testing.T) {
	var b strings.Builder
	b.WriteString("[")
	for i := 0; i < 30; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`{"id":"1","type":"WatchEvent","repo":{"name":"a/b"}}`)
	}
	b.WriteString("]")

	stub := newStubGitHub(t, map[string]func(http.ResponseWriter){
		"/users/octocat/events/public": jsonBody(http.StatusOK, b.String()),
	})
	client := NewClient(Config{BaseURL: stub.URL}, stub.Client())

	events, err := client.FetchActivity(context.Background(), "octocat")
	require.NoError(t, err)
	assert.Len(t, events, 30)
}

func TestFetchActivity_NonOKAlwaysFails(t *testing.T) {
	// GitHub sends a JSON body with most errors; it must not be treated as data.
	stub := newStubGitHub(t, map[string]func(http.ResponseWriter){
		"/users/octocat/events/public": jsonBody(http.StatusForbidden, `[]`),
	})
	client := NewClient(Config{BaseURL: stub.URL}, stub.Client())

	events, err := client.FetchActivity(context.Background(), "octocat")
	assert.Nil(t, events)
	assert.ErrorIs(t, err, apperror.ErrUpstream)
}

func TestFetchActivity_NotFound(t *testing.T) {
	stub := newStubGitHub(t, nil)
	client := NewClient(Config{BaseURL: stub.URL}, stub.Client())

	_, err := client.FetchActivity(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestFetchActivity_Idempotent(t *testing.T) {
	stub := newStubGitHub(t, map[string]func(http.ResponseWriter){
		"/users/octocat/events/public": jsonBody(http.StatusOK, eventsJSON),
	})
	client := NewClient(Config{BaseURL: stub.URL}, stub.Client())

	first, err := client.FetchActivity(context.Background(), "octocat")
	require.NoError(t, err)
	second, err := client.FetchActivity(context.Background(), "octocat")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(2), stub.hits.Load())
}
