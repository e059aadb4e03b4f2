package github

import (
	"time"

	"github.com/sakif/profile-viewer/internal/apperror"
	"github.com/sakif/profile-viewer/internal/model"
)

// GitHub API response types. Only the fields we display are declared;
// encoding/json ignores the rest. Nullable strings are pointers so that
// "null" and a missing key both end up as the empty string after conversion.
//
// Docs: https://docs.github.com/en/rest/users/users#get-a-user
type githubUser struct {
	Login           string    `json:"login"`
	Name            *string   `json:"name"`
	AvatarURL       string    `json:"avatar_url"`
	Bio             *string   `json:"bio"`
	PublicRepos     int       `json:"public_repos"`
	Followers       int       `json:"followers"`
	Following       int       `json:"following"`
	HTMLURL         string    `json:"html_url"`
	Company         *string   `json:"company"`
	Location        *string   `json:"location"`
	Blog            *string   `json:"blog"`
	TwitterUsername *string   `json:"twitter_username"`
	Email           *string   `json:"email"`
	Hireable        *bool     `json:"hireable"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Docs: https://docs.github.com/en/rest/activity/events#list-public-events-for-a-user
type githubEvent struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Repo      githubRepo     `json:"repo"`
	CreatedAt time.Time      `json:"created_at"`
	Payload   *githubPayload `json:"payload"`
}

type githubRepo struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type githubPayload struct {
	Commits []githubCommit `json:"commits"`
}

type githubCommit struct {
	Message string `json:"message"`
}

// toProfile converts the wire user into a model.Profile, rejecting bodies
// that break the Profile invariants.
func (u githubUser) toProfile() (*model.Profile, error) {
	if u.Login == "" {
		return nil, apperror.Transport("GitHub returned a profile without a login", nil)
	}
	if u.PublicRepos < 0 || u.Followers < 0 || u.Following < 0 {
		return nil, apperror.Transport("GitHub returned negative profile counts", nil)
	}

	return &model.Profile{
		Login:           u.Login,
		Name:            deref(u.Name),
		AvatarURL:       u.AvatarURL,
		Bio:             deref(u.Bio),
		PublicRepos:     u.PublicRepos,
		Followers:       u.Followers,
		Following:       u.Following,
		HTMLURL:         u.HTMLURL,
		Company:         deref(u.Company),
		Location:        deref(u.Location),
		Blog:            deref(u.Blog),
		TwitterUsername: deref(u.TwitterUsername),
		Email:           deref(u.Email),
		Hireable:        u.Hireable,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}, nil
}

// toActivity converts wire events in order. The result is never nil.
func toActivity(events []githubEvent) []model.ActivityEvent {
	activity := make([]model.ActivityEvent, 0, len(events))
	for _, e := range events {
		activity = append(activity, model.ActivityEvent{
			ID:   e.ID,
			Type: e.Type,
			Repo: model.Repository{
				Name:   e.Repo.Name,
				URL:    e.Repo.URL,
				WebURL: model.GitHubWebURL + "/" + e.Repo.Name,
			},
			CreatedAt:      e.CreatedAt,
			CommitMessages: commitMessages(e.Payload),
		})
	}
	return activity
}

func commitMessages(p *githubPayload) []string {
	if p == nil || len(p.Commits) == 0 {
		return nil
	}
	messages := make([]string, len(p.Commits))
	for i, c := range p.Commits {
		messages[i] = c.Message
	}
	return messages
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
