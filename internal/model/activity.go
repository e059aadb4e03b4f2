package model

import (
	"strings"
	"time"
)

// GitHubWebURL is the host used to build browser links to repositories.
const GitHubWebURL = "https://github.com"

// Repository identifies the repo an event happened in. It is informational
// text only; nothing validates that the repository still exists.
type Repository struct {
	Name   string `json:"name"`   // "owner/repo"
	URL    string `json:"url"`    // API URL as reported by GitHub
	WebURL string `json:"webUrl"` // browser URL
}

// ActivityEvent is one entry of a user's public event history.
//
// Events keep the order GitHub returned them in. Consumers must not assume
// CreatedAt is sorted.
type ActivityEvent struct {
	ID             string     `json:"id"`
	Type           string     `json:"type"` // e.g. "PushEvent"
	Repo           Repository `json:"repo"`
	CreatedAt      time.Time  `json:"createdAt"`
	CommitMessages []string   `json:"commitMessages,omitempty"` // push events only
}

// ShortType drops the "Event" suffix: "PushEvent" → "Push".
func (e ActivityEvent) ShortType() string {
	return strings.TrimSuffix(e.Type, "Event")
}

// FirstCommitMessage returns the first commit message of a push, or "".
func (e ActivityEvent) FirstCommitMessage() string {
	if len(e.CommitMessages) == 0 {
		return ""
	}
	return e.CommitMessages[0]
}
