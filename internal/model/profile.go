// Package model defines the data structures handed from the retrieval layer to
// the presentation adapters.
//
// These types are the stable internal shape. GitHub's wire format lives in
// internal/github and is translated into these structs in exactly one place,
// so upstream schema drift never reaches a template or the terminal printer.
package model

import (
	"strings"
	"time"
)

// Profile represents one GitHub account.
//
// Optional text fields (Bio, Company, ...) use the empty string as "absent"
// rather than a nullable pointer, and are omitted from JSON when empty.
// Hireable is the one tri-state field: nil means GitHub did not say.
type Profile struct {
	Login           string    `json:"login"`
	Name            string    `json:"name,omitempty"`
	AvatarURL       string    `json:"avatarUrl"`
	Bio             string    `json:"bio,omitempty"`
	PublicRepos     int       `json:"publicRepos"`
	Followers       int       `json:"followers"`
	Following       int       `json:"following"`
	HTMLURL         string    `json:"htmlUrl"`
	Company         string    `json:"company,omitempty"`
	Location        string    `json:"location,omitempty"`
	Blog            string    `json:"blog,omitempty"`
	TwitterUsername string    `json:"twitterUsername,omitempty"`
	Email           string    `json:"email,omitempty"`
	Hireable        *bool     `json:"hireable,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// DisplayName returns the account's name, falling back to the login for
// accounts that never set one.
func (p Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Login
}

// JoinedYear is the calendar year the account was created in.
func (p Profile) JoinedYear() int {
	return p.CreatedAt.Year()
}

// IsHireable reports whether the account is explicitly marked open to work.
func (p Profile) IsHireable() bool {
	return p.Hireable != nil && *p.Hireable
}

// WebsiteURL returns the blog field as a clickable link. GitHub stores
// whatever the user typed, which is often a bare host like "example.com".
func (p Profile) WebsiteURL() string {
	if p.Blog == "" {
		return ""
	}
	if strings.HasPrefix(p.Blog, "http://") || strings.HasPrefix(p.Blog, "https://") {
		return p.Blog
	}
	return "https://" + p.Blog
}

// TwitterURL links to the account's Twitter/X handle, if any.
func (p Profile) TwitterURL() string {
	if p.TwitterUsername == "" {
		return ""
	}
	return "https://twitter.com/" + p.TwitterUsername
}
