// Package service contains the lookup orchestration that sits between the
// presentation adapters and the GitHub retrieval client.
//
// THE LAYERS:
//
//	Handler / Terminal  → parse input, render output
//	Service             → compose lookups, log, apply display limits
//	github.Client       → HTTP, credentials, status mapping, normalization
//
// The service takes a Retriever interface rather than *github.Client so that
// tests can inject a fake and count calls without a network.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/rs/xid"

	"github.com/sakif/profile-viewer/internal/apperror"
	"github.com/sakif/profile-viewer/internal/github"
	"github.com/sakif/profile-viewer/internal/model"
)

// RecentActivityLimit is how many events a ViewModel keeps.
const RecentActivityLimit = 5

// Retriever is the retrieval client contract. *github.Client implements it.
type Retriever interface {
	FetchProfile(ctx context.Context, username string) (*model.Profile, error)
	FetchActivity(ctx context.Context, username string) ([]model.ActivityEvent, error)
}

// ProfileService looks up GitHub users for the web and terminal adapters.
// It keeps no state between calls.
type ProfileService struct {
	source Retriever
	logger *slog.Logger
}

// NewProfileService creates a ProfileService backed by source.
func NewProfileService(source Retriever, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		source: source,
		logger: logger,
	}
}

// Profile returns the normalized profile for username.
func (s *ProfileService) Profile(ctx context.Context, username string) (*model.Profile, error) {
	profile, err := s.source.FetchProfile(ctx, username)
	if err != nil {
		s.logFailure("profile lookup failed", username, "", err)
		return nil, err
	}
	return profile, nil
}

// Activity returns the full first page of public events for username.
func (s *ProfileService) Activity(ctx context.Context, username string) ([]model.ActivityEvent, error) {
	events, err := s.source.FetchActivity(ctx, username)
	if err != nil {
		s.logFailure("activity lookup failed", username, "", err)
		return nil, err
	}
	return events, nil
}

// ViewModel fetches the profile and the activity concurrently and pairs the
// profile with its first RecentActivityLimit events.
//
// FAILURE POLICY:
// The profile is mandatory, so its failure is reported first. An activity
// failure is propagated too rather than degrading to an empty list; a partial
// card would hide a real upstream problem.
func (s *ProfileService) ViewModel(ctx context.Context, username string) (*model.ViewModel, error) {
	username, err := github.ValidateUsername(username)
	if err != nil {
		return nil, err
	}

	lookupID := xid.New().String()
	s.logger.Debug("lookup started",
		slog.String("lookup_id", lookupID),
		slog.String("username", username),
	)

	var (
		wg          sync.WaitGroup
		profile     *model.Profile
		events      []model.ActivityEvent
		profileErr  error
		activityErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		profile, profileErr = s.source.FetchProfile(ctx, username)
	}()
	go func() {
		defer wg.Done()
		events, activityErr = s.source.FetchActivity(ctx, username)
	}()
	wg.Wait()

	if profileErr != nil {
		s.logFailure("profile lookup failed", username, lookupID, profileErr)
		return nil, profileErr
	}
	if activityErr != nil {
		s.logFailure("activity lookup failed", username, lookupID, activityErr)
		return nil, activityErr
	}

	vm := model.NewViewModel(*profile, events, RecentActivityLimit)

	s.logger.Info("lookup completed",
		slog.String("lookup_id", lookupID),
		slog.String("username", profile.Login),
		slog.Int("events", len(events)),
	)
	return &vm, nil
}

// logFailure logs expected outcomes (bad input, unknown user) quietly and
// upstream or network problems as errors.
func (s *ProfileService) logFailure(msg, username, lookupID string, err error) {
	attrs := []any{
		slog.String("username", username),
		slog.String("kind", apperror.Kind(err)),
		slog.String("error", err.Error()),
	}
	if lookupID != "" {
		attrs = append(attrs, slog.String("lookup_id", lookupID))
	}

	// AppError.Error() is the user-facing text; keep the cause for operators.
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Err != nil {
		attrs = append(attrs, slog.String("cause", appErr.Err.Error()))
	}

	switch {
	case errors.Is(err, apperror.ErrInvalidInput), errors.Is(err, apperror.ErrNotFound):
		s.logger.Info(msg, attrs...)
	default:
		s.logger.Error(msg, attrs...)
	}
}
