package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tcsservices/loginportal/internal/portal/domain"
	"github.com/tcsservices/loginportal/internal/portal/store"
	"github.com/tcsservices/loginportal/pkg/slogx"
)

// UserService authenticates against the credential store and projects
// user profiles out of it. It never writes credentials.
type UserService struct {
	Store store.Store
}

// Authenticate checks username and password with an exact, case-sensitive
// match. A missing user and a wrong password both come back as
// ErrInvalidCredentials so callers cannot enumerate usernames.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (domain.UserProfile, error) {
	if username == "" || password == "" {
		return domain.UserProfile{}, ErrInvalidCredentials
	}

	profile, err := s.Store.Users().GetByCredentials(ctx, username, password)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slogx.FromContext(ctx).Info("authentication failed", slog.String("username", username))
			return domain.UserProfile{}, ErrInvalidCredentials
		}
		return domain.UserProfile{}, err
	}
	return profile, nil
}

// GetProfile re-hydrates a profile without a password check. Used by the
// silent re-auth flow where possession of valid tokens stands in for the
// password.
func (s *UserService) GetProfile(ctx context.Context, username string) (domain.UserProfile, error) {
	profile, err := s.Store.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.UserProfile{}, ErrNotAuthenticated
		}
		return domain.UserProfile{}, err
	}
	return profile, nil
}

// SetActiveCompany moves the named company to the first slot. The swap
// happens in memory and is written back with one fixed-column update.
func (s *UserService) SetActiveCompany(ctx context.Context, username, company string) (domain.UserProfile, error) {
	if company == "" {
		return domain.UserProfile{}, ErrValidation
	}

	slots, err := s.Store.Users().GetCompanies(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.UserProfile{}, ErrNotAuthenticated
		}
		return domain.UserProfile{}, err
	}

	idx := -1
	for i, c := range slots {
		if c == company {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.UserProfile{}, ErrValidation
	}

	if idx > 0 {
		slots[0], slots[idx] = slots[idx], slots[0]
		if err := s.Store.Users().UpdateCompanies(ctx, username, slots); err != nil {
			return domain.UserProfile{}, err
		}
	}

	return s.GetProfile(ctx, username)
}
