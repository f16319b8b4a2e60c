package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tcsservices/loginportal/internal/portal/domain"
	"github.com/tcsservices/loginportal/internal/portal/store"
	"github.com/tcsservices/loginportal/pkg/slogx"
)

// Grant is what a successful login or silent re-auth hands back: the
// profile to render, the tokens the client must hold, and the session row
// backing them.
type Grant struct {
	Profile domain.UserProfile
	Tokens  domain.TokenPair
	Session domain.Session
}

// SessionService coordinates the session lifecycle: login, silent re-auth,
// logout, and manifest-access arbitration. Every decision re-reads or
// re-writes the store; nothing session-shaped is cached in memory.
type SessionService struct {
	Users  *UserService
	Tokens *TokenService
	Store  store.Store
}

// Login authenticates, mints a pair, and upserts the session row. A fresh
// login is always unbound, so any manifest binding left by a previous
// session of the same user is cleared.
//
// A store failure after successful authentication is fatal: tokens without
// a backing session row would be invisible to conflict and revocation
// checks.
func (s *SessionService) Login(ctx context.Context, username, password string) (Grant, error) {
	l := slogx.FromContext(ctx)

	profile, err := s.Users.Authenticate(ctx, username, password)
	if err != nil {
		return Grant{}, err
	}
	if !profile.Complete() {
		l.Info("login blocked, profile incomplete", slog.String("username", profile.Username))
		return Grant{}, ErrNoPermissions
	}

	now := time.Now()
	pair, err := s.Tokens.Issue(profile.Username, now)
	if err != nil {
		return Grant{}, err
	}

	sess, err := s.Store.Sessions().Upsert(ctx, store.UpsertParams{
		Username:     profile.Username,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiryTime:   pair.RefreshExpiresAt,
		ClearBinding: true,
		Now:          now,
	})
	if err != nil {
		l.Error("session upsert failed after login", slog.String("username", profile.Username), slog.Any("error", err))
		return Grant{}, ErrSessionPersistence
	}

	l.Info("login succeeded", slog.String("username", profile.Username))
	return Grant{Profile: profile, Tokens: pair, Session: sess}, nil
}

// Credentials is the silent re-auth flow. The caller presents the tokens
// it holds; the pair is validated (and rotated when near expiry), the
// profile is re-read, and the session row is re-synced so the store never
// lags behind the client's cookies. The manifest binding is kept as-is.
func (s *SessionService) Credentials(ctx context.Context, username, accessToken, refreshToken string) (Grant, error) {
	l := slogx.FromContext(ctx)

	if username == "" || accessToken == "" || refreshToken == "" {
		return Grant{}, ErrNotAuthenticated
	}

	now := time.Now()
	v, err := s.Tokens.ValidateOrRefresh(accessToken, refreshToken, now)
	if err != nil {
		return Grant{}, err
	}
	if v.Claims.Subject != username {
		return Grant{}, ErrNotAuthenticated
	}

	// Token validity alone is not enough: an evicted or logged-out user
	// still holds cryptographically valid tokens, so the session row is
	// the revocation check.
	current, err := s.Store.Sessions().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Grant{}, ErrNotAuthenticated
		}
		return Grant{}, err
	}
	if current.AccessToken != accessToken || current.RefreshToken != refreshToken {
		return Grant{}, ErrNotAuthenticated
	}

	profile, err := s.Users.GetProfile(ctx, username)
	if err != nil {
		return Grant{}, err
	}
	if !profile.Complete() {
		return Grant{}, ErrNoPermissions
	}

	sess, err := s.Store.Sessions().Upsert(ctx, store.UpsertParams{
		Username:     username,
		AccessToken:  v.Pair.AccessToken,
		RefreshToken: v.Pair.RefreshToken,
		ExpiryTime:   v.Pair.RefreshExpiresAt,
		Now:          now,
	})
	if err != nil {
		l.Error("session upsert failed on re-auth", slog.String("username", username), slog.Any("error", err))
		return Grant{}, ErrSessionPersistence
	}

	if v.Refreshed {
		l.Info("token pair rotated", slog.String("username", username))
	}
	return Grant{Profile: profile, Tokens: v.Pair, Session: sess}, nil
}

// Logout deletes the session row, but only when the presented tokens
// still match it. A stale cookie pair cannot delete the row a newer login
// owns. The operation is idempotent from the caller's perspective: cookies
// are expired by the transport regardless of what happens here.
func (s *SessionService) Logout(ctx context.Context, username, accessToken, refreshToken string) error {
	l := slogx.FromContext(ctx)

	sess, err := s.Store.Sessions().GetByTokens(ctx, accessToken, refreshToken)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	if sess.Username != username {
		return nil
	}

	if _, err := s.Store.Sessions().DeleteByID(ctx, sess.ID); err != nil {
		return err
	}
	l.Info("logout", slog.String("username", username))
	return nil
}

// SetActiveCompany swaps the caller's active company. Part of the
// coordinator surface so transports only ever talk to one service.
func (s *SessionService) SetActiveCompany(ctx context.Context, username, company string) (domain.UserProfile, error) {
	return s.Users.SetActiveCompany(ctx, username, company)
}

// CheckManifestAccess arbitrates the single-session-per-manifest rule.
//
// When another user's session is bound to the same (powerUnit,
// manifestDate), that session is evicted and the current caller is still
// denied with ErrSessionConflict; the caller retries once the other party
// is gone. When the pair is free, the caller's tokens are validated and
// its session row is bound to the manifest.
func (s *SessionService) CheckManifestAccess(ctx context.Context, username, powerUnit, manifestDate, accessToken, refreshToken string) (domain.Session, domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	if username == "" {
		return domain.Session{}, domain.TokenPair{}, ErrNotAuthenticated
	}
	if powerUnit == "" {
		return domain.Session{}, domain.TokenPair{}, ErrValidation
	}
	date, err := domain.ParseManifestDate(manifestDate)
	if err != nil {
		return domain.Session{}, domain.TokenPair{}, ErrValidation
	}

	conflict, err := s.Store.Sessions().FindConflict(ctx, username, powerUnit, date)
	switch {
	case err == nil:
		if _, derr := s.Store.Sessions().DeleteByUsername(ctx, conflict.Username); derr != nil {
			return domain.Session{}, domain.TokenPair{}, derr
		}
		l.Info("evicted conflicting session",
			slog.String("username", username),
			slog.String("evicted", conflict.Username),
			slog.String("power_unit", powerUnit),
			slog.String("manifest_date", manifestDate))
		return domain.Session{}, domain.TokenPair{}, ErrSessionConflict
	case errors.Is(err, store.ErrNotFound):
		// Pair is free, claim it below.
	default:
		return domain.Session{}, domain.TokenPair{}, err
	}

	if accessToken == "" || refreshToken == "" {
		return domain.Session{}, domain.TokenPair{}, ErrNotAuthenticated
	}

	now := time.Now()
	v, err := s.Tokens.ValidateOrRefresh(accessToken, refreshToken, now)
	if err != nil {
		return domain.Session{}, domain.TokenPair{}, err
	}
	if v.Claims.Subject != username {
		return domain.Session{}, domain.TokenPair{}, ErrNotAuthenticated
	}

	sess, err := s.Store.Sessions().Upsert(ctx, store.UpsertParams{
		Username:     username,
		AccessToken:  v.Pair.AccessToken,
		RefreshToken: v.Pair.RefreshToken,
		ExpiryTime:   v.Pair.RefreshExpiresAt,
		PowerUnit:    &powerUnit,
		ManifestDate: &date,
		Now:          now,
	})
	if err != nil {
		l.Error("session upsert failed on manifest claim", slog.String("username", username), slog.Any("error", err))
		return domain.Session{}, domain.TokenPair{}, ErrSessionPersistence
	}

	l.Info("manifest claimed",
		slog.String("username", username),
		slog.String("power_unit", powerUnit),
		slog.String("manifest_date", manifestDate))
	return sess, v.Pair, nil
}
