package service

import (
	"errors"
	"time"

	"github.com/tcsservices/loginportal/internal/portal/domain"
	"github.com/tcsservices/loginportal/pkg/jwtx"
)

// DefaultRefreshWindow is how close to expiry an access token may be
// before a validation proactively rotates the pair.
const DefaultRefreshWindow = 5 * time.Minute

// TokenService mints and validates the portal's token pairs. It is
// stateless; revocation lives in the session store, not here.
type TokenService struct {
	Signer    jwtx.Signer
	Verifier  jwtx.Verifier
	Issuer    string
	Audiences []string

	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	RefreshWindow time.Duration
}

// Validation is the outcome of ValidateOrRefresh. Claims always describes
// the authenticated subject. Pair holds the tokens the client should keep:
// the originals when the access token was accepted as-is, a freshly minted
// pair when Refreshed is true.
type Validation struct {
	Claims    *jwtx.Claims
	Pair      domain.TokenPair
	Refreshed bool
}

// Issue mints a new access/refresh pair for username. Each token gets its
// own jti.
func (s *TokenService) Issue(username string, now time.Time) (domain.TokenPair, error) {
	accessClaims := jwtx.NewSessionClaims(username, s.accessTTL(), s.Issuer, s.Audiences, now)
	access, err := s.Signer.Sign(accessClaims)
	if err != nil {
		return domain.TokenPair{}, err
	}

	refreshClaims := jwtx.NewSessionClaims(username, s.refreshTTL(), s.Issuer, s.Audiences, now)
	refresh, err := s.Signer.Sign(refreshClaims)
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessClaims.ExpiresAt.Time,
		RefreshExpiresAt: refreshClaims.ExpiresAt.Time,
	}, nil
}

// Validate checks a single token and maps verification failures onto the
// service taxonomy.
func (s *TokenService) Validate(token string) (*jwtx.Claims, error) {
	claims, err := s.Verifier.Verify(token)
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, jwtx.ErrExpired):
		return nil, ErrTokenExpired
	default:
		return nil, ErrTokenMalformed
	}
}

// ValidateOrRefresh runs the validation-with-refresh sub-protocol:
//
//   - Access token valid and more than RefreshWindow from expiry: accept
//     the pair as-is.
//   - Access token valid but near expiry, or expired: the refresh token
//     must verify, and a fresh pair is minted.
//   - Access token malformed, bad signature, or wrong issuer/audience:
//     ErrTokenMalformed, no refresh attempt.
//   - Refresh token fails verification on the refresh path:
//     ErrRefreshDenied, caller must re-login.
func (s *TokenService) ValidateOrRefresh(accessToken, refreshToken string, now time.Time) (Validation, error) {
	claims, err := s.Verifier.Verify(accessToken)

	switch {
	case err == nil:
		if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Sub(now) > s.refreshWindow() {
			return Validation{
				Claims: claims,
				Pair: domain.TokenPair{
					AccessToken:      accessToken,
					RefreshToken:     refreshToken,
					AccessExpiresAt:  claims.ExpiresAt.Time,
					RefreshExpiresAt: s.refreshExpiry(refreshToken, claims.ExpiresAt.Time),
				},
			}, nil
		}
		// Near expiry, rotate.
	case errors.Is(err, jwtx.ErrExpired) && claims != nil:
		// Expired access tokens still identify the subject; the refresh
		// token decides whether the session continues.
	default:
		return Validation{}, ErrTokenMalformed
	}

	refreshClaims, err := s.Verifier.Verify(refreshToken)
	if err != nil {
		return Validation{}, ErrRefreshDenied
	}
	if refreshClaims.Subject != claims.Subject {
		return Validation{}, ErrRefreshDenied
	}

	pair, err := s.Issue(claims.Subject, now)
	if err != nil {
		return Validation{}, err
	}
	return Validation{Claims: claims, Pair: pair, Refreshed: true}, nil
}

// refreshExpiry reads the refresh token's own expiry for session
// bookkeeping, falling back to the access expiry when the refresh token
// does not verify cleanly.
func (s *TokenService) refreshExpiry(refreshToken string, fallback time.Time) time.Time {
	if rc, err := s.Verifier.Verify(refreshToken); err == nil && rc.ExpiresAt != nil {
		return rc.ExpiresAt.Time
	}
	return fallback
}

func (s *TokenService) accessTTL() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return jwtx.DefaultAccessTokenTTL
}

func (s *TokenService) refreshTTL() time.Duration {
	if s.RefreshTTL > 0 {
		return s.RefreshTTL
	}
	return jwtx.DefaultRefreshTokenTTL
}

func (s *TokenService) refreshWindow() time.Duration {
	if s.RefreshWindow > 0 {
		return s.RefreshWindow
	}
	return DefaultRefreshWindow
}
