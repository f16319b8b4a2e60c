// Package jwtx provides the portal's JWT claims model and a symmetric
// HS256 signer/verifier pair. Both the access and refresh tokens are plain
// signed JWTs carrying the username as subject; they differ only in TTL.
package jwtx

import (
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Default token TTLs. Access tokens are short-lived; the refresh token's
// expiry doubles as the session row's expiry time.
const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 24 * time.Hour
)

// Claims are the registered claims carried by portal tokens. No custom
// fields: identity is the subject, everything else about the user is
// re-read from the credential store on each flow.
type Claims struct {
	jwt.RegisteredClaims
}

// NewSessionClaims builds claims for one token of a session pair. Each call
// mints a fresh jti, so the access and refresh tokens of a pair never share
// an id.
func NewSessionClaims(
	username string,
	ttl time.Duration,
	issuer string,
	audience []string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   username,
			Audience:  jwt.ClaimStrings(audience),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
}

// ValidateIssuer checks the iss claim against the expected value. An empty
// expected issuer enforces nothing.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateAudience passes when at least one expected audience is present in
// the aud claim. An empty expected list enforces nothing.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil
	}
	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}
	return ErrAudience
}

// ValidateExpiryAt checks exp and nbf against the given instant with zero
// leeway. Strict expiry is deliberate: the portal's session store, not
// clock slack, is the recovery mechanism.
func (c *Claims) ValidateExpiryAt(now time.Time) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}
