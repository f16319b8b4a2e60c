package domain

import "time"

// TokenPair carries one freshly minted access/refresh token set. Both are
// signed JWTs; the refresh expiry is persisted onto the session row.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}
