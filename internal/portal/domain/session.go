package domain

import "time"

// Session is the durable record of one user's active login. At most one row
// exists per username; the row owns the last-issued token pair and,
// optionally, the manifest the session is currently bound to.
type Session struct {
	ID           string
	Username     string
	AccessToken  string
	RefreshToken string

	// ExpiryTime mirrors the refresh token's expiry and drives the
	// background cleanup sweep.
	ExpiryTime time.Time

	// PowerUnit and ManifestDate identify the manifest this session holds.
	// Both are nil until the client requests manifest access. Nil means
	// unbound, not "unknown".
	PowerUnit    *string
	ManifestDate *time.Time

	LoginTime    time.Time
	LastActivity time.Time
}

// Bound reports whether the session currently holds a manifest claim.
func (s Session) Bound() bool {
	return s.PowerUnit != nil && s.ManifestDate != nil
}
