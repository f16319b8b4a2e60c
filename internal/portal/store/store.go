// Package store defines the persistence boundary for the portal.
//
// Drivers live under drivers/ and implement the Store interface. The
// service layer depends only on the interfaces here, never on a driver.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/tcsservices/loginportal/internal/portal/domain"
)

// ErrNotFound is returned by lookups that matched no row.
var ErrNotFound = errors.New("not_found")

// Store is the root handle to the persistence layer.
type Store interface {
	Users() Users
	Sessions() Sessions

	// ApplyMigrations brings the schema up to date. Safe to call on
	// every startup.
	ApplyMigrations() error

	Ping(ctx context.Context) error
	Close() error
}

// Users reads and writes driver account rows.
type Users interface {
	// GetByCredentials returns the profile for an exact, case-sensitive
	// username/password match, or ErrNotFound.
	GetByCredentials(ctx context.Context, username, password string) (domain.UserProfile, error)

	GetByUsername(ctx context.Context, username string) (domain.UserProfile, error)

	// GetCompanies returns the raw company slots for a user, including
	// empty ones, in slot order.
	GetCompanies(ctx context.Context, username string) ([]string, error)

	// UpdateCompanies rewrites all company slots for a user in one
	// statement. The slice is padded or truncated to the slot count.
	UpdateCompanies(ctx context.Context, username string, companies []string) error

	// Create provisions a new account. Used by seeding and tests;
	// account registration has no HTTP surface here.
	Create(ctx context.Context, cred domain.Credential) error
}

// UpsertParams carries the fields written by Sessions.Upsert.
//
// PowerUnit and ManifestDate are keep-on-nil: a nil value preserves
// whatever the existing row holds. ClearBinding forces both to NULL
// regardless.
type UpsertParams struct {
	Username     string
	AccessToken  string
	RefreshToken string
	ExpiryTime   time.Time
	PowerUnit    *string
	ManifestDate *time.Time
	ClearBinding bool
	Now          time.Time
}

// Sessions reads and writes session rows. At most one row exists per
// username.
type Sessions interface {
	// Upsert inserts or replaces the session row for params.Username and
	// returns the resulting row.
	Upsert(ctx context.Context, params UpsertParams) (domain.Session, error)

	Get(ctx context.Context, id string) (domain.Session, error)

	// GetByTokens returns the session matching both tokens exactly, or
	// ErrNotFound.
	GetByTokens(ctx context.Context, accessToken, refreshToken string) (domain.Session, error)

	GetByUsername(ctx context.Context, username string) (domain.Session, error)

	// FindConflict returns a session owned by a different username that
	// is bound to the same power unit and manifest date, or ErrNotFound.
	FindConflict(ctx context.Context, excludingUsername, powerUnit string, manifestDate time.Time) (domain.Session, error)

	// DeleteByID removes a session row. The bool reports whether a row
	// was actually deleted.
	DeleteByID(ctx context.Context, id string) (bool, error)

	DeleteByUsername(ctx context.Context, username string) (bool, error)

	// DeleteExpired removes all sessions whose expiry is at or before
	// now and returns the number removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
