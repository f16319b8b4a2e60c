package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/tcsservices/loginportal/internal/portal/domain"
	"github.com/tcsservices/loginportal/internal/portal/store"
	"github.com/tcsservices/loginportal/pkg/idx"
)

type sessionsRepo struct {
	db *sql.DB
}

const sessionColumns = `id, username, access_token, refresh_token, expiry_time,
	power_unit, manifest_date, login_time, last_activity`

// manifest_date is stored as an ISO TEXT date so equality in FindConflict
// stays a plain string comparison.
const manifestDateColumn = "2006-01-02"

func (r *sessionsRepo) Upsert(ctx context.Context, params store.UpsertParams) (domain.Session, error) {
	id := idx.New().String()
	now := toUnix(params.Now)

	var row *sql.Row
	if params.ClearBinding {
		row = r.db.QueryRowContext(ctx,
			`INSERT INTO sessions (
				id, username, access_token, refresh_token, expiry_time,
				power_unit, manifest_date, login_time, last_activity
			 ) VALUES (?, ?, ?, ?, ?, NULL, NULL, ?, ?)
			 ON CONFLICT(username) DO UPDATE SET
				access_token  = excluded.access_token,
				refresh_token = excluded.refresh_token,
				expiry_time   = excluded.expiry_time,
				power_unit    = NULL,
				manifest_date = NULL,
				last_activity = excluded.last_activity
			 RETURNING `+sessionColumns,
			id, params.Username, params.AccessToken, params.RefreshToken,
			toUnix(params.ExpiryTime), now, now)
	} else {
		// COALESCE keeps the existing binding when the caller passes nil.
		row = r.db.QueryRowContext(ctx,
			`INSERT INTO sessions (
				id, username, access_token, refresh_token, expiry_time,
				power_unit, manifest_date, login_time, last_activity
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(username) DO UPDATE SET
				access_token  = excluded.access_token,
				refresh_token = excluded.refresh_token,
				expiry_time   = excluded.expiry_time,
				power_unit    = COALESCE(excluded.power_unit, sessions.power_unit),
				manifest_date = COALESCE(excluded.manifest_date, sessions.manifest_date),
				last_activity = excluded.last_activity
			 RETURNING `+sessionColumns,
			id, params.Username, params.AccessToken, params.RefreshToken,
			toUnix(params.ExpiryTime), mapOptionalString(params.PowerUnit),
			mapOptionalDate(params.ManifestDate), now, now)
	}

	return scanSession(row)
}

func (r *sessionsRepo) Get(ctx context.Context, id string) (domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	return scanSession(row)
}

func (r *sessionsRepo) GetByTokens(ctx context.Context, accessToken, refreshToken string) (domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE access_token = ? AND refresh_token = ?`,
		accessToken, refreshToken)
	return scanSession(row)
}

func (r *sessionsRepo) GetByUsername(ctx context.Context, username string) (domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE username = ?`, username)
	return scanSession(row)
}

func (r *sessionsRepo) FindConflict(ctx context.Context, excludingUsername, powerUnit string, manifestDate time.Time) (domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE username <> ? AND power_unit = ? AND manifest_date = ?
		 LIMIT 1`,
		excludingUsername, powerUnit, manifestDate.UTC().Format(manifestDateColumn))
	return scanSession(row)
}

func (r *sessionsRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *sessionsRepo) DeleteByUsername(ctx context.Context, username string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE username = ?`, username)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *sessionsRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expiry_time <= ?`, toUnix(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanSession(row *sql.Row) (domain.Session, error) {
	var (
		s            domain.Session
		expiry       int64
		powerUnit    sql.NullString
		manifestDate sql.NullString
		loginTime    int64
		lastActivity int64
	)
	err := row.Scan(&s.ID, &s.Username, &s.AccessToken, &s.RefreshToken,
		&expiry, &powerUnit, &manifestDate, &loginTime, &lastActivity)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}

	s.ExpiryTime = fromUnix(expiry)
	s.PowerUnit = mapNullStringPtr(powerUnit)
	s.LoginTime = fromUnix(loginTime)
	s.LastActivity = fromUnix(lastActivity)

	if manifestDate.Valid {
		t, err := time.ParseInLocation(manifestDateColumn, manifestDate.String, time.UTC)
		if err != nil {
			return domain.Session{}, err
		}
		s.ManifestDate = &t
	}
	return s, nil
}

func mapOptionalDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: t.UTC().Format(manifestDateColumn), Valid: true}
}
