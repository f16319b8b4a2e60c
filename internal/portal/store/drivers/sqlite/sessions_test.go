package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tcsservices/loginportal/internal/portal/domain"
	"github.com/tcsservices/loginportal/internal/portal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(filepath.Join(t.TempDir(), "portal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedUser(t *testing.T, s *Store, username string) {
	t.Helper()
	require.NoError(t, s.Users().Create(context.Background(), domain.Credential{
		Username:  username,
		Password:  "Secret1",
		PowerUnit: "PU-100",
		Companies: []string{"c01"},
		Modules:   []string{"DLVY"},
	}))
}

func strPtr(s string) *string { return &s }

func datePtr(t time.Time) *time.Time { return &t }

func TestSessionsUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	repo := s.Sessions()

	seedUser(t, s, "driver1")
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	expiry := now.Add(24 * time.Hour)

	t.Run("insert creates one row per username", func(t *testing.T) {
		sess, err := repo.Upsert(ctx, store.UpsertParams{
			Username:     "driver1",
			AccessToken:  "acc1",
			RefreshToken: "ref1",
			ExpiryTime:   expiry,
			Now:          now,
		})
		require.NoError(t, err)
		require.NotEmpty(t, sess.ID)
		require.Equal(t, "driver1", sess.Username)
		require.Equal(t, expiry, sess.ExpiryTime)
		require.False(t, sess.Bound())
	})

	t.Run("second upsert replaces tokens, keeps username unique", func(t *testing.T) {
		sess, err := repo.Upsert(ctx, store.UpsertParams{
			Username:     "driver1",
			AccessToken:  "acc2",
			RefreshToken: "ref2",
			ExpiryTime:   expiry.Add(time.Hour),
			Now:          now.Add(time.Minute),
		})
		require.NoError(t, err)
		require.Equal(t, "acc2", sess.AccessToken)

		_, err = repo.GetByTokens(ctx, "acc1", "ref1")
		require.ErrorIs(t, err, store.ErrNotFound)

		got, err := repo.GetByUsername(ctx, "driver1")
		require.NoError(t, err)
		require.Equal(t, "acc2", got.AccessToken)
		require.Equal(t, "ref2", got.RefreshToken)
	})
}

func TestSessionsUpsertBindingSemantics(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	repo := s.Sessions()

	seedUser(t, s, "driver1")
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	expiry := now.Add(24 * time.Hour)
	manifest := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)

	_, err := repo.Upsert(ctx, store.UpsertParams{
		Username:     "driver1",
		AccessToken:  "acc1",
		RefreshToken: "ref1",
		ExpiryTime:   expiry,
		PowerUnit:    strPtr("PU-100"),
		ManifestDate: datePtr(manifest),
		Now:          now,
	})
	require.NoError(t, err)

	t.Run("nil binding keeps the existing one", func(t *testing.T) {
		sess, err := repo.Upsert(ctx, store.UpsertParams{
			Username:     "driver1",
			AccessToken:  "acc2",
			RefreshToken: "ref2",
			ExpiryTime:   expiry,
			Now:          now.Add(time.Minute),
		})
		require.NoError(t, err)
		require.True(t, sess.Bound())
		require.Equal(t, "PU-100", *sess.PowerUnit)
		require.Equal(t, manifest, *sess.ManifestDate)
	})

	t.Run("new binding replaces the old one", func(t *testing.T) {
		next := manifest.AddDate(0, 0, 1)
		sess, err := repo.Upsert(ctx, store.UpsertParams{
			Username:     "driver1",
			AccessToken:  "acc3",
			RefreshToken: "ref3",
			ExpiryTime:   expiry,
			PowerUnit:    strPtr("PU-200"),
			ManifestDate: datePtr(next),
			Now:          now.Add(2 * time.Minute),
		})
		require.NoError(t, err)
		require.Equal(t, "PU-200", *sess.PowerUnit)
		require.Equal(t, next, *sess.ManifestDate)
	})

	t.Run("clear binding forces NULLs", func(t *testing.T) {
		sess, err := repo.Upsert(ctx, store.UpsertParams{
			Username:     "driver1",
			AccessToken:  "acc4",
			RefreshToken: "ref4",
			ExpiryTime:   expiry,
			ClearBinding: true,
			Now:          now.Add(3 * time.Minute),
		})
		require.NoError(t, err)
		require.False(t, sess.Bound())
		require.Nil(t, sess.PowerUnit)
		require.Nil(t, sess.ManifestDate)
	})
}

func TestSessionsFindConflict(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	repo := s.Sessions()

	seedUser(t, s, "driver1")
	seedUser(t, s, "driver2")

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	expiry := now.Add(24 * time.Hour)
	manifest := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)

	_, err := repo.Upsert(ctx, store.UpsertParams{
		Username:     "driver1",
		AccessToken:  "acc1",
		RefreshToken: "ref1",
		ExpiryTime:   expiry,
		PowerUnit:    strPtr("PU-100"),
		ManifestDate: datePtr(manifest),
		Now:          now,
	})
	require.NoError(t, err)

	t.Run("other user's binding on same pair is a conflict", func(t *testing.T) {
		found, err := repo.FindConflict(ctx, "driver2", "PU-100", manifest)
		require.NoError(t, err)
		require.Equal(t, "driver1", found.Username)
	})

	t.Run("own binding is not a conflict", func(t *testing.T) {
		_, err := repo.FindConflict(ctx, "driver1", "PU-100", manifest)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("different date is not a conflict", func(t *testing.T) {
		_, err := repo.FindConflict(ctx, "driver2", "PU-100", manifest.AddDate(0, 0, 1))
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("different power unit is not a conflict", func(t *testing.T) {
		_, err := repo.FindConflict(ctx, "driver2", "PU-200", manifest)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestSessionsDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	repo := s.Sessions()

	seedUser(t, s, "driver1")
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	sess, err := repo.Upsert(ctx, store.UpsertParams{
		Username:     "driver1",
		AccessToken:  "acc1",
		RefreshToken: "ref1",
		ExpiryTime:   now.Add(time.Hour),
		Now:          now,
	})
	require.NoError(t, err)

	t.Run("delete by id", func(t *testing.T) {
		deleted, err := repo.DeleteByID(ctx, sess.ID)
		require.NoError(t, err)
		require.True(t, deleted)

		deleted, err = repo.DeleteByID(ctx, sess.ID)
		require.NoError(t, err)
		require.False(t, deleted)
	})

	t.Run("delete by username", func(t *testing.T) {
		_, err := repo.Upsert(ctx, store.UpsertParams{
			Username:     "driver1",
			AccessToken:  "acc2",
			RefreshToken: "ref2",
			ExpiryTime:   now.Add(time.Hour),
			Now:          now,
		})
		require.NoError(t, err)

		deleted, err := repo.DeleteByUsername(ctx, "driver1")
		require.NoError(t, err)
		require.True(t, deleted)

		deleted, err = repo.DeleteByUsername(ctx, "driver1")
		require.NoError(t, err)
		require.False(t, deleted)
	})
}

func TestSessionsDeleteExpired(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	repo := s.Sessions()

	seedUser(t, s, "driver1")
	seedUser(t, s, "driver2")

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	_, err := repo.Upsert(ctx, store.UpsertParams{
		Username:     "driver1",
		AccessToken:  "acc1",
		RefreshToken: "ref1",
		ExpiryTime:   now.Add(-time.Minute),
		Now:          now.Add(-25 * time.Hour),
	})
	require.NoError(t, err)

	_, err = repo.Upsert(ctx, store.UpsertParams{
		Username:     "driver2",
		AccessToken:  "acc2",
		RefreshToken: "ref2",
		ExpiryTime:   now.Add(time.Hour),
		Now:          now,
	})
	require.NoError(t, err)

	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = repo.GetByUsername(ctx, "driver1")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = repo.GetByUsername(ctx, "driver2")
	require.NoError(t, err)
}
