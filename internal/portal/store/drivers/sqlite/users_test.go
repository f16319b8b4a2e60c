package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tcsservices/loginportal/internal/portal/domain"
	"github.com/tcsservices/loginportal/internal/portal/store"
)

func TestUsersGetByCredentials(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	repo := s.Users()

	require.NoError(t, repo.Create(ctx, domain.Credential{
		Username:    "Driver1",
		Password:    "Secret1",
		Permissions: true,
		PowerUnit:   "PU-100",
		Companies:   []string{"c01", "c02"},
		Modules:     []string{"DLVY", "FUEL"},
	}))

	t.Run("exact match", func(t *testing.T) {
		p, err := repo.GetByCredentials(ctx, "Driver1", "Secret1")
		require.NoError(t, err)
		require.Equal(t, "Driver1", p.Username)
		require.True(t, p.Permissions)
		require.Equal(t, "PU-100", p.PowerUnit)
		require.Equal(t, []string{"c01", "c02"}, p.Companies)
		require.Equal(t, []string{"DLVY", "FUEL"}, p.Modules)
		require.Equal(t, "c01", p.ActiveCompany())
	})

	t.Run("username is case-sensitive", func(t *testing.T) {
		_, err := repo.GetByCredentials(ctx, "driver1", "Secret1")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("password is case-sensitive", func(t *testing.T) {
		_, err := repo.GetByCredentials(ctx, "Driver1", "secret1")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := repo.GetByCredentials(ctx, "Driver1", "nope")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestUsersCompanies(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	repo := s.Users()

	require.NoError(t, repo.Create(ctx, domain.Credential{
		Username:  "driver1",
		Password:  "Secret1",
		Companies: []string{"c01", "c02", "c03"},
		Modules:   []string{"DLVY"},
	}))

	t.Run("returns all slots in order", func(t *testing.T) {
		slots, err := repo.GetCompanies(ctx, "driver1")
		require.NoError(t, err)
		require.Equal(t, []string{"c01", "c02", "c03", "", ""}, slots)
	})

	t.Run("update rewrites slots positionally", func(t *testing.T) {
		require.NoError(t, repo.UpdateCompanies(ctx, "driver1", []string{"c02", "c01", "c03"}))

		p, err := repo.GetByUsername(ctx, "driver1")
		require.NoError(t, err)
		require.Equal(t, []string{"c02", "c01", "c03"}, p.Companies)
		require.Equal(t, "c02", p.ActiveCompany())
	})

	t.Run("update on unknown user is not found", func(t *testing.T) {
		err := repo.UpdateCompanies(ctx, "ghost", []string{"c01"})
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}
