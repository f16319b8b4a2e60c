package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tcsservices/loginportal/internal/portal/domain"
)

func TestParseManifestDate(t *testing.T) {
	got, err := domain.ParseManifestDate("01152025")
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), got)
}

func TestParseManifestDateRejectsBadInput(t *testing.T) {
	cases := []string{
		"",
		"1152025",    // 7 digits
		"011520255",  // 9 digits
		"01/15/2025", // separators
		"13452024",   // month 13
		"02302025",   // Feb 30
		"0115202a",   // trailing letter
		"２０２５０１１５",   // full-width digits
	}
	for _, in := range cases {
		_, err := domain.ParseManifestDate(in)
		require.ErrorIs(t, err, domain.ErrBadManifestDate, "input %q", in)
	}
}

func TestFormatManifestDateRoundTrip(t *testing.T) {
	const wire = "12312024"
	parsed, err := domain.ParseManifestDate(wire)
	require.NoError(t, err)
	require.Equal(t, wire, domain.FormatManifestDate(parsed))
}

func TestProfileCompleteness(t *testing.T) {
	base := domain.UserProfile{Username: "driver1"}
	require.False(t, base.Complete())

	withCompany := base
	withCompany.Companies = []string{"c01"}
	require.False(t, withCompany.Complete())

	full := withCompany
	full.Modules = []string{"DLVY"}
	require.True(t, full.Complete())
	require.Equal(t, "c01", full.ActiveCompany())
}
