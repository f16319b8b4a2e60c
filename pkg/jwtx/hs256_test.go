package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tcsservices/loginportal/pkg/jwtx"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func newSigner(t *testing.T) *jwtx.HS256Signer {
	t.Helper()
	s, err := jwtx.NewSignerHS256(testKey)
	require.NoError(t, err)
	return s
}

func TestNewSignerRejectsShortKeys(t *testing.T) {
	_, err := jwtx.NewSignerHS256([]byte("too-short"))
	require.ErrorIs(t, err, jwtx.ErrWeakKey)
}

func TestSignVerifyRoundTrip(t *testing.T) {
	signer := newSigner(t)
	verifier := jwtx.NewVerifierHS256(testKey, "login-portal", []string{"tcs-web"})

	now := time.Now().UTC()
	claims := jwtx.NewSessionClaims("driver1", 15*time.Minute, "login-portal", []string{"tcs-web"}, now)
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	got, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "driver1", got.Subject)
	require.NotEmpty(t, got.ID)
	require.WithinDuration(t, now.Add(15*time.Minute), got.ExpiresAt.Time, time.Second)
}

func TestVerifyDistinctJTIPerToken(t *testing.T) {
	now := time.Now().UTC()
	a := jwtx.NewSessionClaims("driver1", time.Minute, "iss", nil, now)
	b := jwtx.NewSessionClaims("driver1", time.Minute, "iss", nil, now)
	require.NotEqual(t, a.ID, b.ID)
}

func TestVerifyExpiredReturnsClaims(t *testing.T) {
	signer := newSigner(t)
	verifier := jwtx.NewVerifierHS256(testKey, "login-portal", nil)

	issuedAt := time.Now().UTC().Add(-16 * time.Minute)
	claims := jwtx.NewSessionClaims("driver1", 15*time.Minute, "login-portal", nil, issuedAt)
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	got, err := verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrExpired)
	require.NotNil(t, got)
	require.Equal(t, "driver1", got.Subject)
}

func TestVerifyWrongIssuer(t *testing.T) {
	signer := newSigner(t)
	verifier := jwtx.NewVerifierHS256(testKey, "login-portal", nil)

	claims := jwtx.NewSessionClaims("driver1", time.Minute, "someone-else", nil, time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
}

func TestVerifyAudienceAnyOf(t *testing.T) {
	signer := newSigner(t)

	claims := jwtx.NewSessionClaims("driver1", time.Minute, "iss", []string{"tcs-web", "tcs-mobile"}, time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	t.Run("one of several expected matches", func(t *testing.T) {
		v := jwtx.NewVerifierHS256(testKey, "iss", []string{"other", "tcs-mobile"})
		_, err := v.Verify(token)
		require.NoError(t, err)
	})

	t.Run("none match", func(t *testing.T) {
		v := jwtx.NewVerifierHS256(testKey, "iss", []string{"admin-portal"})
		_, err := v.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrAudience)
	})
}

func TestVerifyTamperedSignature(t *testing.T) {
	signer := newSigner(t)
	verifier := jwtx.NewVerifierHS256(testKey, "", nil)

	claims := jwtx.NewSessionClaims("driver1", time.Minute, "iss", nil, time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := parts[2]
	flipped := byte('A')
	if sig[0] == 'A' {
		flipped = 'B'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(flipped) + sig[1:]

	_, err = verifier.Verify(tampered)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestVerifyMalformed(t *testing.T) {
	verifier := jwtx.NewVerifierHS256(testKey, "", nil)
	for _, in := range []string{"", "garbage", "a.b", "a.b.c"} {
		_, err := verifier.Verify(in)
		require.ErrorIs(t, err, jwtx.ErrMalformed, "input %q", in)
	}
}

func TestVerifySignedWithDifferentKey(t *testing.T) {
	otherKey := []byte("ffffffffffffffffffffffffffffffff")
	other, err := jwtx.NewSignerHS256(otherKey)
	require.NoError(t, err)

	claims := jwtx.NewSessionClaims("driver1", time.Minute, "iss", nil, time.Now().UTC())
	token, err := other.Sign(claims)
	require.NoError(t, err)

	verifier := jwtx.NewVerifierHS256(testKey, "", nil)
	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}
