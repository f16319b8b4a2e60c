package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinKeyBytes is the smallest HS256 key accepted. HMAC-SHA256 keys below the
// hash's output size weaken the MAC.
const MinKeyBytes = 32

// ErrWeakKey reports a signing key shorter than MinKeyBytes.
var ErrWeakKey = errors.New("jwtx: signing key shorter than 32 bytes")

// HS256Signer signs claims with a shared symmetric key.
type HS256Signer struct {
	key []byte
}

// NewSignerHS256 creates an HS256 signer. The key must be at least
// MinKeyBytes long.
func NewSignerHS256(key []byte) (*HS256Signer, error) {
	if len(key) < MinKeyBytes {
		return nil, ErrWeakKey
	}
	return &HS256Signer{key: key}, nil
}

func (s *HS256Signer) Sign(c Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.key)
}

// HS256Verifier validates HS256 tokens against a shared key and the
// configured issuer/audience expectations.
type HS256Verifier struct {
	key    []byte
	issuer string
	aud    []string
}

// NewVerifierHS256 creates a verifier. Empty issuer or audience values
// disable the corresponding check.
func NewVerifierHS256(key []byte, issuer string, aud []string) *HS256Verifier {
	return &HS256Verifier{key: key, issuer: issuer, aud: aud}
}

// Verify parses and checks the token. Claim validation runs manually after
// the signature check so each failure surfaces as its own error kind; on
// ErrExpired the claims are still returned.
func (v *HS256Verifier) Verify(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return v.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrInvalidSig
		}
		return nil, ErrMalformed
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrMalformed
	}

	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return nil, err
	}
	if err := claims.ValidateAudience(v.aud); err != nil {
		return nil, err
	}
	if err := claims.ValidateExpiryAt(time.Now().UTC()); err != nil {
		if errors.Is(err, ErrExpired) {
			return claims, err
		}
		return nil, err
	}

	return claims, nil
}
