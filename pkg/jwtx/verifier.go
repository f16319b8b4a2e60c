package jwtx

import "errors"

// Verification failures are distinct sentinel kinds so callers can map them
// onto the portal's error taxonomy without string matching.
var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrAudience    = errors.New("jwtx: audience mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
)

// Signer signs a set of claims into a compact JWT string.
type Signer interface {
	Sign(Claims) (string, error)
}

// Verifier validates a compact JWT string and returns its claims.
//
// Implementations return the parsed claims together with ErrExpired when the
// only problem is expiry, so refresh flows can still read the subject.
type Verifier interface {
	Verify(token string) (*Claims, error)
}
