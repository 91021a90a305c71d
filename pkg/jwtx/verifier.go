package jwtx

import "errors"

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrKeyTooShort = errors.New("jwtx: signing key too short")

	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// NewVerifierHS256 creates a verifier for HS256-signed tokens.
// An empty issuer means the iss claim is not enforced.
func NewVerifierHS256(secret []byte, issuer string) (Verifier, error) {
	return newHS256Verifier(secret, issuer)
}
