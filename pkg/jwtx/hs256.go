package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// MinHS256KeySize is the smallest secret we accept for HMAC-SHA256 signing.
// RFC 7518 requires keys at least as long as the hash output (32 bytes).
const MinHS256KeySize = 32

// HS256Signer implements the Signer interface using HMAC-SHA256.
type HS256Signer struct {
	key []byte
	alg string
}

func newHS256Signer(secret []byte) (*HS256Signer, error) {
	s := &HS256Signer{
		key: secret,
		alg: jwt.SigningMethodHS256.Alg(),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *HS256Signer) Alg() string { return s.alg }

// Sign takes your claims and turns them into a signed JWT string.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.key)
}

// Validate does a quick sanity check to make sure the key is usable.
func (s *HS256Signer) Validate() error {
	if len(s.key) < MinHS256KeySize {
		return ErrKeyTooShort
	}
	return nil
}

// HS256Verifier validates JWTs signed using HMAC-SHA256.
type HS256Verifier struct {
	key    []byte
	issuer string
}

func newHS256Verifier(secret []byte, issuer string) (*HS256Verifier, error) {
	if len(secret) < MinHS256KeySize {
		return nil, ErrKeyTooShort
	}
	return &HS256Verifier{key: secret, issuer: issuer}, nil
}

// Verify validates the JWT string and returns its parsed Claims.
func (v *HS256Verifier) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return v.key, nil
	})
	if err != nil {
		return Claims{}, mapParseError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, ErrInvalidClaim
	}

	// Now check all the claim requirements.
	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiry(); err != nil {
		return Claims{}, err
	}

	return *claims, nil
}

// mapParseError converts golang-jwt parse failures into our sentinel errors
// so callers can switch on them without importing the jwt package.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrAlgMismatch
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
