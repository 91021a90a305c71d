package jwtx

// Signer is our interface for anything that can sign access tokens.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
	Validate() error
}

// NewSignerHS256 creates an HS256 signer from a symmetric secret.
// The secret must be at least MinHS256KeySize bytes.
func NewSignerHS256(secret []byte) (Signer, error) {
	return newHS256Signer(secret)
}
