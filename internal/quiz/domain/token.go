package domain

import "time"

// TokenPair is what the login endpoint returns. There is no refresh token
// in this design; callers re-login when the access token expires.
type TokenPair struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"` // always "bearer"
	ExpiresIn   time.Duration `json:"-"`
}
