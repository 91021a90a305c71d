package domain

import "time"

// Role is a static attribute of a user account. It is checked in addition
// to token scopes for the most sensitive operations.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt encoded
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal is the resolved identity of the caller for the duration of one
// request. It is derived from valid token claims plus a credential lookup
// and never persisted.
type Principal struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Principal derives the transient per-request identity from the user record.
func (u User) Principal() Principal {
	return Principal{ID: u.ID, Username: u.Username, Role: u.Role}
}
