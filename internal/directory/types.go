package directory

import (
	"errors"
	"time"
)

// Role distinguishes the two kinds of portal accounts.
type Role string

const (
	RoleStudent     Role = "student"
	RoleInstitution Role = "institution"
)

// Valid reports whether the role is one the portal knows about.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleInstitution
}

// User is a registered portal account. Identity is ID; Email is unique across
// the directory (case-sensitive, as stored). PasswordHash is a bcrypt hash —
// the plaintext never reaches storage.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	Registered   bool      `json:"isRegistered"`
	CreatedAt    time.Time `json:"createdAt"`
}

var (
	ErrInvalidInput       = errors.New("directory: invalid input")
	ErrDuplicateUser      = errors.New("directory: user with this email already exists")
	ErrInvalidCredentials = errors.New("directory: invalid email or password")
)
