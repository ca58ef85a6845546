package auth

import "time"

// Roles carried by credential records and token claims.
const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

// Credential is a stored user credential record. Username and email are
// unique; the backing store's indexes are authoritative.
type Credential struct {
	ID             string
	Username       string
	PasswordDigest string
	Email          string
	Role           string
	CreatedAt      time.Time
}

// Session is returned on successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Username  string
	Role      string
}
