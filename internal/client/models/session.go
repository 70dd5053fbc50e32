// Package models defines client-side data models used by the news client.
package models

// Role is the normalized access level of a signed-in user.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleReporter Role = "reporter"
	RoleEndUser  Role = "enduser"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleReporter, RoleEndUser:
		return true
	}
	return false
}

// DefaultUserName is the display name used when nothing better is known.
const DefaultUserName = "User"

// User is the persisted user record (storage key "userData").
type User struct {
	Email        string `json:"email,omitempty"`
	Name         string `json:"name"`
	Role         Role   `json:"role"`
	OriginalRole string `json:"originalRole,omitempty"`
}

// Session is the canonical record of a signed-in user together with the
// credentials issued for it.
type Session struct {
	User
	Token        string `json:"-"`
	RefreshToken string `json:"-"`
}

// IsAdmin reports whether the session may use backoffice operations.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}
