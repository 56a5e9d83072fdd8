// Package models defines client-side data models used by the Padho CLI.
package models

// Role is the account role assigned by the backend at registration time.
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

// SelfService reports whether r may be chosen during self-registration.
// Admin accounts are never client-assignable.
func (r Role) SelfService() bool {
	return r == RoleStudent || r == RoleInstructor
}

// User is the read-only cached copy of the backend identity record.
type User struct {
	// ID is the opaque server-assigned identifier.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Email is the login key, unique per account.
	Email string `json:"email"`

	// Role is fixed at registration from the client's point of view.
	Role Role `json:"role"`

	// Picture is an optional avatar URL (set for OAuth accounts).
	Picture string `json:"picture,omitempty"`
}
