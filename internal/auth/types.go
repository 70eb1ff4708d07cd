package auth

import "errors"

// Role represents an authorisation tier in the system.
// Roles form a total order: viewer < caregiver < admin.
type Role string

const (
	// RoleViewer can observe bed state, presets, and sleep summaries but
	// cannot move the bed or change anything.
	RoleViewer Role = "viewer"

	// RoleCaregiver can operate the bed, manage custom presets, and view
	// sleep history. The typical day-to-day account.
	RoleCaregiver Role = "caregiver"

	// RoleAdmin has full control including user management, settings
	// management, and sleep-data export.
	RoleAdmin Role = "admin"
)

// roleRank maps each role to its position in the hierarchy.
// Higher rank means more privilege. Unknown roles rank 0.
var roleRank = map[Role]int{
	RoleViewer:    1,
	RoleCaregiver: 2,
	RoleAdmin:     3,
}

// ValidRoles is the set of valid user roles.
var ValidRoles = []Role{RoleViewer, RoleCaregiver, RoleAdmin}

// IsValidRole returns true if the role is a recognised user role.
func IsValidRole(r Role) bool {
	_, ok := roleRank[r]
	return ok
}

// User represents an account in the demo directory.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"` // never serialised
	Role         Role   `json:"role"`
	IsActive     bool   `json:"is_active"`
}

// State is the observable authentication state.
//
// ErrorMessage carries the most recent login failure; it is cleared on
// successful login and on logout.
type State struct {
	IsAuthenticated bool    `json:"is_authenticated"`
	CurrentUser     *User   `json:"current_user,omitempty"`
	ErrorMessage    *string `json:"error_message,omitempty"`
}

// Sentinel errors for auth operations.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrTokenInvalid       = errors.New("invalid token")
)
