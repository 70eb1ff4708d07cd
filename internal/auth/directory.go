package auth

import (
	"fmt"
	"strings"
)

// demoAccount is a seed entry for the closed demo directory.
type demoAccount struct {
	email    string
	name     string
	password string
	role     Role
	active   bool
}

// demoAccounts is the closed set of accounts this system knows about.
// There is no real user-directory backend; these exist so every role in
// the hierarchy can be exercised from the login screen.
var demoAccounts = []demoAccount{
	{email: "demo@example.com", name: "Demo Admin", password: "demo1234", role: RoleAdmin, active: true},
	{email: "carer@example.com", name: "Demo Caregiver", password: "care1234", role: RoleCaregiver, active: true},
	{email: "viewer@example.com", name: "Demo Viewer", password: "view1234", role: RoleViewer, active: true},
	{email: "retired@example.com", name: "Retired Account", password: "gone1234", role: RoleCaregiver, active: false},
}

// Directory is an in-memory account directory with hashed credentials.
//
// Lookups are by lowercased email. The directory is immutable after
// construction and safe for concurrent reads.
type Directory struct {
	byEmail map[string]*User
}

// NewDemoDirectory builds the demo directory, hashing each seed password
// with Argon2id at construction time.
func NewDemoDirectory() (*Directory, error) {
	d := &Directory{byEmail: make(map[string]*User, len(demoAccounts))}

	for i, acct := range demoAccounts {
		hash, err := HashPassword(acct.password)
		if err != nil {
			return nil, fmt.Errorf("hashing demo password for %s: %w", acct.email, err)
		}
		d.byEmail[strings.ToLower(acct.email)] = &User{
			ID:           fmt.Sprintf("usr-%03d", i+1),
			Email:        acct.email,
			Name:         acct.name,
			PasswordHash: hash,
			Role:         acct.role,
			IsActive:     acct.active,
		}
	}

	return d, nil
}

// Lookup returns the user registered under email, or ErrUserNotFound.
func (d *Directory) Lookup(email string) (*User, error) {
	user, ok := d.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	u := *user
	return &u, nil
}

// Authenticate verifies email/password against the directory.
//
// Returns ErrInvalidCredentials for unknown emails and wrong passwords
// alike (no account enumeration), and ErrUserInactive for a correct
// password on a deactivated account.
func (d *Directory) Authenticate(email, password string) (*User, error) {
	user, ok := d.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrInvalidCredentials
	}

	match, err := VerifyPassword(password, user.PasswordHash)
	if err != nil || !match {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	u := *user
	return &u, nil
}
