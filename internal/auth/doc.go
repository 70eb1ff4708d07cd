// Package auth provides authentication and authorization for the care-bed
// backend: a demo user directory with Argon2id password hashes, a session
// manager that persists and restores auth state, role-based permission
// checks, JWT access tokens, and route guard evaluation.
package auth
