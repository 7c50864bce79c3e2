package models

import "time"

// UserRole represents the roles an account can hold. Accounts start with
// no role and pick one exactly once at role selection.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleTeacher UserRole = "TEACHER"
	RoleLearner UserRole = "LEARNER"
)

// User represents an account plus its profile stored in the users table.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	Phone        *string    `db:"phone" json:"phone,omitempty"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         *UserRole  `db:"role" json:"role"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// HasRole reports whether the user has selected the given role.
func (u *User) HasRole(role UserRole) bool {
	return u.Role != nil && *u.Role == role
}

// PageInfo describes cursor-based pagination state returned in list
// responses. NextCursor is opaque; clients keep a history of issued
// cursors to navigate backwards.
type PageInfo struct {
	PageSize   int    `json:"page_size"`
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}
