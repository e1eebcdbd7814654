// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application. References
// between entities are plain foreign keys; related rows are loaded by
// explicit store queries.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role represents a user's permission level in the system.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleCoach  Role = "coach"
	RoleMember Role = "member"
)

// ParseRole maps a case-insensitive role name to a Role.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleEditor, RoleCoach, RoleMember:
		return r, true
	}
	return "", false
}

// UserStatus controls whether a user may log in.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

// User is a club member or staff account. Guest commenters are stored as
// inactive users without a password.
type User struct {
	ID                 uuid.UUID  `json:"id"`
	Email              string     `json:"email"`
	Username           string     `json:"username"`
	PasswordHash       string     `json:"-"` // Never serialize the hash
	FullName           string     `json:"full_name"`
	Phone              *string    `json:"phone,omitempty"`
	AvatarURL          *string    `json:"avatar_url,omitempty"`
	Role               Role       `json:"role"`
	Status             UserStatus `json:"status"`
	EmailVerified      bool       `json:"email_verified"`
	LastLoginAt        *time.Time `json:"last_login_at,omitempty"`
	RefreshToken       *string    `json:"-"`
	RefreshTokenExpiry *time.Time `json:"-"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsActive returns true if the account may log in.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// HasRole reports whether the user holds any of the given roles.
func (u *User) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
