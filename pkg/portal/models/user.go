package models

import (
	"time"
)

// UserRole represents a user's role in the portal
type UserRole string

const (
	RoleStudent    UserRole = "student"
	RoleStaff      UserRole = "staff"
	RoleManagement UserRole = "management"
	RoleAdmin      UserRole = "admin"
)

// Valid reports whether the role is one of the known roles
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleStaff, RoleManagement, RoleAdmin:
		return true
	}
	return false
}

// IsReviewer reports whether the role may triage grievances
func (r UserRole) IsReviewer() bool {
	switch r {
	case RoleStaff, RoleManagement, RoleAdmin:
		return true
	}
	return false
}

// User represents a portal account. Accounts are created by admins and
// deactivated via IsActive, never deleted.
type User struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `json:"-"`
	Role         UserRole   `gorm:"type:varchar(20);not null" json:"role"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	LastLogin    *time.Time `json:"last_login"`
}
