package models

import "time"

// Category is a grievance topic offered to one user type during intake.
// Categories are deactivated rather than deleted.
type Category struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"not null" json:"name"`
	UserType  UserRole  `gorm:"type:varchar(20);not null;index" json:"user_type"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
}
