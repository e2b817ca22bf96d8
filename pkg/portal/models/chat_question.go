package models

import "time"

// ChatQuestion is a scripted intake prompt bound to a wizard step and user
// type, optionally tagged with a category.
type ChatQuestion struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Question  string    `gorm:"not null" json:"question"`
	Step      int       `gorm:"not null;index" json:"step"`
	Category  string    `json:"category,omitempty"`
	UserType  UserRole  `gorm:"type:varchar(20);not null;index" json:"user_type"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
}
