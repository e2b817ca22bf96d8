package models

import "time"

// IntakeStep is the wizard position of an intake session
type IntakeStep int

const (
	StepCategory    IntakeStep = 1 // awaiting a category choice
	StepDescription IntakeStep = 2 // awaiting the free-text description
	StepLocation    IntakeStep = 3 // awaiting a location
	StepSubmitted   IntakeStep = 4 // terminal; grievance created
)

// IntakeSession is one run of the guided intake wizard. A session collects
// the answers for exactly one grievance; a new grievance needs a new session.
type IntakeSession struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	UserType    UserRole       `gorm:"type:varchar(20);not null" json:"user_type"`
	Step        IntakeStep     `gorm:"not null;default:1" json:"step"`
	Category    string         `json:"category,omitempty"`
	Subject     string         `json:"subject,omitempty"`
	Description string         `json:"description,omitempty"`
	Location    string         `json:"location,omitempty"`
	GrievanceID *uint          `json:"grievance_id"`
	Transcript  ChatTranscript `gorm:"serializer:json" json:"transcript"`
}
