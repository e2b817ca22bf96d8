package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GrievanceStatus represents where a grievance sits in its lifecycle
type GrievanceStatus string

const (
	StatusSubmitted   GrievanceStatus = "submitted"
	StatusUnderReview GrievanceStatus = "under review"
	StatusResolved    GrievanceStatus = "resolved"
	StatusClosed      GrievanceStatus = "closed"
)

// Valid reports whether the status is one of the known statuses
func (s GrievanceStatus) Valid() bool {
	switch s {
	case StatusSubmitted, StatusUnderReview, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// GrievancePriority represents how urgent a grievance is
type GrievancePriority string

const (
	PriorityLow    GrievancePriority = "low"
	PriorityMedium GrievancePriority = "medium"
	PriorityHigh   GrievancePriority = "high"
)

// Valid reports whether the priority is one of the known priorities
func (p GrievancePriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ChatEntry is a single line of the intake conversation
type ChatEntry struct {
	Sender    string    `json:"sender"` // "user" or "system"
	Message   string    `json:"message"`
	Options   []string  `json:"options,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatTranscript is the ordered intake conversation, stored as a JSON column
type ChatTranscript []ChatEntry

// Grievance represents a single complaint record tracked from submission to
// resolution. UserID, Category and Description are immutable after creation;
// only Status, AssignedTo and Priority change while it is being worked.
type Grievance struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Reference   string            `gorm:"uniqueIndex;not null" json:"reference"`
	UserID      uint              `gorm:"not null;index" json:"user_id"`
	UserType    UserRole          `gorm:"type:varchar(20);not null" json:"user_type"`
	Category    string            `gorm:"not null" json:"category"`
	Subject     string            `gorm:"not null" json:"subject"`
	Description string            `gorm:"not null" json:"description"`
	Location    string            `json:"location,omitempty"`
	Priority    GrievancePriority `gorm:"type:varchar(10);default:'medium'" json:"priority"`
	Status      GrievanceStatus   `gorm:"type:varchar(20);default:'submitted'" json:"status"`
	AssignedTo  *uint             `json:"assigned_to"`
	Revision    uint              `gorm:"default:1" json:"revision"`
	ChatHistory ChatTranscript    `gorm:"serializer:json" json:"chat_history"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// subjectMaxLen is the display length a grievance subject is cut to.
const subjectMaxLen = 50

// SubjectFromDescription derives the truncated subject line from the full
// description, appending "..." when the description is cut.
func SubjectFromDescription(description string) string {
	runes := []rune(description)
	if len(runes) <= subjectMaxLen {
		return description
	}
	return string(runes[:subjectMaxLen]) + "..."
}

// NewGrievanceReference generates a short unique reference code shown to the
// submitting user, e.g. "GRV-9F2A41C0".
func NewGrievanceReference() string {
	return "GRV-" + strings.ToUpper(uuid.NewString()[:8])
}
