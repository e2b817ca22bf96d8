package intake

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/opencampus/grievance-portal/pkg/portal/models"
	"gorm.io/gorm"
)

var (
	// ErrSessionComplete is returned when answering a submitted session
	ErrSessionComplete = errors.New("intake session already submitted")
	// ErrUnknownCategory is returned when the step-1 answer is not on the menu
	ErrUnknownCategory = errors.New("category must be chosen from the offered options")
	// ErrEmptyAnswer is returned for blank answers
	ErrEmptyAnswer = errors.New("answer must not be empty")
)

// locationOptionsKey is the setting holding the step-3 location menu as a
// JSON array. Seeded at startup so the menu stays configuration-driven.
const locationOptionsKey = "intake.location_options"

// typingDelayMs is the cosmetic "typing" pause the client should apply
// before showing a prompt.
const typingDelayMs = 500

const (
	senderUser   = "user"
	senderSystem = "system"
)

// defaultPrompts are used when no active chat question is configured for a
// user type and step.
var defaultPrompts = map[models.IntakeStep]string{
	models.StepCategory:    "Please select the category that best describes your grievance:",
	models.StepDescription: "Please describe your grievance in detail:",
	models.StepLocation:    "Where did this issue occur?",
}

var defaultLocations = []string{
	"Main Campus", "Hostel Block A", "Hostel Block B", "Library", "Cafeteria",
}

// Prompt is the next system message of the conversation
type Prompt struct {
	Step    models.IntakeStep `json:"step"`
	Message string            `json:"message"`
	Options []string          `json:"options,omitempty"`
	DelayMs int               `json:"delay_ms"`
}

// Machine drives the bounded intake conversation. It accumulates answers on
// the persisted session and issues exactly one grievance creation, at the
// location step, never before all three answers are collected.
type Machine struct {
	db *gorm.DB
}

// NewMachine creates a new intake machine
func NewMachine(db *gorm.DB) *Machine {
	return &Machine{db: db}
}

// Start opens a fresh intake session for a user and returns the category
// prompt. Each session produces at most one grievance.
func (m *Machine) Start(userID uint, userType models.UserRole) (*models.IntakeSession, *Prompt, error) {
	prompt := m.prompt(userType, models.StepCategory)
	prompt.Options = m.categoryOptions(userType)

	session := &models.IntakeSession{
		UserID:     userID,
		UserType:   userType,
		Step:       models.StepCategory,
		Transcript: models.ChatTranscript{systemEntry(prompt)},
	}

	if err := m.db.Create(session).Error; err != nil {
		return nil, nil, err
	}
	return session, prompt, nil
}

// Answer records the user's answer for the session's current step and
// advances the conversation. At the location step the grievance is created
// and the session becomes terminal; if creation fails the session is left at
// the location step so the answer can be resubmitted.
func (m *Machine) Answer(session *models.IntakeSession, answer string) (*Prompt, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, ErrEmptyAnswer
	}

	switch session.Step {
	case models.StepCategory:
		return m.answerCategory(session, answer)
	case models.StepDescription:
		return m.answerDescription(session, answer)
	case models.StepLocation:
		return m.answerLocation(session, answer)
	default:
		return nil, ErrSessionComplete
	}
}

func (m *Machine) answerCategory(session *models.IntakeSession, answer string) (*Prompt, error) {
	options := m.categoryOptions(session.UserType)
	if !contains(options, answer) {
		return nil, ErrUnknownCategory
	}

	prompt := m.prompt(session.UserType, models.StepDescription)

	session.Category = answer
	session.Step = models.StepDescription
	session.Transcript = append(session.Transcript, userEntry(answer), systemEntry(prompt))

	if err := m.db.Save(session).Error; err != nil {
		return nil, err
	}
	return prompt, nil
}

func (m *Machine) answerDescription(session *models.IntakeSession, answer string) (*Prompt, error) {
	prompt := m.prompt(session.UserType, models.StepLocation)
	prompt.Options = m.locationOptions()

	session.Description = answer
	session.Subject = models.SubjectFromDescription(answer)
	session.Step = models.StepLocation
	session.Transcript = append(session.Transcript, userEntry(answer), systemEntry(prompt))

	if err := m.db.Save(session).Error; err != nil {
		return nil, err
	}
	return prompt, nil
}

func (m *Machine) answerLocation(session *models.IntakeSession, answer string) (*Prompt, error) {
	// Location accepts either a menu choice or free text
	transcript := append(models.ChatTranscript{}, session.Transcript...)
	transcript = append(transcript, userEntry(answer))

	grievance := &models.Grievance{
		Reference:   models.NewGrievanceReference(),
		UserID:      session.UserID,
		UserType:    session.UserType,
		Category:    session.Category,
		Subject:     session.Subject,
		Description: session.Description,
		Location:    answer,
		Priority:    models.PriorityMedium,
		Status:      models.StatusSubmitted,
		AssignedTo:  nil,
		Revision:    1,
		ChatHistory: transcript,
	}

	confirmation := &Prompt{
		Step: models.StepSubmitted,
		Message: fmt.Sprintf(
			"Thank you! Your grievance has been submitted successfully with ID %s. You will receive updates on the progress.",
			grievance.Reference),
		DelayMs: typingDelayMs,
	}

	err := m.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(grievance).Error; err != nil {
			return err
		}
		session.Location = answer
		session.Step = models.StepSubmitted
		session.GrievanceID = &grievance.ID
		session.Transcript = append(transcript, systemEntry(confirmation))
		return tx.Save(session).Error
	})
	if err != nil {
		// The session row is untouched; the caller may resubmit the answer
		return nil, err
	}
	return confirmation, nil
}

// prompt fetches the configured question for a user type and step, falling
// back to the built-in wording when none is active.
func (m *Machine) prompt(userType models.UserRole, step models.IntakeStep) *Prompt {
	message := defaultPrompts[step]

	var question models.ChatQuestion
	err := m.db.Where("user_type = ? AND step = ? AND is_active = ?", userType, int(step), true).
		Order("id asc").
		First(&question).Error
	if err == nil {
		message = question.Question
	}

	return &Prompt{Step: step, Message: message, DelayMs: typingDelayMs}
}

// categoryOptions returns the names of active categories for the user type
func (m *Machine) categoryOptions(userType models.UserRole) []string {
	var names []string
	m.db.Model(&models.Category{}).
		Where("user_type = ? AND is_active = ?", userType, true).
		Order("name asc").
		Pluck("name", &names)
	return names
}

// locationOptions reads the configured location menu, falling back to the
// built-in list when the setting is missing or malformed.
func (m *Machine) locationOptions() []string {
	var setting models.SystemSetting
	if err := m.db.Where("key = ?", locationOptionsKey).First(&setting).Error; err != nil {
		return defaultLocations
	}

	var options []string
	if err := json.Unmarshal([]byte(setting.Value), &options); err != nil || len(options) == 0 {
		return defaultLocations
	}
	return options
}

func userEntry(message string) models.ChatEntry {
	return models.ChatEntry{Sender: senderUser, Message: message, Timestamp: time.Now()}
}

func systemEntry(p *Prompt) models.ChatEntry {
	return models.ChatEntry{Sender: senderSystem, Message: p.Message, Options: p.Options, Timestamp: time.Now()}
}

func contains(options []string, value string) bool {
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}
