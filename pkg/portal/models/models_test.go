package models

import (
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func TestSubjectFromDescriptionShort(t *testing.T) {
	description := "The projector in room 204 is broken"
	if got := SubjectFromDescription(description); got != description {
		t.Errorf("Expected subject to equal description, got %q", got)
	}
}

func TestSubjectFromDescriptionExactly50(t *testing.T) {
	description := strings.Repeat("a", 50)
	if got := SubjectFromDescription(description); got != description {
		t.Errorf("Expected no truncation at 50 chars, got %q", got)
	}
}

func TestSubjectFromDescriptionTruncated(t *testing.T) {
	description := strings.Repeat("a", 80)
	got := SubjectFromDescription(description)
	want := strings.Repeat("a", 50) + "..."
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestSubjectFromDescriptionMultibyte(t *testing.T) {
	description := strings.Repeat("é", 60)
	got := SubjectFromDescription(description)
	want := strings.Repeat("é", 50) + "..."
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestUserRoleValid(t *testing.T) {
	for _, role := range []UserRole{RoleStudent, RoleStaff, RoleManagement, RoleAdmin} {
		if !role.Valid() {
			t.Errorf("Expected role %q to be valid", role)
		}
	}
	if UserRole("teacher").Valid() {
		t.Error("Expected unknown role to be invalid")
	}
}

func TestUserRoleIsReviewer(t *testing.T) {
	if RoleStudent.IsReviewer() {
		t.Error("Students must not be reviewers")
	}
	for _, role := range []UserRole{RoleStaff, RoleManagement, RoleAdmin} {
		if !role.IsReviewer() {
			t.Errorf("Expected role %q to be a reviewer", role)
		}
	}
}

func TestGrievanceStatusValid(t *testing.T) {
	for _, status := range []GrievanceStatus{StatusSubmitted, StatusUnderReview, StatusResolved, StatusClosed} {
		if !status.Valid() {
			t.Errorf("Expected status %q to be valid", status)
		}
	}
	if GrievanceStatus("reopened").Valid() {
		t.Error("Expected unknown status to be invalid")
	}
}

func TestNewGrievanceReference(t *testing.T) {
	ref := NewGrievanceReference()
	if !strings.HasPrefix(ref, "GRV-") || len(ref) != 12 {
		t.Errorf("Unexpected reference format: %q", ref)
	}
	if ref == NewGrievanceReference() {
		t.Error("Expected references to be unique")
	}
}

func TestChatTranscriptRoundTrip(t *testing.T) {
	db := setupTestDB(t)

	grievance := Grievance{
		Reference:   NewGrievanceReference(),
		UserID:      1,
		UserType:    RoleStudent,
		Category:    "Academic",
		Subject:     "Broken projector",
		Description: "Broken projector",
		Priority:    PriorityMedium,
		Status:      StatusSubmitted,
		Revision:    1,
		ChatHistory: ChatTranscript{
			{Sender: "system", Message: "Pick a category", Options: []string{"Academic"}},
			{Sender: "user", Message: "Academic"},
		},
	}
	if err := db.Create(&grievance).Error; err != nil {
		t.Fatalf("Failed to create grievance: %v", err)
	}

	var loaded Grievance
	if err := db.First(&loaded, grievance.ID).Error; err != nil {
		t.Fatalf("Failed to load grievance: %v", err)
	}

	if len(loaded.ChatHistory) != 2 {
		t.Fatalf("Expected 2 transcript entries, got %d", len(loaded.ChatHistory))
	}
	if loaded.ChatHistory[0].Sender != "system" || loaded.ChatHistory[1].Message != "Academic" {
		t.Errorf("Transcript did not survive the round trip: %+v", loaded.ChatHistory)
	}
	if len(loaded.ChatHistory[0].Options) != 1 {
		t.Errorf("Expected options to survive, got %+v", loaded.ChatHistory[0].Options)
	}
}

func TestGrievanceDefaults(t *testing.T) {
	db := setupTestDB(t)

	grievance := Grievance{
		Reference:   NewGrievanceReference(),
		UserID:      1,
		UserType:    RoleStaff,
		Category:    "Workplace",
		Subject:     "Subject",
		Description: "Description",
	}
	if err := db.Create(&grievance).Error; err != nil {
		t.Fatalf("Failed to create grievance: %v", err)
	}

	var loaded Grievance
	db.First(&loaded, grievance.ID)

	if loaded.Status != StatusSubmitted {
		t.Errorf("Expected default status submitted, got %q", loaded.Status)
	}
	if loaded.Priority != PriorityMedium {
		t.Errorf("Expected default priority medium, got %q", loaded.Priority)
	}
	if loaded.AssignedTo != nil {
		t.Errorf("Expected no assignee, got %v", loaded.AssignedTo)
	}
}
