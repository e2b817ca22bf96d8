package users

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/opencampus/grievance-portal/pkg/portal/auth"
	"github.com/opencampus/grievance-portal/pkg/portal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	models.AutoMigrate(db)
	return db
}

func setupTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(db)

	group := r.Group("/api/users")
	group.Use(auth.AuthMiddleware(), auth.RequireAdmin())
	handler.RegisterRoutes(group)

	return r
}

func createTestUser(t *testing.T, db *gorm.DB, email string, role models.UserRole) models.User {
	hash, _ := auth.HashPassword("password123")
	user := models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func getAuthHeader(user models.User) string {
	token, _ := auth.GenerateToken(user.ID, user.Email, string(user.Role))
	return "Bearer " + token
}

func doJSON(router *gin.Engine, method, path, authHeader string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewBuffer(b)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req, _ := http.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestListUsersStripsCredentials(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	admin := createTestUser(t, db, "admin@example.com", models.RoleAdmin)
	createTestUser(t, db, "student@example.com", models.RoleStudent)

	resp := doJSON(router, "GET", "/api/users", getAuthHeader(admin), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var users []map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &users)
	if len(users) != 2 {
		t.Fatalf("Expected 2 users, got %d", len(users))
	}
	for _, u := range users {
		if _, ok := u["password"]; ok {
			t.Error("Password must not appear in responses")
		}
		if _, ok := u["password_hash"]; ok {
			t.Error("Password hash must not appear in responses")
		}
	}
}

func TestListUsersForbiddenForNonAdmin(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	student := createTestUser(t, db, "student@example.com", models.RoleStudent)

	resp := doJSON(router, "GET", "/api/users", getAuthHeader(student), nil)
	if resp.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", resp.Code)
	}
}

func TestCreateUserHashesPassword(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	admin := createTestUser(t, db, "admin@example.com", models.RoleAdmin)

	resp := doJSON(router, "POST", "/api/users", getAuthHeader(admin), map[string]string{
		"email":    "new@example.com",
		"password": "password123",
		"role":     "staff",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var user models.User
	if err := db.Where("email = ?", "new@example.com").First(&user).Error; err != nil {
		t.Fatalf("Expected user to exist: %v", err)
	}
	if user.PasswordHash == "password123" {
		t.Error("Password must be stored hashed")
	}
	if !auth.CheckPassword("password123", user.PasswordHash) {
		t.Error("Stored hash must verify against the original password")
	}
	if !user.IsActive {
		t.Error("New users must start active")
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	admin := createTestUser(t, db, "admin@example.com", models.RoleAdmin)
	createTestUser(t, db, "taken@example.com", models.RoleStudent)

	resp := doJSON(router, "POST", "/api/users", getAuthHeader(admin), map[string]string{
		"email":    "taken@example.com",
		"password": "password123",
		"role":     "student",
	})
	if resp.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", resp.Code)
	}
}

func TestCreateUserInvalidRole(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	admin := createTestUser(t, db, "admin@example.com", models.RoleAdmin)

	resp := doJSON(router, "POST", "/api/users", getAuthHeader(admin), map[string]string{
		"email":    "new@example.com",
		"password": "password123",
		"role":     "teacher",
	})
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.Code)
	}
}

func TestUpdateUserIgnoresPassword(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	admin := createTestUser(t, db, "admin@example.com", models.RoleAdmin)
	student := createTestUser(t, db, "student@example.com", models.RoleStudent)
	originalHash := student.PasswordHash

	resp := doJSON(router, "PATCH", fmt.Sprintf("/api/users/%d", student.ID), getAuthHeader(admin), map[string]interface{}{
		"password":  "hijacked",
		"is_active": false,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var reloaded models.User
	db.First(&reloaded, student.ID)
	if reloaded.PasswordHash != originalHash {
		t.Error("Password must not change through this route")
	}
	if reloaded.IsActive {
		t.Error("Expected user to be deactivated")
	}
}

func TestUpdateUserNotFound(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	admin := createTestUser(t, db, "admin@example.com", models.RoleAdmin)

	resp := doJSON(router, "PATCH", "/api/users/9999", getAuthHeader(admin), map[string]interface{}{
		"is_active": false,
	})
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.Code)
	}
}

func TestAdminCannotDeactivateSelf(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	admin := createTestUser(t, db, "admin@example.com", models.RoleAdmin)

	resp := doJSON(router, "PATCH", fmt.Sprintf("/api/users/%d", admin.ID), getAuthHeader(admin), map[string]interface{}{
		"is_active": false,
	})
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.Code)
	}
}
