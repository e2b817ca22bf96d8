package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
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
	handler.RegisterRoutes(r.Group("/api/auth"))
	return r
}

func createTestUser(t *testing.T, db *gorm.DB, email string, role models.UserRole, active bool) models.User {
	hash, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	user := models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     active,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	// gorm skips the zero-value false on insert because of the column's
	// default:true tag, so persist deactivation explicitly
	if !active {
		if err := db.Model(&user).UpdateColumn("is_active", false).Error; err != nil {
			t.Fatalf("Failed to deactivate test user: %v", err)
		}
	}
	return user
}

func postLogin(router *gin.Engine, email, password string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req, _ := http.NewRequest("POST", "/api/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "s3cret-password" {
		t.Error("Hash must not equal the plaintext password")
	}
	if !CheckPassword("s3cret-password", hash) {
		t.Error("Expected correct password to verify")
	}
	if CheckPassword("wrong-password", hash) {
		t.Error("Expected wrong password to fail")
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(42, "student@example.com", string(models.RoleStudent))
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "student@example.com" || claims.Role != "student" {
		t.Errorf("Unexpected claims: %+v", claims)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	if _, err := ValidateToken("not-a-token"); err != ErrInvalidToken {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
}

func TestLoginSuccess(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "student@example.com", models.RoleStudent, true)

	resp := postLogin(router, "student@example.com", "password123")
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var result AuthResponse
	json.Unmarshal(resp.Body.Bytes(), &result)
	if result.Token == "" {
		t.Error("Expected a token in the response")
	}
	if result.User.ID != user.ID || result.User.Role != "student" {
		t.Errorf("Unexpected user payload: %+v", result.User)
	}

	// Login must record the last login time
	var reloaded models.User
	db.First(&reloaded, user.ID)
	if reloaded.LastLogin == nil {
		t.Error("Expected last_login to be set after login")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	createTestUser(t, db, "student@example.com", models.RoleStudent, true)

	resp := postLogin(router, "student@example.com", "wrong-password")
	if resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", resp.Code)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	resp := postLogin(router, "nobody@example.com", "password123")
	if resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", resp.Code)
	}
}

func TestLoginDeactivatedAccount(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	createTestUser(t, db, "former@example.com", models.RoleStaff, false)

	// Correct credentials must still fail for a deactivated account
	resp := postLogin(router, "former@example.com", "password123")
	if resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", resp.Code)
	}

	var body map[string]string
	json.Unmarshal(resp.Body.Bytes(), &body)
	if body["message"] != "Account is deactivated" {
		t.Errorf("Unexpected message: %q", body["message"])
	}
}

func TestLoginMalformedBody(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	resp := postLogin(router, "not-an-email", "password123")
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.Code)
	}
}

func TestMe(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "student@example.com", models.RoleStudent, true)

	token, _ := GenerateToken(user.ID, user.Email, string(user.Role))
	req, _ := http.NewRequest("GET", "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var result UserResponse
	json.Unmarshal(resp.Body.Bytes(), &result)
	if result.Email != "student@example.com" {
		t.Errorf("Unexpected email: %q", result.Email)
	}
}

func TestMeWithoutToken(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	req, _ := http.NewRequest("GET", "/api/auth/me", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", resp.Code)
	}
}
