package main

import (
	"encoding/json"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/opencampus/grievance-portal/pkg/portal/auth"
	"github.com/opencampus/grievance-portal/pkg/portal/categories"
	"github.com/opencampus/grievance-portal/pkg/portal/config"
	"github.com/opencampus/grievance-portal/pkg/portal/database"
	"github.com/opencampus/grievance-portal/pkg/portal/grievances"
	"github.com/opencampus/grievance-portal/pkg/portal/intake"
	"github.com/opencampus/grievance-portal/pkg/portal/models"
	"github.com/opencampus/grievance-portal/pkg/portal/questions"
	"github.com/opencampus/grievance-portal/pkg/portal/retention"
	"github.com/opencampus/grievance-portal/pkg/portal/settings"
	"github.com/opencampus/grievance-portal/pkg/portal/users"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/opencampus/grievance-portal/api/swagger"
)

// @title Grievance Portal API
// @version 1.0
// @description Role-based grievance submission and tracking for a college community.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token. Format: "Bearer {token}"

func main() {
	config.LoadConfig()

	if err := database.Connect(config.AppConfig.DBPath); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(database.GetDB()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	if err := ensureAdminExists(); err != nil {
		log.Fatalf("Failed to ensure admin user exists: %v", err)
	}

	if err := seedReferenceData(); err != nil {
		log.Fatalf("Failed to seed reference data: %v", err)
	}

	sweeper := retention.NewSweeper(database.GetDB(), config.AppConfig.ResolvedRetentionDays)
	sweeper.Start()
	defer sweeper.Stop()

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		db := database.GetDB()

		// Auth routes (public)
		authHandler := auth.NewHandler(db)
		authHandler.RegisterRoutes(api.Group("/auth"))

		// User management (admin only)
		usersHandler := users.NewHandler(db)
		usersGroup := api.Group("/users")
		usersGroup.Use(auth.AuthMiddleware(), auth.RequireAdmin())
		usersHandler.RegisterRoutes(usersGroup)

		// Grievances (any authenticated user; updates gated to reviewers)
		grievancesHandler := grievances.NewHandler(db)
		grievancesGroup := api.Group("/grievances")
		grievancesGroup.Use(auth.AuthMiddleware())
		grievancesHandler.RegisterRoutes(grievancesGroup)

		// Reference data: reads public, writes admin only
		adminAuth := []gin.HandlerFunc{auth.AuthMiddleware(), auth.RequireAdmin()}

		categoriesHandler := categories.NewHandler(db)
		categoriesHandler.RegisterRoutes(
			api.Group("/categories"),
			api.Group("/categories", adminAuth...),
		)

		questionsHandler := questions.NewHandler(db)
		questionsHandler.RegisterRoutes(
			api.Group("/chat-questions"),
			api.Group("/chat-questions", adminAuth...),
		)

		settingsHandler := settings.NewHandler(db)
		settingsHandler.RegisterRoutes(
			api.Group("/settings"),
			api.Group("/settings", adminAuth...),
		)

		// Intake wizard (authenticated)
		intakeHandler := intake.NewHandler(db)
		intakeGroup := api.Group("/intake")
		intakeGroup.Use(auth.AuthMiddleware())
		intakeHandler.RegisterRoutes(intakeGroup)
	}

	log.Printf("Starting grievance portal on :%s", config.AppConfig.Port)
	if err := r.Run(":" + config.AppConfig.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// ensureAdminExists creates a default admin user if no admin exists.
func ensureAdminExists() error {
	db := database.GetDB()

	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword("changeme")
	if err != nil {
		return err
	}

	admin := models.User{
		Email:        "admin@portal.local",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Created default admin user: admin@portal.local (password: changeme)")
	return nil
}

// seedReferenceData installs the default categories, wizard questions and
// settings when their tables are empty, so a fresh install has a working
// intake flow out of the box.
func seedReferenceData() error {
	db := database.GetDB()

	var categoryCount int64
	if err := db.Model(&models.Category{}).Count(&categoryCount).Error; err != nil {
		return err
	}
	if categoryCount == 0 {
		seedCategories := map[models.UserRole][]string{
			models.RoleStudent:    {"Academic", "Hostel", "Infrastructure", "Administration"},
			models.RoleStaff:      {"Workplace", "Administration", "Infrastructure"},
			models.RoleManagement: {"Policy", "Operations", "Infrastructure"},
		}
		for userType, names := range seedCategories {
			for _, name := range names {
				category := models.Category{Name: name, UserType: userType, IsActive: true}
				if err := db.Create(&category).Error; err != nil {
					return err
				}
			}
		}
		log.Println("Seeded default grievance categories")
	}

	var questionCount int64
	if err := db.Model(&models.ChatQuestion{}).Count(&questionCount).Error; err != nil {
		return err
	}
	if questionCount == 0 {
		prompts := map[int]string{
			1: "Hello! I'm here to help you submit your grievance. Please select the category that best describes your concern:",
			2: "Thank you. Please describe your grievance in detail:",
			3: "Got it. Where did this issue occur?",
		}
		for _, userType := range []models.UserRole{models.RoleStudent, models.RoleStaff, models.RoleManagement} {
			for step, question := range prompts {
				q := models.ChatQuestion{Question: question, Step: step, UserType: userType, IsActive: true}
				if err := db.Create(&q).Error; err != nil {
					return err
				}
			}
		}
		log.Println("Seeded default chat questions")
	}

	locations, _ := json.Marshal([]string{
		"Main Campus", "Hostel Block A", "Hostel Block B", "Library", "Cafeteria",
	})
	seedSettings := []models.SystemSetting{
		{Key: "intake.location_options", Value: string(locations), Category: "intake"},
		{Key: "terms_of_service", Value: "Grievances are handled confidentially and reviewed within five working days.", Category: "legal"},
	}
	for _, setting := range seedSettings {
		var existing models.SystemSetting
		if err := db.Where("key = ?", setting.Key).First(&existing).Error; err == nil {
			continue
		}
		if err := db.Create(&setting).Error; err != nil {
			return err
		}
	}

	return nil
}
