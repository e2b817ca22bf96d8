package questions

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/opencampus/grievance-portal/pkg/portal/models"
	"gorm.io/gorm"
)

// Handler handles chat question requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new chat questions handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// CreateQuestionRequest represents the request to create a chat question
type CreateQuestionRequest struct {
	Question string `json:"question" binding:"required"`
	Step     int    `json:"step" binding:"required,min=1"`
	UserType string `json:"user_type" binding:"required"`
	Category string `json:"category"`
}

// UpdateQuestionRequest represents a partial chat question update
type UpdateQuestionRequest struct {
	Question *string `json:"question"`
	Step     *int    `json:"step"`
	UserType *string `json:"user_type"`
	Category *string `json:"category"`
	IsActive *bool   `json:"is_active"`
}

// List returns chat questions filtered by user type and optionally step
// @Summary List chat questions
// @Description List the scripted intake prompts for a user type and step
// @Tags chat-questions
// @Produce json
// @Param userType query string false "Filter by user type"
// @Param step query int false "Filter by wizard step"
// @Success 200 {array} models.ChatQuestion
// @Router /chat-questions [get]
func (h *Handler) List(c *gin.Context) {
	query := h.db.Model(&models.ChatQuestion{})
	if userType := c.Query("userType"); userType != "" {
		query = query.Where("user_type = ?", userType)
	}
	if stepParam := c.Query("step"); stepParam != "" {
		step, err := strconv.Atoi(stepParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid step"})
			return
		}
		query = query.Where("step = ?", step)
	}

	var questions []models.ChatQuestion
	if err := query.Order("step asc").Find(&questions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch questions"})
		return
	}

	c.JSON(http.StatusOK, questions)
}

// Create creates a new chat question
// @Summary Create chat question
// @Description Add a scripted intake prompt (admin only)
// @Tags chat-questions
// @Accept json
// @Produce json
// @Param request body CreateQuestionRequest true "Question details"
// @Success 201 {object} models.ChatQuestion
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /chat-questions [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid question data"})
		return
	}

	if !models.UserRole(req.UserType).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user type"})
		return
	}

	question := models.ChatQuestion{
		Question: req.Question,
		Step:     req.Step,
		UserType: models.UserRole(req.UserType),
		Category: req.Category,
		IsActive: true,
	}

	if err := h.db.Create(&question).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create question"})
		return
	}

	c.JSON(http.StatusCreated, question)
}

// Update applies a partial update to a chat question
// @Summary Update chat question
// @Description Edit or deactivate a scripted prompt (admin only)
// @Tags chat-questions
// @Accept json
// @Produce json
// @Param id path int true "Question ID"
// @Param request body UpdateQuestionRequest true "Fields to update"
// @Success 200 {object} models.ChatQuestion
// @Failure 404 {object} map[string]string "Question not found"
// @Security BearerAuth
// @Router /chat-questions/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid question ID"})
		return
	}

	var question models.ChatQuestion
	if err := h.db.First(&question, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Question not found"})
		return
	}

	var req UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid update data"})
		return
	}

	updates := make(map[string]interface{})
	if req.Question != nil {
		updates["question"] = *req.Question
	}
	if req.Step != nil {
		if *req.Step < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid step"})
			return
		}
		updates["step"] = *req.Step
	}
	if req.UserType != nil {
		if !models.UserRole(*req.UserType).Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user type"})
			return
		}
		updates["user_type"] = *req.UserType
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := h.db.Model(&question).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update question"})
			return
		}
	}

	h.db.First(&question, id)
	c.JSON(http.StatusOK, question)
}

// RegisterRoutes registers chat question routes. List is public; Create and
// Update belong behind admin middleware.
func (h *Handler) RegisterRoutes(public, admin *gin.RouterGroup) {
	public.GET("", h.List)
	admin.POST("", h.Create)
	admin.PATCH("/:id", h.Update)
}
