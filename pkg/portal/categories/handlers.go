package categories

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/opencampus/grievance-portal/pkg/portal/models"
	"gorm.io/gorm"
)

// Handler handles grievance category requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new categories handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// CreateCategoryRequest represents the request to create a category
type CreateCategoryRequest struct {
	Name     string `json:"name" binding:"required"`
	UserType string `json:"user_type" binding:"required"`
}

// UpdateCategoryRequest represents a partial category update. Categories are
// deactivated via is_active, never deleted.
type UpdateCategoryRequest struct {
	Name     *string `json:"name"`
	UserType *string `json:"user_type"`
	IsActive *bool   `json:"is_active"`
}

// List returns categories, optionally filtered by user type
// @Summary List categories
// @Description List grievance categories, optionally scoped to a user type
// @Tags categories
// @Produce json
// @Param userType query string false "Filter by user type"
// @Success 200 {array} models.Category
// @Router /categories [get]
func (h *Handler) List(c *gin.Context) {
	query := h.db.Model(&models.Category{})
	if userType := c.Query("userType"); userType != "" {
		query = query.Where("user_type = ?", userType)
	}

	var categories []models.Category
	if err := query.Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch categories"})
		return
	}

	c.JSON(http.StatusOK, categories)
}

// Create creates a new category
// @Summary Create category
// @Description Create a grievance category for a user type (admin only)
// @Tags categories
// @Accept json
// @Produce json
// @Param request body CreateCategoryRequest true "Category details"
// @Success 201 {object} models.Category
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /categories [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid category data"})
		return
	}

	if !models.UserRole(req.UserType).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user type"})
		return
	}

	category := models.Category{
		Name:     req.Name,
		UserType: models.UserRole(req.UserType),
		IsActive: true,
	}

	if err := h.db.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create category"})
		return
	}

	c.JSON(http.StatusCreated, category)
}

// Update applies a partial update to a category
// @Summary Update category
// @Description Rename, rescope or deactivate a category (admin only)
// @Tags categories
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param request body UpdateCategoryRequest true "Fields to update"
// @Success 200 {object} models.Category
// @Failure 404 {object} map[string]string "Category not found"
// @Security BearerAuth
// @Router /categories/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid category ID"})
		return
	}

	var category models.Category
	if err := h.db.First(&category, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Category not found"})
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid update data"})
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.UserType != nil {
		if !models.UserRole(*req.UserType).Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user type"})
			return
		}
		updates["user_type"] = *req.UserType
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := h.db.Model(&category).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update category"})
			return
		}
	}

	h.db.First(&category, id)
	c.JSON(http.StatusOK, category)
}

// RegisterRoutes registers category routes. List is public; Create and Update
// are expected to be registered behind admin middleware by the caller.
func (h *Handler) RegisterRoutes(public, admin *gin.RouterGroup) {
	public.GET("", h.List)
	admin.POST("", h.Create)
	admin.PATCH("/:id", h.Update)
}
