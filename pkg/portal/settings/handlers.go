package settings

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opencampus/grievance-portal/pkg/portal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Handler handles system setting requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new settings handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// SetSettingRequest represents the request to write a setting
type SetSettingRequest struct {
	Key      string `json:"key" binding:"required"`
	Value    string `json:"value" binding:"required"`
	Category string `json:"category" binding:"required"`
}

// List returns settings, optionally filtered by category
// @Summary List settings
// @Description List system settings, optionally scoped to a category
// @Tags settings
// @Produce json
// @Param category query string false "Filter by category"
// @Success 200 {array} models.SystemSetting
// @Router /settings [get]
func (h *Handler) List(c *gin.Context) {
	query := h.db.Model(&models.SystemSetting{})
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var settings []models.SystemSetting
	if err := query.Find(&settings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch settings"})
		return
	}

	c.JSON(http.StatusOK, settings)
}

// Get returns a single setting by key
// @Summary Get setting
// @Description Fetch one system setting by its key
// @Tags settings
// @Produce json
// @Param key path string true "Setting key"
// @Success 200 {object} models.SystemSetting
// @Failure 404 {object} map[string]string "Setting not found"
// @Router /settings/{key} [get]
func (h *Handler) Get(c *gin.Context) {
	var setting models.SystemSetting
	if err := h.db.Where("key = ?", c.Param("key")).First(&setting).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Setting not found"})
		return
	}

	c.JSON(http.StatusOK, setting)
}

// Set upserts a setting keyed by its key
// @Summary Write setting
// @Description Create or overwrite a system setting; writes are idempotent upserts (admin only)
// @Tags settings
// @Accept json
// @Produce json
// @Param request body SetSettingRequest true "Setting"
// @Success 200 {object} models.SystemSetting
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /settings [post]
func (h *Handler) Set(c *gin.Context) {
	var req SetSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid setting data"})
		return
	}

	setting := models.SystemSetting{
		Key:      req.Key,
		Value:    req.Value,
		Category: req.Category,
	}

	err := h.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "category"}),
	}).Create(&setting).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to write setting"})
		return
	}

	// Reload so the response carries the row's real ID after an upsert
	h.db.Where("key = ?", req.Key).First(&setting)
	c.JSON(http.StatusOK, setting)
}

// RegisterRoutes registers setting routes. Reads are public; Set belongs
// behind admin middleware.
func (h *Handler) RegisterRoutes(public, admin *gin.RouterGroup) {
	public.GET("", h.List)
	public.GET("/:key", h.Get)
	admin.POST("", h.Set)
}
