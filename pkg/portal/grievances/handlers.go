package grievances

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/opencampus/grievance-portal/pkg/portal/auth"
	"github.com/opencampus/grievance-portal/pkg/portal/models"
	"gorm.io/gorm"
)

// Handler handles grievance requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new grievances handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// CreateGrievanceRequest represents the request to create a grievance.
// The owner and user type come from the authenticated token, never the body.
type CreateGrievanceRequest struct {
	Category    string `json:"category" binding:"required"`
	Subject     string `json:"subject" binding:"required"`
	Description string `json:"description" binding:"required"`
	Location    string `json:"location"`
	Priority    string `json:"priority"`
}

// UpdateGrievanceRequest represents a partial grievance update. Only status,
// assignee and priority are mutable after creation. Revision, when supplied,
// must match the stored record or the update is rejected.
type UpdateGrievanceRequest struct {
	Status     *string `json:"status"`
	AssignedTo *uint   `json:"assigned_to"`
	Priority   *string `json:"priority"`
	Revision   *uint   `json:"revision"`
}

// Create creates a new grievance with submission defaults
// @Summary Create grievance
// @Description Create a grievance owned by the authenticated user
// @Tags grievances
// @Accept json
// @Produce json
// @Param request body CreateGrievanceRequest true "Grievance details"
// @Success 201 {object} models.Grievance
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /grievances [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateGrievanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid grievance data"})
		return
	}

	priority := models.PriorityMedium
	if req.Priority != "" {
		priority = models.GrievancePriority(req.Priority)
		if !priority.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid priority"})
			return
		}
	}

	userID, _ := auth.GetUserID(c)
	role, _ := auth.GetRole(c)

	grievance := models.Grievance{
		Reference:   models.NewGrievanceReference(),
		UserID:      userID,
		UserType:    role,
		Category:    req.Category,
		Subject:     req.Subject,
		Description: req.Description,
		Location:    req.Location,
		Priority:    priority,
		Status:      models.StatusSubmitted,
		AssignedTo:  nil,
		Revision:    1,
		ChatHistory: models.ChatTranscript{},
	}

	if err := h.db.Create(&grievance).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create grievance"})
		return
	}

	c.JSON(http.StatusCreated, grievance)
}

// List returns grievances, optionally scoped to a user
// @Summary List grievances
// @Description List grievances. Students only ever see their own records.
// @Tags grievances
// @Produce json
// @Param userId query int false "Filter by owning user"
// @Success 200 {array} models.Grievance
// @Security BearerAuth
// @Router /grievances [get]
func (h *Handler) List(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	role, _ := auth.GetRole(c)

	query := h.db.Model(&models.Grievance{})

	if !role.IsReviewer() {
		// Non-reviewers are always scoped to their own records
		query = query.Where("user_id = ?", userID)
	} else if filter := c.Query("userId"); filter != "" {
		id, err := strconv.ParseUint(filter, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid userId"})
			return
		}
		query = query.Where("user_id = ?", id)
	}

	var grievances []models.Grievance
	if err := query.Find(&grievances).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch grievances"})
		return
	}

	c.JSON(http.StatusOK, grievances)
}

// Get returns a single grievance
// @Summary Get grievance
// @Description Fetch one grievance by ID (owner or reviewer)
// @Tags grievances
// @Produce json
// @Param id path int true "Grievance ID"
// @Success 200 {object} models.Grievance
// @Failure 404 {object} map[string]string "Grievance not found"
// @Security BearerAuth
// @Router /grievances/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid grievance ID"})
		return
	}

	var grievance models.Grievance
	if err := h.db.First(&grievance, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Grievance not found"})
		return
	}

	userID, _ := auth.GetUserID(c)
	role, _ := auth.GetRole(c)
	if !role.IsReviewer() && grievance.UserID != userID {
		// Hide other users' records rather than admit they exist
		c.JSON(http.StatusNotFound, gin.H{"message": "Grievance not found"})
		return
	}

	c.JSON(http.StatusOK, grievance)
}

// Update applies a partial update to a grievance
// @Summary Update grievance
// @Description Update status, assignee or priority. Status changes are checked
// @Description against the allowed transition order; a stale revision is rejected.
// @Tags grievances
// @Accept json
// @Produce json
// @Param id path int true "Grievance ID"
// @Param request body UpdateGrievanceRequest true "Fields to update"
// @Success 200 {object} models.Grievance
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Grievance not found"
// @Failure 409 {object} map[string]string "Stale revision or invalid transition"
// @Security BearerAuth
// @Router /grievances/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid grievance ID"})
		return
	}

	var grievance models.Grievance
	if err := h.db.First(&grievance, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Grievance not found"})
		return
	}

	var req UpdateGrievanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid update data"})
		return
	}

	if req.Revision != nil && *req.Revision != grievance.Revision {
		c.JSON(http.StatusConflict, gin.H{"message": "Grievance was modified by someone else"})
		return
	}

	role, _ := auth.GetRole(c)

	updates := make(map[string]interface{})
	if req.Status != nil {
		to := models.GrievanceStatus(*req.Status)
		if !CanTransition(grievance.Status, to, role) {
			c.JSON(http.StatusConflict, gin.H{"message": "Invalid status transition"})
			return
		}
		updates["status"] = to
	}
	if req.AssignedTo != nil {
		updates["assigned_to"] = *req.AssignedTo
	}
	if req.Priority != nil {
		if !models.GrievancePriority(*req.Priority).Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid priority"})
			return
		}
		updates["priority"] = *req.Priority
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No updatable fields provided"})
		return
	}

	updates["revision"] = grievance.Revision + 1
	if err := h.db.Model(&grievance).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update grievance"})
		return
	}

	h.db.First(&grievance, id)
	c.JSON(http.StatusOK, grievance)
}

// RegisterRoutes registers grievance routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id", auth.RequireReviewer(), h.Update)
}
