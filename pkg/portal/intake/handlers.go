package intake

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/opencampus/grievance-portal/pkg/portal/auth"
	"github.com/opencampus/grievance-portal/pkg/portal/models"
	"gorm.io/gorm"
)

// Handler handles intake wizard requests
type Handler struct {
	db      *gorm.DB
	machine *Machine
}

// NewHandler creates a new intake handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db, machine: NewMachine(db)}
}

// AnswerRequest represents one user answer in the conversation
type AnswerRequest struct {
	Message string `json:"message" binding:"required"`
}

// SessionResponse represents the wizard state returned after each exchange
type SessionResponse struct {
	SessionID   uint              `json:"session_id"`
	Step        models.IntakeStep `json:"step"`
	GrievanceID *uint             `json:"grievance_id,omitempty"`
	Prompt      *Prompt           `json:"prompt,omitempty"`
}

// Start opens a new intake session
// @Summary Start intake
// @Description Start a guided grievance intake session; returns the first prompt
// @Tags intake
// @Produce json
// @Success 201 {object} SessionResponse
// @Security BearerAuth
// @Router /intake [post]
func (h *Handler) Start(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	role, _ := auth.GetRole(c)

	session, prompt, err := h.machine.Start(userID, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to start intake session"})
		return
	}

	c.JSON(http.StatusCreated, SessionResponse{
		SessionID: session.ID,
		Step:      session.Step,
		Prompt:    prompt,
	})
}

// Get returns the session state and transcript
// @Summary Get intake session
// @Description Fetch an intake session owned by the caller
// @Tags intake
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} models.IntakeSession
// @Failure 404 {object} map[string]string "Session not found"
// @Security BearerAuth
// @Router /intake/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	session, ok := h.loadOwnedSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session)
}

// Message submits an answer and advances the wizard
// @Summary Answer intake prompt
// @Description Submit one answer; at the final step the grievance is created
// @Tags intake
// @Accept json
// @Produce json
// @Param id path int true "Session ID"
// @Param request body AnswerRequest true "The answer"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} map[string]string "Invalid answer"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 409 {object} map[string]string "Session already submitted"
// @Security BearerAuth
// @Router /intake/{id}/messages [post]
func (h *Handler) Message(c *gin.Context) {
	session, ok := h.loadOwnedSession(c)
	if !ok {
		return
	}

	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request data"})
		return
	}

	prompt, err := h.machine.Answer(session, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionComplete):
			c.JSON(http.StatusConflict, gin.H{"message": "Session already submitted"})
		case errors.Is(err, ErrUnknownCategory), errors.Is(err, ErrEmptyAnswer):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to submit grievance, please try again"})
		}
		return
	}

	c.JSON(http.StatusOK, SessionResponse{
		SessionID:   session.ID,
		Step:        session.Step,
		GrievanceID: session.GrievanceID,
		Prompt:      prompt,
	})
}

// loadOwnedSession fetches the session and enforces ownership. Admins may
// inspect any session.
func (h *Handler) loadOwnedSession(c *gin.Context) (*models.IntakeSession, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid session ID"})
		return nil, false
	}

	var session models.IntakeSession
	if err := h.db.First(&session, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Session not found"})
		return nil, false
	}

	userID, _ := auth.GetUserID(c)
	role, _ := auth.GetRole(c)
	if session.UserID != userID && role != models.RoleAdmin {
		c.JSON(http.StatusNotFound, gin.H{"message": "Session not found"})
		return nil, false
	}

	return &session, true
}

// RegisterRoutes registers intake routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Start)
	rg.GET("/:id", h.Get)
	rg.POST("/:id/messages", h.Message)
}
