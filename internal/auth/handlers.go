package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/notSure-ded/healthCare/internal/metrics"
	"github.com/notSure-ded/healthCare/pkg/logger"
	"github.com/notSure-ded/healthCare/pkg/types"
)

// Handlers contains HTTP handlers for authentication operations
type Handlers struct {
	service *Service
	logger  *logger.Logger
}

// NewHandlers creates new auth HTTP handlers
func NewHandlers(service *Service, log *logger.Logger) *Handlers {
	return &Handlers{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes registers auth routes with the router
func (h *Handlers) RegisterRoutes(router *gin.Engine) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
	}
}

// Register handles user registration
func (h *Handlers) Register(c *gin.Context) {
	var req types.RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Invalid registration request")
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	user, err := h.service.Register(&req)
	metrics.RecordAuthAttempt("register", err == nil)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"name":       user.Name,
		"is_active":  user.IsActive,
		"created_at": user.CreatedAt,
	})
}

// Login handles user authentication
func (h *Handlers) Login(c *gin.Context) {
	var credentials types.Credentials
	if err := c.ShouldBindJSON(&credentials); err != nil {
		h.logger.WithError(err).Error("Invalid login request")
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	token, err := h.service.Login(&credentials)
	metrics.RecordAuthAttempt("login", err == nil)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, token)
}

// Refresh handles token refresh
func (h *Handlers) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	token, err := h.service.Refresh(req.RefreshToken)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, token)
}

func (h *Handlers) handleError(c *gin.Context, err error) {
	if svcErr, ok := err.(*types.ServiceError); ok {
		c.JSON(statusCodeFromErrorType(svcErr.Type), gin.H{
			"error":   svcErr.Code,
			"message": svcErr.Message,
			"details": svcErr.Details,
		})
		return
	}

	h.logger.WithError(err).Error("Internal server error")
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   types.ErrCodeInternalError,
		"message": "An internal error occurred",
	})
}

func statusCodeFromErrorType(errorType types.ErrorType) int {
	switch errorType {
	case types.ErrorTypeValidation:
		return http.StatusBadRequest
	case types.ErrorTypeAuthentication:
		return http.StatusUnauthorized
	case types.ErrorTypeAuthorization:
		return http.StatusForbidden
	case types.ErrorTypeNotFound:
		return http.StatusNotFound
	case types.ErrorTypeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
