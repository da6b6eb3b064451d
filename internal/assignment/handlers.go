package assignment

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/notSure-ded/healthCare/internal/auth"
	"github.com/notSure-ded/healthCare/pkg/logger"
	"github.com/notSure-ded/healthCare/pkg/types"
)

// Handlers contains HTTP handlers for mapping operations
type Handlers struct {
	service *Service
	logger  *logger.Logger
}

// NewHandlers creates new assignment HTTP handlers
func NewHandlers(service *Service, log *logger.Logger) *Handlers {
	return &Handlers{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes registers mapping routes with the router
func (h *Handlers) RegisterRoutes(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	mappings := router.Group("/mappings")
	mappings.Use(authMiddleware)
	{
		mappings.GET("", h.List)
		mappings.POST("", h.Create)
		mappings.GET("/:patientId", h.ListDoctorsForPatient)
		mappings.DELETE("/delete/:id", h.Delete)
	}
}

// Create handles assigning a doctor to one of the caller's patients
func (h *Handlers) Create(c *gin.Context) {
	caller := auth.CallerFromContext(c)

	var req types.MappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	mapping, err := h.service.Create(caller, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mapping)
}

// List handles listing the caller's mappings
func (h *Handlers) List(c *gin.Context) {
	caller := auth.CallerFromContext(c)

	mappings, err := h.service.List(caller)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, mappings)
}

// ListDoctorsForPatient handles listing the doctors assigned to a patient
func (h *Handlers) ListDoctorsForPatient(c *gin.Context) {
	caller := auth.CallerFromContext(c)

	doctors, err := h.service.ListDoctorsForPatient(caller, c.Param("patientId"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, doctors)
}

// Delete handles removing a mapping owned by the caller
func (h *Handlers) Delete(c *gin.Context) {
	caller := auth.CallerFromContext(c)

	if err := h.service.Delete(caller, c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
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
