package clinical

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/notSure-ded/healthCare/internal/auth"
	"github.com/notSure-ded/healthCare/pkg/logger"
	"github.com/notSure-ded/healthCare/pkg/types"
)

// Handlers contains HTTP handlers for patient and doctor operations
type Handlers struct {
	service *Service
	logger  *logger.Logger
}

// NewHandlers creates new clinical HTTP handlers
func NewHandlers(service *Service, log *logger.Logger) *Handlers {
	return &Handlers{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes registers clinical routes with the router
func (h *Handlers) RegisterRoutes(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	patients := router.Group("/patients")
	patients.Use(authMiddleware)
	{
		patients.GET("", h.ListPatients)
		patients.POST("", h.CreatePatient)
		patients.GET("/:id", h.GetPatient)
		patients.PUT("/:id", h.UpdatePatient)
		patients.DELETE("/:id", h.DeletePatient)
	}

	doctors := router.Group("/doctors")
	doctors.Use(authMiddleware)
	{
		doctors.GET("", h.ListDoctors)
		doctors.POST("", h.CreateDoctor)
		doctors.GET("/:id", h.GetDoctor)
		doctors.PUT("/:id", h.UpdateDoctor)
		doctors.DELETE("/:id", h.DeleteDoctor)
	}
}

// CreatePatient handles patient creation
func (h *Handlers) CreatePatient(c *gin.Context) {
	caller := auth.CallerFromContext(c)

	var req types.PatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	patient, err := h.service.CreatePatient(caller, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, patient)
}

// ListPatients handles listing the caller's patients
func (h *Handlers) ListPatients(c *gin.Context) {
	caller := auth.CallerFromContext(c)

	patients, err := h.service.ListPatients(caller)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, patients)
}

// GetPatient handles reading one of the caller's patients
func (h *Handlers) GetPatient(c *gin.Context) {
	caller := auth.CallerFromContext(c)

	patient, err := h.service.GetPatient(caller, c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, patient)
}

// UpdatePatient handles updating one of the caller's patients
func (h *Handlers) UpdatePatient(c *gin.Context) {
	caller := auth.CallerFromContext(c)

	var req types.PatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	patient, err := h.service.UpdatePatient(caller, c.Param("id"), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, patient)
}

// DeletePatient handles deleting one of the caller's patients
func (h *Handlers) DeletePatient(c *gin.Context) {
	caller := auth.CallerFromContext(c)

	if err := h.service.DeletePatient(caller, c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListDoctors handles listing all doctors
func (h *Handlers) ListDoctors(c *gin.Context) {
	doctors, err := h.service.ListDoctors()
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, doctors)
}

// GetDoctor handles reading a doctor
func (h *Handlers) GetDoctor(c *gin.Context) {
	doctor, err := h.service.GetDoctor(c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, doctor)
}

// CreateDoctor handles doctor creation; the staff gate is checked before
// the request body so a non-staff caller is denied regardless of payload
func (h *Handlers) CreateDoctor(c *gin.Context) {
	caller := auth.CallerFromContext(c)
	if caller == nil || !caller.IsStaff {
		h.handleError(c, types.NewAuthorizationError(
			types.ErrCodeForbidden,
			"Only staff users may modify doctor records",
		))
		return
	}

	var req types.DoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	doctor, err := h.service.CreateDoctor(caller, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, doctor)
}

// UpdateDoctor handles doctor updates; staff only
func (h *Handlers) UpdateDoctor(c *gin.Context) {
	caller := auth.CallerFromContext(c)
	if caller == nil || !caller.IsStaff {
		h.handleError(c, types.NewAuthorizationError(
			types.ErrCodeForbidden,
			"Only staff users may modify doctor records",
		))
		return
	}

	var req types.DoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	doctor, err := h.service.UpdateDoctor(caller, c.Param("id"), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, doctor)
}

// DeleteDoctor handles doctor deletion; staff only
func (h *Handlers) DeleteDoctor(c *gin.Context) {
	caller := auth.CallerFromContext(c)

	if err := h.service.DeleteDoctor(caller, c.Param("id")); err != nil {
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
