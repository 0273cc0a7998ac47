package api

import (
	"github.com/gin-gonic/gin"

	"github.com/ifportal/portal-estudante/internal/api/middleware"
	"github.com/ifportal/portal-estudante/internal/domain"
	"github.com/ifportal/portal-estudante/internal/services"
)

// StudentHandler serves the staff-facing student lookup by registration.
type StudentHandler struct {
	dashboards *services.DashboardService
	sessionMW  *middleware.SessionMiddleware
}

// NewStudentHandler creates a student lookup handler.
func NewStudentHandler(dashboards *services.DashboardService, sessionMW *middleware.SessionMiddleware) *StudentHandler {
	return &StudentHandler{dashboards: dashboards, sessionMW: sessionMW}
}

// RegisterRoutes registers the student lookup route.
func (h *StudentHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/students/:registration", h.sessionMW.RequireSession(), h.Lookup)
}

// Lookup combines a student's registration record, boletim, and the
// computed period summary.
func (h *StudentHandler) Lookup(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		ErrorResponse(c, domain.NewAuthenticationError(domain.CodeSessionInvalid, "not authenticated"))
		return
	}

	registration := c.Param("registration")
	if registration == "" {
		ErrorResponse(c, domain.NewValidationError("MISSING_REGISTRATION", "registration is required", nil))
		return
	}

	info, err := h.dashboards.LookupStudent(c.Request.Context(), session, registration)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, info)
}
