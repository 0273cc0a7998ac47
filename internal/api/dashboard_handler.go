package api

import (
	"github.com/gin-gonic/gin"

	"github.com/ifportal/portal-estudante/internal/api/middleware"
	"github.com/ifportal/portal-estudante/internal/config"
	"github.com/ifportal/portal-estudante/internal/domain"
	"github.com/ifportal/portal-estudante/internal/repository"
	"github.com/ifportal/portal-estudante/internal/services"
)

// DashboardHandler serves the assembled dashboard for the authenticated
// student.
type DashboardHandler struct {
	dashboards *services.DashboardService
	sessions   repository.SessionRepository
	sessionMW  *middleware.SessionMiddleware
	sessionCfg config.SessionConfig
}

// NewDashboardHandler creates a dashboard handler.
func NewDashboardHandler(
	dashboards *services.DashboardService,
	sessions repository.SessionRepository,
	sessionMW *middleware.SessionMiddleware,
	sessionCfg config.SessionConfig,
) *DashboardHandler {
	return &DashboardHandler{
		dashboards: dashboards,
		sessions:   sessions,
		sessionMW:  sessionMW,
		sessionCfg: sessionCfg,
	}
}

// RegisterRoutes registers the dashboard routes.
func (h *DashboardHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/dashboard", h.sessionMW.RequireSession(), h.Dashboard)
}

// Dashboard assembles grades, diaries, totals, and the period summary for
// the selected (or most recent) academic period. A token expired upstream
// is indistinguishable from a transient outage here, so any upstream
// failure invalidates the session and forces re-authentication; an empty
// period list is served as empty data instead.
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		ErrorResponse(c, domain.NewAuthenticationError(domain.CodeSessionInvalid, "not authenticated"))
		return
	}

	data, err := h.dashboards.Assemble(c.Request.Context(), session, c.Query("ano"), c.Query("periodo"))
	if err != nil {
		if domain.IsUpstreamFailure(err) {
			h.invalidateSession(c, session)
			ErrorResponse(c, domain.NewAuthenticationError("SESSION_INVALIDATED",
				"upstream data could not be loaded, please sign in again"))
			return
		}
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, data)
}

func (h *DashboardHandler) invalidateSession(c *gin.Context, session *domain.Session) {
	_ = h.sessions.DeleteByID(c.Request.Context(), session.ID)
	h.dashboards.InvalidateSession(c.Request.Context(), session.ID)
	c.SetCookie(h.sessionCfg.CookieName, "", -1, "/", "", h.sessionCfg.CookieSecure, true)
}
