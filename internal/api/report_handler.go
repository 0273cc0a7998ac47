package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ifportal/portal-estudante/internal/api/middleware"
	"github.com/ifportal/portal-estudante/internal/domain"
	"github.com/ifportal/portal-estudante/internal/export"
	"github.com/ifportal/portal-estudante/internal/services"
)

// ReportHandler serves the per-period report rows and their CSV and
// printable-table serializations. All three views come from the same
// computed rows.
type ReportHandler struct {
	dashboards *services.DashboardService
	sessionMW  *middleware.SessionMiddleware
}

// NewReportHandler creates a report handler.
func NewReportHandler(dashboards *services.DashboardService, sessionMW *middleware.SessionMiddleware) *ReportHandler {
	return &ReportHandler{dashboards: dashboards, sessionMW: sessionMW}
}

// RegisterRoutes registers the report routes.
func (h *ReportHandler) RegisterRoutes(router *gin.Engine) {
	report := router.Group("/api/report", h.sessionMW.RequireSession())
	{
		report.GET("", h.Report)
		report.GET("/csv", h.CSV)
		report.GET("/table", h.Table)
	}
}

// Report returns the computed report rows for an explicit period.
func (h *ReportHandler) Report(c *gin.Context) {
	rows, _, err := h.rows(c)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, gin.H{"report_data": rows})
}

// CSV returns the report rows as a CSV download.
func (h *ReportHandler) CSV(c *gin.Context) {
	rows, period, err := h.rows(c)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	data, err := export.CSV(rows)
	if err != nil {
		ErrorResponse(c, domain.NewInternalError("CSV_EXPORT_FAILED", "could not serialize report", err))
		return
	}

	filename := fmt.Sprintf("boletim_%s_%s.csv", period.Year, period.Term)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// Table returns the printable plain-text report table.
func (h *ReportHandler) Table(c *gin.Context) {
	rows, _, err := h.rows(c)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	c.String(http.StatusOK, export.Table(rows))
}

func (h *ReportHandler) rows(c *gin.Context) ([]domain.SubjectReport, domain.AcademicPeriod, error) {
	session, ok := middleware.GetSession(c)
	if !ok {
		return nil, domain.AcademicPeriod{},
			domain.NewAuthenticationError(domain.CodeSessionInvalid, "not authenticated")
	}

	period := domain.AcademicPeriod{Year: c.Query("ano"), Term: c.Query("periodo")}
	if period.Year == "" || period.Term == "" {
		return nil, period, domain.NewValidationError("MISSING_PERIOD",
			"ano and periodo query parameters are required", nil)
	}

	rows, err := h.dashboards.Report(c.Request.Context(), session, period)
	if err != nil {
		return nil, period, err
	}
	return rows, period, nil
}
