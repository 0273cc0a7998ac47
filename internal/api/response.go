// Package api provides the HTTP handlers of the student portal.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ifportal/portal-estudante/internal/api/middleware"
	"github.com/ifportal/portal-estudante/internal/domain"
)

// SuccessResponse returns a standardized success envelope.
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// ErrorResponse maps a domain error onto an HTTP status and a consistent
// error envelope, logging server-side failures with the request ID.
func ErrorResponse(c *gin.Context, err error) {
	var de *domain.DomainError
	if !errors.As(err, &de) {
		de = domain.NewInternalError("UNEXPECTED_ERROR", "unexpected error", err)
	}

	status := statusFor(de)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"request_id", middleware.GetRequestID(c),
			"code", de.Code,
			"error", de.Error(),
		)
	}

	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"type":       string(de.Type),
			"code":       de.Code,
			"message":    de.Message,
			"request_id": middleware.GetRequestID(c),
		},
	})
}

func statusFor(de *domain.DomainError) int {
	switch de.Type {
	case domain.ValidationError:
		return http.StatusBadRequest
	case domain.NotFoundError:
		return http.StatusNotFound
	case domain.AuthenticationError:
		return http.StatusUnauthorized
	case domain.ExternalServiceError:
		if de.Code == domain.CodeUpstreamRejected {
			return http.StatusBadGateway
		}
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
