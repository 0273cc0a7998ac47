package middleware_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ifportal/portal-estudante/internal/api/middleware"
	"github.com/ifportal/portal-estudante/internal/testutil"
)

func newRequestIDRouter() (*gin.Engine, *string) {
	var seen string
	router := testutil.NewTestRouter()
	router.Use(middleware.RequestID())
	router.GET("/", func(c *gin.Context) {
		seen = middleware.GetRequestID(c)
		c.Status(http.StatusOK)
	})
	return router, &seen
}

func TestRequestID_Generated(t *testing.T) {
	router, seen := newRequestIDRouter()
	helper := testutil.NewHTTPTestHelper(t, router)

	recorder := helper.GET("/", nil)
	helper.AssertStatus(recorder, http.StatusOK)

	assert.NotEmpty(t, *seen)
	assert.Equal(t, *seen, recorder.Header().Get("X-Request-ID"))
}

func TestRequestID_HonorsIncomingHeader(t *testing.T) {
	router, seen := newRequestIDRouter()
	helper := testutil.NewHTTPTestHelper(t, router)

	recorder := helper.GET("/", map[string]string{"X-Request-ID": "caller-id"})
	helper.AssertStatus(recorder, http.StatusOK)

	assert.Equal(t, "caller-id", *seen)
	assert.Equal(t, "caller-id", recorder.Header().Get("X-Request-ID"))
}
