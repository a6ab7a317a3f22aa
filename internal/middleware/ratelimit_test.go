package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestRateLimitBlocksWithinWindow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handle := RateLimit(10 * time.Second)

	c1, _ := gin.CreateTestContext(httptest.NewRecorder())
	c1.Request = httptest.NewRequest("POST", "/api/v1/share/token/otp/request", nil)
	handle(c1)
	require.False(t, c1.IsAborted())

	c2, _ := gin.CreateTestContext(httptest.NewRecorder())
	c2.Request = httptest.NewRequest("POST", "/api/v1/share/token/otp/request", nil)
	handle(c2)
	require.True(t, c2.IsAborted())

	// a different client IP is not affected by the first one's window
	c3, _ := gin.CreateTestContext(httptest.NewRecorder())
	c3.Request = httptest.NewRequest("POST", "/api/v1/share/token/otp/request", nil)
	c3.Request.Header.Set("X-Forwarded-For", "203.0.113.9")
	handle(c3)
	require.False(t, c3.IsAborted())
}

func TestRateLimitDisabledWindow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handle := RateLimit(0)
	for i := 0; i < 3; i++ {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("POST", "/api/v1/share/token/otp/request", nil)
		handle(c)
		require.False(t, c.IsAborted())
	}
}
