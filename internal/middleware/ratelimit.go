package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/shareview/shareview/internal/pkg/errcode"
	"github.com/shareview/shareview/internal/pkg/ratelimit"
	"github.com/shareview/shareview/internal/pkg/response"
)

// RateLimit is a coarse per-(ip, path) cooldown in front of the public
// routes. The fine-grained per-pair budget lives in the challenge
// service; this one just blunts tight request loops. Idle keys are
// evicted by the limiter's LRU, so the state stays bounded.
func RateLimit(window time.Duration) gin.HandlerFunc {
	limiter := ratelimit.NewLimiter(window, 1)
	return func(c *gin.Context) {
		if window <= 0 {
			c.Next()
			return
		}
		ip := c.ClientIP()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		if !limiter.Allow(strings.Join([]string{ip, path}, "|")) {
			logutil.GetLogger(c.Request.Context()).Warn("rate limit hit",
				zap.String("ip", ip),
				zap.String("path", path),
			)
			response.Error(c, errcode.ErrTooMany, http.StatusText(http.StatusTooManyRequests))
			c.Abort()
			return
		}
		c.Next()
	}
}
