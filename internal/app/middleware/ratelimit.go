package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kidpech/xbox_link_demo/internal/infrastructure/ratelimit"
	"github.com/kidpech/xbox_link_demo/pkg/response"
)

// UserIDHeader identifies the calling player when the client supplies it.
const UserIDHeader = "X-User-Id"

// RateLimitOption tweaks RateLimit.
type RateLimitOption func(*rateLimitSettings)

type rateLimitSettings struct {
	rejectHeaders map[string]string
}

// WithRejectHeader adds a header to every 429 the middleware writes.
func WithRejectHeader(key, value string) RateLimitOption {
	return func(s *rateLimitSettings) {
		s.rejectHeaders[key] = value
	}
}

// RateLimit enforces per-IP and per-player throttles. Preflight requests are
// never throttled. Limiter errors fail open.
func RateLimit(ipLimiter, userLimiter ratelimit.Limiter, logger *zap.Logger, opts ...RateLimitOption) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	settings := rateLimitSettings{rejectHeaders: map[string]string{}}
	for _, opt := range opts {
		opt(&settings)
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		if ipLimiter != nil {
			if !settings.check(c, ipLimiter, "ip:"+c.ClientIP(), logger) {
				return
			}
		}
		if userID := c.GetHeader(UserIDHeader); userLimiter != nil && userID != "" {
			if !settings.check(c, userLimiter, "user:"+userID, logger) {
				return
			}
		}
		c.Next()
	}
}

func (s rateLimitSettings) check(c *gin.Context, limiter ratelimit.Limiter, key string, logger *zap.Logger) bool {
	info, err := limiter.Allow(c.Request.Context(), key)
	if err != nil {
		logger.Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
		return true
	}
	setHeaders(c, info)
	if !info.Allowed {
		for k, v := range s.rejectHeaders {
			c.Writer.Header().Set(k, v)
		}
		response.TooManyRequests(c, info.Reset)
		c.Abort()
		return false
	}
	return true
}

func setHeaders(c *gin.Context, info ratelimit.RateLimitInfo) {
	c.Writer.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
	c.Writer.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	c.Writer.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.Reset.Unix(), 10))
	if !info.Allowed {
		reset := time.Until(info.Reset)
		if reset < 0 {
			reset = 0
		}
		c.Writer.Header().Set("Retry-After", strconv.Itoa(int(reset.Seconds())))
	}
}
