package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kidpech/xbox_link_demo/internal/app/diagnostics"
	"github.com/kidpech/xbox_link_demo/internal/infrastructure/logging"
	"github.com/kidpech/xbox_link_demo/internal/infrastructure/monitoring"
	"github.com/kidpech/xbox_link_demo/pkg/response"
)

// RequestLogger logs request info and records metrics.
func RequestLogger(logger *zap.Logger, buffer *diagnostics.LogBuffer) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		logging.WithRequestID(logger, response.RequestIDFromContext(c)).Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
		if buffer != nil {
			buffer.Append(time.Now().UTC().Format(time.RFC3339) + " " + c.Request.Method + " " + path + " -> " + status)
		}
		monitoring.ObserveRequest(path, c.Request.Method, status, latency.Seconds())
	}
}
