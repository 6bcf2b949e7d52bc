package server

import (
	"time"

	"gymcore/internal/logger"

	"github.com/gin-gonic/gin"
)

// RequestLoggingMiddleware logs each HTTP request after it completes.
func RequestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		clientIP := c.ClientIP()
		method := c.Request.Method

		if raw != "" {
			path = path + "?" + raw
		}

		logger.Infof("HTTP %s %s -> %d (%dms) from %s",
			method, path, status, latency.Milliseconds(), clientIP)
	}
}
