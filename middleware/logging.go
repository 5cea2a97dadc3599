package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
)

// Logging returns a logging middleware for HTTP requests
func Logging(logger hclog.Logger) gin.HandlerFunc {
	requestLogger := logger.Named("http")

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		requestLogger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
