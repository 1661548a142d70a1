package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rgehrsitz/roundup/internal/config"
	"github.com/rgehrsitz/roundup/internal/logging"
)

// APIKeyHeader carries the client's key
const APIKeyHeader = "X-API-Key"

// apiKeyAuth rejects requests whose key does not match. The placeholder dev
// key turns the check off.
func apiKeyAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == config.DevAPIKey {
			c.Next()
			return
		}
		if key := c.GetHeader(APIKeyHeader); key == "" || key != apiKey {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Invalid or missing API key"})
			return
		}
		c.Next()
	}
}

// requestLogger logs one line per API request with method, path, status and duration
func requestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		if !strings.HasPrefix(path, "/blackrock") {
			return
		}
		logger.Info("request handled",
			logging.F(logging.FieldMethod, c.Request.Method),
			logging.F(logging.FieldPath, path),
			logging.F(logging.FieldStatus, c.Writer.Status()),
			logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	}
}
