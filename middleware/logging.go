package middleware

import (
	"time"

	"comercia/common"
	"comercia/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LoggerConfig struct {
	// SkipPaths is an url path array which logs are not written.
	// Optional.
	SkipPaths []string
}

// LoggingMiddleware returns a gin.HandlerFunc (middleware) that logs requests using the provided logger.
func (m *middlewares) LoggingMiddleware(config ...LoggerConfig) gin.HandlerFunc {
	var conf LoggerConfig
	if len(config) > 0 {
		conf = config[0]
	}

	// Create skip path map for faster lookup
	skipPaths := make(map[string]bool)
	for _, path := range conf.SkipPaths {
		skipPaths[path] = true
	}

	return func(c *gin.Context) {
		if skipPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		if latency > time.Minute {
			latency = latency.Truncate(time.Second)
		}

		if raw != "" {
			path = path + "?" + raw
		}

		fields := []log.Field{
			log.String("method", c.Request.Method),
			log.String("path", path),
			log.StatusCode(c.Writer.Status()),
			log.Duration("latency", latency),
			log.String("client_ip", c.ClientIP()),
			log.String("user_agent", c.Request.UserAgent()),
			log.Int("response_size", c.Writer.Size()),
		}

		if requestID := common.GetRequestIDFromCtx(c); requestID != "" {
			fields = append(fields, log.RequestID(requestID))
		}
		if tenantID := common.GetTenantIDFromCtx(c); tenantID != "" {
			fields = append(fields, log.TenantID(tenantID))
		}
		if userID := common.GetUserIDFromCtx(c); userID != "" {
			fields = append(fields, log.UserID(userID))
		}

		if len(c.Errors) > 0 {
			errorMsgs := make([]string, len(c.Errors))
			for i, err := range c.Errors {
				errorMsgs[i] = err.Error()
			}
			fields = append(fields, log.Any("errors", errorMsgs))
		}

		statusCode := c.Writer.Status()
		message := "HTTP Request Completed"

		if statusCode >= 500 {
			m.logger.Error(message, fields...)
		} else if statusCode >= 400 {
			m.logger.Warn(message, fields...)
		} else {
			m.logger.Info(message, fields...)
		}
	}
}

// RequestIDMiddleware tags every request with an id, honoring one passed
// in by an upstream proxy.
func (m *middlewares) RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(common.RequestIDContextKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}
