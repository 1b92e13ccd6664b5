package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nubank/chat-assistant/internal"
	"github.com/nubank/chat-assistant/internal/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger tags every request with an id (taken from X-Request-ID or
// generated) and logs its start and completion. The tagged logger is stored
// in the request context for handlers.
func RequestLogger(base *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(RequestIDHeader, requestID)

		l := base.With(
			"request_id", requestID,
			"method", c.Request.Method,
			"path", path,
			"client_ip", c.ClientIP(),
		)
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), l))

		// health probes are too chatty to log
		skip := path == "/health"
		if !skip {
			l.Debug("request started")
		}

		c.Next()

		if skip {
			return
		}
		latency := time.Since(start)
		status := c.Writer.Status()
		l = l.With("status", status, "latency_ms", latency.Milliseconds())
		switch {
		case status >= 500:
			l.Error("request completed with server error")
		case status >= 400:
			l.Warn("request completed with client error")
		default:
			l.Info("request completed")
		}
	}
}

// Recovery turns a handler panic into a 500 with a generic detail.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.FromContext(c.Request.Context()).Error("panic recovered",
					"panic", fmt.Sprintf("%v", r),
					"stack", string(debug.Stack()),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, internal.ErrorResponse{Detail: "Internal server error"})
			}
		}()
		c.Next()
	}
}

// CORS allows browser clients from origin.
func CORS(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, "+RequestIDHeader)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Expose-Headers", RequestIDHeader)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
