package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger writes one line per request once it has been served. Lines are
// keyed by the route template; the client and tx path parameters and any
// rejection reason are added when present. Server errors log at warn.
func Logger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		attrs := []any{
			"correlation_id", GetCorrelationID(c),
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if query := c.Request.URL.RawQuery; query != "" {
			attrs = append(attrs, "query", query)
		}
		for _, param := range []string{"client", "tx"} {
			if v := c.Param(param); v != "" {
				attrs = append(attrs, param, v)
			}
		}
		if reason := GetRejectionReason(c); reason != "" {
			attrs = append(attrs, "reason", reason)
		}

		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		logger.Log(c.Request.Context(), level, "Request served", attrs...)
	}
}
