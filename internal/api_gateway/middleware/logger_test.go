package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testCases := []struct {
		name     string
		method   string
		target   string
		expected map[string]any
		absent   []string
	}{
		{
			name:   "AccountLookup",
			method: http.MethodGet,
			target: "/api/v1/accounts/7",
			expected: map[string]any{
				"level":  "INFO",
				"route":  "/api/v1/accounts/:client",
				"client": "7",
				"status": float64(http.StatusOK),
			},
			absent: []string{"tx", "reason", "query"},
		},
		{
			name:   "RejectedRecord",
			method: http.MethodPost,
			target: "/api/v1/transactions",
			expected: map[string]any{
				"level":  "INFO",
				"route":  "/api/v1/transactions",
				"status": float64(http.StatusUnprocessableEntity),
				"reason": "insufficient_funds",
			},
			absent: []string{"client", "tx"},
		},
		{
			name:   "ServerErrorAtWarn",
			method: http.MethodGet,
			target: "/api/v1/transactions/99",
			expected: map[string]any{
				"level":  "WARN",
				"route":  "/api/v1/transactions/:tx",
				"tx":     "99",
				"status": float64(http.StatusInternalServerError),
			},
		},
		{
			name:   "PagedList",
			method: http.MethodGet,
			target: "/api/v1/accounts?page=2&per_page=10",
			expected: map[string]any{
				"route": "/api/v1/accounts",
				"query": "page=2&per_page=10",
			},
		},
		{
			name:   "UnmatchedRoute",
			method: http.MethodGet,
			target: "/nope",
			expected: map[string]any{
				"route":  "unmatched",
				"status": float64(http.StatusNotFound),
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var logBuffer bytes.Buffer
			router := gin.New()
			router.Use(CorrelationID())
			router.Use(Logger(slog.New(slog.NewJSONHandler(&logBuffer, nil))))
			router.GET("/api/v1/accounts", func(c *gin.Context) { c.Status(http.StatusOK) })
			router.GET("/api/v1/accounts/:client", func(c *gin.Context) { c.Status(http.StatusOK) })
			router.GET("/api/v1/transactions/:tx", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
			router.POST("/api/v1/transactions", func(c *gin.Context) {
				SetRejectionReason(c, "insufficient_funds")
				c.Status(http.StatusUnprocessableEntity)
			})

			req, _ := http.NewRequest(tc.method, tc.target, nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(logBuffer.Bytes(), &entry))
			assert.Equal(t, "Request served", entry["msg"])
			assert.Equal(t, tc.method, entry["method"])
			assert.Equal(t, rr.Header().Get(CorrelationIDHeader), entry["correlation_id"])
			assert.Contains(t, entry, "latency_ms")
			for key, want := range tc.expected {
				assert.Equal(t, want, entry[key], key)
			}
			for _, key := range tc.absent {
				assert.NotContains(t, entry, key)
			}
		})
	}
}
