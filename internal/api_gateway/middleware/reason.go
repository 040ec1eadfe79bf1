package middleware

import "github.com/gin-gonic/gin"

// RejectionReasonKey is the gin context key for the reason code of a refused record
const RejectionReasonKey = "rejection_reason"

// SetRejectionReason records why the engine or the decoder refused the
// submitted record, so the request log carries the same code as the response.
func SetRejectionReason(c *gin.Context, reason string) {
	c.Set(RejectionReasonKey, reason)
}

// GetRejectionReason returns the code set by SetRejectionReason, or ""
func GetRejectionReason(c *gin.Context) string {
	return c.GetString(RejectionReasonKey)
}
