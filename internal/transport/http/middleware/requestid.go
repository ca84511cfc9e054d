package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// KeyRequestID is both the header and the gin context key.
const KeyRequestID = "X-Request-ID"

// maxRequestIDLen caps ids taken from the client so they stay log friendly.
const maxRequestIDLen = 128

// RequestID echoes a caller-supplied X-Request-ID, or a fresh UUID when the
// header is missing, too long or not printable ASCII. The id is stored on the
// context for AccessLog and returned in the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.Request.Header.Get(KeyRequestID)
		if !usableRequestID(rid) {
			rid = uuid.NewString()
		}
		c.Writer.Header().Set(KeyRequestID, rid)
		c.Set(KeyRequestID, rid)
		c.Next()
	}
}

// RequestIDFrom returns the id set by RequestID, or "" outside that middleware.
func RequestIDFrom(c *gin.Context) string { return c.GetString(KeyRequestID) }

func usableRequestID(rid string) bool {
	if rid == "" || len(rid) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(rid); i++ {
		if rid[i] < 0x21 || rid[i] > 0x7e {
			return false
		}
	}
	return true
}
