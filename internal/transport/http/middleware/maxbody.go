package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "salary-portal/internal/transport/http/response"
)

var tooLargeBody = resp.Error(resp.CodeTooLarge, "request body too large")

// MaxBodyBytes caps request bodies; reads past n fail with
// *http.MaxBytesError, which the action binder turns into a 413.
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, tooLargeBody)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
