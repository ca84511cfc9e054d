package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "salary-portal/internal/transport/http/response"
)

// RecoveryResponse is the gin.RecoveryFunc handed to ginzap, which logs the
// panic with its stack before this runs.
func RecoveryResponse(c *gin.Context, _ any) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, resp.Error(resp.CodeServerError, ""))
}
