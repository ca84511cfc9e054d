package router

import (
	"github.com/gin-gonic/gin"
)

// NewAdminEngine serves only the admin view and the routes it calls. It is
// meant to listen on a private address.
func NewAdminEngine(d Deps) *gin.Engine {
	r := base(d)
	d.API.MountAdmin(r.Group("/api"))
	d.Pages.MountAdmin(r.Group("/"))
	return r
}
