package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"salary-portal/internal/core/config"
	"salary-portal/internal/core/server"
	mdw "salary-portal/internal/transport/http/middleware"
	resp "salary-portal/internal/transport/http/response"
)

// Deps is everything an engine needs. API modules mount under /api, Pages
// at the root.
type Deps struct {
	Logger *zap.Logger
	Config *config.Config
	API    *Registry
	Pages  *Registry
	Assets http.FileSystem             // served at /assets when set
	Health func(context.Context) error // nil means always healthy
}

// NewAPIEngine serves everything: public form, admin view and the JSON API.
func NewAPIEngine(d Deps) *gin.Engine {
	r := base(d)

	api := r.Group("/api")
	d.API.MountPublic(api)
	d.API.MountAdmin(api)

	root := r.Group("/")
	d.Pages.MountPublic(root)
	d.Pages.MountAdmin(root)
	return r
}

func base(d Deps) *gin.Engine {
	l := d.Logger
	if l == nil {
		l = zap.NewNop()
	}
	lim := d.Config.Limits

	r := server.NewRouter(l, d.Config.CORS)
	r.Use(mdw.RequestID(), mdw.AccessLog(l), mdw.Metrics())
	if lim.RPS > 0 {
		r.Use(mdw.RateLimit(rate.Limit(lim.RPS), lim.Burst))
	}
	if lim.PerIPRPS > 0 {
		r.Use(mdw.RateLimitPerIP(rate.Limit(lim.PerIPRPS), lim.PerIPBurst))
	}
	if lim.MaxConcurrent > 0 {
		r.Use(mdw.ConcurrencyLimit(lim.MaxConcurrent))
	}
	if lim.MaxBodyBytes > 0 {
		r.Use(mdw.MaxBodyBytes(lim.MaxBodyBytes))
	}
	if lim.RequestTimeout > 0 {
		r.Use(mdw.Timeout(time.Duration(lim.RequestTimeout) * time.Second))
	}

	r.GET("/health", health(d.Health))
	r.GET("/metrics", mdw.MetricsHandler())
	if d.Assets != nil {
		r.StaticFS("/assets", d.Assets)
	}
	return r
}

func health(check func(context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				_ = c.Error(err)
				c.JSON(http.StatusServiceUnavailable, resp.Error(resp.CodeUnavailable, "database unavailable"))
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"ok": 1})
	}
}
