package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"salary-portal/internal/core/config"
	mdw "salary-portal/internal/transport/http/middleware"
)

// NewRouter returns a bare engine with panic recovery and CORS on /api/.
func NewRouter(l *zap.Logger, c config.CORS) *gin.Engine {
	r := gin.New()
	r.Use(ginzap.CustomRecoveryWithZap(l, true, mdw.RecoveryResponse))
	r.Use(scopedCORS("/api/", c))
	return r
}

// scopedCORS runs at engine level so preflight requests for unregistered
// OPTIONS routes still see it.
func scopedCORS(prefix string, c config.CORS) gin.HandlerFunc {
	h := cors.New(cors.Config{
		AllowOrigins:     c.AllowOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", mdw.KeyRequestID},
		ExposeHeaders:    []string{mdw.KeyRequestID},
		AllowCredentials: c.AllowCredentials,
		MaxAge:           12 * time.Hour,
	})
	return func(ctx *gin.Context) {
		if !strings.HasPrefix(ctx.Request.URL.Path, prefix) {
			ctx.Next()
			return
		}
		h(ctx)
	}
}

func BuildServer(addr string, handler http.Handler, rt, wt, it time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       rt,
		ReadHeaderTimeout: rt,
		WriteTimeout:      wt,
		IdleTimeout:       it,
		MaxHeaderBytes:    1 << 20, // 1MB
	}
}

// FromConfig builds a server for one listener block of the config.
func FromConfig(h config.HTTP, handler http.Handler) *http.Server {
	return BuildServer(Addr(h.Host, h.Port), handler,
		time.Duration(h.ReadTimeoutSec)*time.Second,
		time.Duration(h.WriteTimeoutSec)*time.Second,
		time.Duration(h.IdleTimeoutSec)*time.Second,
	)
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }

// Run serves until ctx is cancelled, then shuts down within grace.
func Run(ctx context.Context, srv *http.Server, l *zap.Logger, grace time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		l.Info("http starting", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", srv.Addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown %s: %w", srv.Addr, err)
	}
	l.Info("http stopped", zap.String("addr", srv.Addr))
	return nil
}

// HumanURL turns a bind address into something clickable for startup logs.
func HumanURL(h config.HTTP) string {
	host := h.Host
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	return "http://" + Addr(host, h.Port)
}
