package router

import (
	"sync"

	"github.com/gin-gonic/gin"
)

// A module implements one or both interfaces. Public routes are served by the
// main engine only; admin routes are also served by the admin-only engine.
// Modules mount in registration order.
type PublicModule interface{ MountPublic(*gin.RouterGroup) }
type AdminModule interface{ MountAdmin(*gin.RouterGroup) }

type Registry struct {
	mu     sync.RWMutex
	public []PublicModule
	admin  []AdminModule
}

func NewRegistry(mods ...any) *Registry {
	r := &Registry{}
	for _, m := range mods {
		r.Register(m)
	}
	return r
}

// Register sorts mod into the public and/or admin list by type assertion.
func (r *Registry) Register(mod any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := mod.(PublicModule); ok {
		r.public = append(r.public, m)
	}
	if m, ok := mod.(AdminModule); ok {
		r.admin = append(r.admin, m)
	}
}

func (r *Registry) MountPublic(g *gin.RouterGroup) {
	if r == nil {
		return
	}
	r.mu.RLock()
	mods := append([]PublicModule(nil), r.public...)
	r.mu.RUnlock()
	for _, m := range mods {
		m.MountPublic(g)
	}
}

func (r *Registry) MountAdmin(g *gin.RouterGroup) {
	if r == nil {
		return
	}
	r.mu.RLock()
	mods := append([]AdminModule(nil), r.admin...)
	r.mu.RUnlock()
	for _, m := range mods {
		m.MountAdmin(g)
	}
}
