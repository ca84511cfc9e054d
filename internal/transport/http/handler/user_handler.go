package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salary-portal/internal/core/auth"
	"salary-portal/internal/transport/http/ez"
	mdw "salary-portal/internal/transport/http/middleware"
)

type UserOut struct {
	UID  string `json:"uid"`
	Name string `json:"name,omitempty"`
	Role string `json:"role"`
}

// UserHandler serves GET /user for bearer token holders.
type UserHandler struct{ jwter *auth.JWTer }

func NewUserHandler(j *auth.JWTer) *UserHandler { return &UserHandler{jwter: j} }

func (h *UserHandler) MountPublic(g *gin.RouterGroup) {
	authed := g.Group("", mdw.AuthJWT(h.jwter, ""))
	ez.Register(ez.New(authed), ez.Action[struct{}, UserOut]{
		Method: http.MethodGet,
		Path:   "/user",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (UserOut, error) {
			claims, ok := mdw.ClaimsFrom(c)
			if !ok {
				return UserOut{}, ez.Unauthorized("unauthorized")
			}
			return UserOut{UID: claims.UID, Name: claims.Name, Role: claims.Role}, nil
		},
	})
}
