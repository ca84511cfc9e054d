package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salary-portal/internal/core/config"
)

type CurrencyHandler struct{ list []config.Currency }

func NewCurrencyHandler(list []config.Currency) *CurrencyHandler {
	return &CurrencyHandler{list: list}
}

func (h *CurrencyHandler) MountPublic(g *gin.RouterGroup) {
	g.GET("/currencies", func(c *gin.Context) {
		out := make([]gin.H, 0, len(h.list))
		for _, cur := range h.list {
			out = append(out, gin.H{"code": cur.Code, "label": cur.Label})
		}
		c.JSON(http.StatusOK, out)
	})
}
