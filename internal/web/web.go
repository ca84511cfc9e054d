// Package web serves the two server-rendered views: the public submission
// form and the admin table. Both talk to /api from the browser.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"salary-portal/internal/core/config"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

type Pages struct {
	tmpl       *template.Template
	appName    string
	currencies []config.Currency
}

type pageData struct {
	AppName    string
	Title      string
	Currencies []config.Currency
}

func New(appName string, currencies []config.Currency) (*Pages, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Pages{tmpl: tmpl, appName: appName, currencies: currencies}, nil
}

// Assets is the embedded static directory, served under /assets.
func Assets() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err) // embed path is fixed at compile time
	}
	return http.FS(sub)
}

func (p *Pages) MountPublic(g *gin.RouterGroup) {
	g.GET("/", func(c *gin.Context) { p.render(c, "submit.html", "Submit your salary") })
}

func (p *Pages) MountAdmin(g *gin.RouterGroup) {
	g.GET("/admin", func(c *gin.Context) { p.render(c, "admin.html", "Salary records") })
}

func (p *Pages) render(c *gin.Context, name, title string) {
	c.Render(http.StatusOK, render.HTML{
		Template: p.tmpl,
		Name:     name,
		Data:     pageData{AppName: p.appName, Title: title, Currencies: p.currencies},
	})
}
