// Package router registers the dashboard's HTTP routes.
package router

import (
	"io/fs"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cloudchaser/dashboard/internal/handler"
	"github.com/cloudchaser/dashboard/internal/middleware"
)

// RegisterRoutes registers routes that need no session: the health check
// and the embedded static assets.
func RegisterRoutes(e *echo.Echo, static fs.FS) {
	e.GET("/healthz", handler.Health)
	e.StaticFS("/static", static)
}

// RegisterAuth registers the public pages.  Signed-in users are sent to
// their dashboard; the credential posts go through the rate limiter.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limiter echo.MiddlewareFunc) {
	guest := middleware.RedirectIfAuthenticated()
	e.GET("/", a.Landing, guest)
	e.GET("/login", a.LoginPage, guest)
	e.POST("/login", a.Login, guest, limiter)
	e.GET("/register", a.RegisterPage, guest)
	e.POST("/register", a.Register, guest, limiter)

	// Logout works with or without a session so a stale cookie is cleared.
	e.POST("/logout", a.Logout)
	e.GET("/logout", a.Logout)
}

// crudTable is the handler set of one dashboard table.
type crudTable interface {
	Index(echo.Context) error
	New(echo.Context) error
	Edit(echo.Context) error
	Create(echo.Context) error
	Update(echo.Context) error
	Delete(echo.Context) error
}

// access says which writes a table accepts.
type access struct {
	create, edit, delete bool
}

var fullAccess = access{create: true, edit: true, delete: true}

// mountTable registers a table under path.  item is the key pattern,
// "/:id" for most tables.  Writes accept both the plain form POST routes
// and the REST verbs.
func mountTable(g *echo.Group, path, item string, t crudTable, a access) {
	g.GET(path, t.Index)
	if a.create {
		g.GET(path+"/new", t.New)
		g.POST(path, t.Create)
	}
	if a.edit {
		g.GET(path+item+"/edit", t.Edit)
		g.POST(path+item, t.Update)
		g.PUT(path+item, t.Update)
	}
	if a.delete {
		g.POST(path+item+"/delete", t.Delete)
		g.DELETE(path+item, t.Delete)
	}
}

// home redirects a dashboard root to its first tab.
func home(to string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.Redirect(http.StatusFound, to)
	}
}
