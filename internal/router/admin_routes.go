package router

import (
	"github.com/labstack/echo/v4"

	"github.com/cloudchaser/dashboard/internal/handler"
	"github.com/cloudchaser/dashboard/internal/middleware"
	"github.com/cloudchaser/dashboard/internal/model"
)

// RegisterAdmin registers the admin dashboard under /admin.  All routes
// require an ADMIN session.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler) {
	g := e.Group("/admin", middleware.RequireRole(model.RoleAdmin))

	g.GET("", home("/admin/clients"))
	mountTable(g, "/clients", "/:id", h.Clients, fullAccess)
	mountTable(g, "/campaigns", "/:id", h.Campaigns, fullAccess)
	g.GET("/activity", h.Activity)
}
