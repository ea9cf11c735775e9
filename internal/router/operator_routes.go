package router

import (
	"github.com/labstack/echo/v4"

	"github.com/cloudchaser/dashboard/internal/handler"
	"github.com/cloudchaser/dashboard/internal/middleware"
	"github.com/cloudchaser/dashboard/internal/model"
)

// RegisterOperator registers the operator dashboard under /operator.  All
// routes require an OPERATIVE session.
func RegisterOperator(e *echo.Echo, h *handler.OperatorHandler) {
	g := e.Group("/operator", middleware.RequireRole(model.RoleOperative))

	g.GET("", home("/operator/components"))
	mountTable(g, "/components", "/:id", h.Components, fullAccess)
	mountTable(g, "/products", "/:id", h.Products, fullAccess)
	// Packages are keyed by the product and component they link.
	mountTable(g, "/packages", "/:product_id/:component_id", h.Packages, fullAccess)
}
