package router

import (
	"github.com/labstack/echo/v4"

	"github.com/cloudchaser/dashboard/internal/handler"
	"github.com/cloudchaser/dashboard/internal/middleware"
	"github.com/cloudchaser/dashboard/internal/model"
)

// RegisterClient registers the client dashboard under /client.  All
// routes require a CLIENT session.
func RegisterClient(e *echo.Echo, h *handler.ClientHandler) {
	g := e.Group("/client", middleware.RequireRole(model.RoleClient))

	g.GET("", home("/client/products"))
	g.GET("/products", h.Products)
	g.POST("/products/:id/subscribe", h.Subscribe)
	// Clients can request campaigns but not change them afterwards.
	mountTable(g, "/campaigns", "/:id", h.Campaigns, access{create: true})
}
