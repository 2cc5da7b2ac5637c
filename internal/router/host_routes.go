package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-booking/internal/handler"
	"github.com/iliyamo/rental-booking/internal/middleware"
	"github.com/iliyamo/rental-booking/internal/utils"
)

// RegisterHost registers host-scoped endpoints under /v1/host.  Handlers
// check that the property belongs to the caller.  Deletion is also open
// to the administrator.
func RegisterHost(g *echo.Group, h *handler.HostHandler) {
	host := middleware.RequireRole(utils.RoleHost)

	g.POST("/host/properties", h.CreateProperty, host)
	g.GET("/host/properties", h.ListOwn, host)
	g.DELETE("/host/properties/:id", h.DeleteProperty, middleware.RequireRole(utils.RoleHost, utils.RoleAdmin))
	g.POST("/host/properties/:id/amenities", h.AddAmenity, host)
	g.GET("/host/payments", h.Payments, host)
	g.GET("/host/transactions", h.Transactions, host)
}
