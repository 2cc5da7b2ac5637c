package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-booking/internal/handler"
	"github.com/iliyamo/rental-booking/internal/middleware"
	"github.com/iliyamo/rental-booking/internal/utils"
)

// RegisterAdmin registers administrator endpoints: user management,
// reference data and manual payment processing.
func RegisterAdmin(g *echo.Group, a *handler.AdminHandler) {
	admin := middleware.RequireRole(utils.RoleAdmin)

	// ---- Users ----
	g.POST("/hosts", a.CreateHost, admin)
	g.GET("/hosts", a.ListHosts, admin)
	g.GET("/hosts/:id", a.GetHost, admin)
	g.POST("/guests", a.CreateGuest, admin)
	g.GET("/guests", a.ListGuests, admin)
	g.GET("/guests/filter", a.FilterGuests, admin)
	g.GET("/guests/:id", a.GetGuest, admin)

	// ---- Reference data ----
	g.POST("/amenities", a.CreateAmenity, admin)
	g.GET("/amenities", a.ListAmenities, admin)
	g.GET("/amenities/:id", a.GetAmenity, admin)
	g.POST("/locations", a.CreateLocation, admin)
	g.GET("/locations", a.ListLocations, admin)
	g.GET("/locations/:id", a.GetLocation, admin)
	g.POST("/cancellation-policies", a.CreatePolicy, admin)
	g.GET("/cancellation-policies", a.ListPolicies, admin)
	g.GET("/cancellation-policies/:id", a.GetPolicy, admin)

	// ---- Payments ----
	g.GET("/payments/:id", a.GetPayment, admin)
	g.POST("/payments/:id/process", a.ProcessPayment, admin)
}
