package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-booking/internal/handler"
	"github.com/iliyamo/rental-booking/internal/middleware"
	"github.com/iliyamo/rental-booking/internal/utils"
)

// RegisterGuest registers guest endpoints.  Guests book properties, pay
// for and view their own bookings, and review properties.  Ownership of
// a booking is validated within the handler.
func RegisterGuest(g *echo.Group, h *handler.GuestHandler) {
	guest := middleware.RequireRole(utils.RoleGuest)

	g.POST("/bookings", h.Book, guest)
	g.GET("/bookings", h.ListOwn, guest)
	g.GET("/bookings/:id", h.GetOwn, guest)
	g.POST("/bookings/:id/pay", h.Pay, guest)
	g.POST("/properties/:id/reviews", h.Review, guest)
}
