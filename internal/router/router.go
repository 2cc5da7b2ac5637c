package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-booking/internal/handler"
	"github.com/iliyamo/rental-booking/internal/middleware"
	"github.com/iliyamo/rental-booking/internal/utils"
)

// Handlers bundles everything the route table points at.
type Handlers struct {
	Auth   *handler.AuthHandler
	Admin  *handler.AdminHandler
	Browse *handler.BrowseHandler
	Host   *handler.HostHandler
	Guest  *handler.GuestHandler
}

// Middleware carries the optional Redis-backed layers.  Any may be a
// pass-through.  Invalidate runs on every authenticated route and must
// drop what Cache stored once a write succeeds.
type Middleware struct {
	Cache      echo.MiddlewareFunc
	Invalidate echo.MiddlewareFunc
	RateLimit  echo.MiddlewareFunc
}

// Register mounts the whole API on e.  Everything under /v1 except login
// requires a bearer token; role checks are attached per route.
func Register(e *echo.Echo, h Handlers, m Middleware, jwtSecret string) {
	e.Validator = handler.NewValidator()
	for _, mw := range []*echo.MiddlewareFunc{&m.Cache, &m.Invalidate, &m.RateLimit} {
		if *mw == nil {
			*mw = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
		}
	}

	RegisterRoutes(e)
	e.POST("/v1/auth/login", h.Auth.Login, m.RateLimit)

	v1 := e.Group("/v1", middleware.JWTAuth(jwtSecret), m.RateLimit, m.Invalidate)
	RegisterBrowse(v1, h.Browse, m.Cache)
	RegisterAdmin(v1, h.Admin)
	RegisterHost(v1, h.Host)
	RegisterGuest(v1, h.Guest)
}

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterBrowse registers the catalogue, open to every role.  Date
// dependent lookups are not cached because bookings change them.
func RegisterBrowse(g *echo.Group, b *handler.BrowseHandler, cache echo.MiddlewareFunc) {
	anyRole := middleware.RequireRole(utils.RoleAdmin, utils.RoleHost, utils.RoleGuest)

	g.GET("/properties", b.ListProperties, anyRole, cache)
	g.GET("/properties/search", b.Search, anyRole, cache)
	g.GET("/properties/available", b.Available, anyRole)
	g.GET("/properties/ranking", b.Ranking, anyRole, cache)
	g.GET("/properties/:id", b.GetProperty, anyRole, cache)
	g.GET("/properties/:id/reviews", b.Reviews, anyRole, cache)
	g.GET("/properties/:id/amenities", b.Amenities, anyRole, cache)
	g.GET("/properties/:id/availability", b.Availability, anyRole)
}
