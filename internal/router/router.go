package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eduviagens/booking-api/internal/handler"
	"github.com/eduviagens/booking-api/internal/middleware"
)

// Handlers groups everything the router needs to wire the API surface.
type Handlers struct {
	Auth        *handler.AuthHandler
	Me          *handler.MeHandler
	Community   *handler.CommunityHandler
	Reservation *handler.ReservationHandler
	Order       *handler.OrderHandler
}

// Register mounts all routes on the provided Echo instance.  Public
// routes (auth entry points, community catalog, health, metrics) take
// no middleware beyond what main installs globally; everything else
// sits behind JWTAuth.  The cache middleware wraps only the community
// catalog: responses there are identical for every caller, while the
// per-user routes must never be served from a shared cache.
func Register(e *echo.Echo, h Handlers, jwtSecret string, cache echo.MiddlewareFunc) {
	if cache == nil {
		cache = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	e.GET("/health", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Auth entry points never require a session: signup and login
	// create one, quick login exchanges a stored token, and logout is
	// valid even with an expired bearer.
	auth := e.Group("/auth")
	auth.POST("/signup", h.Auth.Signup)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/logout", h.Auth.Logout)
	auth.POST("/login/quick", h.Auth.QuickLogin)
	auth.POST("/quick-token", h.Auth.QuickToken, middleware.JWTAuth(jwtSecret))

	// Community catalog is public; membership mutations are not.
	e.GET("/communities", h.Community.List, cache)
	e.GET("/communities/:slug", h.Community.Get, cache)
	e.POST("/communities/:slug/join", h.Community.Join, middleware.JWTAuth(jwtSecret))
	e.DELETE("/communities/:slug/join", h.Community.Leave, middleware.JWTAuth(jwtSecret))

	me := e.Group("/me", middleware.JWTAuth(jwtSecret))
	me.GET("", h.Me.Me)
	me.POST("/password", h.Me.ChangePassword)
	me.GET("/communities", h.Me.MyCommunities)

	res := e.Group("/reservations", middleware.JWTAuth(jwtSecret))
	res.POST("", h.Reservation.Create)
	res.GET("/me", h.Reservation.ListMine)
	res.GET("/:id", h.Reservation.Get)
	res.PATCH("/:id/status", h.Reservation.UpdateStatus)

	orders := e.Group("/orders", middleware.JWTAuth(jwtSecret))
	orders.POST("/mark-paid", h.Order.MarkPaid)
	orders.GET("/me", h.Order.ListMine)
	orders.GET("/:id", h.Order.Get)
	orders.GET("/by-reservation/:reservationId", h.Order.GetByReservation)
}
