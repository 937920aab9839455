package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/cinemasahara/booking-service/internal/handler"    // import the handlers that implement business logic
	"github.com/cinemasahara/booking-service/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication‑related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Create a route group under the /v1/auth prefix for operations that do
	// not require an existing session (register, login, refresh).  Each of
	// these handlers is responsible for generating or exchanging tokens.
	g := e.Group("/v1/auth")
	// Register a POST endpoint to handle user registration at /v1/auth/register.
	g.POST("/register", a.Register)
	// Register a POST endpoint to handle user login at /v1/auth/login.
	g.POST("/login", a.Login)
    // Register a POST endpoint to refresh access tokens at /v1/auth/refresh. This rotates the refresh token.
    g.POST("/refresh", a.Refresh)
    // Register a POST endpoint to issue a new access token without rotating the refresh token.
    g.POST("/refresh-access", a.RefreshAccess)
	// Register a POST endpoint to log out using a refresh token.  Logout does
	// not require JWT authentication; the handler accepts a JSON body
	// containing a `refresh_token` and will invalidate that token.
	g.POST("/logout", a.Logout)

	// Create another group for routes that require a valid access token.  All
	// handlers registered on this group will execute the JWTAuth middleware
	// before being invoked.  Protected endpoints live under /v1.
	auth := e.Group("/v1")
	// Apply the JWTAuth middleware to the protected group using the provided secret.
	auth.Use(middleware.JWTAuth(jwtSecret))
	// Apply the RequireRole middleware for any authenticated endpoint.  Both
	// CUSTOMER and ADMIN roles are accepted here; the middleware rejects
	// requests with missing or unknown roles.
	auth.Use(middleware.RequireRole("CUSTOMER", "ADMIN"))
	// Register a GET endpoint at /v1/me that returns the authenticated user's information.
	auth.GET("/me", a.Me)

	// /v1/logout is an alias kept for clients that expect logout outside
	// the /v1/auth prefix.  It takes the refresh token in the body, so no
	// JWT is required.
	e.POST("/v1/logout", a.Logout)
}

// RegisterPublic registers unauthenticated browse endpoints on the provided
// Echo instance.  The PublicHandler exposes screenings and their seat
// availability for guest users.  The optional middleware list (response
// cache, rate limiter) is applied to the whole group.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mws ...echo.MiddlewareFunc) {
    g := e.Group("/v1", mws...)
    // List or search scheduled screenings.  Supports ?q=, ?date= and pagination.
    g.GET("/screenings", p.ListScreenings)
    // Screening details by id.
    g.GET("/screenings/:id", p.GetScreening)
    // Publicly view seat availability for a specific screening.  Seat status is
    // derived from screening seats and active holds; status values can be
    // FREE, HELD or RESERVED.
    g.GET("/screenings/:id/seats", p.GetScreeningSeats)
}

// RegisterCheckout registers the checkout flow.  Every route requires a
// valid access token; both roles may book seats.
func RegisterCheckout(e *echo.Echo, h *handler.CheckoutHandler, jwtSecret string) {
    g := e.Group("/v1")
    g.Use(middleware.JWTAuth(jwtSecret))
    g.Use(middleware.RequireRole("CUSTOMER", "ADMIN"))
    // Open a checkout session against a screening; the countdown starts here.
    g.POST("/screenings/:id/checkout", h.Start)
    // Inspect a session: state, remaining seconds, selection and totals.
    g.GET("/checkout/:sid", h.Get)
    // Toggle one seat in or out of the selection.
    g.POST("/checkout/:sid/seats/:label", h.ToggleSeat)
    // Move to the review step; this writes seat holds.
    g.POST("/checkout/:sid/review", h.Review)
    // Return from review to seat selection keeping the selection.
    g.POST("/checkout/:sid/back", h.Back)
    // Confirm the reviewed selection into a booking.
    g.POST("/checkout/:sid/confirm", h.Confirm)
    // Cancel the session and release its holds.
    g.DELETE("/checkout/:sid", h.Cancel)
}

// RegisterBookings registers the customer's booking views.  All routes
// require a valid access token.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
    g := e.Group("/v1")
    g.Use(middleware.JWTAuth(jwtSecret))
    g.Use(middleware.RequireRole("CUSTOMER", "ADMIN"))
    // List the caller's bookings, newest first, each with its QR payload.
    g.GET("/my-bookings", b.MyBookings)
    // Fetch a single booking owned by the caller.
    g.GET("/bookings/:id", b.GetBooking)
    // Cancel a booking owned by the caller and free its seats.
    g.DELETE("/bookings/:id", b.CancelBooking)
}

// RegisterAdmin registers screening management endpoints restricted to the
// ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
    g := e.Group("/v1/admin")
    g.Use(middleware.JWTAuth(jwtSecret))
    g.Use(middleware.RequireRole("ADMIN"))
    // Create a screening and materialise its seat inventory.
    g.POST("/screenings", a.CreateScreening)
    // List the bookings made against a screening.
    g.GET("/screenings/:id/reservations", a.ListScreeningBookings)
    // Delete a screening that has no bookings.
    g.DELETE("/screenings/:id", a.DeleteScreening)
}
