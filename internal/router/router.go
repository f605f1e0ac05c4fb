package router

import (
	"net/http"

	"laundry-pos/internal/handler"
	"laundry-pos/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// New creates the HTTP router with all routes and middleware configured.
func New(
	orderHandler *handler.OrderHandler,
	authHandler *handler.AuthHandler,
	analyticsHandler *handler.AnalyticsHandler,
	authenticator middleware.Authenticator,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middleware in order: Recovery -> Logging -> CORS
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)

	// Health check endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Get("/orders/search", orderHandler.Search)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(authenticator, logger))

			r.Post("/logout", authHandler.Logout)
			r.Get("/me", authHandler.Me)

			r.Get("/orders/statistics", orderHandler.Statistics)
			r.Get("/orders/employee-overview", orderHandler.EmployeeOverview)
			r.Get("/orders", orderHandler.List)
			r.Post("/orders", orderHandler.Create)
			r.Get("/orders/{id}", orderHandler.GetByID)
			r.Put("/orders/{id}", orderHandler.Update)
			r.Delete("/orders/{id}", orderHandler.Delete)

			r.Get("/analytics", analyticsHandler.Report)
		})
	})

	return r
}
