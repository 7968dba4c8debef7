package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"taskly_backend/internal/handler"
	"taskly_backend/internal/httputil"
	authmw "taskly_backend/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler         *handler.AuthHandler
	TaskHandler         *handler.TaskHandler
	HistoryHandler      *handler.HistoryHandler
	NotificationHandler *handler.NotificationHandler
	JWTSecret           string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Public routes - no authentication required
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/refresh", cfg.AuthHandler.Refresh)
	})

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

		// Current user endpoints
		r.Get("/me", cfg.AuthHandler.Me)

		// Auth actions that require authentication
		r.Post("/auth/logout", cfg.AuthHandler.Logout)
		r.Post("/auth/logout-all", cfg.AuthHandler.LogoutAll)

		// Task endpoints
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", cfg.TaskHandler.List)
			r.Post("/", cfg.TaskHandler.Create)
			r.Patch("/{id}", cfg.TaskHandler.Update)
			r.Put("/{id}", cfg.TaskHandler.Replace)
			r.Delete("/{id}", cfg.TaskHandler.Delete)
		})

		// History endpoints
		r.Route("/history", func(r chi.Router) {
			r.Get("/", cfg.HistoryHandler.List)
			r.Delete("/", cfg.HistoryHandler.Clear)
			r.Delete("/{id}", cfg.HistoryHandler.Delete)
		})

		// Device push token endpoints
		r.Route("/devices/token", func(r chi.Router) {
			r.Post("/", cfg.NotificationHandler.RegisterToken)
			r.Delete("/", cfg.NotificationHandler.RemoveToken)
		})
	})

	return r
}
