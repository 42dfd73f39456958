package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rms-foh/api/internal/config"
	"github.com/rms-foh/api/internal/enum"
	"github.com/rms-foh/api/internal/handler"
	mw "github.com/rms-foh/api/internal/middleware"
	"github.com/rms-foh/api/internal/service"
	"github.com/rms-foh/api/internal/state"
	"github.com/rms-foh/api/internal/upstream"
	"github.com/rms-foh/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
// Each screen group is gated to its role; admin passes every gate.
func New(cfg *config.Config, sessions *state.Manager, svc *service.FrontOfHouse, backend *upstream.Client, hub *ws.Hub) (chi.Router, error) {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// Auth routes (public)
	authHandler, err := handler.NewAuthHandler(sessions, backend, cfg.JWTSecret, cfg.DemoPassword)
	if err != nil {
		return nil, err
	}
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		authHandler.RegisterProtectedRoutes(r)

		// Floor and order screens
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.RoleWaiter, enum.RoleAdmin))

			handler.NewTableHandler(sessions, svc).RegisterRoutes(r)
			handler.NewOrderHandler(sessions, svc).RegisterRoutes(r)
			handler.NewTakeawayHandler(sessions, svc, backend).RegisterRoutes(r)
		})

		// Kitchen display
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.RoleChef, enum.RoleAdmin))

			handler.NewKitchenHandler(sessions, svc).RegisterRoutes(r)
		})

		// Waiting queue
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.RoleTableManager, enum.RoleAdmin))

			handler.NewQueueHandler(sessions, svc).RegisterRoutes(r)
		})

		// Billing reports
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.RoleAdmin))

			handler.NewReportsHandler(sessions).RegisterRoutes(r)
		})
	})

	log.Println("Router initialized with all handlers")
	return r, nil
}
