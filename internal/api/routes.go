package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mhaveles/airbnboptimizer/internal/config"
)

// SetupRoutes configures the router: middleware, health check, and the
// /api endpoint group.
func SetupRoutes(h *Handlers, health *HealthChecker, cfg config.ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{cfg.BaseURL, "http://localhost:3000", "http://localhost:8080"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	if health != nil {
		r.Get("/health", health.HandleHealth)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/normalize-url", h.HandleNormalizeURL)
		r.Post("/analyze", h.HandleAnalyze)
		r.Get("/poll-status", h.HandlePollStatus)
		r.Get("/get-record", h.HandleGetRecord)
		r.Post("/save-email", h.HandleSaveEmail)
		r.Post("/create-checkout", h.HandleCreateCheckout)
		r.Post("/payment-webhook", h.HandlePaymentWebhook)
		r.Post("/generate-description", h.HandleGenerateDescription)
		r.Get("/poll-description", h.HandlePollDescription)
	})

	return r
}
