package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/parcefx/landing-api/internal/http/handlers"
	httpmiddleware "github.com/parcefx/landing-api/internal/http/middleware"
	"github.com/parcefx/landing-api/internal/leads"
	"github.com/parcefx/landing-api/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	LeadsHandler       *leads.Handler
	AdminLeadsHandler  *leads.AdminHandler
	AdminLogin         *handlers.AdminLoginHandler
	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", handlers.Health)
		public.Post("/api/subscribe", cfg.LeadsHandler.Subscribe)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.AdminLogin != nil {
			public.Post("/admin/login", cfg.AdminLogin.Login)
		}
	})

	// Admin routes (protected by JWT)
	if cfg.AdminAuthSecret != "" && cfg.AdminLeadsHandler != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Get("/leads", cfg.AdminLeadsHandler.ListLeads)
			admin.Get("/leads/stats", cfg.AdminLeadsHandler.GetStats)
			admin.Get("/leads/export", cfg.AdminLeadsHandler.ExportCSV)
			admin.Delete("/leads/{id}", cfg.AdminLeadsHandler.DeleteLead)
		})
	}

	return r
}
