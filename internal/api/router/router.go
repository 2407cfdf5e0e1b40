// Package router wires the HTTP surface: admin tenant management and the
// public, tenant-scoped booking flow.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/avivshm/glowbook/internal/availability"
	"github.com/avivshm/glowbook/internal/bookings"
	"github.com/avivshm/glowbook/internal/catalog"
	"github.com/avivshm/glowbook/internal/customers"
	httpmiddleware "github.com/avivshm/glowbook/internal/http/middleware"
	"github.com/avivshm/glowbook/internal/tenants"
	"github.com/avivshm/glowbook/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	TenantsHandler      *tenants.Handler
	AvailabilityHandler *availability.Handler
	CatalogHandler      *catalog.Handler
	CustomersHandler    *customers.Handler
	BookingsHandler     *bookings.Handler
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string

	// Per-IP rate limit for the public booking routes. Zero disables it.
	PublicRateLimit float64
	PublicRateBurst int
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

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Admin surface: tenant lifecycle plus per-tenant windows, services,
	// and the booking log.
	r.Route("/admin/tenants", func(rt chi.Router) {
		if cfg.TenantsHandler != nil {
			cfg.TenantsHandler.Routes(rt)
		}
		rt.Route("/{tenantID}", func(one chi.Router) {
			if cfg.TenantsHandler != nil {
				cfg.TenantsHandler.TenantRoutes(one)
			}
			if cfg.AvailabilityHandler != nil {
				one.Mount("/hours", cfg.AvailabilityHandler.AdminRoutes())
			}
			if cfg.CatalogHandler != nil {
				one.Mount("/services", cfg.CatalogHandler.Routes())
			}
			if cfg.BookingsHandler != nil {
				one.Get("/bookings", cfg.BookingsHandler.List)
			}
		})
	})

	// Public booking flow, scoped to the tenant named in the header.
	r.Route("/booking", func(b chi.Router) {
		b.Use(requireTenantID)
		if cfg.PublicRateLimit > 0 {
			b.Use(httpmiddleware.RateLimit(cfg.PublicRateLimit, cfg.PublicRateBurst))
		}
		if cfg.AvailabilityHandler != nil {
			b.Get("/slots", cfg.AvailabilityHandler.Slots)
		}
		if cfg.CustomersHandler != nil {
			b.Post("/profile", cfg.CustomersHandler.Upsert)
		}
		if cfg.BookingsHandler != nil {
			b.Post("/commit", cfg.BookingsHandler.Commit)
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
