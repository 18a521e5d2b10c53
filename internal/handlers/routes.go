package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/wanderdesk/booking-api/internal/auth"
	"github.com/wanderdesk/booking-api/internal/config"
	appmw "github.com/wanderdesk/booking-api/internal/middleware"
)

type Handlers struct {
	Auth     *auth.AuthHandler
	Bookings *BookingHandler
	Packages *PackageHandler
	APIKeys  *APIKeyHandler
}

var operatorSecurity = []map[string][]string{{"cookieAuth": {}}, {"apiKeyAuth": {}}}

func operatorOnly(o *huma.Operation) {
	o.Security = operatorSecurity
}

func RegisterRoutes(r *chi.Mux, cfg *config.Config, h Handlers) {
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if cfg.EnableCORS {
		r.Use(cors.New(cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "X-API-KEY"},
			AllowCredentials: true,
		}).Handler)
	}

	// Initialize Huma API
	config := huma.DefaultConfig("Travel Booking API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: auth.CookieName,
		},
		"apiKeyAuth": {
			Type: "apiKey",
			In:   "header",
			Name: "X-API-KEY",
		},
	}
	api := humachi.New(r, config)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	loginLimiter := appmw.NewRateLimiter(20, 5)
	r.With(loginLimiter.Limit).Get("/auth/discord/login", h.Auth.HandleLogin)
	r.With(loginLimiter.Limit).Get("/auth/discord/callback", h.Auth.HandleCallback)

	bookingLimiter := appmw.NewRateLimiter(cfg.BookingRatePerMinute, cfg.BookingRateBurst)
	huma.Post(api, "/api/bookings", h.Bookings.HandleCreate, func(o *huma.Operation) {
		o.DefaultStatus = http.StatusCreated
		o.Middlewares = append(o.Middlewares, bookingLimiter.Huma(api))
	})
	huma.Get(api, "/api/packages", h.Packages.HandleList)
	huma.Get(api, "/api/packages/{id}", h.Packages.HandleGet)

	// Operator routes
	huma.Get(api, "/me", h.Auth.HandleMe, operatorOnly)
	huma.Get(api, "/api/bookings", h.Bookings.HandleList, operatorOnly)
	huma.Get(api, "/api/bookings/export", h.Bookings.HandleExport, func(o *huma.Operation) {
		o.Security = operatorSecurity
		o.Responses = map[string]*huma.Response{
			"200": {
				Description: "CSV snapshot of every booking",
				Content:     map[string]*huma.MediaType{"text/csv": {}},
			},
		}
	})
	huma.Get(api, "/api/bookings/{id}", h.Bookings.HandleGet, operatorOnly)
	huma.Get(api, "/api/bookings/{id}/history", h.Bookings.HandleHistory, operatorOnly)
	huma.Patch(api, "/api/bookings/{id}/status", h.Bookings.HandleUpdateStatus, operatorOnly)
	huma.Post(api, "/api/packages", h.Packages.HandleCreate, func(o *huma.Operation) {
		o.Security = operatorSecurity
		o.DefaultStatus = http.StatusCreated
	})
	huma.Put(api, "/api/packages/{id}", h.Packages.HandleUpdate, operatorOnly)
	huma.Post(api, "/api-keys", h.APIKeys.HandleCreate, func(o *huma.Operation) {
		o.Security = operatorSecurity
		o.DefaultStatus = http.StatusCreated
	})
	huma.Get(api, "/api-keys", h.APIKeys.HandleList, operatorOnly)
	huma.Delete(api, "/api-keys/{id}", h.APIKeys.HandleDelete, operatorOnly)

	r.With(h.Auth.Middleware).Handle("/metrics", promhttp.Handler())
}
