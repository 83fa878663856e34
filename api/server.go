/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. Logger:     Request logging through zap
  4. CORS:       Cross-origin requests for the contract editor frontend

ROUTE GROUPS:
  /api/pricing/*       Price lookups, quotes, cache refresh
  /api/catalog/*       Price table administration
  /api/installments/*  Schedule generation, validation, text
  /api/contracts/*     Stored schedules
  /api/scenarios/*     Demo catalogs
  /metrics             Prometheus exposition

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	AllowedOrigins []string

	// Metrics serves /metrics when set.
	Metrics http.Handler
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:8080"}
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/pricing", func(r chi.Router) {
			r.Get("/monthly", h.GetMonthlyPrice)
			r.Get("/daily", h.GetDailyPrice)
			r.Post("/quote", h.Quote)
			r.Post("/contract-quote", h.ContractQuote)
			r.Post("/refresh", h.RefreshPricing)
			r.Get("/sizes", h.ListSizes)
			r.Get("/categories", h.ListCategories)
			r.Get("/levels", h.ListLevels)
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Post("/rows", h.ReplacePriceRows)
			r.Post("/sizes", h.SaveSizes)
			r.Post("/categories", h.SaveCategories)
		})

		r.Route("/installments", func(r chi.Router) {
			r.Post("/even", h.DistributeEven)
			r.Post("/interval", h.DistributeInterval)
			r.Post("/manual", h.CreateManual)
			r.Post("/validate", h.ValidateSchedule)
			r.Post("/summary", h.SummarizeSchedule)
		})

		r.Route("/contracts", func(r chi.Router) {
			r.Put("/{id}/installments", h.SaveContractSchedule)
			r.Get("/{id}/installments", h.GetContractSchedule)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}

// requestLogger logs one line per request at info, or warn for 5xx.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			}
			if ww.Status() >= http.StatusInternalServerError {
				logger.Warn("request failed", fields...)
				return
			}
			logger.Info("request", fields...)
		})
	}
}
