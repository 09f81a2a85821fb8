package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"emlak-analytics/config"
	"emlak-analytics/connector"
	"emlak-analytics/services"
	"emlak-analytics/utils"
)

// NewServer builds the HTTP server exposing the analytics and connector
// endpoints consumed by the dashboard frontend.
func NewServer(cfg *config.Config, store *services.Store, analyzer *services.Analyzer, manager *connector.Manager, logger *utils.Logger) *http.Server {
	h := &Handler{
		store:    store,
		analyzer: analyzer,
		manager:  manager,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP, RequestLogger(logger), middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/price-analysis", h.PriceAnalysis)
		r.Get("/geo", h.Geo)

		r.Route("/connectors", func(r chi.Router) {
			r.Get("/", h.ListConnectors)
			r.Put("/{id}", h.ConfigureConnector)
			r.Post("/{id}/test", h.TestConnector)
			r.Post("/{id}/sync", h.SyncConnector)
		})
	})

	return &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: r,
	}
}
