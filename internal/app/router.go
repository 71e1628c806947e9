package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ensayelab/ensayelab/internal/budgets"
	"github.com/ensayelab/ensayelab/internal/catalog"
	"github.com/ensayelab/ensayelab/internal/clients"
	"github.com/ensayelab/ensayelab/internal/observability"
	"github.com/ensayelab/ensayelab/internal/obras"
	"github.com/ensayelab/ensayelab/report"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	ClientHandler  *clients.Handler
	CatalogHandler *catalog.Handler
	BudgetHandler  *budgets.Handler
	ObraHandler    *obras.Handler
	ReportHandler  *report.Handler
	Metrics        *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	if params.ReportHandler != nil {
		r.Route("/report", func(rr chi.Router) {
			params.ReportHandler.MountRoutes(rr)
		})
	}

	r.Route("/api", func(api chi.Router) {
		if params.Config != nil && params.Config.APITokenHash != "" {
			api.Use(APITokenMiddleware(params.Config.APITokenHash, params.Logger))
		}
		if params.ClientHandler != nil {
			api.Route("/clientes", func(rr chi.Router) {
				params.ClientHandler.MountRoutes(rr)
			})
		}
		if params.CatalogHandler != nil {
			api.Route("/areas", func(rr chi.Router) {
				params.CatalogHandler.MountAreaRoutes(rr)
			})
			api.Route("/subareas", func(rr chi.Router) {
				params.CatalogHandler.MountSubareaRoutes(rr)
			})
			api.Route("/conceptos", func(rr chi.Router) {
				params.CatalogHandler.MountConceptRoutes(rr)
			})
		}
		if params.BudgetHandler != nil {
			api.Route("/presupuestos", func(rr chi.Router) {
				params.BudgetHandler.MountRoutes(rr)
			})
		}
		if params.ObraHandler != nil {
			api.Route("/obras", func(rr chi.Router) {
				params.ObraHandler.MountRoutes(rr)
			})
		}
	})

	return r
}
