package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/manna-erp/manna-erp/internal/masterdata/items"
	"github.com/manna-erp/manna-erp/internal/masterdata/suppliers"
	"github.com/manna-erp/manna-erp/internal/observability"
	"github.com/manna-erp/manna-erp/internal/order/draft"
	"github.com/manna-erp/manna-erp/internal/order/purchase"
	"github.com/manna-erp/manna-erp/internal/uploads"
	"github.com/manna-erp/manna-erp/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	SuppliersHandler *suppliers.Handler
	ItemsHandler     *items.Handler
	DraftsHandler    *draft.Handler
	PurchaseHandler  *purchase.Handler
	UploadsHandler   *uploads.Handler
	JobHandler       *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with Manna defaults.
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

	r.Route("/api", func(r chi.Router) {
		r.Route("/suppliers", params.SuppliersHandler.MountRoutes)
		r.Route("/items", params.ItemsHandler.MountRoutes)
		r.Route("/drafts", params.DraftsHandler.MountRoutes)
		r.Route("/purchase-orders", params.PurchaseHandler.MountRoutes)
		if params.UploadsHandler != nil {
			r.Route("/uploads", params.UploadsHandler.MountRoutes)
		}
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	if params.Config != nil && params.Config.UploadDir != "" {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(params.Config.UploadDir)))
		r.Get("/uploads/*", func(w http.ResponseWriter, r *http.Request) {
			fileServer.ServeHTTP(w, r)
		})
	}

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
