package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/estoque-erp/estoque-erp/internal/categoryprices"
	"github.com/estoque-erp/estoque-erp/internal/customers"
	"github.com/estoque-erp/estoque-erp/internal/expenses"
	"github.com/estoque-erp/estoque-erp/internal/installments"
	"github.com/estoque-erp/estoque-erp/internal/materials"
	"github.com/estoque-erp/estoque-erp/internal/orders"
	"github.com/estoque-erp/estoque-erp/internal/products"
	"github.com/estoque-erp/estoque-erp/internal/sales"
	"github.com/estoque-erp/estoque-erp/internal/settings"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger                *slog.Logger
	Config                *Config
	ProductsHandler       *products.Handler
	MaterialsHandler      *materials.Handler
	CustomersHandler      *customers.Handler
	SalesHandler          *sales.Handler
	OrdersHandler         *orders.Handler
	InstallmentsHandler   *installments.Handler
	ExpensesHandler       *expenses.Handler
	CategoryPricesHandler *categoryprices.Handler
	SettingsHandler       *settings.Handler
}

// NewRouter constructs the chi.Router with application defaults. All
// domain routes are mounted under /api.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
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
		params.ProductsHandler.MountRoutes(r)
		params.MaterialsHandler.MountRoutes(r)
		params.CustomersHandler.MountRoutes(r)
		params.SalesHandler.MountRoutes(r)
		params.OrdersHandler.MountRoutes(r)
		params.InstallmentsHandler.MountRoutes(r)
		params.ExpensesHandler.MountRoutes(r)
		params.CategoryPricesHandler.MountRoutes(r)
		params.SettingsHandler.MountRoutes(r)
	})

	return r
}
