package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ordertrack/ordertrack-backend/api/controllers"
	"github.com/ordertrack/ordertrack-backend/api/middleware"
	"github.com/ordertrack/ordertrack-backend/internal/confirmations"
	"github.com/ordertrack/ordertrack-backend/internal/directory"
	"github.com/ordertrack/ordertrack-backend/internal/invoices"
	"github.com/ordertrack/ordertrack-backend/internal/orders"
	"github.com/ordertrack/ordertrack-backend/pkg/config"
	"github.com/ordertrack/ordertrack-backend/pkg/logger"
)

// Services bundles the domain services the router exposes.
type Services struct {
	Directory     directory.Service
	Orders        orders.Service
	Confirmations confirmations.Service
	Invoices      invoices.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	db controllers.Pinger,
	redis controllers.Pinger,
	services Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, db, redis))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/clients", func(r chi.Router) {
			r.Get("/", controllers.ClientList(services.Directory, logg))
			r.Post("/", controllers.ClientCreate(services.Directory, logg))
			r.Patch("/{clientId}", controllers.ClientUpdate(services.Directory, logg))
			r.Delete("/{clientId}", controllers.ClientDelete(services.Directory, logg))
		})

		r.Route("/brands", func(r chi.Router) {
			r.Get("/", controllers.BrandList(services.Directory, logg))
			r.Post("/", controllers.BrandCreate(services.Directory, logg))
			r.Patch("/{brandId}", controllers.BrandUpdate(services.Directory, logg))
			r.Delete("/{brandId}", controllers.BrandDelete(services.Directory, logg))
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", controllers.SupplierList(services.Directory, logg))
			r.Post("/", controllers.SupplierCreate(services.Directory, logg))
			r.Patch("/{supplierId}", controllers.SupplierUpdate(services.Directory, logg))
			r.Delete("/{supplierId}", controllers.SupplierDelete(services.Directory, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(services.Directory, logg))
			r.Post("/", controllers.ProductCreate(services.Directory, logg))
			r.Patch("/{productId}", controllers.ProductUpdate(services.Directory, logg))
			r.Delete("/{productId}", controllers.ProductDelete(services.Directory, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(services.Orders, logg))
			r.Post("/preview", controllers.OrderPreview(services.Orders, cfg.Ingest, logg))
			r.Post("/", controllers.OrderCreate(services.Orders, logg))
			r.Get("/{orderId}", controllers.OrderGet(services.Orders, logg))
			r.Patch("/{orderId}", controllers.OrderUpdate(services.Orders, logg))
			r.Delete("/{orderId}", controllers.OrderDelete(services.Orders, logg))
		})

		r.Route("/confirmations", func(r chi.Router) {
			r.Get("/", controllers.ConfirmationList(services.Confirmations, logg))
			r.Post("/preview", controllers.ConfirmationPreview(services.Confirmations, cfg.Ingest, logg))
			r.Post("/", controllers.ConfirmationCreate(services.Confirmations, logg))
			r.Get("/{confirmationId}", controllers.ConfirmationGet(services.Confirmations, logg))
			r.Get("/{confirmationId}/export", controllers.ConfirmationExport(services.Confirmations, logg))
			r.Patch("/{confirmationId}", controllers.ConfirmationUpdate(services.Confirmations, logg))
			r.Delete("/{confirmationId}", controllers.ConfirmationDelete(services.Confirmations, logg))
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", controllers.InvoiceList(services.Invoices, logg))
			r.Get("/{invoiceId}/items", controllers.InvoiceItems(services.Invoices, logg))
		})
	})

	return r
}
