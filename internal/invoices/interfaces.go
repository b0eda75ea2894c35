package invoices

import (
	"context"

	"github.com/ordertrack/ordertrack-backend/pkg/db/models"
)

// Repository defines the read-only persistence operations for invoices.
type Repository interface {
	List(ctx context.Context) ([]models.Invoice, error)
	ListItems(ctx context.Context, invoiceID uint) ([]models.InvoiceItem, error)
}

// Service exposes the invoice operations consumed by the controllers.
type Service interface {
	List(ctx context.Context) ([]models.Invoice, error)
	ListItems(ctx context.Context, invoiceID uint) ([]models.InvoiceItem, error)
}
