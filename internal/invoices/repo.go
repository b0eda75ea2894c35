package invoices

import (
	"context"

	"gorm.io/gorm"

	"github.com/ordertrack/ordertrack-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an invoices repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Order("invoice_date DESC, id DESC").
		Find(&invoices).Error
	return invoices, err
}

func (r *repository) ListItems(ctx context.Context, invoiceID uint) ([]models.InvoiceItem, error) {
	var items []models.InvoiceItem
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("id").
		Find(&items).Error
	return items, err
}
