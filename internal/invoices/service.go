package invoices

import (
	"context"
	"fmt"

	"github.com/ordertrack/ordertrack-backend/pkg/db/models"
	pkgerrors "github.com/ordertrack/ordertrack-backend/pkg/errors"
)

type service struct {
	repo Repository
}

// NewService builds the read-only invoice service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("invoices repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]models.Invoice, error) {
	invoices, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list invoices")
	}
	return invoices, nil
}

// ListItems returns the billed lines of one invoice. An invoice without
// items is reported as not found, matching the list-or-404 read surface.
func (s *service) ListItems(ctx context.Context, invoiceID uint) ([]models.InvoiceItem, error) {
	items, err := s.repo.ListItems(ctx, invoiceID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list invoice items")
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice has no items")
	}
	return items, nil
}
