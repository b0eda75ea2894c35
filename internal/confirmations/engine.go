package confirmations

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ordertrack/ordertrack-backend/internal/ingest"
	"github.com/ordertrack/ordertrack-backend/pkg/db/models"
	pkgerrors "github.com/ordertrack/ordertrack-backend/pkg/errors"
)

// itemGroup is one product's confirmed rows collapsed into a single entry.
// Name and price come from the first row of the group.
type itemGroup struct {
	Product  string
	Name     string
	Price    decimal.Decimal
	Quantity int
}

// groupItemRows collapses confirmed rows by product, preserving the order of
// first appearance. Rows without a product id (the synthetic total row) are
// dropped.
func groupItemRows(rows []ingest.ConfirmationRow) []itemGroup {
	index := map[string]int{}
	groups := make([]itemGroup, 0, len(rows))
	for _, row := range rows {
		if row.Product == "" {
			continue
		}
		at, seen := index[row.Product]
		if !seen {
			index[row.Product] = len(groups)
			groups = append(groups, itemGroup{
				Product:  row.Product,
				Name:     row.ProductName,
				Price:    row.Price,
				Quantity: row.Quantity,
			})
			continue
		}
		groups[at].Quantity += row.Quantity
	}
	return groups
}

// allocateOutstanding splits one product's confirmed quantity across the
// clients who ordered it within the given orders. For every client with an
// ordered quantity it returns ordered minus already-confirmed, where the
// already-confirmed sum spans every confirmation sharing any of the orders.
// Returns an empty sequence when nothing is outstanding for the product, or
// when the confirmation has no linked orders at all. Deltas are passed
// through unclamped, so an over-confirmed client yields a negative quantity.
func (s *service) allocateOutstanding(ctx context.Context, repo Repository, orderIDs []string, productID string) ([]ClientQuantity, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	ordered, err := repo.SumOrderedByClient(ctx, orderIDs, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum ordered quantities")
	}
	confirmed, err := repo.SumConfirmedByClient(ctx, orderIDs, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum confirmed quantities")
	}

	totalOrdered := 0
	for _, entry := range ordered {
		totalOrdered += entry.Quantity
	}
	totalConfirmed := 0
	confirmedBy := make(map[string]int, len(confirmed))
	for _, entry := range confirmed {
		totalConfirmed += entry.Quantity
		confirmedBy[entry.ClientID] = entry.Quantity
	}
	if totalOrdered-totalConfirmed <= 0 {
		return nil, nil
	}

	left := make([]ClientQuantity, 0, len(ordered))
	for _, entry := range ordered {
		left = append(left, ClientQuantity{
			ClientID: entry.ClientID,
			Quantity: entry.Quantity - confirmedBy[entry.ClientID],
		})
	}
	return left, nil
}

// applyConfirmationItems records one ConfirmationItem per allocated client
// for each confirmed product group, registering or renaming the product on
// the way. Products no ordering client holds outstanding quantity for are
// attributed in full to the sentinel client. Rows are always inserted;
// rebuild flows must delete the prior items first.
func (s *service) applyConfirmationItems(ctx context.Context, repo Repository, confirmationID string, orderIDs []string, rows []ingest.ConfirmationRow) error {
	for _, group := range groupItemRows(rows) {
		brandID := models.BrandIDFromProductID(group.Product)
		if err := repo.UpsertProduct(ctx, group.Product, group.Name, brandID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert product")
		}

		left, err := s.allocateOutstanding(ctx, repo, orderIDs, group.Product)
		if err != nil {
			return err
		}

		if len(left) == 0 {
			if err := repo.GetOrCreateClient(ctx, models.UnknownClientID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ensure sentinel client")
			}
			err := repo.CreateItems(ctx, []models.ConfirmationItem{{
				ConfirmationID: confirmationID,
				ClientID:       models.UnknownClientID,
				ProductID:      group.Product,
				Quantity:       group.Quantity,
				Price:          group.Price,
			}})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create confirmation items")
			}
			continue
		}

		items := make([]models.ConfirmationItem, 0, len(left))
		for _, allocation := range left {
			if allocation.Quantity == 0 {
				continue
			}
			items = append(items, models.ConfirmationItem{
				ConfirmationID: confirmationID,
				ClientID:       allocation.ClientID,
				ProductID:      group.Product,
				Quantity:       allocation.Quantity,
				Price:          group.Price,
			})
		}
		if err := repo.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create confirmation items")
		}
	}
	return nil
}

type deliveryKey struct {
	product string
	date    time.Time
}

// applyConfirmationDeliveries records one ConfirmationDelivery per
// (product, delivery date) group. Rows with an empty or literal "None" date
// are skipped, as are rows whose date fails to parse. Grouping happens after
// parsing, so raw values naming the same calendar day collapse into one row
// and cannot collide on the (confirmation, product, delivery_date) index.
func (s *service) applyConfirmationDeliveries(ctx context.Context, repo Repository, confirmationID string, rows []ingest.ConfirmationRow) error {
	index := map[deliveryKey]int{}
	type deliveryGroup struct {
		key      deliveryKey
		quantity int
	}
	groups := []deliveryGroup{}
	for _, row := range rows {
		if row.Product == "" || row.DeliveryRaw == "" || row.DeliveryRaw == "None" {
			continue
		}
		millis, err := strconv.ParseInt(row.DeliveryRaw, 10, 64)
		if err != nil {
			if s.logg != nil {
				s.logg.Info(ctx, "skipping delivery row with unparseable date "+row.DeliveryRaw)
			}
			continue
		}
		day := time.UnixMilli(millis).UTC()
		date := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		key := deliveryKey{product: row.Product, date: date}
		at, seen := index[key]
		if !seen {
			index[key] = len(groups)
			groups = append(groups, deliveryGroup{key: key, quantity: row.Quantity})
			continue
		}
		groups[at].quantity += row.Quantity
	}

	deliveries := make([]models.ConfirmationDelivery, 0, len(groups))
	for _, group := range groups {
		date := group.key.date
		deliveries = append(deliveries, models.ConfirmationDelivery{
			ConfirmationID: confirmationID,
			ProductID:      group.key.product,
			Quantity:       group.quantity,
			DeliveryDate:   &date,
		})
	}
	if err := repo.CreateDeliveries(ctx, deliveries); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create confirmation deliveries")
	}
	return nil
}
