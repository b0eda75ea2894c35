package confirmations

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ordertrack/ordertrack-backend/pkg/db/models"
	"github.com/ordertrack/ordertrack-backend/pkg/enums"
	"github.com/ordertrack/ordertrack-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a confirmations repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, confirmation *models.Confirmation) error {
	return r.db.WithContext(ctx).Omit("Orders", "Items", "Deliveries").Create(confirmation).Error
}

// ReplaceOrders resets the many-to-many link set to exactly the given orders.
func (r *repository) ReplaceOrders(ctx context.Context, confirmation *models.Confirmation, orderIDs []string) error {
	orders := make([]models.Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		orders = append(orders, models.Order{ID: id})
	}
	return r.db.WithContext(ctx).Model(confirmation).Association("Orders").Replace(&orders)
}

func (r *repository) Find(ctx context.Context, id string) (*models.Confirmation, error) {
	var confirmation models.Confirmation
	err := r.db.WithContext(ctx).
		Preload("Orders").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("client_id DESC, product_id")
		}).
		Preload("Deliveries").
		Where("id = ?", id).
		First(&confirmation).Error
	if err != nil {
		return nil, err
	}
	return &confirmation, nil
}

func (r *repository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Confirmation{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *repository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Confirmation{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

func (r *repository) List(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.Confirmation, *pagination.Cursor, error) {
	buffered := pagination.LimitWithBuffer(limit)
	normalized := pagination.NormalizeLimit(limit)

	query := r.db.WithContext(ctx).Model(&models.Confirmation{}).Preload("Items")
	if cursor != nil {
		query = query.Where("(confirmation_date, id) < (?, ?)", cursor.Date, cursor.ID)
	}

	var confirmations []models.Confirmation
	if err := query.Order("confirmation_date DESC, id DESC").Limit(buffered).Find(&confirmations).Error; err != nil {
		return nil, nil, err
	}

	if len(confirmations) > normalized {
		next := confirmations[normalized]
		confirmations = confirmations[:normalized]
		return confirmations, &pagination.Cursor{Date: next.ConfirmationDate, ID: next.ID}, nil
	}
	return confirmations, nil, nil
}

func (r *repository) Update(ctx context.Context, id string, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.Confirmation{}).Where("id = ?", id).Updates(updates).Error
}

// Delete removes the confirmation plus its items, deliveries and order links.
func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Select("Items", "Deliveries", "Orders").
		Delete(&models.Confirmation{ID: id}).Error
}

func (r *repository) LinkedOrderIDs(ctx context.Context, confirmationID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Table("confirmation_orders").
		Where("confirmation_id = ?", confirmationID).
		Order("order_id").
		Pluck("order_id", &ids).Error
	return ids, err
}

// SumOrderedByClient aggregates ordered quantity per client for one product
// across the given orders.
func (r *repository) SumOrderedByClient(ctx context.Context, orderIDs []string, productID string) ([]ClientQuantity, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	var rows []ClientQuantity
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Select("client_id, SUM(quantity) AS quantity").
		Where("product_id = ? AND order_id IN ?", productID, orderIDs).
		Group("client_id").
		Order("client_id").
		Scan(&rows).Error
	return rows, err
}

// SumConfirmedByClient aggregates already confirmed quantity per client for
// one product across every confirmation that shares any of the given orders,
// so that repeated confirmations against the same orders never double-count.
func (r *repository) SumConfirmedByClient(ctx context.Context, orderIDs []string, productID string) ([]ClientQuantity, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	related := r.db.
		Table("confirmation_orders").
		Select("confirmation_id").
		Where("order_id IN ?", orderIDs)

	var rows []ClientQuantity
	err := r.db.WithContext(ctx).
		Model(&models.ConfirmationItem{}).
		Select("client_id, SUM(quantity) AS quantity").
		Where("product_id = ? AND confirmation_id IN (?)", productID, related).
		Group("client_id").
		Order("client_id").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) CreateItems(ctx context.Context, items []models.ConfirmationItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) DeleteItems(ctx context.Context, confirmationID string) error {
	return r.db.WithContext(ctx).
		Where("confirmation_id = ?", confirmationID).
		Delete(&models.ConfirmationItem{}).Error
}

func (r *repository) CreateDeliveries(ctx context.Context, deliveries []models.ConfirmationDelivery) error {
	if len(deliveries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&deliveries).Error
}

func (r *repository) DeleteDeliveries(ctx context.Context, confirmationID string) error {
	return r.db.WithContext(ctx).
		Where("confirmation_id = ?", confirmationID).
		Delete(&models.ConfirmationDelivery{}).Error
}

// GetOrCreateClient ensures the client row exists; used for the sentinel.
func (r *repository) GetOrCreateClient(ctx context.Context, id string) error {
	var client models.Client
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&client).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.WithContext(ctx).Create(&models.Client{ID: id, Name: id}).Error
}

// UpsertProduct creates the product or overwrites its name and brand.
func (r *repository) UpsertProduct(ctx context.Context, id, name, brandID string) error {
	var product models.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err == nil {
		return r.db.WithContext(ctx).
			Model(&models.Product{}).
			Where("id = ?", id).
			Updates(map[string]any{"name": name, "brand_id": brandID}).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.WithContext(ctx).Create(&models.Product{
		ID:      id,
		Name:    name,
		BrandID: brandID,
		State:   enums.ProductStateValid,
	}).Error
}

func (r *repository) ProductNames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var products []models.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	if err != nil {
		return nil, err
	}
	for _, product := range products {
		names[product.ID] = product.Name
	}
	return names, nil
}

// MissingOrders returns the subset of ids with no order row.
func (r *repository) MissingOrders(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []string
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(found))
	for _, id := range found {
		present[id] = true
	}
	var missing []string
	for _, id := range ids {
		if !present[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (r *repository) SupplierExists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Supplier{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
