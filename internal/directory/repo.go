package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ordertrack/ordertrack-backend/pkg/db/models"
	pkgerrors "github.com/ordertrack/ordertrack-backend/pkg/errors"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a directory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListClients(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	err := r.db.WithContext(ctx).Order("id ASC").Find(&clients).Error
	return clients, err
}

func (r *repository) FindClient(ctx context.Context, id string) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *repository) CreateClient(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *repository) UpdateClient(ctx context.Context, id string, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.Client{}).Where("id = ?", id).Updates(updates).Error
}

func (r *repository) DeleteClient(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Client{}).Error
}

func (r *repository) ListBrands(ctx context.Context) ([]models.Brand, error) {
	var brands []models.Brand
	err := r.db.WithContext(ctx).Order("id ASC").Find(&brands).Error
	return brands, err
}

func (r *repository) FindBrand(ctx context.Context, id string) (*models.Brand, error) {
	var brand models.Brand
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&brand).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

// FindBrandIDByName resolves a brand by case-insensitive partial name match,
// the way confirmation filenames reference brands.
func (r *repository) FindBrandIDByName(ctx context.Context, name string) (string, error) {
	var brand models.Brand
	pattern := "%" + strings.ToLower(strings.TrimSpace(name)) + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", pattern).
		Order("id ASC").
		First(&brand).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("brand %q is not registered", name))
		}
		return "", err
	}
	return brand.ID, nil
}

func (r *repository) CreateBrand(ctx context.Context, brand *models.Brand) error {
	return r.db.WithContext(ctx).Create(brand).Error
}

func (r *repository) UpdateBrand(ctx context.Context, id string, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.Brand{}).Where("id = ?", id).Updates(updates).Error
}

func (r *repository) DeleteBrand(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Brand{}).Error
}

func (r *repository) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	err := r.db.WithContext(ctx).Preload("Brands").Order("id ASC").Find(&suppliers).Error
	return suppliers, err
}

func (r *repository) FindSupplier(ctx context.Context, id string) (*models.Supplier, error) {
	var supplier models.Supplier
	err := r.db.WithContext(ctx).Preload("Brands").Where("id = ?", id).First(&supplier).Error
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *repository) CreateSupplier(ctx context.Context, supplier *models.Supplier) error {
	return r.db.WithContext(ctx).Create(supplier).Error
}

func (r *repository) UpdateSupplier(ctx context.Context, id string, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.Supplier{}).Where("id = ?", id).Updates(updates).Error
}

func (r *repository) ReplaceSupplierBrands(ctx context.Context, supplier *models.Supplier, brandIDs []string) error {
	brands := make([]models.Brand, 0, len(brandIDs))
	for _, id := range brandIDs {
		brands = append(brands, models.Brand{ID: id})
	}
	return r.db.WithContext(ctx).Model(supplier).Association("Brands").Replace(brands)
}

func (r *repository) DeleteSupplier(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Supplier{}).Error
}

func (r *repository) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).Order("brand_id ASC").Order("id ASC").Find(&products).Error
	return products, err
}

// ListCurrentPrices returns the newest valid price per product, taken from
// the price list with the most recent starts_from date.
func (r *repository) ListCurrentPrices(ctx context.Context) (map[string]decimal.Decimal, error) {
	type priceRow struct {
		ProductID string          `gorm:"column:product_id"`
		Price     decimal.Decimal `gorm:"column:price"`
	}
	var rows []priceRow
	err := r.db.WithContext(ctx).
		Table("product_details").
		Select("product_details.product_id, product_details.price").
		Joins("JOIN price_lists ON price_lists.id = product_details.price_list_id").
		Where("price_lists.state = ?", "Valid").
		Order("price_lists.starts_from DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	prices := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		if _, seen := prices[row.ProductID]; !seen {
			prices[row.ProductID] = row.Price
		}
	}
	return prices, nil
}

func (r *repository) FindProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *repository) UpdateProduct(ctx context.Context, id string, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(updates).Error
}

func (r *repository) DeleteProduct(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}
