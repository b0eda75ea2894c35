package directory

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ordertrack/ordertrack-backend/pkg/db/models"
)

// Repository defines persistence operations for the directory tables
// (clients, suppliers, brands, products, price lists).
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	ListClients(ctx context.Context) ([]models.Client, error)
	FindClient(ctx context.Context, id string) (*models.Client, error)
	CreateClient(ctx context.Context, client *models.Client) error
	UpdateClient(ctx context.Context, id string, updates map[string]any) error
	DeleteClient(ctx context.Context, id string) error

	ListBrands(ctx context.Context) ([]models.Brand, error)
	FindBrand(ctx context.Context, id string) (*models.Brand, error)
	FindBrandIDByName(ctx context.Context, name string) (string, error)
	CreateBrand(ctx context.Context, brand *models.Brand) error
	UpdateBrand(ctx context.Context, id string, updates map[string]any) error
	DeleteBrand(ctx context.Context, id string) error

	ListSuppliers(ctx context.Context) ([]models.Supplier, error)
	FindSupplier(ctx context.Context, id string) (*models.Supplier, error)
	CreateSupplier(ctx context.Context, supplier *models.Supplier) error
	UpdateSupplier(ctx context.Context, id string, updates map[string]any) error
	ReplaceSupplierBrands(ctx context.Context, supplier *models.Supplier, brandIDs []string) error
	DeleteSupplier(ctx context.Context, id string) error

	ListProducts(ctx context.Context) ([]models.Product, error)
	ListCurrentPrices(ctx context.Context) (map[string]decimal.Decimal, error)
	FindProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, id string, updates map[string]any) error
	DeleteProduct(ctx context.Context, id string) error
}

// Service exposes the directory CRUD surface consumed by the controllers.
type Service interface {
	ListClients(ctx context.Context) ([]models.Client, error)
	CreateClient(ctx context.Context, input ClientInput) (*models.Client, error)
	UpdateClient(ctx context.Context, id string, input UpdateInput) (*models.Client, error)
	DeleteClient(ctx context.Context, id string) error

	ListBrands(ctx context.Context) ([]models.Brand, error)
	CreateBrand(ctx context.Context, input BrandInput) (*models.Brand, error)
	UpdateBrand(ctx context.Context, id string, input UpdateInput) (*models.Brand, error)
	DeleteBrand(ctx context.Context, id string) error

	ListSuppliers(ctx context.Context) ([]models.Supplier, error)
	CreateSupplier(ctx context.Context, input SupplierInput) (*models.Supplier, error)
	UpdateSupplier(ctx context.Context, id string, input SupplierUpdateInput) (*models.Supplier, error)
	DeleteSupplier(ctx context.Context, id string) error

	ListProducts(ctx context.Context) ([]ProductSummary, error)
	CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, input ProductUpdateInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}
