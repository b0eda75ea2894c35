package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/ordertrack/ordertrack-backend/pkg/db/models"
	"github.com/ordertrack/ordertrack-backend/pkg/pagination"
)

// Repository defines persistence operations for orders and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	CreateItems(ctx context.Context, items []models.OrderItem) error
	DeleteItems(ctx context.Context, orderID string) error
	Find(ctx context.Context, id string) (*models.Order, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.Order, *pagination.Cursor, error)
	Update(ctx context.Context, id string, updates map[string]any) error
	Delete(ctx context.Context, id string) error
	CountConfirmations(ctx context.Context, orderID string) (int64, error)
	MissingClients(ctx context.Context, ids []string) ([]string, error)
	SupplierExists(ctx context.Context, id string) (bool, error)
	GetOrCreateProduct(ctx context.Context, id string, secondID *string, brandID string) error
}

// Service exposes the order operations consumed by the controllers.
type Service interface {
	Preview(ctx context.Context, input PreviewInput) (*PreviewResult, error)
	Create(ctx context.Context, input CreateOrderInput) (*OrderDetail, error)
	List(ctx context.Context, params ListParams) (*OrderList, error)
	Get(ctx context.Context, id string) (*OrderDetail, error)
	Update(ctx context.Context, id string, input UpdateOrderInput) (*OrderDetail, error)
	Delete(ctx context.Context, id string) error
}
