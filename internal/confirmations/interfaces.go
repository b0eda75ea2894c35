package confirmations

import (
	"context"

	"gorm.io/gorm"

	"github.com/ordertrack/ordertrack-backend/pkg/db/models"
	"github.com/ordertrack/ordertrack-backend/pkg/pagination"
)

// ClientQuantity is one row of a per-client quantity aggregate.
type ClientQuantity struct {
	ClientID string `gorm:"column:client_id" json:"client_id"`
	Quantity int    `gorm:"column:quantity" json:"quantity"`
}

// Repository defines persistence operations for confirmations, their items
// and deliveries, plus the aggregate reads the allocation step depends on.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, confirmation *models.Confirmation) error
	ReplaceOrders(ctx context.Context, confirmation *models.Confirmation, orderIDs []string) error
	Find(ctx context.Context, id string) (*models.Confirmation, error)
	Exists(ctx context.Context, id string) (bool, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	List(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.Confirmation, *pagination.Cursor, error)
	Update(ctx context.Context, id string, updates map[string]any) error
	Delete(ctx context.Context, id string) error
	LinkedOrderIDs(ctx context.Context, confirmationID string) ([]string, error)
	SumOrderedByClient(ctx context.Context, orderIDs []string, productID string) ([]ClientQuantity, error)
	SumConfirmedByClient(ctx context.Context, orderIDs []string, productID string) ([]ClientQuantity, error)
	CreateItems(ctx context.Context, items []models.ConfirmationItem) error
	DeleteItems(ctx context.Context, confirmationID string) error
	CreateDeliveries(ctx context.Context, deliveries []models.ConfirmationDelivery) error
	DeleteDeliveries(ctx context.Context, confirmationID string) error
	GetOrCreateClient(ctx context.Context, id string) error
	UpsertProduct(ctx context.Context, id, name, brandID string) error
	ProductNames(ctx context.Context, ids []string) (map[string]string, error)
	MissingOrders(ctx context.Context, ids []string) ([]string, error)
	SupplierExists(ctx context.Context, id string) (bool, error)
}

// Service exposes the confirmation operations consumed by the controllers.
type Service interface {
	Preview(ctx context.Context, input PreviewInput) (*PreviewResult, error)
	Create(ctx context.Context, input CreateConfirmationInput) (*ConfirmationDetail, error)
	List(ctx context.Context, params ListParams) (*ConfirmationList, error)
	Get(ctx context.Context, id string) (*ConfirmationDetail, error)
	Update(ctx context.Context, id string, input UpdateConfirmationInput) (*ConfirmationDetail, error)
	Delete(ctx context.Context, id string) error
	Export(ctx context.Context, id string) (*ExportResult, error)
}
