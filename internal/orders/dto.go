package orders

import (
	"io"
	"time"

	"github.com/ordertrack/ordertrack-backend/internal/ingest"
	"github.com/ordertrack/ordertrack-backend/pkg/db/models"
)

// PreviewInput carries the uploaded workbook to the parser.
type PreviewInput struct {
	Filename   string
	SupplierID string
	File       io.Reader
}

// PreviewResult is the staged upload returned to the operator for review.
type PreviewResult struct {
	Token   string            `json:"staging_token"`
	OrderID string            `json:"order_id"`
	Rows    []ingest.OrderRow `json:"rows"`
}

// CreateOrderInput commits a previously staged order upload.
type CreateOrderInput struct {
	Name         string  `json:"name" validate:"required,max=450"`
	OrderDate    string  `json:"order_date" validate:"required,datetime=2006-01-02"`
	SupplierID   string  `json:"supplier_id" validate:"required,max=10"`
	Comment      *string `json:"comment,omitempty" validate:"omitempty,max=450"`
	StagingToken string  `json:"staging_token" validate:"required,uuid4"`
}

// OrderItemInput replaces one order line during an edit.
type OrderItemInput struct {
	ClientID  string `json:"client_id" validate:"required,max=10"`
	ProductID string `json:"product_id" validate:"required,max=200"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// UpdateOrderInput edits order metadata; Items may only be replaced while no
// confirmation references the order.
type UpdateOrderInput struct {
	Comment *string           `json:"comment,omitempty" validate:"omitempty,max=450"`
	Items   *[]OrderItemInput `json:"items,omitempty" validate:"omitempty,dive"`
}

// ListParams are the cursor pagination inputs for the order list.
type ListParams struct {
	Limit  int
	Cursor string
}

// OrderSummary is one row of the paginated order list.
type OrderSummary struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	OrderDate     time.Time `json:"order_date"`
	SupplierID    string    `json:"supplier_id"`
	Comment       *string   `json:"comment,omitempty"`
	TotalQuantity int       `json:"total_quantity"`
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderSummary `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// OrderDetail is an order with its items and confirmation linkage state.
type OrderDetail struct {
	models.Order
	HasConfirmations bool `json:"has_confirmations"`
}
