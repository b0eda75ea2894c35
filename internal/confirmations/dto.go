package confirmations

import (
	"io"
	"time"

	"github.com/shopspring/decimal"

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
	Token            string                   `json:"staging_token"`
	ConfirmationCode string                   `json:"confirmation_code"`
	Rows             []ingest.ConfirmationRow `json:"rows"`
}

// CreateConfirmationInput commits a previously staged confirmation upload.
// The confirmation code, and thereby the id, comes from the staged payload.
type CreateConfirmationInput struct {
	Name             string   `json:"name" validate:"required,max=250"`
	ConfirmationDate string   `json:"confirmation_date" validate:"required,datetime=2006-01-02"`
	SupplierID       string   `json:"supplier_id" validate:"required,max=10"`
	OrderIDs         []string `json:"order_ids" validate:"omitempty,dive,required"`
	Comment          *string  `json:"comment,omitempty" validate:"omitempty,max=450"`
	StagingToken     string   `json:"staging_token" validate:"required,uuid4"`
}

// UpdateConfirmationInput edits confirmation metadata. Changing the linked
// order set triggers an item rebuild.
type UpdateConfirmationInput struct {
	Comment  *string   `json:"comment,omitempty" validate:"omitempty,max=450"`
	OrderIDs *[]string `json:"order_ids,omitempty" validate:"omitempty,dive,required"`
}

// ListParams are the cursor pagination inputs for the confirmation list.
type ListParams struct {
	Limit  int
	Cursor string
}

// ConfirmationSummary is one row of the paginated confirmation list.
type ConfirmationSummary struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	ConfirmationCode string          `json:"confirmation_code"`
	ConfirmationDate time.Time       `json:"confirmation_date"`
	SupplierID       string          `json:"supplier_id"`
	Comment          *string         `json:"comment,omitempty"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
}

// ConfirmationList wraps the paginated confirmations plus the next cursor.
type ConfirmationList struct {
	Confirmations []ConfirmationSummary `json:"confirmations"`
	NextCursor    string                `json:"next_cursor,omitempty"`
}

// ConfirmationDetail is a confirmation with its items, deliveries and linked
// orders. UnknownProducts lists products whose quantity could not be
// attributed to any ordering client.
type ConfirmationDetail struct {
	models.Confirmation
	UnknownProducts []string `json:"unknown_products,omitempty"`
}

// ExportResult is a rendered xlsx returned as a download.
type ExportResult struct {
	Filename string
	Content  []byte
}
