package directory

import (
	"github.com/shopspring/decimal"

	"github.com/ordertrack/ordertrack-backend/pkg/db/models"
	"github.com/ordertrack/ordertrack-backend/pkg/enums"
)

// ClientInput creates a client directory entry.
type ClientInput struct {
	ID      string  `json:"id" validate:"required,max=10"`
	Name    string  `json:"name" validate:"required,max=100"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=450"`
}

// BrandInput creates a brand directory entry.
type BrandInput struct {
	ID      string  `json:"id" validate:"required,max=10"`
	Name    string  `json:"name" validate:"required,max=100"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=450"`
}

// SupplierInput creates a supplier with its carried brands.
type SupplierInput struct {
	ID       string   `json:"id" validate:"required,max=10"`
	Name     string   `json:"name" validate:"required,max=100"`
	Comment  *string  `json:"comment,omitempty" validate:"omitempty,max=450"`
	BrandIDs []string `json:"brand_ids,omitempty" validate:"omitempty,dive,required,max=10"`
}

// ProductInput creates a product directory entry.
type ProductInput struct {
	ID          string             `json:"id" validate:"required,max=200"`
	SecondID    *string            `json:"second_id,omitempty" validate:"omitempty,max=200"`
	Name        string             `json:"name" validate:"required"`
	Description *string            `json:"description,omitempty"`
	BrandID     string             `json:"brand_id" validate:"required,max=10"`
	State       enums.ProductState `json:"state,omitempty" validate:"omitempty,oneof=Valid Invalid"`
	Comment     *string            `json:"comment,omitempty" validate:"omitempty,max=450"`
}

// UpdateInput edits the mutable fields shared by simple directory entries.
type UpdateInput struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=450"`
}

// SupplierUpdateInput edits supplier metadata and brand links.
type SupplierUpdateInput struct {
	Name     *string   `json:"name,omitempty" validate:"omitempty,max=100"`
	Comment  *string   `json:"comment,omitempty" validate:"omitempty,max=450"`
	BrandIDs *[]string `json:"brand_ids,omitempty" validate:"omitempty,dive,required,max=10"`
}

// ProductUpdateInput edits product metadata.
type ProductUpdateInput struct {
	SecondID    *string             `json:"second_id,omitempty" validate:"omitempty,max=200"`
	Name        *string             `json:"name,omitempty"`
	Description *string             `json:"description,omitempty"`
	BrandID     *string             `json:"brand_id,omitempty" validate:"omitempty,max=10"`
	State       *enums.ProductState `json:"state,omitempty" validate:"omitempty,oneof=Valid Invalid"`
	Comment     *string             `json:"comment,omitempty" validate:"omitempty,max=450"`
}

// ProductSummary is a product with its current price from the latest valid
// price list, when one exists.
type ProductSummary struct {
	models.Product
	CurrentPrice *decimal.Decimal `json:"current_price,omitempty"`
}
