package ingest

import "github.com/shopspring/decimal"

// Staged payload kinds.
const (
	KindOrder        = "order"
	KindConfirmation = "confirmation"
)

// OrderRow is one normalized order line. The parser appends a trailing total
// row with an empty product id; consumers filter on Product != "".
type OrderRow struct {
	Product  string `json:"product"`
	SecondID string `json:"second_id"`
	Client   string `json:"client"`
	Quantity int    `json:"quantity"`
}

// ConfirmationRow is one normalized confirmation line. DeliveryRaw carries the
// delivery date as an epoch-millisecond string, or ""/"None" when the sheet
// had no usable date.
type ConfirmationRow struct {
	Product     string          `json:"product"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	DeliveryRaw string          `json:"delivery_date"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// StagedOrder is the pending-ingestion payload held between the order
// preview and commit requests.
type StagedOrder struct {
	OrderID    string     `json:"order_id"`
	OrderName  string     `json:"order_name"`
	SupplierID string     `json:"supplier_id"`
	Rows       []OrderRow `json:"rows"`
}

// StagedConfirmation is the pending-ingestion payload for confirmations.
type StagedConfirmation struct {
	ConfirmationCode string            `json:"confirmation_code"`
	Name             string            `json:"name"`
	SupplierID       string            `json:"supplier_id"`
	Rows             []ConfirmationRow `json:"rows"`
}
