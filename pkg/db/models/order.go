package models

import (
	"strings"
	"time"
)

// Order is a purchase request sent to a supplier, split into per-client,
// per-product line items. The id is derived from the upload filename.
type Order struct {
	ID         string      `gorm:"column:id;primaryKey;size:450" json:"id"`
	Name       string      `gorm:"column:name;size:450;not null" json:"name"`
	OrderDate  time.Time   `gorm:"column:order_date;type:date;not null" json:"order_date"`
	SupplierID string      `gorm:"column:supplier_id;size:10;not null" json:"supplier_id"`
	Comment    *string     `gorm:"column:comment;size:450" json:"comment,omitempty"`
	Items      []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt  time.Time   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TotalQuantity sums the loaded item quantities.
func (o Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// OrderNameToID derives the order identifier from the upload filename:
// the first dash-separated token kept as-is, the remainder uppercased with
// spaces and dots stripped.
func OrderNameToID(filename string) string {
	withoutExt := filename
	if idx := strings.LastIndex(filename, "."); idx >= 0 {
		withoutExt = filename[:idx]
	}
	normalized := strings.ToUpper(withoutExt)
	normalized = strings.ReplaceAll(normalized, " ", "")
	normalized = strings.ReplaceAll(normalized, ".", "")
	tail := ""
	if parts := strings.SplitN(normalized, "-", 2); len(parts) == 2 {
		tail = parts[1]
	}
	head := strings.TrimSpace(strings.SplitN(withoutExt, "-", 2)[0])
	return head + "-" + tail
}
