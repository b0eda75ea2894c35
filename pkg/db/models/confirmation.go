package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Confirmation is a supplier response against one or more orders. The id is
// the supplier-issued confirmation code.
type Confirmation struct {
	ID               string                 `gorm:"column:id;primaryKey;size:100" json:"id"`
	Name             string                 `gorm:"column:name;size:250;unique" json:"name"`
	ConfirmationCode string                 `gorm:"column:confirmation_code;size:10;unique" json:"confirmation_code"`
	ConfirmationDate time.Time              `gorm:"column:confirmation_date;type:date;not null" json:"confirmation_date"`
	SupplierID       string                 `gorm:"column:supplier_id;size:10;not null" json:"supplier_id"`
	Comment          *string                `gorm:"column:comment;size:450" json:"comment,omitempty"`
	Orders           []Order                `gorm:"many2many:confirmation_orders" json:"orders,omitempty"`
	Items            []ConfirmationItem     `gorm:"foreignKey:ConfirmationID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Deliveries       []ConfirmationDelivery `gorm:"foreignKey:ConfirmationID;constraint:OnDelete:CASCADE" json:"deliveries,omitempty"`
	CreatedAt        time.Time              `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time              `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TotalAmount sums price*quantity over the loaded items.
func (c Confirmation) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.TotalAmount())
	}
	return total
}
