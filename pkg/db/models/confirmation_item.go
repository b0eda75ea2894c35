package models

import "github.com/shopspring/decimal"

// ConfirmationItem is a confirmed quantity attributed to one client.
// (confirmation, client, product) is unique.
type ConfirmationItem struct {
	ID             uint            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ConfirmationID string          `gorm:"column:confirmation_id;size:100;not null;uniqueIndex:idx_conf_client_product" json:"confirmation_id"`
	ClientID       string          `gorm:"column:client_id;size:10;not null;uniqueIndex:idx_conf_client_product" json:"client_id"`
	ProductID      string          `gorm:"column:product_id;size:200;not null;uniqueIndex:idx_conf_client_product" json:"product_id"`
	Quantity       int             `gorm:"column:quantity;not null" json:"quantity"`
	Price          decimal.Decimal `gorm:"column:price;type:numeric(10,2)" json:"price"`
	Comment        *string         `gorm:"column:comment;size:450" json:"comment,omitempty"`
}

// TotalAmount is price times quantity; zero when either is unset.
func (i ConfirmationItem) TotalAmount() decimal.Decimal {
	if i.Quantity == 0 || i.Price.IsZero() {
		return decimal.Zero
	}
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
