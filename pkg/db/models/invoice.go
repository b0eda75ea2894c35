package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a supplier bill; (name, invoice_date) is unique.
type Invoice struct {
	ID          uint          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string        `gorm:"column:name;size:250;uniqueIndex:idx_invoice_name_date" json:"name"`
	InvoiceDate time.Time     `gorm:"column:invoice_date;type:date;uniqueIndex:idx_invoice_name_date" json:"invoice_date"`
	SupplierID  string        `gorm:"column:supplier_id;size:10;not null" json:"supplier_id"`
	Comment     *string       `gorm:"column:comment;size:450" json:"comment,omitempty"`
	Items       []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// InvoiceItem bills a confirmed item quantity.
type InvoiceItem struct {
	ID                 uint            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	InvoiceID          uint            `gorm:"column:invoice_id;not null" json:"invoice_id"`
	ConfirmationItemID *uint           `gorm:"column:confirmation_item_id" json:"confirmation_item_id,omitempty"`
	Quantity           int             `gorm:"column:quantity;not null" json:"quantity"`
	Price              decimal.Decimal `gorm:"column:price;type:numeric(10,2)" json:"price"`
}
