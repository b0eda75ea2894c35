package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ordertrack/ordertrack-backend/pkg/enums"
)

// PriceList is a dated supplier price sheet.
type PriceList struct {
	ID            uint               `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SupplierID    string             `gorm:"column:supplier_id;size:10;not null" json:"supplier_id"`
	PricelistDate time.Time          `gorm:"column:pricelist_date;type:date" json:"pricelist_date"`
	State         enums.ProductState `gorm:"column:state;size:50;default:'Valid'" json:"state"`
	StartsFrom    time.Time          `gorm:"column:starts_from;type:date" json:"starts_from"`
	Comment       *string            `gorm:"column:comment;size:450" json:"comment,omitempty"`
}

// ProductDetail is one priced product row within a price list.
type ProductDetail struct {
	ID          uint            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2)" json:"price"`
	ProductID   string          `gorm:"column:product_id;size:200;not null" json:"product_id"`
	PriceListID uint            `gorm:"column:price_list_id;not null" json:"price_list_id"`
}
