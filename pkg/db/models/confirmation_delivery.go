package models

import "time"

// ConfirmationDelivery is a promised delivery of one product on one date.
// (confirmation, product, delivery_date) is unique.
type ConfirmationDelivery struct {
	ID             uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ConfirmationID string     `gorm:"column:confirmation_id;size:100;not null;uniqueIndex:idx_conf_product_delivery" json:"confirmation_id"`
	ProductID      string     `gorm:"column:product_id;size:200;not null;uniqueIndex:idx_conf_product_delivery" json:"product_id"`
	Quantity       int        `gorm:"column:quantity;not null" json:"quantity"`
	DeliveryDate   *time.Time `gorm:"column:delivery_date;type:date;uniqueIndex:idx_conf_product_delivery" json:"delivery_date,omitempty"`
}
