package models

// OrderItem is an ordered quantity of one product for one client.
// (order, client, product) is unique.
type OrderItem struct {
	ID        uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID   string `gorm:"column:order_id;size:450;not null;uniqueIndex:idx_order_client_product" json:"order_id"`
	ClientID  string `gorm:"column:client_id;size:10;not null;uniqueIndex:idx_order_client_product" json:"client_id"`
	ProductID string `gorm:"column:product_id;size:200;not null;uniqueIndex:idx_order_client_product" json:"product_id"`
	Quantity  int    `gorm:"column:quantity;not null" json:"quantity"`
}
