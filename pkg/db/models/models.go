package models

// All returns every model registered for schema migration, in dependency
// order.
func All() []any {
	return []any{
		&Client{},
		&Brand{},
		&Supplier{},
		&Product{},
		&PriceList{},
		&ProductDetail{},
		&Order{},
		&OrderItem{},
		&Confirmation{},
		&ConfirmationItem{},
		&ConfirmationDelivery{},
		&Invoice{},
		&InvoiceItem{},
		&OutboxEvent{},
	}
}
