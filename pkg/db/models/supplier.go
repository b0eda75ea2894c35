package models

// Supplier is a vendor that receives orders and issues confirmations.
type Supplier struct {
	ID      string  `gorm:"column:id;primaryKey;size:10" json:"id"`
	Name    string  `gorm:"column:name;size:100" json:"name"`
	Comment *string `gorm:"column:comment;size:450" json:"comment,omitempty"`
	Brands  []Brand `gorm:"many2many:supplier_brands" json:"brands,omitempty"`
}
