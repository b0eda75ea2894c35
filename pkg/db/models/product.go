package models

import "github.com/ordertrack/ordertrack-backend/pkg/enums"

// Product identifiers are the normalized part code with the brand id as a
// suffix after the final underscore, e.g. "12345678_B05".
type Product struct {
	ID          string             `gorm:"column:id;primaryKey;size:200" json:"id"`
	SecondID    *string            `gorm:"column:second_id;size:200;unique" json:"second_id,omitempty"`
	Name        string             `gorm:"column:name" json:"name"`
	Description *string            `gorm:"column:description" json:"description,omitempty"`
	BrandID     string             `gorm:"column:brand_id;size:10;not null" json:"brand_id"`
	State       enums.ProductState `gorm:"column:state;size:50;default:'Valid'" json:"state"`
	Comment     *string            `gorm:"column:comment;size:450" json:"comment,omitempty"`
}

// BrandIDFromProductID extracts the brand suffix after the last underscore.
// Returns an empty string when the id carries no brand suffix.
func BrandIDFromProductID(productID string) string {
	for i := len(productID) - 1; i >= 0; i-- {
		if productID[i] == '_' {
			return productID[i+1:]
		}
	}
	return ""
}
