package models

// Brand is a product line carried by one or more suppliers.
type Brand struct {
	ID      string  `gorm:"column:id;primaryKey;size:10" json:"id"`
	Name    string  `gorm:"column:name;size:100" json:"name"`
	Comment *string `gorm:"column:comment;size:450" json:"comment,omitempty"`
}
