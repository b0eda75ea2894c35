package models

// UnknownClientID is the sentinel client that absorbs confirmed quantity
// which cannot be attributed to any ordered client.
const UnknownClientID = "Unknown"

// Client is a buyer the business orders on behalf of.
type Client struct {
	ID      string  `gorm:"column:id;primaryKey;size:10" json:"id"`
	Name    string  `gorm:"column:name;size:100" json:"name"`
	Comment *string `gorm:"column:comment;size:450" json:"comment,omitempty"`
}
