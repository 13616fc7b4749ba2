package models

import (
	"bytes"
	"encoding/json"
)

// Product is one row of the products table. The database schema is the
// source of truth; the tags only describe it for tests and local sqlite runs.
type Product struct {
	ID          uint64  `gorm:"primaryKey;autoIncrement"    json:"id"`
	Name        string  `gorm:"size:255;not null"           json:"name"`
	Description *string `gorm:"type:text"                   json:"description"`
	Price       float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	Img         *string `gorm:"size:255"                    json:"img"`
}

func (Product) TableName() string { return "products" }

// ProductInput carries the four client-writable columns. Field types are
// not checked here: an absent field is written as NULL and every value is
// left for the database to accept or reject.
type ProductInput struct {
	Name        Value `json:"name"`
	Description Value `json:"description"`
	Price       Value `json:"price"`
	Img         Value `json:"img"`
}

// UnmarshalJSON reads the fields of a JSON object. A JSON array carries no
// fields and leaves every column NULL.
func (in *ProductInput) UnmarshalJSON(b []byte) error {
	if t := bytes.TrimSpace(b); len(t) > 0 && t[0] == '[' {
		*in = ProductInput{}
		return nil
	}
	type fields ProductInput
	return json.Unmarshal(b, (*fields)(in))
}

// Columns maps the input onto column names for a full-row write.
func (in ProductInput) Columns() map[string]interface{} {
	return map[string]interface{}{
		"name":        in.Name,
		"description": in.Description,
		"price":       in.Price,
		"img":         in.Img,
	}
}
