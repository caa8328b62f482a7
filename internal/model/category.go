// internal/model/category.go
package model

type ProductCategory struct {
	ID           int    `db:"id" json:"id"`
	CategoryName string `db:"category_name" json:"category_name"`
	ProductURL   string `db:"product_url" json:"product_url"`
	IsActive     bool   `db:"is_active" json:"is_active"`
}
