package models

import (
	"github.com/shopspring/decimal"
)

type ProductRating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product is the catalog detail returned by GET /products/{id}.
type Product struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Rating      ProductRating   `json:"rating"`
}

// ProductQuery maps to GET /products and GET /products/category/{category}.
// Category "all" or empty lists every product.
type ProductQuery struct {
	Limit    int       `query:"limit" validate:"omitempty,gt=0"`
	Sort     SortOrder `query:"sort" validate:"omitempty,oneof=asc desc"`
	Category string    `query:"category"`
}

// CartItem builds a fresh local cart item (quantity 1) from product detail.
func (p Product) CartItem() LocalCartItem {
	return LocalCartItem{
		ID:       p.ID,
		Title:    p.Title,
		Price:    p.Price,
		Image:    p.Image,
		Quantity: 1,
	}
}
