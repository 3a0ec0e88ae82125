package models

import (
	"github.com/shopspring/decimal"
)

// CartLine is the remote wire shape of a cart entry. The remote service does not
// enforce productId uniqueness inside a cart.
type CartLine struct {
	ProductID int `json:"productId" bson:"product_id" validate:"required,gt=0"`
	Quantity  int `json:"quantity" bson:"quantity" validate:"gt=0"`
}

// RemoteCart is a cart record as stored by the remote service.
type RemoteCart struct {
	ID       int        `json:"id"`
	UserID   int        `json:"userId"`
	Date     string     `json:"date"`
	Products []CartLine `json:"products"`
}

// CartPayload is the full body of a cart create or replace.
type CartPayload struct {
	UserID   int        `json:"userId" validate:"required,gt=0"`
	Date     string     `json:"date" validate:"omitempty,cartdate"`
	Products []CartLine `json:"products" validate:"dive"`
}

// CartPatch carries the fields of a partial cart update. Nil fields are left
// as they are on the cached record.
type CartPatch struct {
	UserID   *int       `json:"userId,omitempty" validate:"omitempty,gt=0"`
	Date     *string    `json:"date,omitempty" validate:"omitempty,cartdate"`
	Products []CartLine `json:"products,omitempty" validate:"omitempty,dive"`
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// CartFilter narrows GET /carts.
type CartFilter struct {
	StartDate string    `query:"startdate" validate:"omitempty,cartdate"`
	EndDate   string    `query:"enddate" validate:"omitempty,cartdate"`
	Sort      SortOrder `query:"sort" validate:"omitempty,oneof=asc desc"`
	Limit     int       `query:"limit" validate:"omitempty,gt=0"`
}

// LocalCartItem is a cart line joined with the product fields the UI renders.
type LocalCartItem struct {
	ID       int             `json:"id"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
}

// Subtotal is price times quantity.
func (i LocalCartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Line converts the item back to its wire shape.
func (i LocalCartItem) Line() CartLine {
	return CartLine{ProductID: i.ID, Quantity: i.Quantity}
}

// ToLines maps local items to remote cart lines, preserving order.
func ToLines(items []LocalCartItem) []CartLine {
	lines := make([]CartLine, len(items))
	for i, item := range items {
		lines[i] = item.Line()
	}
	return lines
}
