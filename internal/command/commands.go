package command

import "github.com/shopspring/decimal"

// Cart Commands
type CreateCart struct {
	OwnerID string `json:"owner_id,omitempty"`
}

type AddCartItem struct {
	CartID      string          `json:"cart_id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Quantity    int             `json:"quantity"`
}

type UpdateCartItemQuantity struct {
	CartID   string `json:"cart_id"`
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

type RemoveCartItem struct {
	CartID string `json:"cart_id"`
	ItemID string `json:"item_id"`
}

// Checkout Commands
type ProcessCheckout struct {
	CartID string `json:"cart_id"`
}
