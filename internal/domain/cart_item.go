package domain

import "time"

// CartItem is a cart line. It is only mutated through its owning Cart.
type CartItem struct {
	id        CartItemID
	productID ProductID
	name      ProductName
	unitPrice Money
	quantity  Quantity
	createdAt time.Time
	updatedAt time.Time
}

// RestoreCartItem rebuilds a stored line for RestoreCart.
func RestoreCartItem(
	id CartItemID,
	productID ProductID,
	name ProductName,
	unitPrice Money,
	quantity Quantity,
	createdAt, updatedAt time.Time,
) CartItem {
	return CartItem{
		id:        id,
		productID: productID,
		name:      name,
		unitPrice: unitPrice,
		quantity:  quantity,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (i CartItem) ID() CartItemID { return i.id }
func (i CartItem) ProductID() ProductID { return i.productID }
func (i CartItem) Name() ProductName { return i.name }
func (i CartItem) UnitPrice() Money { return i.unitPrice }
func (i CartItem) Quantity() Quantity { return i.quantity }
func (i CartItem) CreatedAt() time.Time { return i.createdAt }
func (i CartItem) UpdatedAt() time.Time { return i.updatedAt }

// Subtotal is unit price x quantity. Cart keeps it within MaxMinorUnits.
func (i CartItem) Subtotal() Money {
	subtotal, _ := i.unitPrice.times(i.quantity)
	return subtotal
}
