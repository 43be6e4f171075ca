package domain

import "time"

// OrderItem is a point-in-time copy of a cart line. It has no mutators.
type OrderItem struct {
	id        OrderItemID
	orderID   OrderID
	productID ProductID
	name      ProductName
	unitPrice Money
	quantity  Quantity
	createdAt time.Time
	updatedAt time.Time
}

func RestoreOrderItem(
	id OrderItemID,
	orderID OrderID,
	productID ProductID,
	name ProductName,
	unitPrice Money,
	quantity Quantity,
	createdAt, updatedAt time.Time,
) OrderItem {
	return OrderItem{
		id:        id,
		orderID:   orderID,
		productID: productID,
		name:      name,
		unitPrice: unitPrice,
		quantity:  quantity,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (i OrderItem) ID() OrderItemID { return i.id }
func (i OrderItem) OrderID() OrderID { return i.orderID }
func (i OrderItem) ProductID() ProductID { return i.productID }
func (i OrderItem) Name() ProductName { return i.name }
func (i OrderItem) UnitPrice() Money { return i.unitPrice }
func (i OrderItem) Quantity() Quantity { return i.quantity }
func (i OrderItem) CreatedAt() time.Time { return i.createdAt }
func (i OrderItem) UpdatedAt() time.Time { return i.updatedAt }

// Subtotal is unit price x quantity. Order keeps it within MaxMinorUnits.
func (i OrderItem) Subtotal() Money {
	subtotal, _ := i.unitPrice.times(i.quantity)
	return subtotal
}
