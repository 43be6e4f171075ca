package domain

import (
	"fmt"
	"math"
	"strings"
)

// MaxQuantity is the largest count a line can hold; quantities are stored as INTEGER.
const MaxQuantity = math.MaxInt32

// Quantity is an item count in [1, MaxQuantity].
type Quantity struct {
	value int
}

func NewQuantity(v int) (Quantity, error) {
	if v <= 0 || v > MaxQuantity {
		return Quantity{}, fmt.Errorf("%w: %d", ErrInvalidQuantity, v)
	}

	return Quantity{value: v}, nil
}

func (q Quantity) Int() int {
	return q.value
}

// Increase adds other to q. The sum must still be a valid Quantity.
func (q Quantity) Increase(other Quantity) (Quantity, error) {
	if q.value > MaxQuantity-other.value {
		return Quantity{}, fmt.Errorf("%w: %d + %d", ErrInvalidQuantity, q.value, other.value)
	}

	return Quantity{value: q.value + other.value}, nil
}

func (q Quantity) Equal(other Quantity) bool {
	return q.value == other.value
}

type ProductName struct {
	value string
}

func NewProductName(s string) (ProductName, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ProductName{}, ErrEmptyProductName
	}

	return ProductName{value: trimmed}, nil
}

func (n ProductName) String() string {
	return n.value
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidOrderStatus, s)
	}

	return status, nil
}

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}
