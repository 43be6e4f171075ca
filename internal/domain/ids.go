package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Identifiers wrap uuid.UUID so they stay comparable with == and can be passed
// straight to pgx through the embedded value.

type CartID struct{ uuid.UUID }

type CartItemID struct{ uuid.UUID }

type OrderID struct{ uuid.UUID }

type OrderItemID struct{ uuid.UUID }

type ProductID struct{ uuid.UUID }

type UserID struct{ uuid.UUID }

func NewCartID() CartID { return CartID{uuid.New()} }
func NewCartItemID() CartItemID { return CartItemID{uuid.New()} }
func NewOrderID() OrderID { return OrderID{uuid.New()} }
func NewOrderItemID() OrderItemID { return OrderItemID{uuid.New()} }
func NewProductID() ProductID { return ProductID{uuid.New()} }
func NewUserID() UserID { return UserID{uuid.New()} }

func ParseCartID(s string) (CartID, error) {
	u, err := parseV4(s)
	return CartID{u}, err
}

func ParseCartItemID(s string) (CartItemID, error) {
	u, err := parseV4(s)
	return CartItemID{u}, err
}

func ParseOrderID(s string) (OrderID, error) {
	u, err := parseV4(s)
	return OrderID{u}, err
}

func ParseOrderItemID(s string) (OrderItemID, error) {
	u, err := parseV4(s)
	return OrderItemID{u}, err
}

func ParseProductID(s string) (ProductID, error) {
	u, err := parseV4(s)
	return ProductID{u}, err
}

func ParseUserID(s string) (UserID, error) {
	u, err := parseV4(s)
	return UserID{u}, err
}

// parseV4 accepts only the canonical 36-character form of a random (version 4,
// RFC 4122 variant) UUID. uuid.Parse alone also accepts urn: and braced forms.
func parseV4(s string) (uuid.UUID, error) {
	if len(s) != 36 {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidUUID, s)
	}

	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidUUID, s)
	}

	if u.Version() != 4 || u.Variant() != uuid.RFC4122 {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidUUID, s)
	}

	return u, nil
}
