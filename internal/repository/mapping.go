package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cart-checkout/internal/db"
	"github.com/nikolayk812/cart-checkout/internal/domain"
)

// Postgres keeps microseconds; compare at that precision so a round trip is not a change.
func sameInstant(a, b time.Time) bool {
	return a.Truncate(time.Microsecond).Equal(b.Truncate(time.Microsecond))
}

func ownerToNullUUID(id domain.UserID, ok bool) uuid.NullUUID {
	if !ok {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: id.UUID, Valid: true}
}

func ownerFromNullUUID(id uuid.NullUUID) *domain.UserID {
	if !id.Valid {
		return nil
	}
	return &domain.UserID{UUID: id.UUID}
}

func mapCartRowToDomain(row db.Cart, itemRows []db.CartItem) (*domain.Cart, error) {
	items := make([]domain.CartItem, 0, len(itemRows))

	for _, itemRow := range itemRows {
		item, err := mapCartItemRowToDomain(itemRow)
		if err != nil {
			return nil, fmt.Errorf("mapCartItemRowToDomain[%s]: %w", itemRow.ID, err)
		}

		items = append(items, item)
	}

	return domain.RestoreCart(
		domain.CartID{UUID: row.ID},
		ownerFromNullUUID(row.OwnerID),
		row.CreatedAt,
		row.ExpiresAt,
		items,
	)
}

func mapCartItemRowToDomain(row db.CartItem) (domain.CartItem, error) {
	name, price, quantity, err := mapLine(row.ProductName, row.UnitPriceMinor, row.UnitPriceCurrency, row.Quantity)
	if err != nil {
		return domain.CartItem{}, err
	}

	return domain.RestoreCartItem(
		domain.CartItemID{UUID: row.ID},
		domain.ProductID{UUID: row.ProductID},
		name,
		price,
		quantity,
		row.CreatedAt,
		row.UpdatedAt,
	), nil
}

func mapOrderRowToDomain(row db.Order, itemRows []db.OrderItem) (*domain.Order, error) {
	status, err := domain.ParseOrderStatus(row.Status)
	if err != nil {
		return nil, err
	}

	total, err := domain.NewMoney(row.TotalMinor, row.TotalCurrency)
	if err != nil {
		return nil, fmt.Errorf("total: %w", err)
	}

	items := make([]domain.OrderItem, 0, len(itemRows))
	for _, itemRow := range itemRows {
		item, err := mapOrderItemRowToDomain(itemRow)
		if err != nil {
			return nil, fmt.Errorf("mapOrderItemRowToDomain[%s]: %w", itemRow.ID, err)
		}

		items = append(items, item)
	}

	return domain.RestoreOrder(
		domain.OrderID{UUID: row.ID},
		ownerFromNullUUID(row.OwnerID),
		status,
		total,
		row.CreatedAt,
		row.UpdatedAt,
		items,
	)
}

func mapOrderItemRowToDomain(row db.OrderItem) (domain.OrderItem, error) {
	name, price, quantity, err := mapLine(row.ProductName, row.UnitPriceMinor, row.UnitPriceCurrency, row.Quantity)
	if err != nil {
		return domain.OrderItem{}, err
	}

	return domain.RestoreOrderItem(
		domain.OrderItemID{UUID: row.ID},
		domain.OrderID{UUID: row.OrderID},
		domain.ProductID{UUID: row.ProductID},
		name,
		price,
		quantity,
		row.CreatedAt,
		row.UpdatedAt,
	), nil
}

func mapLine(productName string, minor int64, currencyCode string, qty int32) (domain.ProductName, domain.Money, domain.Quantity, error) {
	name, err := domain.NewProductName(productName)
	if err != nil {
		return domain.ProductName{}, domain.Money{}, domain.Quantity{}, fmt.Errorf("product name: %w", err)
	}

	price, err := domain.NewMoney(minor, currencyCode)
	if err != nil {
		return domain.ProductName{}, domain.Money{}, domain.Quantity{}, fmt.Errorf("currency[%s] is not valid: %w", currencyCode, err)
	}

	quantity, err := domain.NewQuantity(int(qty))
	if err != nil {
		return domain.ProductName{}, domain.Money{}, domain.Quantity{}, fmt.Errorf("quantity: %w", err)
	}

	return name, price, quantity, nil
}
