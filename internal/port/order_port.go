package port

import (
	"context"

	"github.com/nikolayk812/cart-checkout/internal/domain"
)

type OrderRepository interface {
	Save(ctx context.Context, order *domain.Order) error
	// FindByID returns domain.ErrOrderNotFound when the order does not exist.
	FindByID(ctx context.Context, id domain.OrderID) (*domain.Order, error)
}

// Transactor runs fn with repositories bound to a single unit of work.
// If fn returns an error nothing fn saved is kept.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, carts CartRepository, orders OrderRepository) error) error
}
