package port

import (
	"context"

	"github.com/nikolayk812/cart-checkout/internal/domain"
)

type CartRepository interface {
	// Save reconciles the stored rows with the cart's current items.
	Save(ctx context.Context, cart *domain.Cart) error
	// FindByID returns domain.ErrCartNotFound for a missing or expired cart.
	FindByID(ctx context.Context, id domain.CartID) (*domain.Cart, error)
}
