package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/nikolayk812/cart-checkout/internal/reconcile"
)

type cartRepository struct {
	db  access
	now func() time.Time
}

func (r *cartRepository) FindByID(_ context.Context, id domain.CartID) (*domain.Cart, error) {
	var cart *domain.Cart

	err := r.db.read(func(t *tables) error {
		row, ok := t.carts[id.UUID]
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrCartNotFound, id)
		}
		if !row.expiresAt.After(r.now()) {
			return fmt.Errorf("%w: %s expired at %s", domain.ErrCartNotFound, id, row.expiresAt.Format(time.RFC3339))
		}

		items := make([]domain.CartItem, 0, len(t.cartItems[id.UUID]))
		for _, item := range t.cartItems[id.UUID] {
			items = append(items, item)
		}
		sortByCreation(items, domain.CartItem.CreatedAt, cartItemKey)

		var err error
		cart, err = domain.RestoreCart(id, row.ownerID, row.createdAt, row.expiresAt, items)
		return err
	})
	if err != nil {
		return nil, err
	}

	return cart, nil
}

func (r *cartRepository) Save(_ context.Context, cart *domain.Cart) error {
	if cart == nil {
		return fmt.Errorf("cart is nil")
	}

	return r.db.write(func(t *tables) error {
		id := cart.ID().UUID

		row, exists := t.carts[id]
		if !exists {
			owner, ok := cart.OwnerID()
			row = cartRow{createdAt: cart.CreatedAt()}
			if ok {
				row.ownerID = &owner
			}
		}

		stored := t.cartItems[id]
		if stored == nil {
			stored = make(map[uuid.UUID]domain.CartItem)
			t.cartItems[id] = stored
		}

		plan := reconcile.Build(stored, cart.Items(), cartItemKey, func(s, item domain.CartItem) bool {
			return !s.Quantity().Equal(item.Quantity()) || !s.UpdatedAt().Equal(item.UpdatedAt())
		})
		for _, k := range plan.Delete {
			delete(stored, k)
		}
		for _, item := range plan.Update {
			stored[item.ID().UUID] = item
		}
		for _, item := range plan.Insert {
			stored[item.ID().UUID] = item
		}

		row.expiresAt = cart.ExpiresAt()
		t.carts[id] = row

		return nil
	})
}

func cartItemKey(item domain.CartItem) uuid.UUID {
	return item.ID().UUID
}
